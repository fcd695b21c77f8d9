// Package cdrom provides ISO 9660 volume descriptor reading.
// This file locates the primary volume descriptor inside a track's data file.
package cdrom

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hansbonini/mdstools/pkg/common"
	"github.com/hansbonini/mdstools/pkg/mds"
)

// Volume descriptor constants
const (
	DescriptorSector      = 16 // Logical sector of the first volume descriptor
	PrimaryVolumeType     = 0x01
	StandardIdentifier    = "CD001"
	DescriptorVersion     = 0x01
	volumeDescriptorBytes = DataSize
)

// ErrNoVolumeDescriptor is returned when a track has no ISO 9660 primary volume descriptor
var ErrNoVolumeDescriptor = errors.New("no ISO 9660 primary volume descriptor")

// VolumeDescriptor holds the identifying fields of an ISO 9660 primary
// volume descriptor. Identifiers are stored space padded; the padding is
// removed.
type VolumeDescriptor struct {
	SystemID         string
	VolumeID         string
	VolumeSetID      string
	PublisherID      string
	DataPreparerID   string
	ApplicationID    string
	VolumeSpaceSize  uint32 // Logical blocks in the volume
	LogicalBlockSize uint16
	Created          string // YYYYMMDDHHMMSS, empty when not recorded
}

// ReadVolumeDescriptor reads the primary volume descriptor of track from
// src, the track's data file.
func ReadVolumeDescriptor(src io.ReaderAt, track *mds.Track) (*VolumeDescriptor, error) {
	userOffset, err := UserDataOffset(track.Mode, track.SectorDataSize())
	if err != nil {
		return nil, err
	}
	if track.NumSectors() <= DescriptorSector {
		return nil, fmt.Errorf("%w: track has only %d sectors", ErrNoVolumeDescriptor, track.NumSectors())
	}

	start, err := common.SafeUint64ToInt64(track.StartOffset)
	if err != nil {
		return nil, err
	}
	offset := start + DescriptorSector*int64(track.SectorSize) + int64(userOffset)

	data := make([]byte, volumeDescriptorBytes)
	if n, err := src.ReadAt(data, offset); err != nil && !(errors.Is(err, io.EOF) && n == len(data)) {
		return nil, fmt.Errorf("failed to read volume descriptor at 0x%X: %w", offset, err)
	}

	return ParseVolumeDescriptor(data)
}

// ParseVolumeDescriptor decodes a 2048 byte primary volume descriptor
func ParseVolumeDescriptor(data []byte) (*VolumeDescriptor, error) {
	if len(data) < volumeDescriptorBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrNoVolumeDescriptor, len(data))
	}
	if data[0] != PrimaryVolumeType || string(data[1:6]) != StandardIdentifier || data[6] != DescriptorVersion {
		return nil, fmt.Errorf("%w: got type 0x%02X id %q", ErrNoVolumeDescriptor, data[0], data[1:6])
	}

	// Both-endian fields are read from their little endian half
	return &VolumeDescriptor{
		SystemID:         identifier(data[8:40]),
		VolumeID:         identifier(data[40:72]),
		VolumeSpaceSize:  binary.LittleEndian.Uint32(data[80:84]),
		LogicalBlockSize: binary.LittleEndian.Uint16(data[128:130]),
		VolumeSetID:      identifier(data[190:318]),
		PublisherID:      identifier(data[318:446]),
		DataPreparerID:   identifier(data[446:574]),
		ApplicationID:    identifier(data[574:702]),
		Created:          timestamp(data[813:830]),
	}, nil
}

// identifier trims the space (or NUL) padding of a d-character field
func identifier(field []byte) string {
	return strings.TrimRight(string(field), " \x00")
}

// timestamp returns the digits of a 17 byte dec-datetime, dropping the
// hundredths and timezone. Unset dates are all '0' or all NUL.
func timestamp(field []byte) string {
	digits := field[:14]
	if bytes.Count(digits, []byte{'0'}) == len(digits) || bytes.Count(digits, []byte{0}) == len(digits) {
		return ""
	}
	return string(digits)
}

// Package cdrom provides CD-ROM sector layouts and ISO 9660 volume probing
// for the tracks of a decoded MDS file.
package cdrom

import (
	"errors"
	"fmt"

	"github.com/hansbonini/mdstools/pkg/mds"
)

// Sector layout constants
const (
	RawSectorSize  = 2352 // Full CD sector size
	DataSize       = 2048 // User data of a Mode 1 or Mode 2 Form 1 sector
	XADataSize     = 2336 // Mode 2 sector without sync and header
	SyncSize       = 12   // Sync pattern size
	HeaderSize     = 4    // Header size (3 address bytes + 1 mode byte)
	XASubHeaderLen = 8    // Mode 2 subheader (written twice)
)

var (
	// ErrAudioTrack is returned when user data is requested from an audio track
	ErrAudioTrack = errors.New("audio tracks hold no user data")

	// ErrUnsupportedLayout is returned for sector layouts without 2048 byte user data
	ErrUnsupportedLayout = errors.New("unsupported sector layout")
)

// UserDataOffset returns where the 2048 bytes of user data start inside a
// stored sector of dataSize bytes (subchannel bytes excluded).
//
//	Mode 1, 2352:         sync(12) + header(4) + data(2048) + edc/ecc(288)
//	Mode 2 Form 1, 2352:  sync(12) + header(4) + subheader(8) + data(2048) + edc/ecc(280)
//	Mode 2 Form 1, 2336:  subheader(8) + data(2048) + edc/ecc(280)
//	Cooked, 2048:         data(2048)
func UserDataOffset(mode mds.TrackMode, dataSize int) (int, error) {
	if mode == mds.TrackModeAudio {
		return 0, ErrAudioTrack
	}

	switch {
	case dataSize == DataSize && mode != mds.TrackModeMode2Form2:
		return 0, nil
	case dataSize == RawSectorSize && mode == mds.TrackModeMode1:
		return SyncSize + HeaderSize, nil
	case dataSize == RawSectorSize && (mode == mds.TrackModeMode2 || mode == mds.TrackModeMode2Form1):
		return SyncSize + HeaderSize + XASubHeaderLen, nil
	case dataSize == XADataSize && (mode == mds.TrackModeMode2 || mode == mds.TrackModeMode2Form1):
		return XASubHeaderLen, nil
	}

	return 0, fmt.Errorf("%w: %s with %d byte sectors", ErrUnsupportedLayout, mode, dataSize)
}

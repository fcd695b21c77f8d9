// Package mdstest builds MDS files and track data in memory for tests.
package mdstest

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

// Layout sizes used by Image.Bytes
const (
	headerSize        = 0x58 // 0x54 decoded bytes padded to a multiple of 8
	sessionSize       = 0x18
	trackSize         = 0x50
	indexBlockSize    = 0x08
	filenameBlockSize = 0x10
)

// Track describes one track record. A zero Index leaves the index block
// pointer empty; an empty Filename leaves the filename pointer empty.
type Track struct {
	Mode        uint8
	SubChannels uint8
	AdrControl  uint8
	TrackNumber uint8
	Point       uint8
	Minute      uint8
	Second      uint8
	Frame       uint8
	SectorSize  uint16
	StartSector int32
	StartOffset uint64

	Index *[2]uint32 // Index 0 and index 1 sector counts

	Filename      string
	NameEncoding  uint8  // 1 stores Filename as UTF-16LE, any other value as 8-bit
	FilenameCount uint32 // Defaults to 1 when Filename is set
}

// Session describes one session record and its track table
type Session struct {
	StartSector int32
	EndSector   int32
	Tracks      []Track
}

// Image describes a complete MDS file
type Image struct {
	Version   [2]uint8
	MediaType uint16
	Sessions  []Session
}

// DataTrack returns a typical data track record: point 1, MSF 00:00:00, a
// 2352 byte Mode 1 sector and a "*.mdf" data file.
func DataTrack(sectors uint32) Track {
	return Track{
		Mode:       0xAA,
		AdrControl: 0x14,
		Point:      1,
		SectorSize: 0x930,
		Index:      &[2]uint32{0, sectors},
		Filename:   "*.mdf",
	}
}

// LeadIn returns a TOC marker record with the given point
func LeadIn(point uint8) Track {
	return Track{Mode: 0xAA, AdrControl: 0x14, Point: point}
}

// SingleTrack returns a one session, one data track CD-ROM image
func SingleTrack(sectors uint32) Image {
	return Image{
		Version: [2]uint8{1, 3},
		Sessions: []Session{{
			StartSector: -150,
			EndSector:   int32(sectors),
			Tracks: []Track{
				LeadIn(0xA0), LeadIn(0xA1), LeadIn(0xA2),
				DataTrack(sectors),
			},
		}},
	}
}

// Bytes serialises the image. Records are laid out as Alcohol writes them:
// header, session table, track tables, index blocks, filename blocks and
// finally the name strings.
func (img Image) Bytes() []byte {
	var tracks []Track
	trackTables := make([]uint32, len(img.Sessions))

	off := uint32(headerSize + len(img.Sessions)*sessionSize)
	for i, s := range img.Sessions {
		trackTables[i] = off
		off += uint32(len(s.Tracks) * trackSize)
		tracks = append(tracks, s.Tracks...)
	}

	indexOffsets := make([]uint32, len(tracks))
	for i, t := range tracks {
		if t.Index != nil {
			indexOffsets[i] = off
			off += indexBlockSize
		}
	}

	filenameOffsets := make([]uint32, len(tracks))
	for i, t := range tracks {
		if t.Filename != "" {
			filenameOffsets[i] = off
			off += filenameBlockSize
		}
	}

	names := make([][]byte, len(tracks))
	nameOffsets := make([]uint32, len(tracks))
	for i, t := range tracks {
		if t.Filename != "" {
			names[i] = encodeName(t.Filename, t.NameEncoding)
			nameOffsets[i] = off
			off += uint32(len(names[i]))
		}
	}

	buf := new(bytes.Buffer)

	// Header
	buf.WriteString("MEDIA DESCRIPTOR")
	buf.Write(img.Version[:])
	write(buf, img.MediaType)
	write(buf, uint16(len(img.Sessions)))
	buf.Write(make([]byte, 0x3A))
	write(buf, uint32(headerSize))
	buf.Write(make([]byte, headerSize-0x54))

	// Session table
	for i, s := range img.Sessions {
		leadIn := 0
		for _, t := range s.Tracks {
			if t.Point >= 0xA0 {
				leadIn++
			}
		}
		write(buf, s.StartSector)
		write(buf, s.EndSector)
		write(buf, uint16(i+1))
		write(buf, uint8(len(s.Tracks)))
		write(buf, uint8(leadIn))
		write(buf, uint16(1))
		write(buf, uint16(len(s.Tracks)-leadIn))
		write(buf, uint32(0))
		write(buf, trackTables[i])
	}

	// Track tables
	for i, t := range tracks {
		count := t.FilenameCount
		if count == 0 && t.Filename != "" {
			count = 1
		}
		buf.Write([]byte{t.Mode, t.SubChannels, t.AdrControl, t.TrackNumber, t.Point})
		buf.Write(make([]byte, 4))
		buf.Write([]byte{t.Minute, t.Second, t.Frame})
		write(buf, indexOffsets[i])
		write(buf, t.SectorSize)
		buf.Write(make([]byte, 0x12))
		write(buf, t.StartSector)
		write(buf, t.StartOffset)
		write(buf, count)
		write(buf, filenameOffsets[i])
		buf.Write(make([]byte, 0x18))
	}

	// Index blocks
	for _, t := range tracks {
		if t.Index != nil {
			write(buf, t.Index[0])
			write(buf, t.Index[1])
		}
	}

	// Filename blocks
	for i, t := range tracks {
		if t.Filename != "" {
			write(buf, nameOffsets[i])
			write(buf, t.NameEncoding)
			buf.Write(make([]byte, filenameBlockSize-5))
		}
	}

	// Name strings
	for _, name := range names {
		buf.Write(name)
	}

	return buf.Bytes()
}

// Sectors returns count sectors of sectorSize bytes. The first
// sectorSize-subchannelSize bytes of sector i hold byte(i+1), the rest 0xEE,
// so tests can tell user data from subchannel data.
func Sectors(count, sectorSize, subchannelSize int) []byte {
	data := make([]byte, 0, count*sectorSize)
	for i := 0; i < count; i++ {
		data = append(data, bytes.Repeat([]byte{byte(i + 1)}, sectorSize-subchannelSize)...)
		data = append(data, bytes.Repeat([]byte{0xEE}, subchannelSize)...)
	}
	return data
}

// Stripped returns what Sectors looks like after removing the subchannel bytes
func Stripped(count, sectorSize, subchannelSize int) []byte {
	data := make([]byte, 0, count*(sectorSize-subchannelSize))
	for i := 0; i < count; i++ {
		data = append(data, bytes.Repeat([]byte{byte(i + 1)}, sectorSize-subchannelSize)...)
	}
	return data
}

func encodeName(name string, encoding uint8) []byte {
	if encoding != 1 {
		return append([]byte(name), 0)
	}
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.Bytes([]byte(name))
	if err != nil {
		panic(err)
	}
	return append(out, 0, 0)
}

func write(buf *bytes.Buffer, v any) {
	// Writes to a bytes.Buffer only fail for unsupported types
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
}

// PrimaryVolumeDescriptor returns a 2048 byte ISO 9660 primary volume
// descriptor naming the volume and its size in blocks.
func PrimaryVolumeDescriptor(volumeID string, blocks uint32) []byte {
	pvd := bytes.Repeat([]byte{' '}, 2048)
	pvd[0] = 0x01
	copy(pvd[1:], "CD001")
	pvd[6] = 0x01
	pvd[7] = 0
	copy(pvd[8:40], "PLAYSTATION")
	copy(pvd[40:72], volumeID)
	binary.LittleEndian.PutUint32(pvd[80:], blocks)
	binary.BigEndian.PutUint32(pvd[84:], blocks)
	binary.LittleEndian.PutUint16(pvd[128:], 2048)
	binary.BigEndian.PutUint16(pvd[130:], 2048)
	copy(pvd[318:446], "MDSTOOLS")
	copy(pvd[813:830], "2001011512000000\x00")
	return pvd
}

// WithVolume returns count sectors of sectorSize bytes with the primary
// volume descriptor pvd stored at userOffset inside sector 16.
func WithVolume(count, sectorSize, userOffset int, pvd []byte) []byte {
	data := make([]byte, count*sectorSize)
	copy(data[16*sectorSize+userOffset:], pvd)
	return data
}

package mds

import (
	"fmt"

	"github.com/hansbonini/mdstools/pkg/common"
)

// TrackSize is the size of a track (data block) record in bytes
const TrackSize = 0x50

// IndexBlockSize is the size of an index block in bytes
const IndexBlockSize = 0x08

// FirstLeadInPoint is the lowest TOC point used by lead-in/out markers
const FirstLeadInPoint = 0xA0

// TrackMode is the sector layout of a track
type TrackMode uint8

// Track modes
const (
	TrackModeNone TrackMode = iota
	TrackModeAudio
	TrackModeMode1
	TrackModeMode2
	TrackModeMode2Form1
	TrackModeMode2Form2
	TrackModeUnknown
)

// trackModes maps the on-disk mode byte to a TrackMode
var trackModes = map[uint8]TrackMode{
	0x00: TrackModeNone,
	0xA9: TrackModeAudio,
	0xAA: TrackModeMode1,
	0xAB: TrackModeMode2,
	0xAC: TrackModeMode2Form1,
	0xAD: TrackModeMode2Form2,
	0xEC: TrackModeMode2, // Mode 2 dumped together with subchannel data
}

// TrackModeFromByte classifies a raw mode byte. Bytes outside the table map
// to TrackModeUnknown; the caller keeps the raw byte.
func TrackModeFromByte(b uint8) TrackMode {
	if m, ok := trackModes[b]; ok {
		return m
	}
	return TrackModeUnknown
}

func (m TrackMode) String() string {
	switch m {
	case TrackModeNone:
		return "None"
	case TrackModeAudio:
		return "Audio"
	case TrackModeMode1:
		return "Mode1"
	case TrackModeMode2:
		return "Mode2"
	case TrackModeMode2Form1:
		return "Mode2Form1"
	case TrackModeMode2Form2:
		return "Mode2Form2"
	default:
		return "Unknown"
	}
}

// SubChannels describes the subchannel bytes appended to every sector
type SubChannels uint8

// Subchannel layouts
const (
	SubChannelsNone  SubChannels = 0x00
	SubChannelsEight SubChannels = 0x08
)

// Size returns the number of subchannel bytes at the end of each sector
func (s SubChannels) Size() int {
	if s == SubChannelsEight {
		return 0x60 // 96 bytes, 12 for each of the 8 subchannels P-W
	}
	return 0
}

func (s SubChannels) String() string {
	switch s {
	case SubChannelsNone:
		return "None"
	case SubChannelsEight:
		return "Eight"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", uint8(s))
	}
}

func subChannelsFromByte(b uint8) (SubChannels, error) {
	switch s := SubChannels(b); s {
	case SubChannelsNone, SubChannelsEight:
		return s, nil
	default:
		return 0, fmt.Errorf("%w: 0x%02X", ErrUnknownSubchannel, b)
	}
}

// IndexBlock holds the sector counts of a track's index 0 (pregap) and index 1 (body)
type IndexBlock struct {
	Index0Sectors uint32
	Index1Sectors uint32
}

// rawTrack mirrors the on-disk track record
type rawTrack struct {
	Mode             uint8
	SubChannels      uint8
	AdrControl       uint8
	TrackNumber      uint8
	Point            uint8
	Reserved1        [4]byte
	Minute           uint8
	Second           uint8
	Frame            uint8
	IndexBlockOffset uint32
	SectorSize       uint16
	Reserved2        [0x12]byte
	StartSector      int32
	StartOffset      uint64
	FilenameCount    uint32
	FilenameOffset   uint32
	Reserved3        [0x18]byte
}

// Track is one entry of a session's track table. Entries with Point >= 0xA0
// are TOC markers rather than user data.
type Track struct {
	Mode        TrackMode
	RawMode     uint8 // Mode byte as stored, kept for TrackModeUnknown
	SubChannels SubChannels
	AdrControl  uint8
	TrackNumber uint8
	Point       uint8

	// Raw MSF start of the track as recorded in the TOC
	Minute uint8
	Second uint8
	Frame  uint8

	SectorSize  uint16 // Includes subchannel bytes
	StartSector int32
	StartOffset uint64 // Byte offset of the first sector in the data file

	Index         *IndexBlock // nil when the record has no index block
	Filename      *Filename   // nil when the record names no data file
	FilenameCount uint32
}

// IsData reports whether the track holds user data rather than a TOC marker
func (t *Track) IsData() bool {
	return t.Point < FirstLeadInPoint
}

// ModeString describes the mode, including the raw byte for unknown modes
func (t *Track) ModeString() string {
	if t.Mode == TrackModeUnknown {
		return fmt.Sprintf("Unknown(0x%02X)", t.RawMode)
	}
	return t.Mode.String()
}

// SubchannelSize returns the subchannel bytes at the end of each sector
func (t *Track) SubchannelSize() int {
	return t.SubChannels.Size()
}

// SectorDataSize returns the bytes of each sector that are kept on conversion
func (t *Track) SectorDataSize() int {
	return int(t.SectorSize) - t.SubchannelSize()
}

// NumSectors returns the number of sectors in the track body (0 without index block)
func (t *Track) NumSectors() int64 {
	if t.Index == nil {
		return 0
	}
	return int64(t.Index.Index1Sectors)
}

// Timecode returns the raw MSF start of the track
func (t *Track) Timecode() common.Timecode {
	return common.FromMSF(int(t.Minute), int(t.Second), int(t.Frame))
}

// DataFilename returns the path of the file holding this track's sectors,
// resolved relative to the MDS file at mdsPath.
func (t *Track) DataFilename(mdsPath string) (string, bool) {
	if t.Filename == nil {
		return "", false
	}
	return t.Filename.Resolve(mdsPath), true
}

// clone returns a copy of t with its own index and filename blocks
func (t Track) clone() Track {
	if t.Index != nil {
		index := *t.Index
		t.Index = &index
	}
	if t.Filename != nil {
		name := *t.Filename
		t.Filename = &name
	}
	return t
}

// decodeTrack decodes record j of the track table at tableOffset and follows
// its index and filename pointers.
func decodeTrack(buf Buffer, tableOffset uint32, j int) (Track, error) {
	off := int64(tableOffset) + int64(j)*TrackSize

	var raw rawTrack
	if _, err := buf.Decode(off, &raw); err != nil {
		return Track{}, parseError(off, "track record", err)
	}

	sub, err := subChannelsFromByte(raw.SubChannels)
	if err != nil {
		return Track{}, parseError(off+1, "subchannel flag", err)
	}

	t := Track{
		Mode:          TrackModeFromByte(raw.Mode),
		RawMode:       raw.Mode,
		SubChannels:   sub,
		AdrControl:    raw.AdrControl,
		TrackNumber:   raw.TrackNumber,
		Point:         raw.Point,
		Minute:        raw.Minute,
		Second:        raw.Second,
		Frame:         raw.Frame,
		SectorSize:    raw.SectorSize,
		StartSector:   raw.StartSector,
		StartOffset:   raw.StartOffset,
		FilenameCount: raw.FilenameCount,
	}

	if int(t.SectorSize) < t.SubchannelSize() {
		return Track{}, parseError(off+0x10, "sector size",
			fmt.Errorf("%d bytes cannot hold %d subchannel bytes", t.SectorSize, t.SubchannelSize()))
	}

	common.LogDebug(common.DebugTrack, j+1, t.ModeString(), t.Point,
		t.Minute, t.Second, t.Frame, t.SectorSize, t.StartOffset)

	if raw.IndexBlockOffset != 0 {
		index := &IndexBlock{}
		if _, err := buf.Decode(int64(raw.IndexBlockOffset), index); err != nil {
			return Track{}, parseError(int64(raw.IndexBlockOffset), "index block", err)
		}
		common.LogDebug(common.DebugIndexBlock, raw.IndexBlockOffset, index.Index0Sectors, index.Index1Sectors)
		t.Index = index
	}

	if raw.FilenameOffset != 0 && raw.FilenameCount > 0 {
		if raw.FilenameCount > 1 {
			common.LogWarn(common.WarnMultipleFilenames, j+1, raw.FilenameCount)
		}
		name, err := decodeFilename(buf, raw.FilenameOffset)
		if err != nil {
			return Track{}, err
		}
		t.Filename = name
	}

	return t, nil
}

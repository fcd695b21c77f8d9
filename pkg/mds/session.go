package mds

import (
	"github.com/hansbonini/mdstools/pkg/common"
)

// SessionSize is the size of a session record in bytes
const SessionSize = 0x18

// rawSession mirrors the on-disk session record
type rawSession struct {
	StartSector      int32
	EndSector        int32
	SessionNumber    uint16
	DataBlockCount   uint8
	LeadInBlockCount uint8
	FirstTrack       uint16
	LastTrack        uint16
	Reserved         uint32
	TrackTableOffset uint32
}

// Session is one recording pass of the disc together with its track table
type Session struct {
	// StartSector is the first sector stored in the image. Sector 0 is the
	// first block of user data, so images carrying the pregap start at -150.
	StartSector int32
	EndSector   int32

	SessionNumber    uint16
	DataBlockCount   uint8 // All track blocks, including lead-in entries
	LeadInBlockCount uint8 // Track blocks with point >= 0xA0
	FirstTrack       uint16
	LastTrack        uint16
	TrackTableOffset uint32

	tracks []Track
}

// StartTime is StartSector as a signed timecode (-150 gives -00:02:00)
func (s *Session) StartTime() common.Timecode {
	return common.FromFrames(s.StartSector)
}

// PregapCorrection is the offset added to raw track MSF values when writing
// CUE addresses: the length of the pregap stored before sector 0.
func (s *Session) PregapCorrection() common.Timecode {
	return s.StartTime().Neg()
}

// TotalSectors is the number of sectors covered by the session
func (s *Session) TotalSectors() int64 {
	return int64(s.EndSector) - int64(s.StartSector)
}

// Tracks returns a copy of every track block of the session in table order
func (s *Session) Tracks() []Track {
	tracks := make([]Track, len(s.tracks))
	for i := range s.tracks {
		tracks[i] = s.tracks[i].clone()
	}
	return tracks
}

// DataTracks returns the tracks holding user data (point < 0xA0) in table
// order. Lead-in/out TOC entries are omitted.
func (s *Session) DataTracks() []Track {
	var data []Track
	for _, t := range s.tracks {
		if t.IsData() {
			data = append(data, t.clone())
		}
	}
	return data
}

// LeadInTracks returns the TOC marker entries (point >= 0xA0)
func (s *Session) LeadInTracks() []Track {
	var markers []Track
	for _, t := range s.tracks {
		if !t.IsData() {
			markers = append(markers, t.clone())
		}
	}
	return markers
}

// clone returns a copy of s that shares no track data with it
func (s *Session) clone() Session {
	c := *s
	c.tracks = s.Tracks()
	return c
}

// decodeSession decodes session record i from the session table and the
// track table it points to.
func decodeSession(buf Buffer, tableOffset uint32, i int) (Session, error) {
	off := int64(tableOffset) + int64(i)*SessionSize

	var raw rawSession
	if _, err := buf.Decode(off, &raw); err != nil {
		return Session{}, parseError(off, "session record", err)
	}

	s := Session{
		StartSector:      raw.StartSector,
		EndSector:        raw.EndSector,
		SessionNumber:    raw.SessionNumber,
		DataBlockCount:   raw.DataBlockCount,
		LeadInBlockCount: raw.LeadInBlockCount,
		FirstTrack:       raw.FirstTrack,
		LastTrack:        raw.LastTrack,
		TrackTableOffset: raw.TrackTableOffset,
		tracks:           make([]Track, 0, raw.DataBlockCount),
	}

	common.LogDebug(common.DebugSession, i+1, s.StartSector, s.EndSector,
		s.DataBlockCount, s.LeadInBlockCount, s.TrackTableOffset)

	for j := 0; j < int(raw.DataBlockCount); j++ {
		t, err := decodeTrack(buf, raw.TrackTableOffset, j)
		if err != nil {
			return Session{}, err
		}
		s.tracks = append(s.tracks, t)
	}

	return s, nil
}

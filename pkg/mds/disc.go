package mds

import (
	"fmt"

	"github.com/hansbonini/mdstools/pkg/common"
)

// Disc is the decoded content of an MDS file. It is built once by Decode and
// never modified afterwards.
type Disc struct {
	header   Header
	sessions []Session
	numBytes int
}

// Decode builds a Disc from the complete contents of an MDS file. Decoding is
// all or nothing: on failure a *ParseError is returned and no Disc.
func Decode(data []byte) (*Disc, error) {
	buf := Buffer(data)

	header, err := decodeHeader(buf)
	if err != nil {
		return nil, err
	}
	common.LogDebug(common.DebugHeader, header.Version, header.MediaType,
		header.SessionCount, header.SessionTableOffset)

	sessions := make([]Session, 0, header.SessionCount)
	for i := 0; i < int(header.SessionCount); i++ {
		s, err := decodeSession(buf, header.SessionTableOffset, i)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return &Disc{
		header:   header,
		sessions: sessions,
		numBytes: len(data),
	}, nil
}

// Header returns the decoded file header
func (d *Disc) Header() Header {
	return d.header
}

// Version returns the MDS format version
func (d *Disc) Version() Version {
	return d.header.Version
}

// MediaType returns the type of disc the image was taken from
func (d *Disc) MediaType() MediaType {
	return d.header.MediaType
}

// ByteLen returns the size of the decoded MDS file
func (d *Disc) ByteLen() int {
	return d.numBytes
}

// Sessions returns a copy of all sessions in file order
func (d *Disc) Sessions() []Session {
	sessions := make([]Session, len(d.sessions))
	for i := range d.sessions {
		sessions[i] = d.sessions[i].clone()
	}
	return sessions
}

// Session returns a copy of the session at zero-based index i
func (d *Disc) Session(i int) (*Session, error) {
	if i < 0 || i >= len(d.sessions) {
		return nil, fmt.Errorf("%w: %d of %d", ErrSessionOutOfRange, i, len(d.sessions))
	}
	s := d.sessions[i].clone()
	return &s, nil
}

// DataTrackCount returns the number of data tracks across all sessions
func (d *Disc) DataTrackCount() int {
	n := 0
	for i := range d.sessions {
		n += len(d.sessions[i].DataTracks())
	}
	return n
}

// SingleSession returns the only session of the disc. Conversions operate on
// single session discs only.
func (d *Disc) SingleSession() (*Session, error) {
	switch {
	case len(d.sessions) == 0:
		return nil, ErrNoSessions
	case len(d.sessions) > 1:
		return nil, ErrTooManySessions
	}
	s := d.sessions[0].clone()
	return &s, nil
}

// SingleTrack returns the only data track of the only session
func (d *Disc) SingleTrack() (*Track, error) {
	session, err := d.SingleSession()
	if err != nil {
		return nil, err
	}

	tracks := session.DataTracks()
	switch {
	case len(tracks) == 0:
		return nil, ErrNoDataTracks
	case len(tracks) > 1:
		return nil, ErrMultiTrackNotSupported
	}
	return &tracks[0], nil
}

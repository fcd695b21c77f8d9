package mds

import "fmt"

// Signature is the magic string every MDS file starts with
const Signature = "MEDIA DESCRIPTOR"

// HeaderSize is the number of bytes of the header that are decoded
const HeaderSize = 0x54

// MediaType identifies the kind of disc the image was taken from
type MediaType uint16

// Known media types
const (
	MediaCDROM  MediaType = 0x00
	MediaCDR    MediaType = 0x01
	MediaCDRW   MediaType = 0x02
	MediaDVDROM MediaType = 0x10
	MediaDVDR   MediaType = 0x12
)

// IsKnown reports whether m is one of the recognised media types
func (m MediaType) IsKnown() bool {
	switch m {
	case MediaCDROM, MediaCDR, MediaCDRW, MediaDVDROM, MediaDVDR:
		return true
	}
	return false
}

func (m MediaType) String() string {
	switch m {
	case MediaCDROM:
		return "CD-ROM"
	case MediaCDR:
		return "CD-R"
	case MediaCDRW:
		return "CD-RW"
	case MediaDVDROM:
		return "DVD-ROM"
	case MediaDVDR:
		return "DVD-R"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", uint16(m))
	}
}

// Version is the major.minor format version stored in the header
type Version [2]uint8

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v[0], v[1])
}

// rawHeader mirrors the on-disk header layout
type rawHeader struct {
	Signature          [16]byte
	Version            [2]uint8
	MediaType          uint16
	SessionCount       uint16
	Reserved           [0x3A]byte // DVD specific fields, unused for CDs
	SessionTableOffset uint32
}

// Header is the decoded file header
type Header struct {
	Version            Version
	MediaType          MediaType
	SessionCount       uint16
	SessionTableOffset uint32
}

// decodeHeader validates the signature and decodes the header at offset 0
func decodeHeader(buf Buffer) (Header, error) {
	var raw rawHeader
	if _, err := buf.Decode(0, &raw); err != nil {
		return Header{}, parseError(0, "header", err)
	}

	if string(raw.Signature[:]) != Signature {
		return Header{}, parseError(0, "signature",
			fmt.Errorf("%w: got %q", ErrBadSignature, string(raw.Signature[:])))
	}

	media := MediaType(raw.MediaType)
	if !media.IsKnown() {
		return Header{}, parseError(0x12, "media type",
			fmt.Errorf("%w: 0x%02X", ErrUnknownMediaType, raw.MediaType))
	}

	return Header{
		Version:            Version(raw.Version),
		MediaType:          media,
		SessionCount:       raw.SessionCount,
		SessionTableOffset: raw.SessionTableOffset,
	}, nil
}

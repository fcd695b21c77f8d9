package mds

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hansbonini/mdstools/pkg/common"
)

// wildcardPrefix marks a name meaning "the MDS file's own name with this extension"
const wildcardPrefix = "*."

// NameEncoding is the character width of a stored filename
type NameEncoding uint8

// Filename encodings
const (
	NameEncoding8Bit  NameEncoding = 0
	NameEncoding16Bit NameEncoding = 1
)

func (e NameEncoding) String() string {
	switch e {
	case NameEncoding8Bit:
		return "8-bit"
	case NameEncoding16Bit:
		return "16-bit"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", uint8(e))
	}
}

// rawFilenameBlock mirrors the used part of the on-disk filename block
type rawFilenameBlock struct {
	NameOffset uint32
	Encoding   uint8
}

// Filename names the file holding a track's sectors
type Filename struct {
	Name     string       // As stored, e.g. "*.mdf" or "disc.mdf"
	Encoding NameEncoding // Width the name was stored with
}

// IsWildcard reports whether the name refers to the file next to the MDS
// (same base name, extension taken from the pattern).
func (f *Filename) IsWildcard() bool {
	return strings.HasPrefix(f.Name, wildcardPrefix)
}

// Resolve returns the data file path relative to the MDS file at mdsPath.
// Wildcard names swap the MDS extension; literal names are looked up in the
// MDS file's directory unless they are absolute.
func (f *Filename) Resolve(mdsPath string) string {
	if f.IsWildcard() {
		return common.SetExtension(mdsPath, strings.TrimPrefix(f.Name, wildcardPrefix))
	}
	if filepath.IsAbs(f.Name) {
		return f.Name
	}
	return filepath.Join(filepath.Dir(mdsPath), f.Name)
}

// decodeFilename follows a filename block at off to the string it points at
func decodeFilename(buf Buffer, off uint32) (*Filename, error) {
	var raw rawFilenameBlock
	if _, err := buf.Decode(int64(off), &raw); err != nil {
		return nil, parseError(int64(off), "filename block", err)
	}

	enc := NameEncoding(raw.Encoding)
	var (
		name string
		err  error
	)
	switch enc {
	case NameEncoding8Bit:
		name, err = buf.CString(int64(raw.NameOffset))
	case NameEncoding16Bit:
		name, err = buf.CString16(int64(raw.NameOffset))
	default:
		return nil, parseError(int64(off)+4, "filename encoding",
			fmt.Errorf("%w: 0x%02X", ErrUnknownNameEncoding, raw.Encoding))
	}
	if err != nil {
		return nil, parseError(int64(raw.NameOffset), "filename", err)
	}

	common.LogDebug(common.DebugFilename, off, name, enc)
	return &Filename{Name: name, Encoding: enc}, nil
}

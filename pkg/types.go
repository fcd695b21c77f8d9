// Package pkg converts Alcohol 120% MDS/MDF disc images into ISO and BIN/CUE images.
// This file contains the shared types and the collaborator interfaces used by the converters.
package pkg

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hansbonini/mdstools/pkg/mds"
)

// ErrMissingInputFile is returned when a track does not name the file holding its sectors
var ErrMissingInputFile = errors.New("no input file provided to read data from")

// OutputFormat selects the image format produced by a conversion
type OutputFormat int

// Supported output formats
const (
	FormatISO OutputFormat = iota
	FormatCue
)

func (f OutputFormat) String() string {
	switch f {
	case FormatISO:
		return "iso"
	case FormatCue:
		return "cue"
	default:
		return fmt.Sprintf("OutputFormat(%d)", int(f))
	}
}

// ParseOutputFormat parses a format name as given on the command line
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "iso":
		return FormatISO, nil
	case "cue", "bin", "cue/bin", "bincue":
		return FormatCue, nil
	default:
		return 0, fmt.Errorf("unsupported output format %q: valid formats are iso, cue", name)
	}
}

// Source is a random-access view of a file's bytes
type Source interface {
	io.ReaderAt
	io.Closer
	Len() int
}

// ReadOpener opens files for random-access reading
type ReadOpener interface {
	OpenReader(path string) (Source, error)
}

// WriteCreator creates (or truncates) output files
type WriteCreator interface {
	CreateWriter(path string) (io.WriteCloser, error)
}

// DiscLoader reads and decodes MDS files
type DiscLoader interface {
	Load(path string) (*mds.Disc, error)
}

// DiscEncoder writes a decoded disc in one output format. mdsPath is the
// location of the MDS file, used to resolve track data files and output names.
type DiscEncoder interface {
	Encode(disc *mds.Disc, mdsPath string) (*ConversionResult, error)
}

// ConversionResult summarises what an encoder wrote
type ConversionResult struct {
	Format  OutputFormat
	Outputs []string // Paths of the files written, in write order
	Sectors int64    // Sectors copied across all tracks
	Bytes   int64    // Sector data bytes written to the image file
}

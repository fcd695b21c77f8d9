package pkg

import (
	"errors"
	"io"

	"github.com/hansbonini/mdstools/pkg/common"
	"github.com/hansbonini/mdstools/pkg/mds"
)

// MDSFileDecoder implements the DiscLoader interface
type MDSFileDecoder struct {
	opener ReadOpener
}

// NewMDSDecoder creates a new MDS decoder reading through opener
func NewMDSDecoder(opener ReadOpener) *MDSFileDecoder {
	return &MDSFileDecoder{opener: opener}
}

// Load reads the complete MDS file at path and decodes it
func (d *MDSFileDecoder) Load(path string) (*mds.Disc, error) {
	data, err := d.ReadAll(path)
	if err != nil {
		return nil, err
	}

	disc, err := mds.Decode(data)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToDecodeMDS, err)
	}

	common.LogInfo(common.InfoLoadedMDS, path, disc.MediaType(),
		common.CountOf(len(disc.Sessions()), "session"))
	return disc, nil
}

// ReadAll returns the full contents of the file at path
func (d *MDSFileDecoder) ReadAll(path string) ([]byte, error) {
	src, err := d.opener.OpenReader(path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadMDS, err)
	}
	defer src.Close()

	data := make([]byte, src.Len())
	if len(data) == 0 {
		return data, nil
	}
	if n, err := src.ReadAt(data, 0); err != nil && !(errors.Is(err, io.EOF) && n == len(data)) {
		return nil, common.FormatError(common.ErrFailedToReadMDS, err)
	}
	return data, nil
}

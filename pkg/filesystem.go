package pkg

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/exp/mmap"
)

// FileSystem reads and writes files on the local disk. Reads are memory
// mapped, writes are buffered.
type FileSystem struct{}

// NewFileSystem creates a new local file system capability
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// OpenReader memory maps the file at path
func (fs *FileSystem) OpenReader(path string) (Source, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// CreateWriter creates (or truncates) the file at path, creating missing
// parent directories.
func (fs *FileSystem) CreateWriter(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &bufferedFile{file: f, w: bufio.NewWriterSize(f, 1<<20)}, nil
}

// bufferedFile flushes its buffer before closing the underlying file
type bufferedFile struct {
	file *os.File
	w    *bufio.Writer
}

func (b *bufferedFile) Write(p []byte) (int, error) {
	return b.w.Write(p)
}

func (b *bufferedFile) Close() error {
	flushErr := b.w.Flush()
	closeErr := b.file.Close()
	return errors.Join(flushErr, closeErr)
}

package pkg

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"sort"
)

// memFS is an in-memory ReadOpener and WriteCreator that records how it is used
type memFS struct {
	files   map[string][]byte
	opened  []string // Paths passed to OpenReader, in call order
	created []string // Paths passed to CreateWriter, in call order
	open    int      // Sources not yet closed
}

func newMemFS() *memFS {
	return &memFS{files: map[string][]byte{}}
}

func (m *memFS) OpenReader(path string) (Source, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	m.opened = append(m.opened, path)
	m.open++
	return &memSource{Reader: bytes.NewReader(data), fs: m}, nil
}

func (m *memFS) CreateWriter(path string) (io.WriteCloser, error) {
	m.created = append(m.created, path)
	return &memFile{fs: m, path: path}, nil
}

// names lists every stored file
func (m *memFS) names() []string {
	var names []string
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type memSource struct {
	*bytes.Reader
	fs     *memFS
	closed bool
}

func (s *memSource) Len() int {
	return int(s.Size())
}

func (s *memSource) Close() error {
	if !s.closed {
		s.closed = true
		s.fs.open--
	}
	return nil
}

// memFile stores its contents in the file system when closed
type memFile struct {
	bytes.Buffer
	fs   *memFS
	path string
}

func (f *memFile) Close() error {
	f.fs.files[f.path] = bytes.Clone(f.Bytes())
	return nil
}

package fs

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

// FileSystemMemory holds file content keyed by slash separated path. It backs
// in-process compilation of proto sources and captures written output.
type FileSystemMemory struct {
	lock  sync.RWMutex
	files map[string]string
}

var _ idl.FileSystem = (*FileSystemMemory)(nil)

func NewFileSystemMemory(files map[string]string) *FileSystemMemory {
	m := &FileSystemMemory{files: make(map[string]string, len(files))}
	for k, v := range files {
		m.files[cleanMemoryPath(k)] = v
	}
	return m
}

func (m *FileSystemMemory) Open(ctx context.Context, uri string) ([]idl.SourceFile, error) {
	p := cleanMemoryPath(uri)
	m.lock.RLock()
	defer m.lock.RUnlock()
	if content, ok := m.files[p]; ok {
		return []idl.SourceFile{NewFileString(p, content, KindOf(p))}, nil
	}
	prefix := p + "/"
	if p == "" {
		prefix = ""
	}
	var names []string
	for name := range m.files {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		if !IsSource(name) {
			continue
		}
		names = append(names, name)
	}
	if len(names) < 1 {
		return nil, exc.New(exc.Location{URI: uri}, exc.CodeFileNotFound, fmt.Sprintf("%s not found", uri))
	}
	sort.Strings(names)
	files := make([]idl.SourceFile, 0, len(names))
	for _, name := range names {
		files = append(files, NewFileString(name, m.files[name], KindOf(name)))
	}
	return files, nil
}

func (m *FileSystemMemory) Write(ctx context.Context, uri string, content string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.files[cleanMemoryPath(uri)] = content
	return nil
}

// Content returns the current content of a path.
func (m *FileSystemMemory) Content(uri string) (string, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	v, ok := m.files[cleanMemoryPath(uri)]
	return v, ok
}

func cleanMemoryPath(p string) string {
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// FileSystemStream writes every file to a single stream, each preceded by a
// header line naming it. It cannot be opened.
type FileSystemStream struct {
	lock sync.Mutex
	w    io.Writer
}

var _ idl.FileSystem = (*FileSystemStream)(nil)

func NewFileSystemStream(w io.Writer) *FileSystemStream {
	return &FileSystemStream{w: w}
}

func (s *FileSystemStream) Open(ctx context.Context, uri string) ([]idl.SourceFile, error) {
	return nil, exc.New(exc.Location{URI: uri}, exc.CodeUnsuportedFileSystemOperation, "cannot read from an output stream")
}

func (s *FileSystemStream) Write(ctx context.Context, uri string, content string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, err := fmt.Fprintf(s.w, "// %s\n%s", uri, content); err != nil {
		return exc.WrapUnknown(exc.Location{URI: uri}, err)
	}
	return nil
}

package fs

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

// NewFileString returns a file whose body is the given content.
func NewFileString(path string, content string, kind idl.FileKind) idl.SourceFile {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}, kind)
}

// NewFileFN returns a file whose body is opened by open on every call to
// Body. Each call must return a fresh reader.
func NewFileFN(path string, open func() (io.ReadCloser, error), kind idl.FileKind) idl.SourceFile {
	return &lazyFile{path: path, kind: kind, open: open}
}

type lazyFile struct {
	path string
	kind idl.FileKind
	open func() (io.ReadCloser, error)
}

func (f *lazyFile) Path(ctx context.Context) string       { return f.path }
func (f *lazyFile) Kind(ctx context.Context) idl.FileKind { return f.kind }

func (f *lazyFile) Body(ctx context.Context) (idl.FileBody, error) {
	rc, err := f.open()
	if err != nil {
		return nil, fsErr(f.path, err)
	}
	return &readerBody{r: bufio.NewReader(rc), c: rc}, nil
}

// readerBody adapts an io.Reader to idl.FileBody. The end of the content is
// reported as an exc.CodeEOF exception alongside the final bytes.
type readerBody struct {
	r   io.Reader
	c   io.Closer
	buf []byte
}

func (b *readerBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if cap(b.buf) < int(size) {
		b.buf = make([]byte, size)
	}
	n, err := b.r.Read(b.buf[:size])
	switch {
	case errors.Is(err, io.EOF):
		return b.buf[:n], exc.Wrap(exc.Location{}, exc.CodeEOF, err)
	case err != nil:
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	return b.buf[:n], nil
}

func (b *readerBody) Close(ctx context.Context) error {
	return b.c.Close()
}

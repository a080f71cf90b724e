// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

const (
	protoExt      = ".proto"    // Typical protobuf IDL content
	protoDescExt  = ".protoset" // A protobuf descriptor set in protobuf format
	protoBinExt   = ".binpb"    // A protobuf descriptor set, buf image naming
	protoPbExt    = ".pb"       // A protobuf descriptor set, protoc -o naming
	typescriptExt = ".ts"       // Generated output
)

var knownExts = map[string]idl.FileKind{
	protoExt:      idl.FileKindProtobuf,
	protoDescExt:  idl.FileKindProtobufDesc,
	protoBinExt:   idl.FileKindProtobufDesc,
	protoPbExt:    idl.FileKindProtobufDesc,
	typescriptExt: idl.FileKindTypeScript,
}

// KindOf reports the file kind implied by the extension of the given path.
func KindOf(path string) idl.FileKind {
	return knownExts[filepath.Ext(path)]
}

// IsSource reports whether a path names compiler input: proto sources and
// descriptor sets.
func IsSource(path string) bool {
	kind := KindOf(path)
	return kind == idl.FileKindProtobuf || kind == idl.FileKindProtobufDesc
}

var _ idl.FileSystem = FileSystemMulti{}

// FileSystemMulti is an ordered set of FileSystem implementations that are
// tried in order. Note that this type does not implement write operations.
// Those must be performed on individual backends.
type FileSystemMulti []idl.FileSystem

func (r FileSystemMulti) Open(ctx context.Context, uri string) ([]idl.SourceFile, error) {
	for _, backend := range r {
		files, err := backend.Open(ctx, uri)
		if err != nil {
			continue
		}
		return files, nil
	}
	return nil, exc.New(exc.Location{URI: uri}, exc.CodeFileNotFound, fmt.Sprintf("could not open %s from any file system", uri))
}

func (r FileSystemMulti) Write(ctx context.Context, uri string, content string) error {
	return exc.New(exc.Location{URI: uri}, exc.CodeUnsuportedFileSystemOperation, "cannot write to a composite file system")
}

// NewFileSystemLocal returns a file system rooted at a local directory.
// Opening a directory yields the proto sources and descriptor sets directly
// inside it.
func NewFileSystemLocal(root string) (idl.FileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: root}, err)
	}
	return &fileSystemLocal{root: abs, dir: os.DirFS(abs)}, nil
}

type fileSystemLocal struct {
	root string
	dir  fs.FS
}

func (r *fileSystemLocal) Open(ctx context.Context, uri string) ([]idl.SourceFile, error) {
	p := localPath(uri)
	info, err := fs.Stat(r.dir, p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	if !info.IsDir() {
		return []idl.SourceFile{r.file(p)}, nil
	}
	entries, err := fs.ReadDir(r.dir, p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	var files []idl.SourceFile
	for _, entry := range entries {
		if entry.IsDir() || !IsSource(entry.Name()) {
			continue
		}
		files = append(files, r.file(path.Join(p, entry.Name())))
	}
	if len(files) < 1 {
		return nil, exc.Newf(exc.Location{URI: uri}, exc.CodeFileNotFound, "directory %s holds no proto sources or descriptor sets", uri)
	}
	return files, nil
}

func (r *fileSystemLocal) file(p string) idl.SourceFile {
	return NewFileFN(p, func() (io.ReadCloser, error) {
		return r.dir.Open(p)
	}, KindOf(p))
}

// Write creates any missing parent directories of the target.
func (r *fileSystemLocal) Write(ctx context.Context, uri string, content string) error {
	p := filepath.Join(r.root, filepath.FromSlash(localPath(uri)))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fsErr(p, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fsErr(p, err)
	}
	return nil
}

// localPath converts a path or file URI into the unrooted form fs.FS
// requires, with "." for the root itself.
func localPath(uri string) string {
	if u, err := url.Parse(uri); err == nil && (u.Scheme == "" || u.Scheme == "file") {
		uri = u.Path
	}
	p := cleanMemoryPath(uri)
	if p == "" {
		return "."
	}
	return p
}

func fsErr(path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		path = pathErr.Path
	}
	loc := exc.Location{URI: path}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return exc.Wrap(loc, exc.CodeFileNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return exc.Wrap(loc, exc.CodePermissionDenied, err)
	default:
		return exc.WrapUnknown(loc, err)
	}
}

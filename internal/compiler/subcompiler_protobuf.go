package compiler

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/reporter"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

// SubCompilerProtobuf compiles and links .proto sources with protocompile.
// Imports are resolved through the compiler's file system and fall back to
// the well-known types bundled with protocompile.
type SubCompilerProtobuf struct{}

func (self *SubCompilerProtobuf) CompileFiles(ctx context.Context, r exc.Reporter, fs idl.FileSystem, files []idl.SourceFile) ([]*descriptorpb.FileDescriptorProto, []string, error) {
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, sourceName(file.Path(ctx)))
	}
	c := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: func(path string) (io.ReadCloser, error) {
				return openSource(ctx, fs, path)
			},
		}),
		Reporter:       reporter.NewReporter((&protoReporter{Reporter: r}).Error, (&protoReporter{Reporter: r}).Warning),
		SourceInfoMode: protocompile.SourceInfoStandard,
	}
	linked, err := c.Compile(ctx, names...)
	if err != nil {
		return nil, nil, err
	}
	out := make([]*descriptorpb.FileDescriptorProto, 0, len(linked))
	seen := make(map[string]bool)
	for _, f := range linked {
		out = appendWithImports(out, seen, f)
	}
	targets := make([]string, 0, len(linked))
	for _, f := range linked {
		targets = append(targets, f.Path())
	}
	return out, targets, nil
}

func appendWithImports(out []*descriptorpb.FileDescriptorProto, seen map[string]bool, f protoreflect.FileDescriptor) []*descriptorpb.FileDescriptorProto {
	if seen[f.Path()] {
		return out
	}
	seen[f.Path()] = true
	imports := f.Imports()
	for x := 0; x < imports.Len(); x = x + 1 {
		out = appendWithImports(out, seen, imports.Get(x).FileDescriptor)
	}
	return append(out, protodesc.ToFileDescriptorProto(f))
}

func openSource(ctx context.Context, fs idl.FileSystem, path string) (io.ReadCloser, error) {
	files, err := fs.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(files) != 1 {
		return nil, exc.New(exc.Location{URI: path}, exc.CodeUnsupportedFileFormat, "import path resolves to a directory")
	}
	b, err := files[0].Body(ctx)
	if err != nil {
		return nil, err
	}
	return &fileBodyIO{ctx: ctx, body: b}, nil
}

// sourceName converts a file system path into the relative name protoc
// uses for imports.
func sourceName(path string) string {
	return strings.TrimPrefix(strings.ReplaceAll(path, "\\", "/"), "/")
}

type protoReporter struct {
	Reporter exc.Reporter
}

func (self *protoReporter) Error(e reporter.ErrorWithPos) error {
	pos := e.GetPosition()
	loc := exc.Location{
		URI: pos.Filename,
		Location: idl.Location{
			Line:   int32(pos.Line),
			Column: int32(pos.Col),
			Offset: int64(pos.Offset),
		},
	}
	return self.Reporter.Report(exc.Wrap(loc, exc.CodeProtobufParseError, e.Unwrap()))
}

func (self *protoReporter) Warning(e reporter.ErrorWithPos) {
	pos := e.GetPosition()
	loc := exc.Location{
		URI: pos.Filename,
		Location: idl.Location{
			Line:   int32(pos.Line),
			Column: int32(pos.Col),
			Offset: int64(pos.Offset),
		},
	}
	_ = self.Reporter.Report(exc.Wrap(loc, exc.CodeProtobufWarning, e.Unwrap()))
}

type fileBodyIO struct {
	ctx  context.Context
	body idl.FileBody
}

func (self *fileBodyIO) Read(p []byte) (int, error) {
	b, err := self.body.Read(self.ctx, int32(len(p)))
	var e exc.Exception
	if err != nil && errors.As(err, &e) && e.Code() == exc.CodeEOF {
		err = io.EOF
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return len(b), err
	}
	copy(p, b)
	if errors.Is(err, io.EOF) {
		return len(b), io.EOF
	}
	return len(b), nil
}

func (self *fileBodyIO) Close() error {
	return self.body.Close(self.ctx)
}

package compiler

import (
	"context"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

// SubCompilerDescriptorSet loads serialized FileDescriptorSet files such as
// the output of protoc --descriptor_set_out --include_imports or a buf image.
// The targets of a set are the files no other file in the set imports.
type SubCompilerDescriptorSet struct{}

func (self *SubCompilerDescriptorSet) CompileFiles(ctx context.Context, r exc.Reporter, fs idl.FileSystem, files []idl.SourceFile) ([]*descriptorpb.FileDescriptorProto, []string, error) {
	var out []*descriptorpb.FileDescriptorProto
	var targets []string
	for _, file := range files {
		set, err := readDescriptorSet(ctx, file)
		if err != nil {
			return nil, nil, r.Report(exc.Wrap(exc.Location{URI: file.Path(ctx)}, exc.CodeUnsupportedFileFormat, err))
		}
		imported := make(map[string]bool)
		for _, fd := range set.File {
			for _, dep := range fd.Dependency {
				imported[dep] = true
			}
		}
		for _, fd := range set.File {
			out = append(out, fd)
			if !imported[fd.GetName()] {
				targets = append(targets, fd.GetName())
			}
		}
	}
	return out, targets, nil
}

func readDescriptorSet(ctx context.Context, file idl.SourceFile) (*descriptorpb.FileDescriptorSet, error) {
	b, err := file.Body(ctx)
	if err != nil {
		return nil, err
	}
	rc := &fileBodyIO{ctx: ctx, body: b}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	set := &descriptorpb.FileDescriptorSet{}
	if err := proto.Unmarshal(raw, set); err != nil {
		return nil, err
	}
	return set, nil
}

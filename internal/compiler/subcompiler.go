package compiler

import (
	"context"

	"google.golang.org/protobuf/types/descriptorpb"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

// SubCompiler produces file descriptors for a batch of inputs that share a
// FileKind. The returned descriptors include dependencies, ordered so that
// every file appears after the files it imports. The returned target names
// identify which of those descriptors correspond to the given inputs.
type SubCompiler interface {
	CompileFiles(ctx context.Context, r exc.Reporter, fs idl.FileSystem, files []idl.SourceFile) ([]*descriptorpb.FileDescriptorProto, []string, error)
}

func DefaultSubCompilers() map[idl.FileKind]SubCompiler {
	return map[idl.FileKind]SubCompiler{
		idl.FileKindProtobuf:     &SubCompilerProtobuf{},
		idl.FileKindProtobufDesc: &SubCompilerDescriptorSet{},
	}
}

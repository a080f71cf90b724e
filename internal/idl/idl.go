// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/types/descriptorpb"
)

type Closer interface {
	Close(ctx context.Context) error
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindProtobuf
	FileKindProtobufDesc
	FileKindTypeScript
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindProtobuf:
		return "protobuf"
	case FileKindProtobufDesc:
		return "protobuf-descriptor"
	case FileKindTypeScript:
		return "typescript"
	default:
		return fmt.Sprintf("unkown-%d", k)
	}
}

// Location is a position within a source file. All values are 1-based when
// known and zero otherwise.
type Location struct {
	Line   int32
	Column int32
	Offset int64
}

// SourceFile is an input read through a FileSystem.
type SourceFile interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]SourceFile, error)
	Write(ctx context.Context, uri string, content string) error
}

// Compiler turns protobuf sources or descriptor sets into the file
// descriptors consumed by the generator.
type Compiler interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

type CompileRequest struct {
	Files []string
}

type CompileResponse struct {
	// Files contains every compiled file, dependencies first.
	Files []*descriptorpb.FileDescriptorProto
	// Targets are the names of the files that were requested, in request
	// order, as they appear in Files.
	Targets []string
}

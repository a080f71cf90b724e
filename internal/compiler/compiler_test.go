package compiler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/fs"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

func fileNames(files []*descriptorpb.FileDescriptorProto) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.GetName())
	}
	return names
}

func TestCompileSources(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sources := map[string]string{
		"pkg/common.proto": `syntax = "proto3";
package pkg;
message Common { string id = 1; }
`,
		"pkg/api.proto": `syntax = "proto3";
package pkg;
import "pkg/common.proto";
import "google/protobuf/timestamp.proto";
// A request.
message Request {
  Common common = 1;
  google.protobuf.Timestamp at = 2;
  map<string, int64> counts = 3;
}
`,
	}
	resp, err := CompileSources(ctx, sources, "pkg/api.proto")
	require.NoError(t, err)
	require.Equal(t, []string{"pkg/api.proto"}, resp.Targets)
	require.Equal(t, []string{"pkg/common.proto", "google/protobuf/timestamp.proto", "pkg/api.proto"}, fileNames(resp.Files))

	api := resp.Files[2]
	require.Equal(t, ".pkg.Common", api.MessageType[0].Field[0].GetTypeName())
	require.True(t, api.MessageType[0].NestedType[0].GetOptions().GetMapEntry())
	require.NotNil(t, api.SourceCodeInfo)
}

func TestCompileParseError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, err := CompileSources(ctx, map[string]string{
		"bad.proto": "syntax = \"proto3\";\nmessage {\n",
	}, "bad.proto")
	require.Error(t, err)
	var me exc.MultiException
	require.True(t, errors.As(err, &me))
	require.Equal(t, exc.CodeProtobufParseError, me[0].Code())
	require.Equal(t, "bad.proto", me[0].Location().URI)
	require.Equal(t, int32(2), me[0].Location().Line)
}

func TestCompileMissingFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, err := CompileSources(ctx, map[string]string{}, "missing.proto")
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeFileNotFound, e.Code())
}

func TestCompileDescriptorSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	set := &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{
			{Name: proto.String("dep.proto"), Syntax: proto.String("proto3")},
			{Name: proto.String("main.proto"), Syntax: proto.String("proto3"), Dependency: []string{"dep.proto"}},
		},
	}
	raw, err := proto.Marshal(set)
	require.NoError(t, err)

	c, err := New(OptionWithFS(fs.NewFileSystemMemory(map[string]string{"image.protoset": string(raw)})))
	require.NoError(t, err)
	resp, err := c.Compile(ctx, &idl.CompileRequest{Files: []string{"image.protoset"}})
	require.NoError(t, err)
	require.Equal(t, []string{"main.proto"}, resp.Targets)
	require.Equal(t, []string{"dep.proto", "main.proto"}, fileNames(resp.Files))
}

func TestCompileUnsupportedKind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, err := New(
		OptionWithFS(fs.NewFileSystemMemory(map[string]string{"a.proto": "syntax = \"proto3\";"})),
		OptionWithSubCompiler(idl.FileKindProtobuf, nil),
	)
	require.NoError(t, err)
	_, err = c.Compile(ctx, &idl.CompileRequest{Files: []string{"a.proto"}})
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeUnsupportedFileFormat, e.Code())
}

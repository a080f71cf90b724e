package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"gopkg.microglot.org/tsproto.go/internal/compiler"
	"gopkg.microglot.org/tsproto.go/internal/fs"
	"gopkg.microglot.org/tsproto.go/internal/plugin"
)

func TestRunPlugin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	compiled, err := compiler.CompileSources(ctx, map[string]string{
		"demo/demo.proto": "syntax = \"proto3\";\npackage demo;\nmessage Demo { string id = 1; }\n",
	}, "demo/demo.proto")
	require.NoError(t, err)
	raw, err := proto.Marshal(&pluginpb.CodeGeneratorRequest{
		FileToGenerate: []string{"demo/demo.proto"},
		Parameter:      proto.String("emitImportedFiles=false"),
		ProtoFile:      compiled.Files,
	})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runPlugin(ctx, plugin.New(), bytes.NewReader(raw), &out))
	resp := &pluginpb.CodeGeneratorResponse{}
	require.NoError(t, proto.Unmarshal(out.Bytes(), resp))
	require.Empty(t, resp.GetError())
	require.Len(t, resp.GetFile(), 1)
	require.Equal(t, "demo/demo.ts", resp.GetFile()[0].GetName())
	require.Contains(t, resp.GetFile()[0].GetContent(), "export interface Demo {")

	require.Error(t, runPlugin(ctx, plugin.New(), bytes.NewReader([]byte{0xff}), &out))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	log, err := newLogger("debug")
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	_, err = newLogger("loud")
	require.Error(t, err)
}

func TestOutputFS(t *testing.T) {
	t.Parallel()

	stream, err := outputFS("-")
	require.NoError(t, err)
	require.IsType(t, &fs.FileSystemStream{}, stream)

	dir := t.TempDir()
	local, err := outputFS(dir + "/nested/out")
	require.NoError(t, err)
	require.NoError(t, local.Write(context.Background(), "pkg/a.ts", "x"))
	require.FileExists(t, dir+"/nested/out/pkg/a.ts")
}

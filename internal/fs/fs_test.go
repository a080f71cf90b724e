package fs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

func readAll(t *testing.T, ctx context.Context, f idl.SourceFile) string {
	t.Helper()
	body, err := f.Body(ctx)
	require.NoError(t, err)
	defer body.Close(ctx)
	var out bytes.Buffer
	for {
		b, err := body.Read(ctx, 4)
		out.Write(b)
		if err != nil {
			var e exc.Exception
			require.True(t, errors.As(err, &e))
			require.Equal(t, exc.CodeEOF, e.Code())
			break
		}
	}
	return out.String()
}

func TestFileSystemLocal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "a.proto"), []byte("syntax = \"proto3\";"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "notes.txt"), []byte("skip"), 0o644))

	local, err := NewFileSystemLocal(root)
	require.NoError(t, err)

	files, err := local.Open(ctx, "pkg/a.proto")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, idl.FileKindProtobuf, files[0].Kind(ctx))
	require.Equal(t, "syntax = \"proto3\";", readAll(t, ctx, files[0]))

	files, err = local.Open(ctx, "pkg")
	require.NoError(t, err)
	require.Len(t, files, 1)

	_, err = local.Open(ctx, "pkg/missing.proto")
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeFileNotFound, e.Code())

	require.NoError(t, local.Write(ctx, "out/pkg/a.ts", "export {};\n"))
	written, err := os.ReadFile(filepath.Join(root, "out", "pkg", "a.ts"))
	require.NoError(t, err)
	require.Equal(t, "export {};\n", string(written))
}

func TestFileSystemMulti(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first := NewFileSystemMemory(map[string]string{"a.proto": "first"})
	second := NewFileSystemMemory(map[string]string{"a.proto": "second", "b.proto": "b"})
	multi := FileSystemMulti{first, second}

	files, err := multi.Open(ctx, "a.proto")
	require.NoError(t, err)
	require.Equal(t, "first", readAll(t, ctx, files[0]))
	files, err = multi.Open(ctx, "/b.proto")
	require.NoError(t, err)
	require.Equal(t, "b", readAll(t, ctx, files[0]))

	_, err = multi.Open(ctx, "c.proto")
	require.Error(t, err)
	require.Error(t, multi.Write(ctx, "a.ts", ""))
}

func TestFileSystemMemoryDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewFileSystemMemory(map[string]string{
		"pkg/b.proto":      "b",
		"pkg/a.proto":      "a",
		"pkg/sub/c.proto":  "c",
		"pkg/set.protoset": "",
		"pkg/readme.md":    "",
	})
	files, err := m.Open(ctx, "pkg")
	require.NoError(t, err)
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path(ctx))
	}
	require.Equal(t, []string{"pkg/a.proto", "pkg/b.proto", "pkg/set.protoset"}, paths)
	require.Equal(t, idl.FileKindProtobufDesc, files[2].Kind(ctx))

	require.NoError(t, m.Write(ctx, "/out/x.ts", "x"))
	v, ok := m.Content("out/x.ts")
	require.True(t, ok)
	require.Equal(t, "x", v)
}

func TestFileSystemStream(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var buf bytes.Buffer
	s := NewFileSystemStream(&buf)
	require.NoError(t, s.Write(ctx, "a.ts", "one\n"))
	require.NoError(t, s.Write(ctx, "b.ts", "two\n"))
	require.Equal(t, "// a.ts\none\n// b.ts\ntwo\n", buf.String())
	_, err := s.Open(ctx, "a.ts")
	require.Error(t, err)
}

package compiler

import (
	"context"
	"os"
	"sort"

	"google.golang.org/protobuf/types/descriptorpb"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/fs"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/target"
)

type Option func(c *compiler) error

func OptionWithFS(fs idl.FileSystem) Option {
	return func(c *compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *compiler) error {
		c.Reporter = reporter
		return nil
	}
}

func OptionWithSubCompiler(kind idl.FileKind, sc SubCompiler) Option {
	return func(c *compiler) error {
		if c.SubCompilers == nil {
			c.SubCompilers = DefaultSubCompilers()
		}
		c.SubCompilers[kind] = sc
		return nil
	}
}

func New(opts ...Option) (idl.Compiler, error) {
	c := &compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers()
	}
	return c, nil
}

type compiler struct {
	LookupENV    func(string) (string, bool)
	FS           idl.FileSystem
	Reporter     exc.Reporter
	SubCompilers map[idl.FileKind]SubCompiler
}

func (self *compiler) Compile(ctx context.Context, req *idl.CompileRequest) (*idl.CompileResponse, error) {
	byKind := make(map[idl.FileKind][]idl.SourceFile)
	for _, f := range req.Files {
		in, err := self.FS.Open(ctx, target.Normalize(f))
		if err != nil {
			return nil, self.fail(exc.Wrap(exc.Location{URI: f}, exc.CodeFileNotFound, err))
		}
		for _, inf := range in {
			if inf.Kind(ctx) == idl.FileKindNone {
				continue
			}
			byKind[inf.Kind(ctx)] = append(byKind[inf.Kind(ctx)], inf)
		}
	}
	kinds := make([]idl.FileKind, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	resp := &idl.CompileResponse{}
	included := make(map[string]bool)
	targeted := make(map[string]bool)
	for _, kind := range kinds {
		sc := self.SubCompilers[kind]
		if sc == nil {
			files := byKind[kind]
			e := exc.New(exc.Location{URI: files[0].Path(ctx)}, exc.CodeUnsupportedFileFormat, "Unsupported file format "+kind.String())
			return nil, self.fail(e)
		}
		files, targets, err := sc.CompileFiles(ctx, self.Reporter, self.FS, byKind[kind])
		if err != nil {
			return nil, self.fail(err)
		}
		resp.Files = appendUnique(resp.Files, included, files)
		for _, t := range targets {
			if targeted[t] {
				continue
			}
			targeted[t] = true
			resp.Targets = append(resp.Targets, t)
		}
	}
	if caught := self.Reporter.Errors(); len(caught) > 0 {
		return resp, exc.MultiException(caught)
	}
	return resp, nil
}

func appendUnique(out []*descriptorpb.FileDescriptorProto, included map[string]bool, files []*descriptorpb.FileDescriptorProto) []*descriptorpb.FileDescriptorProto {
	for _, fd := range files {
		if included[fd.GetName()] {
			continue
		}
		included[fd.GetName()] = true
		out = append(out, fd)
	}
	return out
}

// fail prefers the aggregate of everything reported over the single error
// that stopped compilation.
func (self *compiler) fail(err error) error {
	if caught := self.Reporter.Errors(); len(caught) > 0 {
		return exc.MultiException(caught)
	}
	return err
}

// CompileSources compiles in-memory proto sources keyed by import path. Well
// known imports resolve without being present in sources.
func CompileSources(ctx context.Context, sources map[string]string, files ...string) (*idl.CompileResponse, error) {
	c, err := New(OptionWithFS(fs.NewFileSystemMemory(sources)))
	if err != nil {
		return nil, err
	}
	return c.Compile(ctx, &idl.CompileRequest{Files: files})
}

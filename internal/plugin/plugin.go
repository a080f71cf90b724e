// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package plugin adapts the generator to the protoc plugin protocol.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"gopkg.microglot.org/tsproto.go/internal/compiler/protobuf"
	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/gen"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
)

type Option func(p *Plugin)

// OptionWithExcReporter sets the reporter that receives option warnings.
func OptionWithExcReporter(r exc.Reporter) Option {
	return func(p *Plugin) {
		p.Reporter = r
	}
}

// OptionWithConfig adds option entries that apply before the request
// parameter, such as those loaded from a config file.
func OptionWithConfig(entries []options.Entry) Option {
	return func(p *Plugin) {
		p.Config = append(p.Config, entries...)
	}
}

// OptionWithConcurrency bounds the number of files generated at once.
func OptionWithConcurrency(n int) Option {
	return func(p *Plugin) {
		p.Concurrency = n
	}
}

type Plugin struct {
	Reporter    exc.Reporter
	Config      []options.Entry
	Concurrency int
}

func New(opts ...Option) *Plugin {
	p := &Plugin{}
	for _, opt := range opts {
		opt(p)
	}
	if p.Reporter == nil {
		p.Reporter = exc.NewReporter(nil)
	}
	if p.Concurrency <= 0 {
		p.Concurrency = min(runtime.GOMAXPROCS(0), runtime.NumCPU())
	}
	return p
}

// Run answers a code generation request. Failures are reported through the
// response error field, never as a Go error, as the protocol requires.
func (p *Plugin) Run(ctx context.Context, req *pluginpb.CodeGeneratorRequest) *pluginpb.CodeGeneratorResponse {
	files, err := p.Generate(ctx, req)
	resp := &pluginpb.CodeGeneratorResponse{
		SupportedFeatures: proto.Uint64(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)),
	}
	if err != nil {
		resp.Error = proto.String(err.Error())
		return resp
	}
	for _, f := range files {
		resp.File = append(resp.File, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(f.Name),
			Content: proto.String(f.Content),
		})
	}
	return resp
}

// Generate produces the TypeScript modules for a request in the order the
// files were requested.
func (p *Plugin) Generate(ctx context.Context, req *pluginpb.CodeGeneratorRequest) ([]gen.File, error) {
	opts, err := options.Resolve(p.Reporter, p.Config, options.SplitParameter(req.GetParameter()))
	if err != nil {
		return nil, err
	}
	image, err := protobuf.NewImage(req.GetProtoFile())
	if err != nil {
		return nil, exc.Wrap(exc.Location{}, exc.CodeProtobufParseError, err)
	}

	names := req.GetFileToGenerate()
	if opts.EmitImportedFiles {
		names = make([]string, 0, len(req.GetProtoFile()))
		for _, fd := range req.GetProtoFile() {
			names = append(names, fd.GetName())
		}
	}
	targets := make([]*idl.File, 0, len(names))
	for _, name := range names {
		f, ok := image.File(name)
		if !ok {
			return nil, exc.Newf(exc.Location{URI: name}, exc.CodeFileNotFound, "%s is not in the request", name)
		}
		targets = append(targets, f)
	}

	results := make([]gen.File, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(p.Concurrency, len(targets))))
	for x, f := range targets {
		x, f := x, f
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out, err := generate(opts, image, f)
			if err != nil {
				return err
			}
			results[x] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if opts.OutputTypeRegistry {
		results = append(results, gen.GenerateTypeRegistry(opts))
	}
	return results, nil
}

// generate converts a generator panic into an error so that one bad file
// fails the request instead of the process.
func generate(opts options.Options, image *idl.Image, f *idl.File) (out gen.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			var e exc.Exception
			switch v := r.(type) {
			case exc.Exception:
				e = v
			case error:
				e = exc.WrapUnknown(exc.Location{URI: f.Name}, v)
			default:
				e = exc.WrapUnknown(exc.Location{URI: f.Name}, errors.New(fmt.Sprint(v)))
			}
			err = fmt.Errorf("%s: %w", f.Name, e)
		}
	}()
	return gen.GenerateFile(opts, image, f), nil
}

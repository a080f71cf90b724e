package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"gopkg.microglot.org/tsproto.go/internal/compiler"
	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/fs"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
	"gopkg.microglot.org/tsproto.go/internal/plugin"
)

const envLogLevel = "TSPROTO_LOG_LEVEL"

type opts struct {
	Roots           []string
	Output          string
	Opts            []string
	Config          string
	LogLevel        string
	DescriptorSetIn []string
	Concurrency     int
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("tsproto", pflag.ExitOnError)
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for imports.")
	flags.StringVar(&op.Output, "output", ".", "Output directory or - for STDOUT.")
	flags.StringArrayVar(&op.Opts, "opt", nil, "Generator option as key=value. May be repeated.")
	flags.StringVar(&op.Config, "config", "", "TOML file of generator options. Options given with --opt take precedence.")
	flags.StringVar(&op.LogLevel, "log-level", "", "Log level: panic, fatal, error, warn, info, debug or trace.")
	flags.StringSliceVar(&op.DescriptorSetIn, "descriptor_set_in", nil, "Read input from serialized FileDescriptorSet files instead of parsing sources.")
	flags.IntVar(&op.Concurrency, "concurrency", 0, "Maximum number of files generated at once. Defaults to the number of CPUs.")
	_ = flags.Parse(os.Args[1:])
	targets := flags.Args()

	log, err := newLogger(op.LogLevel)
	if err != nil {
		fail(err)
	}
	reporter := exc.NewReporter(nil)

	var config []options.Entry
	if op.Config != "" {
		config, err = options.LoadConfig(op.Config)
		if err != nil {
			fail(err)
		}
	}
	p := plugin.New(
		plugin.OptionWithExcReporter(reporter),
		plugin.OptionWithConfig(config),
		plugin.OptionWithConcurrency(op.Concurrency),
	)

	if len(targets) == 0 && len(op.DescriptorSetIn) == 0 {
		err = runPlugin(ctx, p, os.Stdin, os.Stdout)
		logWarnings(log, reporter)
		if err != nil {
			fail(err)
		}
		return
	}

	err = runStandalone(ctx, p, reporter, op, targets)
	logWarnings(log, reporter)
	if err != nil {
		fail(err)
	}
}

// runPlugin serves one protoc request read from in.
func runPlugin(ctx context.Context, p *plugin.Plugin, in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(raw, req); err != nil {
		return exc.Wrap(exc.Location{URI: "stdin"}, exc.CodeProtobufParseError, err)
	}
	resp := p.Run(ctx, req)
	b, err := proto.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}

func runStandalone(ctx context.Context, p *plugin.Plugin, reporter exc.Reporter, op *opts, targets []string) error {
	root, err := compiler.NewRootedFS(os.LookupEnv, op.Roots)
	if err != nil {
		return err
	}
	c, err := compiler.New(
		compiler.OptionWithLookupEnv(os.LookupEnv),
		compiler.OptionWithFS(root),
		compiler.OptionWithExcReporter(reporter),
	)
	if err != nil {
		return err
	}
	out, err := c.Compile(ctx, &idl.CompileRequest{
		Files: append(append([]string{}, targets...), op.DescriptorSetIn...),
	})
	if err != nil {
		return err
	}

	files, err := p.Generate(ctx, &pluginpb.CodeGeneratorRequest{
		ProtoFile:      out.Files,
		FileToGenerate: out.Targets,
		Parameter:      proto.String(strings.Join(op.Opts, ",")),
	})
	if err != nil {
		return err
	}

	sink, err := outputFS(op.Output)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := sink.Write(ctx, f.Name, f.Content); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if level == "" {
		level = os.Getenv(envLogLevel)
	}
	if level == "" {
		log.SetLevel(logrus.WarnLevel)
		return log, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	return log, nil
}

func logWarnings(log *logrus.Logger, reporter exc.Reporter) {
	for _, w := range reporter.Warnings() {
		log.WithFields(logrus.Fields{
			"code": w.Code(),
			"uri":  w.Location().URI,
		}).Warn(w.Message())
	}
}

func fail(err error) {
	red := color.New(color.FgRed, color.Bold)
	var me exc.MultiException
	if errors.As(err, &me) {
		for _, e := range me {
			red.Fprintln(os.Stderr, e.Error())
		}
		os.Exit(1)
	}
	red.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

func outputFS(output string) (idl.FileSystem, error) {
	if output == "-" {
		return fs.NewFileSystemStream(os.Stdout), nil
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return fs.NewFileSystemLocal(abs)
}

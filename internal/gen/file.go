package gen

import (
	"strings"

	"gopkg.microglot.org/tsproto.go/internal/casing"
	"gopkg.microglot.org/tsproto.go/internal/code"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
	"gopkg.microglot.org/tsproto.go/internal/target"
)

const (
	header             = "/* eslint-disable */"
	typeRegistryModule = "typeRegistry"
)

// File is one generated TypeScript module.
type File struct {
	// Name is the output path relative to the output root.
	Name    string
	Content string
}

// GenerateFile produces the TypeScript module for one protobuf file.
//
// Generation problems that indicate a bug, such as a field kind the
// generator does not know, panic with an exc.Exception. Callers that run
// untrusted inputs recover them.
func GenerateFile(o options.Options, image *idl.Image, file *idl.File) File {
	c := newContext(o, image, file)
	visits := Walk(image, file, o)
	c.defineLocals(visits)

	var chunks []string
	if o.ExportCommonSymbols {
		chunks = append(chunks, "export const protobufPackage = \""+file.Package+"\";")
	}
	comment := file.Source.Lookup([]int32{idl.PathFileSyntax})
	if doc := docComment(comment.ValueOr(idl.Comment{}), comment.IsPresent(), file.Deprecated, ""); doc != "" {
		chunks = append(chunks, doc)
	}

	var gens []*messageGen
	for _, v := range visits.Types {
		var p code.Printer
		switch v.Kind {
		case VisitEnum:
			c.generateEnum(&p, v)
		case VisitMessage:
			g := c.newMessageGen(v)
			gens = append(gens, g)
			g.generateInterface(&p)
		}
		chunks = append(chunks, p.String())
	}

	if o.OutputEncodeMethods || o.OutputJSONMethods || o.OutputTypeRegistry {
		for _, g := range gens {
			var p code.Printer
			g.generateBaseInstance(&p)
			p.Blank()
			g.generateCodec(&p)
			chunks = append(chunks, p.String())
		}
	}

	if o.OutputServices == options.ServiceDefault {
		for _, sv := range visits.Services {
			var p code.Printer
			c.generateService(&p, sv)
			chunks = append(chunks, p.String())
		}
	}

	for _, fragment := range c.Utils.Realized() {
		chunks = append(chunks, fragment.Body)
	}

	return File{
		Name:    target.OutputFile(file.Name, o.FileSuffix),
		Content: assemble(c.Imports, chunks),
	}
}

// defineLocals reserves every name the module declares so that imports that
// collide with them are aliased.
func (c *Context) defineLocals(visits Visits) {
	for _, v := range visits.Types {
		c.Imports.Define(v.TSName)
		switch v.Kind {
		case VisitEnum:
			for _, suffix := range []string{"FromJSON", "ToJSON", "ToNumber"} {
				c.Imports.Define(casing.CamelCase(v.TSName) + suffix)
			}
		case VisitMessage:
			c.Imports.Define("createBase" + v.TSName)
		}
	}
	for _, sv := range visits.Services {
		c.Imports.Define(sv.Service.Name)
		c.Imports.Define(sv.Service.Name + "ClientImpl")
		c.Imports.Define(sv.Service.Name + "ServiceName")
	}
	if c.Options.ExportCommonSymbols {
		c.Imports.Define("protobufPackage")
	}
}

func (c *Context) typeRegistryModule() string {
	return target.RelativeImport(c.module, typeRegistryModule) + c.Options.ImportSuffix
}

func assemble(imports *code.Imports, chunks []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	if imports.Len() > 0 {
		b.WriteString(imports.Render())
	}
	for _, chunk := range chunks {
		chunk = strings.TrimRight(chunk, "\n")
		if chunk == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(chunk)
		b.WriteString("\n")
	}
	return b.String()
}

// GenerateTypeRegistry produces typeRegistry.ts, the module every generated
// file registers its messages with when the type registry is enabled.
func GenerateTypeRegistry(o options.Options) File {
	file := &idl.File{Name: typeRegistryModule + ".proto", Source: idl.NewSourceInfo(nil)}
	c := newContext(o, idl.NewImage(), file)
	c.module = typeRegistryModule
	writer := c.M0("Writer")
	reader := c.M0("Reader")
	deepPartial := c.Use(utilDeepPartial)

	var p code.Printer
	p.Line("export interface MessageType<Message extends UnknownMessage = UnknownMessage> {")
	p.In()
	p.Line("$type: Message[\"$type\"];")
	p.P("encode(message: Message, writer?: %s): %s;", writer, writer)
	p.P("decode(input: %s | Uint8Array, length?: number): Message;", reader)
	p.Line("fromJSON(object: any): Message;")
	p.Line("toJSON(message: Message): unknown;")
	p.P("fromPartial(object: %s<Message>): Message;", deepPartial)
	p.Out()
	p.Line("}")
	p.Blank()
	p.Line("export type UnknownMessage = { $type: string };")
	p.Blank()
	p.Line("export const messageTypeRegistry = new Map<string, MessageType>();")

	chunks := []string{p.String()}
	for _, fragment := range c.Utils.Realized() {
		chunks = append(chunks, fragment.Body)
	}
	return File{
		Name:    typeRegistryModule + ".ts",
		Content: assemble(c.Imports, chunks),
	}
}

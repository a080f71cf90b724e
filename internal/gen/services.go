package gen

import (
	"fmt"
	"strings"

	"gopkg.microglot.org/tsproto.go/internal/casing"
	"gopkg.microglot.org/tsproto.go/internal/code"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

// methodView is how a method appears in TypeScript. The descriptor itself is
// never modified, so the name sent over the wire is always the declared one.
type methodView struct {
	Method *idl.Method
	// Name is the TypeScript method name.
	Name   string
	Input  string
	Output string
}

func (c *Context) methodView(m *idl.Method) methodView {
	name := m.Name
	if c.Options.LowerCaseServiceMethods {
		name = casing.CamelCase(name)
	}
	return methodView{
		Method: m,
		Name:   name,
		Input:  c.TypeName(m.InputType),
		Output: c.TypeName(m.OutputType),
	}
}

func (c *Context) signature(v methodView) string {
	input := v.Input
	if v.Method.ClientStreaming {
		input = c.Rxjs("Observable") + "<" + input + ">"
	}
	output := "Promise<" + v.Output + ">"
	if v.Method.ServerStreaming {
		output = c.Rxjs("Observable") + "<" + v.Output + ">"
	}
	return fmt.Sprintf("%s(request: %s): %s", v.Name, input, output)
}

// generateService writes the service interface and, when the binary codec is
// emitted, a client implementation over a generic Rpc transport.
func (c *Context) generateService(p *code.Printer, sv ServiceVisit) {
	s := sv.Service
	if doc := docComment(sv.Comment.ValueOr(idl.Comment{}), sv.Comment.IsPresent(), s.Deprecated, ""); doc != "" {
		p.Line(doc)
	}
	p.P("export interface %s {", s.Name)
	p.In()
	for x, m := range s.Methods {
		comment := c.File.Source.Lookup(idl.ChildPath(s.Path, idl.PathServiceMethod, x))
		if doc := docComment(comment.ValueOr(idl.Comment{}), comment.IsPresent(), m.Deprecated, ""); doc != "" {
			p.Line(doc)
		}
		p.P("%s;", c.signature(c.methodView(m)))
	}
	p.Out()
	p.Line("}")

	if !c.Options.OutputClientImpl || !c.Options.OutputEncodeMethods {
		return
	}
	p.Blank()
	p.P("export const %sServiceName = \"%s\";", s.Name, s.FullName)
	p.Blank()
	c.generateClientImpl(p, s)
}

func (c *Context) generateClientImpl(p *code.Printer, s *idl.Service) {
	rpc := c.Use(utilRpc)
	reader := c.M0("Reader")
	p.P("export class %sClientImpl implements %s {", s.Name, s.Name)
	p.In()
	p.P("private readonly rpc: %s;", rpc)
	p.Line("private readonly service: string;")
	p.P("constructor(rpc: %s, opts?: { service?: string }) {", rpc)
	p.In()
	p.P("this.service = opts?.service || %sServiceName;", s.Name)
	p.Line("this.rpc = rpc;")
	for _, m := range s.Methods {
		v := c.methodView(m)
		p.P("this.%[1]s = this.%[1]s.bind(this);", v.Name)
	}
	p.Out()
	p.Line("}")
	for _, m := range s.Methods {
		v := c.methodView(m)
		decode := fmt.Sprintf("%s.decode(%s.create(data))", v.Output, reader)
		p.P("%s {", c.signature(v))
		p.In()
		if m.ClientStreaming {
			p.P("const data = request.pipe(%s((request) => %s.encode(request).finish()));", c.Rxjs("map"), v.Input)
		} else {
			p.P("const data = %s.encode(request).finish();", v.Input)
		}
		switch {
		case m.ClientStreaming && m.ServerStreaming:
			p.P("const result = this.rpc.bidirectionalStreamingRequest(this.service, \"%s\", data);", m.Name)
			p.P("return result.pipe(%s((data) => %s));", c.Rxjs("map"), decode)
		case m.ServerStreaming:
			p.P("const result = this.rpc.serverStreamingRequest(this.service, \"%s\", data);", m.Name)
			p.P("return result.pipe(%s((data) => %s));", c.Rxjs("map"), decode)
		case m.ClientStreaming:
			p.P("const promise = this.rpc.clientStreamingRequest(this.service, \"%s\", data);", m.Name)
			p.P("return promise.then((data) => %s);", decode)
		default:
			p.P("const promise = this.rpc.request(this.service, \"%s\", data);", m.Name)
			p.P("return promise.then((data) => %s);", decode)
		}
		p.Out()
		p.Line("}")
	}
	p.Out()
	p.Line("}")
}

// rpcInterface is the transport a generated client is constructed with. The
// streaming methods are only declared when some service in the file streams.
func rpcInterface(c *Context) string {
	streaming := false
	for _, s := range c.File.Services {
		for _, m := range s.Methods {
			if m.ClientStreaming || m.ServerStreaming {
				streaming = true
			}
		}
	}
	lines := []string{
		"interface Rpc {",
		"  request(service: string, method: string, data: Uint8Array): Promise<Uint8Array>;",
	}
	if streaming {
		observable := c.Rxjs("Observable")
		lines = append(lines,
			fmt.Sprintf("  clientStreamingRequest(service: string, method: string, data: %s<Uint8Array>): Promise<Uint8Array>;", observable),
			fmt.Sprintf("  serverStreamingRequest(service: string, method: string, data: Uint8Array): %s<Uint8Array>;", observable),
			fmt.Sprintf("  bidirectionalStreamingRequest(service: string, method: string, data: %[1]s<Uint8Array>): %[1]s<Uint8Array>;", observable),
		)
	}
	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

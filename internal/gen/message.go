package gen

import (
	"strings"

	"gopkg.microglot.org/tsproto.go/internal/code"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
)

// messageGen holds the resolved fields of one message while its declaration
// and codec are written.
type messageGen struct {
	c      *Context
	visit  Visit
	m      *idl.Message
	name   string
	fields []*Resolution
}

func (c *Context) newMessageGen(v Visit) *messageGen {
	g := &messageGen{c: c, visit: v, m: v.Message, name: v.TSName}
	for _, f := range v.Message.Fields {
		g.fields = append(g.fields, c.Resolve(v.Message, f))
	}
	return g
}

func (g *messageGen) options() options.Options {
	return g.c.Options
}

// unionMembers returns the members of r's oneof emitted as a tagged union,
// in declaration order.
func (g *messageGen) unionMembers(r *Resolution) []*Resolution {
	var out []*Resolution
	for _, f := range g.fields {
		if f.Union && f.Field.OneofIndex.Value() == r.Field.OneofIndex.Value() {
			out = append(out, f)
		}
	}
	return out
}

// oneofSiblings returns the other members of r's oneof when members are
// emitted as separate properties.
func (g *messageGen) oneofSiblings(r *Resolution) []*Resolution {
	if r.Union || !r.Field.InOneof() {
		return nil
	}
	var out []*Resolution
	for _, f := range g.fields {
		if f != r && f.Field.InOneof() && f.Field.OneofIndex.Value() == r.Field.OneofIndex.Value() {
			out = append(out, f)
		}
	}
	return out
}

// firstInUnion reports whether r is the first member of its oneof, the point
// at which the union as a whole is handled.
func (g *messageGen) firstInUnion(r *Resolution) bool {
	return g.unionMembers(r)[0] == r
}

func (g *messageGen) createBase() string {
	if g.options().UsePrototypeForDefaults {
		return "Object.create(createBase" + g.name + "()) as " + g.name
	}
	return "createBase" + g.name + "()"
}

func (g *messageGen) typeField() string {
	return "$type: \"" + g.m.FullName + "\""
}

// generateInterface writes the TypeScript interface for the message.
func (g *messageGen) generateInterface(p *code.Printer) {
	o := g.options()
	ro := maybeReadonly(o)
	if doc := docComment(g.visit.Comment.ValueOr(idl.Comment{}), g.visit.Comment.IsPresent(), g.m.Deprecated, ""); doc != "" {
		p.Line(doc)
	}
	p.P("export interface %s {", g.name)
	p.In()
	if o.OutputTypeRegistry {
		p.P("$type: \"%s\";", g.m.FullName)
	}
	for _, r := range g.fields {
		if r.Union {
			if g.firstInUnion(r) {
				g.unionProperty(p, r)
			}
			continue
		}
		comment := g.m.File.Source.Lookup(idl.ChildPath(g.m.Path, idl.PathMessageField, r.Field.Index))
		if doc := docComment(comment.ValueOr(idl.Comment{}), comment.IsPresent(), r.Field.Deprecated, ""); doc != "" {
			p.Line(doc)
		}
		q := ""
		if r.Optional {
			q = "?"
		}
		p.P("%s%s%s: %s;", ro, r.Name, q, r.Type)
	}
	p.Out()
	p.Line("}")
}

func (g *messageGen) unionProperty(p *code.Printer, r *Resolution) {
	ro := maybeReadonly(g.options())
	members := g.unionMembers(r)
	variants := make([]string, 0, len(members))
	for _, member := range members {
		variants = append(variants, "{ "+ro+"$case: \""+member.Name+"\"; "+ro+member.Name+": "+member.Type+" }")
	}
	oneof := g.m.Oneofs[r.Field.OneofIndex.Value()]
	comment := g.m.File.Source.Lookup(idl.ChildPath(g.m.Path, idl.PathMessageOneofDecl, int(oneof.Index)))
	if doc := docComment(comment.ValueOr(idl.Comment{}), comment.IsPresent(), false, ""); doc != "" {
		p.Line(doc)
	}
	p.P("%s%s?:", ro, r.OneofName)
	p.In()
	for x, variant := range variants {
		end := ""
		if x == len(variants)-1 {
			end = ";"
		}
		p.P("| %s%s", variant, end)
	}
	p.Out()
}

// generateBaseInstance writes createBaseX, the factory of a message with
// every implicit default filled in.
func (g *messageGen) generateBaseInstance(p *code.Printer) {
	o := g.options()
	var entries []string
	if o.OutputTypeRegistry {
		entries = append(entries, g.typeField())
	}
	for _, r := range g.fields {
		if r.Union {
			if g.firstInUnion(r) {
				entries = append(entries, r.OneofName+": undefined")
			}
			continue
		}
		// Containers are always created since decode appends to them.
		if !o.InitializeFieldsAsUndefined && r.Optional && !r.Field.Repeated {
			continue
		}
		entries = append(entries, r.Name+": "+r.Default)
	}
	p.P("function createBase%s(): %s {", g.name, g.name)
	p.In()
	if len(entries) == 0 {
		p.Line("return {};")
	} else {
		p.P("return { %s };", strings.Join(entries, ", "))
	}
	p.Out()
	p.Line("}")
}

// generateCodec writes the exported object holding the message's methods and
// registers it with the type registry when enabled.
func (g *messageGen) generateCodec(p *code.Printer) {
	o := g.options()
	var members []string
	if o.OutputTypeRegistry {
		members = append(members, "$type: \""+g.m.FullName+"\" as const")
	}
	if o.OutputEncodeMethods {
		members = append(members, g.encode(), g.decode())
	}
	if o.OutputJSONMethods {
		members = append(members, g.fromJSON(), g.toJSON())
	}
	if o.OutputPartialMethods {
		members = append(members, g.fromPartial())
	}
	members = append(members, g.wellKnownMembers()...)

	p.P("export const %s = {", g.name)
	for x, member := range members {
		if x > 0 {
			p.Blank()
		}
		p.Line(code.Indent(strings.TrimRight(member, "\n"), 1) + ",")
	}
	p.Line("};")
	if o.OutputTypeRegistry {
		registry := g.c.Imports.Named(g.c.typeRegistryModule(), "messageTypeRegistry")
		p.Blank()
		p.P("%s.set(%s.$type, %s);", registry, g.name, g.name)
	}
}

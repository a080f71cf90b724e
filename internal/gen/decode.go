package gen

import (
	"fmt"

	"gopkg.microglot.org/tsproto.go/internal/code"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
)

// readSnippet is the expression that reads one value of the field from
// reader.
func (g *messageGen) readSnippet(r *Resolution) string {
	c := g.c
	o := g.options()
	switch r.Category {
	case CategoryScalar:
		read := "reader." + g.c.readerCall(r.Scalar) + "()"
		switch {
		case r.Scalar == idl.FieldTypeBytes && o.Env == options.EnvNode:
			return read + " as Buffer"
		case isLongType(r.Scalar):
			long := c.Long()
			switch o.ForceLong {
			case options.LongLong:
				return read + " as " + long
			case options.LongString:
				return c.Use(utilLongToString) + "(" + read + " as " + long + ")"
			default:
				return c.Use(utilLongToNumber) + "(" + read + " as " + long + ")"
			}
		}
		return read
	case CategoryEnum:
		read := "reader." + g.c.readerCall(idl.FieldTypeEnum) + "()"
		if o.StringEnums {
			return c.EnumFunction(r.Enum, "FromJSON") + "(" + read + ")"
		}
		return read + " as any"
	case CategoryWrapper:
		return r.Target + ".decode(reader, reader.uint32()).value"
	case CategoryStruct, CategoryValue, CategoryListValue, CategoryFieldMask:
		return r.Target + ".unwrap(" + r.Target + ".decode(reader, reader.uint32()))"
	case CategoryTimestamp:
		if o.UseDate == options.DateTimestamp {
			return r.Target + ".decode(reader, reader.uint32())"
		}
		return c.Use(utilFromTimestamp) + "(" + r.Target + ".decode(reader, reader.uint32()))"
	case CategoryMessage, CategoryBoxed:
		return r.Target + ".decode(reader, reader.uint32())"
	case CategoryMap:
		return r.MapEntry + ".decode(reader, reader.uint32())"
	default:
		panic(unhandled(c, r.Field, g.m.FullName))
	}
}

// decode writes the decode member: a loop over tags that dispatches on the
// field number and skips, or captures, everything else.
func (g *messageGen) decode() string {
	c := g.c
	o := g.options()
	reader := c.M0("Reader")
	var p code.Printer
	p.P("decode(input: %s | Uint8Array, length?: number): %s {", reader, g.name)
	p.In()
	p.P("const reader = input instanceof %[1]s ? input : new %[1]s(input);", reader)
	p.Line("let end = length === undefined ? reader.len : reader.pos + length;")
	p.P("const message = %s%s;", g.createBase(), maybeAsAny(o))
	if o.UnknownFields {
		p.Line("(message as any)._unknownFields = {};")
	}
	p.Line("while (reader.pos < end) {")
	p.In()
	p.Line("const tag = reader.uint32();")
	p.Line("switch (tag >>> 3) {")
	p.In()
	for _, r := range g.fields {
		p.P("case %d:", r.Field.Number)
		p.In()
		g.decodeField(&p, r)
		p.Line("break;")
		p.Out()
	}
	p.Line("default:")
	p.In()
	if o.UnknownFields {
		p.Line("const startPos = reader.pos;")
		p.Line("reader.skipType(tag & 7);")
		p.Line("(message as any)._unknownFields[tag] = [...((message as any)._unknownFields[tag] || []), reader.buf.slice(startPos, reader.pos)];")
	} else {
		p.Line("reader.skipType(tag & 7);")
	}
	p.Line("break;")
	p.Out()
	p.Out()
	p.Line("}")
	p.Out()
	p.Line("}")
	p.Line("return message;")
	p.Out()
	p.Line("}")
	return p.String()
}

func (g *messageGen) decodeField(p *code.Printer, r *Resolution) {
	o := g.options()
	read := g.readSnippet(r)
	nonNull := ""
	if o.UseOptionals == options.OptionalsAll {
		nonNull = "!"
	}
	switch {
	case r.Category == CategoryMap:
		entry := fmt.Sprintf("entry%d", r.Field.Number)
		p.P("const %s = %s;", entry, read)
		p.P("if (%s.value !== undefined) {", entry)
		p.In()
		if o.UseMapType {
			p.P("message.%s%s.set(%s.key, %s.value);", r.Name, nonNull, entry, entry)
		} else {
			p.P("message.%s%s[%s.key] = %s.value;", r.Name, nonNull, entry, entry)
		}
		p.Out()
		p.Line("}")
	case r.Repeated() && r.Packable:
		// Packed and unpacked encodings are both accepted regardless of how
		// the field is declared.
		p.Line("if ((tag & 7) === 2) {")
		p.In()
		p.Line("const end2 = reader.uint32() + reader.pos;")
		p.Line("while (reader.pos < end2) {")
		p.In()
		p.P("message.%s%s.push(%s);", r.Name, nonNull, read)
		p.Out()
		p.Line("}")
		p.Out()
		p.Line("} else {")
		p.In()
		p.P("message.%s%s.push(%s);", r.Name, nonNull, read)
		p.Out()
		p.Line("}")
	case r.Repeated():
		p.P("message.%s%s.push(%s);", r.Name, nonNull, read)
	case r.Union:
		p.P("message.%s = { $case: \"%s\", %s: %s };", r.OneofName, r.Name, r.Name, read)
	default:
		// Only the last oneof member read stays set.
		for _, sibling := range g.oneofSiblings(r) {
			p.P("message.%s = undefined;", sibling.Name)
		}
		p.P("message.%s = %s;", r.Name, read)
	}
}

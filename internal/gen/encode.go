package gen

import (
	"fmt"

	"gopkg.microglot.org/tsproto.go/internal/code"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
)

// writeSnippet is the statement that writes one value of the field, tag
// included.
func (g *messageGen) writeSnippet(r *Resolution, place string) string {
	c := g.c
	o := g.options()
	message := func(value string) string {
		return fmt.Sprintf("%s.encode(%s, writer.uint32(%d).fork()).ldelim()", r.Target, value, r.Tag)
	}
	switch r.Category {
	case CategoryEnum:
		if o.StringEnums {
			return fmt.Sprintf("writer.uint32(%d).%s(%s(%s))", r.Tag, g.c.readerCall(idl.FieldTypeEnum), c.EnumFunction(r.Enum, "ToNumber"), place)
		}
		return fmt.Sprintf("writer.uint32(%d).%s(%s)", r.Tag, g.c.readerCall(idl.FieldTypeEnum), place)
	case CategoryScalar:
		return fmt.Sprintf("writer.uint32(%d).%s(%s)", r.Tag, g.c.readerCall(r.Scalar), place)
	case CategoryTimestamp:
		if o.UseDate == options.DateTimestamp {
			return message(place)
		}
		return message(c.Use(utilToTimestamp) + "(" + place + ")")
	case CategoryWrapper:
		typeField := ""
		if o.OutputTypeRegistry {
			typeField = "$type: \"" + r.Message.FullName + "\", "
		}
		return message("{ " + typeField + "value: " + place + "! }")
	case CategoryStruct, CategoryValue, CategoryListValue, CategoryFieldMask:
		return message(r.Target + ".wrap(" + place + ")")
	case CategoryMessage, CategoryBoxed:
		return message(place)
	case CategoryMap:
		return fmt.Sprintf("%s.encode(%s, writer.uint32(%d).fork()).ldelim()", r.MapEntry, place, r.Tag)
	default:
		panic(unhandled(c, r.Field, g.m.FullName))
	}
}

// encode writes the encode member. Fields are written in declaration order;
// implicit presence fields equal to their default are skipped.
func (g *messageGen) encode() string {
	o := g.options()
	writer := g.c.M0("Writer")
	param := "_"
	if len(g.fields) > 0 || o.UnknownFields {
		param = "message"
	}
	var p code.Printer
	p.P("encode(%s: %s, writer: %s = %s.create()): %s {", param, g.name, writer, writer, writer)
	p.In()
	for _, r := range g.fields {
		g.encodeField(&p, r)
	}
	if o.UnknownFields {
		p.Line(`if ("_unknownFields" in message) {
  const msgUnknownFields: any = (message as any)["_unknownFields"];
  for (const key of Object.keys(msgUnknownFields)) {
    const values = msgUnknownFields[key] as Uint8Array[];
    for (const value of values) {
      writer.uint32(parseInt(key, 10));
      (writer as any)["_push"](
        (val: Uint8Array, buf: Buffer, pos: number) => buf.set(val, pos),
        value.length,
        value,
      );
    }
  }
}`)
	}
	p.Line("return writer;")
	p.Out()
	p.Line("}")
	return p.String()
}

func (g *messageGen) encodeField(p *code.Printer, r *Resolution) {
	o := g.options()
	field := "message." + r.Name
	guardList := func(body func()) {
		if r.Optional {
			p.Block(fmt.Sprintf("if (%[1]s !== undefined && %[1]s.length !== 0) {", field), body, "}")
			return
		}
		body()
	}
	switch {
	case r.Category == CategoryMap:
		typeField := ""
		if o.OutputTypeRegistry {
			typeField = "$type: \"" + r.Message.FullName + "\", "
		}
		key := "key as any"
		if !o.UseMapType && r.MapKeyType != "string" {
			// Object keys are strings whatever the declared key type.
			key = g.mapKeyFromString(r, "key")
		}
		write := g.writeSnippet(r, "{ "+typeField+"key: "+key+", value }") + ";"
		if r.MapValue.isValueType() {
			write = "if (value !== undefined) {\n  " + write + "\n}"
		}
		alternative := ""
		if r.Optional {
			if o.UseMapType {
				alternative = " || new Map()"
			} else {
				alternative = " || {}"
			}
		}
		if o.UseMapType {
			p.Block(fmt.Sprintf("(%s%s).forEach((value, key) => {", field, alternative), func() { p.Line(write) }, "});")
		} else {
			p.Block(fmt.Sprintf("Object.entries(%s%s).forEach(([key, value]) => {", field, alternative), func() { p.Line(write) }, "});")
		}
	case r.Repeated() && r.Packed:
		call := g.c.readerCall(r.Scalar)
		value := "v"
		if r.Category == CategoryEnum {
			call = g.c.readerCall(idl.FieldTypeEnum)
			if o.StringEnums {
				value = g.c.EnumFunction(r.Enum, "ToNumber") + "(v)"
			}
		}
		guardList(func() {
			p.P("writer.uint32(%d).fork();", r.PackedTag)
			p.Block(fmt.Sprintf("for (const v of %s) {", field), func() {
				p.P("writer.%s(%s);", call, value)
			}, "}")
			p.Line("writer.ldelim();")
		})
	case r.Repeated():
		guardList(func() {
			p.Block(fmt.Sprintf("for (const v of %s) {", field), func() {
				p.P("%s;", g.writeSnippet(r, "v!"))
			}, "}")
		})
	case r.Union:
		oneof := "message." + r.OneofName
		p.Block(fmt.Sprintf("if (%s?.$case === \"%s\") {", oneof, r.Name), func() {
			p.P("%s;", g.writeSnippet(r, oneof+"."+r.Name))
		}, "}")
	case r.Presence || r.Zero == "undefined":
		p.Block(fmt.Sprintf("if (%s !== undefined) {", field), func() {
			p.P("%s;", g.writeSnippet(r, field))
		}, "}")
	default:
		p.Block(fmt.Sprintf("if (%s) {", g.c.notDefaultCheck(r, field)), func() {
			p.P("%s;", g.writeSnippet(r, field))
		}, "}")
	}
}

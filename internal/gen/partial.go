package gen

import (
	"fmt"

	"gopkg.microglot.org/tsproto.go/internal/casing"
	"gopkg.microglot.org/tsproto.go/internal/code"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
)

// partialRead copies one present value of the field out of a partial input.
func (g *messageGen) partialRead(r *Resolution, from string) string {
	c := g.c
	o := g.options()
	if r.IsLong() && o.LongIsLong() {
		return c.Long() + ".fromValue(" + from + ")"
	}
	switch r.Category {
	case CategoryScalar, CategoryEnum, CategoryWrapper, CategoryStruct, CategoryValue, CategoryListValue, CategoryFieldMask:
		return from
	case CategoryTimestamp:
		if o.UseDate == options.DateTimestamp {
			return r.Target + ".fromPartial(" + from + ")"
		}
		return from
	case CategoryMessage, CategoryBoxed:
		return r.Target + ".fromPartial(" + from + ")"
	default:
		panic(unhandled(c, r.Field, g.m.FullName))
	}
}

// partialMapValue is partialRead for map values, which arrive typed loosely
// enough that scalars are coerced again.
func (g *messageGen) partialMapValue(r *Resolution, from string) string {
	o := g.options()
	switch r.Category {
	case CategoryEnum:
		return from + " as " + r.Target
	case CategoryScalar:
		switch {
		case r.Scalar == idl.FieldTypeBytes:
			return from
		case r.IsLong() && o.LongIsLong():
			return g.c.Long() + ".fromValue(" + from + ")"
		}
		return casing.Capitalize(g.c.scalarType(r.Scalar)) + "(" + from + ")"
	default:
		return g.partialRead(r, from)
	}
}

// fromPartial writes the fromPartial member. Containers are always rebuilt
// so the result never shares them with its input.
func (g *messageGen) fromPartial() string {
	c := g.c
	o := g.options()
	param := "_"
	if len(g.fields) > 0 {
		param = "object"
	}
	var p code.Printer
	if o.UseExactTypes {
		p.P("fromPartial<I extends %s<%s<%s>, I>>(%s: I): %s {", c.Use(utilExact), c.Use(utilDeepPartial), g.name, param, g.name)
	} else {
		p.P("fromPartial(%s: %s<%s>): %s {", param, c.Use(utilDeepPartial), g.name, g.name)
	}
	p.In()
	p.P("const message = %s%s;", g.createBase(), maybeAsAny(o))
	for _, r := range g.fields {
		field := "message." + r.Name
		input := "object." + r.Name
		switch {
		case r.Category == CategoryMap:
			read := g.partialMapValue(r.MapValue, "value")
			if o.UseMapType {
				p.P(`%[1]s = (() => {
  const m = new Map();
  (%[2]s as %[3]s ?? new Map()).forEach((value, key) => {
    if (value !== undefined) {
      m.set(%[4]s, %[5]s);
    }
  });
  return m;
})();`, field, input, r.Type, "key", read)
			} else {
				p.P(`%[1]s = Object.entries(%[2]s ?? {}).reduce<%[3]s>((acc, [key, value]) => {
  if (value !== undefined) {
    acc[%[4]s] = %[5]s;
  }
  return acc;
}, {});`, field, input, r.Type, g.mapKeyFromString(r, "key"), read)
			}
		case r.Repeated():
			p.P("%s = %s?.map((e) => %s) || [];", field, input, g.partialRead(r, "e"))
		case r.Union:
			oneof := "object." + r.OneofName
			member := oneof + "?." + r.Name
			p.Block(fmt.Sprintf("if (%s?.$case === \"%s\" && %s !== undefined && %s !== null) {", oneof, r.Name, member, member), func() {
				p.P("message.%s = { $case: \"%s\", %s: %s };", r.OneofName, r.Name, r.Name, g.partialRead(r, oneof+"."+r.Name))
			}, "}")
		default:
			read := g.partialRead(r, input)
			if read == input {
				p.P("%s = %s ?? %s;", field, input, r.Default)
			} else {
				p.P("%s = (%s !== undefined && %s !== null) ? %s : %s;", field, input, input, read, r.Default)
			}
		}
	}
	p.Line("return message;")
	p.Out()
	p.Line("}")
	return p.String()
}

package gen

import (
	"strconv"
	"strings"

	"gopkg.microglot.org/tsproto.go/internal/casing"
	"gopkg.microglot.org/tsproto.go/internal/code"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
)

const unrecognizedName = "UNRECOGNIZED"

// enumMemberName is the TypeScript member for an enum value.
func (c *Context) enumMemberName(e *idl.Enum, value string) string {
	if c.Options.RemoveEnumPrefix == options.RemoveEnumPrefixNone {
		return value
	}
	return stripEnumPrefix(tsEnumName(c.Image, c.Options, e), value)
}

// enumJSONName is the string a value takes in JSON and in string enums.
func (c *Context) enumJSONName(e *idl.Enum, value string) string {
	if c.Options.RemoveEnumPrefix == options.RemoveEnumPrefixAll {
		return stripEnumPrefix(tsEnumName(c.Image, c.Options, e), value)
	}
	return value
}

func stripEnumPrefix(enumName string, value string) string {
	prefix := casing.CamelToSnake(enumName) + "_"
	if strings.HasPrefix(value, prefix) && len(value) > len(prefix) {
		return value[len(prefix):]
	}
	return value
}

// generateEnum writes the enum declaration and its converter functions.
func (c *Context) generateEnum(p *code.Printer, v Visit) {
	o := c.Options
	e := v.Enum
	name := v.TSName

	if doc := docComment(v.Comment.ValueOr(idl.Comment{}), v.Comment.IsPresent(), e.Deprecated, ""); doc != "" {
		p.Line(doc)
	}
	switch {
	case o.EnumsAsLiterals:
		p.P("export const %s = {", name)
	case o.ConstEnums:
		p.P("export const enum %s {", name)
	default:
		p.P("export enum %s {", name)
	}
	delim := " ="
	if o.EnumsAsLiterals {
		delim = ":"
	}
	p.In()
	for x, value := range e.Values {
		path := idl.ChildPath(e.Path, idl.PathEnumValue, x)
		comment := e.File.Source.Lookup(path)
		if doc := docComment(comment.ValueOr(idl.Comment{}), comment.IsPresent(), value.Deprecated, value.Name+" - "); doc != "" && comment.IsPresent() {
			p.Line(doc)
		} else if value.Deprecated {
			p.Line("/** @deprecated */")
		}
		p.P("%s%s %s,", c.enumMemberName(e, value.Name), delim, c.enumValueLiteral(e, value))
	}
	if o.UnrecognizedEnum {
		literal := "-1"
		if o.StringEnums {
			literal = strconv.Quote(unrecognizedName)
		}
		p.P("%s%s %s,", unrecognizedName, delim, literal)
	}
	p.Out()
	if o.EnumsAsLiterals {
		p.Line("} as const;")
		p.Blank()
		p.P("export type %[1]s = typeof %[1]s[keyof typeof %[1]s];", name)
	} else {
		p.Line("}")
	}

	if o.OutputJSONMethods || (o.StringEnums && o.OutputEncodeMethods) {
		p.Blank()
		c.generateEnumFromJSON(p, e, name)
	}
	if o.OutputJSONMethods {
		p.Blank()
		c.generateEnumToJSON(p, e, name)
	}
	if o.StringEnums && o.OutputEncodeMethods {
		p.Blank()
		c.generateEnumToNumber(p, e, name)
	}
}

func (c *Context) enumValueLiteral(e *idl.Enum, value *idl.EnumValue) string {
	if c.Options.StringEnums {
		return strconv.Quote(c.enumJSONName(e, value.Name))
	}
	return strconv.FormatInt(int64(value.Number), 10)
}

// distinctValues drops aliases so that each number produces one case.
func distinctValues(e *idl.Enum) []*idl.EnumValue {
	seen := make(map[int32]bool, len(e.Values))
	var out []*idl.EnumValue
	for _, v := range e.Values {
		if seen[v.Number] {
			continue
		}
		seen[v.Number] = true
		out = append(out, v)
	}
	return out
}

func (c *Context) generateEnumFromJSON(p *code.Printer, e *idl.Enum, name string) {
	o := c.Options
	fn := casing.CamelCase(name) + "FromJSON"
	p.P("export function %s(object: any): %s {", fn, name)
	p.In()
	p.Line("switch (object) {")
	p.In()
	seen := make(map[int32]bool, len(e.Values))
	for _, value := range e.Values {
		// An alias shares its number with an earlier value and only adds its
		// name.
		if !seen[value.Number] {
			p.P("case %d:", value.Number)
			seen[value.Number] = true
		}
		p.P("case %s:", strconv.Quote(c.enumJSONName(e, value.Name)))
		p.In()
		p.P("return %s.%s;", name, c.enumMemberName(e, value.Name))
		p.Out()
	}
	if o.UnrecognizedEnum {
		p.Line("case -1:")
		p.P("case %s:", strconv.Quote(unrecognizedName))
		p.Line("default:")
		p.In()
		p.P("return %s.%s;", name, unrecognizedName)
		p.Out()
	} else {
		p.Line("default:")
		p.In()
		p.P(`throw new %s.Error("Unrecognized enum value " + object + " for enum %s");`, c.Use(utilGlobalThis), name)
		p.Out()
	}
	p.Out()
	p.Line("}")
	p.Out()
	p.Line("}")
}

func (c *Context) generateEnumToJSON(p *code.Printer, e *idl.Enum, name string) {
	fn := casing.CamelCase(name) + "ToJSON"
	p.P("export function %s(object: %s): string {", fn, name)
	p.In()
	p.Line("switch (object) {")
	p.In()
	for _, value := range distinctValues(e) {
		p.P("case %s.%s:", name, c.enumMemberName(e, value.Name))
		p.In()
		p.P("return %s;", strconv.Quote(c.enumJSONName(e, value.Name)))
		p.Out()
	}
	p.Line("default:")
	p.In()
	p.Line(`return "UNKNOWN";`)
	p.Out()
	p.Out()
	p.Line("}")
	p.Out()
	p.Line("}")
}

func (c *Context) generateEnumToNumber(p *code.Printer, e *idl.Enum, name string) {
	fn := casing.CamelCase(name) + "ToNumber"
	p.P("export function %s(object: %s): number {", fn, name)
	p.In()
	p.Line("switch (object) {")
	p.In()
	for _, value := range distinctValues(e) {
		p.P("case %s.%s:", name, c.enumMemberName(e, value.Name))
		p.In()
		p.P("return %d;", value.Number)
		p.Out()
	}
	p.Line("default:")
	p.In()
	p.Line("return 0;")
	p.Out()
	p.Out()
	p.Line("}")
	p.Out()
	p.Line("}")
}

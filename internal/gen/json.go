package gen

import (
	"fmt"
	"strings"

	"gopkg.microglot.org/tsproto.go/internal/code"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
)

// jsonRead converts one JSON value of the field into its TypeScript form.
func (g *messageGen) jsonRead(r *Resolution, from string) string {
	c := g.c
	o := g.options()
	switch r.Category {
	case CategoryEnum:
		return c.EnumFunction(r.Enum, "FromJSON") + "(" + from + ")"
	case CategoryScalar, CategoryWrapper:
		return g.jsonReadScalar(r.Scalar, from)
	case CategoryBoxed:
		typeField := ""
		if o.OutputTypeRegistry {
			typeField = "$type: \"" + r.Message.FullName + "\", "
		}
		return "{ " + typeField + "value: " + g.jsonReadScalar(r.Scalar, from) + " }"
	case CategoryTimestamp:
		if o.UseDate == options.DateString {
			return "String(" + from + ")"
		}
		return c.Use(utilFromJSONTimestamp) + "(" + from + ")"
	case CategoryValue, CategoryStruct:
		return from
	case CategoryFieldMask:
		return r.Target + ".unwrap(" + r.Target + ".fromJSON(" + from + "))"
	case CategoryListValue:
		return "[..." + from + "]"
	case CategoryMessage:
		return r.Target + ".fromJSON(" + from + ")"
	default:
		panic(unhandled(c, r.Field, g.m.FullName))
	}
}

func (g *messageGen) jsonReadScalar(t idl.FieldType, from string) string {
	c := g.c
	o := g.options()
	switch {
	case t == idl.FieldTypeBytes:
		if o.Env == options.EnvNode {
			return "Buffer.from(" + c.Use(utilBytesFromBase64) + "(" + from + "))"
		}
		return c.Use(utilBytesFromBase64) + "(" + from + ")"
	case isLongType(t) && o.LongIsLong():
		return c.Long() + ".fromValue(" + from + ")"
	}
	switch c.scalarType(t) {
	case "number":
		return "Number(" + from + ")"
	case "boolean":
		return "Boolean(" + from + ")"
	default:
		return "String(" + from + ")"
	}
}

// jsonWrite converts one present value of the field into its JSON form.
func (g *messageGen) jsonWrite(r *Resolution, from string) string {
	c := g.c
	o := g.options()
	switch r.Category {
	case CategoryEnum:
		return c.EnumFunction(r.Enum, "ToJSON") + "(" + from + ")"
	case CategoryScalar, CategoryWrapper:
		return g.jsonWriteScalar(r.Scalar, from)
	case CategoryBoxed:
		return g.jsonWriteScalar(r.Scalar, from+".value")
	case CategoryTimestamp:
		switch o.UseDate {
		case options.DateDate:
			return from + ".toISOString()"
		case options.DateString:
			return from
		default:
			return c.Use(utilFromTimestamp) + "(" + from + ").toISOString()"
		}
	case CategoryValue, CategoryStruct, CategoryListValue:
		return from
	case CategoryFieldMask:
		return r.Target + ".toJSON(" + r.Target + ".wrap(" + from + "))"
	case CategoryMessage:
		return r.Target + ".toJSON(" + from + ")"
	default:
		panic(unhandled(c, r.Field, g.m.FullName))
	}
}

func (g *messageGen) jsonWriteScalar(t idl.FieldType, from string) string {
	o := g.options()
	switch {
	case t == idl.FieldTypeBytes:
		return g.c.Use(utilBase64FromBytes) + "(" + from + ")"
	case isLongType(t) && o.LongIsLong():
		return from + ".toString()"
	case isLongType(t) && o.LongIsString():
		return from
	case isLongType(t):
		// 64-bit integers are decimal strings in JSON.
		return "String(Math.round(" + from + "))"
	case isWholeNumber(t):
		return "Math.round(" + from + ")"
	default:
		return from
	}
}

// fromJSON writes the fromJSON member. Absent or null keys produce defaults.
func (g *messageGen) fromJSON() string {
	c := g.c
	o := g.options()
	param := "_"
	if len(g.fields) > 0 {
		param = "object"
	}
	var p code.Printer
	p.P("fromJSON(%s: any): %s {", param, g.name)
	p.In()
	switch g.m.FullName {
	case idl.WKTDuration:
		g.durationFromJSON(&p)
	}
	p.Line("return {")
	p.In()
	if o.OutputTypeRegistry {
		p.P("$type: %s.$type,", g.name)
	}
	for _, r := range g.fields {
		key := propertyAccessor("object", r.JSONName, false)
		keyOptional := propertyAccessor("object", r.JSONName, true)
		switch {
		case g.m.FullName == idl.WKTFieldMask && r.Field.Name == "paths":
			p.P(`%s: typeof object === "string"
  ? object.split(",").filter(Boolean)
  : Array.isArray(object?.paths)
  ? object.paths.map(String)
  : [],`, r.Name)
		case r.Category == CategoryMap:
			g.mapFromJSON(&p, r, key)
		case r.Repeated():
			read := g.jsonRead(r, "e")
			if read == "e" {
				p.P("%s: Array.isArray(%s) ? [...%s] : [],", r.Name, keyOptional, key)
			} else {
				p.P("%s: Array.isArray(%s) ? %s.map((e: any) => %s) : [],", r.Name, keyOptional, key, read)
			}
		case r.Union:
			members := g.unionMembers(r)
			if members[0] != r {
				continue
			}
			var b strings.Builder
			b.WriteString(r.OneofName + ": ")
			for _, member := range members {
				memberKey := propertyAccessor("object", member.JSONName, false)
				fmt.Fprintf(&b, "%s(%s)\n  ? { $case: \"%s\", %s: %s }\n  : ", c.Use(utilIsSet), memberKey, member.Name, member.Name, g.jsonRead(member, memberKey))
			}
			b.WriteString("undefined,")
			p.Line(b.String())
		case r.Category == CategoryValue:
			p.P("%s: %s(%s) ? %s : undefined,", r.Name, c.Use(utilIsSet), keyOptional, g.jsonRead(r, key))
		case r.Category == CategoryStruct:
			p.P("%s: %s(%s) ? %s : undefined,", r.Name, c.Use(utilIsObject), key, g.jsonRead(r, key))
		case r.Category == CategoryListValue:
			p.P("%s: Array.isArray(%s) ? %s : undefined,", r.Name, key, g.jsonRead(r, key))
		default:
			p.P("%s: %s(%s) ? %s : %s,", r.Name, c.Use(utilIsSet), key, g.jsonRead(r, key), r.Default)
		}
	}
	p.Out()
	p.Line("};")
	p.Out()
	p.Line("}")
	return p.String()
}

func (g *messageGen) mapFromJSON(p *code.Printer, r *Resolution, key string) {
	c := g.c
	o := g.options()
	k := g.mapKeyFromString(r, "key")
	read := g.jsonRead(r.MapValue, "value")
	if o.UseMapType {
		p.P(`%[1]s: %[2]s(%[3]s)
  ? Object.entries(%[3]s).reduce<%[4]s>((acc, [key, value]) => {
    acc.set(%[5]s, %[6]s);
    return acc;
  }, new Map())
  : new Map(),`, r.Name, c.Use(utilIsObject), key, r.Type, k, read)
		return
	}
	p.P(`%[1]s: %[2]s(%[3]s)
  ? Object.entries(%[3]s).reduce<%[4]s>((acc, [key, value]) => {
    acc[%[5]s] = %[6]s;
    return acc;
  }, {})
  : {},`, r.Name, c.Use(utilIsObject), key, r.Type, k, read)
}

// mapKeyFromString converts a map key read from an object property, which is
// always a string, back to the key's type.
func (g *messageGen) mapKeyFromString(r *Resolution, from string) string {
	key := r.MapKey
	switch {
	case key.Scalar == idl.FieldTypeBool:
		return from + ` === "true"`
	case key.IsLong() && g.options().LongIsLong():
		return g.c.Long() + ".fromValue(" + from + ")"
	case r.MapKeyType == "string":
		return from
	default:
		return "Number(" + from + ")"
	}
}

// toJSON writes the toJSON member. Only present fields are written: implicit
// presence fields equal to their default, empty lists and empty maps are
// left out.
func (g *messageGen) toJSON() string {
	c := g.c
	switch g.m.FullName {
	case idl.WKTFieldMask:
		return "toJSON(message: " + g.name + "): string {\n  return message.paths.join(\",\");\n}"
	case idl.WKTDuration:
		return g.durationToJSON()
	}
	param := "_"
	if len(g.fields) > 0 {
		param = "message"
	}
	var p code.Printer
	p.P("toJSON(%s: %s): unknown {", param, g.name)
	p.In()
	p.Line("const obj: any = {};")
	for _, r := range g.fields {
		field := "message." + r.Name
		target := propertyAccessor("obj", r.JSONName, false)
		switch {
		case r.Category == CategoryMap:
			write := g.jsonWrite(r.MapValue, "v")
			if c.Options.UseMapType {
				p.Block(fmt.Sprintf("if (%s?.size) {", field), func() {
					p.P("%s = {};", target)
					p.Block(fmt.Sprintf("%s.forEach((v, k) => {", field), func() {
						p.P("%s[k] = %s;", target, write)
					}, "});")
				}, "}")
			} else {
				p.Block(fmt.Sprintf("if (%s) {", field), func() {
					p.P("const entries = Object.entries(%s);", field)
					p.Block("if (entries.length > 0) {", func() {
						p.P("%s = {};", target)
						p.Block("entries.forEach(([k, v]) => {", func() {
							p.P("%s[k] = %s;", target, write)
						}, "});")
					}, "}")
				}, "}")
			}
		case r.Repeated():
			write := g.jsonWrite(r, "e")
			p.Block(fmt.Sprintf("if (%s?.length) {", field), func() {
				if write == "e" {
					p.P("%s = %s;", target, field)
				} else {
					p.P("%s = %s.map((e) => %s);", target, field, write)
				}
			}, "}")
		case r.Union:
			oneof := "message." + r.OneofName
			p.Block(fmt.Sprintf("if (%s?.$case === \"%s\") {", oneof, r.Name), func() {
				p.P("%s = %s;", target, g.jsonWrite(r, oneof+"."+r.Name))
			}, "}")
		case r.Presence || r.Zero == "undefined":
			p.Block(fmt.Sprintf("if (%s !== undefined) {", field), func() {
				p.P("%s = %s;", target, g.jsonWrite(r, field))
			}, "}")
		default:
			p.Block(fmt.Sprintf("if (%s) {", c.notDefaultCheck(r, field)), func() {
				p.P("%s = %s;", target, g.jsonWrite(r, field))
			}, "}")
		}
	}
	p.Line("return obj;")
	p.Out()
	p.Line("}")
	return p.String()
}

// durationFromJSON accepts the canonical "1.5s" string form ahead of the
// object form.
func (g *messageGen) durationFromJSON(p *code.Printer) {
	o := g.options()
	var seconds string
	switch o.ForceLong {
	case options.LongLong:
		seconds = g.c.Long() + ".fromString((match[1] ?? \"\") + match[2])"
	case options.LongString:
		seconds = "match[1] === \"-\" && match[2] !== \"0\" ? \"-\" + match[2] : match[2]"
	default:
		seconds = "sign * Number(match[2]) || 0"
	}
	typeField := ""
	if o.OutputTypeRegistry {
		typeField = "$type: " + g.name + ".$type, "
	}
	p.P(`if (typeof object === "string") {
  const match = /^(-)?(\d+)(?:\.(\d{1,9}))?s$/.exec(object);
  if (match === null) {
    throw new %s.Error("Invalid duration " + object);
  }
  const sign = match[1] === "-" ? -1 : 1;
  const nanos = match[3] !== undefined ? sign * Number(match[3].padEnd(9, "0")) : 0;
  return { %sseconds: %s, nanos };
}`, g.c.Use(utilGlobalThis), typeField, seconds)
}

// durationToJSON renders the canonical form: seconds with 0, 3, 6 or 9
// fractional digits followed by "s".
func (g *messageGen) durationToJSON() string {
	return "toJSON(message: " + g.name + "): string {\n" +
		`  const seconds = message.seconds.toString();
  if (message.nanos === 0) {
    return seconds + "s";
  }
  let fraction = Math.abs(message.nanos).toString().padStart(9, "0");
  while (fraction.length > 3 && fraction.endsWith("000")) {
    fraction = fraction.slice(0, -3);
  }
  const sign = message.nanos < 0 && !seconds.startsWith("-") ? "-" : "";
  return sign + seconds + "." + fraction + "s";
}`
}

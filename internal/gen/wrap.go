package gen

import (
	"fmt"

	"gopkg.microglot.org/tsproto.go/internal/idl"
)

// wellKnownMembers returns the wrap and unwrap members that convert between
// a well known value message and its plain TypeScript form.
func (g *messageGen) wellKnownMembers() []string {
	switch g.m.FullName {
	case idl.WKTStruct:
		return []string{g.wrapStruct(), g.unwrapStruct()}
	case idl.WKTValue:
		return []string{g.wrapValue(), g.unwrapValue()}
	case idl.WKTListValue:
		return []string{g.wrapListValue(), g.unwrapListValue()}
	case idl.WKTFieldMask:
		return []string{g.wrapFieldMask(), g.unwrapFieldMask()}
	default:
		return nil
	}
}

func (g *messageGen) wrapStruct() string {
	fields := g.c.propertyName("fields")
	set := "struct." + fields + "[key] = object[key];"
	if g.options().UseMapType {
		set = "struct." + fields + ".set(key, object[key]);"
	}
	return fmt.Sprintf(`wrap(object: { [key: string]: any } | undefined): %[1]s {
  const struct = createBase%[1]s();
  if (object !== undefined) {
    Object.keys(object).forEach((key) => {
      %[2]s
    });
  }
  return struct;
}`, g.name, set)
}

func (g *messageGen) unwrapStruct() string {
	fields := g.c.propertyName("fields")
	if g.options().UseMapType {
		return fmt.Sprintf(`unwrap(message: %[1]s): { [key: string]: any } {
  const object: { [key: string]: any } = {};
  message.%[2]s.forEach((value, key) => {
    object[key] = value;
  });
  return object;
}`, g.name, fields)
	}
	return fmt.Sprintf(`unwrap(message: %[1]s): { [key: string]: any } {
  const object: { [key: string]: any } = {};
  Object.keys(message.%[2]s).forEach((key) => {
    object[key] = message.%[2]s[key];
  });
  return object;
}`, g.name, fields)
}

type valueFields struct {
	Kind, Null, Number, String, Bool, Struct, List string
	NullValue                                      string
}

func (g *messageGen) valueFields() valueFields {
	c := g.c
	v := valueFields{
		Kind:   c.propertyName("kind"),
		Null:   c.propertyName("null_value"),
		Number: c.propertyName("number_value"),
		String: c.propertyName("string_value"),
		Bool:   c.propertyName("bool_value"),
		Struct: c.propertyName("struct_value"),
		List:   c.propertyName("list_value"),
	}
	if e, ok := c.Image.LookupEnum(idl.WKTNullValue); ok {
		v.NullValue = c.TypeName(idl.WKTNullValue) + "." + c.enumMemberName(e, "NULL_VALUE")
	} else {
		v.NullValue = "0"
	}
	return v
}

func (g *messageGen) wrapValue() string {
	f := g.valueFields()
	asAny := maybeAsAny(g.options())
	set := func(member string, value string) string {
		if g.options().OneofUnions() {
			return fmt.Sprintf("result.%s = { $case: \"%s\", %s: %s };", f.Kind, member, member, value)
		}
		return fmt.Sprintf("result.%s = %s;", member, value)
	}
	return fmt.Sprintf(`wrap(value: any): %[1]s {
  const result = createBase%[1]s()%[2]s;
  if (value === null) {
    %[3]s
  } else if (typeof value === "boolean") {
    %[4]s
  } else if (typeof value === "number") {
    %[5]s
  } else if (typeof value === "string") {
    %[6]s
  } else if (Array.isArray(value)) {
    %[7]s
  } else if (typeof value === "object") {
    %[8]s
  } else if (typeof value !== "undefined") {
    throw new %[9]s.Error("Unsupported any value type: " + typeof value);
  }
  return result;
}`, g.name, asAny,
		set(f.Null, f.NullValue),
		set(f.Bool, "value"),
		set(f.Number, "value"),
		set(f.String, "value"),
		set(f.List, "value"),
		set(f.Struct, "value"),
		g.c.Use(utilGlobalThis))
}

func (g *messageGen) unwrapValue() string {
	f := g.valueFields()
	signature := "unwrap(message: " + g.name + "): string | number | boolean | Object | null | Array<any> | undefined {"
	if g.options().OneofUnions() {
		return fmt.Sprintf(`%[1]s
  if (message.%[2]s?.$case === "%[3]s") {
    return null;
  } else if (message.%[2]s?.$case === "%[4]s") {
    return message.%[2]s?.%[4]s;
  } else if (message.%[2]s?.$case === "%[5]s") {
    return message.%[2]s?.%[5]s;
  } else if (message.%[2]s?.$case === "%[6]s") {
    return message.%[2]s?.%[6]s;
  } else if (message.%[2]s?.$case === "%[7]s") {
    return message.%[2]s?.%[7]s;
  } else if (message.%[2]s?.$case === "%[8]s") {
    return message.%[2]s?.%[8]s;
  } else {
    return undefined;
  }
}`, signature, f.Kind, f.Null, f.Number, f.String, f.Bool, f.Struct, f.List)
	}
	return fmt.Sprintf(`%[1]s
  if (message?.%[2]s !== undefined) {
    return message.%[2]s;
  } else if (message?.%[3]s !== undefined) {
    return message.%[3]s;
  } else if (message?.%[4]s !== undefined) {
    return message.%[4]s;
  } else if (message?.%[5]s !== undefined) {
    return message.%[5]s;
  } else if (message?.%[6]s !== undefined) {
    return message.%[6]s;
  } else if (message?.%[7]s !== undefined) {
    return null;
  }
  return undefined;
}`, signature, f.String, f.Number, f.Bool, f.Struct, f.List, f.Null)
}

func (g *messageGen) wrapListValue() string {
	array := "Array<any>"
	if g.options().UseReadonlyTypes {
		array = "ReadonlyArray<any>"
	}
	return fmt.Sprintf(`wrap(value: %[2]s | undefined): %[1]s {
  const result = createBase%[1]s()%[3]s;
  result.%[4]s = value ?? [];
  return result;
}`, g.name, array, maybeAsAny(g.options()), g.c.propertyName("values"))
}

func (g *messageGen) unwrapListValue() string {
	param := g.name
	if g.options().UseReadonlyTypes {
		param = "any"
	}
	return fmt.Sprintf(`unwrap(message: %s): Array<any> {
  return message.%s;
}`, param, g.c.propertyName("values"))
}

func (g *messageGen) wrapFieldMask() string {
	return fmt.Sprintf(`wrap(paths: %[2]sstring[]): %[1]s {
  const result = createBase%[1]s()%[3]s;
  result.%[4]s = paths;
  return result;
}`, g.name, maybeReadonly(g.options()), maybeAsAny(g.options()), g.c.propertyName("paths"))
}

func (g *messageGen) unwrapFieldMask() string {
	param := g.name
	if g.options().UseReadonlyTypes {
		param = "any"
	}
	return fmt.Sprintf(`unwrap(message: %s): string[] {
  return message.%s;
}`, param, g.c.propertyName("paths"))
}

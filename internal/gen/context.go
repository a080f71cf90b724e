// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package gen turns one protobuf file from an idl.Image into a TypeScript
// module with message interfaces, binary and JSON codecs, partial builders,
// enum converters and service interfaces.
package gen

import (
	"strings"

	"gopkg.microglot.org/tsproto.go/internal/casing"
	"gopkg.microglot.org/tsproto.go/internal/code"
	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
	"gopkg.microglot.org/tsproto.go/internal/target"
)

const (
	moduleProtobuf = "protobufjs/minimal"
	moduleLong     = "long"
	moduleRxjs     = "rxjs"
	moduleRxjsOps  = "rxjs/operators"
)

// Context is the state of a single file generation. Nothing in it is shared
// with another file, which makes concurrent generation of different files
// safe.
type Context struct {
	Options options.Options
	Image   *idl.Image
	File    *idl.File
	Imports *code.Imports
	Utils   *code.Registry
	module  string
}

func newContext(o options.Options, image *idl.Image, file *idl.File) *Context {
	c := &Context{
		Options: o,
		Image:   image,
		File:    file,
		Imports: code.NewImports(),
		Utils:   code.NewRegistry(),
		module:  target.ModulePath(file.Name, o.FileSuffix),
	}
	declareUtils(c)
	return c
}

// Use realises a shared helper and returns the name to reference it by.
func (c *Context) Use(helper string) string {
	return c.Utils.Use(helper)
}

// M0 returns a member of the protobufjs runtime namespace.
func (c *Context) M0(member string) string {
	module := moduleProtobuf + c.Options.ImportSuffix
	var ns string
	if c.Options.EsModuleInterop {
		ns = c.Imports.Default(module, "_m0")
	} else {
		ns = c.Imports.Namespace(module, "_m0")
	}
	return ns + "." + member
}

// Long returns the binding of the long.js constructor and makes sure the
// protobufjs configuration snippet is emitted.
func (c *Context) Long() string {
	c.Use("Long")
	return c.longImport()
}

func (c *Context) longImport() string {
	if c.Options.EsModuleInterop {
		return c.Imports.Default(moduleLong, "Long")
	}
	return c.Imports.Namespace(moduleLong, "Long")
}

// Rxjs returns an import from rxjs, or from rxjs/operators for operators.
func (c *Context) Rxjs(symbol string) string {
	if symbol == "map" {
		return c.Imports.Named(moduleRxjsOps, symbol)
	}
	return c.Imports.Named(moduleRxjs, symbol)
}

// TypeName returns the TypeScript binding for a fully qualified protobuf
// message or enum name, importing it from its module when it is declared in
// another file.
func (c *Context) TypeName(protoType string) string {
	kind, v := c.Image.Lookup(protoType)
	var file *idl.File
	var name string
	switch kind {
	case idl.TypeKindMessage:
		m := v.(*idl.Message)
		file, name = m.File, tsMessageName(c.Image, c.Options, m)
	case idl.TypeKindEnum:
		e := v.(*idl.Enum)
		file, name = e.File, tsEnumName(c.Image, c.Options, e)
	default:
		panic(exc.Newf(exc.Location{URI: c.File.Name}, exc.CodeUnknownType, "unknown type %s", protoType))
	}
	if file == c.File {
		return name
	}
	return c.Imports.Named(c.importPath(file), name)
}

// EnumFunction returns the binding of one of an enum's converter functions,
// such as fooFromJSON.
func (c *Context) EnumFunction(e *idl.Enum, suffix string) string {
	name := casing.CamelCase(tsEnumName(c.Image, c.Options, e)) + suffix
	if e.File == c.File {
		return name
	}
	return c.Imports.Named(c.importPath(e.File), name)
}

func (c *Context) importPath(file *idl.File) string {
	if m, ok := c.Options.ModuleFor(file.Name); ok {
		return m
	}
	return target.RelativeImport(c.module, target.ModulePath(file.Name, c.Options.FileSuffix)) + c.Options.ImportSuffix
}

func (c *Context) location() exc.Location {
	return exc.Location{URI: c.File.Name}
}

// tsMessageName returns the TypeScript name of a message. Nested messages are
// prefixed with their parents' names.
func tsMessageName(image *idl.Image, o options.Options, m *idl.Message) string {
	return tsPrefix(image, o, m.Parent) + casing.MaybeSnakeToCamel(m.Name, o.SnakeToCamelKeys())
}

func tsEnumName(image *idl.Image, o options.Options, e *idl.Enum) string {
	return tsPrefix(image, o, e.Parent) + e.Name
}

func tsPrefix(image *idl.Image, o options.Options, parent idl.MessageHandle) string {
	if parent == idl.NoParent {
		return ""
	}
	delim := ""
	if o.UseSnakeTypeName {
		delim = "_"
	}
	return tsMessageName(image, o, image.Message(parent)) + delim
}

// propertyName is the TypeScript property for a field or oneof.
func (c *Context) propertyName(name string) string {
	return casing.MaybeSnakeToCamel(name, c.Options.SnakeToCamelKeys())
}

// jsonName is the key a field uses in JSON.
func (c *Context) jsonName(f *idl.Field) string {
	if c.Options.SnakeToCamelJSON() {
		return f.JSONName
	}
	return f.Name
}

// propertyAccessor renders obj.name, or obj["name"] when the name is not a
// valid identifier.
func propertyAccessor(object string, name string, optional bool) string {
	if isIdentifier(name) {
		if optional {
			return object + "?." + name
		}
		return object + "." + name
	}
	if optional {
		return object + "?.[\"" + name + "\"]"
	}
	return object + "[\"" + name + "\"]"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for x, r := range s {
		switch {
		case r == '_' || r == '$':
		case 'a' <= r && r <= 'z':
		case 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && x > 0:
		default:
			return false
		}
	}
	return true
}

func maybeReadonly(o options.Options) string {
	if o.UseReadonlyTypes {
		return "readonly "
	}
	return ""
}

func maybeAsAny(o options.Options) string {
	if o.UseReadonlyTypes {
		return " as any"
	}
	return ""
}

// docComment renders a JSDoc block from a source comment, or "" when there
// is nothing to say.
func docComment(comment idl.Comment, present bool, deprecated bool, prefix string) string {
	var lines []string
	if present {
		text := comment.Leading
		if strings.TrimSpace(text) == "" {
			text = comment.Trailing
		}
		text = strings.TrimRight(text, "\n")
		if strings.TrimSpace(text) != "" {
			for _, l := range strings.Split(text, "\n") {
				l = strings.TrimPrefix(l, " ")
				l = strings.TrimRight(l, " \t")
				lines = append(lines, strings.ReplaceAll(l, "*/", "*\\/"))
			}
		}
	}
	if deprecated {
		lines = append(lines, "@deprecated")
	}
	if len(lines) == 0 {
		return ""
	}
	lines[0] = prefix + lines[0]
	if len(lines) == 1 {
		return "/** " + lines[0] + " */"
	}
	var b strings.Builder
	b.WriteString("/**\n")
	for _, l := range lines {
		if l == "" {
			b.WriteString(" *\n")
			continue
		}
		b.WriteString(" * ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString(" */")
	return b.String()
}

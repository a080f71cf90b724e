package gen

import (
	"strconv"

	"google.golang.org/protobuf/encoding/protowire"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
)

// Category is the kind of code a field needs. Every generator switches on
// it and panics on a value it does not handle.
type Category uint8

const (
	CategoryScalar Category = iota + 1
	CategoryEnum
	CategoryMessage
	CategoryMap
	// CategoryTimestamp is google.protobuf.Timestamp in any useDate mode.
	CategoryTimestamp
	// CategoryWrapper is a boxed scalar collapsed to the bare scalar.
	CategoryWrapper
	// CategoryBoxed is a boxed scalar kept as a { value } message.
	CategoryBoxed
	CategoryStruct
	CategoryValue
	CategoryListValue
	CategoryFieldMask
)

func (c Category) String() string {
	switch c {
	case CategoryScalar:
		return "scalar"
	case CategoryEnum:
		return "enum"
	case CategoryMessage:
		return "message"
	case CategoryMap:
		return "map"
	case CategoryTimestamp:
		return "timestamp"
	case CategoryWrapper:
		return "wrapper"
	case CategoryBoxed:
		return "boxed"
	case CategoryStruct:
		return "struct"
	case CategoryValue:
		return "value"
	case CategoryListValue:
		return "list value"
	case CategoryFieldMask:
		return "field mask"
	default:
		return "unknown"
	}
}

// Resolution is everything the generators need to know about one field.
type Resolution struct {
	Field    *idl.Field
	Category Category
	// Name is the TypeScript property name.
	Name string
	// JSONName is the key used in JSON.
	JSONName string
	// Type is the declared property type.
	Type string
	// Optional marks the property with "?".
	Optional bool
	// Default is the value createBase assigns.
	Default string
	// Zero is the implicit default of a singular value of this field,
	// ignoring repetition and presence.
	Zero string
	// Tag is the wire tag of a single element. PackedTag is the tag of a
	// packed run.
	Tag       uint32
	PackedTag uint32
	WireType  protowire.Type
	Packable  bool
	Packed    bool
	// Scalar is the scalar kind for scalars, enums and wrappers.
	Scalar idl.FieldType
	// Union is set for a member of a oneof emitted as a tagged union.
	Union     bool
	OneofName string
	// Presence is set when the field tracks presence with undefined rather
	// than by comparison with its zero value.
	Presence bool
	// Target is the message or enum referenced by the field, if any.
	Target     string
	Enum       *idl.Enum
	Message    *idl.Message
	MapKey     *Resolution
	MapValue   *Resolution
	MapKeyType string
	MapEntry   string
}

// Repeated reports a repeated field that is not a map.
func (r *Resolution) Repeated() bool {
	return r.Field.Repeated && r.Category != CategoryMap
}

// IsLong reports a 64-bit integer scalar.
func (r *Resolution) IsLong() bool {
	return isLongType(r.Scalar) && (r.Category == CategoryScalar || r.Category == CategoryWrapper)
}

func unhandled(c *Context, f *idl.Field, what string) exc.Exception {
	return exc.Newf(c.location(), exc.CodeUnhandledField, "unhandled field %s (%s) in %s", f.Name, f.Type, what)
}

// Resolve classifies a field of a message under the active options.
func (c *Context) Resolve(m *idl.Message, f *idl.Field) *Resolution {
	o := c.Options
	r := &Resolution{
		Field:    f,
		Name:     c.propertyName(f.Name),
		JSONName: c.jsonName(f),
		Scalar:   f.Type,
	}
	r.Presence = f.InOneof() || f.Proto3Optional
	if f.InOneof() && o.OneofUnions() {
		r.Union = true
		r.OneofName = c.propertyName(m.Oneofs[f.OneofIndex.Value()].Name)
	}

	switch f.Type {
	case idl.FieldTypeEnum:
		e, ok := c.Image.LookupEnum(f.TypeName)
		if !ok {
			panic(exc.Newf(c.location(), exc.CodeUnknownType, "unknown enum %s", f.TypeName))
		}
		r.Category = CategoryEnum
		r.Enum = e
		r.Target = c.TypeName(f.TypeName)
	case idl.FieldTypeMessage:
		target, ok := c.Image.LookupMessage(f.TypeName)
		if !ok {
			panic(exc.Newf(c.location(), exc.CodeUnknownType, "unknown message %s", f.TypeName))
		}
		r.Message = target
		r.Category = c.messageCategory(f, target)
		if r.Category == CategoryWrapper || r.Category == CategoryBoxed {
			r.Scalar = idl.WrapperScalar[target.FullName]
		}
		if r.Category == CategoryMap {
			r.MapEntry = c.TypeName(f.TypeName)
			r.MapKey = c.Resolve(target, target.Fields[0])
			r.MapValue = c.Resolve(target, target.Fields[1])
		} else {
			r.Target = c.TypeName(f.TypeName)
		}
	case idl.FieldTypeGroup:
		panic(unhandled(c, f, m.FullName))
	default:
		if _, ok := scalarWireTypes[f.Type]; !ok {
			panic(unhandled(c, f, m.FullName))
		}
		r.Category = CategoryScalar
	}

	r.WireType = wireType(r.Field.Type)
	r.Tag = tag(f.Number, r.WireType)
	r.PackedTag = tag(f.Number, protowire.BytesType)
	r.Packable = f.Repeated && r.Category != CategoryMap && isPackable(f.Type)
	r.Packed = r.Packable && f.Packed.ValueOr(c.File.Syntax != "proto2")

	r.Optional = c.isOptionalProperty(m, f)
	r.Zero = c.zeroValue(r)
	r.Type = c.propertyType(m, r)
	switch {
	case r.Presence:
		r.Default = "undefined"
	case r.Category == CategoryMap:
		if o.UseMapType {
			r.Default = "new Map()"
		} else {
			r.Default = "{}"
		}
	case f.Repeated:
		r.Default = "[]"
	default:
		r.Default = r.Zero
	}
	return r
}

func (c *Context) messageCategory(f *idl.Field, target *idl.Message) Category {
	if target.MapEntry && f.Repeated && len(target.Fields) == 2 {
		return CategoryMap
	}
	switch target.FullName {
	case idl.WKTTimestamp:
		return CategoryTimestamp
	case idl.WKTStruct:
		return CategoryStruct
	case idl.WKTValue:
		return CategoryValue
	case idl.WKTListValue:
		return CategoryListValue
	case idl.WKTFieldMask:
		return CategoryFieldMask
	}
	if _, ok := idl.WrapperScalar[target.FullName]; ok {
		if c.Options.UnwrapWrappers {
			return CategoryWrapper
		}
		return CategoryBoxed
	}
	return CategoryMessage
}

// isOptionalProperty reports whether the property is declared with "?".
func (c *Context) isOptionalProperty(m *idl.Message, f *idl.Field) bool {
	o := c.Options
	optionalMessages := o.UseOptionals == options.OptionalsMessages || o.UseOptionals == options.OptionalsAll
	optionalAll := o.UseOptionals == options.OptionalsAll
	isMessage := f.Type == idl.FieldTypeMessage
	return (optionalMessages && isMessage && !f.Repeated) ||
		(optionalAll && !m.MapEntry) ||
		f.InOneof() ||
		f.Proto3Optional
}

// baseType is the TypeScript type of one value of the field, without
// repetition or undefined.
func (c *Context) baseType(r *Resolution, keepValueType bool) string {
	switch r.Category {
	case CategoryScalar:
		return c.scalarType(r.Scalar)
	case CategoryEnum:
		return r.Target
	case CategoryMessage, CategoryBoxed:
		return r.Target
	case CategoryTimestamp:
		if keepValueType {
			return r.Target
		}
		switch c.Options.UseDate {
		case options.DateDate:
			return "Date"
		case options.DateString:
			return "string"
		default:
			return r.Target
		}
	case CategoryWrapper, CategoryStruct, CategoryValue, CategoryListValue, CategoryFieldMask:
		if keepValueType {
			return r.Target
		}
		return c.valueTypeName(r)
	case CategoryMap:
		return r.MapEntry
	default:
		panic(unhandled(c, r.Field, "type"))
	}
}

// valueTypeName is the unwrapped type of a well known value message.
func (c *Context) valueTypeName(r *Resolution) string {
	switch r.Category {
	case CategoryWrapper:
		return c.scalarType(r.Scalar)
	case CategoryStruct:
		return "{ [key: string]: any }"
	case CategoryValue:
		return "any"
	case CategoryListValue:
		if c.Options.UseReadonlyTypes {
			return "ReadonlyArray<any>"
		}
		return "Array<any>"
	case CategoryFieldMask:
		if c.Options.UseReadonlyTypes {
			return "readonly string[]"
		}
		return "string[]"
	default:
		panic(unhandled(c, r.Field, "value type"))
	}
}

func (c *Context) scalarType(t idl.FieldType) string {
	switch t {
	case idl.FieldTypeDouble, idl.FieldTypeFloat, idl.FieldTypeInt32, idl.FieldTypeUint32,
		idl.FieldTypeSint32, idl.FieldTypeFixed32, idl.FieldTypeSfixed32:
		return "number"
	case idl.FieldTypeInt64, idl.FieldTypeUint64, idl.FieldTypeSint64, idl.FieldTypeFixed64, idl.FieldTypeSfixed64:
		switch c.Options.ForceLong {
		case options.LongLong:
			return c.Long()
		case options.LongString:
			return "string"
		default:
			return "number"
		}
	case idl.FieldTypeBool:
		return "boolean"
	case idl.FieldTypeString:
		return "string"
	case idl.FieldTypeBytes:
		if c.Options.Env == options.EnvNode {
			return "Buffer"
		}
		return "Uint8Array"
	default:
		panic(exc.Newf(c.location(), exc.CodeUnhandledField, "unhandled scalar type %s", t))
	}
}

// isValueType reports fields whose declared type is an unwrapped value rather
// than a message interface.
func (r *Resolution) isValueType() bool {
	switch r.Category {
	case CategoryWrapper, CategoryStruct, CategoryValue, CategoryListValue, CategoryFieldMask:
		return true
	default:
		return false
	}
}

func (c *Context) propertyType(m *idl.Message, r *Resolution) string {
	o := c.Options
	optionalMessages := o.UseOptionals == options.OptionalsMessages || o.UseOptionals == options.OptionalsAll
	if r.Category == CategoryMap {
		key := r.MapKey.Type
		value := c.baseType(r.MapValue, false)
		r.MapKeyType = key
		if o.UseMapType {
			return "Map<" + key + ", " + value + ">"
		}
		return "{ [key: " + key + "]: " + value + " }"
	}
	base := c.baseType(r, false)
	if r.Field.Repeated {
		if o.UseReadonlyTypes {
			return "readonly " + base + "[]"
		}
		return base + "[]"
	}
	if r.isValueType() {
		// Unwrapped values are already unioned with undefined unless the
		// property is optional anyway.
		if !optionalMessages {
			return base + " | undefined"
		}
		return base
	}
	isMessage := r.Field.Type == idl.FieldTypeMessage
	if (!r.Field.InOneof() && isMessage && !optionalMessages) ||
		(r.Field.InOneof() && !o.OneofUnions()) ||
		r.Field.Proto3Optional {
		return base + " | undefined"
	}
	return base
}

// zeroValue is the implicit default of one value of the field.
func (c *Context) zeroValue(r *Resolution) string {
	o := c.Options
	switch r.Category {
	case CategoryScalar:
		switch r.Scalar {
		case idl.FieldTypeInt64, idl.FieldTypeSint64, idl.FieldTypeSfixed64:
			switch o.ForceLong {
			case options.LongLong:
				return c.Long() + ".ZERO"
			case options.LongString:
				return `"0"`
			default:
				return "0"
			}
		case idl.FieldTypeUint64, idl.FieldTypeFixed64:
			switch o.ForceLong {
			case options.LongLong:
				return c.Long() + ".UZERO"
			case options.LongString:
				return `"0"`
			default:
				return "0"
			}
		case idl.FieldTypeBool:
			return "false"
		case idl.FieldTypeString:
			return `""`
		case idl.FieldTypeBytes:
			if o.Env == options.EnvNode {
				return "Buffer.alloc(0)"
			}
			return "new Uint8Array()"
		default:
			return "0"
		}
	case CategoryEnum:
		zero := r.Enum.Zero()
		if o.StringEnums {
			return r.Target + "." + c.enumMemberName(r.Enum, zero.Name)
		}
		return strconv.FormatInt(int64(zero.Number), 10)
	case CategoryMap, CategoryMessage, CategoryTimestamp, CategoryWrapper, CategoryBoxed,
		CategoryStruct, CategoryValue, CategoryListValue, CategoryFieldMask:
		return "undefined"
	default:
		panic(unhandled(c, r.Field, "default value"))
	}
}

// notDefaultCheck is the guard that omits an implicit presence scalar equal
// to its zero value from the output.
func (c *Context) notDefaultCheck(r *Resolution, place string) string {
	o := c.Options
	maybeNotUndefined := ""
	if r.Optional {
		maybeNotUndefined = place + " !== undefined && "
	}
	switch r.Category {
	case CategoryEnum:
		return maybeNotUndefined + place + " !== " + r.Zero
	case CategoryScalar:
	default:
		panic(unhandled(c, r.Field, "default check"))
	}
	switch r.Scalar {
	case idl.FieldTypeInt64, idl.FieldTypeSint64, idl.FieldTypeSfixed64, idl.FieldTypeUint64, idl.FieldTypeFixed64:
		switch o.ForceLong {
		case options.LongLong:
			return maybeNotUndefined + "!" + place + ".isZero()"
		case options.LongString:
			return maybeNotUndefined + place + ` !== "0"`
		default:
			return maybeNotUndefined + place + " !== 0"
		}
	case idl.FieldTypeBool:
		return maybeNotUndefined + place + " === true"
	case idl.FieldTypeString:
		return maybeNotUndefined + place + ` !== ""`
	case idl.FieldTypeBytes:
		return maybeNotUndefined + place + ".length !== 0"
	default:
		return maybeNotUndefined + place + " !== 0"
	}
}

// readerCall is the protobufjs Reader and Writer method for a scalar kind.
func (c *Context) readerCall(t idl.FieldType) string {
	switch t {
	case idl.FieldTypeEnum:
		return "int32"
	default:
		name, ok := scalarCalls[t]
		if !ok {
			panic(exc.Newf(c.location(), exc.CodeUnhandledField, "no reader call for %s", t))
		}
		return name
	}
}

var scalarCalls = map[idl.FieldType]string{
	idl.FieldTypeDouble:   "double",
	idl.FieldTypeFloat:    "float",
	idl.FieldTypeInt64:    "int64",
	idl.FieldTypeUint64:   "uint64",
	idl.FieldTypeInt32:    "int32",
	idl.FieldTypeFixed64:  "fixed64",
	idl.FieldTypeFixed32:  "fixed32",
	idl.FieldTypeBool:     "bool",
	idl.FieldTypeString:   "string",
	idl.FieldTypeBytes:    "bytes",
	idl.FieldTypeUint32:   "uint32",
	idl.FieldTypeSfixed32: "sfixed32",
	idl.FieldTypeSfixed64: "sfixed64",
	idl.FieldTypeSint32:   "sint32",
	idl.FieldTypeSint64:   "sint64",
}

var scalarWireTypes = map[idl.FieldType]protowire.Type{
	idl.FieldTypeDouble:   protowire.Fixed64Type,
	idl.FieldTypeFloat:    protowire.Fixed32Type,
	idl.FieldTypeInt64:    protowire.VarintType,
	idl.FieldTypeUint64:   protowire.VarintType,
	idl.FieldTypeInt32:    protowire.VarintType,
	idl.FieldTypeFixed64:  protowire.Fixed64Type,
	idl.FieldTypeFixed32:  protowire.Fixed32Type,
	idl.FieldTypeBool:     protowire.VarintType,
	idl.FieldTypeString:   protowire.BytesType,
	idl.FieldTypeBytes:    protowire.BytesType,
	idl.FieldTypeUint32:   protowire.VarintType,
	idl.FieldTypeSfixed32: protowire.Fixed32Type,
	idl.FieldTypeSfixed64: protowire.Fixed64Type,
	idl.FieldTypeSint32:   protowire.VarintType,
	idl.FieldTypeSint64:   protowire.VarintType,
}

func wireType(t idl.FieldType) protowire.Type {
	switch t {
	case idl.FieldTypeEnum:
		return protowire.VarintType
	case idl.FieldTypeMessage:
		return protowire.BytesType
	case idl.FieldTypeGroup:
		return protowire.StartGroupType
	default:
		return scalarWireTypes[t]
	}
}

func tag(number int32, wt protowire.Type) uint32 {
	return uint32(protowire.EncodeTag(protowire.Number(number), wt))
}

func isPackable(t idl.FieldType) bool {
	switch t {
	case idl.FieldTypeString, idl.FieldTypeBytes, idl.FieldTypeMessage, idl.FieldTypeGroup:
		return false
	default:
		return true
	}
}

func isLongType(t idl.FieldType) bool {
	switch t {
	case idl.FieldTypeInt64, idl.FieldTypeUint64, idl.FieldTypeSint64, idl.FieldTypeFixed64, idl.FieldTypeSfixed64:
		return true
	default:
		return false
	}
}

// isWholeNumber reports integer kinds whose JSON output is rounded.
func isWholeNumber(t idl.FieldType) bool {
	switch t {
	case idl.FieldTypeInt32, idl.FieldTypeUint32, idl.FieldTypeSint32, idl.FieldTypeFixed32, idl.FieldTypeSfixed32:
		return true
	default:
		return isLongType(t)
	}
}

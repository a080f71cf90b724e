package idl

import (
	"google.golang.org/protobuf/types/descriptorpb"

	"gopkg.microglot.org/tsproto.go/internal/optional"
)

// MessageHandle and EnumHandle address nodes stored in an Image. Handles are
// stable for the lifetime of the Image.
type MessageHandle int32
type EnumHandle int32

// NoParent marks a top-level message or enum.
const NoParent MessageHandle = -1

type FieldType = descriptorpb.FieldDescriptorProto_Type

type File struct {
	Name         string
	Package      string
	Syntax       string
	Dependencies []string
	Messages     []MessageHandle
	Enums        []EnumHandle
	Services     []*Service
	Deprecated   bool
	Source       *SourceInfo
}

type Message struct {
	Handle     MessageHandle
	File       *File
	Parent     MessageHandle
	Name       string
	FullName   string
	Fields     []*Field
	Oneofs     []*Oneof
	Nested     []MessageHandle
	Enums      []EnumHandle
	MapEntry   bool
	Deprecated bool
	Path       []int32
}

type Field struct {
	Index          int
	Name           string
	JSONName       string
	Number         int32
	Type           FieldType
	Repeated       bool
	TypeName       string
	OneofIndex     optional.Optional[int32]
	Proto3Optional bool
	Packed         optional.Optional[bool]
	Deprecated     bool
}

// InOneof reports whether the field belongs to a real, non-synthetic oneof.
func (f *Field) InOneof() bool {
	return f.OneofIndex.IsPresent() && !f.Proto3Optional
}

type Oneof struct {
	Index     int32
	Name      string
	Synthetic bool
	Fields    []*Field
}

type Enum struct {
	Handle     EnumHandle
	File       *File
	Parent     MessageHandle
	Name       string
	FullName   string
	Values     []*EnumValue
	Deprecated bool
	Path       []int32
}

// Zero returns the value used as an implicit default: the value numbered zero
// or, for proto2 enums without one, the first declared value.
func (e *Enum) Zero() *EnumValue {
	for _, v := range e.Values {
		if v.Number == 0 {
			return v
		}
	}
	if len(e.Values) > 0 {
		return e.Values[0]
	}
	return &EnumValue{}
}

type EnumValue struct {
	Name       string
	Number     int32
	Deprecated bool
}

type Service struct {
	Name       string
	FullName   string
	Methods    []*Method
	Deprecated bool
	Path       []int32
}

type Method struct {
	Name            string
	InputType       string
	OutputType      string
	ClientStreaming bool
	ServerStreaming bool
	Deprecated      bool
}

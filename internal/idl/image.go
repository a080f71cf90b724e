// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"fmt"
	"strings"
)

type TypeKind uint16

const (
	TypeKindError   TypeKind = 0
	TypeKindMessage TypeKind = 1
	TypeKindEnum    TypeKind = 2
)

func (k TypeKind) String() string {
	switch k {
	case TypeKindMessage:
		return "message"
	case TypeKindEnum:
		return "enum"
	default:
		return "error"
	}
}

type typeRef struct {
	kind    TypeKind
	message MessageHandle
	enum    EnumHandle
}

// Image is an arena holding every file, message and enum of a generation
// request. Nodes reference each other by handle and type names are resolved
// through a computed index keyed by fully-qualified name.
type Image struct {
	Files    []*File
	Messages []*Message
	Enums    []*Enum
	types    map[string]typeRef
	files    map[string]*File
}

func NewImage() *Image {
	return &Image{
		types: make(map[string]typeRef),
		files: make(map[string]*File),
	}
}

func (i *Image) AddFile(f *File) error {
	if _, ok := i.files[f.Name]; ok {
		return fmt.Errorf("duplicate file %q", f.Name)
	}
	i.files[f.Name] = f
	i.Files = append(i.Files, f)
	return nil
}

func (i *Image) AddMessage(m *Message) (MessageHandle, error) {
	if _, ok := i.types[m.FullName]; ok {
		return 0, fmt.Errorf("duplicate type %q", m.FullName)
	}
	h := MessageHandle(len(i.Messages))
	m.Handle = h
	i.Messages = append(i.Messages, m)
	i.types[m.FullName] = typeRef{kind: TypeKindMessage, message: h}
	return h, nil
}

func (i *Image) AddEnum(e *Enum) (EnumHandle, error) {
	if _, ok := i.types[e.FullName]; ok {
		return 0, fmt.Errorf("duplicate type %q", e.FullName)
	}
	h := EnumHandle(len(i.Enums))
	e.Handle = h
	i.Enums = append(i.Enums, e)
	i.types[e.FullName] = typeRef{kind: TypeKindEnum, enum: h}
	return h, nil
}

func (i *Image) Message(h MessageHandle) *Message {
	return i.Messages[h]
}

func (i *Image) Enum(h EnumHandle) *Enum {
	return i.Enums[h]
}

func (i *Image) File(name string) (*File, bool) {
	f, ok := i.files[name]
	return f, ok
}

// Lookup resolves a type name as written in a field descriptor. The leading
// dot of a fully-qualified reference is optional. The second value is a
// *Message or *Enum depending on the kind.
func (i *Image) Lookup(typeName string) (TypeKind, interface{}) {
	ref, ok := i.types[strings.TrimPrefix(typeName, ".")]
	if !ok {
		return TypeKindError, nil
	}
	switch ref.kind {
	case TypeKindMessage:
		return TypeKindMessage, i.Messages[ref.message]
	case TypeKindEnum:
		return TypeKindEnum, i.Enums[ref.enum]
	default:
		return TypeKindError, nil
	}
}

func (i *Image) LookupMessage(typeName string) (*Message, bool) {
	kind, v := i.Lookup(typeName)
	if kind != TypeKindMessage {
		return nil, false
	}
	return v.(*Message), true
}

func (i *Image) LookupEnum(typeName string) (*Enum, bool) {
	kind, v := i.Lookup(typeName)
	if kind != TypeKindEnum {
		return nil, false
	}
	return v.(*Enum), true
}

// MapEntry returns the synthesized key/value message behind a map field.
func (i *Image) MapEntry(f *Field) (*Message, bool) {
	if !f.Repeated || f.Type != FieldTypeMessage {
		return nil, false
	}
	m, ok := i.LookupMessage(f.TypeName)
	if !ok || !m.MapEntry || len(m.Fields) != 2 {
		return nil, false
	}
	return m, true
}

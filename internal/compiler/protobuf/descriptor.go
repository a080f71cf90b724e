package protobuf

import (
	"fmt"

	"google.golang.org/protobuf/types/descriptorpb"

	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/optional"
)

func mapFrom[F any, T any](in []*F, f func(*F) (T, error)) ([]T, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]T, 0, len(in))
	for _, element := range in {
		outElement, err := f(element)
		if err != nil {
			return nil, err
		}
		out = append(out, outElement)
	}
	return out, nil
}

// NewImage converts a set of file descriptors, dependencies first as protoc
// orders them, into a single arena.
func NewImage(files []*descriptorpb.FileDescriptorProto) (*idl.Image, error) {
	image := idl.NewImage()
	for _, fd := range files {
		if _, err := FromFileDescriptorProto(image, fd); err != nil {
			return nil, err
		}
	}
	return image, nil
}

// FromFileDescriptorProto adds a file, with all of its nested messages and
// enums, to the image.
func FromFileDescriptorProto(image *idl.Image, fileDescriptor *descriptorpb.FileDescriptorProto) (*idl.File, error) {
	file := &idl.File{
		Name:         fileDescriptor.GetName(),
		Package:      fileDescriptor.GetPackage(),
		Syntax:       fileDescriptor.GetSyntax(),
		Dependencies: fileDescriptor.GetDependency(),
		Deprecated:   fileDescriptor.GetOptions().GetDeprecated(),
		Source:       idl.NewSourceInfo(fileDescriptor.GetSourceCodeInfo()),
	}
	if file.Syntax == "" {
		file.Syntax = "proto2"
	}
	if err := image.AddFile(file); err != nil {
		return nil, err
	}

	c := &converter{image: image, file: file}
	prefix := ""
	if file.Package != "" {
		prefix = file.Package + "."
	}

	c.path.PushFieldNumber(idl.PathFileEnumType)
	c.path.PushIndex()
	for _, enumDescriptor := range fileDescriptor.EnumType {
		h, err := c.fromEnumDescriptorProto(enumDescriptor, prefix, idl.NoParent)
		if err != nil {
			return nil, err
		}
		file.Enums = append(file.Enums, h)
		c.path.IncrementIndex()
	}
	c.path.PopIndex()
	c.path.PopFieldNumber()

	c.path.PushFieldNumber(idl.PathFileMessageType)
	c.path.PushIndex()
	for _, descriptor := range fileDescriptor.MessageType {
		h, err := c.fromDescriptorProto(descriptor, prefix, idl.NoParent)
		if err != nil {
			return nil, err
		}
		file.Messages = append(file.Messages, h)
		c.path.IncrementIndex()
	}
	c.path.PopIndex()
	c.path.PopFieldNumber()

	c.path.PushFieldNumber(idl.PathFileService)
	c.path.PushIndex()
	for _, serviceDescriptor := range fileDescriptor.Service {
		methods, err := mapFrom(serviceDescriptor.Method, fromMethodDescriptorProto)
		if err != nil {
			return nil, err
		}
		file.Services = append(file.Services, &idl.Service{
			Name:       serviceDescriptor.GetName(),
			FullName:   prefix + serviceDescriptor.GetName(),
			Methods:    methods,
			Deprecated: serviceDescriptor.GetOptions().GetDeprecated(),
			Path:       c.path.CopyPath(),
		})
		c.path.IncrementIndex()
	}
	c.path.PopIndex()
	c.path.PopFieldNumber()

	return file, nil
}

type converter struct {
	image *idl.Image
	file  *idl.File
	path  idl.PathState
}

func (c *converter) fromDescriptorProto(descriptor *descriptorpb.DescriptorProto, prefix string, parent idl.MessageHandle) (idl.MessageHandle, error) {
	message := &idl.Message{
		File:       c.file,
		Parent:     parent,
		Name:       descriptor.GetName(),
		FullName:   prefix + descriptor.GetName(),
		MapEntry:   descriptor.GetOptions().GetMapEntry(),
		Deprecated: descriptor.GetOptions().GetDeprecated(),
		Path:       c.path.CopyPath(),
	}
	for index, oneofDescriptor := range descriptor.OneofDecl {
		message.Oneofs = append(message.Oneofs, &idl.Oneof{
			Index:     int32(index),
			Name:      oneofDescriptor.GetName(),
			Synthetic: true,
		})
	}
	for index, fieldDescriptor := range descriptor.Field {
		field := fromFieldDescriptorProto(fieldDescriptor)
		field.Index = index
		if field.OneofIndex.IsPresent() {
			oi := field.OneofIndex.Value()
			if oi < 0 || int(oi) >= len(message.Oneofs) {
				return 0, fmt.Errorf("%s.%s: oneof index %d out of range", message.FullName, field.Name, oi)
			}
			oneof := message.Oneofs[oi]
			oneof.Fields = append(oneof.Fields, field)
			// A oneof is synthetic only when every member is a proto3 optional
			// field.
			if !field.Proto3Optional {
				oneof.Synthetic = false
			}
		}
		message.Fields = append(message.Fields, field)
	}
	h, err := c.image.AddMessage(message)
	if err != nil {
		return 0, err
	}

	nestedPrefix := message.FullName + "."
	c.path.PushFieldNumber(idl.PathMessageEnumType)
	c.path.PushIndex()
	for _, enumDescriptor := range descriptor.EnumType {
		eh, err := c.fromEnumDescriptorProto(enumDescriptor, nestedPrefix, h)
		if err != nil {
			return 0, err
		}
		message.Enums = append(message.Enums, eh)
		c.path.IncrementIndex()
	}
	c.path.PopIndex()
	c.path.PopFieldNumber()

	c.path.PushFieldNumber(idl.PathMessageNestedType)
	c.path.PushIndex()
	for _, nestedDescriptor := range descriptor.NestedType {
		nh, err := c.fromDescriptorProto(nestedDescriptor, nestedPrefix, h)
		if err != nil {
			return 0, err
		}
		message.Nested = append(message.Nested, nh)
		c.path.IncrementIndex()
	}
	c.path.PopIndex()
	c.path.PopFieldNumber()
	return h, nil
}

func (c *converter) fromEnumDescriptorProto(enumDescriptor *descriptorpb.EnumDescriptorProto, prefix string, parent idl.MessageHandle) (idl.EnumHandle, error) {
	values, err := mapFrom(enumDescriptor.Value, fromEnumValueDescriptorProto)
	if err != nil {
		return 0, err
	}
	return c.image.AddEnum(&idl.Enum{
		File:       c.file,
		Parent:     parent,
		Name:       enumDescriptor.GetName(),
		FullName:   prefix + enumDescriptor.GetName(),
		Values:     values,
		Deprecated: enumDescriptor.GetOptions().GetDeprecated(),
		Path:       c.path.CopyPath(),
	})
}

func fromFieldDescriptorProto(fieldDescriptor *descriptorpb.FieldDescriptorProto) *idl.Field {
	field := &idl.Field{
		Name:           fieldDescriptor.GetName(),
		JSONName:       fieldDescriptor.GetJsonName(),
		Number:         fieldDescriptor.GetNumber(),
		Type:           fieldDescriptor.GetType(),
		Repeated:       fieldDescriptor.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED,
		TypeName:       fieldDescriptor.GetTypeName(),
		OneofIndex:     optional.FromPointer(fieldDescriptor.OneofIndex),
		Proto3Optional: fieldDescriptor.GetProto3Optional(),
		Deprecated:     fieldDescriptor.GetOptions().GetDeprecated(),
	}
	if fieldDescriptor.GetOptions() != nil {
		field.Packed = optional.FromPointer(fieldDescriptor.GetOptions().Packed)
	}
	if field.JSONName == "" {
		field.JSONName = defaultJSONName(field.Name)
	}
	return field
}

func fromEnumValueDescriptorProto(valueDescriptor *descriptorpb.EnumValueDescriptorProto) (*idl.EnumValue, error) {
	return &idl.EnumValue{
		Name:       valueDescriptor.GetName(),
		Number:     valueDescriptor.GetNumber(),
		Deprecated: valueDescriptor.GetOptions().GetDeprecated(),
	}, nil
}

func fromMethodDescriptorProto(methodDescriptor *descriptorpb.MethodDescriptorProto) (*idl.Method, error) {
	return &idl.Method{
		Name:            methodDescriptor.GetName(),
		InputType:       methodDescriptor.GetInputType(),
		OutputType:      methodDescriptor.GetOutputType(),
		ClientStreaming: methodDescriptor.GetClientStreaming(),
		ServerStreaming: methodDescriptor.GetServerStreaming(),
		Deprecated:      methodDescriptor.GetOptions().GetDeprecated(),
	}, nil
}

// defaultJSONName mirrors protoc's lowerCamelCase conversion for descriptors
// that arrive without json_name populated.
func defaultJSONName(name string) string {
	out := make([]byte, 0, len(name))
	upper := false
	for x := 0; x < len(name); x = x + 1 {
		ch := name[x]
		if ch == '_' {
			upper = true
			continue
		}
		if upper && 'a' <= ch && ch <= 'z' {
			ch = ch - 'a' + 'A'
		}
		upper = false
		out = append(out, ch)
	}
	return string(out)
}

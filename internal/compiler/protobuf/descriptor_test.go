package protobuf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"gopkg.microglot.org/tsproto.go/internal/compiler"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

func compile(t *testing.T, input string) *idl.Image {
	t.Helper()
	resp, err := compiler.CompileSources(context.Background(), map[string]string{"test.proto": input}, "test.proto")
	require.NoError(t, err)
	image, err := NewImage(resp.Files)
	require.NoError(t, err)
	return image
}

func TestDescriptor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		messages []string
		enums    []string
		paths    map[string][]int32
	}{
		{
			name:  "bare minimum",
			input: "syntax = \"proto3\";",
		},
		{
			name:     "message",
			input:    "syntax = \"proto3\";\npackage pkg;\nmessage Foo { string x = 1; }\n",
			messages: []string{"pkg.Foo"},
			paths:    map[string][]int32{"pkg.Foo": {4, 0}},
		},
		{
			name:     "nested message and enum",
			input:    "syntax = \"proto3\";\npackage pkg;\nenum Top { TOP_UNSPECIFIED = 0; }\nmessage Foo { message Bar { message Baz { int32 x = 1; } enum Kind { A = 0; } } }\nmessage Qux {}\n",
			messages: []string{"pkg.Foo", "pkg.Foo.Bar", "pkg.Foo.Bar.Baz", "pkg.Qux"},
			enums:    []string{"pkg.Top", "pkg.Foo.Bar.Kind"},
			paths: map[string][]int32{
				"pkg.Top":          {5, 0},
				"pkg.Foo":          {4, 0},
				"pkg.Foo.Bar":      {4, 0, 3, 0},
				"pkg.Foo.Bar.Baz":  {4, 0, 3, 0, 3, 0},
				"pkg.Foo.Bar.Kind": {4, 0, 3, 0, 4, 0},
				"pkg.Qux":          {4, 1},
			},
		},
		{
			name:     "no package",
			input:    "syntax = \"proto3\";\nmessage Foo { message Bar {} }\n",
			messages: []string{"Foo", "Foo.Bar"},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			image := compile(t, testCase.input)
			f, ok := image.File("test.proto")
			require.True(t, ok)

			var messages []string
			for _, m := range image.Messages {
				if m.File == f {
					messages = append(messages, m.FullName)
				}
			}
			var enums []string
			for _, e := range image.Enums {
				if e.File == f {
					enums = append(enums, e.FullName)
				}
			}
			require.Equal(t, testCase.messages, messages)
			require.Equal(t, testCase.enums, enums)
			for name, path := range testCase.paths {
				kind, v := image.Lookup(name)
				switch kind {
				case idl.TypeKindMessage:
					require.Equal(t, path, v.(*idl.Message).Path, name)
				case idl.TypeKindEnum:
					require.Equal(t, path, v.(*idl.Enum).Path, name)
				default:
					t.Fatalf("%s not found", name)
				}
			}
		})
	}
}

func TestDescriptorFields(t *testing.T) {
	t.Parallel()

	image := compile(t, `syntax = "proto3";
package pkg;
message Foo {
  int32 id = 1;
  repeated string tags = 2;
  map<string, Foo> children = 3;
  optional bool flag = 4;
  oneof choice {
    string a = 5;
    int64 b = 6;
  }
  repeated int32 loose = 7 [packed = false];
  string snake_name = 8;
}
`)
	foo, ok := image.LookupMessage(".pkg.Foo")
	require.True(t, ok)
	require.Len(t, foo.Fields, 8)

	id := foo.Fields[0]
	require.Equal(t, idl.FieldTypeInt32, id.Type)
	require.False(t, id.Repeated)
	require.False(t, id.OneofIndex.IsPresent())

	require.True(t, foo.Fields[1].Repeated)

	entry, ok := image.MapEntry(foo.Fields[2])
	require.True(t, ok)
	require.Equal(t, "pkg.Foo.ChildrenEntry", entry.FullName)
	require.Equal(t, foo.Handle, entry.Parent)

	flag := foo.Fields[3]
	require.True(t, flag.Proto3Optional)
	require.False(t, flag.InOneof())

	require.Len(t, foo.Oneofs, 2)
	require.Equal(t, "choice", foo.Oneofs[0].Name)
	require.False(t, foo.Oneofs[0].Synthetic)
	require.Len(t, foo.Oneofs[0].Fields, 2)
	require.True(t, foo.Oneofs[1].Synthetic)
	require.True(t, foo.Fields[4].InOneof())

	loose := foo.Fields[6]
	require.True(t, loose.Packed.IsPresent())
	require.False(t, loose.Packed.Value())
	require.Equal(t, "snakeName", foo.Fields[7].JSONName)
}

func TestDescriptorServices(t *testing.T) {
	t.Parallel()

	image := compile(t, `syntax = "proto3";
package pkg;
message Req {}
message Res {}
service Greeter {
  rpc Hello(Req) returns (Res);
  rpc Watch(Req) returns (stream Res) { option deprecated = true; }
}
`)
	f, _ := image.File("test.proto")
	require.Len(t, f.Services, 1)
	svc := f.Services[0]
	require.Equal(t, "pkg.Greeter", svc.FullName)
	require.Equal(t, []int32{6, 0}, svc.Path)
	require.Len(t, svc.Methods, 2)
	require.Equal(t, ".pkg.Req", svc.Methods[0].InputType)
	require.True(t, svc.Methods[1].ServerStreaming)
	require.True(t, svc.Methods[1].Deprecated)
}

func TestDescriptorErrors(t *testing.T) {
	t.Parallel()

	_, err := NewImage([]*descriptorpb.FileDescriptorProto{
		{Name: proto.String("a.proto"), MessageType: []*descriptorpb.DescriptorProto{{Name: proto.String("A")}}},
		{Name: proto.String("b.proto"), MessageType: []*descriptorpb.DescriptorProto{{Name: proto.String("A")}}},
	})
	require.Error(t, err)

	_, err = NewImage([]*descriptorpb.FileDescriptorProto{{
		Name: proto.String("a.proto"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name:  proto.String("A"),
			Field: []*descriptorpb.FieldDescriptorProto{{Name: proto.String("x"), Number: proto.Int32(1), OneofIndex: proto.Int32(3)}},
		}},
	}})
	require.Error(t, err)

	image, err := NewImage([]*descriptorpb.FileDescriptorProto{{
		Name: proto.String("legacy.proto"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name:  proto.String("A"),
			Field: []*descriptorpb.FieldDescriptorProto{{Name: proto.String("some_field"), Number: proto.Int32(1)}},
		}},
	}})
	require.NoError(t, err)
	f, _ := image.File("legacy.proto")
	require.Equal(t, "proto2", f.Syntax)
	require.Equal(t, "someField", image.Messages[0].Fields[0].JSONName)
}

package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/tsproto.go/internal/exc"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

const nestedProto = `syntax = "proto3";
package pkg;

enum Top { TOP_A = 0; }

// Outer doc.
message Outer {
  enum Mode { MODE_A = 0; }
  message Inner {
    message Deep {}
  }
  Inner inner = 1;
}

message Second {}

service Svc {
  rpc Call(Outer) returns (Second);
}
`

func TestWalk(t *testing.T) {
	t.Parallel()

	image := compileImage(t, map[string]string{"pkg/nested.proto": nestedProto}, "pkg/nested.proto")
	file, ok := image.File("pkg/nested.proto")
	require.True(t, ok)

	testCases := []struct {
		parameter string
		expected  []string
	}{
		{parameter: "", expected: []string{"Top", "Outer", "Outer_Mode", "Outer_Inner", "Outer_Inner_Deep", "Second"}},
		{parameter: "useSnakeTypeName=false", expected: []string{"Top", "Outer", "OuterMode", "OuterInner", "OuterInnerDeep", "Second"}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.parameter, func(t *testing.T) {
			t.Parallel()
			visits := Walk(image, file, parseOptions(t, testCase.parameter))
			names := make([]string, 0, len(visits.Types))
			for _, v := range visits.Types {
				names = append(names, v.TSName)
			}
			require.Equal(t, testCase.expected, names)
			require.Len(t, visits.Enums(), 2)
			require.Len(t, visits.Messages(), 4)
			require.Len(t, visits.Services, 1)
			require.Equal(t, "Svc", visits.Services[0].Service.Name)
			require.Equal(t, visits, Walk(image, file, parseOptions(t, testCase.parameter)))
		})
	}

	visits := Walk(image, file, parseOptions(t, ""))
	outer := visits.Messages()[0]
	require.Equal(t, "pkg.Outer", outer.FullName)
	require.True(t, outer.Comment.IsPresent())
	require.Contains(t, outer.Comment.Value().Leading, "Outer doc.")
}

func resolveField(t *testing.T, parameter string, message string, field string) *Resolution {
	t.Helper()
	image := compileImage(t, map[string]string{"pkg/all.proto": allProto}, "pkg/all.proto")
	file, ok := image.File("pkg/all.proto")
	require.True(t, ok)
	m, ok := image.LookupMessage(message)
	require.True(t, ok, message)
	c := newContext(parseOptions(t, parameter), image, file)
	for _, f := range m.Fields {
		if f.Name == field {
			return c.Resolve(m, f)
		}
	}
	t.Fatalf("no field %s in %s", field, message)
	return nil
}

func TestResolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		parameter string
		field     string
		category  Category
		typ       string
		def       string
		optional  bool
		tag       uint32
	}{
		{name: "string", field: "name", category: CategoryScalar, typ: "string", def: `""`, tag: 10},
		{name: "packed", field: "ids", category: CategoryScalar, typ: "number[]", def: "[]", tag: 16},
		{name: "map", field: "counts", category: CategoryMap, typ: "{ [key: string]: number }", def: "{}", tag: 26},
		{name: "map type", parameter: "useMapType=true", field: "counts", category: CategoryMap, typ: "Map<string, number>", def: "new Map()", tag: 26},
		{name: "enum", field: "color", category: CategoryEnum, typ: "Color", def: "0", tag: 32},
		{name: "string enum", parameter: "stringEnums=true", field: "color", category: CategoryEnum, typ: "Color", def: "Color.RED", tag: 32},
		{name: "timestamp", field: "at", category: CategoryTimestamp, typ: "Date | undefined", def: "undefined", tag: 42},
		{name: "timestamp message", parameter: "useDate=timestamp", field: "at", category: CategoryTimestamp, typ: "Timestamp | undefined", def: "undefined", tag: 42},
		{name: "wrapper", field: "limit", category: CategoryWrapper, typ: "number | undefined", def: "undefined", tag: 50},
		{name: "boxed", parameter: "unwrapWrappers=false", field: "limit", category: CategoryBoxed, typ: "Int32Value | undefined", def: "undefined", tag: 50},
		{name: "field mask", field: "mask", category: CategoryFieldMask, typ: "string[] | undefined", def: "undefined", tag: 58},
		{name: "struct", field: "extra", category: CategoryStruct, typ: "{ [key: string]: any } | undefined", def: "undefined", tag: 66},
		{name: "bytes", field: "data", category: CategoryScalar, typ: "Uint8Array", def: "new Uint8Array()", tag: 74},
		{name: "node bytes", parameter: "env=node", field: "data", category: CategoryScalar, typ: "Buffer", def: "Buffer.alloc(0)", tag: 74},
		{name: "long number", field: "big", category: CategoryScalar, typ: "number", def: "0", tag: 80},
		{name: "long long", parameter: "forceLong=long", field: "big", category: CategoryScalar, typ: "Long", def: "Long.ZERO", tag: 80},
		{name: "long string", parameter: "forceLong=string", field: "big", category: CategoryScalar, typ: "string", def: `"0"`, tag: 80},
		{name: "proto3 optional", field: "nick", category: CategoryScalar, typ: "string | undefined", def: "undefined", optional: true, tag: 90},
		{name: "oneof property", field: "text", category: CategoryScalar, typ: "string | undefined", def: "undefined", optional: true, tag: 98},
		{name: "oneof union", parameter: "oneof=unions", field: "text", category: CategoryScalar, typ: "string", def: "undefined", optional: true, tag: 98},
		{name: "optional all", parameter: "useOptionals=all", field: "name", category: CategoryScalar, typ: "string", def: `""`, optional: true, tag: 10},
		{name: "optional messages", parameter: "useOptionals=messages", field: "child", category: CategoryMessage, typ: "All_Child | undefined", def: "undefined", optional: true, tag: 106},
		{name: "readonly", parameter: "useReadonlyTypes=true", field: "tags", category: CategoryScalar, typ: "readonly string[]", def: "[]", tag: 114},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			r := resolveField(t, testCase.parameter, "pkg.All", testCase.field)
			require.Equal(t, testCase.category, r.Category, r.Category.String())
			require.Equal(t, testCase.typ, r.Type)
			require.Equal(t, testCase.def, r.Default)
			require.Equal(t, testCase.optional, r.Optional)
			require.Equal(t, testCase.tag, r.Tag)
		})
	}
}

func TestResolvePacking(t *testing.T) {
	t.Parallel()

	ids := resolveField(t, "", "pkg.All", "ids")
	require.True(t, ids.Packable)
	require.True(t, ids.Packed)
	require.Equal(t, uint32(18), ids.PackedTag)

	loose := resolveField(t, "", "pkg.All", "loose")
	require.True(t, loose.Packable)
	require.False(t, loose.Packed)

	tags := resolveField(t, "", "pkg.All", "tags")
	require.False(t, tags.Packable)

	counts := resolveField(t, "", "pkg.All", "counts")
	require.False(t, counts.Repeated())
	require.Equal(t, "All_CountsEntry", counts.MapEntry)
	require.Equal(t, "string", counts.MapKeyType)
	require.True(t, counts.MapValue.IsLong())
}

func TestResolveUnhandled(t *testing.T) {
	t.Parallel()

	image := compileImage(t, map[string]string{"pkg/all.proto": allProto}, "pkg/all.proto")
	file, ok := image.File("pkg/all.proto")
	require.True(t, ok)
	m, ok := image.LookupMessage("pkg.All")
	require.True(t, ok)

	testCases := []struct {
		name  string
		field *idl.Field
		code  string
	}{
		{name: "unknown message", field: &idl.Field{Name: "x", Number: 1, Type: idl.FieldTypeMessage, TypeName: ".nope.X"}, code: exc.CodeUnknownType},
		{name: "unknown enum", field: &idl.Field{Name: "x", Number: 1, Type: idl.FieldTypeEnum, TypeName: ".nope.E"}, code: exc.CodeUnknownType},
		{name: "group", field: &idl.Field{Name: "x", Number: 1, Type: idl.FieldTypeGroup}, code: exc.CodeUnhandledField},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			c := newContext(parseOptions(t, ""), image, file)
			defer func() {
				e, ok := recover().(exc.Exception)
				require.True(t, ok)
				require.Equal(t, testCase.code, e.Code())
			}()
			c.Resolve(m, testCase.field)
		})
	}
}

func TestReaderCallUnhandled(t *testing.T) {
	t.Parallel()

	image := compileImage(t, map[string]string{"pkg/all.proto": allProto}, "pkg/all.proto")
	file, ok := image.File("pkg/all.proto")
	require.True(t, ok)
	c := newContext(parseOptions(t, ""), image, file)
	require.Equal(t, "int32", c.readerCall(idl.FieldTypeEnum))
	require.Equal(t, "sint64", c.readerCall(idl.FieldTypeSint64))

	defer func() {
		e, ok := recover().(exc.Exception)
		require.True(t, ok)
		require.Equal(t, exc.CodeUnhandledField, e.Code())
		require.Equal(t, "pkg/all.proto", e.Location().URI)
	}()
	c.readerCall(idl.FieldTypeGroup)
}

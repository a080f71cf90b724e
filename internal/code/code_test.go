package code

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/tsproto.go/internal/exc"
)

func TestPrinter(t *testing.T) {
	t.Parallel()

	var p Printer
	p.Block("function f() {", func() {
		p.P("const x = %d;", 1)
		p.Blank()
		p.Line("if (x) {\n  return 100%;\n}")
		p.P("const pct = %d%%;", 5)
	}, "}")
	require.Equal(t, "function f() {\n  const x = 1;\n\n  if (x) {\n    return 100%;\n  }\n  const pct = 5%;\n}\n", p.String())
	require.Equal(t, p.Len(), len(p.String()))

	p.Out()
	p.Out()
	p.P("x")
	require.Contains(t, p.String(), "}\nx\n")
}

func TestIndent(t *testing.T) {
	t.Parallel()

	require.Equal(t, "    a\n\n    b", Indent("a\n\nb", 2))
	require.Equal(t, "a", Indent("a", 0))
	require.Equal(t, "", Indent("", 3))
}

func TestImports(t *testing.T) {
	t.Parallel()

	i := NewImports()
	i.Define("Timestamp")
	require.True(t, i.IsDefined("Timestamp"))
	require.False(t, i.IsDefined("Long"))

	require.Equal(t, "_m0", i.Namespace("protobufjs/minimal", "_m0"))
	require.Equal(t, "Long", i.Default("long", "Long"))
	require.Equal(t, "Timestamp1", i.Named("./google/protobuf/timestamp", "Timestamp"))
	require.Equal(t, "Timestamp1", i.Named("./google/protobuf/timestamp", "Timestamp"))
	require.Equal(t, "Foo", i.Named("../other/foo", "Foo"))
	require.Equal(t, "Foo1", i.Named("./foo", "Foo"))
	require.Equal(t, "Bar", i.Named("./foo", "Bar"))
	require.Equal(t, 6, i.Len())

	require.Equal(t, `import Long from "long";
import * as _m0 from "protobufjs/minimal";
import { Foo } from "../other/foo";
import { Bar, Foo as Foo1 } from "./foo";
import { Timestamp as Timestamp1 } from "./google/protobuf/timestamp";
`, i.Render())
}

func TestImportsEmpty(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", NewImports().Render())
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Declare("isSet", func() string { return "function isSet(value: any): boolean {}" })
	r.Declare("Long", func() string { return "" })
	r.Declare("longToNumber", func() string {
		r.Use("Long")
		return "function longToNumber(long: Long): number {}"
	})
	r.Declare("unused", func() string { return "function unused() {}" })

	require.False(t, r.Used("isSet"))
	require.Equal(t, "longToNumber", r.Use("longToNumber"))
	require.Equal(t, "isSet", r.Use("isSet"))
	require.Equal(t, "isSet", r.Use("isSet"))
	require.True(t, r.Used("Long"))

	require.Equal(t, []Fragment{
		{Name: "longToNumber", Body: "function longToNumber(long: Long): number {}"},
		{Name: "isSet", Body: "function isSet(value: any): boolean {}"},
	}, r.Realized())
	require.Equal(t, []string{"Long", "isSet", "longToNumber", "unused"}, r.Names())
}

func TestRegistryMisuse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		code string
		run  func(r *Registry)
	}{
		{
			name: "duplicate",
			code: exc.CodeHelperRedeclared,
			run: func(r *Registry) {
				r.Declare("a", func() string { return "a" })
				r.Declare("a", func() string { return "a" })
			},
		},
		{
			name: "undeclared",
			code: exc.CodeHelperUndeclared,
			run: func(r *Registry) {
				r.Use("missing")
			},
		},
		{
			name: "cycle",
			code: exc.CodeHelperCycle,
			run: func(r *Registry) {
				r.Declare("a", func() string { return r.Use("b") })
				r.Declare("b", func() string { return r.Use("a") })
				r.Use("a")
			},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			defer func() {
				v := recover()
				require.NotNil(t, v)
				e, ok := v.(exc.Exception)
				require.True(t, ok)
				require.Equal(t, testCase.code, e.Code())
			}()
			testCase.run(NewRegistry())
		})
	}
}

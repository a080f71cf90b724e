package options

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/tsproto.go/internal/exc"
)

func codes(es []exc.Exception) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Code())
	}
	return out
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	r := exc.NewReporter(nil)
	o, err := Parse("", r)
	require.NoError(t, err)
	require.Equal(t, Default(), o)
	require.Empty(t, r.Reported())
	require.True(t, o.SnakeToCamelKeys())
	require.True(t, o.SnakeToCamelJSON())
	require.True(t, o.LongIsNumber())
	require.False(t, o.OneofUnions())
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		parameter string
		check     func(t *testing.T, o Options)
		warnings  []string
	}{
		{
			name:      "enum axes",
			parameter: "forceLong=string,useDate=timestamp,oneof=unions,useOptionals=all,stringEnums=true,useMapType=true",
			check: func(t *testing.T, o Options) {
				require.Equal(t, LongString, o.ForceLong)
				require.Equal(t, DateTimestamp, o.UseDate)
				require.Equal(t, OneofUnions, o.Oneof)
				require.Equal(t, OptionalsAll, o.UseOptionals)
				require.True(t, o.StringEnums)
				require.True(t, o.UseMapType)
			},
		},
		{
			name:      "deprecated spellings",
			parameter: "forceLong=true,useDate=false,useOptionals=true,snakeToCamel=false,outputServices=false",
			check: func(t *testing.T, o Options) {
				require.Equal(t, LongLong, o.ForceLong)
				require.Equal(t, DateTimestamp, o.UseDate)
				require.Equal(t, OptionalsMessages, o.UseOptionals)
				require.Empty(t, o.SnakeToCamel)
				require.Equal(t, ServiceNone, o.OutputServices)
			},
			warnings: []string{
				exc.CodeDeprecatedOption,
				exc.CodeDeprecatedOption,
				exc.CodeDeprecatedOption,
				exc.CodeDeprecatedOption,
				exc.CodeDeprecatedOption,
			},
		},
		{
			name:      "snake to camel list",
			parameter: "snakeToCamel=json",
			check: func(t *testing.T, o Options) {
				require.False(t, o.SnakeToCamelKeys())
				require.True(t, o.SnakeToCamelJSON())
			},
		},
		{
			name:      "later wins",
			parameter: "forceLong=long,forceLong=string",
			check: func(t *testing.T, o Options) {
				require.Equal(t, LongString, o.ForceLong)
			},
			warnings: []string{exc.CodeConflictingOption},
		},
		{
			name:      "M options",
			parameter: "Mfoo.proto=./gen/foo,Mfoo.proto=@scope/foo,Mbar.proto=./bar.ts",
			check: func(t *testing.T, o Options) {
				m, ok := o.ModuleFor("foo.proto")
				require.True(t, ok)
				require.Equal(t, "@scope/foo", m)
				m, _ = o.ModuleFor("bar.proto")
				require.Equal(t, "./bar.ts", m)
			},
			warnings: []string{exc.CodeConflictingOption, exc.CodeSuspiciousOption},
		},
		{
			name:      "unknown key",
			parameter: "nestJs=true",
			check:     func(t *testing.T, o Options) {},
			warnings:  []string{exc.CodeUnknownOption},
		},
		{
			name:      "only types implied",
			parameter: "outputJsonMethods=false,outputEncodeMethods=false,outputClientImpl=false",
			check: func(t *testing.T, o Options) {
				require.True(t, o.OnlyTypes)
			},
		},
		{
			name:      "only types implies",
			parameter: "onlyTypes=true,useJsonWireFormat=true",
			check: func(t *testing.T, o Options) {
				require.False(t, o.OutputJSONMethods)
				require.False(t, o.OutputEncodeMethods)
				require.True(t, o.UseJSONWireFormat)
				require.True(t, o.StringEnums)
				require.Equal(t, DateString, o.UseDate)
			},
		},
		{
			name:      "json wire format without only types",
			parameter: "useJsonWireFormat=true",
			check: func(t *testing.T, o Options) {
				require.False(t, o.UseJSONWireFormat)
				require.False(t, o.StringEnums)
			},
			warnings: []string{exc.CodeSuspiciousOption},
		},
		{
			name:      "bare key",
			parameter: "useReadonlyTypes, ,",
			check: func(t *testing.T, o Options) {
				require.True(t, o.UseReadonlyTypes)
			},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			r := exc.NewReporter(nil)
			o, err := Parse(testCase.parameter, r)
			require.NoError(t, err)
			testCase.check(t, o)
			require.Empty(t, r.Errors())
			require.Equal(t, len(testCase.warnings), len(r.Warnings()), "%v", r.Warnings())
			if len(testCase.warnings) > 0 {
				require.Equal(t, testCase.warnings, codes(r.Warnings()))
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for _, parameter := range []string{
		"forceLong=bigint",
		"useDate=iso",
		"oneof=tagged",
		"useOptionals=some",
		"outputServices=grpc-js",
		"stringEnums=yes",
		"snakeToCamel=upper",
		"M=./x",
	} {
		parameter := parameter
		t.Run(parameter, func(t *testing.T) {
			t.Parallel()
			r := exc.NewReporter(nil)
			_, err := Parse(parameter, r)
			require.Error(t, err)
			var e exc.Exception
			require.ErrorAs(t, err, &e)
			require.Equal(t, exc.CodeInvalidOption, e.Code())
			require.Equal(t, SourceParameter, e.Location().URI)
		})
	}
}

func TestDecodeConfig(t *testing.T) {
	t.Parallel()

	entries, err := DecodeConfig("tsproto.toml", `
forceLong = "long"
outputJsonMethods = false
snakeToCamel = ["keys"]

[M]
"google/protobuf/empty.proto" = "@scope/wkt/empty"
`)
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Key: "forceLong", Value: "long", Source: "tsproto.toml"},
		{Key: "outputJsonMethods", Value: "false", Source: "tsproto.toml"},
		{Key: "snakeToCamel", Value: "keys", Source: "tsproto.toml"},
		{Key: "Mgoogle/protobuf/empty.proto", Value: "@scope/wkt/empty", Source: "tsproto.toml"},
	}, entries)

	r := exc.NewReporter(nil)
	o, err := Resolve(r, entries, SplitParameter("forceLong=string"))
	require.NoError(t, err)
	require.Equal(t, LongString, o.ForceLong)
	require.False(t, o.OutputJSONMethods)
	require.Equal(t, []string{"keys"}, o.SnakeToCamel)
	require.Equal(t, "@scope/wkt/empty", o.M["google/protobuf/empty.proto"])
	require.Equal(t, []string{exc.CodeConflictingOption}, codes(r.Warnings()))
	require.Equal(t, SourceParameter, r.Warnings()[0].Location().URI)
	require.Contains(t, r.Warnings()[0].Message(), "tsproto.toml")
}

func TestDecodeConfigInvalid(t *testing.T) {
	t.Parallel()

	_, err := DecodeConfig("bad.toml", "forceLong = [1, 2]")
	require.Error(t, err)
	_, err = DecodeConfig("bad.toml", "forceLong = ")
	require.Error(t, err)
}

func TestKeys(t *testing.T) {
	t.Parallel()

	keys := Keys()
	require.Contains(t, keys, "forceLong")
	require.Contains(t, keys, "unwrapWrappers")
	require.IsIncreasing(t, keys)
}

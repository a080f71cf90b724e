package target

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{input: "foo/bar.proto", expected: "/foo/bar.proto"},
		{input: "/abs/bar.proto", expected: "/abs/bar.proto"},
		{input: "file:///abs/bar.proto", expected: "/abs/bar.proto"},
		{input: "https://example.com/a.proto", expected: "https://example.com/a.proto"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			require.Equal(t, testCase.expected, Normalize(testCase.input))
		})
	}
}

func TestRelativeImport(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		from     string
		to       string
		expected string
	}{
		{from: "a", to: "b", expected: "./b"},
		{from: "a", to: "google/protobuf/timestamp", expected: "./google/protobuf/timestamp"},
		{from: "pkg/a", to: "pkg/b", expected: "./b"},
		{from: "pkg/a", to: "pkg/sub/b", expected: "./sub/b"},
		{from: "pkg/sub/a", to: "pkg/b", expected: "../b"},
		{from: "pkg/a", to: "google/protobuf/timestamp", expected: "../google/protobuf/timestamp"},
		{from: "x/y/z", to: "b", expected: "../../b"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.from+"->"+testCase.to, func(t *testing.T) {
			require.Equal(t, testCase.expected, RelativeImport(testCase.from, testCase.to))
		})
	}
}

func TestOutputFile(t *testing.T) {
	t.Parallel()

	require.Equal(t, "foo/bar.ts", OutputFile("foo/bar.proto", ""))
	require.Equal(t, "foo/bar.pb.ts", OutputFile("foo/bar.proto", ".pb"))
	require.Equal(t, "foo/bar.pb", ModulePath("foo/bar.proto", ".pb"))
}

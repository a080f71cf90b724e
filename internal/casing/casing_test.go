package casing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnakeToCamel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{input: "foo", expected: "foo"},
		{input: "foo_bar", expected: "fooBar"},
		{input: "foo_bar_baz", expected: "fooBarBaz"},
		{input: "FOO_BAR", expected: "fooBar"},
		{input: "fooBar_baz", expected: "fooBarBaz"},
		{input: "foo__bar", expected: "fooBar"},
		{input: "_foo", expected: "Foo"},
		{input: "foo_1", expected: "foo1"},
		{input: "", expected: ""},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, SnakeToCamel(testCase.input))
		})
	}
}

func TestMaybeSnakeToCamel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "fooBar", MaybeSnakeToCamel("foo_bar", true))
	require.Equal(t, "foo_bar", MaybeSnakeToCamel("foo_bar", false))
	require.Equal(t, "FOO", MaybeSnakeToCamel("FOO", true))
}

func TestCamelToSnake(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{input: "FooBar", expected: "FOO_BAR"},
		{input: "fooBar", expected: "FOO_BAR"},
		{input: "Foo", expected: "FOO"},
		{input: "ABC", expected: "A_BC"},
		{input: "Foo2Bar", expected: "FOO2_BAR"},
		{input: "", expected: ""},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, CamelToSnake(testCase.input))
		})
	}
}

func TestCapitalize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Foo", Capitalize("foo"))
	require.Equal(t, "FOO", Capitalize("FOO"))
	require.Equal(t, "", Capitalize(""))
	require.Equal(t, "foo", CamelCase("Foo"))
	require.Equal(t, "fOO", CamelCase("FOO"))
	require.Equal(t, "", CamelCase(""))
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package casing converts protobuf identifiers into TypeScript identifiers.
package casing

import (
	"strings"
	"unicode/utf8"
)

// SnakeToCamel joins underscore separated words, capitalising every word
// after the first. Words are lower cased first only when the input has no
// lower case letters at all so that mixed case input keeps its casing.
func SnakeToCamel(s string) string {
	hasLower := strings.IndexFunc(s, func(r rune) bool { return 'a' <= r && r <= 'z' }) >= 0
	words := strings.Split(s, "_")
	var b strings.Builder
	b.Grow(len(s))
	for x, word := range words {
		if !hasLower {
			word = strings.ToLower(word)
		}
		if x > 0 {
			word = Capitalize(word)
		}
		b.WriteString(word)
	}
	return b.String()
}

// MaybeSnakeToCamel converts a property key when key conversion is enabled
// and the key contains an underscore.
func MaybeSnakeToCamel(key string, keys bool) string {
	if keys && strings.Contains(key, "_") {
		return SnakeToCamel(key)
	}
	return key
}

// CamelToSnake inserts an underscore between a word character and the
// upper case letter that follows it, then upper cases the whole string.
// Matches do not overlap: "ABC" becomes "A_BC".
func CamelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/2)
	for x := 0; x < len(s); {
		if x+1 < len(s) && isWord(s[x]) && isUpper(s[x+1]) {
			b.WriteByte(s[x])
			b.WriteByte('_')
			b.WriteByte(s[x+1])
			x = x + 2
			continue
		}
		b.WriteByte(s[x])
		x = x + 1
	}
	return strings.ToUpper(b.String())
}

func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}

// CamelCase lower cases the first character.
func CamelCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToLower(string(r)) + s[size:]
}

func isUpper(c byte) bool {
	return 'A' <= c && c <= 'Z'
}

func isWord(c byte) bool {
	return isUpper(c) || ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') || c == '_'
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package code holds the text assembly primitives used by the generator: an
// indenting printer, an import table and a registry of shared helpers that
// are emitted only when referenced.
package code

import (
	"fmt"
	"strings"
)

const indentUnit = "  "

// Printer accumulates lines of TypeScript at the current indentation.
type Printer struct {
	b      strings.Builder
	indent int
}

// P writes one formatted line.
func (p *Printer) P(format string, args ...interface{}) {
	p.Line(fmt.Sprintf(format, args...))
}

// Line writes text verbatim. Embedded newlines start new lines at the same
// indentation and blank lines are written without trailing whitespace.
func (p *Printer) Line(text string) {
	for _, l := range strings.Split(text, "\n") {
		if l == "" {
			p.b.WriteByte('\n')
			continue
		}
		for x := 0; x < p.indent; x = x + 1 {
			p.b.WriteString(indentUnit)
		}
		p.b.WriteString(l)
		p.b.WriteByte('\n')
	}
}

// Blank writes an empty line.
func (p *Printer) Blank() {
	p.b.WriteByte('\n')
}

func (p *Printer) In() {
	p.indent = p.indent + 1
}

func (p *Printer) Out() {
	if p.indent > 0 {
		p.indent = p.indent - 1
	}
}

// Block writes open, runs body one level deeper, then writes close.
func (p *Printer) Block(open string, body func(), close string) {
	p.Line(open)
	p.In()
	body()
	p.Out()
	p.Line(close)
}

func (p *Printer) Len() int {
	return p.b.Len()
}

func (p *Printer) String() string {
	return p.b.String()
}

// Indent prefixes every non-empty line of s with n indentation units.
func Indent(s string, n int) string {
	if n == 0 || s == "" {
		return s
	}
	prefix := strings.Repeat(indentUnit, n)
	lines := strings.Split(s, "\n")
	for x, l := range lines {
		if l != "" {
			lines[x] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// Package codegen emits TypeScript route modules from route specifications.
//
// Emitted source is built as a small statement/expression representation and
// rendered by the printer in this file, so indentation and string quoting are
// decided in one place instead of at each emission site.
package codegen

import (
	"fmt"
	"regexp"
	"strings"
)

const indentUnit = "  "

// Node is one statement-level element of an emitted source file.
type Node interface {
	writeTo(b *strings.Builder, depth int)
}

// Line is a single line of source, indented to the current depth. An empty
// Line renders as a blank line.
type Line string

func (l Line) writeTo(b *strings.Builder, depth int) {
	if l == "" {
		b.WriteByte('\n')
		return
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString(string(l))
	b.WriteByte('\n')
}

// Block renders an opening line, an indented body, and an optional closing
// line.
type Block struct {
	Open  string
	Body  []Node
	Close string
}

func (blk Block) writeTo(b *strings.Builder, depth int) {
	Line(blk.Open).writeTo(b, depth)
	for _, n := range blk.Body {
		n.writeTo(b, depth+1)
	}
	if blk.Close != "" {
		Line(blk.Close).writeTo(b, depth)
	}
}

// Indent shifts its children one level right.
type Indent []Node

func (in Indent) writeTo(b *strings.Builder, depth int) {
	for _, n := range in {
		n.writeTo(b, depth+1)
	}
}

// ExprLine splices an expression into statement position, with prefix and
// suffix text on the first and last lines.
type ExprLine struct {
	Prefix string
	Expr   Expr
	Suffix string
}

func (e ExprLine) writeTo(b *strings.Builder, depth int) {
	Line(e.Prefix + e.Expr.exprAt(depth) + e.Suffix).writeTo(b, depth)
}

// Expr is a TypeScript expression. Multi-line expressions indent their
// continuation lines relative to depth; the first line carries no indent of
// its own.
type Expr interface {
	exprAt(depth int) string
}

// Raw is verbatim expression text.
type Raw string

func (r Raw) exprAt(int) string { return string(r) }

// Call renders fn(arg, arg, ...) with the arguments on one logical line.
type Call struct {
	Fn   string
	Args []Expr
}

func (c Call) exprAt(depth int) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.exprAt(depth)
	}
	return c.Fn + "(" + strings.Join(args, ", ") + ")"
}

// Object is a multi-line object literal. An empty Object renders as {}.
type Object struct {
	Fields []ObjectField
}

// ObjectField is one key/value pair of an Object.
type ObjectField struct {
	Name  string
	Value Expr
}

func (o Object) exprAt(depth int) string {
	if len(o.Fields) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for i, f := range o.Fields {
		sb.WriteString(strings.Repeat(indentUnit, depth+1))
		sb.WriteString(propKey(f.Name))
		sb.WriteString(": ")
		sb.WriteString(f.Value.exprAt(depth + 1))
		if i < len(o.Fields)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat(indentUnit, depth))
	sb.WriteByte('}')
	return sb.String()
}

// Props is an inline options object, rendered on one line. An empty Props
// renders as {}.
type Props []Prop

// Prop is one key and its pre-rendered value text.
type Prop struct {
	Name  string
	Value string
}

func (p Props) exprAt(int) string {
	if len(p) == 0 {
		return "{}"
	}
	parts := make([]string, len(p))
	for i, f := range p {
		parts[i] = propKey(f.Name) + ": " + f.Value
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// List is an inline array literal.
type List []Expr

func (l List) exprAt(depth int) string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.exprAt(depth)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// File accumulates nodes and renders them once.
type File struct {
	nodes []Node
}

func (f *File) Add(nodes ...Node) { f.nodes = append(f.nodes, nodes...) }

func (f *File) Linef(format string, args ...interface{}) {
	f.Add(Line(fmt.Sprintf(format, args...)))
}

func (f *File) Blank() { f.Add(Line("")) }

func (f *File) Render() string {
	var b strings.Builder
	for _, n := range f.nodes {
		n.writeTo(&b, 0)
	}
	return b.String()
}

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// propKey renders an object key: bare when it is a valid identifier, quoted
// otherwise.
func propKey(name string) string {
	if identRe.MatchString(name) {
		return name
	}
	return quote(name)
}

// quote renders a TypeScript single-quoted string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

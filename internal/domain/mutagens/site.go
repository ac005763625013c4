// Package mutagens holds the mutation operator catalog. Each operator looks at
// one syntax node at a time and proposes byte-range replacements for it.
package mutagens

import (
	"strconv"
	"strings"

	m "gooze.dev/pkg/polymut/internal/model"
)

// Site is a node visited by discovery together with the context operators
// need to decide whether a replacement is well formed.
type Site struct {
	Node        m.SyntaxNode
	Parent      m.SyntaxNode
	Grandparent m.SyntaxNode
	// Function is the innermost enclosing function node, nil at file scope.
	Function m.SyntaxNode
	Language m.Language
	Source   []byte
}

// Candidate is a proposed replacement of Source[Start:End].
type Candidate struct {
	Variant     string
	Start       int
	End         int
	Replacement string
}

// Text returns the source text covered by n.
func (s Site) Text(n m.SyntaxNode) string {
	if n == nil {
		return ""
	}

	return string(s.Source[n.StartByte():n.EndByte()])
}

// replace builds a candidate covering the whole node.
func replace(n m.SyntaxNode, variant, replacement string) Candidate {
	return Candidate{Variant: variant, Start: n.StartByte(), End: n.EndByte(), Replacement: replacement}
}

// IsFunction reports whether the node kind opens a new function scope.
func IsFunction(kind string) bool {
	switch kind {
	case "function_declaration", "method_declaration", "func_literal",
		"function_expression", "function", "arrow_function", "method_definition",
		"generator_function_declaration", "generator_function":
		return true
	}

	return false
}

// namedChildren returns the named children of n, comments excluded.
func namedChildren(n m.SyntaxNode) []m.SyntaxNode {
	if n == nil {
		return nil
	}

	var children []m.SyntaxNode

	for i := range n.ChildCount() {
		child := n.Child(i)
		if child == nil || !child.IsNamed() || child.Kind() == "comment" {
			continue
		}

		children = append(children, child)
	}

	return children
}

// hasChildKind reports whether n has a direct child of the given kind.
func hasChildKind(n m.SyntaxNode, kind string) bool {
	for i := range n.ChildCount() {
		if child := n.Child(i); child != nil && child.Kind() == kind {
			return true
		}
	}

	return false
}

// childOfKind returns the first direct child of the given kind.
func childOfKind(n m.SyntaxNode, kind string) m.SyntaxNode {
	for i := range n.ChildCount() {
		if child := n.Child(i); child != nil && child.Kind() == kind {
			return child
		}
	}

	return nil
}

// unwrapParens strips parenthesized_expression layers.
func unwrapParens(n m.SyntaxNode) m.SyntaxNode {
	for n != nil && n.Kind() == "parenthesized_expression" {
		children := namedChildren(n)
		if len(children) != 1 {
			return n
		}

		n = children[0]
	}

	return n
}

func sameSpan(a, b m.SyntaxNode) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

func isBoolLiteral(n m.SyntaxNode) bool {
	return n != nil && (n.Kind() == "true" || n.Kind() == "false")
}

// IsStringLiteral reports whether kind is a plain string literal in any
// supported grammar. Template strings are excluded because they embed code.
func IsStringLiteral(kind string) bool {
	switch kind {
	case "interpreted_string_literal", "raw_string_literal", "rune_literal", "string":
		return true
	}

	return false
}

func isStringish(n m.SyntaxNode) bool {
	return n != nil && (IsStringLiteral(n.Kind()) || n.Kind() == "template_string")
}

func isNumberLiteral(n m.SyntaxNode) bool {
	if n == nil {
		return false
	}

	switch n.Kind() {
	case "int_literal", "float_literal", "number":
		return true
	}

	return false
}

// isZeroLiteral reports whether n is a numeric literal equal to zero.
func (s Site) isZeroLiteral(n m.SyntaxNode) bool {
	n = unwrapParens(n)
	if !isNumberLiteral(n) {
		return false
	}

	text := strings.ReplaceAll(s.Text(n), "_", "")
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v == 0
	}

	if v, err := strconv.ParseInt(text, 0, 64); err == nil {
		return v == 0
	}

	return false
}

// operatorText returns the operator token of a binary, unary, update or
// assignment node.
func (s Site) operatorText(n m.SyntaxNode) (m.SyntaxNode, string) {
	op := n.ChildByFieldName("operator")
	if op == nil {
		return nil, ""
	}

	return op, s.Text(op)
}

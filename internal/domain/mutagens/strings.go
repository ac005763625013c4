package mutagens

import (
	"strings"

	m "gooze.dev/pkg/polymut/internal/model"
)

const mutatedString = "mutated"

// stringLiteral empties non-empty literals and fills empty ones. Only call
// arguments and declaration initializers are considered.
func stringLiteral(site Site) []Candidate {
	n := site.Node
	if !IsStringLiteral(n.Kind()) || n.Kind() == "rune_literal" {
		return nil
	}

	if !site.stringSlot() {
		return nil
	}

	text := site.Text(n)
	if len(text) < 2 {
		return nil
	}

	quote := text[:1]
	if quote != text[len(text)-1:] {
		return nil
	}

	if len(text) == 2 {
		return []Candidate{replace(n, "empty-to-value", quote+mutatedString+quote)}
	}

	return []Candidate{replace(n, "value-to-empty", quote+quote)}
}

// stringSlot reports whether the site's node is a call argument or the value
// of a declaration.
func (s Site) stringSlot() bool {
	parent := s.Parent
	if parent == nil {
		return false
	}

	switch parent.Kind() {
	case "arguments", "argument_list":
		return !s.skippedCall(parent)
	case "variable_declarator":
		return sameSpan(parent.ChildByFieldName("value"), s.Node)
	case "expression_list":
		return s.Language == m.LanguageGo && s.goDeclarationValue(parent)
	}

	return false
}

// goDeclarationValue reports whether list holds the values of a var or
// short variable declaration.
func (s Site) goDeclarationValue(list m.SyntaxNode) bool {
	decl := s.Grandparent
	if decl == nil {
		return false
	}

	switch decl.Kind() {
	case "var_spec":
		return sameSpan(decl.ChildByFieldName("value"), list)
	case "short_var_declaration":
		return sameSpan(decl.ChildByFieldName("right"), list)
	}

	return false
}

func (s Site) callOf(args m.SyntaxNode) m.SyntaxNode {
	call := s.Grandparent
	if call == nil || call.Kind() != "call_expression" || !sameSpan(call.ChildByFieldName("arguments"), args) {
		return nil
	}

	return call
}

// skippedCall excludes format strings and module specifiers, whose mutants
// fail before any test runs.
func (s Site) skippedCall(args m.SyntaxNode) bool {
	call := s.callOf(args)
	if call == nil {
		return false
	}

	name := s.Text(call.ChildByFieldName("function"))
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}

	if name == "require" || name == "import" {
		return true
	}

	if s.Language != m.LanguageGo || !strings.HasSuffix(name, "f") {
		return false
	}

	first := namedChildren(args)

	return len(first) > 0 && sameSpan(first[0], s.Node)
}

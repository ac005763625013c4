package mutagens

import (
	"strings"

	m "gooze.dev/pkg/polymut/internal/model"
)

// nullSafety removes ?? fallbacks and ?. guards in JavaScript and TypeScript.
// In TypeScript, sites where the unguarded value cannot type check are skipped.
func nullSafety(site Site) []Candidate {
	if !site.Language.IsScript() {
		return nil
	}

	n := site.Node

	switch n.Kind() {
	case "binary_expression":
		return removeCoalesce(site)
	case "member_expression", "subscript_expression", "call_expression":
		return removeOptionalChain(site)
	}

	return nil
}

func removeCoalesce(site Site) []Candidate {
	n := site.Node

	if _, op := site.operatorText(n); op != "??" {
		return nil
	}

	left := n.ChildByFieldName("left")
	if left == nil || neverNullish(unwrapParens(left)) {
		return nil
	}

	if site.Language.IsTyped() && site.flowsIntoNonNullable() {
		return nil
	}

	return []Candidate{replace(n, "remove-coalesce", site.Text(left))}
}

// neverNullish reports expressions whose value cannot be null or undefined,
// making a ?? fallback dead code.
func neverNullish(n m.SyntaxNode) bool {
	if n == nil {
		return true
	}

	switch n.Kind() {
	case "string", "number", "template_string", "object", "array", "true", "false",
		"arrow_function", "function_expression", "function", "class", "new_expression", "regex":
		return true
	}

	return false
}

// flowsIntoNonNullable reports whether the value of the site's node ends in
// a slot typed as non-nullable: an annotated declarator, the return of an
// annotated function or a call argument.
func (s Site) flowsIntoNonNullable() bool {
	parent := s.Parent
	if parent == nil {
		return false
	}

	switch parent.Kind() {
	case "variable_declarator", "public_field_definition":
		if annotation := parent.ChildByFieldName("type"); annotation != nil {
			return !nullableType(s.Text(annotation))
		}
	case "return_statement":
		if s.Function != nil {
			if annotation := s.Function.ChildByFieldName("return_type"); annotation != nil {
				return !nullableType(s.Text(annotation))
			}
		}
	case "arguments":
		return true
	}

	return false
}

// nullableType reports whether a TypeScript type admits null or undefined.
func nullableType(annotation string) bool {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(annotation), ":"))

	for _, token := range []string{"null", "undefined", "any", "unknown", "void"} {
		if containsWord(text, token) {
			return true
		}
	}

	return false
}

func containsWord(text, word string) bool {
	for offset := 0; ; {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}

		start := offset + idx
		end := start + len(word)

		if (start == 0 || !isIdentByte(text[start-1])) && (end == len(text) || !isIdentByte(text[end])) {
			return true
		}

		offset = end
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func removeOptionalChain(site Site) []Candidate {
	n := site.Node

	chain := childOfKind(n, "optional_chain")
	if chain == nil {
		return nil
	}

	receiver := n.ChildByFieldName("object")
	if n.Kind() == "call_expression" {
		receiver = n.ChildByFieldName("function")
	}

	receiver = unwrapParens(receiver)
	if receiver == nil || receiver.Kind() == "this" || receiver.Kind() == "super" {
		return nil
	}

	if site.Language.IsTyped() && site.optionalParameter(receiver) {
		return nil
	}

	replacement := ""
	if n.Kind() == "member_expression" {
		replacement = "."
	}

	return []Candidate{replace(chain, "remove-optional-chain", replacement)}
}

// optionalParameter reports whether receiver names a parameter of the
// enclosing function that is declared optional or with a nullable type.
func (s Site) optionalParameter(receiver m.SyntaxNode) bool {
	if s.Function == nil || receiver.Kind() != "identifier" {
		return false
	}

	params := s.Function.ChildByFieldName("parameters")
	if params == nil {
		return false
	}

	name := s.Text(receiver)

	for _, param := range namedChildren(params) {
		pattern := param.ChildByFieldName("pattern")
		if pattern == nil || s.Text(pattern) != name {
			continue
		}

		if param.Kind() == "optional_parameter" {
			return true
		}

		if annotation := param.ChildByFieldName("type"); annotation != nil {
			return nullableType(s.Text(annotation))
		}
	}

	return false
}

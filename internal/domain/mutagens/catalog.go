package mutagens

import (
	m "gooze.dev/pkg/polymut/internal/model"
)

// Generate returns the candidates operator op proposes for the site. Every
// operator in m.Operators has a case; unknown values propose nothing.
func Generate(op m.Operator, site Site) []Candidate {
	//exhaustive:enforce
	switch op {
	case m.OperatorArithmetic:
		return arithmetic(site)
	case m.OperatorComparison:
		return comparison(site)
	case m.OperatorLogical:
		return logical(site)
	case m.OperatorUnary:
		return unary(site)
	case m.OperatorBoolean:
		return boolean(site)
	case m.OperatorNullSafety:
		return nullSafety(site)
	case m.OperatorControlFlow:
		return controlFlow(site)
	case m.OperatorAssignment:
		return assignment(site)
	case m.OperatorReturnValue:
		return returnValue(site)
	case m.OperatorString:
		return stringLiteral(site)
	}

	return nil
}

// Skip reports whether the node and its whole subtree are excluded from
// mutation.
func Skip(site Site) bool {
	n := site.Node

	if n.Kind() == "comment" || n.Kind() == "html_comment" {
		return true
	}

	if site.Language == m.LanguageGo {
		switch n.Kind() {
		case "package_clause", "import_declaration", "const_declaration", "type_declaration":
			return true
		}

		return false
	}

	switch n.Kind() {
	case "import_statement", "decorator":
		return true
	case "export_statement":
		return n.ChildByFieldName("declaration") == nil
	}

	if !site.Language.IsTyped() {
		return false
	}

	switch n.Kind() {
	case "type_annotation", "interface_declaration", "type_alias_declaration",
		"type_arguments", "type_parameters", "ambient_declaration":
		return true
	case "enum_declaration":
		return hasChildKind(n, "const")
	case "as_expression", "satisfies_expression":
		last := n.Child(n.ChildCount() - 1)
		return last != nil && last.Kind() == "const"
	}

	return false
}

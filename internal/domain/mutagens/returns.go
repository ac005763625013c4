package mutagens

import (
	"strings"

	m "gooze.dev/pkg/polymut/internal/model"
)

var goNumericTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"byte": true, "rune": true,
}

// returnValue replaces returned expressions with a value of the same type
// that the caller is likely to notice.
func returnValue(site Site) []Candidate {
	if site.Node.Kind() != "return_statement" {
		return nil
	}

	if site.Language == m.LanguageGo {
		return goReturn(site)
	}

	return scriptReturn(site)
}

func goReturn(site Site) []Candidate {
	if site.Function == nil {
		return nil
	}

	types := goResultTypes(site, site.Function.ChildByFieldName("result"))
	if len(types) == 0 {
		return nil
	}

	list := childOfKind(site.Node, "expression_list")
	if list == nil {
		return nil
	}

	values := namedChildren(list)
	if len(values) != len(types) {
		return nil
	}

	var candidates []Candidate

	for i, value := range values {
		if candidate, ok := goZeroish(site, value, types[i]); ok {
			candidates = append(candidates, candidate)
		}
	}

	return candidates
}

// goResultTypes expands a function result into one type name per value.
func goResultTypes(site Site, result m.SyntaxNode) []string {
	if result == nil {
		return nil
	}

	if result.Kind() != "parameter_list" {
		return []string{site.Text(result)}
	}

	var types []string

	for _, param := range namedChildren(result) {
		typeNode := param.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}

		names := 0

		for _, child := range namedChildren(param) {
			if child.Kind() == "identifier" {
				names++
			}
		}

		for range max(names, 1) {
			types = append(types, site.Text(typeNode))
		}
	}

	return types
}

func goZeroish(site Site, value m.SyntaxNode, typeName string) (Candidate, bool) {
	text := site.Text(value)

	switch {
	case typeName == "bool":
		if isBoolLiteral(unwrapParens(value)) {
			return Candidate{}, false
		}

		return replace(value, "bool-negate", "!("+text+")"), true
	case typeName == "error":
		if text == "nil" {
			return Candidate{}, false
		}

		return replace(value, "error-nil", "nil"), true
	case goNumericTypes[typeName]:
		if site.isZeroLiteral(value) {
			return Candidate{}, false
		}

		return replace(value, "numeric-zero", "0"), true
	case typeName == "string":
		if text == `""` || text == "``" {
			return Candidate{}, false
		}

		return replace(value, "string-empty", `""`), true
	}

	return Candidate{}, false
}

func scriptReturn(site Site) []Candidate {
	values := namedChildren(site.Node)
	if len(values) == 0 {
		return nil
	}

	value := values[0]
	text := site.Text(value)

	if text == "null" || text == "undefined" || value.Kind() == "null" || value.Kind() == "undefined" {
		return nil
	}

	if site.Language.IsTyped() && site.Function != nil {
		if annotation := site.Function.ChildByFieldName("return_type"); annotation != nil {
			return typedReturn(site, value, annotation)
		}
	}

	if booleanShaped(site, unwrapParens(value)) {
		if isBoolLiteral(unwrapParens(value)) {
			return nil
		}

		return []Candidate{replace(value, "bool-negate", "!("+text+")")}
	}

	return []Candidate{replace(value, "value-null", "null")}
}

func typedReturn(site Site, value, annotation m.SyntaxNode) []Candidate {
	typeText := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(site.Text(annotation)), ":"))
	text := site.Text(value)

	switch {
	case nullableType(typeText):
		return []Candidate{replace(value, "value-null", "null")}
	case typeText == "boolean":
		if isBoolLiteral(unwrapParens(value)) {
			return nil
		}

		return []Candidate{replace(value, "bool-negate", "!("+text+")")}
	case typeText == "number":
		if site.isZeroLiteral(value) {
			return nil
		}

		return []Candidate{replace(value, "numeric-zero", "0")}
	case typeText == "string":
		if text == `""` || text == "''" {
			return nil
		}

		return []Candidate{replace(value, "string-empty", `""`)}
	}

	return nil
}

// booleanShaped reports expressions that evaluate to a boolean without type
// information: comparisons, logical operators, negations and literals.
func booleanShaped(site Site, n m.SyntaxNode) bool {
	if n == nil {
		return false
	}

	switch n.Kind() {
	case "true", "false":
		return true
	case "unary_expression":
		_, op := site.operatorText(n)
		return op == "!"
	case "binary_expression":
		_, op := site.operatorText(n)
		if _, ok := comparisonReplacements[op]; ok {
			return true
		}

		return op == "&&" || op == "||" || op == "instanceof" || op == "in"
	}

	return false
}

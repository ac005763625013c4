package mutagens

import (
	m "gooze.dev/pkg/polymut/internal/model"
)

var arithmeticReplacements = map[string][]string{
	"+":  {"-", "*"},
	"-":  {"+", "*"},
	"*":  {"/", "+"},
	"/":  {"*", "-"},
	"%":  {"*", "/"},
	"**": {"*"},
}

// arithmetic swaps binary arithmetic operators. String concatenation and
// replacements that would divide by a literal zero are left alone.
func arithmetic(site Site) []Candidate {
	n := site.Node
	if n.Kind() != "binary_expression" {
		return nil
	}

	opNode, op := site.operatorText(n)

	replacements, ok := arithmeticReplacements[op]
	if !ok || (op == "**" && !site.Language.IsScript()) {
		return nil
	}

	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")

	if op == "+" && (isStringish(unwrapParens(left)) || isStringish(unwrapParens(right))) {
		return nil
	}

	return operatorSwaps(opNode, op, replacements, func(replacement string) bool {
		return (replacement == "/" || replacement == "%") && site.isZeroLiteral(right)
	})
}

// operatorSwaps builds one candidate per replacement of the operator token.
func operatorSwaps(opNode m.SyntaxNode, op string, replacements []string, reject func(string) bool) []Candidate {
	candidates := make([]Candidate, 0, len(replacements))

	for _, replacement := range replacements {
		if reject != nil && reject(replacement) {
			continue
		}

		candidates = append(candidates, replace(opNode, op+" -> "+replacement, replacement))
	}

	return candidates
}

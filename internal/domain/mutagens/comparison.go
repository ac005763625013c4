package mutagens

var comparisonReplacements = map[string][]string{
	"<":   {"<=", ">", ">="},
	"<=":  {"<", ">", ">="},
	">":   {">=", "<", "<="},
	">=":  {">", "<", "<="},
	"==":  {"!="},
	"!=":  {"=="},
	"===": {"!=="},
	"!==": {"==="},
}

// comparison swaps relational and equality operators.
func comparison(site Site) []Candidate {
	n := site.Node
	if n.Kind() != "binary_expression" {
		return nil
	}

	opNode, op := site.operatorText(n)

	replacements, ok := comparisonReplacements[op]
	if !ok {
		return nil
	}

	return operatorSwaps(opNode, op, replacements, nil)
}

// logical swaps && and ||.
func logical(site Site) []Candidate {
	n := site.Node
	if n.Kind() != "binary_expression" {
		return nil
	}

	opNode, op := site.operatorText(n)

	switch op {
	case "&&":
		return operatorSwaps(opNode, op, []string{"||"}, nil)
	case "||":
		return operatorSwaps(opNode, op, []string{"&&"}, nil)
	}

	return nil
}

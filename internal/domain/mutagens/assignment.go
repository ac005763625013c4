package mutagens

var assignmentReplacements = map[string][]string{
	"+=":  {"-="},
	"-=":  {"+="},
	"*=":  {"/="},
	"/=":  {"*="},
	"%=":  {"*="},
	"**=": {"*="},
	"??=": {"="},
}

// assignment swaps compound assignment operators.
func assignment(site Site) []Candidate {
	n := site.Node
	if n.Kind() != "assignment_statement" && n.Kind() != "augmented_assignment_expression" {
		return nil
	}

	opNode, op := site.operatorText(n)

	replacements, ok := assignmentReplacements[op]
	if !ok || ((op == "**=" || op == "??=") && !site.Language.IsScript()) {
		return nil
	}

	right := n.ChildByFieldName("right")

	// Go puts the right side of an assignment statement in an expression list.
	if right != nil && right.Kind() == "expression_list" {
		if values := namedChildren(right); len(values) == 1 {
			right = values[0]
		}
	}

	if op == "+=" && isStringish(unwrapParens(right)) {
		return nil
	}

	return operatorSwaps(opNode, op, replacements, func(replacement string) bool {
		return (replacement == "/=" || replacement == "%=") && site.isZeroLiteral(right)
	})
}

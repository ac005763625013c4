package mutagens

import (
	m "gooze.dev/pkg/polymut/internal/model"
)

// unary drops negations and flips increments.
func unary(site Site) []Candidate {
	n := site.Node

	switch n.Kind() {
	case "unary_expression":
		opNode, op := site.operatorText(n)

		switch op {
		case "!":
			return []Candidate{replace(opNode, "remove-not", "")}
		case "-":
			return []Candidate{replace(opNode, "remove-negation", "")}
		}
	case "update_expression":
		opNode, op := site.operatorText(n)
		return flipIncrement(opNode, op)
	case "inc_statement", "dec_statement":
		last := n.Child(n.ChildCount() - 1)
		if last == nil {
			return nil
		}

		return flipIncrement(last, site.Text(last))
	}

	return nil
}

func flipIncrement(opNode m.SyntaxNode, op string) []Candidate {
	if opNode == nil {
		return nil
	}

	switch op {
	case "++":
		return []Candidate{replace(opNode, "increment-to-decrement", "--")}
	case "--":
		return []Candidate{replace(opNode, "decrement-to-increment", "++")}
	}

	return nil
}

// boolean flips true and false literals.
func boolean(site Site) []Candidate {
	switch site.Node.Kind() {
	case "true":
		return []Candidate{replace(site.Node, "true -> false", "false")}
	case "false":
		return []Candidate{replace(site.Node, "false -> true", "true")}
	}

	return nil
}

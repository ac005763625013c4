package mutagens

import (
	m "gooze.dev/pkg/polymut/internal/model"
)

// controlFlow forces branch and loop conditions and drops else branches.
func controlFlow(site Site) []Candidate {
	n := site.Node

	switch n.Kind() {
	case "if_statement":
		return mutateIf(site)
	case "for_statement":
		return forceLoop(loopCondition(site))
	case "while_statement", "do_statement":
		return forceLoop(unwrapParens(n.ChildByFieldName("condition")))
	}

	return nil
}

func mutateIf(site Site) []Candidate {
	n := site.Node

	var candidates []Candidate

	// A Go initializer may declare names only the condition reads.
	initialized := site.Language == m.LanguageGo && n.ChildByFieldName("initializer") != nil

	condition := unwrapParens(n.ChildByFieldName("condition"))
	if condition != nil && !initialized && !isBoolLiteral(condition) {
		candidates = append(candidates,
			replace(condition, "if-true", "true"),
			replace(condition, "if-false", "false"),
		)
	}

	consequence := n.ChildByFieldName("consequence")
	alternative := n.ChildByFieldName("alternative")

	if consequence != nil && alternative != nil {
		candidates = append(candidates, Candidate{
			Variant: "else-removal",
			Start:   consequence.EndByte(),
			End:     alternative.EndByte(),
		})
	}

	return candidates
}

// loopCondition finds the condition of a for statement in either grammar.
func loopCondition(site Site) m.SyntaxNode {
	n := site.Node

	if site.Language != m.LanguageGo {
		condition := n.ChildByFieldName("condition")
		if condition != nil && condition.Kind() == "expression_statement" {
			children := namedChildren(condition)
			if len(children) == 0 {
				return nil
			}

			condition = children[0]
		}

		if condition != nil && condition.Kind() == "empty_statement" {
			return nil
		}

		return unwrapParens(condition)
	}

	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "block", "range_clause":
			continue
		case "for_clause":
			if unusedLoopVariables(site, child, n.ChildByFieldName("body")) {
				return nil
			}

			return unwrapParens(child.ChildByFieldName("condition"))
		default:
			return unwrapParens(child)
		}
	}

	return nil
}

// unusedLoopVariables reports a Go three-clause loop whose initializer
// declares names the body never reads. Such loops only count iterations and
// their condition mutants are rarely meaningful.
func unusedLoopVariables(site Site, clause, body m.SyntaxNode) bool {
	initializer := clause.ChildByFieldName("initializer")
	if initializer == nil || initializer.Kind() != "short_var_declaration" || body == nil {
		return false
	}

	left := initializer.ChildByFieldName("left")
	if left == nil {
		return false
	}

	declared := map[string]bool{}

	for _, name := range namedChildren(left) {
		if name.Kind() == "identifier" && site.Text(name) != "_" {
			declared[site.Text(name)] = true
		}
	}

	if len(declared) == 0 {
		return false
	}

	return !usesAny(site, body, declared)
}

func usesAny(site Site, n m.SyntaxNode, names map[string]bool) bool {
	if n.Kind() == "identifier" && names[site.Text(n)] {
		return true
	}

	for i := range n.ChildCount() {
		if child := n.Child(i); child != nil && usesAny(site, child, names) {
			return true
		}
	}

	return false
}

func forceLoop(condition m.SyntaxNode) []Candidate {
	if condition == nil || isBoolLiteral(condition) {
		return nil
	}

	return []Candidate{
		replace(condition, "loop-false", "false"),
		replace(condition, "loop-true", "true"),
	}
}

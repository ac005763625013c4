package mutagens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/polymut/internal/adapter"
	m "gooze.dev/pkg/polymut/internal/model"
)

// mutants parses src and returns the source text of every mutant op proposes,
// visiting nodes the same way discovery does.
func mutants(t *testing.T, lang m.Language, src string, op m.Operator) []string {
	t.Helper()

	tree, err := adapter.NewTreeSitterAdapter().Parse(context.Background(), lang, []byte(src))
	require.NoError(t, err)

	defer tree.Close()

	require.False(t, tree.HasError(), "fixture must parse cleanly:\n%s", src)

	var out []string

	var visit func(node, parent, grandparent, function m.SyntaxNode)

	visit = func(node, parent, grandparent, function m.SyntaxNode) {
		site := Site{
			Node:        node,
			Parent:      parent,
			Grandparent: grandparent,
			Function:    function,
			Language:    lang,
			Source:      []byte(src),
		}

		if Skip(site) {
			return
		}

		for _, candidate := range Generate(op, site) {
			out = append(out, src[:candidate.Start]+candidate.Replacement+src[candidate.End:])
		}

		if IsFunction(node.Kind()) {
			function = node
		}

		for i := range node.ChildCount() {
			visit(node.Child(i), node, parent, function)
		}
	}

	visit(tree.Root(), nil, nil, nil)

	return out
}

// goFile wraps body in a package clause.
func goFile(body string) string {
	return "package p\n\n" + body + "\n"
}

func TestGenerate_UnknownOperator(t *testing.T) {
	assert.Empty(t, mutants(t, m.LanguageGo, goFile("func f(a, b int) int { return a + b }"), m.Operator(99)))
}

func TestSkip(t *testing.T) {
	t.Run("go const and import declarations", func(t *testing.T) {
		src := goFile("import \"fmt\"\n\nconst limit = 1 + 2\n\nvar debug = fmt.Sprint(1 + 2)")

		got := mutants(t, m.LanguageGo, src, m.OperatorArithmetic)

		assert.Equal(t, []string{
			goFile("import \"fmt\"\n\nconst limit = 1 + 2\n\nvar debug = fmt.Sprint(1 - 2)"),
			goFile("import \"fmt\"\n\nconst limit = 1 + 2\n\nvar debug = fmt.Sprint(1 * 2)"),
		}, got)
	})

	t.Run("javascript const bindings are mutated", func(t *testing.T) {
		got := mutants(t, m.LanguageJavaScript, "const total = a + b;\n", m.OperatorArithmetic)
		assert.Equal(t, []string{"const total = a - b;\n", "const total = a * b;\n"}, got)
	})

	t.Run("imports and re-exports", func(t *testing.T) {
		src := "import x from \"y\";\nexport { x };\nexport default a + b;\n"
		assert.Empty(t, mutants(t, m.LanguageJavaScript, src, m.OperatorArithmetic))
		assert.Empty(t, mutants(t, m.LanguageJavaScript, src, m.OperatorString))
	})

	t.Run("exported declarations are mutated", func(t *testing.T) {
		got := mutants(t, m.LanguageJavaScript, "export const x = a + b;\n", m.OperatorArithmetic)
		assert.Len(t, got, 2)
	})

	t.Run("typescript type level constructs", func(t *testing.T) {
		src := "const enum Size { Big = 1 + 2 }\nconst xs = [1 + 2] as const;\n"
		assert.Empty(t, mutants(t, m.LanguageTypeScript, src, m.OperatorArithmetic))
	})

	t.Run("typescript plain enums are mutated", func(t *testing.T) {
		got := mutants(t, m.LanguageTypeScript, "enum Size { Big = 1 + 2 }\n", m.OperatorArithmetic)
		assert.Equal(t, []string{"enum Size { Big = 1 - 2 }\n", "enum Size { Big = 1 * 2 }\n"}, got)
	})

	t.Run("comments", func(t *testing.T) {
		src := goFile("// a + b\nfunc f() {}")
		assert.Empty(t, mutants(t, m.LanguageGo, src, m.OperatorArithmetic))
	})
}

func TestIsStringLiteral(t *testing.T) {
	assert.True(t, IsStringLiteral("interpreted_string_literal"))
	assert.True(t, IsStringLiteral("string"))
	assert.False(t, IsStringLiteral("template_string"))
	assert.False(t, IsStringLiteral("identifier"))
}

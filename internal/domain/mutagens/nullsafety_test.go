package mutagens

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "gooze.dev/pkg/polymut/internal/model"
)

func TestNullSafety(t *testing.T) {
	t.Run("coalesce", func(t *testing.T) {
		got := mutants(t, m.LanguageJavaScript, "const v = a ?? b;\n", m.OperatorNullSafety)
		assert.Equal(t, []string{"const v = a;\n"}, got)
	})

	t.Run("coalesce with a literal left side", func(t *testing.T) {
		assert.Empty(t, mutants(t, m.LanguageJavaScript, "const v = \"x\" ?? b;\n", m.OperatorNullSafety))
		assert.Empty(t, mutants(t, m.LanguageJavaScript, "const v = {} ?? b;\n", m.OperatorNullSafety))
	})

	t.Run("optional chains", func(t *testing.T) {
		got := mutants(t, m.LanguageJavaScript, "a?.b;\nc?.[0];\nf?.();\n", m.OperatorNullSafety)
		assert.Equal(t, []string{
			"a.b;\nc?.[0];\nf?.();\n",
			"a?.b;\nc[0];\nf?.();\n",
			"a?.b;\nc?.[0];\nf();\n",
		}, got)
	})

	t.Run("this receivers", func(t *testing.T) {
		assert.Empty(t, mutants(t, m.LanguageJavaScript, "this?.x;\n", m.OperatorNullSafety))
	})

	t.Run("typescript non-nullable declarator", func(t *testing.T) {
		assert.Empty(t, mutants(t, m.LanguageTypeScript, "const v: string = a ?? \"d\";\n", m.OperatorNullSafety))
	})

	t.Run("typescript nullable declarator", func(t *testing.T) {
		got := mutants(t, m.LanguageTypeScript, "const v: string | null = a ?? null;\n", m.OperatorNullSafety)
		assert.Equal(t, []string{"const v: string | null = a;\n"}, got)
	})

	t.Run("typescript call argument", func(t *testing.T) {
		assert.Empty(t, mutants(t, m.LanguageTypeScript, "use(a ?? b);\n", m.OperatorNullSafety))
	})

	t.Run("typescript optional parameter receiver", func(t *testing.T) {
		src := "function f(a?: Item) { a?.run(); }\n"
		assert.Empty(t, mutants(t, m.LanguageTypeScript, src, m.OperatorNullSafety))
	})

	t.Run("go has no null safety operators", func(t *testing.T) {
		assert.Empty(t, mutants(t, m.LanguageGo, goFile("func f(a, b int) int { return a + b }"), m.OperatorNullSafety))
	})
}

func TestNullableType(t *testing.T) {
	assert.True(t, nullableType(": string | null"))
	assert.True(t, nullableType("Item | undefined"))
	assert.True(t, nullableType("any"))
	assert.False(t, nullableType(": string"))
	assert.False(t, nullableType("Nullable"))
}

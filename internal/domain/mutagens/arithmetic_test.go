package mutagens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	m "gooze.dev/pkg/polymut/internal/model"
)

func TestArithmetic(t *testing.T) {
	t.Run("go addition", func(t *testing.T) {
		src := goFile("func add(a, b int) int { return a + b }")

		got := mutants(t, m.LanguageGo, src, m.OperatorArithmetic)

		assert.Equal(t, []string{
			strings.Replace(src, "a + b", "a - b", 1),
			strings.Replace(src, "a + b", "a * b", 1),
		}, got)
	})

	t.Run("string concatenation is skipped", func(t *testing.T) {
		src := goFile("func greet(n string) string { return \"hi \" + n }")
		assert.Empty(t, mutants(t, m.LanguageGo, src, m.OperatorArithmetic))

		assert.Empty(t, mutants(t, m.LanguageJavaScript, "const s = `a` + b;\n", m.OperatorArithmetic))
	})

	t.Run("division by literal zero is skipped", func(t *testing.T) {
		src := goFile("func f(a int) int { return a * 0 }")

		got := mutants(t, m.LanguageGo, src, m.OperatorArithmetic)

		assert.Equal(t, []string{strings.Replace(src, "a * 0", "a + 0", 1)}, got)
	})

	t.Run("modulo", func(t *testing.T) {
		got := mutants(t, m.LanguageJavaScript, "x = a % b;\n", m.OperatorArithmetic)
		assert.Equal(t, []string{"x = a * b;\n", "x = a / b;\n"}, got)
	})

	t.Run("javascript exponent", func(t *testing.T) {
		got := mutants(t, m.LanguageJavaScript, "const p = a ** b;\n", m.OperatorArithmetic)
		assert.Equal(t, []string{"const p = a * b;\n"}, got)
	})

	t.Run("other binary operators are ignored", func(t *testing.T) {
		assert.Empty(t, mutants(t, m.LanguageGo, goFile("func f(a, b int) bool { return a < b }"), m.OperatorArithmetic))
	})
}

func TestComparison(t *testing.T) {
	t.Run("go less than", func(t *testing.T) {
		src := goFile("func lt(a, b int) bool { return a < b }")

		got := mutants(t, m.LanguageGo, src, m.OperatorComparison)

		assert.Equal(t, []string{
			strings.Replace(src, "a < b", "a <= b", 1),
			strings.Replace(src, "a < b", "a > b", 1),
			strings.Replace(src, "a < b", "a >= b", 1),
		}, got)
	})

	t.Run("javascript strict equality", func(t *testing.T) {
		got := mutants(t, m.LanguageJavaScript, "if (a === b) { f(); }\n", m.OperatorComparison)
		assert.Equal(t, []string{"if (a !== b) { f(); }\n"}, got)
	})

	t.Run("equality", func(t *testing.T) {
		src := goFile("func eq(a, b int) bool { return a != b }")

		got := mutants(t, m.LanguageGo, src, m.OperatorComparison)

		assert.Equal(t, []string{strings.Replace(src, "a != b", "a == b", 1)}, got)
	})
}

func TestLogical(t *testing.T) {
	src := goFile("func both(a, b bool) bool { return a && b }")

	got := mutants(t, m.LanguageGo, src, m.OperatorLogical)

	assert.Equal(t, []string{strings.Replace(src, "a && b", "a || b", 1)}, got)

	got = mutants(t, m.LanguageJavaScript, "const ok = a || b;\n", m.OperatorLogical)
	assert.Equal(t, []string{"const ok = a && b;\n"}, got)

	assert.Empty(t, mutants(t, m.LanguageJavaScript, "const v = a ?? b;\n", m.OperatorLogical))
}

package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"**/calc.go", "a/b/calc.go", true},
		{"**/calc.go", "calc.go", true},
		{"lib/*.go", "lib/math.go", true},
		{"lib/*.go", "lib/sub/math.go", false},
		{"src/**/*.ts", "src/app/deep/cart.ts", true},
		{"src/calc.ts", "src/calc.ts", true},
		{"src/calc.ts", "src/other.ts", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			got, err := MatchGlob(tt.pattern, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

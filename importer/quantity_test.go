package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in    string
		want  float64
		found bool
	}{
		{"100g", 100, true},
		{"2 unidades", 2, true},
		{"1,5 colheres de sopa", 1.5, true},
		{"150 ml", 150, true},
		{"meia porção", 0, false},
		{"", 0, false},
		{"3x de 30g", 3, true}, // first numeric token wins
	}
	for _, tc := range cases {
		got, ok := ParseQuantity(tc.in)
		assert.Equal(t, tc.found, ok, "input %q", tc.in)
		if tc.found {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestQuantityOrDefault(t *testing.T) {
	assert.Equal(t, 100.0, QuantityOrDefault("a gosto"))
	assert.Equal(t, 2.0, QuantityOrDefault("2 unidades"))
}

package stock

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	valid := map[string]Quantity{
		"1":      1,
		" 42 ":   42,
		"+7":     7,
		"007":    7,
		"100000": 100000,
	}
	for in, want := range valid {
		got, err := ParseQuantity(in)
		require.NoError(t, err, "ParseQuantity(%q)", in)
		assert.Equal(t, want, got, "ParseQuantity(%q)", in)
	}

	for _, in := range []string{"", "0", "-3", "1.5", "abc", "1e3", "99999999999999999999"} {
		_, err := ParseQuantity(in)
		assert.ErrorIs(t, err, ErrInvalidQuantity, "ParseQuantity(%q)", in)
	}
}

func TestCoerceQuantity(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want Quantity
	}{
		{"integer number", json.Number("42"), 42},
		{"decimal number truncates", json.Number("42.9"), 42},
		{"exponent number", json.Number("1e3"), 1000},
		{"negative number", json.Number("-5"), 0},
		{"small negative truncates to zero", json.Number("-0.5"), 0},
		{"huge number", json.Number("1e30"), 0},
		{"float", 12.7, 12},
		{"NaN", math.NaN(), 0},
		{"integer string", "17", 17},
		{"padded string", "  17 ", 17},
		{"decimal string", "4.5", 0},
		{"garbage string", "not-a-number", 0},
		{"negative string", "-4", 0},
		{"true", true, 1},
		{"false", false, 0},
		{"null", nil, 0},
		{"array", []any{json.Number("1")}, 0},
		{"object", map[string]any{"q": json.Number("1")}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, coerceQuantity(tc.in))
		})
	}
}

func TestQuantity_String(t *testing.T) {
	assert.Equal(t, "42", Quantity(42).String())
}

package records

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce_Bool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"t", true},
		{"y", true},
		{"YES", true},
		{"True", true},
		{"no", false},
		{"false", false},
		{"0", false},
		{"anything", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(true, tt.raw))
		})
	}
}

func TestCoerce_Int(t *testing.T) {
	assert.Equal(t, int64(12), Coerce(7, "12"))
	assert.Equal(t, int64(-3), Coerce(int64(0), "-3"))

	// Bad numeric input degrades to the raw string, never errors.
	assert.Equal(t, "abc", Coerce(7, "abc"))
	assert.Equal(t, "12.5", Coerce(7, "12.5"))
}

func TestCoerce_Float(t *testing.T) {
	assert.Equal(t, 12.5, Coerce(1.0, "12.5"))
	assert.Equal(t, float64(12), Coerce(1.0, "12"))
	assert.Equal(t, "twelve", Coerce(1.0, "twelve"))
}

func TestCoerce_JSONNumber(t *testing.T) {
	// Integer-shaped numbers coerce to int64, decimal-shaped to float64.
	assert.Equal(t, int64(12), Coerce(json.Number("7"), "12"))
	assert.Equal(t, 12.5, Coerce(json.Number("7.25"), "12.5"))
	assert.Equal(t, 2500.0, Coerce(json.Number("1e3"), "2500"))
	assert.Equal(t, "abc", Coerce(json.Number("7"), "abc"))
}

func TestCoerce_String(t *testing.T) {
	assert.Equal(t, "555-1234", Coerce("555-0000", "555-1234"))
	assert.Equal(t, "hello", Coerce(nil, "hello"))
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{"float64", float64(1.5), 1.5, true},
		{"float32", float32(2), 2, true},
		{"int", int(3), 3, true},
		{"int64", int64(4), 4, true},
		{"uint32", uint32(5), 5, true},
		{"json number", json.Number("6.5"), 6.5, true},
		{"string", "7", 0, false},
		{"nil", nil, 0, false},
		{"bad json number", json.Number("x"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInteger(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, ParseInteger("TEST_INT", 7))

	t.Setenv("TEST_INT", "not-a-number")
	assert.Equal(t, 7, ParseInteger("TEST_INT", 7))

	assert.Equal(t, 7, ParseInteger("TEST_INT_UNSET", 7))
}

func TestParseFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "0.3")
	assert.Equal(t, 0.3, ParseFloat("TEST_FLOAT", 1.0))

	t.Setenv("TEST_FLOAT", "oops")
	assert.Equal(t, 1.0, ParseFloat("TEST_FLOAT", 1.0))

	assert.Equal(t, 1.0, ParseFloat("TEST_FLOAT_UNSET", 1.0))
}

func TestParseBoolean(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		expected     bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"garbage", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			assert.Equal(t, tt.expected, ParseBoolean("TEST_BOOL", tt.defaultValue))
		})
	}
}

func TestParseString(t *testing.T) {
	t.Setenv("TEST_STR", "  value  ")
	assert.Equal(t, "value", ParseString("TEST_STR", "default"))

	t.Setenv("TEST_STR", "   ")
	assert.Equal(t, "default", ParseString("TEST_STR", "default"))

	assert.Equal(t, "default", ParseString("TEST_STR_UNSET", "default"))
}

func TestParseArray(t *testing.T) {
	t.Setenv("TEST_ARR", "a, b ,c")
	assert.Equal(t, []string{"a", "b", "c"}, ParseArray("TEST_ARR", nil))

	t.Setenv("TEST_ARR", " , ,")
	assert.Equal(t, []string{"fallback"}, ParseArray("TEST_ARR", []string{"fallback"}))

	assert.Equal(t, []string{"fallback"}, ParseArray("TEST_ARR_UNSET", []string{"fallback"}))
}

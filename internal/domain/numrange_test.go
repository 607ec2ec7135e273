package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseNumRange(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedMin string
		expectedMax string
		expectError bool
	}{
		{
			name:        "Bounded range",
			input:       "[1,50)",
			expectedMin: "1",
			expectedMax: "50",
		},
		{
			name:        "Unbounded upper",
			input:       "[100,)",
			expectedMin: "100",
		},
		{
			name:        "Unbounded lower",
			input:       "[,10)",
			expectedMax: "10",
		},
		{
			name:        "Decimal bounds with spaces",
			input:       "[ 0.5 , 2.25 )",
			expectedMin: "0.5",
			expectedMax: "2.25",
		},
		{
			name:        "Missing brackets",
			input:       "1,50",
			expectError: true,
		},
		{
			name:        "Closed upper bound not supported",
			input:       "[1,50]",
			expectError: true,
		},
		{
			name:        "No comma",
			input:       "[150)",
			expectError: true,
		},
		{
			name:        "Garbage lower bound",
			input:       "[abc,50)",
			expectError: true,
		},
		{
			name:        "Garbage upper bound",
			input:       "[1,xyz)",
			expectError: true,
		},
		{
			name:        "Empty range",
			input:       "[50,50)",
			expectError: true,
		},
		{
			name:        "Inverted range",
			input:       "[50,10)",
			expectError: true,
		},
		{
			name:        "Empty string",
			input:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseNumRange(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedRange)
				return
			}
			assert.NoError(t, err)
			if tt.expectedMin == "" {
				assert.Nil(t, r.Min)
			} else {
				assert.Equal(t, tt.expectedMin, r.Min.String())
			}
			if tt.expectedMax == "" {
				assert.Nil(t, r.Max)
			} else {
				assert.Equal(t, tt.expectedMax, r.Max.String())
			}
		})
	}
}

func TestNumRangeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Bounded", input: "[1,50)", expected: "[1,50)"},
		{name: "Unbounded upper", input: "[100,)", expected: "[100,)"},
		{name: "Unbounded lower", input: "[,10)", expected: "[,10)"},
		{name: "Normalizes spaces", input: "[ 1 , 50 )", expected: "[1,50)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseNumRange(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, r.String())
		})
	}
}

func TestNumRangeContains(t *testing.T) {
	r, err := ParseNumRange("[10,50)")
	assert.NoError(t, err)

	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "Below lower bound", value: "9.99", expected: false},
		{name: "Lower bound is inclusive", value: "10", expected: true},
		{name: "Inside", value: "30", expected: true},
		{name: "Upper bound is exclusive", value: "50", expected: false},
		{name: "Above upper bound", value: "100", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := decimal.NewFromString(tt.value)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, r.Contains(v))
		})
	}

	unbounded, err := ParseNumRange("[100,)")
	assert.NoError(t, err)
	assert.True(t, unbounded.Contains(decimal.NewFromInt(1000000)))
	assert.False(t, unbounded.Contains(decimal.NewFromInt(99)))
}

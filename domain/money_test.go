package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	tests := map[string]string{
		"12505":        "$12,505.00",
		"6.25":         "$6.25",
		"3.125":        "$3.13",
		"1232.5":       "$1,232.50",
		"0":            "$0.00",
		"0.1":          "$0.10",
		"935":          "$935.00",
		"999999999999": "$999,999,999,999.00",
		// float64 holds this as 1.00499999...; decimal keeps the half cent
		"1.005": "$1.01",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatUSD(decimal.RequireFromString(in)), in)
	}
}

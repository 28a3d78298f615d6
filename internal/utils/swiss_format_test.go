package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSwissAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"5", "5.00"},
		{"999", "999.00"},
		{"1000", "1'000.00"},
		{"1234567.5", "1'234'567.50"},
		{"-1234.5", "-1'234.50"},
		{"100.999", "101.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := FormatSwissAmount(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSwissAmountRoundTrip(t *testing.T) {
	for _, in := range []string{"0", "1000", "1234567.5", "-1234.5"} {
		amount := decimal.RequireFromString(in)
		parsed, err := ParseSwissAmount(FormatSwissAmount(amount))
		require.NoError(t, err)
		assert.True(t, amount.Equal(parsed), "round trip for %s, got %s", in, parsed)
	}
}

func TestFormatSwissDate(t *testing.T) {
	assert.Equal(t, "05.03.2025", FormatSwissDate(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))
}

package pgsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPageLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"positive passes through", 25, 25},
		{"zero falls back to the default", 0, defaultPageLimit},
		{"negative falls back to the default", -1, defaultPageLimit},
		{"one is the smallest valid page", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clampPageLimit(tt.limit))
		})
	}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalTicker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"aapl", "AAPL"},
		{"  MSFT ", "MSFT"},
		{"brk-b", "BRK-B"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalTicker(tt.in))
	}
}

func TestNormalizeClassShares(t *testing.T) {
	assert.Equal(t, "BRK-B", NormalizeClassShares("BRK.B"))
	assert.Equal(t, "BF-B", NormalizeClassShares("BF.B"))
	assert.Equal(t, "AAPL", NormalizeClassShares("AAPL"))
}

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClip(t *testing.T) {
	assert.Equal(t, "short", Clip("short", 60))
	assert.Equal(t, "abc", Clip("abcdef", 3))
	assert.Equal(t, "日本", Clip("日本語", 2))
}

func TestEllipsize(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"fits exactly", 12, "fits exactly"},
		{"Renew the passport before the trip to Lisbon in March", 20, "Renew the passpor..."},
		{"abcdef", 3, "abc"},
		{"ünïcödé strings", 10, "ünïcödé..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Ellipsize(tt.in, tt.n), tt.in)
	}
}

package util

import (
	"strings"
	"testing"
)

func TestGenerateRandomHex(t *testing.T) {
	s := GenerateRandomHex(16)
	if len(s) != 16 {
		t.Fatalf("expected length 16, got %d", len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Errorf("unexpected character %q", c)
		}
	}
	if GenerateRandomHex(0) != "" {
		t.Error("zero length should produce empty string")
	}
}

package appointment

import (
	"strings"
	"testing"
	"time"
)

func TestNewProtocol_Format(t *testing.T) {
	now := time.Date(2026, 10, 18, 14, 32, 0, 0, time.UTC)
	p := NewProtocol(now)

	if !strings.HasPrefix(p, "261018-1432-") {
		t.Fatalf("unexpected prefix: %s", p)
	}
	suffix := strings.TrimPrefix(p, "261018-1432-")
	if len(suffix) != 4 {
		t.Fatalf("expected 4 random characters, got %q", suffix)
	}
	for _, r := range suffix {
		if !strings.ContainsRune(protocolAlphabet, r) {
			t.Errorf("character %q outside alphabet", r)
		}
	}
}

func TestNewProtocol_Varies(t *testing.T) {
	now := time.Date(2026, 10, 18, 14, 32, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[NewProtocol(now)] = true
	}
	if len(seen) < 40 {
		t.Errorf("expected mostly distinct protocols for the same minute, got %d/50", len(seen))
	}
}

func TestNormalizeProtocol(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"261018-1432-7KQ2", "261018-1432-7KQ2"},
		{" 261018-1432-7kq2 ", "261018-1432-7KQ2"},
		{"\t261018-1432-abcd\n", "261018-1432-ABCD"},
	}
	for _, tt := range tests {
		if got := NormalizeProtocol(tt.in); got != tt.want {
			t.Errorf("NormalizeProtocol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

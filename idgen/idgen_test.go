package idgen

import (
	"strings"
	"testing"
)

func TestUUIDv7Unique(t *testing.T) {
	gen := UUIDv7()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("iss_", UUIDv7())
	id := gen()
	if !strings.HasPrefix(id, "iss_") {
		t.Errorf("id %q missing prefix", id)
	}
	if len(id) <= len("iss_") {
		t.Errorf("id %q has no body", id)
	}
}

func TestNanoIDLength(t *testing.T) {
	gen := NanoID(12)
	for i := 0; i < 100; i++ {
		id := gen()
		if len(id) != 12 {
			t.Fatalf("length: got %d, want 12", len(id))
		}
		for _, r := range id {
			if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
				t.Fatalf("unexpected rune %q in %q", r, id)
			}
		}
	}
}

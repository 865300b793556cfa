package game

import (
	"strings"
	"testing"
)

func TestNewRoomCodeShape(t *testing.T) {
	code := newRoomCode(func(string) bool { return false })
	if len(code) != codeLen {
		t.Fatalf("expected %d-char code, got %q", codeLen, code)
	}
	for _, c := range code {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Errorf("code %q contains %q outside the alphabet", code, c)
		}
	}
}

func TestNewRoomCodeAvoidsCollisions(t *testing.T) {
	taken := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := newRoomCode(func(c string) bool { return taken[c] })
		if taken[code] {
			t.Fatalf("generated duplicate code %q", code)
		}
		taken[code] = true
	}
}

func TestNewRoomCodeFallback(t *testing.T) {
	// Every candidate collides; the time-derived fallback must still
	// produce a code of the right length.
	code := newRoomCode(func(string) bool { return true })
	if len(code) != codeLen {
		t.Fatalf("fallback code %q has wrong length", code)
	}
}

func TestNormalizeRoomCode(t *testing.T) {
	if got := normalizeRoomCode(" ab12cd \n"); got != "AB12CD" {
		t.Errorf("expected AB12CD, got %q", got)
	}
}

package utils

import (
	"strings"
	"testing"
)

func TestGenerateAccessCode(t *testing.T) {
	code := GenerateAccessCode(8)
	if len(code) != 8 {
		t.Fatalf("len = %d, want 8", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(accessCodeChars, r) {
			t.Errorf("code contains %q, outside alphabet", r)
		}
	}

	// Ambiguous characters never appear.
	for _, banned := range "01OI" {
		if strings.ContainsRune(accessCodeChars, banned) {
			t.Errorf("alphabet contains ambiguous character %q", banned)
		}
	}
}

func TestGenerateAccessCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateAccessCode(8)] = true
	}
	if len(seen) < 50 {
		t.Errorf("collisions within 50 codes: %d unique", len(seen))
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a := GenerateSecureToken()
	b := GenerateSecureToken()
	if a == b {
		t.Error("tokens not unique")
	}
	if len(a) < 40 {
		t.Errorf("token too short: %d chars", len(a))
	}
}

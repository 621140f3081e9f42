package util

import "testing"

func TestGenerateAccessCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateAccessCode()
		if err != nil {
			t.Fatalf("GenerateAccessCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, ch := range code {
			if ch < '0' || ch > '9' {
				t.Fatalf("non-digit character in %q", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected varied codes, got %d distinct", len(seen))
	}
}

func TestHashAccessCode(t *testing.T) {
	got := HashAccessCode("123456")
	if got != HashAccessCode("123456") {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if got == HashAccessCode("654321") {
		t.Fatalf("distinct codes hashed to the same digest")
	}
}

func TestAccessCodeHint(t *testing.T) {
	if hint := AccessCodeHint("123456"); hint != "56" {
		t.Fatalf("hint = %q, want 56", hint)
	}
	if hint := AccessCodeHint("7"); hint != "7" {
		t.Fatalf("hint = %q, want 7", hint)
	}
}

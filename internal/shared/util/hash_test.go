package util

import "testing"

func TestFingerprint(t *testing.T) {
	text := "Jane Doe, Go developer"
	got := Fingerprint(text)
	if got != Fingerprint(text) {
		t.Fatalf("expected stable fingerprint, got %s", got)
	}
	if got == Fingerprint(text+".") {
		t.Fatal("expected different inputs to differ")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("fingerprint contains non-hex character: %c", ch)
		}
	}
	if len(got) != 12 {
		t.Fatalf("expected 12 hex characters, got %d", len(got))
	}
}

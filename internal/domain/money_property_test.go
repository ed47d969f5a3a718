package domain

import (
	"testing"

	"pgregory.net/rapid"
)

// Property: every non-negative paise amount survives the
// AmountKey/ParseAmountKey round trip unchanged.
func TestProperty_AmountKeyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paise := rapid.Int64Range(0, 10_000_000_00).Draw(t, "paise")
		key := AmountKey(paise)

		back, err := ParseAmountKey(key)
		if err != nil {
			t.Fatalf("ParseAmountKey(%q) failed: %v", key, err)
		}
		if back != paise {
			t.Fatalf("round trip mismatch: %d -> %q -> %d", paise, key, back)
		}
	})
}

// Property: whole-rupee amounts produce keys with no fraction, fractional
// amounts produce exactly two fraction digits.
func TestProperty_AmountKeyShape(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paise := rapid.Int64Range(0, 10_000_000_00).Draw(t, "paise")
		key := AmountKey(paise)

		if paise%100 == 0 {
			for _, c := range key {
				if c == '.' {
					t.Fatalf("whole amount %d produced fractional key %q", paise, key)
				}
			}
			return
		}
		if len(key) < 4 || key[len(key)-3] != '.' {
			t.Fatalf("fractional amount %d produced key %q without 2-digit fraction", paise, key)
		}
	})
}

package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RupeesToPaise converts a float64 rupee amount to int64 paise.
// It validates that the input has at most 2 decimal places and returns
// an error if more precision is provided. Uses math.Round after
// multiplying by 100 to handle floating-point representation issues.
func RupeesToPaise(f float64) (int64, error) {
	// Multiply by 1000 to check for a third decimal place.
	// Round to avoid floating-point artifacts (e.g., 1.10 * 1000 = 1099.9999...).
	scaled := math.Round(f * 1000)
	if math.Mod(scaled, 10) != 0 {
		return 0, fmt.Errorf("monetary values must have at most 2 decimal places")
	}

	paise := math.Round(f * 100)
	return int64(paise), nil
}

// PaiseToRupees converts an int64 paise value to a float64 rupee amount.
func PaiseToRupees(p int64) float64 {
	return float64(p) / 100.0
}

// AmountKey returns the canonical string form of a paise amount used as
// the correlation/lock key: the integer rupee string when the amount is
// whole ("47"), otherwise the two-decimal form ("47.01"). The key is the
// only signal available to correlate a parsed notification to a session,
// so both sides of the pipeline must produce the identical string.
func AmountKey(paise int64) string {
	if paise%100 == 0 {
		return strconv.FormatInt(paise/100, 10)
	}
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}

// ParseAmountKey parses a canonical amount key back into paise.
func ParseAmountKey(key string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(key, ".")
	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || rupees < 0 {
		return 0, fmt.Errorf("invalid amount key %q", key)
	}
	if !hasFrac {
		return rupees * 100, nil
	}
	if len(frac) != 2 {
		return 0, fmt.Errorf("invalid amount key %q: fraction must be 2 digits", key)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount key %q", key)
	}
	return rupees*100 + cents, nil
}

// DisplayAmount formats a paise amount for payment instructions: whole
// rupees without a fraction ("47"), otherwise two decimals ("47.01").
func DisplayAmount(paise int64) string {
	return AmountKey(paise)
}

package engine

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// gateKeywords is the cheap pre-filter applied before any parsing: a
// notification must mention a known payment provider or receipt phrase.
// Everything else on the channel is ignored without touching the regexes.
var gateKeywords = []string{
	"phonepe business", "phonepe", "gpay", "google pay", "slice", "bharatpe",
	"money received", "payment received", "upi payment received",
	"received rs", "received ₹", "rupees", "paid you ₹", "credited",
}

// Parser patterns, tried in priority order. The first match wins.
var (
	// Currency before amount: "You've received ₹800", "Money received Rs. 47",
	// "credited by ₹500".
	currencyBeforeAmountRe = regexp.MustCompile(
		`(?is)(?:you['’]ve\s*received\s*(?:rs\.?|rupees|₹)|money\s*received|payment\s*received|upi\s*payment\s*received|credited(?:\s*by)?\s*(?:rs\.?|rupees|₹)?|received\s*(?:rs\.?|rupees|₹)|paid\s*you\s*₹)\s*[.:₹\s]*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

	// Amount before currency: "Received 800.00 Rupees From X" (BharatPe style).
	amountBeforeCurrencyRe = regexp.MustCompile(
		`(?is)(?:received|credited)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s*(?:rupees|rs\.?|₹)\b`)

	// Provider-specific safety net: "paid you ₹500.00", tolerating stray
	// whitespace some clients insert.
	paidYouRe = regexp.MustCompile(
		`(?is)paid\s*you\s*[₹\s]*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
)

// stripMarks removes Unicode combining marks so stylized digit sequences
// collapse to their base characters before pattern matching.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NotificationParser extracts payment amounts from forwarded free-text
// payment notifications.
type NotificationParser struct{}

// NewNotificationParser creates a NotificationParser.
func NewNotificationParser() *NotificationParser {
	return &NotificationParser{}
}

// Gate reports whether raw text looks like a payment notification at all.
// Case-insensitive substring check against the provider/receipt keywords.
func (p *NotificationParser) Gate(text string) bool {
	low := strings.ToLower(text)
	for _, k := range gateKeywords {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}

// Normalize strips combining marks and maps every Unicode decimal digit
// to its ASCII equivalent, so numerals from different locales and apps
// parse under the same patterns.
func (p *NotificationParser) Normalize(text string) string {
	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if v, ok := digitValue(r); ok {
			b.WriteByte(byte('0' + v))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// digitValue returns the numeric value of any Unicode decimal digit.
// Every Nd table range starts at a zero digit, but a single range can
// span several decades (the mathematical digit styles share one 50-rune
// range), so the value is the offset from the range start modulo ten.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.Is(unicode.Nd, r) {
		return 0, false
	}
	u := uint32(r)
	for _, rng := range unicode.Nd.R16 {
		if u >= uint32(rng.Lo) && u <= uint32(rng.Hi) {
			return int((u - uint32(rng.Lo)) / uint32(rng.Stride) % 10), true
		}
	}
	for _, rng := range unicode.Nd.R32 {
		if u >= rng.Lo && u <= rng.Hi {
			return int((u - rng.Lo) / rng.Stride % 10), true
		}
	}
	return 0, false
}

// ExtractAmount normalizes and parses text, returning the extracted
// amount in paise. ok is false when no pattern matches (a parse miss, not
// an error).
func (p *NotificationParser) ExtractAmount(text string) (int64, bool) {
	normText := p.Normalize(text)
	for _, re := range []*regexp.Regexp{currencyBeforeAmountRe, amountBeforeCurrencyRe, paidYouRe} {
		m := re.FindStringSubmatch(normText)
		if m == nil {
			continue
		}
		if paise, err := parseDecimalPaise(m[1]); err == nil {
			return paise, true
		}
	}
	return 0, false
}

// parseDecimalPaise converts a matched decimal string (thousands
// separators allowed, at most 2 fraction digits) to paise without going
// through floating point.
func parseDecimalPaise(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	whole, frac, hasFrac := strings.Cut(s, ".")
	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	if !hasFrac {
		return rupees * 100, nil
	}
	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, err
	}
	return rupees*100 + cents, nil
}

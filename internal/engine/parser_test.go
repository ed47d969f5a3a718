package engine

import "testing"

func TestNotificationParser_Gate(t *testing.T) {
	p := NewNotificationParser()

	tests := []struct {
		name string
		text string
		pass bool
	}{
		{"phonepe", "PhonePe Business: payment alert", true},
		{"gpay", "GPay: Ramesh paid you ₹500.00", true},
		{"generic receipt", "Money received Rs. 47", true},
		{"rupee sign", "You've received ₹800", true},
		{"credited", "A/c credited by ₹500", true},
		{"case insensitive", "UPI PAYMENT RECEIVED", true},
		{"chatter", "hey is this channel alive?", false},
		{"unrelated number", "order 800 shipped", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Gate(tt.text); got != tt.pass {
				t.Errorf("Gate(%q) = %v, want %v", tt.text, got, tt.pass)
			}
		})
	}
}

func TestNotificationParser_ExtractAmount(t *testing.T) {
	p := NewNotificationParser()

	tests := []struct {
		name  string
		text  string
		paise int64
		ok    bool
	}{
		{"currency before amount", "You've received ₹800", 80000, true},
		{"currency before with decimals", "You've received ₹800.50", 80050, true},
		{"money received", "Money received Rs. 47", 4700, true},
		{"payment received", "Payment received: ₹1,200.00", 120000, true},
		{"upi payment received", "UPI payment received ₹ 46.53", 4653, true},
		{"amount before currency", "Received 800.00 Rupees From Ramesh", 80000, true},
		{"amount before currency rs", "Credited 500 Rs to your account", 50000, true},
		{"paid you", "Ramesh Kumar paid you ₹500.00", 50000, true},
		{"paid you stray spaces", "Ramesh paid you ₹  500", 50000, true},
		{"credited by", "A/c XX1234 credited by ₹46.53 on 30-Aug", 4653, true},
		{"thousands separator", "You've received ₹1,00,000", 10000000, true},
		{"single fraction digit", "Money received Rs. 47.5", 4750, true},
		{"curly apostrophe", "You’ve received ₹99", 9900, true},
		{"multiline", "PhonePe Business\nMoney received\nRs. 47", 4700, true},
		{"no amount", "Payment received, check the app", 0, false},
		{"no pattern", "hello world 800", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paise, ok := p.ExtractAmount(tt.text)
			if ok != tt.ok {
				t.Fatalf("ExtractAmount(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if ok && paise != tt.paise {
				t.Errorf("ExtractAmount(%q) = %d paise, want %d", tt.text, paise, tt.paise)
			}
		})
	}
}

func TestNotificationParser_Normalize(t *testing.T) {
	p := NewNotificationParser()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii untouched", "Rs. 800.00", "Rs. 800.00"},
		{"devanagari digits", "₹८००", "₹800"},
		{"arabic-indic digits", "٨٠٠ rupees", "800 rupees"},
		{"bengali digits", "৪৭", "47"},
		{"mixed scripts", "Rs ८0०", "Rs 800"},
		// The mathematical digit styles share one Nd table range, so
		// decades past the first must still map to their own values.
		{"double-struck digits", "𝟠𝟘𝟘", "800"},
		{"bold digits", "𝟖𝟎𝟎", "800"},
		{"sans-serif digits", "𝟨𝟫", "69"},
		{"monospace digits", "𝟺𝟽.𝟶𝟷", "47.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNotificationParser_UnicodeDigitsEndToEnd(t *testing.T) {
	p := NewNotificationParser()

	paise, ok := p.ExtractAmount("Money received Rs. ८००")
	if !ok {
		t.Fatal("expected a match on Devanagari digits")
	}
	if paise != 80000 {
		t.Errorf("expected 80000 paise, got %d", paise)
	}
}

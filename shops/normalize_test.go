package shops

import "testing"

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 499", "1 499"},               // plain
		{"1 499", "1 499"},          // no-break space
		{"1 499", "1 499"},          // thin space
		{"1 499", "1 499"},          // narrow no-break space
		{"  1   499  ", "1 499"},         // runs collapsed
		{"\t1\n499\r", "1 499"},          // control whitespace
		{"1 499  ₽", "1 499 ₽"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := NormalizeSpace(tc.input); got != tc.expected {
				t.Errorf("NormalizeSpace(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestStripCurrencySymbols(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 499 ₽", "1 499"},
		{"$19.99", "19.99"},
		{"299 ₴", "299"},
		{"30", "30"},
	}

	for _, tc := range tests {
		if got := StripCurrencySymbols(tc.input); got != tc.expected {
			t.Errorf("StripCurrencySymbols(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestStripRub(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 000 руб.", "1 000"},
		{"1 000 руб", "1 000"},
		{"500", "500"},
	}

	for _, tc := range tests {
		if got := StripRub(tc.input); got != tc.expected {
			t.Errorf("StripRub(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestParseDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"1 499", 1499, true},
		{"30", 30, true},
		{"1 000", 1000, true},
		{"", 0, false},
		{"12a", 0, false},
		{"12.50", 0, false},
	}

	for _, tc := range tests {
		got, ok := parseDigits(tc.input)
		if ok != tc.ok || got != tc.expected {
			t.Errorf("parseDigits(%q) = (%v, %v), want (%v, %v)", tc.input, got, ok, tc.expected, tc.ok)
		}
	}
}

package identifier

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		sequence int
		width    Width
		expected string
	}{
		{"three words", "Logo Darstellung Desktop", 1, Width3, "LDD001"},
		{"umlauts and ampersand", "Modal Öffnen & Schließen", 3, Width3, "MÖS003"},
		{"empty title", "", 5, Width3, "000005"},
		{"four digit width", "Logo Darstellung Desktop", 12, Width4, "LDD0012"},
		{"short title padded", "Login", 7, Width3, "L00007"},
		{"two words padded", "User profile", 2, Width3, "UP0002"},
		{"long title truncated", "a b c d e f g h", 9, Width3, "ABCDEF009"},
		{"separator runs collapse", "Save -- / Load", 4, Width3, "SL0004"},
		{"only separators", "&&// ()", 1, Width3, "000001"},
		{"lowercase initials upper-cased", "check the footer", 10, Width3, "CTF010"},
		{"brackets and quotes", `Button "OK" [primary]`, 1, Width3, "BOP001"},
		{"sequence wider than width", "Logo Darstellung Desktop", 1234, Width3, "LDD1234"},
		{"unsupported width falls back", "Logo Darstellung Desktop", 1, Width(7), "LDD001"},
		{"negative sequence", "Logo Darstellung Desktop", -3, Width3, "LDD000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.title, tt.sequence, tt.width)
			if got != tt.expected {
				t.Errorf("Generate(%q, %d, %d) = %q, want %q", tt.title, tt.sequence, tt.width, got, tt.expected)
			}
		})
	}
}

func TestGenerate_AllSeparators(t *testing.T) {
	title := "a" + strings.Join(strings.Split(separators, ""), "b") + "c"
	got := Initials(title)

	// every separator is a boundary, so the initials are a, b..., c truncated to MaxInitials
	if got != "ABBBBB" {
		t.Errorf("Initials() = %q, want %q", got, "ABBBBB")
	}
}

func TestInitials_Bounds(t *testing.T) {
	titles := []string{"", "x", "one two", "one two three four five six seven eight", "Ärger über Öl"}

	for _, title := range titles {
		got := Initials(title)
		n := utf8.RuneCountInString(got)
		if n < MinInitials || n > MaxInitials {
			t.Errorf("Initials(%q) = %q has %d runes, want %d..%d", title, got, n, MinInitials, MaxInitials)
		}
	}
}

func TestParseWidth(t *testing.T) {
	if ParseWidth(4) != Width4 {
		t.Error("ParseWidth(4) should be Width4")
	}
	if ParseWidth(3) != Width3 {
		t.Error("ParseWidth(3) should be Width3")
	}
	if ParseWidth(0) != Width3 {
		t.Error("ParseWidth(0) should fall back to Width3")
	}
}

func TestSuitePrefix(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Login", "LO"},
		{"ölwechsel", "ÖL"},
		{"a", "AX"},
		{"", "XX"},
		{"- 3D Viewer", "3D"},
	}

	for _, tt := range tests {
		if got := SuitePrefix(tt.name); got != tt.expected {
			t.Errorf("SuitePrefix(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestTestID(t *testing.T) {
	if got := TestID("LO", "LDD001"); got != "LO-LDD001" {
		t.Errorf("TestID() = %q", got)
	}
	if got := TestID("", "LDD001"); got != "LDD001" {
		t.Errorf("TestID() without prefix = %q", got)
	}
}

// Package identifier derives short human-legible test identifiers from titles.
package identifier

import (
	"fmt"
	"strings"
	"unicode"
)

// Width is the number of digits the sequence number is padded to
type Width int

const (
	Width3 Width = 3
	Width4 Width = 4
)

const (
	// MinInitials is the shortest initials portion; shorter ones are padded with '0'
	MinInitials = 3
	// MaxInitials is the longest initials portion; longer ones are truncated
	MaxInitials = 6
	padRune     = '0'
)

const separators = " &/%-+=()[]{}<>,.;:!?@#$^*|\\\"'"

// ParseWidth returns the Width for n, falling back to Width3 for unsupported values
func ParseWidth(n int) Width {
	if Width(n) == Width4 {
		return Width4
	}
	return Width3
}

func isSeparator(r rune) bool {
	return strings.ContainsRune(separators, r) || unicode.IsSpace(r)
}

// Initials returns the upper-cased first rune of every word in title,
// padded to MinInitials and truncated to MaxInitials.
func Initials(title string) string {
	words := strings.FieldsFunc(title, isSeparator)

	initials := make([]rune, 0, len(words))
	for _, word := range words {
		for _, r := range word {
			initials = append(initials, unicode.ToUpper(r))
			break
		}
	}

	for len(initials) < MinInitials {
		initials = append(initials, padRune)
	}
	if len(initials) > MaxInitials {
		initials = initials[:MaxInitials]
	}
	return string(initials)
}

// Generate builds the identifier for title with the given sequence number.
// The result is not unique on its own; callers pass a strictly increasing
// sequence number per suite.
func Generate(title string, sequence int, width Width) string {
	if width != Width3 && width != Width4 {
		width = Width3
	}
	if sequence < 0 {
		sequence = 0
	}
	return fmt.Sprintf("%s%0*d", Initials(title), int(width), sequence)
}

// SuitePrefix derives the two-letter prefix for a suite name. Letters and digits
// are taken in order; missing characters are filled with 'X'.
func SuitePrefix(suiteName string) string {
	prefix := make([]rune, 0, 2)
	for _, r := range suiteName {
		if len(prefix) == 2 {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			prefix = append(prefix, unicode.ToUpper(r))
		}
	}
	for len(prefix) < 2 {
		prefix = append(prefix, 'X')
	}
	return string(prefix)
}

// TestID joins a suite prefix and a generated identifier
func TestID(prefix, generated string) string {
	if prefix == "" {
		return generated
	}
	return prefix + "-" + generated
}

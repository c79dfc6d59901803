// Package termsafe renders arbitrary text so it can be written to a terminal
// without moving the cursor, switching modes or injecting escape sequences.
//
// C0 controls (other than tab, line feed and carriage return) and DEL are
// shown in caret notation; C1 controls are shown as \xNN hex escapes.
package termsafe

import (
	"fmt"
	"strings"
)

// IsControl reports whether r is a control character for rendering purposes.
// Tab, line feed and carriage return are treated as ordinary whitespace.
func IsControl(r rune) bool {
	switch {
	case r >= 0 && r <= 31:
		return r != '\t' && r != '\n' && r != '\r'
	case r == 127:
		return true
	case r >= 128 && r <= 159:
		return true
	}
	return false
}

// CaretNotation returns the visible substitute for a control character:
// ^@..^_ for C0, ^? for DEL and \xNN for everything else.
func CaretNotation(r rune) string {
	switch {
	case r <= 31:
		return "^" + string(r+64)
	case r == 127:
		return "^?"
	default:
		return fmt.Sprintf(`\x%02x`, r)
	}
}

// Render replaces every control character in text with its caret notation.
// Apply it once to raw output; rendering already rendered text escapes again.
func Render(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if IsControl(r) {
			b.WriteString(CaretNotation(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContainsControl reports whether any rune in text is a control character.
func ContainsControl(text string) bool {
	return strings.IndexFunc(text, IsControl) >= 0
}

// HexDump returns the lowercase hex code point of every rune in text,
// separated by single spaces.
func HexDump(text string) string {
	codes := make([]string, 0, len(text))
	for _, r := range text {
		codes = append(codes, fmt.Sprintf("%02x", r))
	}
	return strings.Join(codes, " ")
}

// Package textfmt splits free text into the fixed slots used by message templates.
package textfmt

import "strings"

const addressSeparator = ", "

// SplitAddress spreads a free-text address over exactly three display lines.
// Commas and newlines separate tokens; earlier lines take the extra token when
// the count does not divide evenly. Missing lines are empty strings.
func SplitAddress(text string) [3]string {
	var lines [3]string

	tokens := addressTokens(text)
	if len(tokens) == 0 {
		return lines
	}

	perLine := len(tokens) / len(lines)
	extra := len(tokens) % len(lines)

	start := 0
	for i := range lines {
		size := perLine
		if i < extra {
			size++
		}
		if size == 0 {
			continue
		}
		lines[i] = strings.Join(tokens[start:start+size], addressSeparator)
		start += size
	}

	return lines
}

// JoinAddress joins the non-blank parts of a structured address.
func JoinAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, addressSeparator)
}

func addressTokens(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}

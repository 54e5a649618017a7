package textfmt

import (
	"strings"
	"unicode/utf8"
)

// MaxProductSlot is the rune limit of a single product template variable.
const MaxProductSlot = 250

const (
	productSeparator = ", "
	ellipsis         = "…"
)

// SplitProducts splits a product list into two template variable slots.
// Template variables may not carry newlines or tabs, so whitespace runs are
// collapsed first. The first slot breaks at the last item separator that fits.
func SplitProducts(text string) (string, string) {
	flat := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(flat) <= MaxProductSlot {
		return flat, ""
	}

	// Cuts are rune indexes; invalid bytes decode to one U+FFFD each.
	runes := []rune(flat)
	head := string(runes[:MaxProductSlot])

	cut := MaxProductSlot
	if idx := strings.LastIndex(head, productSeparator); idx > 0 {
		cut = utf8.RuneCountInString(head[:idx])
	}

	first := strings.TrimSpace(string(runes[:cut]))
	rest := strings.TrimPrefix(string(runes[cut:]), productSeparator)
	return first, truncate(strings.TrimSpace(rest), MaxProductSlot)
}

// JoinProducts renders product names as a comma separated list.
func JoinProducts(names []string) string {
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, productSeparator)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + ellipsis
}

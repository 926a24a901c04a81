package cache

import (
	"strings"
	"unicode"
)

// toSnake lowercases a reflected type name and joins its words with
// underscores. Word breaks fall on case changes and digit runs; any other
// rune (brackets and dots from generic instantiations, spaces) only separates
// words, so "Page[main.Employee]" becomes "page_main_employee".
func toSnake(s string) string {
	runes := []rune(s)
	words := make([]string, 0, 4)
	var word []rune

	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if len(word) > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if !unicode.IsUpper(prev) || nextLower {
					flush()
				}
			}
			word = append(word, r)
		case unicode.IsLower(r):
			word = append(word, r)
		case unicode.IsDigit(r):
			if len(word) > 0 && !unicode.IsDigit(runes[i-1]) {
				flush()
			}
			word = append(word, r)
		default:
			flush()
		}
	}
	flush()

	return strings.Join(words, "_")
}

package domain

import "strings"

const maxSymbolLength = 16

// NormalizeSymbol upper-cases and trims a ticker. It reports false for empty
// tickers and for characters no exchange ticker uses.
func NormalizeSymbol(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" || len(s) > maxSymbolLength {
		return "", false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '^', r == '=':
		default:
			return "", false
		}
	}
	return s, true
}

package utils

import "math"

// ExtractInt returns the first contiguous run of decimal digits in text
// interpreted as an integer, or 0 if text contains no digits. Runs too long
// to represent saturate at math.MaxInt rather than wrapping negative. It
// never fails, which keeps report parsing total: "128000+" -> 128000,
// "n/a" -> 0.
func ExtractInt(text string) int {
	const cutoff = math.MaxInt / 10
	value := 0
	seen := false
	for _, r := range text {
		if r >= '0' && r <= '9' {
			seen = true
			digit := int(r - '0')
			if value > cutoff || (value == cutoff && digit > math.MaxInt%10) {
				value = math.MaxInt
				continue
			}
			value = value*10 + digit
			continue
		}
		if seen {
			break
		}
	}
	if !seen {
		return 0
	}
	return value
}

// IsAllDigits reports whether s is non-empty and consists only of decimal digits.
func IsAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

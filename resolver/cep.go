package resolver

import "strings"

// cepLength is the number of digits in a complete Brazilian postal code.
const cepLength = 8

// NormalizeCEP strips everything but digits from a postal code as typed.
func NormalizeCEP(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CompleteCEP reports whether the normalized code has exactly eight digits.
// Anything shorter or longer is "incomplete": no lookup and no error.
func CompleteCEP(normalized string) bool {
	return len(normalized) == cepLength
}

// FormatCEP renders an eight-digit code in the 01310-100 display form.
// Incomplete codes come back unchanged.
func FormatCEP(normalized string) string {
	if !CompleteCEP(normalized) {
		return normalized
	}
	return normalized[:5] + "-" + normalized[5:]
}

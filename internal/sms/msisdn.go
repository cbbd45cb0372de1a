package sms

import "strings"

// CountryPrefix is the only destination prefix the business sends to.
const CountryPrefix = "+254"

// NormalizeMSISDN trims whitespace and rewrites a leading "0" or bare "254"
// to the international form.
func NormalizeMSISDN(number string) string {
	n := strings.TrimSpace(number)
	switch {
	case strings.HasPrefix(n, CountryPrefix):
		return n
	case strings.HasPrefix(n, "254"):
		return "+" + n
	case strings.HasPrefix(n, "0") && len(n) == 10:
		return CountryPrefix + n[1:]
	default:
		return n
	}
}

// ValidMSISDN reports whether the number can be messaged: international form,
// correct country prefix, and all digits after the plus sign.
func ValidMSISDN(number string) bool {
	if !strings.HasPrefix(number, CountryPrefix) {
		return false
	}
	digits := number[1:]
	if len(digits) != 12 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

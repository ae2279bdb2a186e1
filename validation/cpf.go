package validation

import "strings"

// ValidCPF reports whether s is a checksum-valid CPF. The input must
// already be exactly 11 digits; callers normally strip formatting with
// Digits first. The ten repeated-digit sequences pass the checksum but
// are rejected outright.
func ValidCPF(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	if strings.Count(s, s[:1]) == 11 {
		return false
	}

	digit := func(i int) int { return int(s[i] - '0') }

	// First check digit: weights 10..2 over the first nine digits.
	sum := 0
	for i := 1; i <= 9; i++ {
		sum += digit(i-1) * (11 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 || rest == 11 {
		rest = 0
	}
	if rest != digit(9) {
		return false
	}

	// Second check digit: weights 11..2 over the first ten digits.
	sum = 0
	for i := 1; i <= 10; i++ {
		sum += digit(i-1) * (12 - i)
	}
	rest = (sum * 10) % 11
	if rest == 10 || rest == 11 {
		rest = 0
	}
	return rest == digit(10)
}

// Package validate holds the field validators used at service boundaries.
// The functions are pure and perform no normalization: callers must pass
// ASCII-digit input exactly as entered.
package validate

import "regexp"

var mobilePattern = regexp.MustCompile(`^09\d{9}$`)

// NationalCode reports whether s is a well-formed Iranian national code:
// exactly ten ASCII digits whose last digit satisfies the weighted checksum.
// Each of the first nine digits is weighted by its distance from position
// ten; the sum modulo 11 determines the expected check digit.
func NationalCode(s string) bool {
	if len(s) != 10 {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		d := s[i]
		if d < '0' || d > '9' {
			return false
		}
		sum += int(d-'0') * (10 - i)
	}
	check := s[9]
	if check < '0' || check > '9' {
		return false
	}
	r := sum % 11
	if r < 2 {
		return int(check-'0') == r
	}
	return int(check-'0') == 11-r
}

// MobileNumber reports whether s is an eleven-digit mobile number starting
// with 09. No trimming or digit conversion is applied.
func MobileNumber(s string) bool {
	return mobilePattern.MatchString(s)
}

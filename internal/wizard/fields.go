package wizard

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

const (
	minPhoneDigits = 10
	minCardLength  = 16
)

// Required reports whether v has any non-whitespace content.
func Required(v string) bool {
	return strings.TrimSpace(v) != ""
}

// ValidEmail accepts local@domain.tld with no whitespace anywhere.
func ValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// ValidPhone accepts any string carrying at least ten digits.
func ValidPhone(v string) bool {
	return len(digitsOnly(v)) >= minPhoneDigits
}

// ValidZIP accepts NNNNN or NNNNN-NNNN.
func ValidZIP(v string) bool {
	return zipPattern.MatchString(v)
}

// ValidCardNumber requires at least sixteen characters once whitespace is removed.
func ValidCardNumber(v string) bool {
	return len(stripSpace(v)) >= minCardLength
}

// ValidPropertySize requires a finite number greater than zero.
func ValidPropertySize(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	return n > 0
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

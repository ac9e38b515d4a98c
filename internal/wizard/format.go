package wizard

import "strings"

// FormatCardNumber keeps the digits of v and groups them in fours.
func FormatCardNumber(v string) string {
	digits := digitsOnly(v)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry renders typed digits as MM/YY once more than two are present.
func FormatExpiry(v string) string {
	digits := digitsOnly(v)
	if len(digits) <= 2 {
		return digits
	}
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits[:2] + "/" + digits[2:]
}

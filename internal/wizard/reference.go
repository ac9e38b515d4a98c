package wizard

import (
	"fmt"
	"math/rand/v2"
	"regexp"
)

const (
	referencePrefix = "GA"
	referenceMin    = 100000
	referenceSpan   = 900000
)

var referencePattern = regexp.MustCompile(`^GA\d{6}$`)

// NewReference returns a booking reference "GA" + a number in [100000, 999999].
// A nil r uses the global source. References are not checked for uniqueness.
func NewReference(r *rand.Rand) string {
	var n int
	if r == nil {
		n = rand.IntN(referenceSpan)
	} else {
		n = r.IntN(referenceSpan)
	}
	return fmt.Sprintf("%s%d", referencePrefix, referenceMin+n)
}

// IsReference reports whether s looks like a booking reference.
func IsReference(s string) bool {
	return referencePattern.MatchString(s)
}

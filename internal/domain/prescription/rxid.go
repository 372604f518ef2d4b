package prescription

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	rxPrefix = "RX"
	rxDigits = 4
	rxMax    = 9999
)

var rxIDPattern = regexp.MustCompile(`^RX[0-9]{4}$`)

// FirstID is allocated when no prescription ids exist yet.
const FirstID = "RX0001"

// IsPrescriptionID reports whether s has the RX + four digit form.
func IsPrescriptionID(s string) bool {
	return rxIDPattern.MatchString(s)
}

// NextID returns the identifier after the greatest well-formed id in
// existing. Ids that do not match RX + four digits are ignored. Fixed-width
// zero padding makes the lexicographic maximum the numeric maximum.
func NextID(existing []string) (string, error) {
	last := ""
	for _, id := range existing {
		if IsPrescriptionID(id) && id > last {
			last = id
		}
	}
	if last == "" {
		return FirstID, nil
	}

	n, err := strconv.Atoi(last[len(rxPrefix):])
	if err != nil {
		return "", fmt.Errorf("parse prescription id %q: %w", last, err)
	}
	if n >= rxMax {
		return "", fmt.Errorf("after %s: %w", last, ErrIDSpaceExhausted)
	}
	return fmt.Sprintf("%s%0*d", rxPrefix, rxDigits, n+1), nil
}

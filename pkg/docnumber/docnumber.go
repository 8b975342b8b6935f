// Package docnumber formats and parses sequential document numbers of the
// form PFX-NNN/YY (e.g. FC-001/26 for invoices, P-014/26 for payments).
// Sequences restart every year per prefix.
package docnumber

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a document number for the given prefix, sequence and year.
func Format(prefix string, seq int, year int) string {
	return fmt.Sprintf("%s-%03d/%02d", prefix, seq, year%100)
}

// Suffix returns the year suffix ("/26") used to scope lookups of the last
// issued number.
func Suffix(year int) string {
	return fmt.Sprintf("/%02d", year%100)
}

// Sequence extracts the numeric sequence from a document number. It returns
// false for malformed input.
func Sequence(number string) (int, bool) {
	parts := strings.SplitN(number, "-", 2)
	if len(parts) != 2 {
		return 0, false
	}
	subParts := strings.SplitN(parts[1], "/", 2)
	if len(subParts) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(subParts[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Next returns the number following last for the given prefix and year.
// An empty or malformed last starts the sequence at 1.
func Next(prefix string, last string, year int) string {
	seq := 1
	if n, ok := Sequence(last); ok {
		seq = n + 1
	}
	return Format(prefix, seq, year)
}

// Package estimateno formats and parses estimate identifiers of the form
// YYYYMMDDnnn: the issue date followed by a zero-padded daily sequence.
package estimateno

import (
	"fmt"
	"strconv"
	"time"

	"quotedesk/internal/domain/entities"
)

const (
	// Length is the number of digits in an identifier.
	Length = 11
	// MaxSequence is the largest sequence representable in three digits.
	MaxSequence = 999
)

// Format builds the identifier for date and seq. seq must be in 1..999.
func Format(date entities.Date, seq int) string {
	return fmt.Sprintf("%s%03d", date.Compact(), seq)
}

// Parse splits id into its date key (YYYYMMDD) and sequence. It reports false
// for anything that is not exactly 11 ASCII digits.
func Parse(id string) (dateKey string, seq int, ok bool) {
	if len(id) != Length || !allDigits(id) {
		return "", 0, false
	}
	seq, err := strconv.Atoi(id[8:])
	if err != nil {
		return "", 0, false
	}
	return id[:8], seq, true
}

// DateKey is the YYYYMMDD prefix every identifier issued on date carries.
func DateKey(date entities.Date) string {
	return date.Compact()
}

// DateOf returns the issue date embedded in id.
func DateOf(id string) (entities.Date, bool) {
	key, _, ok := Parse(id)
	if !ok {
		return entities.Date{}, false
	}
	d, err := entities.ParseDate(key)
	if err != nil {
		return entities.Date{}, false
	}
	return d, true
}

// FallbackSuffix is used once a day runs out of three-digit sequences: the
// low three digits of the Unix time. Collisions remain possible.
func FallbackSuffix(now time.Time) string {
	return fmt.Sprintf("%03d", now.Unix()%1000)
}

// Fallback builds the overflow identifier for date.
func Fallback(date entities.Date, now time.Time) string {
	return date.Compact() + FallbackSuffix(now)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

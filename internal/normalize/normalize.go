// Package normalize canonicalizes the person-number and date shorthands
// accepted on the reporting surface into the fixed-width forms Ladok expects.
package normalize

import (
	"regexp"
	"time"
)

var (
	personNrRe = regexp.MustCompile(`^(\d\d)?(\d\d)(\d{4})[+\-]?(\w{4})`)
	dateRe     = regexp.MustCompile(`^(\d\d)?(\d\d)-?(\d\d)-?(\d\d)`)
)

// PersonNr canonicalizes a person number to twelve characters with no
// separator. When the century digits are missing it infers them: a two-digit
// birth year at least five years in the past is taken to be 20xx, anything
// closer to the current year is taken to be 19xx. The trailing four
// characters are kept verbatim. Returns false on a pattern mismatch.
func PersonNr(raw string) (string, bool) {
	return personNrAt(raw, time.Now())
}

func personNrAt(raw string, now time.Time) (string, bool) {
	m := personNrRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	century, year, monthDay, suffix := m[1], m[2], m[3], m[4]
	if century == "" {
		if now.Year()-2000 >= atoi2(year)+5 {
			century = "20"
		} else {
			century = "19"
		}
	}
	return century + year + monthDay + suffix, true
}

// Date canonicalizes a date shorthand to "YYYY-MM-DD". A missing century is
// always filled in as "20", unlike the person-number rule. Returns false on
// a pattern mismatch.
func Date(raw string) (string, bool) {
	m := dateRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	century, year, month, day := m[1], m[2], m[3], m[4]
	if century == "" {
		century = "20"
	}
	return century + year + "-" + month + "-" + day, true
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

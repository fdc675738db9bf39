package main

import (
	"strings"

	"library-ledger/library"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// persianLetters maps the Arabic code points keyboards often produce to the
// Persian letters stored in the data file.
var persianLetters = runes.Map(func(r rune) rune {
	switch r {
	case 'ي', 'ى':
		return 'ی'
	case 'ك':
		return 'ک'
	}
	return r
})

// normalizeQuery trims the query and rewrites Arabic letters to Persian.
func normalizeQuery(q string) string {
	out, _, err := transform.String(persianLetters, strings.TrimSpace(q))
	if err != nil {
		return strings.TrimSpace(q)
	}
	return out
}

func truncateString(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	return string(r[:maxLength-3]) + "..."
}

// amount formats a fine with the locale's digit grouping.
func (a *app) amount(v int64) string {
	return a.printer.Sprintf("%d", v)
}

// date shows a stored date on the Solar Hijri calendar.
func date(s string) string { return library.ToJalali(s) }

func returnedOn(l library.Loan) string {
	if l.Active() {
		return library.NoDate
	}
	return date(l.Returned())
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

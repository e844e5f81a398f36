// Package search implements the filter contract shared by the list
// endpoints: whitespace-split terms matched as substrings over a
// record's concatenated searchable fields, plus day/month/year date
// range filtering.
package search

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics and trims. Used for list
// import title/value matching, not for search (search stays
// diacritic-sensitive).
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		return strings.TrimSpace(strings.ToLower(s))
	}
	return strings.TrimSpace(out)
}

// MatchesTerms reports whether every whitespace-separated term of query
// appears as a case-insensitive substring of the concatenated fields.
// A term wrapped in asterisks matches the same as its inner text; a
// bare "*" or "**" matches everything.
func MatchesTerms(query string, fields ...string) bool {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return true
	}

	var nonEmpty []string
	for _, f := range fields {
		if f != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	content := strings.ToLower(strings.Join(nonEmpty, " "))

	for _, term := range terms {
		if len(term) >= 2 && strings.HasPrefix(term, "*") && strings.HasSuffix(term, "*") {
			term = term[1 : len(term)-1]
		}
		if term == "" {
			continue
		}
		if !strings.Contains(content, term) {
			return false
		}
	}
	return true
}

// ParseDMY parses a "dd/mm/yyyy" date as written on supply and absence
// records.
func ParseDMY(s string) (time.Time, error) {
	return time.Parse("02/01/2006", strings.TrimSpace(s))
}

// DateRange is an inclusive [Start, End] filter. The range applies
// only once both bounds are set; the zero value or a half-set range
// filters nothing.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) IsSet() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Contains reports whether t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.IsSet() {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// Covers reports whether the whole [start, end] interval falls within
// the range. Used by the absence list, which keeps an absence only
// when it lies entirely inside the filter window.
func (r DateRange) Covers(start, end time.Time) bool {
	if !r.IsSet() {
		return true
	}
	return !start.Before(r.Start) && !end.After(r.End)
}

// RangeFromQuery builds a DateRange from "2006-01-02" formatted query
// parameters, ignoring unparseable or missing bounds.
func RangeFromQuery(start, end string) DateRange {
	var r DateRange
	if t, err := time.Parse("2006-01-02", start); err == nil {
		r.Start = t
	}
	if t, err := time.Parse("2006-01-02", end); err == nil {
		r.End = t
	}
	return r
}

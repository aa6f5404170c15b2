// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dates extracts day, month, and year from free-text treaty dates
// such as "signed at Paris on 14 March 1994".
package dates

import (
	"regexp"
	"strconv"
	"strings"
)

// datePattern matches "<day> <month word> <four-digit year>".
var datePattern = regexp.MustCompile(`(\d+)\s+(\w+)\s+(\d{4})`)

var shortMonths = map[string]string{
	"january":   "Jan",
	"february":  "Feb",
	"march":     "Mar",
	"april":     "Apr",
	"may":       "May",
	"june":      "Jun",
	"july":      "Jul",
	"august":    "Aug",
	"september": "Sep",
	"october":   "Oct",
	"november":  "Nov",
	"december":  "Dec",
}

// Fallback is returned by Parse when no date can be read from the input.
var Fallback = Date{Day: 1, Month: "Jan", Year: 2000}

// Date is a parsed calendar date with a three-letter month abbreviation.
type Date struct {
	Day   int
	Month string
	Year  int
}

// Match is the first date found in a string, with the matched month word as
// written in the source and the byte offsets of the whole match.
type Match struct {
	Date
	MonthWord string
	Start     int
	End       int
}

// Find locates the first day-month-year sequence in s. It reports false
// when there is none or the numbers do not fit an int.
func Find(s string) (Match, bool) {
	loc := datePattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return Match{}, false
	}
	day, err := strconv.Atoi(s[loc[2]:loc[3]])
	if err != nil {
		return Match{}, false
	}
	year, err := strconv.Atoi(s[loc[6]:loc[7]])
	if err != nil {
		return Match{}, false
	}
	word := s[loc[4]:loc[5]]
	return Match{
		Date:      Date{Day: day, Month: ShortMonth(word), Year: year},
		MonthWord: word,
		Start:     loc[0],
		End:       loc[1],
	}, true
}

// Parse returns the first date in s, or Fallback when none is found.
// It never fails.
func Parse(s string) Date {
	m, ok := Find(s)
	if !ok {
		return Fallback
	}
	return m.Date
}

// ShortMonth maps a full English month name to its three-letter form,
// ignoring case. Three-letter input and unknown words come back unchanged.
func ShortMonth(month string) string {
	if len(month) == 3 {
		return month
	}
	if short, ok := shortMonths[strings.ToLower(month)]; ok {
		return short
	}
	return month
}

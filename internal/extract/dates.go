// Package extract turns free-text filing content into typed dates and names.
// Extraction is pattern-driven and targets a fixed set of fact kinds; it is
// deliberately not a general NLP layer.
package extract

import (
	"regexp"
	"sort"
	"time"

	"github.com/araddon/dateparse"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

// Plausible calendar range for extracted dates. Anything outside is a parser
// false-positive and is silently dropped, not errored.
const (
	minYear = 1800
	maxYear = 2100
)

// Generic date patterns matched anywhere in a document.
var datePatterns = []*regexp.Regexp{
	// DD/MM/YYYY, DD-MM-YYYY
	regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`),

	// DD Month YYYY
	regexp.MustCompile(`(?i)\b(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})\b`),

	// Month DD, YYYY
	regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})\b`),

	// DD/MM/YY, DD-MM-YY (two-digit year)
	regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2})\b`),
}

// Context phrase patterns, tried in order. The captured span is parsed as a
// date phrase.
var contextPatterns = map[domain.FactContext][]*regexp.Regexp{
	domain.FactContextIncorporation: {
		regexp.MustCompile(`(?i)date of incorporation[:\s]+([^\n]{5,30})`),
		regexp.MustCompile(`(?i)incorporated on[:\s]+([^\n]{5,30})`),
		regexp.MustCompile(`(?i)incorporation date[:\s]+([^\n]{5,30})`),
	},
	domain.FactContextNameChange: {
		regexp.MustCompile(`(?i)date of change[:\s]+([^\n]{5,30})`),
		regexp.MustCompile(`(?i)changed (?:its name )?on[:\s]+([^\n]{5,30})`),
		regexp.MustCompile(`(?i)effective (?:date|from)[:\s]+([^\n]{5,30})`),
	},
	domain.FactContextRegistration: {
		regexp.MustCompile(`(?i)date of registration[:\s]+([^\n]{5,30})`),
		regexp.MustCompile(`(?i)registered on[:\s]+([^\n]{5,30})`),
	},
	domain.FactContextFiling: {
		regexp.MustCompile(`(?i)filed on[:\s]+([^\n]{5,30})`),
		regexp.MustCompile(`(?i)filing date[:\s]+([^\n]{5,30})`),
	},
}

// "from DATE to DATE" phrasing.
var rangePattern = regexp.MustCompile(`(?i)from\s+(\S+(?:\s+\w+\s+\d{4})?)\s+to\s+(\S+(?:\s+\w+\s+\d{4})?)`)

// DateExtractor extracts calendar dates from filing text. It is stateless and
// safe for concurrent use.
type DateExtractor struct{}

// NewDateExtractor creates a date extractor.
func NewDateExtractor() *DateExtractor {
	return &DateExtractor{}
}

// Extract returns the distinct dates found in text, sorted ascending.
// When a context is supplied its phrase patterns run first; the generic
// patterns always run as a second tier, so dates the context patterns miss
// are still caught. Duplicates are removed by exact equality only:
// near-duplicate dates from noisy text stay distinct, because merging them
// would hide a genuine one-day discrepancy.
func (e *DateExtractor) Extract(text string, context domain.FactContext) []time.Time {
	var dates []time.Time

	if patterns, ok := contextPatterns[context]; ok {
		for _, pattern := range patterns {
			for _, match := range pattern.FindAllStringSubmatch(text, -1) {
				if d, ok := ParseDate(match[1]); ok {
					dates = append(dates, d)
				}
			}
		}
	}

	for _, pattern := range datePatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			if d, ok := ParseDate(match); ok {
				dates = append(dates, d)
			}
		}
	}

	return dedupeSorted(dates)
}

// ContextStated reports whether the document claims to state a date for the
// given context, whether or not a parseable date follows the phrase. Used to
// distinguish a missing date from a date that was simply never mentioned.
func (e *DateExtractor) ContextStated(text string, context domain.FactContext) bool {
	for _, pattern := range contextPatterns[context] {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// DateRange is a "from X to Y" span found in text.
type DateRange struct {
	Start time.Time
	End   time.Time
	Text  string
}

// ExtractRanges returns the date ranges found in text. Both ends must parse
// for a range to be reported.
func (e *DateExtractor) ExtractRanges(text string) []DateRange {
	var ranges []DateRange
	for _, match := range rangePattern.FindAllStringSubmatch(text, -1) {
		start, okStart := ParseDate(match[1])
		end, okEnd := ParseDate(match[2])
		if okStart && okEnd {
			ranges = append(ranges, DateRange{Start: start, End: end, Text: match[0]})
		}
	}
	return ranges
}

// numericDashDate rewrites dd-mm-yyyy (and dd-mm-yy) to the slashed form,
// which is the only numeric day-first layout dateparse accepts.
var numericDashDate = regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{2}(?:\d{2})?)\b`)

// ParseDate parses a date phrase permissively with day-first (UK) ordering.
// An ambiguous day of month defaults to the first. Dates outside the
// plausible calendar range are rejected.
func ParseDate(s string) (time.Time, bool) {
	s = numericDashDate.ReplaceAllString(s, "$1/$2/$3")
	parsed, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	if parsed.Year() < minYear || parsed.Year() > maxYear {
		return time.Time{}, false
	}
	return parsed, true
}

// CompareDates reports whether two dates match within toleranceDays.
// A zero tolerance requires exact calendar-day equality.
func CompareDates(a, b time.Time, toleranceDays int) bool {
	if toleranceDays == 0 {
		ay, am, ad := a.Date()
		by, bm, bd := b.Date()
		return ay == by && am == bm && ad == bd
	}
	diff := DaysBetween(a, b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= toleranceDays
}

// DaysBetween returns the signed whole-day difference from a to b.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	aDay := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bDay := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay) / (24 * time.Hour))
}

// Discrepancy is one found date that falls outside tolerance of the expected
// date. DifferenceDays is signed: positive means the found date is later.
type Discrepancy struct {
	Expected       time.Time
	Found          time.Time
	DifferenceDays int
}

// FindMismatches pairs the expected date against every found date outside
// tolerance.
func FindMismatches(expected time.Time, found []time.Time, toleranceDays int) []Discrepancy {
	var discrepancies []Discrepancy
	for _, f := range found {
		if !CompareDates(expected, f, toleranceDays) {
			discrepancies = append(discrepancies, Discrepancy{
				Expected:       expected,
				Found:          f,
				DifferenceDays: DaysBetween(expected, f),
			})
		}
	}
	return discrepancies
}

// ValidateSequence reports whether the dates are already in non-decreasing
// order.
func ValidateSequence(dates []time.Time) bool {
	for i := 1; i < len(dates); i++ {
		if dates[i].Before(dates[i-1]) {
			return false
		}
	}
	return true
}

func dedupeSorted(dates []time.Time) []time.Time {
	if len(dates) == 0 {
		return nil
	}
	seen := make(map[time.Time]struct{}, len(dates))
	unique := dates[:0]
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].Before(unique[j]) })
	return unique
}

package extract

import (
	"testing"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractContextPhrase(t *testing.T) {
	e := NewDateExtractor()

	dates := e.Extract("Date of incorporation: 04/03/1998", domain.FactContextIncorporation)
	if len(dates) == 0 {
		t.Fatal("expected at least one date")
	}
	got := dates[0]
	if got.Year() != 1998 || got.Month() != time.March || got.Day() != 4 {
		t.Errorf("day-first parse failed: got %v, want 1998-03-04", got)
	}
}

func TestExtractPatterns(t *testing.T) {
	e := NewDateExtractor()

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"numeric slash", "registered 04/03/1998 in England", date(1998, time.March, 4)},
		{"numeric dash", "registered 04-03-1998 in England", date(1998, time.March, 4)},
		{"day month year", "incorporated on 4 March 1998", date(1998, time.March, 4)},
		{"month day year", "incorporated March 4, 1998", date(1998, time.March, 4)},
		{"two digit year", "form dated 04/03/98", date(1998, time.March, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := e.Extract(tt.text, domain.FactContextUnscoped)
			if len(dates) != 1 {
				t.Fatalf("got %d dates, want 1: %v", len(dates), dates)
			}
			if !CompareDates(dates[0], tt.want, 0) {
				t.Errorf("got %v, want %v", dates[0], tt.want)
			}
		})
	}
}

func TestExtractRejectsImplausibleYears(t *testing.T) {
	e := NewDateExtractor()

	for _, text := range []string{
		"expires 31/12/9999",
		"reference 01/01/1750",
	} {
		if dates := e.Extract(text, domain.FactContextUnscoped); len(dates) != 0 {
			t.Errorf("Extract(%q) = %v, want none", text, dates)
		}
	}
}

func TestExtractDedupesAndSorts(t *testing.T) {
	e := NewDateExtractor()

	text := "Date of incorporation: 04/03/1998. The company was incorporated on 4 March 1998, with first filing 01/01/1997."
	dates := e.Extract(text, domain.FactContextIncorporation)
	if len(dates) != 2 {
		t.Fatalf("got %d dates, want 2: %v", len(dates), dates)
	}
	if !dates[0].Before(dates[1]) {
		t.Errorf("dates not sorted: %v", dates)
	}
}

func TestContextStated(t *testing.T) {
	e := NewDateExtractor()

	if !e.ContextStated("Date of incorporation: [illegible]", domain.FactContextIncorporation) {
		t.Error("phrase present but ContextStated = false")
	}
	if e.ContextStated("annual return made up to year end", domain.FactContextIncorporation) {
		t.Error("phrase absent but ContextStated = true")
	}
}

func TestExtractRanges(t *testing.T) {
	e := NewDateExtractor()

	ranges := e.ExtractRanges("accounting period from 01/04/2020 to 31/03/2021")
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if !CompareDates(ranges[0].Start, date(2020, time.April, 1), 0) {
		t.Errorf("start = %v", ranges[0].Start)
	}
	if !CompareDates(ranges[0].End, date(2021, time.March, 31), 0) {
		t.Errorf("end = %v", ranges[0].End)
	}
}

func TestCompareDates(t *testing.T) {
	a := date(1998, time.March, 4)
	b := date(1998, time.March, 5)

	// Reflexive at zero tolerance.
	if !CompareDates(a, a, 0) {
		t.Error("CompareDates(a, a, 0) = false")
	}
	// Symmetric.
	if CompareDates(a, b, 0) != CompareDates(b, a, 0) {
		t.Error("CompareDates not symmetric at tolerance 0")
	}
	if CompareDates(a, b, 1) != CompareDates(b, a, 1) {
		t.Error("CompareDates not symmetric at tolerance 1")
	}
	if CompareDates(a, b, 0) {
		t.Error("adjacent days matched at tolerance 0")
	}
	if !CompareDates(a, b, 1) {
		t.Error("adjacent days did not match at tolerance 1")
	}
}

func TestFindMismatches(t *testing.T) {
	expected := date(1998, time.March, 4)
	found := []time.Time{date(1998, time.March, 5), expected}

	discrepancies := FindMismatches(expected, found, 0)
	if len(discrepancies) != 1 {
		t.Fatalf("got %d discrepancies, want 1", len(discrepancies))
	}
	if discrepancies[0].DifferenceDays != 1 {
		t.Errorf("DifferenceDays = %d, want 1", discrepancies[0].DifferenceDays)
	}

	// Sign flips when the found date precedes the expected one.
	discrepancies = FindMismatches(date(1998, time.March, 5), []time.Time{expected}, 0)
	if discrepancies[0].DifferenceDays != -1 {
		t.Errorf("DifferenceDays = %d, want -1", discrepancies[0].DifferenceDays)
	}
}

func TestValidateSequence(t *testing.T) {
	ordered := []time.Time{date(1998, time.March, 4), date(1998, time.March, 4), date(1999, time.January, 1)}
	if !ValidateSequence(ordered) {
		t.Error("ordered sequence reported invalid")
	}
	if !ValidateSequence(nil) {
		t.Error("empty sequence reported invalid")
	}
	unordered := []time.Time{date(1999, time.January, 1), date(1998, time.March, 4)}
	if ValidateSequence(unordered) {
		t.Error("unordered sequence reported valid")
	}
}

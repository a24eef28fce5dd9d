package extract

import "testing"

func TestExtractCompanyNames(t *testing.T) {
	e := NewNameExtractor()

	text := "Certificate that ACME WIDGETS LIMITED, formerly known as ACME HOLDINGS LTD, has changed its name. ACME WIDGETS LIMITED appears twice."
	names := e.ExtractCompanyNames(text)
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2: %v", len(names), names)
	}
	if names[0] != "ACME WIDGETS LIMITED" {
		t.Errorf("names[0] = %q", names[0])
	}
	if names[1] != "ACME HOLDINGS LTD" {
		t.Errorf("names[1] = %q", names[1])
	}
}

func TestExtractCompanyNamesIgnoresLowerCase(t *testing.T) {
	e := NewNameExtractor()

	if names := e.ExtractCompanyNames("the company was limited in scope"); len(names) != 0 {
		t.Errorf("got %v, want none", names)
	}
}

func TestExtractPersonNames(t *testing.T) {
	e := NewNameExtractor()

	text := "Director: Jane O'Brien\nSigned by: John Smith\nDirector: Jane O'Brien"
	names := e.ExtractPersonNames(text)
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2: %v", len(names), names)
	}
	if names[0] != "Jane O'Brien" {
		t.Errorf("names[0] = %q", names[0])
	}
}

func TestIsCompanyName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"ACME WIDGETS LIMITED", true},
		{"acme widgets ltd", true},
		{"EXAMPLE GROUP PLC", true},
		{"Jane O'Brien", false},
		{"LIMITED EDITION", false},
	}
	for _, tt := range tests {
		if got := IsCompanyName(tt.name); got != tt.want {
			t.Errorf("IsCompanyName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeCompanyName(t *testing.T) {
	if got := NormalizeCompanyName("  Acme   Widgets \n Limited "); got != "ACME WIDGETS LIMITED" {
		t.Errorf("got %q", got)
	}
}

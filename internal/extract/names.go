package extract

import (
	"regexp"
	"strings"
)

// Registered company names in filings are conventionally upper-case and carry
// a corporate designator.
var companyNamePattern = regexp.MustCompile(`\b([A-Z][A-Z0-9&'.\- ]{2,80}?\s(?:LIMITED|LTD|PLC|LLP|LP))\b`)

// Person names are only trusted when anchored to an officer keyword; bare
// title-case sequences are far too noisy in OCR'd filing text.
// Case-insensitivity is scoped to the keyword: each captured word must start
// with a capital, and words are joined by single spaces so a name never runs
// past the end of its line.
var personNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:director)[: \t]+([A-Z][a-zA-Z'\-]+(?: [A-Z][a-zA-Z'\-]+){1,3})`),
	regexp.MustCompile(`(?i:secretary)[: \t]+([A-Z][a-zA-Z'\-]+(?: [A-Z][a-zA-Z'\-]+){1,3})`),
	regexp.MustCompile(`(?i:signed by)[: \t]+([A-Z][a-zA-Z'\-]+(?: [A-Z][a-zA-Z'\-]+){1,3})`),
	regexp.MustCompile(`(?i:presented by)[: \t]+([A-Z][a-zA-Z'\-]+(?: [A-Z][a-zA-Z'\-]+){1,3})`),
}

// NameExtractor extracts company and officer names from filing text. It is
// stateless and safe for concurrent use.
type NameExtractor struct{}

// NewNameExtractor creates a name extractor.
func NewNameExtractor() *NameExtractor {
	return &NameExtractor{}
}

// ExtractCompanyNames returns the distinct company-style names found in text,
// normalised to upper case with collapsed whitespace, in order of first
// appearance.
func (e *NameExtractor) ExtractCompanyNames(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, match := range companyNamePattern.FindAllStringSubmatch(text, -1) {
		name := NormalizeCompanyName(match[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ExtractPersonNames returns distinct officer names anchored to signing or
// appointment keywords, in order of first appearance.
func (e *NameExtractor) ExtractPersonNames(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, pattern := range personNamePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			name := strings.Join(strings.Fields(match[1]), " ")
			key := strings.ToUpper(name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// NormalizeCompanyName upper-cases a name and collapses internal whitespace
// so that formatting noise never produces a spurious mismatch.
func NormalizeCompanyName(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}

// IsCompanyName reports whether the name carries a corporate designator.
func IsCompanyName(name string) bool {
	upper := NormalizeCompanyName(name)
	for _, suffix := range []string{" LIMITED", " LTD", " PLC", " LLP", " LP"} {
		if strings.HasSuffix(upper, suffix) {
			return true
		}
	}
	return false
}

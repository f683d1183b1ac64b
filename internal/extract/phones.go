package extract

import "regexp"

// Candidate patterns for Polish phone numbers, tried in order over the whole
// text. Later normalization strips separators and country-code prefixes, so
// the patterns only need to locate plausible digit groupings.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+48\s*\d{3}\s*\d{3}\s*\d{3}`),
	regexp.MustCompile(`\+48\s*\d{2}\s*\d{3}\s*\d{2}\s*\d{2}`),
	regexp.MustCompile(`\(\+48\)\s*\d{3}\s*\d{3}\s*\d{3}`),
	regexp.MustCompile(`48\s*\d{3}\s*\d{3}\s*\d{3}`),
	regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{3}`),
	regexp.MustCompile(`\d{2}[-.\s]?\d{3}[-.\s]?\d{2}[-.\s]?\d{2}`),
	regexp.MustCompile(`\d{9}`),
}

// Phones extracts distinct 9-digit national phone numbers from the text,
// in discovery order. Callers treat the first entry as the best candidate.
func (e *Extractor) Phones(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var phones []string

	for _, pattern := range phonePatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			digits := stripNonDigits(match)
			if len(digits) < 9 {
				continue
			}
			// The last 9 digits are the national significant number; anything
			// before them is a country-code prefix such as 48.
			digits = digits[len(digits)-9:]
			if _, spam := e.spamPhones[digits]; spam {
				continue
			}
			if _, dup := seen[digits]; dup {
				continue
			}
			seen[digits] = struct{}{}
			phones = append(phones, digits)
		}
	}

	return phones
}

package extract

import (
	"strings"

	"github.com/octobees/lead-scanner/internal/config"
)

// Extractor pulls contact data out of free text using the injected rule set.
// All of its methods are pure with respect to their input and never fail.
type Extractor struct {
	spamPhones       map[string]struct{}
	spamEmailMarkers []string
	excludedHandles  map[string]struct{}
}

// New compiles the rule set into an extractor.
func New(rules config.Rules) *Extractor {
	e := &Extractor{
		spamPhones:       make(map[string]struct{}, len(rules.SpamPhones)),
		spamEmailMarkers: make([]string, 0, len(rules.SpamEmailMarkers)),
		excludedHandles:  make(map[string]struct{}, len(rules.ExcludedSocialHandles)),
	}
	for _, p := range rules.SpamPhones {
		digits := stripNonDigits(p)
		if digits != "" {
			e.spamPhones[digits] = struct{}{}
		}
	}
	for _, m := range rules.SpamEmailMarkers {
		if marker := strings.ToLower(strings.TrimSpace(m)); marker != "" {
			e.spamEmailMarkers = append(e.spamEmailMarkers, marker)
		}
	}
	for _, h := range rules.ExcludedSocialHandles {
		if handle := strings.ToLower(strings.TrimSpace(h)); handle != "" {
			e.excludedHandles[handle] = struct{}{}
		}
	}
	return e
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

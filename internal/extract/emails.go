package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var emailPattern = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.-]+\.[a-z]{2,}`)

const maxEmails = 3

// Emails extracts up to three distinct lowercase email addresses from the
// text, in discovery order, skipping any address carrying a spam marker.
func (e *Extractor) Emails(text string) []string {
	if text == "" {
		return nil
	}

	lowered := strings.ToLower(text)
	seen := make(map[string]struct{})
	var emails []string

	for _, match := range emailPattern.FindAllString(lowered, -1) {
		if _, dup := seen[match]; dup {
			continue
		}
		seen[match] = struct{}{}
		if e.isSpamEmail(match) {
			continue
		}
		at := strings.LastIndex(match, "@")
		if ascii, err := idna.Lookup.ToASCII(match[at+1:]); err != nil || ascii == "" {
			continue
		}
		emails = append(emails, match)
		if len(emails) == maxEmails {
			break
		}
	}

	return emails
}

func (e *Extractor) isSpamEmail(email string) bool {
	for _, marker := range e.spamEmailMarkers {
		if strings.Contains(email, marker) {
			return true
		}
	}
	return false
}

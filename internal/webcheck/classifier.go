package webcheck

import (
	"net/url"
	"strings"

	"github.com/octobees/lead-scanner/internal/config"
)

// Classifier decides from a URL string alone whether it can possibly be an
// independent company website. It only rules out obviously-wrong hosts
// (social platforms, directories, marketplaces); it does not verify liveness.
type Classifier struct {
	excluded []string
}

// NewClassifier builds a classifier from the configured domain denylist.
func NewClassifier(rules config.Rules) *Classifier {
	excluded := make([]string, 0, len(rules.ExcludedDomains))
	for _, d := range rules.ExcludedDomains {
		if domain := strings.ToLower(strings.TrimSpace(d)); domain != "" {
			excluded = append(excluded, domain)
		}
	}
	return &Classifier{excluded: excluded}
}

// IsCompanyDomain reports whether the URL's host is not on the denylist.
// Bare domains without a scheme are tolerated. Empty input is rejected.
func (c *Classifier) IsCompanyDomain(raw string) bool {
	host := extractHost(raw)
	if host == "" {
		return false
	}
	for _, excluded := range c.excluded {
		if strings.Contains(host, excluded) {
			return false
		}
	}
	return true
}

func extractHost(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if host := u.Hostname(); host != "" {
		return host
	}
	return strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)[0]
}

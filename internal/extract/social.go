package extract

import (
	"regexp"
	"strings"
)

// SocialLinks stores the canonical profile URL per platform, empty when none found.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
}

// Platform patterns capture the profile handle so that every spelling of a
// link (protocol-relative, bare domain, trailing slash) normalizes identically.
var (
	facebookPattern  = regexp.MustCompile(`(?i)(?:https?:)?(?://)?(?:www\.)?(?:facebook|fb)\.com/([a-zA-Z0-9._-]+)`)
	instagramPattern = regexp.MustCompile(`(?i)(?:https?:)?(?://)?(?:www\.)?instagram\.com/([a-zA-Z0-9._-]+)`)
	linkedinPattern  = regexp.MustCompile(`(?i)(?:https?:)?(?://)?(?:www\.)?linkedin\.com/(company|in)/([a-zA-Z0-9._-]+)`)
	twitterPattern   = regexp.MustCompile(`(?i)(?:https?:)?(?://)?(?:www\.)?(?:twitter|x)\.com/([a-zA-Z0-9._-]+)`)
)

// Social scans HTML or plain text for social profile links. The first handle
// per platform that is not a known non-business path segment wins.
func (e *Extractor) Social(html string) SocialLinks {
	var links SocialLinks
	if html == "" {
		return links
	}

	if handle := e.firstHandle(facebookPattern, html); handle != "" {
		links.Facebook = "https://facebook.com/" + handle
	}
	if handle := e.firstHandle(instagramPattern, html); handle != "" {
		links.Instagram = "https://instagram.com/" + handle
	}
	links.LinkedIn = e.firstLinkedIn(html)
	if handle := e.firstHandle(twitterPattern, html); handle != "" {
		links.Twitter = "https://twitter.com/" + handle
	}

	return links
}

func (e *Extractor) firstHandle(pattern *regexp.Regexp, source string) string {
	for _, m := range pattern.FindAllStringSubmatch(source, -1) {
		handle := strings.Trim(m[1], "/")
		if e.acceptHandle(handle) {
			return handle
		}
	}
	return ""
}

func (e *Extractor) firstLinkedIn(source string) string {
	for _, m := range linkedinPattern.FindAllStringSubmatch(source, -1) {
		kind := strings.ToLower(m[1])
		handle := strings.Trim(m[2], "/")
		if e.acceptHandle(handle) {
			return "https://linkedin.com/" + kind + "/" + handle
		}
	}
	return ""
}

func (e *Extractor) acceptHandle(handle string) bool {
	if handle == "" {
		return false
	}
	_, excluded := e.excludedHandles[strings.ToLower(handle)]
	return !excluded
}

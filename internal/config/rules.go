package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules carries the denylists and heuristic phrase sets consumed by the
// extraction and website-checking components. Membership of these sets is
// tuned over time, so they live in a YAML file rather than in code.
type Rules struct {
	// Phone numbers belonging to the directories themselves, digits only.
	SpamPhones []string `yaml:"spam_phones"`
	// Substrings that mark an email address as aggregator/directory noise.
	SpamEmailMarkers []string `yaml:"spam_email_markers"`
	// Host substrings that disqualify a URL as an independent company site.
	ExcludedDomains []string `yaml:"excluded_domains"`
	// Social path segments that are never a business profile handle.
	ExcludedSocialHandles []string `yaml:"excluded_social_handles"`
	// Regex patterns (matched against lowercased body) for parked domains.
	ParkingPatterns []string `yaml:"parking_patterns"`
	// Regex patterns for generic template filler pages.
	PlaceholderPatterns []string `yaml:"placeholder_patterns"`
	// Pages whose visible text is shorter than this are treated as parked.
	MinVisibleTextLen int `yaml:"min_visible_text_len"`
}

// DefaultRules returns the built-in rule set used when no rules file is configured.
func DefaultRules() Rules {
	return Rules{
		SpamPhones: []string{
			"801002102", // Panorama Firm infoline
			"221001000", // pkt.pl switchboard
		},
		SpamEmailMarkers: []string{
			"example.com",
			"test.com",
			"email@",
			"@email",
			"panoramafirm",
			"pkt.pl",
			"sentry.io",
			"wixpress.com",
		},
		ExcludedDomains: []string{
			"facebook.com", "fb.com",
			"instagram.com",
			"twitter.com", "x.com",
			"linkedin.com",
			"youtube.com",
			"tiktok.com",
			"google.com", "google.pl",
			"panoramafirm.pl",
			"pkt.pl",
			"aleo.com",
			"gowork.pl",
			"olx.pl",
			"allegro.pl",
			"zumi.pl",
			"yelp.com",
			"tripadvisor.",
			"booking.com",
		},
		ExcludedSocialHandles: []string{
			"sharer", "share", "pages", "profile.php", "hashtag",
			"explore", "p", "reel", "accounts", "tr", "intl", "login",
			"panoramafirm", "panoramafirm.pl", "pktpl", "pkt.pl",
		},
		ParkingPatterns: []string{
			`domain.*parking`,
			`domain.*sale`,
			`domain.*for\s*sale`,
			`buy\s*this\s*domain`,
			`this\s*domain.*available`,
			`domena.*sprzedaż`,
			`domena.*do\s*kupienia`,
			`strona\s*w\s*budowie`,
			`under\s*construction`,
			`coming\s*soon`,
			`wkrótce`,
			`hostinger`,
			`godaddy.*parked`,
			`sedo\s*domain`,
		},
		PlaceholderPatterns: []string{
			`lorem\s*ipsum`,
			`example\s*content`,
			`sample\s*text`,
			`your\s*company\s*name`,
			`twoja\s*firma`,
			`nazwa\s*firmy`,
		},
		MinVisibleTextLen: 100,
	}
}

// LoadRules reads a rule set from the given YAML file, falling back to the
// defaults for any list the file leaves empty. An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	defaults := DefaultRules()
	if strings.TrimSpace(path) == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	var loaded Rules
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Rules{}, fmt.Errorf("parse rules file: %w", err)
	}

	merged := defaults
	if len(loaded.SpamPhones) > 0 {
		merged.SpamPhones = loaded.SpamPhones
	}
	if len(loaded.SpamEmailMarkers) > 0 {
		merged.SpamEmailMarkers = loaded.SpamEmailMarkers
	}
	if len(loaded.ExcludedDomains) > 0 {
		merged.ExcludedDomains = loaded.ExcludedDomains
	}
	if len(loaded.ExcludedSocialHandles) > 0 {
		merged.ExcludedSocialHandles = loaded.ExcludedSocialHandles
	}
	if len(loaded.ParkingPatterns) > 0 {
		merged.ParkingPatterns = loaded.ParkingPatterns
	}
	if len(loaded.PlaceholderPatterns) > 0 {
		merged.PlaceholderPatterns = loaded.PlaceholderPatterns
	}
	if loaded.MinVisibleTextLen > 0 {
		merged.MinVisibleTextLen = loaded.MinVisibleTextLen
	}
	return merged, nil
}

package scrape

import (
	"strings"

	"github.com/octobees/lead-scanner/internal/entity"
	"github.com/octobees/lead-scanner/internal/extract"
	"github.com/octobees/lead-scanner/internal/webcheck"
)

const (
	maxAddressLen   = 100
	dedupNamePrefix = 20
)

// ContactTier is one precedence level of extracted contact fields. Adapters
// build one tier per scope: the detail page's dedicated contact container,
// the whole-page text scan, and finally the summary card.
type ContactTier struct {
	Address string
	Phone   string
	Email   string
	Website string
	Social  extract.SocialLinks
}

// Assembler folds prioritized contact tiers into a Business record. It is a
// pure reducer: higher tiers are listed first and a field accepted from an
// earlier tier is never overwritten by a later one.
type Assembler struct {
	extractor  *extract.Extractor
	classifier *webcheck.Classifier
}

// NewAssembler wires the shared extraction core into an assembler.
func NewAssembler(extractor *extract.Extractor, classifier *webcheck.Classifier) *Assembler {
	return &Assembler{extractor: extractor, classifier: classifier}
}

// ScanTier extracts a tier from free text using the shared core. Used for
// whole-page scans and for card fragments without structured markup.
func (a *Assembler) ScanTier(text string) ContactTier {
	tier := ContactTier{Social: a.extractor.Social(text)}
	if phones := a.extractor.Phones(text); len(phones) > 0 {
		tier.Phone = phones[0]
	}
	if emails := a.extractor.Emails(text); len(emails) > 0 {
		tier.Email = emails[0]
	}
	return tier
}

// Assemble merges tiers into a record. Returns false when no name could be
// extracted; such candidates are dropped, not treated as errors.
func (a *Assembler) Assemble(name, industry string, source entity.Source, tiers ...ContactTier) (entity.Business, bool) {
	name = extract.Normalize(name)
	if name == "" {
		return entity.Business{}, false
	}

	b := entity.Business{
		Name:     name,
		Industry: extract.Normalize(industry),
		Source:   source,
	}

	for _, tier := range tiers {
		if b.Address == "" {
			b.Address = truncate(extract.Normalize(tier.Address), maxAddressLen)
		}
		if b.Phone == "" {
			if phones := a.extractor.Phones(tier.Phone); len(phones) > 0 {
				b.Phone = phones[0]
			}
		}
		if b.Email == "" {
			if emails := a.extractor.Emails(tier.Email); len(emails) > 0 {
				b.Email = emails[0]
			}
		}
		if b.Website == "" && tier.Website != "" && a.classifier.IsCompanyDomain(tier.Website) {
			b.Website = strings.TrimSpace(tier.Website)
		}
		if b.Facebook == "" {
			b.Facebook = tier.Social.Facebook
		}
		if b.Instagram == "" {
			b.Instagram = tier.Social.Instagram
		}
		if b.LinkedIn == "" {
			b.LinkedIn = tier.Social.LinkedIn
		}
		if b.Twitter == "" {
			b.Twitter = tier.Social.Twitter
		}
	}

	b.HasWebsite = b.Website != ""
	return b, true
}

// DedupKeys returns the two identity keys used for cross-source
// deduplication: a bounded case-insensitive name prefix and the exact
// normalized phone. The phone key is empty when the record has no phone.
func DedupKeys(b entity.Business) (nameKey, phoneKey string) {
	nameKey = truncate(strings.ToLower(b.Name), dedupNamePrefix)
	return nameKey, b.Phone
}

// truncate limits by rune count so Polish diacritics are never split.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

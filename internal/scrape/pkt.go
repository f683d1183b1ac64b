package scrape

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/octobees/lead-scanner/internal/entity"
	"github.com/octobees/lead-scanner/internal/extract"
)

const pktBaseURL = "https://www.pkt.pl"

var (
	telPrefixPattern = regexp.MustCompile(`(?i)^(tel\.?:?\s*)`)
	bareWWWPattern   = regexp.MustCompile(`(?i)www\.[a-z0-9.-]+\.[a-z]{2,}`)
)

// PKTScraper pulls listings from pkt.pl, the traditional Polish phone-book
// directory. It often carries businesses absent from other catalogues.
type PKTScraper struct {
	client    *Client
	assembler *Assembler
	baseURL   string
}

// NewPKTScraper builds the adapter. An empty baseURL selects the live site.
func NewPKTScraper(client *Client, assembler *Assembler, baseURL string) *PKTScraper {
	if baseURL == "" {
		baseURL = pktBaseURL
	}
	return &PKTScraper{client: client, assembler: assembler, baseURL: strings.TrimRight(baseURL, "/")}
}

// Source identifies records produced by this adapter.
func (s *PKTScraper) Source() entity.Source { return entity.SourcePKT }

// Search walks the directory's result pages for one industry.
func (s *PKTScraper) Search(ctx context.Context, industry, city string, max int) ([]entity.Business, error) {
	searchURL := fmt.Sprintf("%s/szukaj/%s/%s", s.baseURL, url.PathEscape(industry), url.PathEscape(strings.ToLower(city)))
	var businesses []entity.Business

	for page := 1; len(businesses) < max; page++ {
		pageURL := searchURL
		if page > 1 {
			pageURL = fmt.Sprintf("%s/strona/%d", searchURL, page)
		}

		fetched, err := s.client.Fetch(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("pkt search: %w", err)
			}
			break
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fetched.Body))
		if err != nil {
			return businesses, fmt.Errorf("pkt parse: %w", err)
		}

		cards := doc.Find("div.search-result-item, article.company, div.result-item, li.search-result, div[data-id]")
		if cards.Length() == 0 {
			cards = doc.Find("div.company-box, div.firm-item")
		}
		if cards.Length() == 0 {
			break
		}

		cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
			if len(businesses) >= max {
				return false
			}
			if business, ok := s.parseCard(card, industry); ok {
				businesses = append(businesses, business)
				s.client.PauseRange(ctx, time.Second, 2*time.Second)
			}
			return ctx.Err() == nil
		})

		if ctx.Err() != nil {
			return businesses, ctx.Err()
		}
		if doc.Find("a.next, a[rel='next'], li.pagination-next a, a.pagination__next").Length() == 0 {
			break
		}
		s.client.PauseRange(ctx, 3*time.Second, 5*time.Second)
	}

	return businesses, nil
}

func (s *PKTScraper) parseCard(card *goquery.Selection, industry string) (entity.Business, bool) {
	nameElem := card.Find("h2 a, h3 a, .company-name, .firm-name, a.title, .name a").First()
	if nameElem.Length() == 0 {
		nameElem = card.Find("a[href*='/firma/']").First()
	}
	name := extract.Normalize(nameElem.Text())
	if name == "" {
		return entity.Business{}, false
	}

	address := extract.Normalize(card.Find(".address, .location, .firma-address, span.street").First().Text())
	if cityText := extract.Normalize(card.Find(".city, .miasto").First().Text()); cityText != "" && !strings.Contains(address, cityText) {
		if address != "" {
			address = address + ", " + cityText
		} else {
			address = cityText
		}
	}

	phone := phoneFromSelection(card.Find(".phone, .tel, .telefon, a[href^='tel:']").First())
	phone = telPrefixPattern.ReplaceAllString(phone, "")

	tier := ContactTier{
		Address: address,
		Phone:   phone,
		Email:   emailFromSelection(card.Find("a[href^='mailto:']").First()),
	}

	if href, ok := card.Find("a.www, a.website, a[target='_blank'][href^='http']").First().Attr("href"); ok {
		tier.Website = href
	}
	if tier.Website == "" {
		// Some cards mention the site only in plain text.
		if m := bareWWWPattern.FindString(card.Text()); m != "" {
			tier.Website = "https://" + m
		}
	}

	return s.assembler.Assemble(name, industry, entity.SourcePKT, tier)
}

// FetchProfile loads a company profile page and assembles a full record from
// its structured contact block plus a whole-page scan.
func (s *PKTScraper) FetchProfile(ctx context.Context, profileURL, industry string) (entity.Business, error) {
	fetched, err := s.client.Fetch(ctx, profileURL)
	if err != nil {
		return entity.Business{}, fmt.Errorf("pkt profile: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fetched.Body))
	if err != nil {
		return entity.Business{}, fmt.Errorf("pkt profile parse: %w", err)
	}

	name := extract.Normalize(doc.Find("h1, .company-name, .firma-name").First().Text())
	if name == "" {
		return entity.Business{}, fmt.Errorf("pkt profile: no company name at %s", profileURL)
	}

	structured := ContactTier{
		Address: doc.Find("address, .address, [itemprop='address']").First().Text(),
	}
	if href, ok := doc.Find("a[data-type='www'], a.website-link").First().Attr("href"); ok {
		structured.Website = href
	}

	business, _ := s.assembler.Assemble(name, industry, entity.SourcePKT, structured, s.assembler.ScanTier(fetched.Body))
	return business, nil
}

package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/octobees/lead-scanner/internal/entity"
	"github.com/octobees/lead-scanner/internal/extract"
)

const panoramaBaseURL = "https://panoramafirm.pl"

// PanoramaScraper pulls business listings from panoramafirm.pl, one of the
// largest Polish business directories.
type PanoramaScraper struct {
	client    *Client
	assembler *Assembler
	baseURL   string
}

// NewPanoramaScraper builds the adapter. An empty baseURL selects the live site.
func NewPanoramaScraper(client *Client, assembler *Assembler, baseURL string) *PanoramaScraper {
	if baseURL == "" {
		baseURL = panoramaBaseURL
	}
	return &PanoramaScraper{
		client:    client,
		assembler: assembler,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Source identifies records produced by this adapter.
func (s *PanoramaScraper) Source() entity.Source { return entity.SourcePanoramaFirm }

// Search walks the directory's result pages for one industry and returns up
// to max assembled records. Failures on individual cards are skipped.
func (s *PanoramaScraper) Search(ctx context.Context, industry, city string, max int) ([]entity.Business, error) {
	var businesses []entity.Business

	for page := 1; len(businesses) < max; page++ {
		searchURL := fmt.Sprintf("%s/szukaj?k=%s&l=%s&p=%d",
			s.baseURL, url.QueryEscape(industry), url.QueryEscape(strings.ToLower(city)), page)

		fetched, err := s.client.Fetch(ctx, searchURL)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("panorama search: %w", err)
			}
			break
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fetched.Body))
		if err != nil {
			return businesses, fmt.Errorf("panorama parse: %w", err)
		}

		cards := doc.Find("div.company-item, article.company-item, div.search-result")
		if cards.Length() == 0 {
			cards = doc.Find("div[data-company-id], a.company-link")
		}
		if cards.Length() == 0 {
			break
		}

		cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
			if len(businesses) >= max {
				return false
			}
			business, ok := s.parseCard(ctx, card, industry)
			if !ok {
				return true
			}
			businesses = append(businesses, business)
			s.client.Pause(ctx)
			return ctx.Err() == nil
		})

		if ctx.Err() != nil {
			return businesses, ctx.Err()
		}
		if doc.Find("a.pagination-next, a[rel='next'], li.next a").Length() == 0 {
			break
		}
		s.client.PauseRange(ctx, 3*time.Second, 6*time.Second)
	}

	return businesses, nil
}

func (s *PanoramaScraper) parseCard(ctx context.Context, card *goquery.Selection, industry string) (entity.Business, bool) {
	nameElem := card.Find("h2 a, h3 a, .company-name a, .name a, a[title]").First()
	name := extract.Normalize(nameElem.Text())
	if name == "" {
		return entity.Business{}, false
	}

	cardTier := ContactTier{
		Address: card.Find(".address, .company-address, span[itemprop='address'], .location").First().Text(),
		Phone:   phoneFromSelection(card.Find(".phone, .tel, a[href^='tel:'], span[itemprop='telephone']").First()),
		Email:   emailFromSelection(card.Find("a[href^='mailto:']").First()),
	}
	if href, ok := card.Find("a.website, a.www").First().Attr("href"); ok {
		cardTier.Website = href
	}

	tiers := []ContactTier{cardTier}
	if detailURL := s.detailURL(nameElem); detailURL != "" {
		if detailTiers, ok := s.fetchDetail(ctx, detailURL); ok {
			tiers = append(detailTiers, cardTier)
		}
	}

	return s.assembler.Assemble(name, industry, entity.SourcePanoramaFirm, tiers...)
}

// fetchDetail loads the company's profile page and returns its tiers, the
// scoped contact container first, then the whole-page scan.
func (s *PanoramaScraper) fetchDetail(ctx context.Context, detailURL string) ([]ContactTier, bool) {
	fetched, err := s.client.Fetch(ctx, detailURL)
	if err != nil {
		return nil, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fetched.Body))
	if err != nil {
		return nil, false
	}

	contact := doc.Find(".company-contact, .contact-data, section.contact, address").First()
	structured := ContactTier{
		Address: contact.Find("span[itemprop='streetAddress'], .address").First().Text(),
		Phone:   phoneFromSelection(contact.Find("span[itemprop='telephone'], a[href^='tel:'], .phone").First()),
		Email:   emailFromSelection(contact.Find("a[href^='mailto:']").First()),
	}
	if structured.Address == "" {
		structured.Address = contact.Text()
	}
	if href, ok := doc.Find("a[data-stat-id='www'], a.company-www").First().Attr("href"); ok {
		structured.Website = href
	}

	pageScan := s.assembler.ScanTier(fetched.Body)
	return []ContactTier{structured, pageScan}, true
}

func (s *PanoramaScraper) detailURL(nameElem *goquery.Selection) string {
	href, ok := nameElem.Attr("href")
	if !ok || href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return s.baseURL + "/" + strings.TrimPrefix(href, "/")
}

func phoneFromSelection(sel *goquery.Selection) string {
	phone := extract.Normalize(sel.Text())
	if phone == "" {
		if href, ok := sel.Attr("href"); ok {
			phone = strings.TrimPrefix(href, "tel:")
		}
	}
	return phone
}

func emailFromSelection(sel *goquery.Selection) string {
	if href, ok := sel.Attr("href"); ok {
		return strings.TrimPrefix(href, "mailto:")
	}
	return ""
}

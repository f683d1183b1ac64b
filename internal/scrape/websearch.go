package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/octobees/lead-scanner/internal/entity"
	"github.com/octobees/lead-scanner/internal/extract"
)

const searchBaseURL = "https://html.duckduckgo.com/html"

// WebSearchScraper is a fallback source built on a general HTML search
// endpoint. Result snippets carry enough contact data for thin leads, and
// businesses found here often lack directory entries entirely.
type WebSearchScraper struct {
	client    *Client
	assembler *Assembler
	baseURL   string
}

// NewWebSearchScraper builds the adapter. An empty baseURL selects the live endpoint.
func NewWebSearchScraper(client *Client, assembler *Assembler, baseURL string) *WebSearchScraper {
	if baseURL == "" {
		baseURL = searchBaseURL
	}
	return &WebSearchScraper{client: client, assembler: assembler, baseURL: strings.TrimRight(baseURL, "/")}
}

// Source identifies records produced by this adapter.
func (s *WebSearchScraper) Source() entity.Source { return entity.SourceSearch }

// Search queries for "<industry> <city>" and assembles one candidate per
// organic result. Snippet-only records are later filtered by the retention
// rule if they carry no contact channel.
func (s *WebSearchScraper) Search(ctx context.Context, industry, city string, max int) ([]entity.Business, error) {
	query := url.QueryEscape(industry + " " + city)
	fetched, err := s.client.Fetch(ctx, fmt.Sprintf("%s/?q=%s", s.baseURL, query))
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fetched.Body))
	if err != nil {
		return nil, fmt.Errorf("web search parse: %w", err)
	}

	var businesses []entity.Business
	doc.Find("div.result").EachWithBreak(func(_ int, result *goquery.Selection) bool {
		if len(businesses) >= max {
			return false
		}

		title := extract.Normalize(result.Find("a.result__a").First().Text())
		name := businessNameFromTitle(title)
		if name == "" {
			return true
		}

		snippet := result.Find(".result__snippet").Text()
		tier := s.assembler.ScanTier(snippet)
		if href, ok := result.Find("a.result__a").First().Attr("href"); ok {
			tier.Website = resolveSearchRedirect(href)
		}

		if business, ok := s.assembler.Assemble(name, industry, entity.SourceSearch, tier); ok {
			businesses = append(businesses, business)
		}
		return ctx.Err() == nil
	})

	return businesses, ctx.Err()
}

// businessNameFromTitle strips the page-title boilerplate after the first
// separator, leaving the leading business name.
func businessNameFromTitle(title string) string {
	for _, sep := range []string{" - ", " – ", " | "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
			break
		}
	}
	return strings.TrimSpace(title)
}

// resolveSearchRedirect unwraps the search engine's redirect wrapper so the
// classifier sees the target host rather than the engine's own domain.
func resolveSearchRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

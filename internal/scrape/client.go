package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/octobees/lead-scanner/internal/config"
)

const (
	maxFetchAttempts = 3
	fetchTimeout     = 30 * time.Second
)

// ErrBlocked indicates the remote host refused the request outright.
var ErrBlocked = errors.New("access forbidden, likely blocked")

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Page is the result of one successful fetch.
type Page struct {
	Body       string
	FinalURL   string
	StatusCode int
}

// HTTPDoer abstracts the underlying HTTP client for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches directory pages with browser-like headers, bounded retries
// and a randomized politeness delay between requests. The delay is a scraping
// courtesy toward the directories, not a performance knob.
type Client struct {
	http  HTTPDoer
	delay config.DelayRange
	rng   *rand.Rand
	sleep func(context.Context, time.Duration)
}

// ClientOption configures optional dependencies.
type ClientOption func(*Client)

// WithHTTPDoer overrides the default HTTP client.
func WithHTTPDoer(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithSleeper overrides how the client waits, so tests run instantly.
func WithSleeper(sleep func(context.Context, time.Duration)) ClientOption {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewClient builds a fetch client honoring the configured delay range.
func NewClient(delay config.DelayRange, opts ...ClientOption) *Client {
	c := &Client{
		http:  &http.Client{Timeout: fetchTimeout},
		delay: delay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads one page, retrying transient failures with exponential
// backoff. A 403 aborts immediately; a 429 waits longer before retrying.
func (c *Client) Fetch(ctx context.Context, url string) (Page, error) {
	backoff := 2 * time.Second
	var lastErr error

	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(ctx, backoff)
			backoff *= 2
		}

		page, err := c.fetchOnce(ctx, url)
		if err == nil {
			return page, nil
		}
		if errors.Is(err, ErrBlocked) || ctx.Err() != nil {
			return Page{}, err
		}
		lastErr = err
	}

	return Page{}, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.sleep(ctx, 30*time.Second)
		return Page{}, errors.New("rate limited")
	case resp.StatusCode == http.StatusForbidden:
		return Page{}, ErrBlocked
	case resp.StatusCode >= 400:
		return Page{}, fmt.Errorf("http status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, err
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return Page{Body: string(body), FinalURL: finalURL, StatusCode: resp.StatusCode}, nil
}

// Pause sleeps for a random duration within the configured range. Called
// between consecutive fetches to avoid hammering the directories.
func (c *Client) Pause(ctx context.Context) {
	c.PauseRange(ctx, c.delay.Min, c.delay.Max)
}

// PauseRange sleeps for a random duration within [min, max].
func (c *Client) PauseRange(ctx context.Context, min, max time.Duration) {
	if max <= min {
		if min > 0 {
			c.sleep(ctx, min)
		}
		return
	}
	d := min + time.Duration(c.rng.Int63n(int64(max-min)))
	c.sleep(ctx, d)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[c.rng.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "max-age=0")
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

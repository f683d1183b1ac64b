package scrape

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/octobees/lead-scanner/internal/config"
)

type scriptedDoer struct {
	statuses []int
	calls    int
	lastReq  *http.Request
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	d.lastReq = req
	status := d.statuses[d.calls]
	d.calls++
	if status == 0 {
		return nil, errors.New("connection reset")
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("<html>ok</html>")),
		Request:    req,
	}, nil
}

func noSleep(context.Context, time.Duration) {}

func newTestClient(doer HTTPDoer) *Client {
	return NewClient(config.DelayRange{Min: time.Millisecond, Max: 2 * time.Millisecond},
		WithHTTPDoer(doer), WithSleeper(noSleep))
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{0, 500, 200}}
	c := newTestClient(doer)

	page, err := c.Fetch(context.Background(), "https://panoramafirm.pl/szukaj")
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if doer.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", doer.calls)
	}
	if page.StatusCode != 200 || page.Body == "" {
		t.Fatalf("unexpected page: %#v", page)
	}
}

func TestFetchAbortsOnForbidden(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{403, 200}}
	c := newTestClient(doer)

	_, err := c.Fetch(context.Background(), "https://pkt.pl/szukaj")
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if doer.calls != 1 {
		t.Fatalf("403 must not be retried, got %d attempts", doer.calls)
	}
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{500, 500, 500}}
	c := newTestClient(doer)

	_, err := c.Fetch(context.Background(), "https://example.pl")
	if err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
	if doer.calls != maxFetchAttempts {
		t.Fatalf("expected %d attempts, got %d", maxFetchAttempts, doer.calls)
	}
}

func TestFetchSetsBrowserHeaders(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{200}}
	c := newTestClient(doer)

	if _, err := c.Fetch(context.Background(), "https://example.pl"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	ua := doer.lastReq.Header.Get("User-Agent")
	if !strings.Contains(ua, "Mozilla/5.0") {
		t.Fatalf("expected browser-like user agent, got %q", ua)
	}
	if doer.lastReq.Header.Get("Accept-Language") == "" {
		t.Fatal("expected Accept-Language header")
	}
}

func TestPauseStaysWithinRange(t *testing.T) {
	var slept []time.Duration
	c := NewClient(config.DelayRange{Min: 10 * time.Millisecond, Max: 20 * time.Millisecond},
		WithHTTPDoer(&scriptedDoer{}),
		WithSleeper(func(_ context.Context, d time.Duration) { slept = append(slept, d) }))

	for i := 0; i < 50; i++ {
		c.Pause(context.Background())
	}
	for _, d := range slept {
		if d < 10*time.Millisecond || d >= 20*time.Millisecond {
			t.Fatalf("pause %v outside configured range", d)
		}
	}
}

package webcheck

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/octobees/lead-scanner/internal/config"
)

func TestIsCompanyDomain(t *testing.T) {
	c := NewClassifier(config.DefaultRules())

	tests := []struct {
		url  string
		want bool
	}{
		{"", false},
		{"https://facebook.com/somepage", false},
		{"https://www.panoramafirm.pl/restauracja", false},
		{"booking.com/hotel/pl/xyz", false},
		{"https://example-bakery.pl", true},
		{"example-bakery.pl", true},
		{"https://onet.pl/firma", true},
	}

	for _, tc := range tests {
		if got := c.IsCompanyDomain(tc.url); got != tc.want {
			t.Errorf("IsCompanyDomain(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

type stubResolver struct {
	hosts map[string]bool
}

func (s *stubResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if s.hosts[host] {
		return []string{"198.51.100.7"}, nil
	}
	return nil, errors.New("no such host")
}

type stubHTTPClient struct {
	calls     int
	responses map[string]stubResponse
}

type stubResponse struct {
	status int
	body   string
	err    error
}

func (s *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	s.calls++
	key := req.URL.String()
	r, ok := s.responses[key]
	if !ok {
		return nil, errors.New("unexpected request: " + key)
	}
	if r.err != nil {
		return nil, r.err
	}
	return &http.Response{
		StatusCode: r.status,
		Body:       io.NopCloser(strings.NewReader(r.body)),
		Request:    req,
	}, nil
}

func newTestChecker(resolver DNSResolver, client HTTPClient) *Checker {
	return NewChecker(config.DefaultRules(), WithResolver(resolver), WithHTTPClient(client))
}

func livePage() string {
	return "<html><body><h1>Piekarnia Kowalski</h1><p>" + strings.Repeat("Świeże pieczywo codziennie od 6 rano. ", 10) + "</p></body></html>"
}

func TestCheckEmptyURL(t *testing.T) {
	c := newTestChecker(&stubResolver{}, &stubHTTPClient{})
	status := c.Check(context.Background(), "  ")
	if status.Exists || status.IsActive || status.Error != "empty url" {
		t.Fatalf("unexpected status for empty url: %#v", status)
	}
}

func TestCheckRejectsNonCompanyDomainWithoutNetwork(t *testing.T) {
	client := &stubHTTPClient{}
	c := newTestChecker(&stubResolver{}, client)

	status := c.Check(context.Background(), "https://facebook.com/piekarnia")
	if status.Exists || status.IsCompanySite {
		t.Fatalf("expected rejection, got %#v", status)
	}
	if status.Error != "not a company site" {
		t.Fatalf("unexpected error tag: %q", status.Error)
	}
	if client.calls != 0 {
		t.Fatalf("expected no HTTP calls, got %d", client.calls)
	}
}

func TestCheckDNSFailureSkipsHTTP(t *testing.T) {
	client := &stubHTTPClient{}
	c := newTestChecker(&stubResolver{hosts: map[string]bool{}}, client)

	status := c.Check(context.Background(), "https://nie-istnieje.pl")
	if status.Exists || status.IsActive {
		t.Fatalf("expected exists=false for unresolved host, got %#v", status)
	}
	if status.Error != "dns failure" {
		t.Fatalf("unexpected error tag: %q", status.Error)
	}
	if client.calls != 0 {
		t.Fatalf("HTTP layer must not be invoked on DNS failure, got %d calls", client.calls)
	}
}

func TestCheckHTTPErrorStatus(t *testing.T) {
	client := &stubHTTPClient{responses: map[string]stubResponse{
		"https://firma.pl": {status: 404, body: "not found"},
	}}
	c := newTestChecker(&stubResolver{hosts: map[string]bool{"firma.pl": true}}, client)

	status := c.Check(context.Background(), "https://firma.pl")
	if status.Exists || status.IsActive {
		t.Fatalf("expected dead site, got %#v", status)
	}
	if status.StatusCode != 404 || !strings.HasPrefix(status.Error, "http error") {
		t.Fatalf("unexpected status: %#v", status)
	}
}

func TestCheckDetectsParkingPage(t *testing.T) {
	client := &stubHTTPClient{responses: map[string]stubResponse{
		"https://firma.pl": {status: 200, body: "Domain for sale. Contact owner."},
	}}
	c := newTestChecker(&stubResolver{hosts: map[string]bool{"firma.pl": true}}, client)

	status := c.Check(context.Background(), "https://firma.pl")
	if !status.Exists || status.IsActive || status.IsCompanySite {
		t.Fatalf("expected parked page to exist but be inactive, got %#v", status)
	}
	if status.Error != "parked" {
		t.Fatalf("unexpected error tag: %q", status.Error)
	}
}

func TestCheckDetectsThinContentAsParked(t *testing.T) {
	client := &stubHTTPClient{responses: map[string]stubResponse{
		"https://firma.pl": {status: 200, body: "<html><body><p>Witamy</p></body></html>"},
	}}
	c := newTestChecker(&stubResolver{hosts: map[string]bool{"firma.pl": true}}, client)

	status := c.Check(context.Background(), "https://firma.pl")
	if !status.Exists || status.IsActive || status.Error != "parked" {
		t.Fatalf("expected thin page flagged as parked, got %#v", status)
	}
}

func TestCheckDetectsPlaceholderPage(t *testing.T) {
	body := "<html><body><p>Lorem ipsum dolor sit amet. " + strings.Repeat("Przykładowa treść strony. ", 10) + "</p></body></html>"
	client := &stubHTTPClient{responses: map[string]stubResponse{
		"https://firma.pl": {status: 200, body: body},
	}}
	c := newTestChecker(&stubResolver{hosts: map[string]bool{"firma.pl": true}}, client)

	status := c.Check(context.Background(), "https://firma.pl")
	if !status.Exists || status.IsActive || status.Error != "placeholder" {
		t.Fatalf("expected placeholder detection, got %#v", status)
	}
}

func TestCheckConfirmsLiveSite(t *testing.T) {
	client := &stubHTTPClient{responses: map[string]stubResponse{
		"https://firma.pl": {status: 200, body: livePage()},
	}}
	c := newTestChecker(&stubResolver{hosts: map[string]bool{"firma.pl": true}}, client)

	status := c.Check(context.Background(), "firma.pl")
	if !status.Confirmed() {
		t.Fatalf("expected confirmed live site, got %#v", status)
	}
	if status.URL != "https://firma.pl" {
		t.Fatalf("expected scheme prepended, got %q", status.URL)
	}
	if status.Error != "" {
		t.Fatalf("unexpected error tag: %q", status.Error)
	}
}

func TestCheckRetriesOverPlainHTTPOnTLSFailure(t *testing.T) {
	client := &stubHTTPClient{responses: map[string]stubResponse{
		"https://firma.pl": {err: &tls.CertificateVerificationError{Err: errors.New("x509: certificate expired")}},
		"http://firma.pl":  {status: 200, body: livePage()},
	}}
	c := newTestChecker(&stubResolver{hosts: map[string]bool{"firma.pl": true}}, client)

	status := c.Check(context.Background(), "https://firma.pl")
	if !status.Exists || !status.IsActive || !status.IsCompanySite {
		t.Fatalf("expected http fallback to succeed, got %#v", status)
	}
	if status.Error != "tls error, fell back to http" {
		t.Fatalf("unexpected error tag: %q", status.Error)
	}
	if client.calls != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", client.calls)
	}
}

func TestCheckConnectionFailureIsNotRetried(t *testing.T) {
	client := &stubHTTPClient{responses: map[string]stubResponse{
		"https://firma.pl": {err: errors.New("connection refused")},
	}}
	c := newTestChecker(&stubResolver{hosts: map[string]bool{"firma.pl": true}}, client)

	status := c.Check(context.Background(), "https://firma.pl")
	if status.Exists || status.Error != "connection failed" {
		t.Fatalf("unexpected status: %#v", status)
	}
	if client.calls != 1 {
		t.Fatalf("connection failures must not be retried here, got %d calls", client.calls)
	}
}

package webcheck

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/octobees/lead-scanner/internal/config"
	"github.com/octobees/lead-scanner/internal/entity"
)

const defaultCheckTimeout = 10 * time.Second

// Error tags recorded in WebsiteStatus. Network failures are captured here
// and never escape to the caller.
const (
	errEmptyURL         = "empty url"
	errNotCompanySite   = "not a company site"
	errDNSFailure       = "dns failure"
	errHTTPError        = "http error"
	errParked           = "parked"
	errPlaceholder      = "placeholder"
	errTimeout          = "timeout"
	errTLSFailure       = "tls failure"
	errConnectionFailed = "connection failed"
	errTLSFallback      = "tls error, fell back to http"
)

var tagStripPattern = regexp.MustCompile(`<[^>]+>`)

// DNSResolver abstracts host resolution to simplify testing.
type DNSResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// HTTPClient abstracts HTTP requests for checking purposes.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Checker verifies that a URL serves a live, genuine company website rather
// than a parked domain or a template placeholder.
//
// Certificate verification is deliberately relaxed: many small-business sites
// carry broken certificates, and availability detection matters more here
// than transport security. A successful check is not a security attestation.
type Checker struct {
	classifier  *Classifier
	parking     []*regexp.Regexp
	placeholder []*regexp.Regexp
	minVisible  int
	resolver    DNSResolver
	client      HTTPClient
	timeout     time.Duration
}

// CheckerOption configures optional dependencies.
type CheckerOption func(*Checker)

// WithResolver overrides the default DNS resolver.
func WithResolver(resolver DNSResolver) CheckerOption {
	return func(c *Checker) {
		c.resolver = resolver
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPClient) CheckerOption {
	return func(c *Checker) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout bounds each outbound request.
func WithTimeout(timeout time.Duration) CheckerOption {
	return func(c *Checker) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewChecker builds a checker from the configured heuristics.
func NewChecker(rules config.Rules, opts ...CheckerOption) *Checker {
	c := &Checker{
		classifier: NewClassifier(rules),
		minVisible: rules.MinVisibleTextLen,
		resolver:   systemResolver{},
		timeout:    defaultCheckTimeout,
	}
	for _, raw := range rules.ParkingPatterns {
		if re, err := regexp.Compile(raw); err == nil {
			c.parking = append(c.parking, re)
		}
	}
	for _, raw := range rules.PlaceholderPatterns {
		if re, err := regexp.Compile(raw); err == nil {
			c.placeholder = append(c.placeholder, re)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}
	return c
}

// Check runs the full verification pipeline for one URL. Every path is
// terminal; the result is a fresh WebsiteStatus consumed by the caller.
func (c *Checker) Check(ctx context.Context, rawURL string) entity.WebsiteStatus {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return entity.WebsiteStatus{Error: errEmptyURL}
	}

	checkURL := normalizeURL(rawURL)

	if !c.classifier.IsCompanyDomain(checkURL) {
		return entity.WebsiteStatus{URL: checkURL, Error: errNotCompanySite}
	}

	// Resolve before issuing the request so non-existent domains fail fast
	// and uniformly, without an HTTP attempt.
	host := hostOf(checkURL)
	if host == "" {
		return entity.WebsiteStatus{URL: checkURL, Error: errDNSFailure}
	}
	if _, err := c.resolver.LookupHost(ctx, host); err != nil {
		return entity.WebsiteStatus{URL: checkURL, Error: errDNSFailure}
	}

	resp, finalURL, err := c.get(ctx, checkURL)
	if err != nil {
		switch {
		case isTimeout(err):
			return entity.WebsiteStatus{URL: checkURL, Error: errTimeout}
		case isTLSError(err):
			return c.retryOverHTTP(ctx, checkURL)
		default:
			return entity.WebsiteStatus{URL: checkURL, Error: errConnectionFailed}
		}
	}

	if resp.statusCode >= 400 {
		return entity.WebsiteStatus{
			URL:        checkURL,
			StatusCode: resp.statusCode,
			Error:      errHTTPError + " " + strconv.Itoa(resp.statusCode),
		}
	}

	redirect := ""
	if finalURL != checkURL {
		redirect = finalURL
	}

	if c.isParkingPage(resp.body) {
		return entity.WebsiteStatus{
			URL:         checkURL,
			Exists:      true,
			StatusCode:  resp.statusCode,
			RedirectURL: redirect,
			Error:       errParked,
		}
	}
	if c.isPlaceholderPage(resp.body) {
		return entity.WebsiteStatus{
			URL:        checkURL,
			Exists:     true,
			StatusCode: resp.statusCode,
			Error:      errPlaceholder,
		}
	}

	return entity.WebsiteStatus{
		URL:           checkURL,
		Exists:        true,
		IsActive:      true,
		IsCompanySite: true,
		StatusCode:    resp.statusCode,
		RedirectURL:   redirect,
	}
}

type checkResponse struct {
	statusCode int
	body       string
}

func (c *Checker) get(ctx context.Context, target string) (checkResponse, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return checkResponse{}, "", err
	}
	setBrowserHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return checkResponse{}, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return checkResponse{}, "", err
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return checkResponse{statusCode: resp.StatusCode, body: string(body)}, finalURL, nil
}

// retryOverHTTP downgrades to plain HTTP once after a TLS failure. Some live
// small-business sites only misconfigured their certificates.
func (c *Checker) retryOverHTTP(ctx context.Context, httpsURL string) entity.WebsiteStatus {
	httpURL := strings.Replace(httpsURL, "https://", "http://", 1)
	resp, _, err := c.get(ctx, httpURL)
	if err != nil {
		return entity.WebsiteStatus{URL: httpsURL, Error: errTLSFailure}
	}
	return entity.WebsiteStatus{
		URL:           httpsURL,
		Exists:        true,
		IsActive:      resp.statusCode < 400,
		IsCompanySite: resp.statusCode < 400 && !c.isParkingPage(resp.body),
		StatusCode:    resp.statusCode,
		Error:         errTLSFallback,
	}
}

func (c *Checker) isParkingPage(body string) bool {
	lowered := strings.ToLower(body)
	for _, re := range c.parking {
		if re.MatchString(lowered) {
			return true
		}
	}
	// Parking pages are often near-empty once markup is stripped.
	visible := strings.Join(strings.Fields(tagStripPattern.ReplaceAllString(body, " ")), " ")
	return len(visible) < c.minVisible
}

func (c *Checker) isPlaceholderPage(body string) bool {
	lowered := strings.ToLower(body)
	for _, re := range c.placeholder {
		if re.MatchString(lowered) {
			return true
		}
	}
	return false
}

func normalizeURL(raw string) string {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTLSError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return true
	}
	var authErr x509.UnknownAuthorityError
	if errors.As(err, &authErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &invalidErr)
}

var browserUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", browserUserAgents[int(time.Now().UnixNano())%len(browserUserAgents)])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7")
}

type systemResolver struct{}

func (systemResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return net.DefaultResolver.LookupHost(ctx, host)
}

// Package export writes finished scans to operator-facing formats. CSV uses
// semicolons and a UTF-8 BOM so Polish Excel opens it without an import
// wizard.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/octobees/lead-scanner/internal/entity"
	"github.com/octobees/lead-scanner/internal/message"
	"github.com/octobees/lead-scanner/internal/service"
)

var csvHeaders = []string{
	"Nazwa firmy",
	"Branża",
	"Adres",
	"Telefon",
	"Email",
	"Facebook",
	"Instagram",
	"LinkedIn",
	"Strona WWW",
	"Ma stronę?",
	"Źródło",
}

// Exporter writes scan results under a single output directory.
type Exporter struct {
	outputDir string
	format    string
	now       func() time.Time
}

// Option configures optional exporter behavior.
type Option func(*Exporter)

// WithClock overrides the timestamp source used in file names.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an exporter. format selects the Write output, "csv" or "json".
func New(outputDir, format string) (*Exporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", "csv":
		format = "csv"
	case "json":
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return &Exporter{outputDir: outputDir, format: format, now: time.Now}, nil
}

// NewWithOptions builds an exporter with overrides, used by tests.
func NewWithOptions(outputDir, format string, opts ...Option) (*Exporter, error) {
	e, err := New(outputDir, format)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Write persists the scan in the configured format and returns the file path.
func (e *Exporter) Write(summary service.ScanSummary) (string, error) {
	stem := fmt.Sprintf("firmy_%s_%s", strings.ToLower(summary.City), e.now().Format("20060102_150405"))
	switch e.format {
	case "json":
		return e.WriteJSON(summary, stem)
	default:
		return e.WriteCSV(summary, stem)
	}
}

// WriteCSV writes a semicolon-separated sheet with Polish column headers.
func (e *Exporter) WriteCSV(summary service.ScanSummary, stem string) (string, error) {
	path := filepath.Join(e.outputDir, stem+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	// BOM first so Excel detects UTF-8.
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", err
	}

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write(csvHeaders); err != nil {
		return "", err
	}
	for _, b := range summary.Businesses {
		if err := w.Write(csvRow(b)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return path, nil
}

func csvRow(b entity.Business) []string {
	hasSite := "Nie"
	if b.HasWebsite {
		hasSite = "Tak"
	}
	return []string{
		b.Name,
		b.Industry,
		b.Address,
		message.DisplayPhone(b.Phone),
		b.Email,
		b.Facebook,
		b.Instagram,
		b.LinkedIn,
		b.Website,
		hasSite,
		string(b.Source),
	}
}

// WriteJSON writes the whole summary as one document.
func (e *Exporter) WriteJSON(summary service.ScanSummary, stem string) (string, error) {
	path := filepath.Join(e.outputDir, stem+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create json: %w", err)
	}
	defer f.Close()

	doc := struct {
		GeneratedAt time.Time         `json:"generated_at"`
		TotalCount  int               `json:"total_count"`
		Location    string            `json:"location"`
		Businesses  []entity.Business `json:"businesses"`
	}{
		GeneratedAt: e.now().UTC(),
		TotalCount:  len(summary.Businesses),
		Location:    summary.City,
		Businesses:  summary.Businesses,
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("write json: %w", err)
	}
	return path, nil
}

// WriteSummary writes the plain-text statistics sheet.
func (e *Exporter) WriteSummary(summary service.ScanSummary, stem string) (string, error) {
	path := filepath.Join(e.outputDir, stem+".txt")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create summary: %w", err)
	}
	defer f.Close()

	total := len(summary.Businesses)
	var withEmail, withPhone, withFacebook, withInstagram, withoutSite int
	byIndustry := make(map[string]int)
	for _, b := range summary.Businesses {
		if b.Email != "" {
			withEmail++
		}
		if b.Phone != "" {
			withPhone++
		}
		if b.Facebook != "" {
			withFacebook++
		}
		if b.Instagram != "" {
			withInstagram++
		}
		if !b.HasWebsite {
			withoutSite++
		}
		industry := b.Industry
		if industry == "" {
			industry = "Inne"
		}
		byIndustry[industry]++
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintf(f, "%s\nPODSUMOWANIE SKANOWANIA FIRM - %s\n%s\n\n", rule, strings.ToUpper(summary.City), rule)
	fmt.Fprintf(f, "Data: %s\n\n", e.now().Format("2006-01-02 15:04"))

	fmt.Fprintf(f, "STATYSTYKI OGÓLNE:\n%s\n", strings.Repeat("-", 30))
	fmt.Fprintf(f, "Łączna liczba firm: %d\n", total)
	fmt.Fprintf(f, "Firmy BEZ strony www: %d (%s)\n", withoutSite, percent(withoutSite, total))
	fmt.Fprintf(f, "Firmy z emailem: %d (%s)\n", withEmail, percent(withEmail, total))
	fmt.Fprintf(f, "Firmy z telefonem: %d (%s)\n", withPhone, percent(withPhone, total))
	fmt.Fprintf(f, "Firmy z Facebook: %d (%s)\n", withFacebook, percent(withFacebook, total))
	fmt.Fprintf(f, "Firmy z Instagram: %d (%s)\n\n", withInstagram, percent(withInstagram, total))

	fmt.Fprintf(f, "PODZIAŁ NA BRANŻE:\n%s\n", strings.Repeat("-", 30))
	industries := make([]string, 0, len(byIndustry))
	for industry := range byIndustry {
		industries = append(industries, industry)
	}
	sort.Slice(industries, func(i, j int) bool {
		if byIndustry[industries[i]] != byIndustry[industries[j]] {
			return byIndustry[industries[i]] > byIndustry[industries[j]]
		}
		return industries[i] < industries[j]
	})
	for _, industry := range industries {
		fmt.Fprintf(f, "  %s: %d\n", industry, byIndustry[industry])
	}

	return path, nil
}

func percent(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

package export

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/octobees/lead-scanner/internal/entity"
	"github.com/octobees/lead-scanner/internal/message"
	"github.com/octobees/lead-scanner/internal/service"
)

const (
	sheetsClearRange = "Firmy!A:K"
	sheetsWriteRange = "Firmy!A1"
)

// SheetsExporter pushes scan results into a shared Google Sheet so the sales
// team can work the leads without touching the server's output directory.
type SheetsExporter struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsExporter builds the exporter. Credentials come from the ambient
// environment unless overridden with explicit client options.
func NewSheetsExporter(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsExporter, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets exporter: spreadsheet id is required")
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets exporter: %w", err)
	}
	return &SheetsExporter{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Export replaces the sheet's contents with the scan results, header row
// included.
func (e *SheetsExporter) Export(ctx context.Context, summary service.ScanSummary) error {
	values := make([][]interface{}, 0, len(summary.Businesses)+1)

	header := make([]interface{}, len(csvHeaders))
	for i, h := range csvHeaders {
		header[i] = h
	}
	values = append(values, header)

	for _, b := range summary.Businesses {
		values = append(values, sheetRow(b))
	}

	clear := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, sheetsClearRange, &sheets.ClearValuesRequest{})
	if _, err := clear.Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	update := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, sheetsWriteRange, &sheets.ValueRange{Values: values})
	if _, err := update.ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}
	return nil
}

func sheetRow(b entity.Business) []interface{} {
	hasSite := "Nie"
	if b.HasWebsite {
		hasSite = "Tak"
	}
	return []interface{}{
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

package sink

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pfrederiksen/espn-lines/internal/game"
)

// SpreadsheetsScope grants read/write access to the user's spreadsheets
const SpreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// DefaultSheetsRange covers the five row columns; appends land after the table found there
const DefaultSheetsRange = "A:E"

// SheetsConfig holds everything the Google Sheets sink needs
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	TokenFile       string
	Scopes          []string
	Range           string
}

// SheetsSink appends rows to a Google Sheets spreadsheet
type SheetsSink struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	rangeName     string
}

// NewSheetsSink creates a SheetsSink. With no client options the credentials in cfg are
// used, which may run the interactive consent flow on first use.
func NewSheetsSink(ctx context.Context, cfg SheetsConfig, opts ...option.ClientOption) (*SheetsSink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}
	if cfg.Range == "" {
		cfg.Range = DefaultSheetsRange
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{SpreadsheetsScope}
	}

	if len(opts) == 0 {
		client, err := authorizedClient(ctx, cfg, os.Stdin, os.Stderr)
		if err != nil {
			return nil, err
		}
		opts = []option.ClientOption{option.WithHTTPClient(client)}
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsSink{
		values:        srv.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		rangeName:     cfg.Range,
	}, nil
}

// Name returns "sheets"
func (s *SheetsSink) Name() string { return "sheets" }

// Append adds rows after the last row of the table found in the configured range
func (s *SheetsSink) Append(ctx context.Context, rows []game.Row) error {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Values())
	}

	_, err := s.values.Append(s.spreadsheetID, s.rangeName, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending to spreadsheet %s: %w", s.spreadsheetID, err)
	}
	return nil
}

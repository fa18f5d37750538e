package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"codeberg.org/snonux/ivrit/internal/record"
)

// SheetsWriter writes records into a Google Sheets spreadsheet
type SheetsWriter struct {
	service       *sheets.Service
	spreadsheetID string
	diagnostics   bool
	logger        *zap.Logger
}

// NewSheetsWriter creates a Google Sheets writer. spreadsheet is a
// spreadsheet ID or URL. Service account credentials are read from
// credentialsPath or, when empty, from GOOGLE_SHEETS_CREDENTIALS.
func NewSheetsWriter(ctx context.Context, spreadsheet, credentialsPath string, diagnostics bool, logger *zap.Logger) (*SheetsWriter, error) {
	credsJSON, err := readCredentials(credentialsPath)
	if err != nil {
		return nil, err
	}
	return NewSheetsWriterWithOptions(ctx, spreadsheet, diagnostics, logger, option.WithCredentialsJSON(credsJSON))
}

// NewSheetsWriterWithOptions creates a Google Sheets writer with explicit client options
func NewSheetsWriterWithOptions(ctx context.Context, spreadsheet string, diagnostics bool, logger *zap.Logger, opts ...option.ClientOption) (*SheetsWriter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	spreadsheetID := spreadsheet
	if id := ExtractSpreadsheetID(spreadsheet); id != "" {
		spreadsheetID = id
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required for the sheets output format")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsWriter{
		service:       service,
		spreadsheetID: spreadsheetID,
		diagnostics:   diagnostics,
		logger:        logger,
	}, nil
}

func readCredentials(credentialsPath string) ([]byte, error) {
	var credsJSON []byte
	if credentialsPath != "" {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		credsJSON = data
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}
	return credsJSON, nil
}

// Export replaces the content of the Words sheet with the records
func (w *SheetsWriter) Export(ctx context.Context, records []record.Record) error {
	values := [][]interface{}{toRow(record.Headers(w.diagnostics))}
	for _, r := range records {
		values = append(values, toRow(r.Row(w.diagnostics)))
	}

	clearRange := SheetName + "!A1:E"
	if _, err := w.service.Spreadsheets.Values.Clear(w.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		w.logger.Warn("Failed to clear existing data", zap.Error(err))
	}

	_, err := w.service.Spreadsheets.Values.Update(w.spreadsheetID, SheetName+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write to sheets: %w", err)
	}

	w.logger.Info("Wrote records to Google Sheets",
		zap.Int("records", len(records)),
		zap.String("spreadsheet", w.spreadsheetID))
	return nil
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL,
// e.g. https://docs.google.com/spreadsheets/d/ID/edit?usp=sharing
func ExtractSpreadsheetID(url string) string {
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.IndexAny(idPart, "/?#"); idx != -1 {
		idPart = idPart[:idx]
	}
	return strings.TrimSpace(idPart)
}

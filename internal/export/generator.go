package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"codeberg.org/snonux/ivrit/internal/record"
)

// Supported output formats
const (
	FormatXLSX   = "xlsx"
	FormatCSV    = "csv"
	FormatSheets = "sheets"
)

// SheetName is the worksheet the records are written to
const SheetName = "Words"

// Options configures the file export
type Options struct {
	OutputPath     string // Output file path
	Format         string // xlsx or csv, derived from OutputPath when empty
	IncludeHeaders bool   // Write the header row
	Diagnostics    bool   // Add the notes column
}

// DefaultOptions returns sensible defaults
func DefaultOptions() *Options {
	return &Options{
		OutputPath:     "updated_file.xlsx",
		Format:         FormatXLSX,
		IncludeHeaders: true,
	}
}

// FormatFromPath returns the output format implied by a file extension
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// Generator renders records into a spreadsheet file
type Generator struct {
	options *Options
	records []record.Record
}

// NewGenerator creates a new generator
func NewGenerator(options *Options) *Generator {
	if options == nil {
		options = DefaultOptions()
	}
	if options.Format == "" {
		options.Format = FormatFromPath(options.OutputPath)
	}
	return &Generator{
		options: options,
		records: make([]record.Record, 0),
	}
}

// AddRecord adds a record to the table
func (g *Generator) AddRecord(r record.Record) {
	g.records = append(g.records, r)
}

// GetRecords returns the records added so far
func (g *Generator) GetRecords() []record.Record {
	return g.records
}

// Export writes records to the output file in the configured format. The
// context is not consulted: a file export always completes, so a cancelled
// batch still leaves a full table with its failed rows.
func (g *Generator) Export(_ context.Context, records []record.Record) error {
	for _, r := range records {
		g.AddRecord(r)
	}
	return g.Generate()
}

// Generate writes the output file in the configured format
func (g *Generator) Generate() error {
	switch g.options.Format {
	case FormatXLSX:
		return g.GenerateXLSX()
	case FormatCSV:
		return g.GenerateCSV()
	default:
		return fmt.Errorf("unsupported output format: %s", g.options.Format)
	}
}

// rows returns the table as text cells, header first
func (g *Generator) rows() [][]string {
	rows := make([][]string, 0, len(g.records)+1)
	if g.options.IncludeHeaders {
		rows = append(rows, record.Headers(g.options.Diagnostics))
	}
	for _, r := range g.records {
		rows = append(rows, r.Row(g.options.Diagnostics))
	}
	return rows
}

// GenerateCSV creates the CSV output file
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	return g.WriteCSV(file)
}

// WriteCSV writes the table as CSV
func (g *Generator) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	for _, row := range g.rows() {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// GenerateXLSX creates the xlsx output file
func (g *Generator) GenerateXLSX() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	defer file.Close()

	return g.WriteXLSX(file)
}

// WriteXLSX writes the table as an xlsx workbook
func (g *Generator) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := g.rows()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := g.styleSheet(f, len(rows)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// styleSheet makes the header bold and wraps the examples column
func (g *Generator) styleSheet(f *excelize.File, rowCount int) error {
	columns := len(record.Headers(g.options.Diagnostics))
	lastColumn, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}

	if err := f.SetColWidth(SheetName, "A", "C", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "D", lastColumn, 60); err != nil {
		return err
	}

	firstDataRow := 1
	if g.options.IncludeHeaders {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, "A1", lastColumn+"1", bold); err != nil {
			return err
		}
		firstDataRow = 2
	}

	if rowCount < firstDataRow {
		return nil
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(SheetName,
		fmt.Sprintf("A%d", firstDataRow),
		fmt.Sprintf("%s%d", lastColumn, rowCount),
		wrap)
}

// Stats returns statistics about the record table
func (g *Generator) Stats() (total, complete, withNotes int) {
	complete, withNotes = record.Stats(g.records)
	return len(g.records), complete, withNotes
}

// Package export writes enriched records as a spreadsheet: an xlsx workbook,
// a CSV file, or a Google Sheets spreadsheet.
package export

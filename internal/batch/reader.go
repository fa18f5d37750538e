// Package batch reads the list of words to enrich from an xlsx workbook,
// a CSV file or a plain text file.
package batch

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWords reads words from a file. The format is chosen by extension:
//   - .xlsx: first column of the first sheet, no header row
//   - .csv: first field of every record
//   - anything else: one word per line
//
// Surrounding whitespace is trimmed and empty cells or lines are skipped.
func ReadWords(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer file.Close()

	return ReadWordsFrom(file, filename)
}

// ReadWordsFrom reads words from r; name only selects the format
func ReadWordsFrom(r io.Reader, name string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return readXLSX(r)
	case ".csv":
		return readCSV(r)
	default:
		return readLines(r)
	}
}

func readXLSX(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	var words []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if word := strings.TrimSpace(row[0]); word != "" {
			words = append(words, word)
		}
	}
	return words, nil
}

func readCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var words []string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		if len(rec) == 0 {
			continue
		}
		if word := strings.TrimSpace(rec[0]); word != "" {
			words = append(words, word)
		}
	}
	return words, nil
}

func readLines(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for first := true; scanner.Scan(); first = false {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if word := strings.TrimSpace(line); word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return words, nil
}

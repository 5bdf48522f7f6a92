package dispatch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// RecipientSource supplies the raw recipient dataset for a batch dispatch
type RecipientSource interface {
	Load() ([]RawRecipientRow, error)
}

// CSVSource loads recipients from a CSV file with a header row. Columns
// email, fullname and username are matched case-insensitively; missing
// columns and cells become empty strings.
type CSVSource struct {
	Path string
}

// NewCSVSource creates a CSV-backed recipient source
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Load reads and parses the CSV file
func (s *CSVSource) Load() ([]RawRecipientRow, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipients file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows may be ragged

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse recipients file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Map header columns to field indexes
	emailIdx, fullnameIdx, usernameIdx := -1, -1, -1
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "email":
			emailIdx = i
		case "fullname":
			fullnameIdx = i
		case "username":
			usernameIdx = i
		}
	}
	if emailIdx == -1 {
		return nil, fmt.Errorf("recipients file has no email column")
	}

	rows := make([]RawRecipientRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, RawRecipientRow{
			Email:    cell(record, emailIdx),
			FullName: cell(record, fullnameIdx),
			Username: cell(record, usernameIdx),
		})
	}

	return rows, nil
}

// cell returns the value at idx or an empty string when the column is
// missing from this row
func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

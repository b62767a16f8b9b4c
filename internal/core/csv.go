package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when a file contains no rows at all.
var ErrEmptyInput = errors.New("empty file")

// ParsePositionalCSV tokenizes CSV whose columns are identified by position.
// Rows may have any number of fields; blank lines are skipped.
func ParsePositionalCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return records, nil
}

// parseHeaderedCSV tokenizes CSV whose first (post-skip) row is a header.
// Every data row must have exactly as many fields as the header.
func parseHeaderedCSV(data []byte, opts CSVOptions) (HeaderIndex, [][]string, int, error) {
	data = skipLeadingLines(data, opts.SkipLines)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = opts.delimiter()
	r.FieldsPerRecord = 0
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, 0, ErrEmptyInput
	}

	return MakeHeaderIndex(records[0]), records[1:], opts.SkipLines + 1, nil
}

// skipLeadingLines drops the first n physical lines.
func skipLeadingLines(data []byte, n int) []byte {
	for i := 0; i < n && len(data) > 0; i++ {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			return nil
		}
		data = data[nl+1:]
	}
	return data
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

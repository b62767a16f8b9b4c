package core

// convert.go provides conversion helpers for payroll CSV cells.
//
// These functions handle the messy reality of payroll exports:
//   - Day-first Irish date formats alongside ISO dates
//   - Currency symbols and thousand separators in salaries
//   - Accounting negatives "(123.45)"
//   - Excel formula prefixes (="value") and stray quotes
//
// Dates are parsed into pgtype.Date so Valid=false marks empty or unreadable
// input; amounts are parsed into decimal.Decimal so monetary sums are exact.

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned for text that is not a plain decimal number.
	ErrInvalidAmount = errors.New("invalid number")

	// ErrNegativeAmount is returned where only non-negative money is allowed.
	ErrNegativeAmount = errors.New("negative amount")
)

// numericRegex validates that a string is a plain decimal after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling.
// Slash, dash and dot layouts are day-first, as exported by Irish payroll.
var (
	twoDigitYearLayouts = []string{
		"2/1/06", "02/01/06", "2-1-06", "2.1.06", "02.01.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"2/1/2006", "02/01/2006", "2-1-2006", "02-01-2006", "2.1.2006", "02.01.2006",
		"2 Jan 2006", "02 Jan 2006", "Jan 2, 2006",
		"20060102",
	}
)

// ISODate is the layout dates are normalized to.
const ISODate = "2006-01-02"

// ToPgDate converts a string to pgtype.Date.
// Supports multiple date formats and handles 2-digit years with pivot.
func ToPgDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{Valid: false}
	}

	for _, layout := range fourDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return pgtype.Date{Time: t, Valid: true}
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot

	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return pgtype.Date{Time: t, Valid: true}
		}
	}

	return pgtype.Date{Valid: false}
}

// NormalizeDate rewrites a recognised date as YYYY-MM-DD.
// Empty input is returned unchanged with ok=true; unrecognised input is
// returned unchanged with ok=false.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	d := ToPgDate(s)
	if !d.Valid {
		return s, false
	}
	return d.Time.Format(ISODate), true
}

// ParseAmount converts a cell to a decimal amount.
// Handles currency symbols, thousands separators, and accounting format
// (parentheses for negative).
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if !numericRegex.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	s = strings.TrimPrefix(s, "+")
	if strings.HasPrefix(s, "-") {
		isNegative = !isNegative
		s = s[1:]
	}
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if isNegative {
		d = d.Neg()
	}
	return d, nil
}

// ParseMoney is ParseAmount restricted to non-negative values.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNegativeAmount, strings.TrimSpace(s))
	}
	return d, nil
}

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// Cell returns the cleaned value of the named column, or "" when the column
// is absent from the header or the row is short.
func (h HeaderIndex) Cell(row []string, name string) string {
	pos, ok := h[strings.ToLower(name)]
	if !ok || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}

// Has reports whether the header contains the named column.
func (h HeaderIndex) Has(name string) bool {
	_, ok := h[strings.ToLower(name)]
	return ok
}

// CleanCell trims whitespace from a cell value and unwraps Excel's
// text-forcing formula (="...") when it spans the whole cell.
// Quotes, apostrophes and a bare leading '=' are part of the value.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if len(s) >= 3 && strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}

	return s
}

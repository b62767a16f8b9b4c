package core

// generic.go maps CSV files that already use canonical column names.
//
// Unlike the vendor importers this path has no per-row recovery. The input is
// expected to come from a trusted, schema-conforming source, so the first
// malformed row fails the whole call and no partial result is returned.
// Missing optional columns yield empty fields; the id column falls back to a
// type-specific alternate name (employee_id, employer_id, contribution_id).

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wallyben/autoenroll-core/internal/model"
)

// ParseError reports a cell the generic mapper could not convert.
type ParseError struct {
	Line   int    // 1-based physical line of the row, counting skipped lines
	Column string // Header name
	Value  string // Raw cell text
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// rowFunc converts one data row. line is the row's 1-based line number.
type rowFunc[T any] func(idx HeaderIndex, row []string, line int) (T, error)

func importRows[T any](data []byte, opts CSVOptions, fn rowFunc[T]) ([]T, error) {
	data, err := DecodeInput(data, opts.Encoding)
	if err != nil {
		return nil, err
	}

	idx, rows, firstLine, err := parseHeaderedCSV(data, opts)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		rec, err := fn(idx, row, firstLine+i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ImportEmployees maps an employee CSV into canonical employees.
func ImportEmployees(data []byte, opts CSVOptions) ([]model.Employee, error) {
	return importRows(data, opts, func(idx HeaderIndex, row []string, line int) (model.Employee, error) {
		salary, err := optionalMoney(idx, row, line, "salary")
		if err != nil {
			return model.Employee{}, err
		}

		return model.Employee{
			ID:                  idOrFallback(idx, row, "employee_id"),
			EmployerID:          idx.Cell(row, "employer_id"),
			FirstName:           idx.Cell(row, "first_name"),
			LastName:            idx.Cell(row, "last_name"),
			PPSNumber:           idx.Cell(row, "pps_number"),
			DateOfBirth:         normalizedDate(idx, row, "date_of_birth"),
			Email:               idx.Cell(row, "email"),
			Phone:               idx.Cell(row, "phone"),
			Address:             addressFrom(idx, row),
			EmploymentStartDate: normalizedDate(idx, row, "employment_start_date"),
			Salary:              salary,
		}, nil
	})
}

// ImportEmployers maps an employer CSV into canonical employers.
func ImportEmployers(data []byte, opts CSVOptions) ([]model.Employer, error) {
	return importRows(data, opts, func(idx HeaderIndex, row []string, _ int) (model.Employer, error) {
		return model.Employer{
			ID:        idOrFallback(idx, row, "employer_id"),
			Name:      idx.Cell(row, "name"),
			TaxNumber: idx.Cell(row, "tax_number"),
			Address:   addressFrom(idx, row),
		}, nil
	})
}

// ImportContributions maps a contribution CSV into canonical contributions.
// Any total column in the file is ignored: the total is always computed.
func ImportContributions(data []byte, opts CSVOptions) ([]model.Contribution, error) {
	return importRows(data, opts, func(idx HeaderIndex, row []string, line int) (model.Contribution, error) {
		employeeAmount, err := requiredMoney(idx, row, line, "employee_amount")
		if err != nil {
			return model.Contribution{}, err
		}
		employerAmount, err := requiredMoney(idx, row, line, "employer_amount")
		if err != nil {
			return model.Contribution{}, err
		}

		return model.NewContribution(
			idOrFallback(idx, row, "contribution_id"),
			idx.Cell(row, "employee_id"),
			idx.Cell(row, "employer_id"),
			normalizedDate(idx, row, "period_start"),
			normalizedDate(idx, row, "period_end"),
			employeeAmount,
			employerAmount,
		), nil
	})
}

func idOrFallback(idx HeaderIndex, row []string, fallback string) string {
	if id := idx.Cell(row, "id"); id != "" {
		return id
	}
	return idx.Cell(row, fallback)
}

func addressFrom(idx HeaderIndex, row []string) model.Address {
	country := idx.Cell(row, "country")
	if country == "" {
		country = model.DefaultCountry
	}
	return model.Address{
		Line1:      idx.Cell(row, "address_line1"),
		Line2:      idx.Cell(row, "address_line2"),
		City:       idx.Cell(row, "city"),
		County:     NormalizeCounty(idx.Cell(row, "county")),
		PostalCode: NormalizeEircode(idx.Cell(row, "postal_code")),
		Country:    country,
	}
}

// normalizedDate returns the column as YYYY-MM-DD when it is a recognised
// date and verbatim otherwise.
func normalizedDate(idx HeaderIndex, row []string, col string) string {
	d, _ := NormalizeDate(idx.Cell(row, col))
	return d
}

func optionalMoney(idx HeaderIndex, row []string, line int, col string) (decimal.NullDecimal, error) {
	raw := idx.Cell(row, col)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := ParseMoney(raw)
	if err != nil {
		return decimal.NullDecimal{}, &ParseError{Line: line, Column: col, Value: raw, Err: err}
	}
	return decimal.NewNullDecimal(d), nil
}

func requiredMoney(idx HeaderIndex, row []string, line int, col string) (decimal.Decimal, error) {
	raw := idx.Cell(row, col)
	d, err := ParseMoney(raw)
	if err != nil {
		return decimal.Zero, &ParseError{Line: line, Column: col, Value: raw, Err: err}
	}
	return d, nil
}

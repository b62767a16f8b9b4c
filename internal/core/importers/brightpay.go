package importers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wallyben/autoenroll-core/internal/core"
	"github.com/wallyben/autoenroll-core/internal/model"
)

// BrightPay exports are positional; the header row is skipped, not read.
const (
	bpEmployeeID = iota
	bpFirstName
	bpLastName
	bpEmail
	bpDateOfBirth
	bpStartDate
	bpSalary
	bpPPSN
)

// bpMinColumns is the fewest columns a row needs to carry the required fields.
const bpMinColumns = 3

func init() {
	core.RegisterImporter(core.ImporterFunc{Name: "brightpay", Fn: MapBrightPay})
}

// MapBrightPay maps a BrightPay employee export into employee records.
//
// Row defects never abort the batch: short rows and rows missing an id or
// name are skipped with a warning. A bad PPSN or salary is a warning in
// lenient mode (row kept) and an error in strict mode (row skipped).
func MapBrightPay(data []byte, opts core.ImportOptions) model.ImportResult {
	data, err := core.DecodeInput(data, opts.Encoding)
	if err != nil {
		return model.FailedImport(fmt.Sprintf("CSV Parse Error: %v", err), nil)
	}

	rows, err := core.ParsePositionalCSV(data)
	if err != nil {
		return model.FailedImport(fmt.Sprintf("CSV Parse Error: %v", err), nil)
	}
	if len(rows) == 0 {
		return model.FailedImport("CSV file is empty", nil)
	}

	var (
		employees []model.EmployeeRecord
		errs      []string
		warnings  []string
	)

	// Row 0 is the header.
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		if len(row) < bpMinColumns {
			warnings = append(warnings, fmt.Sprintf("Row %d: Insufficient columns, skipping", rowNum))
			continue
		}

		rec := model.EmployeeRecord{
			EmployeeID: cell(row, bpEmployeeID),
			FirstName:  cell(row, bpFirstName),
			LastName:   cell(row, bpLastName),
			Email:      cell(row, bpEmail),
			PPSN:       cell(row, bpPPSN),
		}

		if rec.EmployeeID == "" || rec.FirstName == "" || rec.LastName == "" {
			warnings = append(warnings, fmt.Sprintf("Row %d: Missing required fields (ID, First Name, or Last Name), skipping", rowNum))
			continue
		}

		if opts.ValidatePPSN && rec.PPSN != "" && !core.ValidatePPSN(rec.PPSN) {
			msg := fmt.Sprintf("Row %d: Invalid PPSN format: %s", rowNum, rec.PPSN)
			if opts.StrictMode {
				errs = append(errs, msg)
				continue
			}
			warnings = append(warnings, msg)
		}

		if raw := cell(row, bpSalary); raw != "" {
			salary, err := core.ParseMoney(raw)
			if err != nil {
				msg := fmt.Sprintf("Row %d: Invalid salary %q", rowNum, raw)
				if opts.StrictMode {
					errs = append(errs, msg)
					continue
				}
				warnings = append(warnings, msg)
			} else {
				rec.Salary = decimal.NewNullDecimal(salary)
			}
		}

		rec.DateOfBirth = dateCell(row, bpDateOfBirth, rowNum, "date of birth", &warnings)
		rec.StartDate = dateCell(row, bpStartDate, rowNum, "start date", &warnings)

		employees = append(employees, rec)
	}

	return model.NewImportResult(employees, errs, warnings)
}

// cell returns the cleaned value at pos, or "" when the row is short.
func cell(row []string, pos int) string {
	if pos >= len(row) {
		return ""
	}
	return core.CleanCell(row[pos])
}

// dateCell normalizes a date column to YYYY-MM-DD. Unrecognised dates are
// kept verbatim and noted.
func dateCell(row []string, pos, rowNum int, label string, warnings *[]string) string {
	raw := cell(row, pos)
	d, ok := core.NormalizeDate(raw)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf("Row %d: Unrecognised %s %q, kept as is", rowNum, label, strings.TrimSpace(raw)))
	}
	return d
}

// Package worm packages console import runs into write-once control archives.
//
// A run archive holds a single flattened CSV "control file" listing the
// employees of one import run. Archives land in a fixed submissions
// directory and are never overwritten in place: each write goes through a
// temporary file and an atomic rename.
package worm

import (
	"strings"

	"github.com/wallyben/autoenroll-core/internal/model"
)

// ControlHeader is the fixed header row of the control file.
var ControlHeader = []string{
	"Employee ID",
	"First Name",
	"Last Name",
	"Email",
	"Date of Birth",
	"Start Date",
	"Salary",
	"PPSN",
}

// ControlCSV renders employees as the control file. The header is unquoted;
// every data cell is double-quoted with embedded quotes doubled. Lines are
// separated by "\n" with no trailing newline.
func ControlCSV(employees []model.EmployeeRecord) string {
	lines := make([]string, 0, len(employees)+1)
	lines = append(lines, strings.Join(ControlHeader, ","))

	for _, e := range employees {
		salary := ""
		if e.Salary.Valid {
			salary = e.Salary.Decimal.String()
		}
		cells := []string{
			e.EmployeeID,
			e.FirstName,
			e.LastName,
			e.Email,
			e.DateOfBirth,
			e.StartDate,
			salary,
			e.PPSN,
		}
		for i, c := range cells {
			cells[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n")
}

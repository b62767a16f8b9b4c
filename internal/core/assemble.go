package core

import (
	"errors"
	"fmt"

	"github.com/wallyben/autoenroll-core/internal/model"
)

// ErrNilSubmission is returned when a nil submission is validated or packaged.
var ErrNilSubmission = errors.New("invalid submission: nil")

// Assemble combines the records of one employer and period into a Submission.
//
// With opts.Validate the result is checked by ValidateSubmission and every
// problem is returned as ValidationErrors. Without it no checks run at all and
// the caller owns the consistency of what it packages.
func Assemble(employerID, periodStart, periodEnd string, employees []model.Employee, contributions []model.Contribution, opts AssembleOptions) (*model.Submission, error) {
	if employees == nil {
		employees = []model.Employee{}
	}
	if contributions == nil {
		contributions = []model.Contribution{}
	}

	sub := &model.Submission{
		EmployerID:    employerID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Employees:     employees,
		Contributions: contributions,
	}

	if opts.Validate {
		if err := ValidateSubmission(sub); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// ValidateSubmission checks the structural and referential invariants of a
// submission. It returns nil or a ValidationErrors listing every problem.
func ValidateSubmission(sub *model.Submission) error {
	if sub == nil {
		return ErrNilSubmission
	}

	var errs ValidationErrors

	if sub.EmployerID == "" {
		errs.add("employerId", "", "employer ID is required")
	}
	if sub.PeriodStart == "" || sub.PeriodEnd == "" {
		errs.add("period", "", "period start and end dates are required")
	} else if start, end := ToPgDate(sub.PeriodStart), ToPgDate(sub.PeriodEnd); start.Valid && end.Valid && start.Time.After(end.Time) {
		errs.add("period", sub.PeriodStart+".."+sub.PeriodEnd, "period start must not be after period end")
	}
	if len(sub.Employees) == 0 {
		errs.add("employees", "", "at least one employee is required")
	}
	if len(sub.Contributions) == 0 {
		errs.add("contributions", "", "at least one contribution is required")
	}

	known := make(map[string]bool, len(sub.Employees))
	for _, e := range sub.Employees {
		known[e.ID] = true
		if e.EmployerID != "" && sub.EmployerID != "" && e.EmployerID != sub.EmployerID {
			errs.add("employees", e.ID, fmt.Sprintf("employee %s belongs to employer %s, not %s", e.ID, e.EmployerID, sub.EmployerID))
		}
	}

	for _, c := range sub.Contributions {
		if !known[c.EmployeeID] {
			errs.add("contributions", c.ID, fmt.Sprintf("contribution %s references unknown employee %q", c.ID, c.EmployeeID))
		}
		if c.EmployerID != "" && sub.EmployerID != "" && c.EmployerID != sub.EmployerID {
			errs.add("contributions", c.ID, fmt.Sprintf("contribution %s belongs to employer %s, not %s", c.ID, c.EmployerID, sub.EmployerID))
		}
		if start, end := ToPgDate(c.PeriodStart), ToPgDate(c.PeriodEnd); start.Valid && end.Valid && start.Time.After(end.Time) {
			errs.add("contributions", c.ID, fmt.Sprintf("contribution %s period start %s is after period end %s", c.ID, c.PeriodStart, c.PeriodEnd))
		}
		if !c.Balanced() {
			errs.add("contributions", c.ID, fmt.Sprintf("contribution %s total %s does not equal %s + %s",
				c.ID, c.TotalAmount, c.EmployeeAmount, c.EmployerAmount))
		}
		if c.EmployeeAmount.IsNegative() || c.EmployerAmount.IsNegative() {
			errs.add("contributions", c.ID, fmt.Sprintf("contribution %s has a negative amount", c.ID))
		}
	}

	return errs.err()
}

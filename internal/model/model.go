// Package model defines the canonical record shapes shared by every stage of
// the auto-enrolment pipeline: importers produce them, the assembler combines
// them and the packagers render them.
package model

import "github.com/shopspring/decimal"

// DefaultCountry is applied to addresses that do not name a country.
const DefaultCountry = "Ireland"

// Address is a postal address. Line1, City and PostalCode are required.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	County     string `json:"county,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Employer is the organisation a submission is made for.
type Employer struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	TaxNumber string  `json:"taxNumber"`
	Address   Address `json:"address"`
}

// Employee is one enrolled worker. Records are immutable once imported;
// re-importing a file produces new records.
type Employee struct {
	ID                  string              `json:"id"`
	EmployerID          string              `json:"employerId"`
	FirstName           string              `json:"firstName"`
	LastName            string              `json:"lastName"`
	PPSNumber           string              `json:"ppsNumber"`
	DateOfBirth         string              `json:"dateOfBirth"`
	Email               string              `json:"email,omitempty"`
	Phone               string              `json:"phone,omitempty"`
	Address             Address             `json:"address"`
	EmploymentStartDate string              `json:"employmentStartDate"`
	Salary              decimal.NullDecimal `json:"salary"`
}

// Contribution is the pension contribution for one employee over one period.
//
// TotalAmount is derived: it always equals EmployeeAmount + EmployerAmount.
// Build values with NewContribution rather than setting TotalAmount by hand.
type Contribution struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employeeId"`
	EmployerID     string          `json:"employerId"`
	PeriodStart    string          `json:"periodStart"`
	PeriodEnd      string          `json:"periodEnd"`
	EmployeeAmount decimal.Decimal `json:"employeeAmount"`
	EmployerAmount decimal.Decimal `json:"employerAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// NewContribution returns a Contribution with TotalAmount computed from its parts.
func NewContribution(id, employeeID, employerID, periodStart, periodEnd string, employeeAmount, employerAmount decimal.Decimal) Contribution {
	return Contribution{
		ID:             id,
		EmployeeID:     employeeID,
		EmployerID:     employerID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		EmployeeAmount: employeeAmount,
		EmployerAmount: employerAmount,
		TotalAmount:    employeeAmount.Add(employerAmount),
	}
}

// Balanced reports whether TotalAmount equals EmployeeAmount + EmployerAmount.
func (c Contribution) Balanced() bool {
	return c.TotalAmount.Equal(c.EmployeeAmount.Add(c.EmployerAmount))
}

// Submission is the canonical regulator submission for one employer and period.
type Submission struct {
	EmployerID    string         `json:"employerId"`
	PeriodStart   string         `json:"periodStart"`
	PeriodEnd     string         `json:"periodEnd"`
	Employees     []Employee     `json:"employees"`
	Contributions []Contribution `json:"contributions"`
}

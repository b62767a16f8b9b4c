package model

import "github.com/shopspring/decimal"

// EmployeeRecord is the flat employee shape produced by vendor importers and
// consumed by the control-file packager. Only EmployeeID, FirstName and
// LastName are guaranteed to be set.
type EmployeeRecord struct {
	EmployeeID  string              `json:"employeeId"`
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
	Email       string              `json:"email,omitempty"`
	DateOfBirth string              `json:"dateOfBirth,omitempty"`
	StartDate   string              `json:"startDate,omitempty"`
	Salary      decimal.NullDecimal `json:"salary"`
	PPSN        string              `json:"ppsn,omitempty"`
}

// ImportResult is the outcome of one vendor import.
//
// Success is true iff Errors is empty. RecordCount always equals
// len(Employees), including when Success is false.
type ImportResult struct {
	Success     bool             `json:"success"`
	RecordCount int              `json:"recordCount"`
	Employees   []EmployeeRecord `json:"employees"`
	Errors      []string         `json:"errors"`
	Warnings    []string         `json:"warnings"`
}

// NewImportResult builds a result from accumulated rows and messages,
// deriving Success and RecordCount so the two can never drift.
func NewImportResult(employees []EmployeeRecord, errs, warnings []string) ImportResult {
	if employees == nil {
		employees = []EmployeeRecord{}
	}
	if errs == nil {
		errs = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return ImportResult{
		Success:     len(errs) == 0,
		RecordCount: len(employees),
		Employees:   employees,
		Errors:      errs,
		Warnings:    warnings,
	}
}

// FailedImport is the result of an import that could not tokenize its input.
func FailedImport(message string, warnings []string) ImportResult {
	return NewImportResult(nil, []string{message}, warnings)
}

package model

import "time"

// ManifestVersion is the archive manifest format version.
const ManifestVersion = "1.0"

// ManifestTimeLayout renders GeneratedAt as an ISO-8601 UTC timestamp with
// millisecond precision.
const ManifestTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Manifest describes the contents of a submission archive.
type Manifest struct {
	Version           string `json:"version"`
	EmployerID        string `json:"employer_id"`
	PeriodStart       string `json:"period_start"`
	PeriodEnd         string `json:"period_end"`
	EmployeeCount     int    `json:"employee_count"`
	ContributionCount int    `json:"contribution_count"`
	GeneratedAt       string `json:"generated_at"`
}

// NewManifest describes sub as packaged at generatedAt.
func NewManifest(sub *Submission, generatedAt time.Time) Manifest {
	return Manifest{
		Version:           ManifestVersion,
		EmployerID:        sub.EmployerID,
		PeriodStart:       sub.PeriodStart,
		PeriodEnd:         sub.PeriodEnd,
		EmployeeCount:     len(sub.Employees),
		ContributionCount: len(sub.Contributions),
		GeneratedAt:       generatedAt.UTC().Format(ManifestTimeLayout),
	}
}

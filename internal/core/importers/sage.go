package importers

import "github.com/wallyben/autoenroll-core/internal/core"

// Sage exports are announced in the console but not mapped yet.
// TODO: map Sage Payroll's employee export once a sample file is available.
func init() {
	core.RegisterPlanned("sage")
}

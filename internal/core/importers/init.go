// Package importers registers all payroll vendor importers with the core
// registry. Import this package to ensure all sources are available.
package importers

// This file exists to provide a single import point.
// Each source file uses init() to register its importer.

package core

import "github.com/wallyben/autoenroll-core/internal/model"

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// Importer maps one payroll vendor's export into employee records.
// Implementations never panic or return an error: row-level problems are
// reported as warnings/errors in the result and a tokenizer failure yields
// a failed result with a single explanatory error.
type Importer interface {
	Source() string
	Map(data []byte, opts ImportOptions) model.ImportResult
}

// ImporterFunc adapts a plain function to the Importer interface.
type ImporterFunc struct {
	Name string
	Fn   func(data []byte, opts ImportOptions) model.ImportResult
}

// Source returns the vendor key.
func (f ImporterFunc) Source() string { return f.Name }

// Map runs the wrapped function.
func (f ImporterFunc) Map(data []byte, opts ImportOptions) model.ImportResult {
	return f.Fn(data, opts)
}

// ImportOptions controls vendor import strictness.
type ImportOptions struct {
	// ValidatePPSN enables the PPSN format check.
	ValidatePPSN bool
	// StrictMode turns recoverable row defects (bad PPSN, bad salary) into
	// errors that drop the row.
	StrictMode bool
	// Encoding names the input character set. Empty or "utf-8" means UTF-8;
	// "windows-1252" transcodes legacy exports.
	Encoding string
}

// CSVOptions controls the header-driven generic mapper.
type CSVOptions struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// SkipLines elides this many leading lines before the header row.
	SkipLines int
	// Encoding as for ImportOptions.
	Encoding string
}

// AssembleOptions controls submission assembly.
type AssembleOptions struct {
	// Validate enables structural and referential checks.
	Validate bool
}

func (o CSVOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// Command autoenroll runs the auto-enrolment pipeline from the command line:
// import payroll CSVs, assemble submissions and write regulator archives.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/wallyben/autoenroll-core/internal/core"
	_ "github.com/wallyben/autoenroll-core/internal/core/importers" // Register payroll sources
)

func main() {
	// Amounts go out as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		slog.Debug("command failed", "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		fmt.Fprintln(os.Stderr, "  detail:", err)
		os.Exit(1)
	}
}

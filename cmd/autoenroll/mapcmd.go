package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wallyben/autoenroll-core/internal/core"
)

type mapOptions struct {
	source       string
	validatePPSN bool
	strict       bool
	encoding     string
}

func newMapCmd(a *app) *cobra.Command {
	var opts mapOptions

	cmd := &cobra.Command{
		Use:   "map <file>",
		Short: "Map a payroll vendor export into employee records",
		Long: "Map a payroll vendor export into employee records.\n\n" +
			"Row problems are reported in the result's errors and warnings; the\n" +
			"command only fails when the source is unavailable or the file cannot be read.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("validate-ppsn") {
				opts.validatePPSN = a.cfg.Import.ValidatePPSN
			}
			if !cmd.Flags().Changed("strict") {
				opts.strict = a.cfg.Import.StrictMode
			}
			return a.runMap(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "brightpay", "Payroll source the file was exported from")
	cmd.Flags().BoolVar(&opts.validatePPSN, "validate-ppsn", true, "Check PPS number format (default: IMPORT_VALIDATE_PPSN)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Drop rows with an invalid PPSN or salary (default: IMPORT_STRICT_MODE)")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Input encoding (default: IMPORT_ENCODING)")

	return cmd
}

func (a *app) runMap(path string, opts mapOptions) error {
	imp, err := core.LookupImporter(opts.source)
	if err != nil {
		return err
	}

	data, err := readInput(path)
	if err != nil {
		return err
	}

	enc := opts.encoding
	if enc == "" {
		enc = a.cfg.Import.Encoding
	}

	result := imp.Map(data, core.ImportOptions{
		ValidatePPSN: opts.validatePPSN,
		StrictMode:   opts.strict,
		Encoding:     enc,
	})

	slog.Info("map finished",
		"source", imp.Source(),
		"records", result.RecordCount,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
	)
	return a.printJSON(result)
}

package main

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/wallyben/autoenroll-core/internal/core"
)

type importOptions struct {
	delimiter string
	skipLines int
	encoding  string
}

func newImportCmd(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:       "import <employees|employers|contributions> <file>",
		Short:     "Import canonical records from a header-named CSV file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"employees", "employers", "contributions"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.delimiter, "delimiter", ",", `Field delimiter; "\t" or "tab" for tab-separated files`)
	cmd.Flags().IntVar(&opts.skipLines, "skip-lines", 0, "Lines to skip before the header row")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Input encoding (default: IMPORT_ENCODING)")

	return cmd
}

func (a *app) runImport(kind, path string, opts importOptions) error {
	csvOpts, err := a.csvOptions(opts)
	if err != nil {
		return err
	}

	data, err := readInput(path)
	if err != nil {
		return err
	}

	var (
		out   any
		count int
	)
	switch kind {
	case "employees":
		records, err := core.ImportEmployees(data, csvOpts)
		if err != nil {
			return err
		}
		out, count = records, len(records)
	case "employers":
		records, err := core.ImportEmployers(data, csvOpts)
		if err != nil {
			return err
		}
		out, count = records, len(records)
	case "contributions":
		records, err := core.ImportContributions(data, csvOpts)
		if err != nil {
			return err
		}
		out, count = records, len(records)
	default:
		return fmt.Errorf("unknown record type %q: want employees, employers or contributions", kind)
	}

	slog.Info("import finished", "type", kind, "file", path, "records", count)
	return a.printJSON(out)
}

func (a *app) csvOptions(opts importOptions) (core.CSVOptions, error) {
	delim, err := parseDelimiter(opts.delimiter)
	if err != nil {
		return core.CSVOptions{}, err
	}
	if opts.skipLines < 0 {
		return core.CSVOptions{}, fmt.Errorf("--skip-lines must not be negative")
	}

	enc := opts.encoding
	if enc == "" {
		enc = a.cfg.Import.Encoding
	}
	return core.CSVOptions{Delimiter: delim, SkipLines: opts.skipLines, Encoding: enc}, nil
}

// parseDelimiter accepts a single character, or "\t" / "tab".
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("--delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

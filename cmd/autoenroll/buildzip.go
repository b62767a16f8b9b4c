package main

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wallyben/autoenroll-core/internal/core"
	"github.com/wallyben/autoenroll-core/internal/worm"
)

var errNoEmployees = errors.New("no employees provided")

type buildZipOptions struct {
	runID    string
	source   string
	dir      string
	encoding string
}

type buildZipOutput struct {
	ZipPath     string   `json:"zipPath"`
	RunID       string   `json:"runId"`
	RecordCount int      `json:"recordCount"`
	Warnings    []string `json:"warnings"`
	Errors      []string `json:"errors"`
}

func newBuildZipCmd(a *app) *cobra.Command {
	var opts buildZipOptions

	cmd := &cobra.Command{
		Use:   "build-zip <file>",
		Short: "Map a payroll export and write its run control archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuildZip(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Payroll run id (default: a new UUID)")
	cmd.Flags().StringVar(&opts.source, "source", "brightpay", "Payroll source the file was exported from")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Submissions directory (default: PACKAGE_SUBMISSIONS_DIR or ./.worm/submissions)")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Input encoding (default: IMPORT_ENCODING)")

	return cmd
}

func (a *app) runBuildZip(path string, opts buildZipOptions) error {
	runID := opts.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	if err := worm.CheckRunID(runID); err != nil {
		return err
	}

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
		ValidatePPSN: a.cfg.Import.ValidatePPSN,
		StrictMode:   a.cfg.Import.StrictMode,
		Encoding:     enc,
	})
	if result.RecordCount == 0 {
		for _, msg := range result.Errors {
			slog.Error("import error", "message", msg)
		}
		return errNoEmployees
	}

	dir := opts.dir
	if dir == "" {
		dir = a.cfg.Package.SubmissionsDir
	}

	zipPath, err := worm.Packager{Dir: dir}.BuildZip(runID, result.Employees)
	if err != nil {
		return err
	}

	slog.Info("control archive written", "run_id", runID, "path", zipPath, "records", result.RecordCount)
	return a.printJSON(buildZipOutput{
		ZipPath:     zipPath,
		RunID:       runID,
		RecordCount: result.RecordCount,
		Warnings:    result.Warnings,
		Errors:      result.Errors,
	})
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/wallyben/autoenroll-core/internal/model"
	"github.com/wallyben/autoenroll-core/internal/naersa"
)

type generateOptions struct {
	output     string
	noValidate bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate <submission.json>",
		Short: "Package a submission JSON document into a NAERSA archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.output, "output", naersa.DefaultOutputPath, "Output archive path")
	cmd.Flags().BoolVar(&opts.noValidate, "no-validate", false, "Skip submission validation")

	return cmd
}

func (a *app) runGenerate(path string, opts generateOptions) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}

	var sub model.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return fmt.Errorf("invalid submission %s: %w", path, err)
	}

	slog.Info("packaging submission",
		"employer_id", sub.EmployerID,
		"period_start", sub.PeriodStart,
		"period_end", sub.PeriodEnd,
		"employees", len(sub.Employees),
		"contributions", len(sub.Contributions),
	)

	return a.writeSubmission(&sub, opts.output, !opts.noValidate)
}

// writeSubmission packages sub at output and prints the archive path.
func (a *app) writeSubmission(sub *model.Submission, output string, validate bool) error {
	out, err := naersa.Packager{}.Package(sub, naersa.Options{OutputPath: output, Validate: validate})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, out)
	return err
}

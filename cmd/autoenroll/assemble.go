package main

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wallyben/autoenroll-core/internal/core"
	"github.com/wallyben/autoenroll-core/internal/model"
)

type assembleOptions struct {
	employerID    string
	periodStart   string
	periodEnd     string
	employees     string
	contributions string
	output        string
	noValidate    bool
	csv           importOptions
}

func newAssembleCmd(a *app) *cobra.Command {
	var opts assembleOptions

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble a submission from employee and contribution CSV files",
		Long: "Assemble a submission from employee and contribution CSV files.\n\n" +
			"Without --output the submission is printed as JSON; with --output it is\n" +
			"packaged into a NAERSA archive at that path.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAssemble(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.employerID, "employer-id", "", "Employer ID (required)")
	cmd.Flags().StringVar(&opts.periodStart, "period-start", "", "Period start date (required)")
	cmd.Flags().StringVar(&opts.periodEnd, "period-end", "", "Period end date (required)")
	cmd.Flags().StringVar(&opts.employees, "employees", "", "Employees CSV file (required)")
	cmd.Flags().StringVar(&opts.contributions, "contributions", "", "Contributions CSV file (required)")
	cmd.Flags().StringVar(&opts.output, "output", "", "Write a NAERSA archive here instead of printing JSON")
	cmd.Flags().BoolVar(&opts.noValidate, "no-validate", false, "Skip submission validation")
	cmd.Flags().StringVar(&opts.csv.delimiter, "delimiter", ",", "Field delimiter for both CSV files")
	cmd.Flags().IntVar(&opts.csv.skipLines, "skip-lines", 0, "Lines to skip before each header row")
	cmd.Flags().StringVar(&opts.csv.encoding, "encoding", "", "Input encoding (default: IMPORT_ENCODING)")

	for _, name := range []string{"employer-id", "period-start", "period-end", "employees", "contributions"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (a *app) runAssemble(ctx context.Context, opts assembleOptions) error {
	csvOpts, err := a.csvOptions(opts.csv)
	if err != nil {
		return err
	}

	var (
		employees     []model.Employee
		contributions []model.Contribution
	)

	// The two files are independent; read and map them in parallel.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := readInput(opts.employees)
		if err != nil {
			return err
		}
		employees, err = core.ImportEmployees(data, csvOpts)
		return err
	})
	g.Go(func() error {
		data, err := readInput(opts.contributions)
		if err != nil {
			return err
		}
		contributions, err = core.ImportContributions(data, csvOpts)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	validate := !opts.noValidate
	sub, err := core.Assemble(opts.employerID, opts.periodStart, opts.periodEnd, employees, contributions,
		core.AssembleOptions{Validate: validate})
	if err != nil {
		return err
	}

	if opts.output == "" {
		return a.printJSON(sub)
	}
	// Already validated above when requested
	return a.writeSubmission(sub, opts.output, false)
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wallyben/autoenroll-core/internal/config"
	"github.com/wallyben/autoenroll-core/internal/logging"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "autoenroll",
		Short:         "Irish pension auto-enrolment pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A .env file is optional; real environment variables win.
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			// stdout carries results, so logs go to stderr
			logging.SetupWriter(a.stderr, cfg.Logging.Level, cfg.Logging.Format)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newImportCmd(a),
		newMapCmd(a),
		newGenerateCmd(a),
		newAssembleCmd(a),
		newBuildZipCmd(a),
	)
	return root
}

// printJSON writes v to stdout as indented JSON.
func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.stdout, string(data))
	return err
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

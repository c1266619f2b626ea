package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/njchilds90/gosolve"
)

// Main runs the command line and returns the exit code.
func Main() int {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

type runFunction func(cmd *cobra.Command, log hclog.Logger, args []string) error

// mkRunE builds the logger from the global flags before running f.
func mkRunE(stderr io.Writer, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		level, err := logLevel(cmd)
		if err != nil {
			return err
		}
		log := hclog.New(&hclog.LoggerOptions{
			Name:       "gosolve",
			Level:      level,
			Output:     stderr,
			JSONFormat: flagLogJSON.Bool(cmd),
		})
		return f(cmd, log, args)
	}
}

// newRootCmd creates the base command when called without any subcommands
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gosolve",
		Short: "gosolve isolates unknowns in equations by inverting operations.",
		Long: `gosolve solves a single equation, or a triangular system of equations,
for designated unknowns. Each equation is solved for its unknown in turn and
the solution is substituted into the equations after it; the final values are
then evaluated from the last unknown to the first.

Equations are expression trees in the gosolve JSON form, for instance

	{"type": "pow", "base": {"type": "const", "name": "e"},
	 "exp": {"type": "var", "name": "x"}}

Unsupported algebraic forms are reported as errors, never approximated.`,
		SilenceUsage: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	addGlobalFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newSolveCmd(stderr),
		newServeCmd(stderr),
		newSchemaCmd(),
	)
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "print the tool schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), gosolve.MCPToolSpec())
			return nil
		},
	}
}

func validatePort(port int) error {
	var errs *multierror.Error
	if port <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("--%s must be positive, got %d", flagPort, port))
	}
	if port > 65535 {
		errs = multierror.Append(errs, fmt.Errorf("--%s must be at most 65535, got %d", flagPort, port))
	}
	return errs.ErrorOrNil()
}

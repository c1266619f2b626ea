package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/gosolve"
)

func newSolveCmd(stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "solve a system of equations",
		Long: `solve reads a system from FILE (YAML or JSON, "-" for stdin):

	equations:
	  - left:  {type: product, factors: [{type: num, value: 4}, {type: var, name: x}]}
	    right: {type: num, value: 20}
	unknowns: [x]

Equation i is solved for unknown i. The value of every unknown is printed
as "name = value", or as a JSON object with --json.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = mkRunE(stderr, runSolve)
	cmd.Flags().Bool(string(flagJSON), false, "print the values as JSON")
	return cmd
}

func runSolve(cmd *cobra.Command, log hclog.Logger, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	doc, err := decodeSystem(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	eqs, unknowns, err := gosolve.SystemFromParams(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	log.Debug("loaded system", "file", args[0], "equations", len(eqs))

	solver := &gosolve.SystemSolver{Logger: log.Named("solver")}
	if err := solver.Solve(eqs, unknowns); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON.Bool(cmd) {
		values := make(map[string]interface{}, len(unknowns))
		for _, u := range unknowns {
			values[u.Name()] = gosolve.JSONValue(u.Value())
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}
	for _, u := range unknowns {
		fmt.Fprintf(out, "%s = %g\n", u.Name(), u.Value())
	}
	return nil
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

// decodeSystem accepts YAML, and therefore JSON.
func decodeSystem(data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("empty document")
	}
	return doc, nil
}

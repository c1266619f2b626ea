package main

import (
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/njchilds90/gosolve/internal/server"
)

func newServeCmd(stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the tools over HTTP",
		Long: `serve runs an HTTP server exposing the gosolve tools:

	POST /tool    execute a tool call {"tool": "...", "params": {...}}
	GET  /schema  tool schema for agent registration
	GET  /health  liveness check

Every tool call uses its own variables; calls never share state.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = mkRunE(stderr, runServe)
	cmd.Flags().Int(string(flagPort), 8080, "port to listen on")
	return cmd
}

func runServe(cmd *cobra.Command, log hclog.Logger, args []string) error {
	port := flagPort.Int(cmd)
	if err := validatePort(port); err != nil {
		return err
	}
	return server.ListenAndServe(port, log)
}

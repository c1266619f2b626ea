package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Common flags
const (
	flagLogLevel flagName = "log-level"
	flagLogJSON  flagName = "log-json"
	flagJSON     flagName = "json"
	flagPort     flagName = "port"
)

const envLogLevel = "GOSOLVE_LOG_LEVEL"

func addGlobalFlags(f *pflag.FlagSet) {
	f.String(string(flagLogLevel), "",
		"log level (trace, debug, info, warn, error, off); defaults to $"+envLogLevel+" or warn")
	f.Bool(string(flagLogJSON), false,
		"write logs as JSON")
}

type flagName string

func (f flagName) Bool(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) String(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString(string(f))
	return v
}

func (f flagName) Int(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetInt(string(f))
	return v
}

// logLevel resolves the level from the flag, then the environment.
func logLevel(cmd *cobra.Command) (hclog.Level, error) {
	s := flagLogLevel.String(cmd)
	if s == "" {
		s = os.Getenv(envLogLevel)
	}
	if s == "" {
		return hclog.Warn, nil
	}
	level := hclog.LevelFromString(s)
	if level == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("invalid log level %q", strings.TrimSpace(s))
	}
	return level, nil
}

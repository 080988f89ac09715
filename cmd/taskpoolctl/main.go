// Command taskpoolctl drives a taskpool.Pool from the command line: run a
// synthetic workload against a configured pool, or benchmark its drain
// behavior.
//
// Build-time version injection via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"

	configFile string
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	root := buildRootCmd()
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskpoolctl",
		Short: "Drive a fixed-size worker pool from the command line",
		Long: `taskpoolctl runs and benchmarks a fixed-size worker pool:
- run submits a configured synthetic workload and serves Prometheus metrics
- bench times a drain cycle for one worker count, task count and task duration`,
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/default.yaml", "config file path")

	root.AddCommand(buildRunCmd())
	root.AddCommand(buildBenchCmd())

	return root
}

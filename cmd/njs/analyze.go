package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lukedgr/nodejstools/internal/driver"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] dir",
	Short: "Analyze a project directory to a fixed point",
	Long:  `Analyze parses every matching source file under dir, infers the value sets of all module-level bindings and prints a per-module summary`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("no-cache", false, "skip the export snapshot cache")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root := args[0]

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	opts := driver.AnalyzeOptions{
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
	}
	if !noCache {
		if cache, err := driver.OpenSnapCache("njs"); err == nil {
			opts.Cache = cache
		}
	}

	result, err := driver.AnalyzeDir(cmd.Context(), root, opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		printDiagnostics(os.Stderr, result, useColor(cmd, os.Stderr))
	}

	renderReport(os.Stdout, result, useColor(cmd, os.Stdout))

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, result.Timer.Summary())
	}

	if result.Bag.HasErrors() {
		os.Exit(1)
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lukedgr/nodejstools/internal/driver"
)

var queryCmd = &cobra.Command{
	Use:   "query [flags] dir file name",
	Short: "Ask for the inferred values of one name",
	Long:  `Query analyzes dir to a fixed point, then performs a one-shot eval-only lookup of name as seen from file's module scope. The lookup leaves the dependency graph untouched`,
	Args:  cobra.ExactArgs(3),
	RunE:  runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	root, file, name := args[0], args[1], args[2]

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.AnalyzeDir(cmd.Context(), root, driver.AnalyzeOptions{
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, file)
	}
	m := result.Analyzer.ModuleByPath(path)
	if m == nil {
		m = result.Analyzer.ModuleByPath(file)
	}
	if m == nil {
		return fmt.Errorf("no analyzed module for %q", file)
	}

	values := result.Analyzer.QueryName(m.Unit, name)
	if values.Empty() {
		fmt.Fprintf(os.Stdout, "%s: no known values\n", name)
		return nil
	}
	fmt.Fprintf(os.Stdout, "%s: %s\n", name, values)
	return nil
}

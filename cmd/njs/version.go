package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lukedgr/nodejstools/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show njs build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(os.Stdout, "njs %s\n", version.Version)
		if showFull, _ := cmd.Flags().GetBool("full"); showFull {
			if version.GitCommit != "" {
				fmt.Fprintf(os.Stdout, "commit: %s\n", version.GitCommit)
			}
			if version.BuildDate != "" {
				fmt.Fprintf(os.Stdout, "built:  %s\n", version.BuildDate)
			}
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
}

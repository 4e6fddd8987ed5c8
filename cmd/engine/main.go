package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dataDirFlag string

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "Find contact emails for a list of companies",
	Long: `engine looks up each company's website through web search, scans the
homepage and common contact pages for email addresses, and writes the
results next to the original rows.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "directory for config.yml, the database and the lock file (env ENRICH_DATA_DIR)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Command docindex drives the scrape/embed/store pipeline described in
// SPEC_FULL.md from the command line: scrape a source into a Store, run a
// one-shot hybrid search against it, or serve it over HTTP/MCP. Grounded on
// BumpyClock-hermes/cmd/parser/main.go's cobra root+subcommand shape
// (package-level flag vars, RunE functions) and internal/logging.New /
// config.LoadFile for the ambient logging/config stack.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docindex",
		Short: "Documentation scraper and hybrid retrieval store",
		Long:  "docindex scrapes library documentation into a hybrid full-text/vector SQLite store and serves it for retrieval.",
	}

	rootCmd.AddCommand(newScrapeCmd(), newSearchCmd(), newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "docindex:", err)
		os.Exit(1)
	}
}

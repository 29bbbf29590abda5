package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/traildex/docindex/embed"
	"github.com/traildex/docindex/store"
)

var (
	searchStorePath     string
	searchLibrary       string
	searchVersion       string
	searchLimit         int
	searchEmbedEndpoint string
	searchEmbedModel    string
	searchEmbedDim      int
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a one-shot hybrid search against an existing store",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().StringVar(&searchStorePath, "store", "docindex.db", "SQLite store path")
	cmd.Flags().StringVar(&searchLibrary, "library", "", "library to search within (required)")
	cmd.Flags().StringVar(&searchVersion, "version", "", "version to search within (optional)")
	cmd.Flags().IntVar(&searchLimit, "limit", 10, "max results")
	cmd.Flags().StringVar(&searchEmbedEndpoint, "embed-endpoint", "", "embedding server base URL (must match the one used to scrape)")
	cmd.Flags().StringVar(&searchEmbedModel, "embed-model", "", "embedding model name")
	cmd.Flags().IntVar(&searchEmbedDim, "embed-dimension", 768, "embedding vector dimension; must match the store")

	cmd.MarkFlagRequired("library")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	embedder := embed.New(embed.Config{
		Endpoint:  searchEmbedEndpoint,
		Model:     searchEmbedModel,
		Dimension: searchEmbedDim,
	})

	st, err := store.Open(searchStorePath, embedder.Dimension())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	docs, err := st.FindByContent(context.Background(), searchLibrary, searchVersion, query, searchLimit, embedder)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

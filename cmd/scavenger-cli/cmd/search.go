package cmd

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scavenger/screenshot-scavenger/internal/sink"
)

var searchQuery string

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the result index built by a previous run",
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "Bleve query string, e.g. 'text:password' or 'author:keyword'")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := globalConfig

	log.WithField("path", cfg.IndexPath).Info("opening result index")
	index, err := bleve.Open(cfg.IndexPath)
	if err != nil {
		if err == bleve.ErrorIndexPathDoesNotExist {
			return fmt.Errorf("search: no index at %s, run `scavenger-cli run` first", cfg.IndexPath)
		}
		return fmt.Errorf("search: opening index: %w", err)
	}
	defer index.Close()

	result, err := sink.Search(index, searchQuery)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	log.WithField("hits", len(result.Hits)).WithField("total", result.Total).WithField("took", result.Took).
		Info("search finished")

	if result.Total == 0 {
		fmt.Println("no results found matching your query")
		return nil
	}

	fmt.Println("--- Search Results ---")
	for i, hit := range result.Hits {
		fmt.Printf("[%d] ID: %s (Score: %.2f)\n", i+1, hit.ID, hit.Score)
		for field, value := range hit.Fields {
			fmt.Printf("  %s: %v\n", field, value)
		}
		fmt.Println("---")
	}
	return nil
}

// Package enrich implements the enrich command.
package enrich

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/aiwatch/cmd/common"
	"github.com/jonesrussell/aiwatch/internal/enrichment"
)

// Command returns the enrich command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Run one enrichment pass over unprocessed articles",
		Long: `Enrich summarizes, extracts entities from, and categorizes one
batch of unprocessed articles. Articles whose enrichment fails stay
unprocessed and are retried on the next pass.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			storage, err := cmdcommon.OpenStorage(cmd.Context(), deps.Config)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer storage.Close()

			pipeline := enrichment.NewPipeline(
				storage.Articles,
				enrichment.ExtractiveSummarizer{},
				enrichment.DictionaryEntityExtractor{},
				enrichment.KeywordCategorizer{},
				deps.Config.Enrichment.BatchSize,
				deps.Logger,
			)

			result, err := pipeline.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("enrichment pass failed: %w", err)
			}

			fmt.Printf("processed=%d failed=%d\n", result.Processed, result.Failed)
			return nil
		},
	}
}

// Package digest implements the digest command.
package digest

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/aiwatch/cmd/common"
	"github.com/jonesrussell/aiwatch/internal/digest"
)

// Command returns the digest command.
func Command() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Build the daily digest and refresh trends",
		Long: `Digest aggregates one day's processed articles into a daily
digest row and refreshes rolling trend counters. Rebuilding the same day
replaces the previous digest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().UTC()
			if dateFlag != "" {
				parsed, err := time.Parse("2006-01-02", dateFlag)
				if err != nil {
					return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD: %w", dateFlag, err)
				}
				date = parsed
			}

			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			storage, err := cmdcommon.OpenStorage(cmd.Context(), deps.Config)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer storage.Close()

			aggregator := digest.NewAggregator(storage.Articles, storage.Digests, deps.Logger)
			built, err := aggregator.Build(cmd.Context(), date)
			if err != nil {
				return fmt.Errorf("failed to build digest: %w", err)
			}

			fmt.Printf("digest for %s: %d articles\n",
				built.Date.Format("2006-01-02"), built.TotalArticles)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "digest date (YYYY-MM-DD, default today)")

	return cmd
}

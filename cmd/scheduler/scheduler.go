// Package scheduler implements the scheduler command.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/aiwatch/cmd/common"
	"github.com/jonesrussell/aiwatch/internal/crawler"
	"github.com/jonesrussell/aiwatch/internal/digest"
	"github.com/jonesrussell/aiwatch/internal/enrichment"
	"github.com/jonesrussell/aiwatch/internal/metrics"
	"github.com/jonesrussell/aiwatch/internal/scheduler"
)

// Command returns the scheduler command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run crawl, enrich, and digest on their cron schedules",
		Long: `Scheduler runs the full pipeline periodically: crawls on the
crawl schedule, enrichment passes on the enrich schedule, and digest
rebuilds on the digest schedule. It blocks until interrupted.`,
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
			aggregator := digest.NewAggregator(storage.Articles, storage.Digests, deps.Logger)

			sched := scheduler.New(deps.Logger)
			ctx := cmd.Context()

			crawlTask := func(ctx context.Context) error {
				configs, err := deps.Registry.Resolve(nil)
				if err != nil {
					return err
				}
				runner, err := crawler.NewRunner(
					configs,
					crawler.NewHTTPFetcher(),
					storage.Articles,
					deps.Logger,
					metrics.New(),
				)
				if err != nil {
					return err
				}
				results := runner.Run(ctx)
				for _, result := range results {
					if result.Err != nil {
						return fmt.Errorf("source %s failed: %w", result.Source, result.Err)
					}
				}
				return nil
			}

			enrichTask := func(ctx context.Context) error {
				_, err := pipeline.Run(ctx)
				return err
			}

			digestTask := func(ctx context.Context) error {
				_, err := aggregator.Build(ctx, time.Now().UTC())
				return err
			}

			schedules := deps.Config.Scheduler
			if err := sched.Register(ctx, "crawl", schedules.CrawlSchedule, crawlTask); err != nil {
				return err
			}
			if err := sched.Register(ctx, "enrich", schedules.EnrichSchedule, enrichTask); err != nil {
				return err
			}
			if err := sched.Register(ctx, "digest", schedules.DigestSchedule, digestTask); err != nil {
				return err
			}

			sched.Run(ctx)
			return nil
		},
	}
}

// Package crawl implements the crawl command.
package crawl

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/aiwatch/cmd/common"
	"github.com/jonesrussell/aiwatch/internal/crawler"
	"github.com/jonesrussell/aiwatch/internal/metrics"
)

// runReport is the JSON shape of one source's crawl outcome.
type runReport struct {
	RunID      string `json:"run_id"`
	Source     string `json:"source"`
	State      string `json:"state"`
	Collected  int    `json:"collected"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Command returns the crawl command.
func Command() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "crawl [source ...]",
		Short: "Crawl configured sources for articles",
		Long: `Crawl runs one crawl per named source, concurrently. With no
arguments every enabled source is crawled. Naming a disabled or unknown
source is an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			configs, err := deps.Registry.Resolve(args)
			if err != nil {
				return fmt.Errorf("failed to resolve sources: %w", err)
			}

			storage, err := cmdcommon.OpenStorage(cmd.Context(), deps.Config)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer storage.Close()

			m := metrics.New()
			runner, err := crawler.NewRunner(
				configs,
				crawler.NewHTTPFetcher(),
				storage.Articles,
				deps.Logger,
				m,
			)
			if err != nil {
				return err
			}

			results := runner.Run(cmd.Context())

			if output == "json" {
				if err := printJSON(results); err != nil {
					return err
				}
			} else {
				printText(results)
			}

			for _, result := range results {
				if result.Err != nil {
					return errors.New("crawl finished with failures")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")

	return cmd
}

func printJSON(results []*crawler.RunResult) error {
	reports := make([]runReport, 0, len(results))
	for _, result := range results {
		report := runReport{
			RunID:      result.RunID,
			Source:     result.Source,
			State:      string(result.State),
			Collected:  result.Collected,
			Inserted:   result.Inserted,
			Duplicates: result.Duplicates,
			DurationMS: result.Duration.Milliseconds(),
		}
		if result.Err != nil {
			report.Error = result.Err.Error()
		}
		reports = append(reports, report)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

func printText(results []*crawler.RunResult) {
	for _, result := range results {
		status := "ok"
		if result.Err != nil {
			status = "failed: " + result.Err.Error()
		}
		fmt.Printf("%-20s collected=%d inserted=%d duplicates=%d in %s (%s)\n",
			result.Source,
			result.Collected,
			result.Inserted,
			result.Duplicates,
			result.Duration.Round(time.Millisecond),
			status,
		)
	}
}

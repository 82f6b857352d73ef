// Package sources implements the sources inspection commands.
package sources

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/aiwatch/cmd/common"
)

// Command returns the sources command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Inspect configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(listCommand())
	cmd.AddCommand(validateCommand())

	return cmd
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{
				"Name", "Base URL", "Rate Limit", "Max Articles", "Timeout", "Enabled",
			})

			for _, source := range deps.Registry.All() {
				t.AppendRow(table.Row{
					source.Name,
					source.BaseURL,
					source.RateLimitDuration(),
					source.MaxArticles,
					source.TimeoutDuration(),
					source.Enabled,
				})
			}

			t.Render()
			return nil
		},
	}
}

func validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the sources file",
		Long: `Validate loads the sources file and reports every configuration
problem. The registry itself rejects invalid sources at load time, so a
clean load means a valid file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("sources file is invalid: %w", err)
			}

			all := deps.Registry.All()
			enabled := deps.Registry.Enabled()
			disabled := make([]string, 0)
			for _, source := range all {
				if !source.Enabled {
					disabled = append(disabled, source.Name)
				}
			}

			fmt.Printf("sources file is valid: %d sources, %d enabled\n", len(all), len(enabled))
			if len(disabled) > 0 {
				fmt.Printf("disabled: %s\n", strings.Join(disabled, ", "))
			}
			return nil
		},
	}
}

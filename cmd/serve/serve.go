// Package serve implements the serve command.
package serve

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/aiwatch/cmd/common"
	"github.com/jonesrussell/aiwatch/internal/api"
)

// Command returns the serve command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP API",
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

			handler := api.NewHandler(storage.Articles, storage.Digests, deps.Logger)
			server := api.NewServer(deps.Config.API.Addr, handler, deps.Logger)

			return server.Run(cmd.Context())
		},
	}
}

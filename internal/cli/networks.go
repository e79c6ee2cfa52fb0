package cli

import (
	"github.com/flash-protocol/flash-deployer/internal/cli/render"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/spf13/cobra"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks from flash.toml",
		Long: `List all networks configured in the [networks] section of flash.toml.

localhost is always available and points at a local node on port 8545.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			return output(cmd, app, result, render.NewNetworksRenderer(cmd.OutOrStdout()))
		},
	}

	return cmd
}

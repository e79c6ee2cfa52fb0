package cli

import (
	"github.com/flash-protocol/flash-deployer/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewFixturesCmd creates the fixtures command
func NewFixturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "Deploy the fixture contracts on a fresh dev chain",
		Long: `Start an in-process dev chain from [devchain] in flash.toml and deploy
FlashToken, FlashProtocol, ALTToken and FlashApp at their predicted addresses.

The chain is discarded when the command exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			result, err := app.RunFixtures.Run(cmd.Context())
			if err != nil {
				return err
			}

			return output(cmd, app, result, render.NewFixturesRenderer(cmd.OutOrStdout()))
		},
	}
}

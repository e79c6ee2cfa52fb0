package cli

import (
	"github.com/flash-protocol/flash-deployer/internal/cli/render"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/spf13/cobra"
)

// NewArtifactsCmd creates the artifacts command
func NewArtifactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts [pattern]",
		Short: "List compiled contracts available for deployment",
		Long: `List the Hardhat and Foundry artifacts found under the artifacts directory.
An optional pattern fuzzy-filters by path:Name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListArtifactsParams{}
			if len(args) > 0 {
				params.Pattern = args[0]
			}

			result, err := app.ListArtifacts.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return output(cmd, app, result, render.NewArtifactsRenderer(cmd.OutOrStdout()))
		},
	}
}

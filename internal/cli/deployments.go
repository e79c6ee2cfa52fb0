package cli

import (
	"github.com/flash-protocol/flash-deployer/internal/cli/render"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var (
		contractName string
		all          bool
	)

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List deployments from the registry",
		Long: `List contracts recorded by flash deploy.

Only the selected network is shown unless --all is given.`,
		Example: `  # Deployments on the current network
  flash deployments

  # FlashApp on every network
  flash deployments --all --contract FlashApp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			params := usecase.ListDeploymentsParams{ContractName: contractName}
			if !all {
				params.Network = app.Config.NetworkName
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return output(cmd, app, result, render.NewDeploymentsRenderer(cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")
	cmd.Flags().BoolVar(&all, "all", false, "List every network")

	return cmd
}

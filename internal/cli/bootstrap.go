package cli

import (
	"github.com/flash-protocol/flash-deployer/internal/cli/render"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/spf13/cobra"
)

// NewBootstrapCmd creates the bootstrap command
func NewBootstrapCmd() *cobra.Command {
	var params usecase.BootstrapPoolsParams

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Fund an account and create and seed FlashApp pools",
		Long: `Run the bootstrap plan against an existing FlashApp: an optional native
currency transfer, then createPool and addLiquidityInPool for every pool.

The plan comes from --plan (YAML) or from the network's [[pools]] in flash.toml.
Without --execute the plan is only printed. Pools that already exist are skipped.`,
		Example: `  # Show what would be sent
  flash bootstrap --network ropsten

  # Fund an account and run a plan file
  flash bootstrap --plan pools.yaml --fund 0x8e5e4b5ae3a5eea6a0c56c8c4d9f3a1b5c2a2a10 --amount 1000000000000000000 --execute`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			result, err := app.BootstrapPools.Run(cmd.Context(), params)
			if err != nil {
				// Show how far the plan got before failing
				if result != nil && !app.Config.JSON {
					stopProgress(app)
					_ = render.NewBootstrapRenderer(cmd.ErrOrStderr()).Render(result)
				}
				return err
			}

			return output(cmd, app, result, render.NewBootstrapRenderer(cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&params.PlanFile, "plan", "", "YAML bootstrap plan (default: the network's pools in flash.toml)")
	cmd.Flags().StringVar(&params.FundTo, "fund", "", "Address to fund before creating pools")
	cmd.Flags().StringVar(&params.FundAmount, "amount", "", "Amount to fund, in wei")
	cmd.Flags().BoolVar(&params.Execute, "execute", false, "Send the transactions instead of printing the plan")

	return cmd
}

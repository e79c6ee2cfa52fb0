package cli

import (
	"github.com/flash-protocol/flash-deployer/internal/cli/render"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy <contract> [constructor args...]",
		Short: "Deploy a compiled contract and record its address",
		Long: `Deploy a single compiled contract to the selected network and record the
address in .flash/deployments.json.

The contract is looked up by name or by path:Name. Constructor arguments are
converted according to the constructor's ABI types (addresses, integers in
decimal or 0x hex, bools, strings and hex bytes).`,
		Example: `  # Deploy FlashToken to the local node
  flash deploy FlashToken 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 0x5FbDB2315678afecb367f032d93F642f64180aa3

  # Deploy FlashApp to ropsten
  flash deploy FlashApp --network ropsten`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{
				Contract: args[0],
				Args:     args[1:],
			})
			if err != nil {
				return err
			}

			return output(cmd, app, result, render.NewDeployRenderer(cmd.OutOrStdout()))
		},
	}

	return cmd
}

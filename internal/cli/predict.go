package cli

import (
	"github.com/flash-protocol/flash-deployer/internal/cli/render"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/spf13/cobra"
)

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	var (
		params usecase.PredictAddressParams
		nonce  uint64
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the address of a deployer's next contract",
		Long: `Predict CREATE addresses from a deployer and nonce.

With both --from and --nonce no network is contacted. Otherwise the network's
sender and pending nonce fill in what is missing.`,
		Example: `  # Offline
  flash predict --from 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 --nonce 0

  # Next three addresses of the network sender
  flash predict --network ropsten --count 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("nonce") {
				params.Nonce = &nonce
			}

			result, err := app.PredictAddress.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return output(cmd, app, result, render.NewPredictRenderer(cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&params.From, "from", "", "Deployer address (default: the network's sender)")
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "Deployment nonce (default: the deployer's pending nonce)")
	cmd.Flags().IntVar(&params.Count, "count", 1, "Number of consecutive addresses")

	return cmd
}

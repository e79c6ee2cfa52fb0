package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/flash-protocol/flash-deployer/internal/adapters/plan"
	"github.com/flash-protocol/flash-deployer/internal/cli/render"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/spf13/cobra"
)

// NewScenarioCmd creates the scenario command
func NewScenarioCmd() *cobra.Command {
	var (
		only    []string
		pick    bool
		amounts = map[string]*string{}
	)

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Run the FlashApp scenario on a fresh dev chain",
		Long: fmt.Sprintf(`Deploy the fixtures on an in-process dev chain and run the FlashApp user
journey step by step, stopping at the first unmet expectation.

Steps: %s`, strings.Join(usecase.ScenarioStepNames(), ", ")),
		Example: `  flash scenario
  flash scenario --only create-pool,add-liquidity
  flash scenario --pick`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			if pick {
				if app.Config.NonInteractive {
					return fmt.Errorf("--pick needs an interactive terminal")
				}
				if only, err = selectSteps(usecase.ScenarioStepNames(), "Select scenario steps"); err != nil {
					return err
				}
			}

			params := usecase.RunScenarioParams{Only: only}
			for flag, dst := range map[string]**big.Int{
				"liquidity-flash": &params.LiquidityFlash,
				"liquidity-alt":   &params.LiquidityAlt,
				"stake-amount":    &params.StakeAmount,
				"stake-days":      &params.StakeDays,
				"swap-amount":     &params.SwapAmount,
				"swap-min-output": &params.SwapMinOutput,
			} {
				if *amounts[flag] == "" {
					continue
				}
				if *dst, err = plan.ParseAmount(*amounts[flag]); err != nil {
					return fmt.Errorf("--%s: %w", flag, err)
				}
			}

			result, err := app.RunScenario.RunOnDevChain(cmd.Context(), params)
			if result != nil {
				// The report is printed even when a step failed
				if renderErr := output(cmd, app, result, render.NewScenarioRenderer(cmd.OutOrStdout())); renderErr != nil {
					return renderErr
				}
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "Run only these steps (comma separated)")
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose the steps interactively")
	cmd.MarkFlagsMutuallyExclusive("only", "pick")
	for _, f := range []struct{ name, usage string }{
		{"liquidity-flash", "FLASH added to the pool, in wei (default 1000 FLASH)"},
		{"liquidity-alt", "ALT added to the pool, in wei (default 1000 ALT)"},
		{"stake-amount", "FLASH staked, in wei (default 100 FLASH)"},
		{"stake-days", fmt.Sprintf("Stake duration in days (default 2, at most %d)", usecase.MaxStakeDays)},
		{"swap-amount", "ALT swapped, in wei (default 10 ALT)"},
		{"swap-min-output", "Minimum FLASH out of the swap, in wei (default 0)"},
	} {
		amounts[f.name] = cmd.Flags().String(f.name, "", f.usage)
	}

	return cmd
}

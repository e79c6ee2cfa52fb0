package cli

import (
	"context"
	"fmt"

	"github.com/flash-protocol/flash-deployer/internal/app"
	"github.com/flash-protocol/flash-deployer/internal/cli/render"
	"github.com/flash-protocol/flash-deployer/internal/config"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// cancelKey holds the cancel func of the --timeout context
	cancelKey contextKey = "cancel"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flash",
		Short: "Deployment and integration tooling for the Flash contracts",
		Long: `flash deploys FlashProtocol and FlashApp contracts, bootstraps FlashApp pools,
predicts deployment addresses and runs the FlashApp scenario on an in-process dev chain.

Networks are configured in flash.toml at the project root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipsApp(cmd.Name()) {
				return nil
			}

			v := config.SetupViper(config.FindProjectRoot(), cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				ctx = context.WithValue(ctx, cancelKey, cancel)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network profile from flash.toml (default localhost)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout for the whole command (default 5m)")
	rootCmd.PersistentFlags().String("artifacts", "", "Compiled artifacts directory (default artifacts)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Deployment Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "dev",
		Title: "Dev Chain Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewBootstrapCmd(), NewPredictCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewFixturesCmd(), NewScenarioCmd()} {
		cmd.GroupID = "dev"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewArtifactsCmd(), NewNetworksCmd(), NewDeploymentsCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs rootCmd under ctx. The command's context is cancelled when it
// returns, whether RunE succeeded or not.
func Execute(ctx context.Context, rootCmd *cobra.Command) (*cobra.Command, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if cmd != nil && cmd.Context() != nil {
		if stop, ok := cmd.Context().Value(cancelKey).(context.CancelFunc); ok {
			stop()
		}
	}
	return cmd, err
}

// skipsApp reports whether a command runs without configuration
func skipsApp(name string) bool {
	switch name {
	case "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// stopProgress finishes the spinner before anything else is printed
func stopProgress(a *app.App) {
	if s, ok := a.Progress.(interface{ Stop() }); ok {
		s.Stop()
	}
}

// output prints result as JSON with --json and through renderer otherwise
func output[T any](cmd *cobra.Command, a *app.App, result T, renderer render.Renderer[T]) error {
	stopProgress(a)
	if a.Config.JSON {
		return render.JSON(cmd.OutOrStdout(), result)
	}
	return renderer.Render(result)
}

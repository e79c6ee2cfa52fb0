//go:build wireinject
// +build wireinject

package app

import (
	"github.com/flash-protocol/flash-deployer/internal/adapters"
	"github.com/flash-protocol/flash-deployer/internal/config"
	"github.com/flash-protocol/flash-deployer/internal/logging"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/google/wire"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewBootstrapPools,
		usecase.NewPredictAddress,
		usecase.NewRunFixtures,
		usecase.NewRunScenario,
		usecase.NewListNetworks,
		usecase.NewListDeployments,
		usecase.NewListArtifacts,

		// App
		NewApp,
	)
	return nil, nil
}

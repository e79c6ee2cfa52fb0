package app

import (
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Progress usecase.ProgressSink

	// Use cases
	DeployContract  *usecase.DeployContract
	BootstrapPools  *usecase.BootstrapPools
	PredictAddress  *usecase.PredictAddress
	RunFixtures     *usecase.RunFixtures
	RunScenario     *usecase.RunScenario
	ListNetworks    *usecase.ListNetworks
	ListDeployments *usecase.ListDeployments
	ListArtifacts   *usecase.ListArtifacts
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	progress usecase.ProgressSink,
	deployContract *usecase.DeployContract,
	bootstrapPools *usecase.BootstrapPools,
	predictAddress *usecase.PredictAddress,
	runFixtures *usecase.RunFixtures,
	runScenario *usecase.RunScenario,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
	listArtifacts *usecase.ListArtifacts,
) (*App, error) {
	return &App{
		Config:          cfg,
		Progress:        progress,
		DeployContract:  deployContract,
		BootstrapPools:  bootstrapPools,
		PredictAddress:  predictAddress,
		RunFixtures:     runFixtures,
		RunScenario:     runScenario,
		ListNetworks:    listNetworks,
		ListDeployments: listDeployments,
		ListArtifacts:   listArtifacts,
	}, nil
}

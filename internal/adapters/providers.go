package adapters

import (
	"github.com/flash-protocol/flash-deployer/internal/adapters/interactive"
	"github.com/flash-protocol/flash-deployer/internal/adapters/network"
	"github.com/flash-protocol/flash-deployer/internal/adapters/plan"
	"github.com/flash-protocol/flash-deployer/internal/adapters/progress"
	"github.com/flash-protocol/flash-deployer/internal/adapters/registry"
	"github.com/flash-protocol/flash-deployer/internal/adapters/repository/artifacts"
	internalconfig "github.com/flash-protocol/flash-deployer/internal/config"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/google/wire"
)

// ProvideNetworkResolver provides a resolver over the loaded flash.toml
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *internalconfig.NetworkResolver {
	return internalconfig.NewNetworkResolver(cfg.FlashConfig)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),

	registry.NewStore,
	wire.Bind(new(usecase.DeploymentStore), new(*registry.Store)),

	plan.NewParser,
	wire.Bind(new(usecase.PlanParser), new(*plan.Parser)),
)

// ChainSet provides RPC and dev chain implementations
var ChainSet = wire.NewSet(
	network.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*network.Connector)),

	network.NewDevChainFactory,
	wire.Bind(new(usecase.DevChainFactory), new(*network.DevChainFactory)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractiveSelector), new(*interactive.SelectorAdapter)),

	progress.NewProgressSink,
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ChainSet,
	InteractiveSet,
	ConfigSet,
)

package config

import (
	"fmt"
	"sort"

	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
)

// NetworkResolver resolves network names to the profiles in flash.toml
type NetworkResolver struct {
	flashConfig *config.FlashFileConfig
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(flashConfig *config.FlashFileConfig) *NetworkResolver {
	return &NetworkResolver{flashConfig: flashConfig}
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	nc, exists := r.flashConfig.Networks[networkName]
	if !exists {
		return nil, fmt.Errorf("network '%s' not found in %s [networks]: %w", networkName, FlashFileName, domain.ErrNetworkNotFound)
	}
	if nc.RPCURL == "" {
		return nil, fmt.Errorf("network '%s' has no rpc_url", networkName)
	}

	return &config.Network{
		Name:          networkName,
		RPCURL:        nc.RPCURL,
		ChainID:       nc.ChainID,
		GasPrice:      nc.GasPrice,
		Confirmations: nc.Confirmations,
		Local:         nc.Local,
		Sender:        nc.Sender,
		Addresses:     nc.Addresses,
		Pools:         nc.Pools,
	}, nil
}

// Names returns all configured network names, sorted
func (r *NetworkResolver) Names() []string {
	names := make([]string, 0, len(r.flashConfig.Networks))
	for name := range r.flashConfig.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

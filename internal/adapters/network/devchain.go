package network

import (
	"context"
	"log/slog"

	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/adapters/devchain"
	"github.com/flash-protocol/flash-deployer/internal/adapters/senders"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/samber/lo"
)

// DevChainFactory starts in-process chains from the [devchain] settings
type DevChainFactory struct {
	cfg config.DevChainConfig
	log *slog.Logger
}

// NewDevChainFactory creates a factory for the configured dev chain
func NewDevChainFactory(cfg *config.RuntimeConfig, log *slog.Logger) *DevChainFactory {
	return &DevChainFactory{cfg: cfg.DevChain, log: log}
}

// Start launches a fresh chain. Callers must Close the environment.
func (f *DevChainFactory) Start(ctx context.Context) (*usecase.DevEnvironment, error) {
	dev, err := devchain.New(f.cfg, f.log)
	if err != nil {
		return nil, err
	}

	client, err := chain.NewClient(ctx, dev.Client(), f.log)
	if err != nil {
		_ = dev.Close()
		return nil, err
	}

	return &usecase.DevEnvironment{
		Client: client,
		Accounts: lo.Map(dev.Accounts(), func(s *senders.Signer, _ int) chain.Account {
			return s
		}),
		Clock: dev,
		Close: dev.Close,
	}, nil
}

var _ usecase.DevChainFactory = (*DevChainFactory)(nil)

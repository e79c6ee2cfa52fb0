package network

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/adapters/contracts"
	"github.com/flash-protocol/flash-deployer/internal/adapters/senders"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
)

// Connector dials configured networks over JSON-RPC
type Connector struct {
	log *slog.Logger
}

// NewConnector creates a new connector
func NewConnector(log *slog.Logger) *Connector {
	return &Connector{log: log}
}

// Connect dials the network and loads its sender
func (c *Connector) Connect(ctx context.Context, network *config.Network) (usecase.ChainSession, error) {
	if network == nil {
		return nil, fmt.Errorf("no network selected: %w", domain.ErrNetworkNotFound)
	}

	sender, err := senders.FromConfig(network.Sender)
	if err != nil {
		return nil, fmt.Errorf("failed to load sender for %s: %w", network.Name, err)
	}

	client, err := chain.Dial(ctx, network, c.log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}

	c.log.Debug("connected", "network", network.Name, "chainId", client.ChainID(), "sender", sender.Address())
	return NewSession(client, sender), nil
}

// Session pairs a chain client with the account that signs for it
type Session struct {
	client *chain.Client
	sender chain.Account
}

// NewSession creates a session over an existing client
func NewSession(client *chain.Client, sender chain.Account) *Session {
	return &Session{client: client, sender: sender}
}

func (s *Session) ChainID() *big.Int {
	return s.client.ChainID()
}

func (s *Session) Sender() chain.Account {
	return s.sender
}

func (s *Session) Nonce(ctx context.Context, account common.Address) (uint64, error) {
	return s.client.Nonce(ctx, account)
}

func (s *Session) SetGasPrice(price *big.Int) {
	s.client.SetGasPrice(price)
}

func (s *Session) Deploy(ctx context.Context, artifact *domain.Artifact, args ...any) (*chain.Deployment, error) {
	return s.client.Deploy(ctx, s.sender, artifact, args...)
}

func (s *Session) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return s.client.Transfer(ctx, s.sender, to, amount)
}

// FlashApp attaches the FlashApp ABI to a deployed address
func (s *Session) FlashApp(artifact *domain.Artifact, address common.Address) (usecase.PoolRouter, error) {
	contract, err := s.client.AttachArtifact(artifact, address)
	if err != nil {
		return nil, err
	}
	return contracts.NewFlashApp(contract), nil
}

// Close releases the RPC connection when the backend owns one
func (s *Session) Close() {
	if closer, ok := s.client.Backend().(interface{ Close() }); ok {
		closer.Close()
	}
}

var (
	_ usecase.ChainConnector = (*Connector)(nil)
	_ usecase.ChainSession   = (*Session)(nil)
)

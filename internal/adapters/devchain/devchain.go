package devchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/eth/ethconfig"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/node"
	"github.com/flash-protocol/flash-deployer/internal/adapters/senders"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
)

// Chain is an in-process chain with funded accounts derived from a mnemonic
type Chain struct {
	backend  *simulated.Backend
	client   *Client
	accounts []*senders.Signer
	log      *slog.Logger
}

// Client mines every transaction as soon as it is sent
type Client struct {
	simulated.Client
	backend *simulated.Backend
}

// SendTransaction submits tx and seals a block containing it
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	c.backend.Commit()
	return nil
}

// New starts a dev chain. Accounts 0..n-1 of the mnemonic are funded in genesis.
func New(cfg config.DevChainConfig, log *slog.Logger) (*Chain, error) {
	if cfg.Accounts <= 0 {
		return nil, fmt.Errorf("dev chain needs at least one account")
	}

	balance, ok := new(big.Int).SetString(cfg.Balance, 10)
	if !ok {
		return nil, fmt.Errorf("invalid dev chain balance %q", cfg.Balance)
	}

	accounts, err := senders.FromMnemonicRange(cfg.Mnemonic, cfg.Accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to derive dev chain accounts: %w", err)
	}

	alloc := make(types.GenesisAlloc, len(accounts))
	for _, account := range accounts {
		alloc[account.Address()] = types.Account{Balance: new(big.Int).Set(balance)}
	}

	var opts []func(*node.Config, *ethconfig.Config)
	if cfg.GasLimit > 0 {
		opts = append(opts, simulated.WithBlockGasLimit(cfg.GasLimit))
	}
	backend := simulated.NewBackend(alloc, opts...)

	log = log.With("component", "devchain")
	log.Debug("dev chain started", "accounts", len(accounts), "gasLimit", cfg.GasLimit)

	return &Chain{
		backend:  backend,
		client:   &Client{Client: backend.Client(), backend: backend},
		accounts: accounts,
		log:      log,
	}, nil
}

// Client returns the automining RPC client
func (c *Chain) Client() *Client {
	return c.client
}

func (c *Chain) Accounts() []*senders.Signer {
	return c.accounts
}

// Account returns the i-th funded account
func (c *Chain) Account(i int) (*senders.Signer, error) {
	if i < 0 || i >= len(c.accounts) {
		return nil, fmt.Errorf("dev chain has no account %d (have %d)", i, len(c.accounts))
	}
	return c.accounts[i], nil
}

// AdvanceTime seals an empty block whose timestamp is d past the current head
func (c *Chain) AdvanceTime(ctx context.Context, d time.Duration) error {
	if err := c.backend.AdjustTime(d); err != nil {
		return fmt.Errorf("failed to advance time: %w", err)
	}
	c.log.Debug("time advanced", "by", d)
	return nil
}

// Close stops the chain
func (c *Chain) Close() error {
	return c.backend.Close()
}

package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
)

// Backend is the RPC surface used by the client.
// Both *ethclient.Client and the simulated chain client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Account is anything that can produce signed transaction options
type Account interface {
	Address() common.Address
	TransactOpts(ctx context.Context, chainID *big.Int) *bind.TransactOpts
}

// Client deploys, attaches to and transacts with contracts.
// Every transaction is awaited before the call returns.
type Client struct {
	backend       Backend
	chainID       *big.Int
	gasPrice      *big.Int
	confirmations uint64
	pollInterval  time.Duration
	log           *slog.Logger
}

// NewClient wraps an already connected backend
func NewClient(ctx context.Context, backend Backend, log *slog.Logger) (*Client, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	return &Client{
		backend:       backend,
		chainID:       chainID,
		confirmations: 1,
		pollInterval:  time.Second,
		log:           log.With("component", "chain", "chainId", chainID.Uint64()),
	}, nil
}

// Dial connects to a configured network and verifies its chain ID
func Dial(ctx context.Context, network *config.Network, log *slog.Logger) (*Client, error) {
	rpcClient, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	c, err := NewClient(ctx, rpcClient, log)
	if err != nil {
		rpcClient.Close()
		return nil, err
	}

	// A zero chain ID in config accepts whatever the node reports
	if network.ChainID != 0 && c.chainID.Uint64() != network.ChainID {
		rpcClient.Close()
		return nil, fmt.Errorf("%w: expected %d, got %d", domain.ErrInvalidChainID, network.ChainID, c.chainID.Uint64())
	}

	if network.GasPrice != "" {
		price, ok := new(big.Int).SetString(network.GasPrice, 10)
		if !ok {
			rpcClient.Close()
			return nil, fmt.Errorf("invalid gas_price %q for network %s", network.GasPrice, network.Name)
		}
		c.SetGasPrice(price)
	}
	if network.Confirmations > 0 {
		c.confirmations = network.Confirmations
	}

	return c, nil
}

// SetGasPrice forces legacy transactions with an explicit gas price.
// A nil price restores fee suggestion by the node.
func (c *Client) SetGasPrice(price *big.Int) {
	c.gasPrice = price
}

func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

func (c *Client) Backend() Backend {
	return c.backend
}

// Nonce returns the pending nonce of an account
func (c *Client) Nonce(ctx context.Context, account common.Address) (uint64, error) {
	return c.backend.PendingNonceAt(ctx, account)
}

// Balance returns the latest native balance of an account
func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.backend.BalanceAt(ctx, account, nil)
}

// BlockTime returns the timestamp of a block; nil means latest
func (c *Client) BlockTime(ctx context.Context, number *big.Int) (uint64, error) {
	header, err := c.backend.HeaderByNumber(ctx, number)
	if err != nil {
		return 0, fmt.Errorf("failed to get header: %w", err)
	}
	return header.Time, nil
}

// Attach binds an ABI to an existing contract address
func (c *Client) Attach(name string, address common.Address, parsed *abi.ABI) *Contract {
	return &Contract{
		Name:    name,
		Address: address,
		ABI:     parsed,
		bound:   bind.NewBoundContract(address, *parsed, c.backend, c.backend, c.backend),
		client:  c,
	}
}

// AttachArtifact binds an artifact's ABI to an existing contract address
func (c *Client) AttachArtifact(artifact *domain.Artifact, address common.Address) (*Contract, error) {
	parsed, err := artifact.ParseABI()
	if err != nil {
		return nil, err
	}
	return c.Attach(artifact.Name, address, parsed), nil
}

// Deployment is the outcome of a contract creation
type Deployment struct {
	Contract *Contract
	Tx       *types.Transaction
	Receipt  *types.Receipt
}

// Deploy creates a contract from an artifact and waits for it to be mined
func (c *Client) Deploy(ctx context.Context, from Account, artifact *domain.Artifact, args ...any) (*Deployment, error) {
	parsed, err := artifact.ParseABI()
	if err != nil {
		return nil, err
	}
	code, err := artifact.CreationCode()
	if err != nil {
		return nil, err
	}
	input, err := parsed.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments for %s: %w", artifact.Name, err)
	}

	opts, err := c.prepare(ctx, from, nil, nil, append(append([]byte{}, code...), input...))
	if err != nil {
		return nil, fmt.Errorf("deployment of %s would fail: %w", artifact.Name, err)
	}

	address, tx, err := bind.DeployContract(opts, code, c.backend, input)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment of %s: %w", artifact.Name, wrapRevert(err))
	}
	c.log.Debug("deployment sent", "contract", artifact.Name, "tx", tx.Hash(), "address", address)

	receipt, err := c.WaitMined(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("deployment of %s failed: %w", artifact.Name, err)
	}

	return &Deployment{
		Contract: c.Attach(artifact.Name, address, parsed),
		Tx:       tx,
		Receipt:  receipt,
	}, nil
}

// Transfer sends native currency and waits for the receipt
func (c *Client) Transfer(ctx context.Context, from Account, to common.Address, amount *big.Int) (*types.Receipt, error) {
	opts, err := c.prepare(ctx, from, &to, amount, nil)
	if err != nil {
		return nil, fmt.Errorf("transfer to %s would fail: %w", to.Hex(), err)
	}

	recipient := bind.NewBoundContract(to, abi.ABI{}, c.backend, c.backend, c.backend)
	tx, err := recipient.Transfer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to send transfer: %w", err)
	}
	c.log.Debug("transfer sent", "to", to, "amount", amount, "tx", tx.Hash())

	return c.WaitMined(ctx, tx)
}

// WaitMined blocks until tx is mined with the configured confirmations.
// A failed receipt is replayed to recover the revert reason.
func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailed, tx.Hash().Hex(), c.replay(ctx, tx, receipt))
	}

	if err := c.waitConfirmations(ctx, receipt); err != nil {
		return receipt, err
	}
	return receipt, nil
}

func (c *Client) waitConfirmations(ctx context.Context, receipt *types.Receipt) error {
	if c.confirmations <= 1 {
		return nil
	}
	target := receipt.BlockNumber.Uint64() + c.confirmations - 1

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		head, err := c.backend.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("failed to get block number: %w", err)
		}
		if head >= target {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// prepare estimates gas for the call so reverts surface before anything is sent
func (c *Client) prepare(ctx context.Context, from Account, to *common.Address, value *big.Int, data []byte) (*bind.TransactOpts, error) {
	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from.Address(),
		To:    to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, wrapRevert(err)
	}

	opts := from.TransactOpts(ctx, c.chainID)
	opts.GasLimit = gas
	opts.Value = value
	if c.gasPrice != nil {
		opts.GasPrice = new(big.Int).Set(c.gasPrice)
	}
	return opts, nil
}

// replay re-executes a failed transaction against the state it ran on
func (c *Client) replay(ctx context.Context, tx *types.Transaction, receipt *types.Receipt) error {
	from, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx)
	if err != nil {
		return &domain.RevertError{}
	}

	block := receipt.BlockNumber
	if block != nil && block.Sign() > 0 {
		block = new(big.Int).Sub(block, big.NewInt(1))
	}

	_, err = c.backend.CallContract(ctx, ethereum.CallMsg{
		From:  from,
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}, block)
	if revert, ok := DecodeRevert(err); ok {
		return revert
	}
	return &domain.RevertError{}
}

package usecase

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/adapters/contracts"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
)

// ArtifactRepository resolves compiled contracts
type ArtifactRepository interface {
	// Get returns the artifact for a name or a path:Name key
	Get(ctx context.Context, name string) (*domain.Artifact, error)
	// Search fuzzy-matches artifact keys, best match first
	Search(ctx context.Context, pattern string) ([]*domain.Artifact, error)
	List(ctx context.Context) ([]*domain.Artifact, error)
}

// DeploymentStore remembers deployed addresses per network
type DeploymentStore interface {
	Save(ctx context.Context, record *domain.DeploymentRecord) error
	Get(ctx context.Context, network, contractName string) (*domain.DeploymentRecord, error)
	List(ctx context.Context, network string) ([]*domain.DeploymentRecord, error)
}

// InteractiveSelector asks the operator to pick or confirm
type InteractiveSelector interface {
	SelectArtifact(ctx context.Context, artifacts []*domain.Artifact, prompt string) (*domain.Artifact, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// PlanParser loads bootstrap plans from disk
type PlanParser interface {
	ParseFile(path string) (*domain.BootstrapPlan, error)
}

// NetworkResolver resolves configured network profiles
type NetworkResolver interface {
	Resolve(name string) (*config.Network, error)
	Names() []string
}

// ChainConnector opens a signing session on a network
type ChainConnector interface {
	Connect(ctx context.Context, network *config.Network) (ChainSession, error)
}

// ChainSession is a connected chain client paired with the network's sender.
// Every transaction is awaited before the method returns.
type ChainSession interface {
	ChainID() *big.Int
	Sender() chain.Account
	Nonce(ctx context.Context, account common.Address) (uint64, error)
	SetGasPrice(price *big.Int)
	Deploy(ctx context.Context, artifact *domain.Artifact, args ...any) (*chain.Deployment, error)
	Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error)
	FlashApp(artifact *domain.Artifact, address common.Address) (PoolRouter, error)
	Close()
}

// PoolRouter is the part of FlashApp the bootstrap plan drives
type PoolRouter interface {
	Pool(ctx context.Context, token common.Address) (domain.Pool, error)
	CreatePool(ctx context.Context, from chain.Account, token common.Address) (*types.Receipt, error)
	AddLiquidity(ctx context.Context, from chain.Account, l contracts.Liquidity) (*types.Receipt, error)
}

// DevChainFactory starts in-process chains for fixtures and scenarios
type DevChainFactory interface {
	Start(ctx context.Context) (*DevEnvironment, error)
}

// Clock moves chain time forward
type Clock interface {
	AdvanceTime(ctx context.Context, d time.Duration) error
}

// DevEnvironment is a running dev chain and its funded accounts
type DevEnvironment struct {
	Client   *chain.Client
	Accounts []chain.Account
	Clock    Clock
	Close    func() error
}

// Account returns the i-th funded account
func (e *DevEnvironment) Account(i int) (chain.Account, error) {
	if i < 0 || i >= len(e.Accounts) {
		return nil, fmt.Errorf("dev chain has no account %d (have %d)", i, len(e.Accounts))
	}
	return e.Accounts[i], nil
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

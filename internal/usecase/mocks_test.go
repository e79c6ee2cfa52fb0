package usecase_test

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/adapters/contracts"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/stretchr/testify/mock"
)

// MockArtifactRepository is a mock implementation of ArtifactRepository
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) Get(ctx context.Context, name string) (*domain.Artifact, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) Search(ctx context.Context, pattern string) ([]*domain.Artifact, error) {
	args := m.Called(ctx, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) List(ctx context.Context) ([]*domain.Artifact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Artifact), args.Error(1)
}

// MockDeploymentStore is a mock implementation of DeploymentStore
type MockDeploymentStore struct {
	mock.Mock
}

func (m *MockDeploymentStore) Save(ctx context.Context, record *domain.DeploymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDeploymentStore) Get(ctx context.Context, network, contractName string) (*domain.DeploymentRecord, error) {
	args := m.Called(ctx, network, contractName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentRecord), args.Error(1)
}

func (m *MockDeploymentStore) List(ctx context.Context, network string) ([]*domain.DeploymentRecord, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeploymentRecord), args.Error(1)
}

// MockSelector is a mock implementation of InteractiveSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectArtifact(ctx context.Context, artifacts []*domain.Artifact, prompt string) (*domain.Artifact, error) {
	args := m.Called(ctx, artifacts, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockSelector) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// MockPlanParser is a mock implementation of PlanParser
type MockPlanParser struct {
	mock.Mock
}

func (m *MockPlanParser) ParseFile(path string) (*domain.BootstrapPlan, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BootstrapPlan), args.Error(1)
}

// MockConnector is a mock implementation of ChainConnector
type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) Connect(ctx context.Context, network *config.Network) (usecase.ChainSession, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.ChainSession), args.Error(1)
}

// MockSession is a mock implementation of ChainSession
type MockSession struct {
	mock.Mock
	sender chain.Account
	closed bool
}

func newMockSession(sender common.Address) *MockSession {
	return &MockSession{sender: fakeAccount{address: sender}}
}

func (m *MockSession) ChainID() *big.Int {
	return big.NewInt(1337)
}

func (m *MockSession) Sender() chain.Account {
	return m.sender
}

func (m *MockSession) Nonce(ctx context.Context, account common.Address) (uint64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockSession) SetGasPrice(price *big.Int) {
	m.Called(price)
}

func (m *MockSession) Deploy(ctx context.Context, artifact *domain.Artifact, params ...any) (*chain.Deployment, error) {
	args := m.Called(ctx, artifact, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chain.Deployment), args.Error(1)
}

func (m *MockSession) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	args := m.Called(ctx, to, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}

func (m *MockSession) FlashApp(artifact *domain.Artifact, address common.Address) (usecase.PoolRouter, error) {
	args := m.Called(artifact, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.PoolRouter), args.Error(1)
}

func (m *MockSession) Close() {
	m.closed = true
}

// MockPoolRouter is a mock implementation of PoolRouter
type MockPoolRouter struct {
	mock.Mock
}

func (m *MockPoolRouter) Pool(ctx context.Context, token common.Address) (domain.Pool, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Pool), args.Error(1)
}

func (m *MockPoolRouter) CreatePool(ctx context.Context, from chain.Account, token common.Address) (*types.Receipt, error) {
	args := m.Called(ctx, from, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}

func (m *MockPoolRouter) AddLiquidity(ctx context.Context, from chain.Account, l contracts.Liquidity) (*types.Receipt, error) {
	args := m.Called(ctx, from, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string)  {}
func (m *MockProgressSink) Error(message string) {}

// fakeAccount is an address that cannot sign
type fakeAccount struct {
	address common.Address
}

func (a fakeAccount) Address() common.Address {
	return a.address
}

func (a fakeAccount) TransactOpts(ctx context.Context, chainID *big.Int) *bind.TransactOpts {
	return &bind.TransactOpts{From: a.address, Context: ctx}
}

func receipt(gasUsed uint64, hash string) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      common.HexToHash(hash),
		GasUsed:     gasUsed,
		BlockNumber: big.NewInt(7),
	}
}

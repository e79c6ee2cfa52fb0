package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/adapters/network"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/flash-protocol/flash-deployer/internal/testutil"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var account1 = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

// stubArtifacts serves stub contracts with the fixture constructor signatures
type stubArtifacts map[string]*domain.Artifact

func newStubArtifacts() stubArtifacts {
	return stubArtifacts{
		domain.ContractFlashToken:    testutil.StubArtifact(domain.ContractFlashToken, "address", "address"),
		domain.ContractFlashProtocol: testutil.StubArtifact(domain.ContractFlashProtocol, "address"),
		domain.ContractAltToken:      testutil.StubArtifact(domain.ContractAltToken),
		domain.ContractFlashApp:      testutil.StubArtifact(domain.ContractFlashApp),
	}
}

func (s stubArtifacts) Get(ctx context.Context, name string) (*domain.Artifact, error) {
	if artifact, ok := s[name]; ok {
		return artifact, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
}

func (s stubArtifacts) Search(ctx context.Context, pattern string) ([]*domain.Artifact, error) {
	return nil, nil
}

func (s stubArtifacts) List(ctx context.Context) ([]*domain.Artifact, error) {
	return nil, nil
}

func devChainFactory() *network.DevChainFactory {
	cfg := &config.RuntimeConfig{
		DevChain: config.DevChainConfig{
			Mnemonic: "test test test test test test test test test test test junk",
			Accounts: 4,
			Balance:  "1000000000000000000000",
			GasLimit: 9999999,
		},
	}
	return network.NewDevChainFactory(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func startDevChain(t *testing.T) *usecase.DevEnvironment {
	t.Helper()
	env, err := devChainFactory().Start(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

// nonceTable is a NonceReader over fixed nonces
type nonceTable map[common.Address]uint64

func (n nonceTable) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	nonce, ok := n[account]
	if !ok {
		return 0, errors.New("unknown account")
	}
	return nonce, nil
}

func TestNewFixturePlan(t *testing.T) {
	ctx := context.Background()
	accounts := []chain.Account{fakeAccount{address: deployer}, fakeAccount{address: account1}}

	t.Run("default steps", func(t *testing.T) {
		plan, err := usecase.NewFixturePlan(ctx, nonceTable{deployer: 0, account1: 0}, accounts, usecase.DefaultFixtureSteps())
		require.NoError(t, err)

		// The mint after FlashToken uses account 0's nonce 1
		assert.Equal(t, crypto.CreateAddress(deployer, 0), plan.Addresses[domain.ContractFlashToken])
		assert.Equal(t, crypto.CreateAddress(account1, 0), plan.Addresses[domain.ContractFlashProtocol])
		assert.Equal(t, crypto.CreateAddress(deployer, 2), plan.Addresses[domain.ContractAltToken])
		assert.Equal(t, crypto.CreateAddress(deployer, 3), plan.Addresses[domain.ContractFlashApp])

		step, ok := plan.Step(domain.ContractFlashToken)
		require.True(t, ok)
		assert.Equal(t, usecase.ContractArg(domain.ContractFlashProtocol), step.Args[1])
		assert.Equal(t, "500000000000000000000000", step.Mint.String())
	})

	t.Run("starts from the current nonces", func(t *testing.T) {
		plan, err := usecase.NewFixturePlan(ctx, nonceTable{deployer: 5, account1: 9}, accounts, usecase.DefaultFixtureSteps())
		require.NoError(t, err)
		assert.Equal(t, crypto.CreateAddress(deployer, 5), plan.Addresses[domain.ContractFlashToken])
		assert.Equal(t, crypto.CreateAddress(account1, 9), plan.Addresses[domain.ContractFlashProtocol])
		assert.Equal(t, crypto.CreateAddress(deployer, 8), plan.Addresses[domain.ContractFlashApp])
	})

	tests := []struct {
		name    string
		steps   []usecase.FixtureStep
		wantErr string
	}{
		{
			name:    "missing deployer",
			steps:   []usecase.FixtureStep{{Contract: "A", Deployer: 2}},
			wantErr: "no dev account 2",
		},
		{
			name:    "planned twice",
			steps:   []usecase.FixtureStep{{Contract: "A"}, {Contract: "A"}},
			wantErr: "planned twice",
		},
		{
			name: "unplanned argument",
			steps: []usecase.FixtureStep{
				{Contract: "A", Args: []usecase.FixtureArg{usecase.ContractArg("B")}},
			},
			wantErr: "unplanned contract B",
		},
		{
			name: "missing account argument",
			steps: []usecase.FixtureStep{
				{Contract: "A", Args: []usecase.FixtureArg{usecase.AccountArg(7)}},
			},
			wantErr: "missing dev account 7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usecase.NewFixturePlan(ctx, nonceTable{deployer: 0, account1: 0}, accounts, tt.steps)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("nonce lookup failure", func(t *testing.T) {
		_, err := usecase.NewFixturePlan(ctx, nonceTable{}, accounts, usecase.DefaultFixtureSteps())
		assert.ErrorContains(t, err, "unknown account")
	})
}

func TestFixtures_DeployAll(t *testing.T) {
	ctx := context.Background()
	env := startDevChain(t)
	progress := &MockProgressSink{}

	set, err := usecase.NewFixtures(env, newStubArtifacts(), progress).DeployAll(ctx)
	require.NoError(t, err)

	owner := env.Accounts[0].Address()
	assert.Equal(t, crypto.CreateAddress(owner, 0), set.FlashToken.Address)
	assert.Equal(t, crypto.CreateAddress(env.Accounts[1].Address(), 0), set.FlashProtocol.Address)
	assert.Equal(t, crypto.CreateAddress(owner, 2), set.AltToken.Address)
	assert.Equal(t, crypto.CreateAddress(owner, 3), set.FlashApp.Address)
	assert.Len(t, set.Deployments, 4)
	assert.Len(t, progress.events, 4)

	// Deploy plus mint from account 0, then two more deployments
	nonce, err := env.Client.Nonce(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), nonce)

	balance, err := set.AltToken.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Positive(t, balance.Sign())
}

func TestFixtures_AltTokenWithoutSupply(t *testing.T) {
	ctx := context.Background()
	artifacts := newStubArtifacts()
	artifacts[domain.ContractAltToken] = testutil.TokenArtifact(domain.ContractAltToken, 0)

	_, err := usecase.NewFixtures(startDevChain(t), artifacts, usecase.NopProgress{}).DeployAll(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALTToken: deployer 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 holds no tokens")
}

func TestFixtures_Load(t *testing.T) {
	ctx := context.Background()
	fixtures := usecase.NewFixtures(startDevChain(t), newStubArtifacts(), usecase.NopProgress{})

	first, err := fixtures.Load(ctx)
	require.NoError(t, err)
	second, err := fixtures.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestFixtures_AddressMismatch(t *testing.T) {
	ctx := context.Background()
	env := startDevChain(t)
	fixtures := usecase.NewFixtures(env, newStubArtifacts(), usecase.NopProgress{})

	plan, err := fixtures.Plan(ctx)
	require.NoError(t, err)

	// Moving account 0's nonce invalidates the plan
	_, err = env.Client.Transfer(ctx, env.Accounts[0], env.Accounts[3].Address(), big.NewInt(1))
	require.NoError(t, err)

	_, err = fixtures.DeployFlashToken(ctx, plan)
	assert.ErrorIs(t, err, domain.ErrAddressMismatch)
}

func TestFixtures_MissingArtifact(t *testing.T) {
	ctx := context.Background()
	artifacts := newStubArtifacts()
	delete(artifacts, domain.ContractAltToken)

	_, err := usecase.NewFixtures(startDevChain(t), artifacts, usecase.NopProgress{}).DeployAll(ctx)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestRunFixtures(t *testing.T) {
	result, err := usecase.NewRunFixtures(devChainFactory(), newStubArtifacts(), usecase.NopProgress{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1337), result.ChainID)
	assert.Len(t, result.Accounts, 4)
	require.Len(t, result.Deployments, 4)

	contractNames := make([]string, len(result.Deployments))
	for i, d := range result.Deployments {
		contractNames[i] = d.Contract
		assert.NotZero(t, d.GasUsed)
	}
	assert.Equal(t, []string{
		domain.ContractFlashToken,
		domain.ContractFlashProtocol,
		domain.ContractAltToken,
		domain.ContractFlashApp,
	}, contractNames)
	assert.Equal(t, result.Accounts[1], result.Deployments[1].Deployer)
}

package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// FixtureDeployment describes one deployed fixture
type FixtureDeployment struct {
	Contract string         `json:"contract"`
	Address  common.Address `json:"address"`
	Deployer common.Address `json:"deployer"`
	TxHash   common.Hash    `json:"txHash"`
	GasUsed  uint64         `json:"gasUsed"`
}

// RunFixturesResult lists the fixtures in deployment order
type RunFixturesResult struct {
	ChainID     uint64              `json:"chainId"`
	Accounts    []common.Address    `json:"accounts"`
	Deployments []FixtureDeployment `json:"deployments"`
}

// RunFixtures deploys the fixture set on a throwaway dev chain
type RunFixtures struct {
	factory   DevChainFactory
	artifacts ArtifactRepository
	progress  ProgressSink
}

// NewRunFixtures creates a new RunFixtures use case
func NewRunFixtures(factory DevChainFactory, artifacts ArtifactRepository, progress ProgressSink) *RunFixtures {
	return &RunFixtures{
		factory:   factory,
		artifacts: artifacts,
		progress:  progress,
	}
}

// Run executes the use case. The chain is discarded when Run returns.
func (uc *RunFixtures) Run(ctx context.Context) (*RunFixturesResult, error) {
	env, err := uc.factory.Start(ctx)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	set, err := NewFixtures(env, uc.artifacts, uc.progress).DeployAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &RunFixturesResult{ChainID: env.Client.ChainID().Uint64()}
	for _, account := range env.Accounts {
		result.Accounts = append(result.Accounts, account.Address())
	}
	for _, step := range set.Plan.Steps {
		d := set.Deployments[step.Contract]
		result.Deployments = append(result.Deployments, FixtureDeployment{
			Contract: step.Contract,
			Address:  d.Contract.Address,
			Deployer: env.Accounts[step.Deployer].Address(),
			TxHash:   d.Tx.Hash(),
			GasUsed:  d.Receipt.GasUsed,
		})
	}
	return result, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/flash-protocol/flash-deployer/internal/adapters/parameters"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
)

// DeployContractParams contains parameters for deploying a contract
type DeployContractParams struct {
	// Contract is a contract name or path:Name key
	Contract string
	// Args are constructor arguments, converted per the constructor's input types
	Args []string
}

// DeployContractResult contains the outcome of a deployment
type DeployContractResult struct {
	Artifact *domain.Artifact
	Record   *domain.DeploymentRecord
	Receipt  *types.Receipt
}

// DeployContract deploys a single artifact and records its address
type DeployContract struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	store     DeploymentStore
	connector ChainConnector
	selector  InteractiveSelector
	progress  ProgressSink
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	store DeploymentStore,
	connector ChainConnector,
	selector InteractiveSelector,
	progress ProgressSink,
) *DeployContract {
	return &DeployContract{
		config:    cfg,
		artifacts: artifacts,
		store:     store,
		connector: connector,
		selector:  selector,
		progress:  progress,
	}
}

// Run executes the deployment
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}

	artifact, err := resolveArtifact(ctx, uc.config, uc.artifacts, uc.selector, params.Contract)
	if err != nil {
		return nil, err
	}

	parsed, err := artifact.ParseABI()
	if err != nil {
		return nil, err
	}
	args, err := parameters.Parse(parsed.Constructor.Inputs, params.Args)
	if err != nil {
		return nil, fmt.Errorf("invalid constructor arguments for %s: %w", artifact.Name, err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "connecting",
		Message: fmt.Sprintf("Connecting to %s", network.Name),
		Spinner: true,
	})
	session, err := uc.connector.Connect(ctx, network)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := confirmBroadcast(ctx, uc.selector, network, fmt.Sprintf("Deploy %s to %s (chain %s) from %s",
		artifact.Name, network.Name, session.ChainID(), session.Sender().Address().Hex())); err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deploying",
		Message: fmt.Sprintf("Deploying %s", artifact.Name),
		Spinner: true,
	})
	deployment, err := session.Deploy(ctx, artifact, args...)
	if err != nil {
		return nil, err
	}

	record := &domain.DeploymentRecord{
		Network:      network.Name,
		ChainID:      session.ChainID().Uint64(),
		ContractName: artifact.Name,
		Address:      deployment.Contract.Address,
		TxHash:       deployment.Tx.Hash(),
		BlockNumber:  deployment.Receipt.BlockNumber.Uint64(),
		Deployer:     session.Sender().Address(),
		Timestamp:    time.Now().Unix(),
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "recording",
		Message: "Saving deployment",
	})
	if err := uc.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("deployed %s at %s but failed to record it: %w", artifact.Name, record.Address.Hex(), err)
	}

	return &DeployContractResult{
		Artifact: artifact,
		Record:   record,
		Receipt:  deployment.Receipt,
	}, nil
}

// requireNetwork returns the selected network or a not-found error naming it
func requireNetwork(cfg *config.RuntimeConfig) (*config.Network, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("network '%s': %w", cfg.NetworkName, domain.ErrNetworkNotFound)
	}
	return cfg.Network, nil
}

// resolveArtifact looks a contract up by name. Missing or ambiguous names fall
// back to an interactive pick unless running non-interactively.
func resolveArtifact(ctx context.Context, cfg *config.RuntimeConfig, artifacts ArtifactRepository, selector InteractiveSelector, name string) (*domain.Artifact, error) {
	artifact, err := artifacts.Get(ctx, name)
	if err == nil {
		return artifact, nil
	}
	if cfg.NonInteractive {
		return nil, err
	}

	var candidates []*domain.Artifact
	var ambiguous domain.AmbiguousArtifactErr
	switch {
	case errors.As(err, &ambiguous):
		candidates = ambiguous.Matches
	case errors.Is(err, domain.ErrArtifactNotFound):
		candidates, err = artifacts.Search(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
		}
	default:
		return nil, err
	}

	return selector.SelectArtifact(ctx, candidates, fmt.Sprintf("Select artifact for %q", name))
}

// confirmBroadcast asks before sending transactions to a non-local network
func confirmBroadcast(ctx context.Context, selector InteractiveSelector, network *config.Network, prompt string) error {
	if network.Local {
		return nil
	}
	ok, err := selector.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAborted
	}
	return nil
}

package usecase

import (
	"context"
	"sort"

	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/samber/lo"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// Network filters by network name; empty lists every network
	Network      string
	ContractName string
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*domain.DeploymentRecord
	Summary     DeploymentSummary
}

// DeploymentSummary provides summary statistics
type DeploymentSummary struct {
	Total     int
	ByNetwork map[string]int
}

// ListDeployments is the use case for listing recorded deployments
type ListDeployments struct {
	store DeploymentStore
	sink  ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(store DeploymentStore, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		store: store,
		sink:  sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	// Report progress
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	deployments, err := uc.store.List(ctx, params.Network)
	if err != nil {
		return nil, err
	}

	if params.ContractName != "" {
		deployments = lo.Filter(deployments, func(d *domain.DeploymentRecord, _ int) bool {
			return d.ContractName == params.ContractName
		})
	}

	// Sort deployments for consistent output
	sortDeployments(deployments)

	// Report completion
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(deployments),
		Total:   len(deployments),
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// sortDeployments sorts deployments by network, then contract name
func sortDeployments(deployments []*domain.DeploymentRecord) {
	sort.Slice(deployments, func(i, j int) bool {
		if deployments[i].Network != deployments[j].Network {
			return deployments[i].Network < deployments[j].Network
		}
		return deployments[i].ContractName < deployments[j].ContractName
	})
}

func calculateSummary(deployments []*domain.DeploymentRecord) DeploymentSummary {
	return DeploymentSummary{
		Total: len(deployments),
		ByNetwork: lo.CountValuesBy(deployments, func(d *domain.DeploymentRecord) string {
			return d.Network
		}),
	}
}

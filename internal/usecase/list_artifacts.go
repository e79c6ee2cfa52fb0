package usecase

import (
	"context"

	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
)

// ListArtifactsParams contains parameters for listing artifacts
type ListArtifactsParams struct {
	// Pattern fuzzy-filters by path:Name; empty lists everything
	Pattern string
}

// ListArtifactsResult contains the matching artifacts
type ListArtifactsResult struct {
	Dir       string
	Artifacts []*domain.Artifact
}

// ListArtifacts lists the compiled contracts available for deployment
type ListArtifacts struct {
	artifacts ArtifactRepository
	dir       string
}

// NewListArtifacts creates a new ListArtifacts use case
func NewListArtifacts(cfg *config.RuntimeConfig, artifacts ArtifactRepository) *ListArtifacts {
	return &ListArtifacts{
		artifacts: artifacts,
		dir:       cfg.ArtifactsDir,
	}
}

// Run executes the use case
func (uc *ListArtifacts) Run(ctx context.Context, params ListArtifactsParams) (*ListArtifactsResult, error) {
	var (
		artifacts []*domain.Artifact
		err       error
	)
	if params.Pattern == "" {
		artifacts, err = uc.artifacts.List(ctx)
	} else {
		artifacts, err = uc.artifacts.Search(ctx, params.Pattern)
	}
	if err != nil {
		return nil, err
	}

	return &ListArtifactsResult{
		Dir:       uc.dir,
		Artifacts: artifacts,
	}, nil
}

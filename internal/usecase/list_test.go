package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/flash-protocol/flash-deployer/internal/testutil"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]*config.Network

func (r fakeResolver) Resolve(name string) (*config.Network, error) {
	network, ok := r[name]
	if !ok || network == nil {
		return nil, errors.New("network '" + name + "' has no rpc_url")
	}
	return network, nil
}

func (r fakeResolver) Names() []string {
	return []string{"broken", "localhost", "ropsten"}
}

func TestListNetworks(t *testing.T) {
	resolver := fakeResolver{
		"localhost": {Name: "localhost", Local: true},
		"ropsten":   {Name: "ropsten", ChainID: 3},
		"broken":    nil,
	}
	cfg := &config.RuntimeConfig{NetworkName: "ropsten"}

	result, err := usecase.NewListNetworks(cfg, resolver).Run(context.Background(), usecase.ListNetworksParams{})
	require.NoError(t, err)

	assert.Equal(t, "ropsten", result.Current)
	require.Len(t, result.Networks, 3)
	assert.Error(t, result.Networks[0].Error)
	assert.Nil(t, result.Networks[0].Network)
	assert.True(t, result.Networks[1].Network.Local)
	assert.Equal(t, uint64(3), result.Networks[2].Network.ChainID)
}

func TestListDeployments(t *testing.T) {
	ctx := context.Background()
	records := []*domain.DeploymentRecord{
		{Network: "ropsten", ContractName: "FlashApp"},
		{Network: "localhost", ContractName: "FlashToken"},
		{Network: "localhost", ContractName: "FlashApp"},
	}

	t.Run("sorted with summary", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("List", ctx, "").Return(append([]*domain.DeploymentRecord{}, records...), nil)
		progress := &MockProgressSink{}

		result, err := usecase.NewListDeployments(store, progress).Run(ctx, usecase.ListDeploymentsParams{})
		require.NoError(t, err)

		require.Len(t, result.Deployments, 3)
		assert.Equal(t, "localhost", result.Deployments[0].Network)
		assert.Equal(t, "FlashApp", result.Deployments[0].ContractName)
		assert.Equal(t, "FlashToken", result.Deployments[1].ContractName)
		assert.Equal(t, "ropsten", result.Deployments[2].Network)

		assert.Equal(t, 3, result.Summary.Total)
		assert.Equal(t, map[string]int{"localhost": 2, "ropsten": 1}, result.Summary.ByNetwork)
		require.Len(t, progress.events, 2)
		assert.Equal(t, "complete", progress.events[1].Stage)
	})

	t.Run("filtered by contract", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("List", ctx, "").Return(append([]*domain.DeploymentRecord{}, records...), nil)

		result, err := usecase.NewListDeployments(store, usecase.NopProgress{}).Run(ctx, usecase.ListDeploymentsParams{ContractName: "FlashApp"})
		require.NoError(t, err)
		assert.Len(t, result.Deployments, 2)
	})

	t.Run("store error", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("List", ctx, "kovan").Return(nil, errors.New("corrupt registry"))

		_, err := usecase.NewListDeployments(store, usecase.NopProgress{}).Run(ctx, usecase.ListDeploymentsParams{Network: "kovan"})
		assert.EqualError(t, err, "corrupt registry")
	})
}

func TestListArtifacts(t *testing.T) {
	ctx := context.Background()
	cfg := &config.RuntimeConfig{ArtifactsDir: "/project/artifacts"}
	all := []*domain.Artifact{testutil.StubArtifact("FlashApp"), testutil.StubArtifact("FlashToken")}

	t.Run("lists everything", func(t *testing.T) {
		repo := new(MockArtifactRepository)
		repo.On("List", ctx).Return(all, nil)

		result, err := usecase.NewListArtifacts(cfg, repo).Run(ctx, usecase.ListArtifactsParams{})
		require.NoError(t, err)
		assert.Equal(t, "/project/artifacts", result.Dir)
		assert.Len(t, result.Artifacts, 2)
	})

	t.Run("searches with a pattern", func(t *testing.T) {
		repo := new(MockArtifactRepository)
		repo.On("Search", ctx, "app").Return(all[:1], nil)

		result, err := usecase.NewListArtifacts(cfg, repo).Run(ctx, usecase.ListArtifactsParams{Pattern: "app"})
		require.NoError(t, err)
		require.Len(t, result.Artifacts, 1)
		assert.Equal(t, "FlashApp", result.Artifacts[0].Name)
		repo.AssertNotCalled(t, "List", ctx)
	})
}

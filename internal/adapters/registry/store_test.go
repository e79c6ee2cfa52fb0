package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(network, name, addr string) *domain.DeploymentRecord {
	return &domain.DeploymentRecord{
		Network:      network,
		ChainID:      3,
		ContractName: name,
		Address:      common.HexToAddress(addr),
		BlockNumber:  10,
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".flash")
	ctx := context.Background()

	store := NewStoreAt(dir)
	require.NoError(t, store.Save(ctx, record("ropsten", "FlashProtocol", "0x01")))
	require.NoError(t, store.Save(ctx, record("ropsten", "FlashApp", "0x02")))
	require.NoError(t, store.Save(ctx, record("localhost", "FlashApp", "0x03")))

	// Redeploy replaces the earlier record
	require.NoError(t, store.Save(ctx, record("ropsten", "FlashApp", "0x04")))

	_, err := os.Stat(filepath.Join(dir, DeploymentsFile))
	require.NoError(t, err)

	// A fresh store reads what was written
	reopened := NewStoreAt(dir)
	got, err := reopened.Get(ctx, "ropsten", "FlashApp")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x04"), got.Address)

	_, err = reopened.Get(ctx, "mainnet", "FlashApp")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewStoreAt(t.TempDir())

	require.NoError(t, store.Save(ctx, record("ropsten", "FlashProtocol", "0x01")))
	require.NoError(t, store.Save(ctx, record("ropsten", "FlashApp", "0x02")))
	require.NoError(t, store.Save(ctx, record("localhost", "FlashApp", "0x03")))

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "localhost", all[0].Network)
	assert.Equal(t, "FlashApp", all[1].ContractName)
	assert.Equal(t, "FlashProtocol", all[2].ContractName)

	ropsten, err := store.List(ctx, "ropsten")
	require.NoError(t, err)
	assert.Len(t, ropsten, 2)
}

func TestStore_EmptyAndCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	empty, err := NewStoreAt(dir).List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, DeploymentsFile), []byte("{not json"), 0644))
	_, err = NewStoreAt(dir).List(ctx, "")
	assert.Error(t, err)
}

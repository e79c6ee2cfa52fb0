package contracts

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/adapters/devchain"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/flash-protocol/flash-deployer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*devchain.Chain, *chain.Client) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dev, err := devchain.New(config.DevChainConfig{
		Mnemonic: "test test test test test test test test test test test junk",
		Accounts: 2,
		Balance:  "1000000000000000000000",
		GasLimit: 9999999,
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })

	client, err := chain.NewClient(context.Background(), dev.Client(), log)
	require.NoError(t, err)
	return dev, client
}

func TestFlashApp_Pool(t *testing.T) {
	dev, client := newClient(t)
	ctx := context.Background()

	deployment, err := client.Deploy(ctx, dev.Accounts()[0], testutil.AnswerArtifact(), common.Address{}, big.NewInt(0))
	require.NoError(t, err)
	app := NewFlashApp(deployment.Contract)

	token := common.HexToAddress("0x1111111111111111111111111111111111111111")
	pool, err := app.Pool(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, token, pool.Token)
	assert.True(t, pool.Exists())
}

func TestFlashApp_CreatePoolRevert(t *testing.T) {
	dev, client := newClient(t)
	ctx := context.Background()

	deployment, err := client.Deploy(ctx, dev.Accounts()[0], testutil.ReverterArtifact(domain.ReasonInvalidTokenAddress))
	require.NoError(t, err)
	app := NewFlashApp(deployment.Contract)

	_, err = app.CreatePool(ctx, dev.Accounts()[0], common.Address{})
	require.Error(t, err)
	assert.True(t, domain.IsRevert(err, domain.ReasonInvalidTokenAddress), "got %v", err)
}

func TestPool_Exists(t *testing.T) {
	assert.False(t, domain.Pool{}.Exists())
	assert.True(t, domain.Pool{Address: common.HexToAddress("0x01")}.Exists())
}

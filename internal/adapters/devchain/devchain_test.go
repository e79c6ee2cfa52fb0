package devchain

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.DevChainConfig {
	return config.DevChainConfig{
		Mnemonic: "test test test test test test test test test test test junk",
		Accounts: 2,
		Balance:  "10000000000000000000000",
		GasLimit: 9999999,
	}
}

func newChain(t *testing.T, cfg config.DevChainConfig) *Chain {
	t.Helper()
	c, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNew_FundsMnemonicAccounts(t *testing.T) {
	c := newChain(t, testConfig())
	ctx := context.Background()

	require.Len(t, c.Accounts(), 2)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), c.Accounts()[0].Address())
	assert.Equal(t, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), c.Accounts()[1].Address())

	expected, _ := new(big.Int).SetString("10000000000000000000000", 10)
	for _, account := range c.Accounts() {
		balance, err := c.Client().BalanceAt(ctx, account.Address(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, expected.Cmp(balance))
	}

	chainID, err := c.Client().ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1337), chainID.Uint64())
}

func TestNew_InvalidConfig(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig()
	cfg.Accounts = 0
	_, err := New(cfg, log)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Balance = "lots"
	_, err = New(cfg, log)
	assert.Error(t, err)
}

func TestAccount(t *testing.T) {
	c := newChain(t, testConfig())

	account, err := c.Account(1)
	require.NoError(t, err)
	assert.Equal(t, c.Accounts()[1], account)

	_, err = c.Account(2)
	assert.Error(t, err)
	_, err = c.Account(-1)
	assert.Error(t, err)
}

func TestAdvanceTime(t *testing.T) {
	c := newChain(t, testConfig())
	ctx := context.Background()

	before, err := c.Client().HeaderByNumber(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, c.AdvanceTime(ctx, time.Hour))

	after, err := c.Client().HeaderByNumber(ctx, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, after.Time, before.Time+3600)
}

func TestGasLimit(t *testing.T) {
	c := newChain(t, testConfig())

	header, err := c.Client().HeaderByNumber(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(9999999), header.GasLimit)
}

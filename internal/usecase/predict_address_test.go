package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPredictAddress(t *testing.T) {
	ctx := context.Background()
	nonce := func(n uint64) *uint64 { return &n }

	t.Run("explicit deployer and nonce stay offline", func(t *testing.T) {
		connector := new(MockConnector)
		uc := usecase.NewPredictAddress(runtimeConfig(true), connector)

		result, err := uc.Run(ctx, usecase.PredictAddressParams{
			From:  deployer.Hex(),
			Nonce: nonce(0),
			Count: 2,
		})
		require.NoError(t, err)

		require.Len(t, result.Predictions, 2)
		assert.Equal(t, deployer, result.From)
		assert.Equal(t, common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), result.Predictions[0].Address)
		assert.Equal(t, common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"), result.Predictions[1].Address)
		assert.Equal(t, uint64(1), result.Predictions[1].Nonce)
		connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
	})

	t.Run("sender and pending nonce from the network", func(t *testing.T) {
		cfg := runtimeConfig(true)
		connector := new(MockConnector)
		session := newMockSession(receiver)
		connector.On("Connect", ctx, cfg.Network).Return(session, nil)
		session.On("Nonce", ctx, receiver).Return(uint64(12), nil)

		result, err := usecase.NewPredictAddress(cfg, connector).Run(ctx, usecase.PredictAddressParams{})
		require.NoError(t, err)

		require.Len(t, result.Predictions, 1)
		assert.Equal(t, receiver, result.From)
		assert.Equal(t, uint64(12), result.Predictions[0].Nonce)
		assert.Equal(t, crypto.CreateAddress(receiver, 12), result.Predictions[0].Address)
		assert.True(t, session.closed)
	})

	t.Run("explicit nonce for the network sender", func(t *testing.T) {
		cfg := runtimeConfig(true)
		connector := new(MockConnector)
		session := newMockSession(deployer)
		connector.On("Connect", ctx, cfg.Network).Return(session, nil)

		result, err := usecase.NewPredictAddress(cfg, connector).Run(ctx, usecase.PredictAddressParams{Nonce: nonce(4)})
		require.NoError(t, err)
		assert.Equal(t, crypto.CreateAddress(deployer, 4), result.Predictions[0].Address)
		session.AssertNotCalled(t, "Nonce", mock.Anything, mock.Anything)
	})

	t.Run("invalid deployer", func(t *testing.T) {
		_, err := usecase.NewPredictAddress(runtimeConfig(true), new(MockConnector)).Run(ctx, usecase.PredictAddressParams{From: "0xnope"})
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	})

	t.Run("nonce lookup failure", func(t *testing.T) {
		cfg := runtimeConfig(true)
		connector := new(MockConnector)
		session := newMockSession(deployer)
		connector.On("Connect", ctx, cfg.Network).Return(session, nil)
		session.On("Nonce", ctx, deployer).Return(uint64(0), errors.New("connection refused"))

		_, err := usecase.NewPredictAddress(cfg, connector).Run(ctx, usecase.PredictAddressParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

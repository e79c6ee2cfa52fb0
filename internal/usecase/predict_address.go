package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
)

// PredictAddressParams contains parameters for predicting a CREATE address
type PredictAddressParams struct {
	// From defaults to the network's sender
	From string
	// Nonce skips the chain lookup when set
	Nonce *uint64
	// Count predicts this many consecutive addresses
	Count int
}

// PredictedAddress is the address a deployment at Nonce would get
type PredictedAddress struct {
	Nonce   uint64         `json:"nonce"`
	Address common.Address `json:"address"`
}

// PredictAddressResult contains the predictions
type PredictAddressResult struct {
	From        common.Address     `json:"from"`
	Predictions []PredictedAddress `json:"predictions"`
}

// PredictAddress computes the address of the next contract a deployer creates
type PredictAddress struct {
	config    *config.RuntimeConfig
	connector ChainConnector
}

// NewPredictAddress creates a new PredictAddress use case
func NewPredictAddress(cfg *config.RuntimeConfig, connector ChainConnector) *PredictAddress {
	return &PredictAddress{
		config:    cfg,
		connector: connector,
	}
}

// Run predicts from an explicit nonce, or from the deployer's pending nonce on the network
func (uc *PredictAddress) Run(ctx context.Context, params PredictAddressParams) (*PredictAddressResult, error) {
	if params.From != "" && !common.IsHexAddress(params.From) {
		return nil, fmt.Errorf("--from: %w: %s", domain.ErrInvalidAddress, params.From)
	}
	count := params.Count
	if count <= 0 {
		count = 1
	}

	from := common.HexToAddress(params.From)
	var nonce uint64
	if params.Nonce != nil && params.From != "" {
		nonce = *params.Nonce
	} else {
		network, err := requireNetwork(uc.config)
		if err != nil {
			return nil, err
		}
		session, err := uc.connector.Connect(ctx, network)
		if err != nil {
			return nil, err
		}
		defer session.Close()

		if params.From == "" {
			from = session.Sender().Address()
		}
		if params.Nonce != nil {
			nonce = *params.Nonce
		} else {
			nonce, err = session.Nonce(ctx, from)
			if err != nil {
				return nil, fmt.Errorf("failed to get nonce of %s: %w", from.Hex(), err)
			}
		}
	}

	result := &PredictAddressResult{From: from}
	for i := 0; i < count; i++ {
		result.Predictions = append(result.Predictions, PredictedAddress{
			Nonce:   nonce + uint64(i),
			Address: chain.PredictAddressAt(from, nonce+uint64(i)),
		})
	}
	return result, nil
}

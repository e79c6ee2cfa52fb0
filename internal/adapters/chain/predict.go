package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// NonceReader reads an account's next transaction nonce
type NonceReader interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// PredictAddress returns the address the next contract created by from will occupy.
// It reads chain state, so it must be called before the deploying transaction is sent.
func PredictAddress(ctx context.Context, backend NonceReader, from common.Address) (common.Address, error) {
	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get nonce of %s: %w", from.Hex(), err)
	}
	return PredictAddressAt(from, nonce), nil
}

// PredictAddressAt returns the CREATE address for from at an explicit nonce
func PredictAddressAt(from common.Address, nonce uint64) common.Address {
	return crypto.CreateAddress(from, nonce)
}

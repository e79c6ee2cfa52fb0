package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/domain"
)

// FlashProtocol wraps the staking contract
type FlashProtocol struct {
	*chain.Contract
}

func NewFlashProtocol(c *chain.Contract) *FlashProtocol {
	return &FlashProtocol{Contract: c}
}

func (p *FlashProtocol) Stake(ctx context.Context, from chain.Account, amount, days *big.Int, receiver common.Address, data []byte) (*types.Receipt, error) {
	if data == nil {
		data = []byte{}
	}
	return p.Transact(ctx, from, "stake", amount, days, receiver, data)
}

func (p *FlashProtocol) Unstake(ctx context.Context, from chain.Account, id common.Hash) (*types.Receipt, error) {
	return p.Transact(ctx, from, "unstake", id)
}

// GetStake reads stakes(id). An unknown id yields a record with zero amountIn.
func (p *FlashProtocol) GetStake(ctx context.Context, id common.Hash) (*domain.Stake, error) {
	fields, err := p.CallInto(ctx, "stakes", id)
	if err != nil {
		return nil, err
	}

	stake := &domain.Stake{ID: id}
	if _, named := fields["amountIn"]; named {
		stake.AmountIn, _ = fields["amountIn"].(*big.Int)
		stake.Expiry, _ = fields["expiry"].(*big.Int)
		stake.ExpireAfter, _ = fields["expireAfter"].(*big.Int)
		stake.MintedAmount, _ = fields["mintedAmount"].(*big.Int)
		stake.Staker, _ = fields["staker"].(common.Address)
		stake.Receiver, _ = fields["receiver"].(common.Address)
		return stake, nil
	}

	// Unnamed outputs: amountIn, expiry, expireAfter, mintedAmount, staker, receiver
	out, err := p.Call(ctx, "stakes", id)
	if err != nil {
		return nil, err
	}
	if len(out) < 6 {
		return nil, fmt.Errorf("stakes(%s) returned %d values", id.Hex(), len(out))
	}
	stake.AmountIn, _ = out[0].(*big.Int)
	stake.Expiry, _ = out[1].(*big.Int)
	stake.ExpireAfter, _ = out[2].(*big.Int)
	stake.MintedAmount, _ = out[3].(*big.Int)
	stake.Staker, _ = out[4].(common.Address)
	stake.Receiver, _ = out[5].(common.Address)
	return stake, nil
}

package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/domain"
)

// FlashApp wraps the pool factory and router
type FlashApp struct {
	*chain.Contract
}

func NewFlashApp(c *chain.Contract) *FlashApp {
	return &FlashApp{Contract: c}
}

// Liquidity are the arguments of addLiquidityInPool
type Liquidity struct {
	Token          common.Address
	AmountFlash    *big.Int
	AmountAlt      *big.Int
	AmountFlashMin *big.Int
	AmountAltMin   *big.Int
}

func (a *FlashApp) CreatePool(ctx context.Context, from chain.Account, token common.Address) (*types.Receipt, error) {
	return a.Transact(ctx, from, "createPool", token)
}

// Pool reads pools(token); a zero address means no pool
func (a *FlashApp) Pool(ctx context.Context, token common.Address) (domain.Pool, error) {
	addr, err := a.CallAddress(ctx, "pools", token)
	if err != nil {
		return domain.Pool{}, err
	}
	return domain.Pool{Token: token, Address: addr}, nil
}

func (a *FlashApp) AddLiquidity(ctx context.Context, from chain.Account, l Liquidity) (*types.Receipt, error) {
	return a.Transact(ctx, from, "addLiquidityInPool",
		l.AmountFlash, l.AmountAlt, l.AmountFlashMin, l.AmountAltMin, l.Token)
}

func (a *FlashApp) RemoveLiquidity(ctx context.Context, from chain.Account, token common.Address, liquidity *big.Int) (*types.Receipt, error) {
	return a.Transact(ctx, from, "removeLiquidityInPool", liquidity, token)
}

// RemoveLiquidityWithPermit burns pool tokens using an EIP-2612 permit instead of an allowance
func (a *FlashApp) RemoveLiquidityWithPermit(ctx context.Context, from chain.Account, token common.Address, sig *domain.PermitSignature) (*types.Receipt, error) {
	return a.Transact(ctx, from, "removeLiquidityInPoolWithPermit",
		sig.Value, token, sig.Deadline, sig.V, sig.R, sig.S)
}

func (a *FlashApp) Swap(ctx context.Context, from chain.Account, token common.Address, altQuantity, expectedOutput *big.Int) (*types.Receipt, error) {
	return a.Transact(ctx, from, "swap", altQuantity, token, expectedOutput)
}

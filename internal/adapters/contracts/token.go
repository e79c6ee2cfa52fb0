package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/adapters/permit"
)

// Token wraps an ERC-20, optionally mintable and EIP-2612 enabled
type Token struct {
	*chain.Contract
}

func NewToken(c *chain.Contract) *Token {
	return &Token{Contract: c}
}

func (t *Token) Approve(ctx context.Context, from chain.Account, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, from, "approve", spender, amount)
}

func (t *Token) Mint(ctx context.Context, from chain.Account, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, from, "mint", to, amount)
}

func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return t.CallBig(ctx, "balanceOf", owner)
}

func (t *Token) Nonce(ctx context.Context, owner common.Address) (*big.Int, error) {
	return t.CallBig(ctx, "nonces", owner)
}

func (t *Token) TokenName(ctx context.Context) (string, error) {
	out, err := t.Call(ctx, "name")
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("%s.name returned nothing", t.Name)
	}
	name, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%s.name returned %T", t.Name, out[0])
	}
	return name, nil
}

// PermitDomain builds the token's EIP-712 domain. When the token exposes
// DOMAIN_SEPARATOR the computed separator is checked against it.
func (t *Token) PermitDomain(ctx context.Context, chainID *big.Int) (permit.Domain, error) {
	name, err := t.TokenName(ctx)
	if err != nil {
		return permit.Domain{}, err
	}

	d := permit.Domain{
		Name:              name,
		Version:           permit.DefaultVersion,
		ChainID:           chainID,
		VerifyingContract: t.Address,
	}

	if _, ok := t.ABI.Methods["DOMAIN_SEPARATOR"]; ok {
		out, err := t.Call(ctx, "DOMAIN_SEPARATOR")
		if err != nil {
			return permit.Domain{}, err
		}
		onChain, ok := out[0].([32]byte)
		if !ok {
			return permit.Domain{}, fmt.Errorf("%s.DOMAIN_SEPARATOR returned %T", t.Name, out[0])
		}
		computed, err := permit.DomainSeparator(d)
		if err != nil {
			return permit.Domain{}, err
		}
		if computed != common.Hash(onChain) {
			return permit.Domain{}, fmt.Errorf("%s domain separator mismatch: computed %s, on chain %s",
				t.Name, computed.Hex(), common.Hash(onChain).Hex())
		}
	}

	return d, nil
}

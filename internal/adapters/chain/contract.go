package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Contract is a deployed contract bound to a client
type Contract struct {
	Name    string
	Address common.Address
	ABI     *abi.ABI

	bound  *bind.BoundContract
	client *Client
}

// Call executes a read-only method against the latest block
func (k *Contract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := k.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s.%s: %w", k.Name, method, err)
	}

	out, err := bind.Call(k.bound, &bind.CallOpts{Context: ctx}, data, func(output []byte) ([]any, error) {
		return k.ABI.Unpack(method, output)
	})
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", k.Name, method, wrapRevert(err))
	}
	return out, nil
}

// CallInto executes a read-only method and unpacks named outputs into a map
func (k *Contract) CallInto(ctx context.Context, method string, args ...any) (map[string]any, error) {
	data, err := k.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s.%s: %w", k.Name, method, err)
	}

	out, err := bind.Call(k.bound, &bind.CallOpts{Context: ctx}, data, func(output []byte) (map[string]any, error) {
		values := make(map[string]any)
		if err := k.ABI.UnpackIntoMap(values, method, output); err != nil {
			return nil, err
		}
		return values, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", k.Name, method, wrapRevert(err))
	}
	return out, nil
}

// CallAddress calls a method returning a single address
func (k *Contract) CallAddress(ctx context.Context, method string, args ...any) (common.Address, error) {
	out, err := k.Call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("%s.%s returned nothing", k.Name, method)
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s.%s returned %T, not an address", k.Name, method, out[0])
	}
	return addr, nil
}

// CallBig calls a method returning a single integer
func (k *Contract) CallBig(ctx context.Context, method string, args ...any) (*big.Int, error) {
	out, err := k.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s.%s returned nothing", k.Name, method)
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s.%s returned %T, not an integer", k.Name, method, out[0])
	}
	return value, nil
}

// Transact sends a state-changing call and waits for its receipt.
// Reverts are reported as *domain.RevertError before anything is broadcast.
func (k *Contract) Transact(ctx context.Context, from Account, method string, args ...any) (*types.Receipt, error) {
	data, err := k.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s.%s: %w", k.Name, method, err)
	}

	opts, err := k.client.prepare(ctx, from, &k.Address, nil, data)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", k.Name, method, err)
	}

	tx, err := bind.Transact(k.bound, opts, data)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s.%s: %w", k.Name, method, wrapRevert(err))
	}
	k.client.log.Debug("transaction sent", "contract", k.Name, "method", method, "tx", tx.Hash())

	receipt, err := k.client.WaitMined(ctx, tx)
	if err != nil {
		return receipt, fmt.Errorf("%s.%s: %w", k.Name, method, err)
	}
	return receipt, nil
}

package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Contract names as they appear in the compiled artifacts
const (
	ContractFlashApp      = "FlashApp"
	ContractFlashProtocol = "FlashProtocol"
	ContractFlashToken    = "FlashToken"
	ContractAltToken      = "ALTToken"
	ContractPool          = "Pool"
)

// Revert reasons raised by FlashApp
const (
	ReasonInvalidTokenAddress = "FlashApp:: INVALID_TOKEN_ADDRESS"
	ReasonPoolAlreadyExists   = "FlashApp:: POOL_ALREADY_EXISTS"
	ReasonPoolDoesntExist     = "FlashApp:: POOL_DOESNT_EXIST"
)

// Events asserted on by the scenario runner
const (
	EventPoolCreated      = "PoolCreated"
	EventLiquidityAdded   = "LiquidityAdded"
	EventLiquidityRemoved = "LiquidityRemoved"
	EventSwapped          = "Swapped"
	EventStaked           = "Staked"
	EventUnstaked         = "Unstaked"
)

// Pool is the liquidity reserve FlashApp created for a token
type Pool struct {
	Token   common.Address `json:"token"`
	Address common.Address `json:"address"`
}

// Exists reports whether the pools mapping returned a non-zero address
func (p Pool) Exists() bool {
	return p.Address != (common.Address{})
}

// Stake is a FlashProtocol stake record
type Stake struct {
	ID           common.Hash    `json:"id"`
	AmountIn     *big.Int       `json:"amountIn"`
	Expiry       *big.Int       `json:"expiry"`
	ExpireAfter  *big.Int       `json:"expireAfter"`
	MintedAmount *big.Int       `json:"mintedAmount"`
	Staker       common.Address `json:"staker"`
	Receiver     common.Address `json:"receiver"`
}

// Active reports whether the record holds a deposit
func (s *Stake) Active() bool {
	return s != nil && s.AmountIn != nil && s.AmountIn.Sign() > 0
}

// StakeID computes keccak256(abi.encodePacked(amount, duration, app, staker, timestamp)),
// the identifier FlashProtocol assigns to a stake.
func StakeID(amount, duration *big.Int, app, staker common.Address, timestamp uint64) common.Hash {
	return crypto.Keccak256Hash(
		common.LeftPadBytes(amount.Bytes(), 32),
		common.LeftPadBytes(duration.Bytes(), 32),
		app.Bytes(),
		staker.Bytes(),
		common.LeftPadBytes(new(big.Int).SetUint64(timestamp).Bytes(), 32),
	)
}

// PermitSignature is an EIP-2612 permit split into its on-chain parts
type PermitSignature struct {
	Owner    common.Address `json:"owner"`
	Spender  common.Address `json:"spender"`
	Value    *big.Int       `json:"value"`
	Nonce    *big.Int       `json:"nonce"`
	Deadline *big.Int       `json:"deadline"`
	V        uint8          `json:"v"`
	R        [32]byte       `json:"r"`
	S        [32]byte       `json:"s"`
}

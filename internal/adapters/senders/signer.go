package senders

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// Signer is an account that can sign transactions and typed data
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner wraps an existing private key
func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// FromPrivateKey parses a hex private key, with or without 0x prefix
func FromPrivateKey(hexKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return NewSigner(key), nil
}

// FromMnemonic derives the account at m/44'/60'/0'/0/{index}
func FromMnemonic(mnemonic string, index uint32) (*Signer, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if mnemonic == "" {
		return nil, fmt.Errorf("empty mnemonic")
	}

	raw, err := deriveKey(bip39.NewSeed(mnemonic, ""), index)
	if err != nil {
		return nil, fmt.Errorf("derive account %d: %w", index, err)
	}

	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid derived key: %w", err)
	}
	return NewSigner(key), nil
}

// FromMnemonicRange derives count consecutive accounts starting at index 0
func FromMnemonicRange(mnemonic string, count int) ([]*Signer, error) {
	signers := make([]*Signer, 0, count)
	for i := 0; i < count; i++ {
		s, err := FromMnemonic(mnemonic, uint32(i))
		if err != nil {
			return nil, err
		}
		signers = append(signers, s)
	}
	return signers, nil
}

// FromConfig builds the signer described by a network's sender section
func FromConfig(cfg config.SenderConfig) (*Signer, error) {
	switch cfg.Type {
	case config.SenderTypePrivateKey:
		if cfg.PrivateKey == "" {
			return nil, domain.ErrNoSender
		}
		return FromPrivateKey(cfg.PrivateKey)
	case config.SenderTypeMnemonic:
		if cfg.Mnemonic == "" {
			return nil, domain.ErrNoSender
		}
		return FromMnemonic(cfg.Mnemonic, cfg.Index)
	case "":
		return nil, domain.ErrNoSender
	default:
		return nil, fmt.Errorf("unsupported sender type: %s", cfg.Type)
	}
}

func (s *Signer) Address() common.Address {
	return s.address
}

func (s *Signer) Key() *ecdsa.PrivateKey {
	return s.key
}

// TransactOpts returns fresh transaction options signing with EIP-155 for chainID
func (s *Signer) TransactOpts(ctx context.Context, chainID *big.Int) *bind.TransactOpts {
	signer := types.LatestSignerForChainID(chainID)
	return &bind.TransactOpts{
		From: s.address,
		Signer: func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if address != s.address {
				return nil, fmt.Errorf("signer %s cannot sign for %s", s.address.Hex(), address.Hex())
			}
			return types.SignTx(tx, signer, s.key)
		},
		Context: ctx,
	}
}

// SignHash signs a 32-byte digest, returning r || s || v with v in {27, 28}
func (s *Signer) SignHash(digest []byte) ([]byte, error) {
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

// deriveKey walks m/44'/60'/0'/0/{index}
func deriveKey(seed []byte, index uint32) ([]byte, error) {
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}

	path := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + 60,
		bip32.FirstHardenedChild + 0,
		0,
		index,
	}
	for _, child := range path {
		key, err = key.NewChildKey(child)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", child, err)
		}
	}

	return common.LeftPadBytes(key.Key, 32), nil
}

package permit

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/flash-protocol/flash-deployer/internal/domain"
)

// DefaultVersion is the EIP-712 domain version used by the pool tokens
const DefaultVersion = "1"

// Domain is the EIP-712 domain of a permit-capable token
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// Permit is an EIP-2612 Permit message
type Permit struct {
	Owner    common.Address
	Spender  common.Address
	Value    *big.Int
	Nonce    *big.Int
	Deadline *big.Int
}

// HashSigner signs a 32-byte digest, returning r || s || v with v in {27, 28}
type HashSigner interface {
	Address() common.Address
	SignHash(digest []byte) ([]byte, error)
}

var permitTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Permit": {
		{Name: "owner", Type: "address"},
		{Name: "spender", Type: "address"},
		{Name: "value", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "deadline", Type: "uint256"},
	},
}

func typedData(d Domain, p Permit) apitypes.TypedData {
	version := d.Version
	if version == "" {
		version = DefaultVersion
	}
	return apitypes.TypedData{
		Types:       permitTypes,
		PrimaryType: "Permit",
		Domain: apitypes.TypedDataDomain{
			Name:              d.Name,
			Version:           version,
			ChainId:           (*math.HexOrDecimal256)(d.ChainID),
			VerifyingContract: d.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"owner":    p.Owner.Hex(),
			"spender":  p.Spender.Hex(),
			"value":    p.Value,
			"nonce":    p.Nonce,
			"deadline": p.Deadline,
		},
	}
}

// DomainSeparator returns the hash a token exposes as DOMAIN_SEPARATOR()
func DomainSeparator(d Domain) (common.Hash, error) {
	td := typedData(d, Permit{})
	separator, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}
	return common.BytesToHash(separator), nil
}

// Digest returns keccak256(0x1901 || domainSeparator || hashStruct(permit))
func Digest(d Domain, p Permit) (common.Hash, error) {
	if p.Value == nil || p.Nonce == nil || p.Deadline == nil {
		return common.Hash{}, fmt.Errorf("permit value, nonce and deadline are required")
	}
	if d.ChainID == nil {
		return common.Hash{}, fmt.Errorf("permit domain needs a chain ID")
	}

	td := typedData(d, p)
	structHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash permit: %w", err)
	}
	separator, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}

	raw := append([]byte{0x19, 0x01}, separator...)
	raw = append(raw, structHash...)
	return crypto.Keccak256Hash(raw), nil
}

// Sign signs the permit with signer. The signer need not be the permit owner;
// a mismatched key yields a signature the token will reject.
func Sign(signer HashSigner, d Domain, p Permit) (*domain.PermitSignature, error) {
	digest, err := Digest(d, p)
	if err != nil {
		return nil, err
	}

	sig, err := signer.SignHash(digest.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to sign permit: %w", err)
	}

	out := &domain.PermitSignature{
		Owner:    p.Owner,
		Spender:  p.Spender,
		Value:    p.Value,
		Nonce:    p.Nonce,
		Deadline: p.Deadline,
		V:        sig[64],
	}
	copy(out.R[:], sig[0:32])
	copy(out.S[:], sig[32:64])
	return out, nil
}

// Recover returns the address that produced sig over the permit
func Recover(d Domain, sig *domain.PermitSignature) (common.Address, error) {
	digest, err := Digest(d, Permit{
		Owner:    sig.Owner,
		Spender:  sig.Spender,
		Value:    sig.Value,
		Nonce:    sig.Nonce,
		Deadline: sig.Deadline,
	})
	if err != nil {
		return common.Address{}, err
	}

	raw := make([]byte, 65)
	copy(raw[0:32], sig.R[:])
	copy(raw[32:64], sig.S[:])
	raw[64] = sig.V - 27

	pub, err := crypto.SigToPub(digest.Bytes(), raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

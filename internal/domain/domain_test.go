package domain

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStakeID(t *testing.T) {
	amount := new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))
	days := big.NewInt(2)
	app := common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	staker := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	timestamp := uint64(1700000000)

	// Packed: two uint256 words, two bare addresses, one uint256 word
	var preimage bytes.Buffer
	preimage.Write(common.BigToHash(amount).Bytes())
	preimage.Write(common.BigToHash(days).Bytes())
	preimage.Write(app.Bytes())
	preimage.Write(staker.Bytes())
	preimage.Write(common.BigToHash(new(big.Int).SetUint64(timestamp)).Bytes())
	require.Equal(t, 136, preimage.Len())

	id := StakeID(amount, days, app, staker, timestamp)
	assert.Equal(t, crypto.Keccak256Hash(preimage.Bytes()), id)

	assert.NotEqual(t, id, StakeID(amount, days, app, staker, timestamp+1))
	assert.NotEqual(t, id, StakeID(amount, big.NewInt(3), app, staker, timestamp))
	assert.NotEqual(t, id, StakeID(amount, days, staker, app, timestamp))
}

func TestStake_Active(t *testing.T) {
	var missing *Stake
	assert.False(t, missing.Active())
	assert.False(t, (&Stake{}).Active())
	assert.False(t, (&Stake{AmountIn: new(big.Int)}).Active())
	assert.True(t, (&Stake{AmountIn: big.NewInt(1)}).Active())
}

func TestPool_Exists(t *testing.T) {
	assert.False(t, Pool{Token: common.HexToAddress("0x01")}.Exists())
	assert.True(t, Pool{Address: common.HexToAddress("0x02")}.Exists())
}

func TestIsRevert(t *testing.T) {
	wrapped := fmt.Errorf("FlashApp.createPool: %w", &RevertError{Reason: ReasonPoolAlreadyExists})

	assert.True(t, IsRevert(wrapped, ReasonPoolAlreadyExists))
	assert.True(t, IsRevert(wrapped, ""))
	assert.False(t, IsRevert(wrapped, ReasonPoolDoesntExist))
	assert.False(t, IsRevert(errors.New("execution reverted"), ""))

	assert.Equal(t, "execution reverted", (&RevertError{}).Error())
	assert.Equal(t, "execution reverted: "+ReasonInvalidTokenAddress, (&RevertError{Reason: ReasonInvalidTokenAddress}).Error())
}

func TestArtifact_CreationCode(t *testing.T) {
	tests := []struct {
		name     string
		bytecode string
		want     []byte
		wantErr  string
	}{
		{name: "prefixed", bytecode: "0x6001", want: []byte{0x60, 0x01}},
		{name: "bare hex", bytecode: "6001", want: []byte{0x60, 0x01}},
		{name: "empty", bytecode: "0x", wantErr: "no bytecode"},
		{name: "unlinked library", bytecode: "0x73__$abc$__", wantErr: "unlinked library"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := (&Artifact{Name: "FlashApp", Bytecode: tt.bytecode}).CreationCode()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestAmbiguousArtifactErr(t *testing.T) {
	err := AmbiguousArtifactErr{
		Name: "FlashToken",
		Matches: []*Artifact{
			{Name: "FlashToken", SourcePath: "contracts/FlashToken.sol"},
			{Name: "FlashToken", SourcePath: "contracts/v1/FlashToken.sol"},
		},
	}
	assert.Contains(t, err.Error(), "use path:Name")
	assert.Contains(t, err.Error(), "contracts/v1/FlashToken.sol")
	assert.Equal(t, "contracts/FlashToken.sol:FlashToken", err.Matches[0].Key())
}

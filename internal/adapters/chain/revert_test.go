package chain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/stretchr/testify/assert"
)

type dataError struct {
	msg  string
	data any
}

func (e *dataError) Error() string  { return e.msg }
func (e *dataError) ErrorData() any { return e.data }

// Error(string) payload for "FlashApp:: INVALID_TOKEN_ADDRESS"
const invalidTokenPayload = "0x08c379a0" +
	"0000000000000000000000000000000000000000000000000000000000000020" +
	"0000000000000000000000000000000000000000000000000000000000000020" +
	"466c6173684170703a3a20494e56414c49445f544f4b454e5f41444452455353"

func TestDecodeRevert(t *testing.T) {
	payload := hexutil.MustDecode(invalidTokenPayload)

	tests := []struct {
		name       string
		err        error
		wantRevert bool
		wantReason string
	}{
		{
			name:       "nil",
			err:        nil,
			wantRevert: false,
		},
		{
			name:       "rpc data error with hex string",
			err:        &dataError{msg: "execution reverted", data: invalidTokenPayload},
			wantRevert: true,
			wantReason: domain.ReasonInvalidTokenAddress,
		},
		{
			name:       "rpc data error with bytes",
			err:        &dataError{msg: "execution reverted", data: payload},
			wantRevert: true,
			wantReason: domain.ReasonInvalidTokenAddress,
		},
		{
			name:       "wrapped rpc data error",
			err:        fmt.Errorf("estimate gas: %w", &dataError{msg: "execution reverted", data: invalidTokenPayload}),
			wantRevert: true,
			wantReason: domain.ReasonInvalidTokenAddress,
		},
		{
			name:       "custom error keeps data without reason",
			err:        &dataError{msg: "execution reverted", data: "0xdeadbeef"},
			wantRevert: true,
			wantReason: "",
		},
		{
			name:       "message only",
			err:        errors.New("execution reverted: FlashApp:: POOL_DOESNT_EXIST"),
			wantRevert: true,
			wantReason: domain.ReasonPoolDoesntExist,
		},
		{
			name:       "message without reason",
			err:        errors.New("execution reverted"),
			wantRevert: true,
			wantReason: "",
		},
		{
			name:       "not a revert",
			err:        errors.New("insufficient funds for gas * price + value"),
			wantRevert: false,
		},
		{
			name:       "already decoded",
			err:        fmt.Errorf("step: %w", &domain.RevertError{Reason: "x"}),
			wantRevert: true,
			wantReason: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revert, ok := DecodeRevert(tt.err)
			assert.Equal(t, tt.wantRevert, ok)
			if tt.wantRevert {
				assert.Equal(t, tt.wantReason, revert.Reason)
			}
		})
	}
}

func TestRevertError_Error(t *testing.T) {
	assert.Equal(t, "execution reverted", (&domain.RevertError{}).Error())
	assert.Equal(t, "execution reverted: FlashApp:: POOL_ALREADY_EXISTS",
		(&domain.RevertError{Reason: domain.ReasonPoolAlreadyExists}).Error())
}

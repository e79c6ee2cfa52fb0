package chain

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/flash-protocol/flash-deployer/internal/domain"
)

const revertPrefix = "execution reverted"

// DecodeRevert extracts the revert reason from an RPC error.
// The error data is preferred; the message text is the fallback for nodes
// that only report "execution reverted: <reason>".
func DecodeRevert(err error) (*domain.RevertError, bool) {
	if err == nil {
		return nil, false
	}

	var existing *domain.RevertError
	if errors.As(err, &existing) {
		return existing, true
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data := revertData(dataErr.ErrorData()); len(data) > 0 {
			reason, unpackErr := abi.UnpackRevert(data)
			if unpackErr != nil {
				// Custom error or unknown selector: keep the raw data
				reason = ""
			}
			return &domain.RevertError{Reason: reason, Data: data}, true
		}
	}

	msg := err.Error()
	idx := strings.Index(msg, revertPrefix)
	if idx == -1 {
		return nil, false
	}
	reason := strings.TrimPrefix(msg[idx+len(revertPrefix):], ":")
	return &domain.RevertError{Reason: strings.TrimSpace(reason)}, true
}

func revertData(raw any) []byte {
	switch v := raw.(type) {
	case string:
		data, err := hexutil.Decode(v)
		if err != nil {
			return nil
		}
		return data
	case []byte:
		return v
	default:
		return nil
	}
}

// wrapRevert replaces err with a *domain.RevertError when it is a revert
func wrapRevert(err error) error {
	if revert, ok := DecodeRevert(err); ok {
		return revert
	}
	return err
}

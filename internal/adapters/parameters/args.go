package parameters

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/flash-protocol/flash-deployer/internal/domain"
)

// Parse converts command line strings into values abi.Pack accepts for inputs
func Parse(inputs abi.Arguments, values []string) ([]any, error) {
	if len(values) != len(inputs) {
		return nil, fmt.Errorf("expected %d arguments %s, got %d", len(inputs), Signature(inputs), len(values))
	}

	args := make([]any, len(inputs))
	for i, input := range inputs {
		value, err := ParseValue(input.Type, values[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		args[i] = value
	}
	return args, nil
}

// ParseValue converts a single string to the Go type of t
func ParseValue(t abi.Type, value string) (any, error) {
	value = strings.TrimSpace(value)

	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(value) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, value)
		}
		return common.HexToAddress(value), nil

	case abi.UintTy, abi.IntTy:
		return parseInteger(t, value)

	case abi.BoolTy:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", value)
		}
		return b, nil

	case abi.StringTy:
		return value, nil

	case abi.BytesTy:
		b, err := hexutil.Decode(value)
		if err != nil {
			return nil, fmt.Errorf("invalid hex bytes %q: %w", value, err)
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(value)
		if err != nil {
			return nil, fmt.Errorf("invalid hex bytes %q: %w", value, err)
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("%d bytes do not fit in bytes%d", len(b), t.Size)
		}
		// Fixed bytes are left aligned
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported argument type %s", t.String())
	}
}

func parseInteger(t abi.Type, value string) (any, error) {
	n, ok := new(big.Int).SetString(value, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", value)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for %s", n, t.String())
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	}

	// Sizes up to 64 bits pack from native Go integers
	goType := t.GetType()
	switch goType.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
	default:
		return n, nil
	}
}

// Signature renders inputs as "(address owner, uint256 amount)"
func Signature(inputs abi.Arguments) string {
	parts := make([]string, len(inputs))
	for i, input := range inputs {
		parts[i] = strings.TrimSpace(input.Type.String() + " " + input.Name)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

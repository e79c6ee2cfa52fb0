// Package testutil provides tiny hand-assembled contracts for chain tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/flash-protocol/flash-deployer/internal/domain"
)

// AnswerValue is what the answer contract returns for any call
const AnswerValue = 42

// SwappedSignature is the event emitted by the emitter contract
const SwappedSignature = "Swapped(address,uint256)"

// InitCode wraps runtime code in a constructor that returns it.
// Anything appended after the runtime (constructor arguments) is ignored.
func InitCode(runtime []byte) []byte {
	if len(runtime) > 0xffff {
		panic(fmt.Sprintf("runtime too long: %d bytes", len(runtime)))
	}
	hi, lo := byte(len(runtime)>>8), byte(len(runtime))
	init := []byte{
		0x61, hi, lo, // PUSH2 len
		0x60, 0x0e, // PUSH1 14 (runtime offset)
		0x60, 0x00, // PUSH1 0
		0x39,         // CODECOPY
		0x61, hi, lo, // PUSH2 len
		0x60, 0x00, // PUSH1 0
		0xf3, // RETURN
	}
	return append(init, runtime...)
}

// AnswerRuntime returns uint256(42) for any call
func AnswerRuntime() []byte {
	return []byte{
		0x60, AnswerValue, // PUSH1 42
		0x60, 0x00, // PUSH1 0
		0x52,       // MSTORE
		0x60, 0x20, // PUSH1 32
		0x60, 0x00, // PUSH1 0
		0xf3, // RETURN
	}
}

// ReverterRuntime reverts every call with Error(reason)
func ReverterRuntime(reason string) []byte {
	payload := revertPayload(reason)
	if len(payload)+12 > 0xff {
		panic("revert reason too long")
	}
	n := byte(len(payload))
	code := []byte{
		0x60, n, // PUSH1 len
		0x60, 0x0c, // PUSH1 12 (payload offset)
		0x60, 0x00, // PUSH1 0
		0x39,    // CODECOPY
		0x60, n, // PUSH1 len
		0x60, 0x00, // PUSH1 0
		0xfd, // REVERT
	}
	return append(code, payload...)
}

// EmitterRuntime emits Swapped(msg.sender, 42) on every call
func EmitterRuntime() []byte {
	topic := crypto.Keccak256([]byte(SwappedSignature))
	code := []byte{
		0x60, AnswerValue, // PUSH1 42
		0x60, 0x00, // PUSH1 0
		0x52, // MSTORE
		0x33, // CALLER
		0x7f, // PUSH32 topic
	}
	code = append(code, topic...)
	return append(code,
		0x60, 0x20, // PUSH1 32
		0x60, 0x00, // PUSH1 0
		0xa2, // LOG2
		0x00, // STOP
	)
}

func revertPayload(reason string) []byte {
	stringType, _ := abi.NewType("string", "", nil)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	if err != nil {
		panic(err)
	}
	selector := crypto.Keccak256([]byte("Error(string)"))[:4]
	return append(append([]byte{}, selector...), packed...)
}

func artifact(name string, abiJSON string, init []byte) *domain.Artifact {
	return &domain.Artifact{
		Name:             name,
		SourcePath:       "contracts/test/" + name + ".sol",
		Format:           domain.ArtifactFormatHardhat,
		ABI:              json.RawMessage(abiJSON),
		Bytecode:         hexutil.Encode(init),
		DeployedBytecode: "0x",
	}
}

// AnswerArtifact answers answer() with 42. Its constructor takes an address and
// a uint256 which are ignored, so argument encoding can be exercised.
func AnswerArtifact() *domain.Artifact {
	return artifact("Answer", `[
		{"type":"constructor","inputs":[{"name":"owner","type":"address"},{"name":"supply","type":"uint256"}],"stateMutability":"nonpayable"},
		{"type":"function","name":"answer","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
		{"type":"function","name":"pools","inputs":[{"name":"token","type":"address"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
		{"type":"function","name":"poke","inputs":[],"outputs":[],"stateMutability":"nonpayable"}
	]`, InitCode(AnswerRuntime()))
}

// ReverterArtifact reverts every call with reason
func ReverterArtifact(reason string) *domain.Artifact {
	return artifact("Reverter", `[
		{"type":"function","name":"createPool","inputs":[{"name":"token","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
		{"type":"function","name":"answer","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}
	]`, InitCode(ReverterRuntime(reason)))
}

// EmitterArtifact emits Swapped on every call
func EmitterArtifact() *domain.Artifact {
	return artifact("Emitter", `[
		{"type":"function","name":"swap","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
		{"type":"event","name":"Swapped","anonymous":false,"inputs":[{"name":"sender","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
		{"type":"event","name":"Unstaked","anonymous":false,"inputs":[]}
	]`, InitCode(EmitterRuntime()))
}

// StubArtifact is named like a real contract but runs the answer code, so
// deployments and plain transactions succeed. ctorInputs are Solidity types.
func StubArtifact(name string, ctorInputs ...string) *domain.Artifact {
	inputs := make([]string, len(ctorInputs))
	for i, typ := range ctorInputs {
		inputs[i] = fmt.Sprintf(`{"name":"arg%d","type":%q}`, i, typ)
	}
	return artifact(name, `[
		{"type":"constructor","inputs":[`+strings.Join(inputs, ",")+`],"stateMutability":"nonpayable"},
		{"type":"function","name":"mint","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
		{"type":"function","name":"approve","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
		{"type":"function","name":"balanceOf","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
		{"type":"function","name":"pools","inputs":[{"name":"token","type":"address"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}
	]`, InitCode(AnswerRuntime()))
}

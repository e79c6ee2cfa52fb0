package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsm_Push(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
		want  []byte
	}{
		{name: "zero", value: nil, want: []byte{0x60, 0x00}},
		{name: "leading zeros trimmed", value: []byte{0, 0, 0x19, 0x01}, want: []byte{0x61, 0x19, 0x01}},
		{name: "full word", value: make32(0xff), want: append([]byte{0x7f}, make32(0xff)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newAsm().push(tt.value).build())
		})
	}
}

func make32(b byte) []byte {
	out := make([]byte, 32)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestAsm_Labels(t *testing.T) {
	a := newAsm()
	a.pushInt(1).revertIf("boom")
	a.op(opSTOP)
	code := a.build()

	// PUSH1 1, PUSH2 <target>, JUMPI, STOP, then the revert block
	require.Greater(t, len(code), 7)
	target := int(code[3])<<8 | int(code[4])
	assert.Equal(t, 7, target)
	assert.Equal(t, byte(opJUMPDEST), code[target])
	assert.Equal(t, byte(opREVERT), code[len(code)-len(revertPayload("boom"))-1])
}

func TestAsm_UndefinedLabel(t *testing.T) {
	a := newAsm().pushLabel("nowhere")
	assert.Panics(t, func() { a.build() })
}

func TestInitCode_LongRuntime(t *testing.T) {
	runtime := make([]byte, 0x1234)
	code := InitCode(runtime)

	assert.Equal(t, []byte{0x61, 0x12, 0x34}, code[:3])
	assert.Len(t, code, 14+len(runtime))
}

func TestFlashStubs_Artifacts(t *testing.T) {
	stubs := FlashStubs{PoolName: "Flash ALT Pool"}
	artifacts := stubs.Artifacts()

	for _, name := range []string{"FlashToken", "FlashProtocol", "ALTToken", "FlashApp", "Pool"} {
		artifact, ok := artifacts[name]
		require.True(t, ok, name)
		_, err := artifact.ParseABI()
		assert.NoError(t, err, name)
		_, err = artifact.CreationCode()
		assert.NoError(t, err, name)
	}
}

package testutil

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	opSTOP         = 0x00
	opADD          = 0x01
	opMUL          = 0x02
	opLT           = 0x10
	opGT           = 0x11
	opEQ           = 0x14
	opISZERO       = 0x15
	opSHL          = 0x1b
	opSHR          = 0x1c
	opKECCAK256    = 0x20
	opADDRESS      = 0x30
	opCALLER       = 0x33
	opCALLDATALOAD = 0x35
	opCODECOPY     = 0x39
	opTIMESTAMP    = 0x42
	opPOP          = 0x50
	opMLOAD        = 0x51
	opMSTORE       = 0x52
	opSLOAD        = 0x54
	opSSTORE       = 0x55
	opJUMPI        = 0x57
	opGAS          = 0x5a
	opJUMPDEST     = 0x5b
	opPUSH2        = 0x61
	opDUP1         = 0x80
	opDUP2         = 0x81
	opDUP3         = 0x82
	opLOG1         = 0xa1
	opLOG2         = 0xa2
	opRETURN       = 0xf3
	opSTATICCALL   = 0xfa
	opREVERT       = 0xfd
)

// asm assembles EVM code. Jump targets and embedded data are referenced by
// label and pushed as PUSH2, so the code must stay under 64KiB.
type asm struct {
	code   []byte
	labels map[string]int
	refs   map[int]string
	blobs  []blob
	tails  []func()
	next   int
}

type blob struct {
	label string
	data  []byte
}

func newAsm() *asm {
	return &asm{labels: make(map[string]int), refs: make(map[int]string)}
}

func (a *asm) op(ops ...byte) *asm {
	a.code = append(a.code, ops...)
	return a
}

// push emits the shortest PUSHn for the big-endian value v
func (a *asm) push(v []byte) *asm {
	v = bytes.TrimLeft(v, "\x00")
	if len(v) == 0 {
		v = []byte{0}
	}
	if len(v) > 32 {
		panic(fmt.Sprintf("push of %d bytes", len(v)))
	}
	a.code = append(a.code, byte(0x5f+len(v)))
	a.code = append(a.code, v...)
	return a
}

func (a *asm) pushInt(n uint64) *asm {
	return a.push(new(big.Int).SetUint64(n).Bytes())
}

func (a *asm) pushLabel(label string) *asm {
	a.code = append(a.code, opPUSH2)
	a.refs[len(a.code)] = label
	a.code = append(a.code, 0, 0)
	return a
}

func (a *asm) label(name string) *asm {
	if _, dup := a.labels[name]; dup {
		panic("duplicate label " + name)
	}
	a.labels[name] = len(a.code)
	return a.op(opJUMPDEST)
}

func (a *asm) newLabel(prefix string) string {
	a.next++
	return fmt.Sprintf("%s_%d", prefix, a.next)
}

// arg loads the i-th static argument word of the call
func (a *asm) arg(i int) *asm {
	return a.pushInt(uint64(4 + 32*i)).op(opCALLDATALOAD)
}

// mstore stores the top of the stack at offset
func (a *asm) mstore(offset uint64) *asm {
	return a.pushInt(offset).op(opMSTORE)
}

// returnWord returns the top of the stack as one ABI word
func (a *asm) returnWord() *asm {
	return a.mstore(0).pushInt(32).pushInt(0).op(opRETURN)
}

// returnData returns data verbatim
func (a *asm) returnData(data []byte) *asm {
	return a.copyData(data).pushInt(uint64(len(data))).pushInt(0).op(opRETURN)
}

// revertWith reverts with Error(reason)
func (a *asm) revertWith(reason string) *asm {
	payload := revertPayload(reason)
	return a.copyData(payload).pushInt(uint64(len(payload))).pushInt(0).op(opREVERT)
}

// revertIf pops a condition and reverts with Error(reason) when it is non-zero
func (a *asm) revertIf(reason string) *asm {
	target := a.newLabel("revert")
	a.tails = append(a.tails, func() {
		a.label(target).revertWith(reason)
	})
	return a.pushLabel(target).op(opJUMPI)
}

// emit logs memory [0, size) with topic0 and, when indexed, the top of the stack as topic1
func (a *asm) emit(topic0 []byte, size uint64, indexed bool) *asm {
	a.push(topic0).pushInt(size).pushInt(0)
	if indexed {
		return a.op(opLOG2)
	}
	return a.op(opLOG1)
}

// copyData copies embedded data to memory offset 0
func (a *asm) copyData(data []byte) *asm {
	label := a.newLabel("data")
	a.blobs = append(a.blobs, blob{label: label, data: data})
	return a.pushInt(uint64(len(data))).pushLabel(label).pushInt(0).op(opCODECOPY)
}

func (a *asm) build() []byte {
	for len(a.tails) > 0 {
		tail := a.tails[0]
		a.tails = a.tails[1:]
		tail()
	}

	code := append([]byte{}, a.code...)
	offsets := make(map[string]int, len(a.labels)+len(a.blobs))
	for name, at := range a.labels {
		offsets[name] = at
	}
	for _, b := range a.blobs {
		offsets[b.label] = len(code)
		code = append(code, b.data...)
	}

	for at, label := range a.refs {
		target, ok := offsets[label]
		if !ok {
			panic("undefined label " + label)
		}
		if target > 0xffff {
			panic("code too long for PUSH2 labels")
		}
		code[at] = byte(target >> 8)
		code[at+1] = byte(target)
	}
	return code
}

// scriptedRuntime dispatches on the function selector to the named method
// bodies. Every body must end by halting. Unknown selectors get uint256(42).
func scriptedRuntime(parsed abi.ABI, bodies map[string]func(a *asm)) []byte {
	a := newAsm()
	a.pushInt(0).op(opCALLDATALOAD).pushInt(0xe0).op(opSHR)

	names := make([]string, 0, len(bodies))
	for name := range bodies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		method, ok := parsed.Methods[name]
		if !ok {
			panic("no method " + name + " in ABI")
		}
		a.op(opDUP1).push(method.ID).op(opEQ).pushLabel("fn_" + name).op(opJUMPI)
	}
	a.pushInt(AnswerValue).returnWord()

	for _, name := range names {
		a.label("fn_" + name)
		bodies[name](a)
	}
	return a.build()
}

package testutil

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/flash-protocol/flash-deployer/internal/domain"
)

// Revert reasons of the scripted contracts that have no counterpart in domain
const (
	ReasonInvalidStake     = "FlashProtocol:: INVALID_STAKE"
	ReasonStakeNotExpired  = "FlashProtocol:: STAKE_NOT_EXPIRED"
	ReasonPermitExpired    = "FlashApp:: EXPIRED"
	ReasonInvalidSignature = "FlashApp:: INVALID_SIGNATURE"
)

const protocolABI = `[
	{"type":"constructor","inputs":[{"name":"owner","type":"address"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"stake","inputs":[{"name":"amountIn","type":"uint256"},{"name":"days","type":"uint256"},{"name":"receiver","type":"address"},{"name":"data","type":"bytes"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"unstake","inputs":[{"name":"id","type":"bytes32"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"stakes","inputs":[{"name":"id","type":"bytes32"}],"outputs":[
		{"name":"amountIn","type":"uint256"},{"name":"expiry","type":"uint256"},{"name":"expireAfter","type":"uint256"},
		{"name":"mintedAmount","type":"uint256"},{"name":"staker","type":"address"},{"name":"receiver","type":"address"}
	],"stateMutability":"view"},
	{"type":"event","name":"Unstaked","anonymous":false,"inputs":[{"name":"id","type":"bytes32","indexed":true},{"name":"amountIn","type":"uint256","indexed":false}]}
]`

const appABI = `[
	{"type":"function","name":"createPool","inputs":[{"name":"token","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"pools","inputs":[{"name":"token","type":"address"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"addLiquidityInPool","inputs":[{"name":"amountFlash","type":"uint256"},{"name":"amountAlt","type":"uint256"},{"name":"amountFlashMin","type":"uint256"},{"name":"amountAltMin","type":"uint256"},{"name":"token","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"removeLiquidityInPool","inputs":[{"name":"liquidity","type":"uint256"},{"name":"token","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"removeLiquidityInPoolWithPermit","inputs":[{"name":"liquidity","type":"uint256"},{"name":"token","type":"address"},{"name":"deadline","type":"uint256"},{"name":"v","type":"uint8"},{"name":"r","type":"bytes32"},{"name":"s","type":"bytes32"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"swap","inputs":[{"name":"altQuantity","type":"uint256"},{"name":"token","type":"address"},{"name":"expectedOutput","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"event","name":"PoolCreated","anonymous":false,"inputs":[{"name":"token","type":"address","indexed":true},{"name":"pool","type":"address","indexed":false}]},
	{"type":"event","name":"LiquidityAdded","anonymous":false,"inputs":[{"name":"provider","type":"address","indexed":true},{"name":"amountFlash","type":"uint256","indexed":false},{"name":"amountAlt","type":"uint256","indexed":false}]},
	{"type":"event","name":"LiquidityRemoved","anonymous":false,"inputs":[{"name":"provider","type":"address","indexed":true},{"name":"liquidity","type":"uint256","indexed":false}]},
	{"type":"event","name":"Swapped","anonymous":false,"inputs":[{"name":"sender","type":"address","indexed":true},{"name":"altQuantity","type":"uint256","indexed":false}]}
]`

const poolABI = `[
	{"type":"function","name":"name","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
	{"type":"function","name":"balanceOf","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"nonces","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"approve","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"}
]`

// FlashStubs builds scripted FlashToken, FlashProtocol, ALTToken, FlashApp and
// Pool contracts. They keep just enough state to behave like the real
// contracts along the scenario: pools per token, stakes keyed by their ID with
// an expiry, and EIP-2612 permits checked with ecrecover against the caller.
// Pool balances are always 42 and permit nonces always zero.
type FlashStubs struct {
	// Pool is where the Pool stub will be deployed; createPool records it
	Pool     common.Address
	PoolName string
	ChainID  *big.Int

	// Broken behaviour, for checking that the scenario notices it
	StakeIDWithoutTimestamp bool
	SilentUnstake           bool
	AcceptExpiredPermits    bool
	AcceptAnySigner         bool
}

// Artifacts returns the stubs keyed by contract name
func (f FlashStubs) Artifacts() map[string]*domain.Artifact {
	return map[string]*domain.Artifact{
		domain.ContractFlashToken:    StubArtifact(domain.ContractFlashToken, "address", "address"),
		domain.ContractAltToken:      StubArtifact(domain.ContractAltToken),
		domain.ContractFlashProtocol: artifact(domain.ContractFlashProtocol, protocolABI, InitCode(f.protocolRuntime())),
		domain.ContractFlashApp:      artifact(domain.ContractFlashApp, appABI, InitCode(f.appRuntime())),
		domain.ContractPool:          artifact(domain.ContractPool, poolABI, InitCode(f.poolRuntime())),
	}
}

func mustParse(abiJSON string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}

func (f FlashStubs) protocolRuntime() []byte {
	parsed := mustParse(protocolABI)
	unstaked := parsed.Events[domain.EventUnstaked].ID.Bytes()

	return scriptedRuntime(parsed, map[string]func(a *asm){
		// stakes[id] = amountIn, stakes[id+1] = expiry, where
		// id = keccak256(abi.encodePacked(amountIn, days, receiver, msg.sender, block.timestamp))
		"stake": func(a *asm) {
			a.arg(0).mstore(0x00)
			a.arg(1).mstore(0x20)
			a.arg(2).pushInt(96).op(opSHL).mstore(0x40)
			a.op(opCALLER).pushInt(96).op(opSHL).mstore(0x54)
			size := uint64(0x88)
			if f.StakeIDWithoutTimestamp {
				size = 0x68
			} else {
				a.op(opTIMESTAMP).mstore(0x68)
			}
			a.pushInt(size).pushInt(0).op(opKECCAK256)
			a.arg(0).op(opDUP2).op(opSSTORE)
			a.arg(1).pushInt(24 * 60 * 60).op(opMUL).op(opTIMESTAMP).op(opADD)
			a.op(opDUP2).pushInt(1).op(opADD).op(opSSTORE)
			a.op(opSTOP)
		},
		"stakes": func(a *asm) {
			a.arg(0).op(opSLOAD).mstore(0x00)
			a.arg(0).pushInt(1).op(opADD).op(opSLOAD).mstore(0x20)
			a.pushInt(0xc0).pushInt(0).op(opRETURN)
		},
		"unstake": func(a *asm) {
			a.arg(0).op(opDUP1).op(opSLOAD)
			a.op(opDUP1).op(opISZERO).revertIf(ReasonInvalidStake)
			a.op(opDUP2).pushInt(1).op(opADD).op(opSLOAD)
			a.op(opTIMESTAMP).op(opLT).revertIf(ReasonStakeNotExpired)
			a.pushInt(0).op(opDUP3).op(opSSTORE)
			a.mstore(0x00)
			if !f.SilentUnstake {
				a.emit(unstaked, 0x20, true)
			}
			a.op(opSTOP)
		},
	})
}

func (f FlashStubs) appRuntime() []byte {
	parsed := mustParse(appABI)
	event := func(name string) []byte { return parsed.Events[name].ID.Bytes() }

	requirePool := func(a *asm, tokenArg int) {
		a.arg(tokenArg).op(opSLOAD).op(opISZERO).revertIf(domain.ReasonPoolDoesntExist)
	}

	return scriptedRuntime(parsed, map[string]func(a *asm){
		"createPool": func(a *asm) {
			a.arg(0)
			a.op(opDUP1).op(opISZERO).revertIf(domain.ReasonInvalidTokenAddress)
			a.op(opDUP1).op(opSLOAD).op(opISZERO).op(opISZERO).revertIf(domain.ReasonPoolAlreadyExists)
			a.push(f.Pool.Bytes()).op(opDUP2).op(opSSTORE)
			a.push(f.Pool.Bytes()).mstore(0x00)
			a.emit(event(domain.EventPoolCreated), 0x20, true)
			a.op(opSTOP)
		},
		"pools": func(a *asm) {
			a.arg(0).op(opSLOAD).returnWord()
		},
		"addLiquidityInPool": func(a *asm) {
			requirePool(a, 4)
			a.arg(0).mstore(0x00)
			a.arg(1).mstore(0x20)
			a.op(opCALLER).emit(event(domain.EventLiquidityAdded), 0x40, true)
			a.op(opSTOP)
		},
		"swap": func(a *asm) {
			requirePool(a, 1)
			a.arg(0).mstore(0x00)
			a.op(opCALLER).emit(event(domain.EventSwapped), 0x20, true)
			a.op(opSTOP)
		},
		"removeLiquidityInPool": func(a *asm) {
			requirePool(a, 1)
			a.arg(0).mstore(0x00)
			a.op(opCALLER).emit(event(domain.EventLiquidityRemoved), 0x20, true)
			a.op(opSTOP)
		},
		"removeLiquidityInPoolWithPermit": func(a *asm) {
			requirePool(a, 1)
			if !f.AcceptExpiredPermits {
				a.arg(2).op(opTIMESTAMP).op(opGT).revertIf(ReasonPermitExpired)
			}
			if !f.AcceptAnySigner {
				f.requirePermitSigner(a)
			}
			a.arg(0).mstore(0x00)
			a.op(opCALLER).emit(event(domain.EventLiquidityRemoved), 0x20, true)
			a.op(opSTOP)
		},
	})
}

// requirePermitSigner reverts unless ecrecover over the pool's permit digest
// yields the caller. The permit is Permit(caller, this, liquidity, 0, deadline).
func (f FlashStubs) requirePermitSigner(a *asm) {
	typeHash := crypto.Keccak256([]byte("Permit(address owner,address spender,uint256 value,uint256 nonce,uint256 deadline)"))

	a.push(typeHash).mstore(0x00)
	a.op(opCALLER).mstore(0x20)
	a.op(opADDRESS).mstore(0x40)
	a.arg(0).mstore(0x60)
	a.pushInt(0).mstore(0x80)
	a.arg(2).mstore(0xa0)
	a.pushInt(0xc0).pushInt(0).op(opKECCAK256).mstore(0x40)

	a.push(f.domainSeparator()).mstore(0x20)
	a.pushInt(0x1901).mstore(0x00)
	a.pushInt(0x42).pushInt(0x1e).op(opKECCAK256).mstore(0x00)

	a.arg(3).mstore(0x20)
	a.arg(4).mstore(0x40)
	a.arg(5).mstore(0x60)
	a.pushInt(0).mstore(0x80)
	// staticcall(gas, ecrecover, 0, 0x80, 0x80, 0x20)
	a.pushInt(0x20).pushInt(0x80).pushInt(0x80).pushInt(0).pushInt(1).op(opGAS).op(opSTATICCALL).op(opPOP)
	a.pushInt(0x80).op(opMLOAD).op(opCALLER).op(opEQ).op(opISZERO).revertIf(ReasonInvalidSignature)
}

// domainSeparator is the pool's EIP-712 separator with version "1"
func (f FlashStubs) domainSeparator() []byte {
	chainID := f.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	return crypto.Keccak256(
		crypto.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)")),
		crypto.Keccak256([]byte(f.PoolName)),
		crypto.Keccak256([]byte("1")),
		common.LeftPadBytes(chainID.Bytes(), 32),
		common.LeftPadBytes(f.Pool.Bytes(), 32),
	)
}

func (f FlashStubs) poolRuntime() []byte {
	parsed := mustParse(poolABI)
	name, err := parsed.Methods["name"].Outputs.Pack(f.PoolName)
	if err != nil {
		panic(err)
	}

	return scriptedRuntime(parsed, map[string]func(a *asm){
		"name": func(a *asm) {
			a.returnData(name)
		},
		"nonces": func(a *asm) {
			a.pushInt(0).returnWord()
		},
	})
}

// TokenArtifact is a token stub whose balanceOf always returns balance. Other
// calls behave like StubArtifact.
func TokenArtifact(name string, balance uint64, ctorInputs ...string) *domain.Artifact {
	stub := StubArtifact(name, ctorInputs...)
	parsed := mustParse(string(stub.ABI))
	stub.Bytecode = hexutil.Encode(InitCode(scriptedRuntime(parsed, map[string]func(a *asm){
		"balanceOf": func(a *asm) {
			a.pushInt(balance).returnWord()
		},
	})))
	return stub
}

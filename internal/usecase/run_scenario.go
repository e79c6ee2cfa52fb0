package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/adapters/contracts"
	"github.com/flash-protocol/flash-deployer/internal/adapters/permit"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/samber/lo"
)

// Scenario step names, in execution order
const (
	StepInvalidToken          = "invalid-token"
	StepCreatePool            = "create-pool"
	StepDuplicatePool         = "duplicate-pool"
	StepApprove               = "approve"
	StepMissingPool           = "missing-pool"
	StepAddLiquidity          = "add-liquidity"
	StepStake                 = "stake"
	StepUnstake               = "unstake"
	StepSwap                  = "swap"
	StepRemoveLiquidity       = "remove-liquidity"
	StepRemoveLiquidityPermit = "remove-liquidity-permit"
)

// StepOutcome is how a scenario step ended
type StepOutcome string

const (
	OutcomePassed  StepOutcome = "passed"
	OutcomeFailed  StepOutcome = "failed"
	OutcomeSkipped StepOutcome = "skipped"
)

// StepResult records one scenario step
type StepResult struct {
	Name        string        `json:"name"`
	Expectation string        `json:"expectation"`
	Outcome     StepOutcome   `json:"outcome"`
	TxHash      common.Hash   `json:"txHash,omitempty"`
	GasUsed     uint64        `json:"gasUsed,omitempty"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}

// record keeps the last transaction hash and sums gas over the step
func (r *StepResult) record(receipt *types.Receipt) {
	if receipt == nil {
		return
	}
	r.TxHash = receipt.TxHash
	r.GasUsed += receipt.GasUsed
}

// ScenarioResult contains every step result, in order
type ScenarioResult struct {
	Steps  []StepResult `json:"steps"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
}

// RunScenarioParams contains parameters for the FlashApp scenario
type RunScenarioParams struct {
	// Only restricts the run to the named steps; later steps may depend on skipped ones
	Only []string

	LiquidityFlash *big.Int
	LiquidityAlt   *big.Int
	StakeAmount    *big.Int
	StakeDays      *big.Int
	SwapAmount     *big.Int
	SwapMinOutput  *big.Int
}

// MaxStakeDays bounds StakeDays so the time shift before unstaking fits a time.Duration
const MaxStakeDays = 36500

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func (p RunScenarioParams) withDefaults() RunScenarioParams {
	p.LiquidityFlash = lo.Ternary(p.LiquidityFlash != nil, p.LiquidityFlash, ether(1000))
	p.LiquidityAlt = lo.Ternary(p.LiquidityAlt != nil, p.LiquidityAlt, ether(1000))
	p.StakeAmount = lo.Ternary(p.StakeAmount != nil, p.StakeAmount, ether(100))
	p.StakeDays = lo.Ternary(p.StakeDays != nil, p.StakeDays, big.NewInt(2))
	p.SwapAmount = lo.Ternary(p.SwapAmount != nil, p.SwapAmount, ether(10))
	p.SwapMinOutput = lo.Ternary(p.SwapMinOutput != nil, p.SwapMinOutput, new(big.Int))
	return p
}

func (p RunScenarioParams) validate() error {
	if unknown, _ := lo.Difference(p.Only, ScenarioStepNames()); len(unknown) > 0 {
		return fmt.Errorf("unknown scenario steps %s (available: %s)",
			strings.Join(unknown, ", "), strings.Join(ScenarioStepNames(), ", "))
	}
	if p.StakeDays != nil && (p.StakeDays.Sign() < 0 || p.StakeDays.Cmp(big.NewInt(MaxStakeDays)) > 0) {
		return fmt.Errorf("stake days %s out of range 0..%d", p.StakeDays, MaxStakeDays)
	}
	return nil
}

// scenarioStep is one named expectation of the scenario
type scenarioStep struct {
	Name        string
	Expectation string
	Run         func(ctx context.Context, s *scenarioState, r *StepResult) error
}

// scenarioState is shared by the steps of one run
type scenarioState struct {
	set          *FixtureSet
	params       RunScenarioParams
	owner        chain.Account
	stranger     chain.Account
	pool         *contracts.Token
	poolArtifact *domain.Artifact
	stakeID      common.Hash
}

// RunScenario executes the FlashApp user journey against deployed fixtures
type RunScenario struct {
	factory   DevChainFactory
	artifacts ArtifactRepository
	progress  ProgressSink
}

// NewRunScenario creates a new RunScenario use case
func NewRunScenario(factory DevChainFactory, artifacts ArtifactRepository, progress ProgressSink) *RunScenario {
	return &RunScenario{
		factory:   factory,
		artifacts: artifacts,
		progress:  progress,
	}
}

// RunOnDevChain starts a fresh dev chain, deploys the fixtures and runs the scenario
func (uc *RunScenario) RunOnDevChain(ctx context.Context, params RunScenarioParams) (*ScenarioResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	env, err := uc.factory.Start(ctx)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	set, err := NewFixtures(env, uc.artifacts, uc.progress).DeployAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy fixtures: %w", err)
	}
	return uc.Run(ctx, set, params)
}

// ScenarioStepNames lists the steps in execution order
func ScenarioStepNames() []string {
	return lo.Map(scenarioSteps(), func(s scenarioStep, _ int) string { return s.Name })
}

// Run executes the steps in order and stops at the first unmet expectation
func (uc *RunScenario) Run(ctx context.Context, fixtures *FixtureSet, params RunScenarioParams) (*ScenarioResult, error) {
	steps := scenarioSteps()
	if err := params.validate(); err != nil {
		return nil, err
	}

	owner, err := fixtures.Env.Account(0)
	if err != nil {
		return nil, err
	}
	stranger, err := fixtures.Env.Account(2)
	if err != nil {
		return nil, fmt.Errorf("the scenario needs three dev accounts: %w", err)
	}
	poolArtifact, err := uc.artifacts.Get(ctx, domain.ContractPool)
	if err != nil && !errors.Is(err, domain.ErrArtifactNotFound) {
		return nil, err
	}

	state := &scenarioState{
		set:          fixtures,
		params:       params.withDefaults(),
		owner:        owner,
		stranger:     stranger,
		poolArtifact: poolArtifact,
	}
	return runSteps(ctx, steps, state, params.Only, uc.progress)
}

func runSteps(ctx context.Context, steps []scenarioStep, state *scenarioState, only []string, progress ProgressSink) (*ScenarioResult, error) {
	result := &ScenarioResult{}

	for i, step := range steps {
		rec := StepResult{Name: step.Name, Expectation: step.Expectation}
		if len(only) > 0 && !lo.Contains(only, step.Name) {
			rec.Outcome = OutcomeSkipped
			result.Steps = append(result.Steps, rec)
			continue
		}

		progress.OnProgress(ctx, ProgressEvent{
			Stage:   "scenario",
			Current: i + 1,
			Total:   len(steps),
			Message: step.Expectation,
			Spinner: true,
		})

		start := time.Now()
		err := step.Run(ctx, state, &rec)
		rec.Duration = time.Since(start)

		if err != nil {
			rec.Outcome = OutcomeFailed
			rec.Error = err.Error()
			result.Steps = append(result.Steps, rec)
			result.Failed++
			return result, fmt.Errorf("%w: step %s: %w", domain.ErrScenarioFailed, step.Name, err)
		}
		rec.Outcome = OutcomePassed
		result.Steps = append(result.Steps, rec)
		result.Passed++
	}
	return result, nil
}

func scenarioSteps() []scenarioStep {
	return []scenarioStep{
		{StepInvalidToken, "createPool(0x0) reverts " + domain.ReasonInvalidTokenAddress, stepInvalidToken},
		{StepCreatePool, "createPool(ALTToken) creates a pool", stepCreatePool},
		{StepDuplicatePool, "createPool(ALTToken) again reverts " + domain.ReasonPoolAlreadyExists, stepDuplicatePool},
		{StepApprove, "approve FLASH and ALT to FlashApp", stepApprove},
		{StepMissingPool, "addLiquidityInPool without a pool reverts " + domain.ReasonPoolDoesntExist, stepMissingPool},
		{StepAddLiquidity, "addLiquidityInPool emits " + domain.EventLiquidityAdded, stepAddLiquidity},
		{StepStake, "stake is stored under keccak256(amount, days, app, staker, timestamp)", stepStake},
		{StepUnstake, "unstake after expiry emits " + domain.EventUnstaked, stepUnstake},
		{StepSwap, "swap emits " + domain.EventSwapped, stepSwap},
		{StepRemoveLiquidity, "removeLiquidityInPool emits " + domain.EventLiquidityRemoved, stepRemoveLiquidity},
		{StepRemoveLiquidityPermit, "removeLiquidityInPoolWithPermit accepts only a valid, unexpired permit", stepRemoveLiquidityPermit},
	}
}

// expectRevert turns a call outcome into an error unless it reverted with reason.
// An empty reason accepts any revert.
func expectRevert(err error, reason string) error {
	if err == nil {
		if reason == "" {
			return fmt.Errorf("expected a revert, call succeeded")
		}
		return fmt.Errorf("expected revert %q, call succeeded", reason)
	}
	if !domain.IsRevert(err, reason) {
		return fmt.Errorf("expected revert %q, got: %w", reason, err)
	}
	return nil
}

// requireEvent finds the event on the first contract that declares and emitted it
func requireEvent(receipt *types.Receipt, name string, emitters ...*chain.Contract) error {
	for _, emitter := range emitters {
		if emitter == nil {
			continue
		}
		if _, declared := emitter.ABI.Events[name]; !declared {
			continue
		}
		events, err := emitter.FindEvents(receipt, name)
		if err != nil {
			return err
		}
		if len(events) > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrEventNotFound, name)
}

func (s *scenarioState) poolContract() *chain.Contract {
	if s.pool == nil {
		return nil
	}
	return s.pool.Contract
}

func stepInvalidToken(ctx context.Context, s *scenarioState, r *StepResult) error {
	_, err := s.set.FlashApp.CreatePool(ctx, s.owner, common.Address{})
	return expectRevert(err, domain.ReasonInvalidTokenAddress)
}

func stepCreatePool(ctx context.Context, s *scenarioState, r *StepResult) error {
	token := s.set.AltToken.Address
	receipt, err := s.set.FlashApp.CreatePool(ctx, s.owner, token)
	if err != nil {
		return err
	}
	r.record(receipt)

	pool, err := s.set.FlashApp.Pool(ctx, token)
	if err != nil {
		return err
	}
	if !pool.Exists() {
		return fmt.Errorf("%w: pools(%s) is the zero address", domain.ErrPoolNotFound, token.Hex())
	}
	return s.attachPool(pool)
}

// attachPool binds the pool's ERC-20 interface for balance and permit calls
func (s *scenarioState) attachPool(pool domain.Pool) error {
	if s.poolArtifact == nil {
		return nil
	}
	parsed, err := s.poolArtifact.ParseABI()
	if err != nil {
		return err
	}
	s.pool = contracts.NewToken(s.set.Env.Client.Attach(domain.ContractPool, pool.Address, parsed))
	return nil
}

func stepDuplicatePool(ctx context.Context, s *scenarioState, r *StepResult) error {
	_, err := s.set.FlashApp.CreatePool(ctx, s.owner, s.set.AltToken.Address)
	return expectRevert(err, domain.ReasonPoolAlreadyExists)
}

func stepApprove(ctx context.Context, s *scenarioState, r *StepResult) error {
	spender := s.set.FlashApp.Address
	for _, token := range []*contracts.Token{s.set.FlashToken, s.set.AltToken} {
		receipt, err := token.Approve(ctx, s.owner, spender, maxUint256())
		if err != nil {
			return err
		}
		r.record(receipt)
	}
	return nil
}

func stepMissingPool(ctx context.Context, s *scenarioState, r *StepResult) error {
	_, err := s.set.FlashApp.AddLiquidity(ctx, s.owner, s.liquidity(common.Address{}))
	return expectRevert(err, domain.ReasonPoolDoesntExist)
}

func (s *scenarioState) liquidity(token common.Address) contracts.Liquidity {
	return contracts.Liquidity{
		Token:          token,
		AmountFlash:    s.params.LiquidityFlash,
		AmountAlt:      s.params.LiquidityAlt,
		AmountFlashMin: new(big.Int),
		AmountAltMin:   new(big.Int),
	}
}

func stepAddLiquidity(ctx context.Context, s *scenarioState, r *StepResult) error {
	receipt, err := s.set.FlashApp.AddLiquidity(ctx, s.owner, s.liquidity(s.set.AltToken.Address))
	if err != nil {
		return err
	}
	r.record(receipt)
	return requireEvent(receipt, domain.EventLiquidityAdded, s.set.FlashApp.Contract, s.poolContract())
}

func stepStake(ctx context.Context, s *scenarioState, r *StepResult) error {
	protocol := s.set.FlashProtocol
	receipt, err := s.set.FlashToken.Approve(ctx, s.owner, protocol.Address, s.params.StakeAmount)
	if err != nil {
		return err
	}
	r.record(receipt)

	app := s.set.FlashApp.Address
	receipt, err = protocol.Stake(ctx, s.owner, s.params.StakeAmount, s.params.StakeDays, app, nil)
	if err != nil {
		return err
	}
	r.record(receipt)

	timestamp, err := s.set.Env.Client.BlockTime(ctx, receipt.BlockNumber)
	if err != nil {
		return err
	}
	s.stakeID = domain.StakeID(s.params.StakeAmount, s.params.StakeDays, app, s.owner.Address(), timestamp)

	stake, err := protocol.GetStake(ctx, s.stakeID)
	if err != nil {
		return err
	}
	if !stake.Active() {
		return fmt.Errorf("%w: %s", domain.ErrStakeNotFound, s.stakeID.Hex())
	}
	return nil
}

func stepUnstake(ctx context.Context, s *scenarioState, r *StepResult) error {
	protocol := s.set.FlashProtocol
	if s.stakeID == (common.Hash{}) {
		return fmt.Errorf("no stake to unstake; run the %s step first", StepStake)
	}

	wait := time.Duration(s.params.StakeDays.Int64())*24*time.Hour + time.Second
	stake, err := protocol.GetStake(ctx, s.stakeID)
	if err != nil {
		return err
	}
	if stake.Expiry != nil && stake.Expiry.Sign() > 0 {
		now, err := s.set.Env.Client.BlockTime(ctx, nil)
		if err != nil {
			return err
		}
		if expiry := stake.Expiry.Uint64(); expiry >= now {
			if expiry-now > MaxStakeDays*24*60*60 {
				return fmt.Errorf("stake %s expires at %d, too far ahead of %d", s.stakeID.Hex(), expiry, now)
			}
			wait = time.Duration(expiry-now+1) * time.Second
		}
	}
	if err := s.set.Env.Clock.AdvanceTime(ctx, wait); err != nil {
		return err
	}

	receipt, err := protocol.Unstake(ctx, s.owner, s.stakeID)
	if err != nil {
		return err
	}
	r.record(receipt)
	return requireEvent(receipt, domain.EventUnstaked, protocol.Contract)
}

func stepSwap(ctx context.Context, s *scenarioState, r *StepResult) error {
	receipt, err := s.set.FlashApp.Swap(ctx, s.owner, s.set.AltToken.Address, s.params.SwapAmount, s.params.SwapMinOutput)
	if err != nil {
		return err
	}
	r.record(receipt)
	return requireEvent(receipt, domain.EventSwapped, s.set.FlashApp.Contract, s.poolContract())
}

func stepRemoveLiquidity(ctx context.Context, s *scenarioState, r *StepResult) error {
	pool, err := s.requirePool()
	if err != nil {
		return err
	}
	balance, err := pool.BalanceOf(ctx, s.owner.Address())
	if err != nil {
		return err
	}
	half := new(big.Int).Div(balance, big.NewInt(2))
	if half.Sign() == 0 {
		return fmt.Errorf("owner holds no pool liquidity")
	}

	receipt, err := s.set.FlashApp.RemoveLiquidity(ctx, s.owner, s.set.AltToken.Address, half)
	if err != nil {
		return err
	}
	r.record(receipt)
	return requireEvent(receipt, domain.EventLiquidityRemoved, s.set.FlashApp.Contract, pool.Contract)
}

func stepRemoveLiquidityPermit(ctx context.Context, s *scenarioState, r *StepResult) error {
	pool, err := s.requirePool()
	if err != nil {
		return err
	}
	signer, ok := s.owner.(permit.HashSigner)
	if !ok {
		return fmt.Errorf("account %s cannot sign permits", s.owner.Address().Hex())
	}
	stranger, ok := s.stranger.(permit.HashSigner)
	if !ok {
		return fmt.Errorf("account %s cannot sign permits", s.stranger.Address().Hex())
	}

	client := s.set.Env.Client
	permitDomain, err := pool.PermitDomain(ctx, client.ChainID())
	if err != nil {
		return err
	}
	liquidity, err := pool.BalanceOf(ctx, s.owner.Address())
	if err != nil {
		return err
	}
	nonce, err := pool.Nonce(ctx, s.owner.Address())
	if err != nil {
		return err
	}
	now, err := client.BlockTime(ctx, nil)
	if err != nil {
		return err
	}

	message := permit.Permit{
		Owner:   s.owner.Address(),
		Spender: s.set.FlashApp.Address,
		Value:   liquidity,
		Nonce:   nonce,
	}
	token := s.set.AltToken.Address

	// Expired: the next block is always later than the current head
	message.Deadline = new(big.Int).SetUint64(now - 1)
	expired, err := permit.Sign(signer, permitDomain, message)
	if err != nil {
		return err
	}
	_, err = s.set.FlashApp.RemoveLiquidityWithPermit(ctx, s.owner, token, expired)
	if err := expectRevert(err, ""); err != nil {
		return fmt.Errorf("expired permit: %w", err)
	}

	message.Deadline = new(big.Int).SetUint64(now + 3600)
	forged, err := permit.Sign(stranger, permitDomain, message)
	if err != nil {
		return err
	}
	_, err = s.set.FlashApp.RemoveLiquidityWithPermit(ctx, s.owner, token, forged)
	if err := expectRevert(err, ""); err != nil {
		return fmt.Errorf("permit signed by another key: %w", err)
	}

	valid, err := permit.Sign(signer, permitDomain, message)
	if err != nil {
		return err
	}
	receipt, err := s.set.FlashApp.RemoveLiquidityWithPermit(ctx, s.owner, token, valid)
	if err != nil {
		return err
	}
	r.record(receipt)
	return requireEvent(receipt, domain.EventLiquidityRemoved, s.set.FlashApp.Contract, pool.Contract)
}

func (s *scenarioState) requirePool() (*contracts.Token, error) {
	if s.pool == nil {
		if s.poolArtifact == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, domain.ContractPool)
		}
		return nil, fmt.Errorf("%w: run the %s step first", domain.ErrPoolNotFound, StepCreatePool)
	}
	return s.pool, nil
}

func maxUint256() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
}

package usecase

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/flash-protocol/flash-deployer/internal/adapters/chain"
	"github.com/flash-protocol/flash-deployer/internal/adapters/contracts"
	"github.com/flash-protocol/flash-deployer/internal/domain"
)

// FixtureMintAmount is the FLASH minted to account 0 after FlashToken is deployed (500000e18)
var FixtureMintAmount, _ = new(big.Int).SetString("500000000000000000000000", 10)

// FixtureArg is a constructor argument: a dev account's address, or the
// predicted address of another fixture when Contract is set
type FixtureArg struct {
	Account  int
	Contract string
}

// AccountArg refers to the i-th dev account
func AccountArg(i int) FixtureArg {
	return FixtureArg{Account: i}
}

// ContractArg refers to another step's predicted address
func ContractArg(name string) FixtureArg {
	return FixtureArg{Contract: name}
}

// FixtureStep deploys one contract from a dev account
type FixtureStep struct {
	Contract string
	Deployer int
	Args     []FixtureArg
	// Mint is minted to the deployer right after deployment when set
	Mint *big.Int
}

// FixturePlan is an ordered list of deployments with every address computed up front
type FixturePlan struct {
	Steps     []FixtureStep
	Addresses map[string]common.Address
}

// DefaultFixtureSteps deploys FlashToken, FlashProtocol, ALTToken and FlashApp.
// FlashToken needs FlashProtocol's address before FlashProtocol exists.
func DefaultFixtureSteps() []FixtureStep {
	return []FixtureStep{
		{
			Contract: domain.ContractFlashToken,
			Deployer: 0,
			Args:     []FixtureArg{AccountArg(0), ContractArg(domain.ContractFlashProtocol)},
			Mint:     FixtureMintAmount,
		},
		{
			Contract: domain.ContractFlashProtocol,
			Deployer: 1,
			Args:     []FixtureArg{AccountArg(0)},
		},
		{Contract: domain.ContractAltToken, Deployer: 0},
		{Contract: domain.ContractFlashApp, Deployer: 0},
	}
}

// NewFixturePlan predicts each step's address from the deployers' current nonces.
// Every step and every mint consumes one nonce of its deployer.
func NewFixturePlan(ctx context.Context, nonces chain.NonceReader, accounts []chain.Account, steps []FixtureStep) (*FixturePlan, error) {
	next := make(map[int]uint64)
	addresses := make(map[string]common.Address, len(steps))

	for _, step := range steps {
		if step.Deployer < 0 || step.Deployer >= len(accounts) {
			return nil, fmt.Errorf("fixture %s: no dev account %d", step.Contract, step.Deployer)
		}
		if _, dup := addresses[step.Contract]; dup {
			return nil, fmt.Errorf("fixture %s is planned twice", step.Contract)
		}

		deployer := accounts[step.Deployer].Address()
		if _, seen := next[step.Deployer]; !seen {
			nonce, err := nonces.PendingNonceAt(ctx, deployer)
			if err != nil {
				return nil, fmt.Errorf("failed to get nonce of %s: %w", deployer.Hex(), err)
			}
			next[step.Deployer] = nonce
		}

		addresses[step.Contract] = chain.PredictAddressAt(deployer, next[step.Deployer])
		next[step.Deployer]++
		if step.Mint != nil {
			next[step.Deployer]++
		}
	}

	for _, step := range steps {
		for _, arg := range step.Args {
			if arg.Contract == "" {
				if arg.Account < 0 || arg.Account >= len(accounts) {
					return nil, fmt.Errorf("fixture %s: argument refers to missing dev account %d", step.Contract, arg.Account)
				}
				continue
			}
			if _, ok := addresses[arg.Contract]; !ok {
				return nil, fmt.Errorf("fixture %s: argument refers to unplanned contract %s", step.Contract, arg.Contract)
			}
		}
	}

	return &FixturePlan{Steps: steps, Addresses: addresses}, nil
}

// Step returns the plan step deploying contract
func (p *FixturePlan) Step(contract string) (FixtureStep, bool) {
	for _, step := range p.Steps {
		if step.Contract == contract {
			return step, true
		}
	}
	return FixtureStep{}, false
}

// FixtureSet is the deployed FlashToken, FlashProtocol, ALTToken and FlashApp
type FixtureSet struct {
	Env           *DevEnvironment
	Plan          *FixturePlan
	FlashToken    *contracts.Token
	FlashProtocol *contracts.FlashProtocol
	AltToken      *contracts.Token
	FlashApp      *contracts.FlashApp
	Deployments   map[string]*chain.Deployment
}

// Fixtures deploys known contract state on a dev chain
type Fixtures struct {
	env       *DevEnvironment
	artifacts ArtifactRepository
	progress  ProgressSink

	mu          sync.Mutex
	deployments map[string]*chain.Deployment
	loaded      *FixtureSet
}

// NewFixtures creates a fixture factory over a running dev environment
func NewFixtures(env *DevEnvironment, artifacts ArtifactRepository, progress ProgressSink) *Fixtures {
	return &Fixtures{
		env:         env,
		artifacts:   artifacts,
		progress:    progress,
		deployments: make(map[string]*chain.Deployment),
	}
}

// Plan computes the default plan against the chain's current nonces
func (f *Fixtures) Plan(ctx context.Context) (*FixturePlan, error) {
	return NewFixturePlan(ctx, f.env.Client.Backend(), f.env.Accounts, DefaultFixtureSteps())
}

// DeployFlashToken deploys FlashToken(account0, predicted FlashProtocol) and mints to account 0
func (f *Fixtures) DeployFlashToken(ctx context.Context, plan *FixturePlan) (*contracts.Token, error) {
	d, err := f.deploy(ctx, plan, domain.ContractFlashToken)
	if err != nil {
		return nil, err
	}
	return contracts.NewToken(d.Contract), nil
}

// DeployFlashProtocol deploys FlashProtocol(account0) from account 1
func (f *Fixtures) DeployFlashProtocol(ctx context.Context, plan *FixturePlan) (*contracts.FlashProtocol, error) {
	d, err := f.deploy(ctx, plan, domain.ContractFlashProtocol)
	if err != nil {
		return nil, err
	}
	return contracts.NewFlashProtocol(d.Contract), nil
}

func (f *Fixtures) DeployAltToken(ctx context.Context, plan *FixturePlan) (*contracts.Token, error) {
	d, err := f.deploy(ctx, plan, domain.ContractAltToken)
	if err != nil {
		return nil, err
	}
	return contracts.NewToken(d.Contract), nil
}

func (f *Fixtures) DeployFlashApp(ctx context.Context, plan *FixturePlan) (*contracts.FlashApp, error) {
	d, err := f.deploy(ctx, plan, domain.ContractFlashApp)
	if err != nil {
		return nil, err
	}
	return contracts.NewFlashApp(d.Contract), nil
}

// DeployAll plans and deploys every fixture in order
func (f *Fixtures) DeployAll(ctx context.Context) (*FixtureSet, error) {
	plan, err := f.Plan(ctx)
	if err != nil {
		return nil, err
	}

	set := &FixtureSet{Env: f.env, Plan: plan}
	if set.FlashToken, err = f.DeployFlashToken(ctx, plan); err != nil {
		return nil, err
	}
	if set.FlashProtocol, err = f.DeployFlashProtocol(ctx, plan); err != nil {
		return nil, err
	}
	if set.AltToken, err = f.DeployAltToken(ctx, plan); err != nil {
		return nil, err
	}
	if err := f.requireSupply(ctx, plan, domain.ContractAltToken, set.AltToken); err != nil {
		return nil, err
	}
	if set.FlashApp, err = f.DeployFlashApp(ctx, plan); err != nil {
		return nil, err
	}

	f.mu.Lock()
	set.Deployments = make(map[string]*chain.Deployment, len(f.deployments))
	for name, d := range f.deployments {
		set.Deployments[name] = d
	}
	f.mu.Unlock()
	return set, nil
}

// requireSupply checks that the deployer of a token fixture holds some of it
func (f *Fixtures) requireSupply(ctx context.Context, plan *FixturePlan, contract string, token *contracts.Token) error {
	step, ok := plan.Step(contract)
	if !ok {
		return fmt.Errorf("fixture %s is not in the plan", contract)
	}
	deployer, err := f.env.Account(step.Deployer)
	if err != nil {
		return err
	}

	balance, err := token.BalanceOf(ctx, deployer.Address())
	if err != nil {
		return fmt.Errorf("failed to read %s balance: %w", contract, err)
	}
	if balance.Sign() == 0 {
		return fmt.Errorf("%s: deployer %s holds no tokens after deployment", contract, deployer.Address().Hex())
	}
	return nil
}

// Load deploys the fixtures once and returns the same set on later calls
func (f *Fixtures) Load(ctx context.Context) (*FixtureSet, error) {
	f.mu.Lock()
	loaded := f.loaded
	f.mu.Unlock()
	if loaded != nil {
		return loaded, nil
	}

	set, err := f.DeployAll(ctx)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.loaded = set
	f.mu.Unlock()
	return set, nil
}

// deploy runs one plan step and checks the contract landed where the plan said
func (f *Fixtures) deploy(ctx context.Context, plan *FixturePlan, contract string) (*chain.Deployment, error) {
	step, ok := plan.Step(contract)
	if !ok {
		return nil, fmt.Errorf("fixture %s is not in the plan", contract)
	}

	deployer, err := f.env.Account(step.Deployer)
	if err != nil {
		return nil, err
	}
	artifact, err := f.artifacts.Get(ctx, contract)
	if err != nil {
		return nil, err
	}

	args := make([]any, len(step.Args))
	for i, arg := range step.Args {
		if arg.Contract != "" {
			args[i] = plan.Addresses[arg.Contract]
			continue
		}
		account, err := f.env.Account(arg.Account)
		if err != nil {
			return nil, err
		}
		args[i] = account.Address()
	}

	f.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "fixtures",
		Message: fmt.Sprintf("Deploying %s", contract),
		Spinner: true,
	})
	d, err := f.env.Client.Deploy(ctx, deployer, artifact, args...)
	if err != nil {
		return nil, err
	}

	predicted := plan.Addresses[contract]
	if d.Contract.Address != predicted {
		return nil, fmt.Errorf("%s: %w: predicted %s, got %s",
			contract, domain.ErrAddressMismatch, predicted.Hex(), d.Contract.Address.Hex())
	}

	if step.Mint != nil {
		token := contracts.NewToken(d.Contract)
		if _, err := token.Mint(ctx, deployer, deployer.Address(), step.Mint); err != nil {
			return nil, fmt.Errorf("failed to mint %s: %w", contract, err)
		}
	}

	f.mu.Lock()
	f.deployments[contract] = d
	f.mu.Unlock()
	return d, nil
}

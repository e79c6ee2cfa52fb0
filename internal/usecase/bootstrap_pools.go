package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/flash-protocol/flash-deployer/internal/adapters/contracts"
	"github.com/flash-protocol/flash-deployer/internal/adapters/plan"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/samber/lo"
)

// BootstrapAction is one kind of bootstrap transaction
type BootstrapAction string

const (
	ActionFund         BootstrapAction = "fund"
	ActionCreatePool   BootstrapAction = "createPool"
	ActionAddLiquidity BootstrapAction = "addLiquidityInPool"
)

// StepStatus is the outcome of a bootstrap step
type StepStatus string

const (
	StepPlanned StepStatus = "planned"
	StepDone    StepStatus = "done"
	StepSkipped StepStatus = "skipped"
)

// BootstrapPoolsParams contains parameters for bootstrapping pools
type BootstrapPoolsParams struct {
	// PlanFile is a YAML plan; empty uses the network's pools config
	PlanFile string
	// FundTo and FundAmount override the plan's fund step
	FundTo     string
	FundAmount string
	// Execute broadcasts the plan; otherwise it is only printed
	Execute bool
}

// BootstrapStep is one serial transaction of the plan
type BootstrapStep struct {
	Action    BootstrapAction      `json:"action"`
	Target    common.Address       `json:"target"`
	Amount    *big.Int             `json:"amount,omitempty"`
	Liquidity *contracts.Liquidity `json:"liquidity,omitempty"`
	Status    StepStatus           `json:"status"`
	Note      string               `json:"note,omitempty"`
	TxHash    common.Hash          `json:"txHash,omitempty"`
	GasUsed   uint64               `json:"gasUsed,omitempty"`
}

// BootstrapPoolsResult contains the executed (or planned) steps
type BootstrapPoolsResult struct {
	Network  string          `json:"network"`
	FlashApp common.Address  `json:"flashApp"`
	GasPrice *big.Int        `json:"gasPrice,omitempty"`
	Executed bool            `json:"executed"`
	Steps    []BootstrapStep `json:"steps"`
}

// BootstrapPools funds an account and creates and seeds FlashApp pools
type BootstrapPools struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	store     DeploymentStore
	connector ChainConnector
	parser    PlanParser
	selector  InteractiveSelector
	progress  ProgressSink
}

// NewBootstrapPools creates a new BootstrapPools use case
func NewBootstrapPools(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	store DeploymentStore,
	connector ChainConnector,
	parser PlanParser,
	selector InteractiveSelector,
	progress ProgressSink,
) *BootstrapPools {
	return &BootstrapPools{
		config:    cfg,
		artifacts: artifacts,
		store:     store,
		connector: connector,
		parser:    parser,
		selector:  selector,
		progress:  progress,
	}
}

// Run builds the plan and, when params.Execute is set, sends it one transaction at a time
func (uc *BootstrapPools) Run(ctx context.Context, params BootstrapPoolsParams) (*BootstrapPoolsResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}

	bootstrap, err := uc.loadPlan(network, params)
	if err != nil {
		return nil, err
	}

	steps, err := planSteps(bootstrap)
	if err != nil {
		return nil, err
	}

	result := &BootstrapPoolsResult{
		Network: network.Name,
		Steps:   steps,
	}
	// A fund-only plan never touches FlashApp
	if needsFlashApp(steps) {
		result.FlashApp, err = uc.flashAppAddress(ctx, network, bootstrap)
		if err != nil {
			return nil, err
		}
	}
	if bootstrap.GasPrice != "" {
		result.GasPrice, _ = plan.ParseAmount(bootstrap.GasPrice)
	}

	if !params.Execute {
		return result, nil
	}

	if err := uc.execute(ctx, network, result); err != nil {
		return result, err
	}
	result.Executed = true
	return result, nil
}

// loadPlan reads the plan file or falls back to the network's pools config
func (uc *BootstrapPools) loadPlan(network *config.Network, params BootstrapPoolsParams) (*domain.BootstrapPlan, error) {
	var bootstrap *domain.BootstrapPlan
	if params.PlanFile != "" {
		parsed, err := uc.parser.ParseFile(params.PlanFile)
		if err != nil {
			return nil, err
		}
		bootstrap = parsed
	} else {
		bootstrap = &domain.BootstrapPlan{Pools: network.Pools}
	}

	if params.FundTo != "" || params.FundAmount != "" {
		bootstrap.Fund = &domain.FundStep{To: params.FundTo, Amount: params.FundAmount}
	}

	if err := plan.Validate(bootstrap); err != nil {
		return nil, fmt.Errorf("invalid bootstrap plan: %w", err)
	}
	if bootstrap.Fund == nil && len(bootstrap.Pools) == 0 {
		return nil, fmt.Errorf("nothing to do: no pools configured for %s and no fund step", network.Name)
	}
	return bootstrap, nil
}

// flashAppAddress resolves the FlashApp from the plan, flash.toml, then the registry
func (uc *BootstrapPools) flashAppAddress(ctx context.Context, network *config.Network, bootstrap *domain.BootstrapPlan) (common.Address, error) {
	if bootstrap.FlashApp != "" {
		return common.HexToAddress(bootstrap.FlashApp), nil
	}
	if network.Addresses.FlashApp != "" {
		if !common.IsHexAddress(network.Addresses.FlashApp) {
			return common.Address{}, fmt.Errorf("networks.%s.addresses.flash_app: %w: %s", network.Name, domain.ErrInvalidAddress, network.Addresses.FlashApp)
		}
		return common.HexToAddress(network.Addresses.FlashApp), nil
	}

	record, err := uc.store.Get(ctx, network.Name, domain.ContractFlashApp)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return common.Address{}, fmt.Errorf("no FlashApp address for %s: set flash_app in the plan or flash.toml, or deploy it first", network.Name)
		}
		return common.Address{}, err
	}
	return record.Address, nil
}

func needsFlashApp(steps []BootstrapStep) bool {
	return lo.ContainsBy(steps, func(step BootstrapStep) bool { return step.Action != ActionFund })
}

// planSteps expands the plan into its serial transactions
func planSteps(bootstrap *domain.BootstrapPlan) ([]BootstrapStep, error) {
	var steps []BootstrapStep

	if bootstrap.Fund != nil {
		amount, err := plan.ParseAmount(bootstrap.Fund.Amount)
		if err != nil {
			return nil, err
		}
		steps = append(steps, BootstrapStep{
			Action: ActionFund,
			Target: common.HexToAddress(bootstrap.Fund.To),
			Amount: amount,
			Status: StepPlanned,
		})
	}

	for _, pool := range bootstrap.Pools {
		token := common.HexToAddress(pool.Token)
		if !pool.SkipCreate {
			steps = append(steps, BootstrapStep{
				Action: ActionCreatePool,
				Target: token,
				Status: StepPlanned,
			})
		}
		if pool.AmountFlash == "" {
			continue
		}

		liquidity := &contracts.Liquidity{Token: token}
		for _, field := range []struct {
			dst   **big.Int
			value string
		}{
			{&liquidity.AmountFlash, pool.AmountFlash},
			{&liquidity.AmountAlt, pool.AmountAlt},
			{&liquidity.AmountFlashMin, pool.AmountFlashMin},
			{&liquidity.AmountAltMin, pool.AmountAltMin},
		} {
			amount, err := plan.ParseAmount(field.value)
			if err != nil {
				return nil, err
			}
			*field.dst = amount
		}
		steps = append(steps, BootstrapStep{
			Action:    ActionAddLiquidity,
			Target:    token,
			Liquidity: liquidity,
			Status:    StepPlanned,
		})
	}
	return steps, nil
}

// execute sends the steps in order. The first error aborts the run.
func (uc *BootstrapPools) execute(ctx context.Context, network *config.Network, result *BootstrapPoolsResult) error {
	session, err := uc.connector.Connect(ctx, network)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := confirmBroadcast(ctx, uc.selector, network, fmt.Sprintf("Send %d transactions to %s (chain %s) from %s",
		len(result.Steps), network.Name, session.ChainID(), session.Sender().Address().Hex())); err != nil {
		return err
	}

	if result.GasPrice != nil {
		session.SetGasPrice(result.GasPrice)
	}

	var app PoolRouter
	if needsFlashApp(result.Steps) {
		artifact, err := uc.artifacts.Get(ctx, domain.ContractFlashApp)
		if err != nil {
			return err
		}
		app, err = session.FlashApp(artifact, result.FlashApp)
		if err != nil {
			return err
		}
	}

	total := len(result.Steps)
	for i := range result.Steps {
		step := &result.Steps[i]
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "bootstrap",
			Current: i + 1,
			Total:   total,
			Message: fmt.Sprintf("%s %s", step.Action, step.Target.Hex()),
			Spinner: true,
		})

		receipt, err := uc.executeStep(ctx, session, app, step)
		if err != nil {
			return fmt.Errorf("step %d/%d %s %s: %w", i+1, total, step.Action, step.Target.Hex(), err)
		}
		if receipt != nil {
			step.Status = StepDone
			step.TxHash = receipt.TxHash
			step.GasUsed = receipt.GasUsed
		}
	}
	return nil
}

func (uc *BootstrapPools) executeStep(ctx context.Context, session ChainSession, app PoolRouter, step *BootstrapStep) (*types.Receipt, error) {
	switch step.Action {
	case ActionFund:
		return session.Transfer(ctx, step.Target, step.Amount)

	case ActionCreatePool:
		pool, err := app.Pool(ctx, step.Target)
		if err != nil {
			return nil, err
		}
		if pool.Exists() {
			step.Status = StepSkipped
			step.Note = "pool exists at " + pool.Address.Hex()
			return nil, nil
		}
		return app.CreatePool(ctx, session.Sender(), step.Target)

	case ActionAddLiquidity:
		return app.AddLiquidity(ctx, session.Sender(), *step.Liquidity)

	default:
		return nil, fmt.Errorf("unknown bootstrap action %q", step.Action)
	}
}

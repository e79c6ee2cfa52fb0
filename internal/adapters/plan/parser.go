package plan

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"gopkg.in/yaml.v3"
)

// Parser reads bootstrap plans from YAML
type Parser struct{}

// NewParser creates a new plan parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile parses a bootstrap plan from a YAML file
func (p *Parser) ParseFile(filePath string) (*domain.BootstrapPlan, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("plan file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	return p.Parse(data)
}

// Parse parses a bootstrap plan from YAML data
func (p *Parser) Parse(data []byte) (*domain.BootstrapPlan, error) {
	var plan domain.BootstrapPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(&plan); err != nil {
		return nil, fmt.Errorf("invalid bootstrap plan: %w", err)
	}

	return &plan, nil
}

// Validate checks addresses and amounts before anything is sent
func Validate(plan *domain.BootstrapPlan) error {
	if plan.FlashApp != "" && !common.IsHexAddress(plan.FlashApp) {
		return fmt.Errorf("flash_app: %w: %s", domain.ErrInvalidAddress, plan.FlashApp)
	}
	if plan.GasPrice != "" {
		if _, err := ParseAmount(plan.GasPrice); err != nil {
			return fmt.Errorf("gas_price: %w", err)
		}
	}
	if plan.Fund != nil {
		if !common.IsHexAddress(plan.Fund.To) {
			return fmt.Errorf("fund.to: %w: %s", domain.ErrInvalidAddress, plan.Fund.To)
		}
		if _, err := ParseAmount(plan.Fund.Amount); err != nil {
			return fmt.Errorf("fund.amount: %w", err)
		}
	}

	if len(plan.Pools) > domain.MaxPlanPools {
		return fmt.Errorf("plan has %d pools, at most %d allowed", len(plan.Pools), domain.MaxPlanPools)
	}
	for i, pool := range plan.Pools {
		if !common.IsHexAddress(pool.Token) || common.HexToAddress(pool.Token) == (common.Address{}) {
			return fmt.Errorf("pools[%d].token: %w: %q", i, domain.ErrInvalidAddress, pool.Token)
		}
		amounts := map[string]string{
			"amount_flash":     pool.AmountFlash,
			"amount_alt":       pool.AmountAlt,
			"amount_flash_min": pool.AmountFlashMin,
			"amount_alt_min":   pool.AmountAltMin,
		}
		for field, value := range amounts {
			if value == "" {
				continue
			}
			if _, err := ParseAmount(value); err != nil {
				return fmt.Errorf("pools[%d].%s: %w", i, field, err)
			}
		}
		if (pool.AmountFlash == "") != (pool.AmountAlt == "") {
			return fmt.Errorf("pools[%d]: amount_flash and amount_alt must be given together", i)
		}
	}
	return nil
}

// ParseAmount parses a non-negative decimal integer amount; empty means zero
func ParseAmount(value string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", value)
	}
	return amount, nil
}

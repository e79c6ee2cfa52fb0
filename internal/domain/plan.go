package domain

import (
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
)

// MaxPlanPools bounds the number of pools a single bootstrap run may touch
const MaxPlanPools = 32

// BootstrapPlan is the serial sequence run by the bootstrap command
type BootstrapPlan struct {
	// FlashApp overrides the network's configured FlashApp address
	FlashApp string                 `yaml:"flash_app,omitempty" json:"flashApp,omitempty"`
	GasPrice string                 `yaml:"gas_price,omitempty" json:"gasPrice,omitempty"`
	Fund     *FundStep              `yaml:"fund,omitempty" json:"fund,omitempty"`
	Pools    []config.PoolPlanEntry `yaml:"pools" json:"pools"`
}

// FundStep transfers native currency before any pool step
type FundStep struct {
	To     string `yaml:"to" json:"to"`
	Amount string `yaml:"amount" json:"amount"` // wei, decimal
}

package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	DataDir      string
	ArtifactsDir string

	// Context settings
	NetworkName string
	Network     *Network // nil if the network is not configured

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Resolved configurations
	FlashConfig *FlashFileConfig
	DevChain    DevChainConfig
}

// Network represents a resolved network profile
type Network struct {
	Name          string          `json:"name"`
	RPCURL        string          `json:"rpcUrl"`
	ChainID       uint64          `json:"chainId"`
	GasPrice      string          `json:"gasPrice,omitempty"`
	Confirmations uint64          `json:"confirmations"`
	Local         bool            `json:"local"`
	Sender        SenderConfig    `json:"-"`
	Addresses     AddressBook     `json:"addresses"`
	Pools         []PoolPlanEntry `json:"pools,omitempty"`
}

package config

// FlashFileConfig represents the full flash.toml configuration
type FlashFileConfig struct {
	ArtifactsDir string                   `toml:"artifacts_dir,omitempty"`
	Networks     map[string]NetworkConfig `toml:"networks"`
	DevChain     DevChainConfig           `toml:"devchain"`
}

// NetworkConfig is one [networks.<name>] section
type NetworkConfig struct {
	RPCURL        string          `toml:"rpc_url"`
	ChainID       uint64          `toml:"chain_id,omitempty"`
	GasPrice      string          `toml:"gas_price,omitempty"` // wei, decimal
	Confirmations uint64          `toml:"confirmations,omitempty"`
	Local         bool            `toml:"local,omitempty"` // skip broadcast confirmation prompts
	Sender        SenderConfig    `toml:"sender"`
	Addresses     AddressBook     `toml:"addresses"`
	Pools         []PoolPlanEntry `toml:"pools,omitempty"`
}

type SenderType string

var (
	SenderTypePrivateKey SenderType = "private_key"
	SenderTypeMnemonic   SenderType = "mnemonic"
)

// SenderConfig represents the signing identity for a network
type SenderConfig struct {
	Type       SenderType `toml:"type,omitempty"`
	PrivateKey string     `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
	Mnemonic   string     `toml:"mnemonic,omitempty"`    //nolint:gosec // holds env var reference, not a literal secret
	Index      uint32     `toml:"index,omitempty"`
}

// AddressBook holds the environment-specific contract addresses
type AddressBook struct {
	MatchReceiver string `toml:"match_receiver,omitempty" json:"matchReceiver,omitempty"`
	FlashApp      string `toml:"flash_app,omitempty" json:"flashApp,omitempty"`
	FlashToken    string `toml:"flash_token,omitempty" json:"flashToken,omitempty"`
	FlashProtocol string `toml:"flash_protocol,omitempty" json:"flashProtocol,omitempty"`
	AltToken      string `toml:"alt_token,omitempty" json:"altToken,omitempty"`
}

// PoolPlanEntry describes one pool to create and seed with liquidity
type PoolPlanEntry struct {
	Token          string `toml:"token" yaml:"token" json:"token"`
	AmountFlash    string `toml:"amount_flash,omitempty" yaml:"amount_flash,omitempty" json:"amountFlash,omitempty"`
	AmountAlt      string `toml:"amount_alt,omitempty" yaml:"amount_alt,omitempty" json:"amountAlt,omitempty"`
	AmountFlashMin string `toml:"amount_flash_min,omitempty" yaml:"amount_flash_min,omitempty" json:"amountFlashMin,omitempty"`
	AmountAltMin   string `toml:"amount_alt_min,omitempty" yaml:"amount_alt_min,omitempty" json:"amountAltMin,omitempty"`
	SkipCreate     bool   `toml:"skip_create,omitempty" yaml:"skip_create,omitempty" json:"skipCreate,omitempty"`
}

// DevChainConfig configures the in-process deterministic chain
type DevChainConfig struct {
	Mnemonic string `toml:"mnemonic,omitempty"`
	Accounts int    `toml:"accounts,omitempty"`
	Balance  string `toml:"balance,omitempty"` // wei per account, decimal
	GasLimit uint64 `toml:"gas_limit,omitempty"`
}

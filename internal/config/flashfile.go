package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/joho/godotenv"
)

const (
	// FlashFileName is the project configuration file looked up from the project root
	FlashFileName = "flash.toml"

	// DefaultMatchReceiver receives matched FLASH for stakes when a network does not override it
	DefaultMatchReceiver = "0xDE174710543dCED471A5747Fe3060d11E881a356"

	// DefaultMnemonic seeds the dev chain accounts
	DefaultMnemonic = "horn horn horn horn horn horn horn horn horn horn horn horn"

	// DefaultDevChainGasLimit is the dev chain block gas limit
	DefaultDevChainGasLimit uint64 = 9999999

	// DefaultDevChainBalance is the wei balance of each dev chain account (10000 ETH)
	DefaultDevChainBalance = "10000000000000000000000"

	// DefaultDevChainAccounts is the number of funded dev chain accounts
	DefaultDevChainAccounts = 10
)

// loadEnvFiles loads .env files for variable expansion.
// Variables already present in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadFlashConfig loads and parses flash.toml if it exists.
// Returns the built-in defaults when flash.toml does not exist.
func loadFlashConfig(projectRoot string) (*config.FlashFileConfig, error) {
	loadEnvFiles(projectRoot)

	cfg := &config.FlashFileConfig{}

	flashPath := filepath.Join(projectRoot, FlashFileName)
	if _, err := os.Stat(flashPath); err == nil {
		if _, err := toml.DecodeFile(flashPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FlashFileName, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", FlashFileName, err)
	}

	applyDefaults(cfg)
	expandEnv(cfg)

	return cfg, nil
}

// applyDefaults fills in the localhost network and dev chain settings
func applyDefaults(cfg *config.FlashFileConfig) {
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]config.NetworkConfig)
	}
	if _, ok := cfg.Networks["localhost"]; !ok {
		cfg.Networks["localhost"] = config.NetworkConfig{
			RPCURL: "http://127.0.0.1:8545",
			Local:  true,
			Sender: config.SenderConfig{
				Type:     config.SenderTypeMnemonic,
				Mnemonic: DefaultMnemonic,
			},
		}
	}

	for name, network := range cfg.Networks {
		if network.Addresses.MatchReceiver == "" {
			network.Addresses.MatchReceiver = DefaultMatchReceiver
		}
		if network.Confirmations == 0 {
			network.Confirmations = 1
		}
		if network.Sender.Type == "" {
			if network.Sender.Mnemonic != "" {
				network.Sender.Type = config.SenderTypeMnemonic
			} else {
				network.Sender.Type = config.SenderTypePrivateKey
			}
		}
		cfg.Networks[name] = network
	}

	if cfg.DevChain.Mnemonic == "" {
		cfg.DevChain.Mnemonic = DefaultMnemonic
	}
	if cfg.DevChain.Accounts == 0 {
		cfg.DevChain.Accounts = DefaultDevChainAccounts
	}
	if cfg.DevChain.Balance == "" {
		cfg.DevChain.Balance = DefaultDevChainBalance
	}
	if cfg.DevChain.GasLimit == 0 {
		cfg.DevChain.GasLimit = DefaultDevChainGasLimit
	}
}

// expandEnv expands ${VAR} references in every string that may carry secrets or endpoints
func expandEnv(cfg *config.FlashFileConfig) {
	for name, network := range cfg.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		network.GasPrice = os.ExpandEnv(network.GasPrice)
		network.Sender.PrivateKey = os.ExpandEnv(network.Sender.PrivateKey)
		network.Sender.Mnemonic = os.ExpandEnv(network.Sender.Mnemonic)
		network.Addresses.MatchReceiver = os.ExpandEnv(network.Addresses.MatchReceiver)
		network.Addresses.FlashApp = os.ExpandEnv(network.Addresses.FlashApp)
		network.Addresses.FlashToken = os.ExpandEnv(network.Addresses.FlashToken)
		network.Addresses.FlashProtocol = os.ExpandEnv(network.Addresses.FlashProtocol)
		network.Addresses.AltToken = os.ExpandEnv(network.Addresses.AltToken)
		for i := range network.Pools {
			network.Pools[i].Token = os.ExpandEnv(network.Pools[i].Token)
		}
		cfg.Networks[name] = network
	}
	cfg.DevChain.Mnemonic = os.ExpandEnv(cfg.DevChain.Mnemonic)
}

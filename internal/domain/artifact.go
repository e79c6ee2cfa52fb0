package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ArtifactFormat identifies which toolchain produced an artifact
type ArtifactFormat string

const (
	ArtifactFormatHardhat ArtifactFormat = "hardhat"
	ArtifactFormatFoundry ArtifactFormat = "foundry"
)

// Artifact is the compiled interface description and bytecode of a contract
type Artifact struct {
	Name             string          `json:"contractName"`
	SourcePath       string          `json:"sourceName"`
	ArtifactPath     string          `json:"artifactPath"`
	Format           ArtifactFormat  `json:"format"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         string          `json:"bytecode"`
	DeployedBytecode string          `json:"deployedBytecode"`
}

// ParseABI parses the artifact's ABI JSON
func (a *Artifact) ParseABI() (*abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(string(a.ABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", a.Name, err)
	}
	return &parsed, nil
}

// CreationCode decodes the deployment bytecode.
// Artifacts with unlinked library placeholders are rejected.
func (a *Artifact) CreationCode() ([]byte, error) {
	code := a.Bytecode
	if code == "" || code == "0x" {
		return nil, fmt.Errorf("artifact %s has no bytecode (abstract contract or interface?)", a.Name)
	}
	if strings.Contains(code, "__") {
		return nil, fmt.Errorf("artifact %s has unlinked library references", a.Name)
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	return hexutil.Decode(code)
}

// Key is the path:Name identifier that disambiguates same-named contracts
func (a *Artifact) Key() string {
	return fmt.Sprintf("%s:%s", a.SourcePath, a.Name)
}

// DeploymentRecord is a deployed contract remembered in the registry
type DeploymentRecord struct {
	Network      string         `json:"network"`
	ChainID      uint64         `json:"chainId"`
	ContractName string         `json:"contractName"`
	Address      common.Address `json:"address"`
	TxHash       common.Hash    `json:"transactionHash"`
	BlockNumber  uint64         `json:"blockNumber"`
	Deployer     common.Address `json:"deployer"`
	Timestamp    int64          `json:"timestamp"`
}

package render

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/flash-protocol/flash-deployer/internal/adapters/contracts"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,567", formatGas(1234567))
	assert.Equal(t, "-", formatGas(0))

	assert.Equal(t, "1,000", formatUnits(ether(1000)))
	assert.Equal(t, "1500 wei", formatUnits(big.NewInt(1500)))
	assert.Equal(t, "0 wei", formatUnits(new(big.Int)))
	assert.Equal(t, "-", formatUnits(nil))
	assert.Equal(t, "5 ETH", formatWei(ether(5)))
	assert.Equal(t, "7 wei", formatWei(big.NewInt(7)))

	assert.Equal(t, "-", shortHash(common.Hash{}))
	assert.Equal(t, "0x00000000…00c0", shortHash(common.HexToHash("0xc0")))

	assert.Equal(t, "https://mainnet.example.org/…", redactURL("https://mainnet.example.org/v3/secret"))
	assert.Equal(t, "http://127.0.0.1:8545", redactURL("http://127.0.0.1:8545"))

	assert.Equal(t, "❌ Pool missing", FormatError("step 2: pool missing"))
}

func TestBootstrapRenderer(t *testing.T) {
	token := common.HexToAddress("0x2222222222222222222222222222222222222222")
	result := &usecase.BootstrapPoolsResult{
		Network:  "ropsten",
		FlashApp: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Steps: []usecase.BootstrapStep{
			{Action: usecase.ActionFund, Target: token, Amount: ether(5), Status: usecase.StepPlanned},
			{Action: usecase.ActionCreatePool, Target: token, Status: usecase.StepPlanned},
			{
				Action: usecase.ActionAddLiquidity,
				Target: token,
				Liquidity: &contracts.Liquidity{
					Token:       token,
					AmountFlash: ether(1000),
					AmountAlt:   ether(2000),
				},
				Status: usecase.StepPlanned,
			},
		},
	}

	t.Run("dry run", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewBootstrapRenderer(&out).Render(result))

		assert.Contains(t, out.String(), "ropsten")
		assert.Contains(t, out.String(), "addLiquidityInPool")
		assert.Contains(t, out.String(), "FLASH 1,000 / ALT 2,000")
		assert.Contains(t, out.String(), "5 ETH")
		assert.Contains(t, out.String(), "--execute to send 3 transactions")
	})

	t.Run("executed", func(t *testing.T) {
		executed := *result
		executed.Executed = true
		executed.Steps = []usecase.BootstrapStep{
			{Action: usecase.ActionFund, Target: token, Amount: ether(5), Status: usecase.StepDone, GasUsed: 21000},
			{Action: usecase.ActionCreatePool, Target: token, Status: usecase.StepSkipped, Note: "pool exists at 0xabc"},
		}

		var out bytes.Buffer
		require.NoError(t, NewBootstrapRenderer(&out).Render(&executed))
		assert.Contains(t, out.String(), "skipped (pool exists at 0xabc)")
		assert.Contains(t, out.String(), "1 transactions sent, 21,000 gas")
	})
}

func TestScenarioRenderer(t *testing.T) {
	result := &usecase.ScenarioResult{
		Steps: []usecase.StepResult{
			{Name: usecase.StepInvalidToken, Expectation: "reverts", Outcome: usecase.OutcomePassed, Duration: 3 * time.Millisecond},
			{Name: usecase.StepCreatePool, Expectation: "creates", Outcome: usecase.OutcomeFailed, Error: "boom", GasUsed: 90000},
		},
		Passed: 1,
		Failed: 1,
	}

	var out bytes.Buffer
	require.NoError(t, NewScenarioRenderer(&out).Render(result))
	assert.Contains(t, out.String(), "✓ passed")
	assert.Contains(t, out.String(), "✗ failed")
	assert.Contains(t, out.String(), "90,000")
	assert.Contains(t, out.String(), "1 passed, 1 failed")
	assert.Contains(t, out.String(), "Boom")
}

func TestNetworksRenderer(t *testing.T) {
	result := &usecase.ListNetworksResult{
		Current: "localhost",
		Networks: []usecase.NetworkStatus{
			{Name: "broken", Error: errors.New("no rpc_url")},
			{Name: "localhost", Network: &config.Network{RPCURL: "http://127.0.0.1:8545", Local: true}},
			{Name: "ropsten", Network: &config.Network{RPCURL: "https://ropsten.example.org/key", ChainID: 3}},
		},
	}

	var out bytes.Buffer
	require.NoError(t, NewNetworksRenderer(&out).Render(result))
	assert.Contains(t, out.String(), "no rpc_url")
	assert.Contains(t, out.String(), "✅ local")
	assert.NotContains(t, out.String(), "/key")
}

func TestDeploymentsRenderer(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewDeploymentsRenderer(&out).Render(&usecase.DeploymentListResult{}))
		assert.Equal(t, "No deployments found\n", out.String())
	})

	t.Run("grouped by network", func(t *testing.T) {
		records := []*domain.DeploymentRecord{
			{Network: "localhost", ChainID: 1337, ContractName: "FlashApp", Address: common.HexToAddress("0x01"), BlockNumber: 4},
			{Network: "ropsten", ChainID: 3, ContractName: "FlashToken", Address: common.HexToAddress("0x02"), BlockNumber: 9},
		}
		var out bytes.Buffer
		require.NoError(t, NewDeploymentsRenderer(&out).Render(&usecase.DeploymentListResult{
			Deployments: records,
			Summary:     usecase.DeploymentSummary{Total: 2},
		}))

		assert.Contains(t, out.String(), "localhost (1337)")
		assert.Contains(t, out.String(), "ropsten (3)")
		assert.Contains(t, out.String(), common.HexToAddress("0x02").Hex())
		assert.Contains(t, out.String(), "Total deployments: 2")
	})
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, JSON(&out, &usecase.PredictedAddress{Nonce: 1, Address: common.HexToAddress("0x01")}))
	assert.Contains(t, out.String(), `"nonce": 1`)
	assert.Contains(t, out.String(), `"address": "0x0000000000000000000000000000000000000001"`)
}

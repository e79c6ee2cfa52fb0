package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/flash-protocol/flash-deployer/internal/usecase"
)

// Renderer renders a use case result for the console
type Renderer[T any] interface {
	Render(result T) error
}

// JSON writes v as indented JSON
func JSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

var (
	_ Renderer[*usecase.DeployContractResult] = (*DeployRenderer)(nil)
	_ Renderer[*usecase.BootstrapPoolsResult] = (*BootstrapRenderer)(nil)
	_ Renderer[*usecase.PredictAddressResult] = (*PredictRenderer)(nil)
	_ Renderer[*usecase.RunFixturesResult]    = (*FixturesRenderer)(nil)
	_ Renderer[*usecase.ScenarioResult]       = (*ScenarioRenderer)(nil)
	_ Renderer[*usecase.ListNetworksResult]   = (*NetworksRenderer)(nil)
	_ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)
	_ Renderer[*usecase.ListArtifactsResult]  = (*ArtifactsRenderer)(nil)
)

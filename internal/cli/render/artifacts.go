package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ArtifactsRenderer renders indexed artifacts
type ArtifactsRenderer struct {
	out io.Writer
}

// NewArtifactsRenderer creates a new artifacts renderer
func NewArtifactsRenderer(out io.Writer) *ArtifactsRenderer {
	return &ArtifactsRenderer{out: out}
}

// Render prints one row per artifact
func (r *ArtifactsRenderer) Render(result *usecase.ListArtifactsResult) error {
	if len(result.Artifacts) == 0 {
		fmt.Fprintf(r.out, "No artifacts found in %s\n", result.Dir)
		return nil
	}

	t := newTable(r.out, table.Row{"Contract", "Source", "Format", "Deployable"})
	for _, artifact := range result.Artifacts {
		deployable := "yes"
		if _, err := artifact.CreationCode(); err != nil {
			deployable = "no"
		}
		t.AppendRow(table.Row{
			contractStyle.Sprint(artifact.Name),
			strings.TrimPrefix(artifact.SourcePath, "contracts/"),
			formatName(artifact.Format),
			deployable,
		})
	}
	t.Render()
	fmt.Fprintf(r.out, "\n%d artifacts in %s\n", len(result.Artifacts), result.Dir)
	return nil
}

func formatName(format domain.ArtifactFormat) string {
	if format == "" {
		return string(domain.ArtifactFormatHardhat)
	}
	return string(format)
}

package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectArtifact asks the operator to pick one of several artifacts
func (s *SelectorAdapter) SelectArtifact(ctx context.Context, artifacts []*domain.Artifact, prompt string) (*domain.Artifact, error) {
	// In non-interactive mode, we can't select
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(artifacts) == 0 {
		return nil, fmt.Errorf("no artifacts provided for selection")
	}

	// If only one match, return it directly
	if len(artifacts) == 1 {
		return artifacts[0], nil
	}

	options := formatArtifactOptions(artifacts)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return artifacts[index], nil
}

// Confirm asks a yes/no question. Non-interactive runs are treated as confirmed.
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return true, nil
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// formatArtifactOptions creates display strings for artifact selection
func formatArtifactOptions(artifacts []*domain.Artifact) []string {
	options := make([]string, len(artifacts))
	for i, artifact := range artifacts {
		// Format as "ContractName (contracts/File.sol) [foundry]"
		name := color.New(color.FgWhite, color.Bold).Sprint(artifact.Name)
		source := artifact.SourcePath
		if source == "" {
			source = artifact.ArtifactPath
		}
		pathStr := color.New(color.FgBlue).Sprint(strings.TrimPrefix(source, "contracts/"))

		if artifact.Format == domain.ArtifactFormatFoundry {
			options[i] = fmt.Sprintf("%s (%s) %s", name, pathStr, color.New(color.FgYellow).Sprint("[foundry]"))
		} else {
			options[i] = fmt.Sprintf("%s (%s)", name, pathStr)
		}
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		// Convert to lowercase for case-insensitive search
		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		// Then try fuzzy match
		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.InteractiveSelector = (*SelectorAdapter)(nil)

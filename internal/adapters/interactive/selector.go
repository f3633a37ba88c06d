package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectProposal asks the user to pick one of several matching proposals
func (s *SelectorAdapter) SelectProposal(ctx context.Context, candidates []*usecase.ProposalView) (*usecase.ProposalView, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no proposals provided for selection")
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if s.config.NonInteractive {
		return nil, fmt.Errorf("%d proposals match; pass a proposal id in non-interactive mode", len(candidates))
	}

	options := formatProposalOptions(candidates)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             "Select a proposal",
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          fuzzySearcher(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return candidates[index], nil
}

// formatProposalOptions renders "#3 Title [active] by alice"
func formatProposalOptions(candidates []*usecase.ProposalView) []string {
	options := make([]string, len(candidates))
	for i, p := range candidates {
		id := color.New(color.FgWhite, color.Bold).Sprintf("#%d", p.ID)
		state := color.New(color.FgBlue).Sprintf("[%s]", p.StateName)
		proposer := p.ProposerName
		if proposer == "" {
			proposer = p.Proposer.Hex()
		}
		options[i] = fmt.Sprintf("%s %s %s by %s", id, p.Title(), state, proposer)
	}
	return options
}

// fuzzySearcher matches substrings first, then falls back to fuzzy matching
func fuzzySearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.ProposalSelector = (*SelectorAdapter)(nil)

package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
	"gopkg.in/yaml.v3"
)

// ScenarioLoader reads YAML scenario files
type ScenarioLoader struct {
	projectRoot string
}

// NewScenarioLoader creates a new ScenarioLoader
func NewScenarioLoader(cfg *config.RuntimeConfig) *ScenarioLoader {
	return &ScenarioLoader{projectRoot: cfg.ProjectRoot}
}

// LoadScenario parses the scenario at path. Relative paths are taken from
// the project root. Unknown keys are rejected so a typo in a step does not
// silently turn it into a different step.
func (l *ScenarioLoader) LoadScenario(_ context.Context, path string) (*models.Scenario, error) {
	if !filepath.IsAbs(path) && l.projectRoot != "" {
		path = filepath.Join(l.projectRoot, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var sc models.Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	return &sc, nil
}

var _ usecase.ScenarioLoader = (*ScenarioLoader)(nil)

package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// stateFile is the on-disk layout of the state file
type stateFile struct {
	System *models.System    `json:"system"`
	World  *chain.WorldState `json:"world"`
}

// WorldStore implements usecase.WorldStore as a single JSON file
type WorldStore struct {
	statePath string
}

// NewWorldStore creates a new WorldStore
func NewWorldStore(cfg *config.RuntimeConfig) *WorldStore {
	return &WorldStore{statePath: cfg.StatePath()}
}

// Exists reports whether a state file has been written
func (s *WorldStore) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.statePath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat state file: %w", err)
}

// Load reads the system and its world state from disk
func (s *WorldStore) Load(_ context.Context) (*models.System, *chain.WorldState, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, domain.ErrStateNotInitialized
		}
		return nil, nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, nil, fmt.Errorf("failed to parse state file %s: %w", s.statePath, err)
	}
	if state.System == nil || state.World == nil {
		return nil, nil, fmt.Errorf("state file %s is incomplete", s.statePath)
	}
	return state.System, state.World, nil
}

// Save writes the state file, replacing the previous one only once the new
// contents are fully on disk
func (s *WorldStore) Save(_ context.Context, sys *models.System, ws *chain.WorldState) error {
	if err := os.MkdirAll(filepath.Dir(s.statePath), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(stateFile{System: sys, World: ws}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpPath := s.statePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.statePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Ensure WorldStore implements WorldStore
var _ usecase.WorldStore = (*WorldStore)(nil)

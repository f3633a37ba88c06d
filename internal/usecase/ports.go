package usecase

import (
	"context"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// WorldStore persists a deployed system together with its world state
type WorldStore interface {
	Exists(ctx context.Context) (bool, error)
	// Load returns domain.ErrStateNotInitialized when nothing was saved yet
	Load(ctx context.Context) (*models.System, *chain.WorldState, error)
	Save(ctx context.Context, sys *models.System, ws *chain.WorldState) error
}

// Account is a named sender
type Account struct {
	Name    string         `json:"name"`
	Address common.Address `json:"address"`
	CanSign bool           `json:"canSign"`
}

// Keyring resolves account names and signs on their behalf
type Keyring interface {
	// Resolve accepts a configured account name or a hex address
	Resolve(nameOrAddress string) (common.Address, error)
	// Accounts lists the named accounts in a stable order
	Accounts() []Account
	// NameOf returns the account name of addr, or "" when it has none
	NameOf(addr common.Address) string
	// SignDigest signs a 32 byte digest with the key of addr and returns
	// the 65 byte [R || S || V] signature
	SignDigest(addr common.Address, digest common.Hash) ([]byte, error)
}

// Confirmer asks the user before an irreversible action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ProposalSelector picks one proposal out of several candidates
type ProposalSelector interface {
	SelectProposal(ctx context.Context, candidates []*ProposalView) (*ProposalView, error)
}

// CallEncoder turns human input into calldata
type CallEncoder interface {
	// EncodeArgs ABI-encodes args for the parameter list of a function
	// signature such as "setDelay(uint256)", without a selector
	EncodeArgs(signature string, args []string) ([]byte, error)
	// EncodeMethod encodes a call to method of the contract described by
	// abiJSON, selector included
	EncodeMethod(abiJSON, method string, args []string) ([]byte, error)
	// DescribeCall renders a signature and its encoded arguments, e.g.
	// "setDelay(259200)"
	DescribeCall(signature string, data []byte) (string, error)
}

// LogEncoder converts emitted events to EVM logs
type LogEncoder interface {
	EncodeLog(l chain.Log) (*types.Log, error)
}

// EventFormat is an export format for events
type EventFormat string

const (
	EventFormatTable EventFormat = "table"
	EventFormatJSON  EventFormat = "json"
	EventFormatYAML  EventFormat = "yaml"
	EventFormatRaw   EventFormat = "raw"
)

// EventExporter writes event records in a machine-readable format
type EventExporter interface {
	Export(w io.Writer, records []EventRecord, format EventFormat) error
}

// ScenarioLoader reads a scenario file
type ScenarioLoader interface {
	LoadScenario(ctx context.Context, path string) (*models.Scenario, error)
}

// DeployConfigWriter writes a starter deployment file
type DeployConfigWriter interface {
	// WriteDeployConfig writes cfg to path unless a file already exists
	// there; it reports whether it wrote
	WriteDeployConfig(path string, cfg *config.DeployConfig) (bool, error)
}

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

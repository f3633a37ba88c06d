package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// EventRecord is one emitted event, labelled for display and export
type EventRecord struct {
	Block    uint64         `json:"block" yaml:"block"`
	TxIndex  uint32         `json:"txIndex" yaml:"txIndex"`
	LogIndex uint32         `json:"logIndex" yaml:"logIndex"`
	Address  common.Address `json:"address" yaml:"address"`
	Contract string         `json:"contract,omitempty" yaml:"contract,omitempty"`
	Name     string         `json:"event" yaml:"event"`
	Kind     string         `json:"kind" yaml:"kind"`
	Event    domain.Event   `json:"args" yaml:"args"`
	Raw      *types.Log     `json:"raw,omitempty" yaml:"-"`
}

// Summary is the event's one-line description
func (r EventRecord) Summary() string {
	return r.Event.String()
}

// ListEventsParams contains filters for listing events
type ListEventsParams struct {
	// Contract is a system contract name or an address
	Contract  string
	Name      string
	FromBlock uint64
	// Limit keeps the most recent events; 0 keeps all
	Limit  int
	Format EventFormat
}

// ListEventsResult contains the matching events in emission order
type ListEventsResult struct {
	Block   uint64        `json:"block"`
	Records []EventRecord `json:"events"`
}

// ListEvents lists the events the system emitted
type ListEvents struct {
	world    *World
	encoder  LogEncoder
	exporter EventExporter
}

// NewListEvents creates a new ListEvents use case
func NewListEvents(world *World, encoder LogEncoder, exporter EventExporter) *ListEvents {
	return &ListEvents{world: world, encoder: encoder, exporter: exporter}
}

// Run collects the events
func (uc *ListEvents) Run(ctx context.Context, params ListEventsParams) (*ListEventsResult, error) {
	switch params.Format {
	case "", EventFormatTable, EventFormatJSON, EventFormatYAML, EventFormatRaw:
	default:
		return nil, fmt.Errorf("unknown event format %q", params.Format)
	}

	var result *ListEventsResult
	err := uc.world.View(ctx, func(s *Session) error {
		filter := chain.LogFilter{Name: params.Name, FromBlock: params.FromBlock}
		if params.Contract != "" {
			addr, err := s.Resolve(params.Contract)
			if err != nil {
				return err
			}
			filter.Address = &addr
		}

		logs := s.Host.Logs(filter)
		if params.Limit > 0 && len(logs) > params.Limit {
			logs = logs[len(logs)-params.Limit:]
		}

		result = &ListEventsResult{Block: s.Host.BlockNumber(), Records: make([]EventRecord, 0, len(logs))}
		for _, l := range logs {
			rec := EventRecord{
				Block:    l.Block,
				TxIndex:  l.TxIndex,
				LogIndex: l.Index,
				Address:  l.Address,
				Contract: s.System.NameOf(l.Address),
				Name:     l.Event.ContractEventName(),
				Kind:     domain.EventKind(l.Event),
				Event:    l.Event,
			}
			if params.Format == EventFormatRaw {
				raw, err := uc.encoder.EncodeLog(l)
				if err != nil {
					return fmt.Errorf("failed to encode %s log: %w", rec.Name, err)
				}
				rec.Raw = raw
			}
			result.Records = append(result.Records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Export writes records in a machine-readable format
func (uc *ListEvents) Export(w io.Writer, records []EventRecord, format EventFormat) error {
	return uc.exporter.Export(w, records, format)
}

package fs

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
	"gopkg.in/yaml.v3"
)

// EventExporter writes event records as JSON, YAML or raw EVM logs
type EventExporter struct{}

// NewEventExporter creates a new EventExporter
func NewEventExporter() *EventExporter {
	return &EventExporter{}
}

// Export writes records to w in format
func (e *EventExporter) Export(w io.Writer, records []usecase.EventRecord, format usecase.EventFormat) error {
	if records == nil {
		records = []usecase.EventRecord{}
	}
	switch format {
	case usecase.EventFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case usecase.EventFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlRecords(records)); err != nil {
			return fmt.Errorf("failed to encode events: %w", err)
		}
		return enc.Close()
	case usecase.EventFormatRaw:
		logs := make([]*types.Log, 0, len(records))
		for _, r := range records {
			if r.Raw == nil {
				return fmt.Errorf("event %s at block %d has no raw log", r.Name, r.Block)
			}
			logs = append(logs, r.Raw)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(logs)
	}
	return fmt.Errorf("cannot export events as %q", format)
}

// yamlRecords routes event arguments through their JSON form so that
// addresses and amounts read the same in both formats
func yamlRecords(records []usecase.EventRecord) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		var args map[string]any
		if raw, err := json.Marshal(r.Event); err == nil {
			_ = json.Unmarshal(raw, &args)
		}
		row := map[string]any{
			"block":    r.Block,
			"txIndex":  r.TxIndex,
			"logIndex": r.LogIndex,
			"address":  r.Address.Hex(),
			"event":    r.Name,
			"kind":     r.Kind,
			"args":     args,
		}
		if r.Contract != "" {
			row["contract"] = r.Contract
		}
		out = append(out, row)
	}
	return out
}

var _ usecase.EventExporter = (*EventExporter)(nil)

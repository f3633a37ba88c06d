package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// Log is one emitted event together with where it was emitted
type Log struct {
	Address common.Address
	Block   uint64
	TxIndex uint32
	Index   uint32
	Event   domain.Event
}

type logJSON struct {
	Address common.Address  `json:"address"`
	Block   uint64          `json:"block"`
	TxIndex uint32          `json:"txIndex"`
	Index   uint32          `json:"logIndex"`
	Kind    string          `json:"kind"`
	Name    string          `json:"event"`
	Args    json.RawMessage `json:"args"`
}

func (l Log) MarshalJSON() ([]byte, error) {
	args, err := json.Marshal(l.Event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(logJSON{
		Address: l.Address,
		Block:   l.Block,
		TxIndex: l.TxIndex,
		Index:   l.Index,
		Kind:    domain.EventKind(l.Event),
		Name:    l.Event.ContractEventName(),
		Args:    args,
	})
}

func (l *Log) UnmarshalJSON(data []byte) error {
	var raw logJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ev, err := domain.NewEventOfKind(raw.Kind)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw.Args, ev); err != nil {
		return fmt.Errorf("failed to decode %s args: %w", raw.Kind, err)
	}
	*l = Log{
		Address: raw.Address,
		Block:   raw.Block,
		TxIndex: raw.TxIndex,
		Index:   raw.Index,
		Event:   ev,
	}
	return nil
}

// LogFilter selects logs by emitter and event name. Zero fields match all.
type LogFilter struct {
	Address   *common.Address
	Name      string
	FromBlock uint64
}

// Matches reports whether l passes the filter
func (f LogFilter) Matches(l Log) bool {
	if f.Address != nil && l.Address != *f.Address {
		return false
	}
	if f.Name != "" && l.Event.ContractEventName() != f.Name {
		return false
	}
	return l.Block >= f.FromBlock
}

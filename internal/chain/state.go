package chain

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// WorldState is the serialisable form of a Host
type WorldState struct {
	ChainID   uint64                          `json:"chainId"`
	Block     uint64                          `json:"block"`
	Time      uint64                          `json:"time"`
	BlockTime uint64                          `json:"blockTime"`
	GasLimit  uint64                          `json:"gasLimit"`
	Automine  bool                            `json:"automine"`
	TxIndex   uint32                          `json:"txIndex"`
	Balances  map[common.Address]*uint256.Int `json:"balances"`
	Nonces    map[common.Address]uint64       `json:"nonces"`
	Contracts []ContractState                 `json:"contracts"`
	Logs      []Log                           `json:"logs"`
}

// ContractState is one deployed contract and its storage
type ContractState struct {
	Address common.Address  `json:"address"`
	Kind    string          `json:"kind"`
	State   json.RawMessage `json:"state"`
}

// Factory allocates an empty contract of one kind, ready for Decode
type Factory func(addr common.Address) Contract

// Export captures the full world state
func (h *Host) Export() (*WorldState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ws := &WorldState{
		ChainID:   h.chainID,
		Block:     h.block,
		Time:      h.time,
		BlockTime: h.blockTime,
		GasLimit:  h.gasLimit,
		Automine:  h.automine,
		TxIndex:   h.txIndex,
		Balances:  make(map[common.Address]*uint256.Int, len(h.balances)),
		Nonces:    make(map[common.Address]uint64, len(h.nonces)),
		Logs:      append([]Log(nil), h.logs...),
	}
	for addr, b := range h.balances {
		ws.Balances[addr] = new(uint256.Int).Set(b)
	}
	for addr, n := range h.nonces {
		ws.Nonces[addr] = n
	}

	addrs := make([]common.Address, 0, len(h.contracts))
	for addr := range h.contracts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Cmp(addrs[j]) < 0 })
	for _, addr := range addrs {
		c := h.contracts[addr]
		raw, err := json.Marshal(c.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s at %s: %w", c.Kind(), addr.Hex(), err)
		}
		ws.Contracts = append(ws.Contracts, ContractState{Address: addr, Kind: c.Kind(), State: raw})
	}
	return ws, nil
}

// WithLogger sets the logger of an imported host
func WithLogger(log *slog.Logger) func(*Host) {
	return func(h *Host) {
		if log != nil {
			h.log = log.With("component", "host")
		}
	}
}

// Import rebuilds a host from a captured world state. factories maps a
// contract kind to its constructor.
func Import(ws *WorldState, factories map[string]Factory, opts ...func(*Host)) (*Host, error) {
	h := NewHost(Options{
		ChainID:   ws.ChainID,
		BlockTime: ws.BlockTime,
		GasLimit:  ws.GasLimit,
		Automine:  ws.Automine,
	}, nil)
	for _, opt := range opts {
		opt(h)
	}
	h.block = ws.Block
	h.time = ws.Time
	h.txIndex = ws.TxIndex
	for addr, b := range ws.Balances {
		h.balances[addr] = new(uint256.Int).Set(b)
	}
	for addr, n := range ws.Nonces {
		h.nonces[addr] = n
	}
	h.logs = append(h.logs, ws.Logs...)

	for _, cs := range ws.Contracts {
		factory, ok := factories[cs.Kind]
		if !ok {
			return nil, fmt.Errorf("contract kind %q at %s: %w", cs.Kind, cs.Address.Hex(), domain.ErrNotFound)
		}
		c := factory(cs.Address)
		if err := c.Decode(cs.State); err != nil {
			return nil, fmt.Errorf("failed to decode %s at %s: %w", cs.Kind, cs.Address.Hex(), err)
		}
		h.contracts[cs.Address] = c
	}
	return h, nil
}

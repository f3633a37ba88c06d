package chain

import (
	"github.com/ethereum/go-ethereum/params"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// Gas schedule. Values follow the EVM's where one exists.
const (
	GasTx        = params.TxGas                         // intrinsic cost of a transaction
	GasStore     = params.SstoreResetGasEIP2200         // one storage slot write
	GasLog       = params.LogGas + 3*params.LogTopicGas // one event
	GasCall      = params.CallGasEIP150                 // entering a nested frame
	GasCallValue = params.CallValueTransferGas          // surcharge for value-bearing calls

	DefaultGasLimit uint64 = 30_000_000
)

// GasMeter tracks gas consumed by one call frame
type GasMeter struct {
	limit uint64
	used  uint64
}

// NewGasMeter creates a meter with the given allowance
func NewGasMeter(limit uint64) *GasMeter {
	return &GasMeter{limit: limit}
}

// Use consumes n gas. Running out consumes the whole allowance.
func (g *GasMeter) Use(n uint64) error {
	if n > g.limit-g.used {
		g.used = g.limit
		return domain.ErrOutOfGas
	}
	g.used += n
	return nil
}

// Left returns the remaining allowance
func (g *GasMeter) Left() uint64 {
	return g.limit - g.used
}

// Used returns the gas consumed so far
func (g *GasMeter) Used() uint64 {
	return g.used
}

// child carves a sub-allowance of at most n gas for a nested frame
func (g *GasMeter) child(n uint64) *GasMeter {
	if left := g.Left(); n > left {
		n = left
	}
	return &GasMeter{limit: n}
}

// absorb charges the gas a finished child frame used
func (g *GasMeter) absorb(c *GasMeter) {
	g.used += c.used
}

package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/rarity-society/internal/adapters/abi"
	"github.com/trebuchet-org/rarity-society/internal/adapters/fs"
	"github.com/trebuchet-org/rarity-society/internal/adapters/interactive"
	"github.com/trebuchet-org/rarity-society/internal/adapters/senders"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewWorldStore,
	wire.Bind(new(usecase.WorldStore), new(*fs.WorldStore)),

	fs.NewScenarioLoader,
	wire.Bind(new(usecase.ScenarioLoader), new(*fs.ScenarioLoader)),

	fs.NewEventExporter,
	wire.Bind(new(usecase.EventExporter), new(*fs.EventExporter)),

	fs.NewDeployConfigWriter,
	wire.Bind(new(usecase.DeployConfigWriter), new(*fs.DeployConfigWriter)),
)

// ABISet provides calldata and log encoding
var ABISet = wire.NewSet(
	abi.NewCodec,
	wire.Bind(new(usecase.CallEncoder), new(*abi.Codec)),
	wire.Bind(new(usecase.LogEncoder), new(*abi.Codec)),
)

// SendersSet provides the account keyring
var SendersSet = wire.NewSet(
	senders.NewKeyring,
	wire.Bind(new(usecase.Keyring), new(*senders.Keyring)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.SelectorAdapter)),

	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmerAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ABISet,
	SendersSet,
	InteractiveSet,
)

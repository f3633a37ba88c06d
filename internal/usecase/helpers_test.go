package usecase_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/rarity-society/internal/adapters/abi"
	"github.com/trebuchet-org/rarity-society/internal/adapters/senders"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// memWorldStore keeps the world as JSON in memory so every Open rebuilds
// the host from a serialized copy, like the file store does
type memWorldStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

type memState struct {
	System *models.System    `json:"system"`
	World  *chain.WorldState `json:"world"`
}

func (m *memWorldStore) Exists(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data != nil, nil
}

func (m *memWorldStore) Load(ctx context.Context) (*models.System, *chain.WorldState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil, domain.ErrStateNotInitialized
	}
	var st memState
	if err := json.Unmarshal(m.data, &st); err != nil {
		return nil, nil, err
	}
	return st.System, st.World, nil
}

func (m *memWorldStore) Save(ctx context.Context, sys *models.System, ws *chain.WorldState) error {
	data, err := json.Marshal(memState{System: sys, World: ws})
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.saves++
	return nil
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// MockProposalSelector is a mock implementation of ProposalSelector
type MockProposalSelector struct {
	mock.Mock
}

func (m *MockProposalSelector) SelectProposal(ctx context.Context, candidates []*usecase.ProposalView) (*usecase.ProposalView, error) {
	args := m.Called(ctx, candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ProposalView), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) {}

func (m *MockProgressSink) Error(message string) {
	m.errors = append(m.errors, message)
}

// fakeScenarioLoader serves scenarios from memory
type fakeScenarioLoader map[string]*models.Scenario

func (f fakeScenarioLoader) LoadScenario(ctx context.Context, path string) (*models.Scenario, error) {
	sc, ok := f[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sc, nil
}

// fakeConfigWriter records the deployment file init asks for
type fakeConfigWriter struct {
	path string
}

func (f *fakeConfigWriter) WriteDeployConfig(path string, cfg *config.DeployConfig) (bool, error) {
	f.path = path
	return true, nil
}

// testEnv wires every use case to an in-memory world, the real keyring
// and the real ABI codec
type testEnv struct {
	cfg       *config.RuntimeConfig
	store     *memWorldStore
	keyring   *senders.Keyring
	confirmer *MockConfirmer
	selector  *MockProposalSelector
	sink      *MockProgressSink
	scenarios fakeScenarioLoader
	writer    *fakeConfigWriter

	initSystem *usecase.InitSystem
	chain      *usecase.ManageChain
	token      *usecase.ManageToken
	delegate   *usecase.DelegateVotes
	votes      *usecase.ShowVotes
	propose    *usecase.ProposeProposal
	vote       *usecase.CastVote
	manage     *usecase.ManageProposal
	list       *usecase.ListProposals
	show       *usecase.ShowProposal
	settings   *usecase.ShowSettings
	setParam   *usecase.SetParameter
	auction    *usecase.ShowAuction
	bid        *usecase.PlaceBid
	house      *usecase.ManageAuction
	events     *usecase.ListEvents
	scenario   *usecase.RunScenario
}

type noopExporter struct{}

func (noopExporter) Export(w io.Writer, records []usecase.EventRecord, format usecase.EventFormat) error {
	return json.NewEncoder(w).Encode(records)
}

func newTestEnv(t *testing.T, deploy *config.DeployConfig) *testEnv {
	t.Helper()
	if deploy == nil {
		deploy = config.DefaultDeployConfig()
	}
	cfg := &config.RuntimeConfig{
		ProjectRoot:    t.TempDir(),
		DataDir:        ".rsoc",
		NonInteractive: true,
		Deploy:         deploy,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	keyring, err := senders.NewKeyring(cfg)
	require.NoError(t, err)
	codec := abi.NewCodec(log)

	e := &testEnv{
		cfg:       cfg,
		store:     &memWorldStore{},
		keyring:   keyring,
		confirmer: &MockConfirmer{},
		selector:  &MockProposalSelector{},
		sink:      &MockProgressSink{},
		scenarios: fakeScenarioLoader{},
		writer:    &fakeConfigWriter{},
	}
	world := usecase.NewWorld(e.store, keyring, log)

	e.initSystem = usecase.NewInitSystem(cfg, e.store, keyring, e.writer, log, e.sink)
	e.chain = usecase.NewManageChain(world, keyring)
	e.token = usecase.NewManageToken(world)
	e.delegate = usecase.NewDelegateVotes(world, keyring)
	e.votes = usecase.NewShowVotes(world)
	e.propose = usecase.NewProposeProposal(world, codec)
	e.vote = usecase.NewCastVote(world, keyring, codec)
	e.manage = usecase.NewManageProposal(world, cfg, e.confirmer, codec)
	e.list = usecase.NewListProposals(world, codec)
	e.show = usecase.NewShowProposal(world, codec, e.selector)
	e.settings = usecase.NewShowSettings(world)
	e.setParam = usecase.NewSetParameter(world, cfg)
	e.auction = usecase.NewShowAuction(world)
	e.bid = usecase.NewPlaceBid(world)
	e.house = usecase.NewManageAuction(world)
	e.events = usecase.NewListEvents(world, codec, noopExporter{})
	e.scenario = usecase.NewRunScenario(world, e.scenarios, codec, log, e.sink)
	return e
}

// deployed returns an environment with the system already deployed
func deployed(t *testing.T, deploy *config.DeployConfig) *testEnv {
	t.Helper()
	e := newTestEnv(t, deploy)
	_, err := e.initSystem.Run(context.Background(), usecase.InitSystemParams{})
	require.NoError(t, err)
	return e
}

func (e *testEnv) mintTo(t *testing.T, to string, n int) {
	t.Helper()
	for range n {
		_, err := e.token.Run(context.Background(), usecase.ManageTokenParams{Operation: usecase.TokenMint, To: to})
		require.NoError(t, err)
	}
}

func (e *testEnv) mine(t *testing.T, blocks uint64) {
	t.Helper()
	_, err := e.chain.Run(context.Background(), usecase.ManageChainParams{Operation: usecase.ChainMine, Blocks: blocks})
	require.NoError(t, err)
}

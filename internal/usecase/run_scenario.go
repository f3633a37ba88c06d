package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts"
	"github.com/trebuchet-org/rarity-society/internal/contracts/receiver"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

// RunScenarioParams contains parameters for running a scenario file
type RunScenarioParams struct {
	Path string
	// DryRun runs the scenario without saving the world
	DryRun bool
}

// StepResult is the outcome of one scenario step
type StepResult struct {
	Index       int             `json:"index"`
	Description string          `json:"description"`
	Kind        models.StepKind `json:"kind"`
	Block       uint64          `json:"block"`
	Time        uint64          `json:"time"`
	GasUsed     uint64          `json:"gasUsed,omitempty"`
	Reverted    string          `json:"reverted,omitempty"`
	Address     *common.Address `json:"address,omitempty"`
	Events      []string        `json:"events,omitempty"`
}

// RunScenarioResult contains every step that ran
type RunScenarioResult struct {
	Name   string       `json:"name"`
	DryRun bool         `json:"dryRun"`
	Steps  []StepResult `json:"steps"`
}

// RunScenario replays a scripted sequence of calls and host operations
// against the world
type RunScenario struct {
	world   *World
	loader  ScenarioLoader
	encoder CallEncoder
	log     *slog.Logger
	sink    ProgressSink
}

// NewRunScenario creates a new RunScenario use case
func NewRunScenario(world *World, loader ScenarioLoader, encoder CallEncoder, log *slog.Logger, sink ProgressSink) *RunScenario {
	return &RunScenario{
		world:   world,
		loader:  loader,
		encoder: encoder,
		log:     log.With("component", "scenario"),
		sink:    sink,
	}
}

// Run executes the scenario. It stops at the first failing step; the
// steps before it stay applied unless this is a dry run.
func (uc *RunScenario) Run(ctx context.Context, params RunScenarioParams) (*RunScenarioResult, error) {
	sc, err := uc.loader.LoadScenario(ctx, params.Path)
	if err != nil {
		return nil, err
	}
	for i := range sc.Steps {
		if _, err := sc.Steps[i].Kind(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	result := &RunScenarioResult{Name: sc.Name, DryRun: params.DryRun}
	run := func(s *Session) error {
		for i := range sc.Steps {
			step := &sc.Steps[i]
			uc.sink.OnProgress(ctx, ProgressEvent{
				Stage:   "scenario",
				Current: i + 1,
				Total:   len(sc.Steps),
				Message: step.Describe(),
				Spinner: true,
			})
			res, err := uc.step(ctx, s, step)
			if err != nil {
				return fmt.Errorf("step %d (%s): %w", i+1, step.Describe(), err)
			}
			res.Index = i + 1
			result.Steps = append(result.Steps, *res)
			uc.log.Debug("step done", "index", i+1, "kind", res.Kind, "block", res.Block)
		}
		return nil
	}

	if params.DryRun {
		err = uc.world.View(ctx, run)
	} else {
		err = uc.world.Update(ctx, run)
	}
	return result, err
}

func (uc *RunScenario) step(ctx context.Context, s *Session, step *models.ScenarioStep) (*StepResult, error) {
	kind, _ := step.Kind()
	res := &StepResult{Description: step.Describe(), Kind: kind}
	defer func() {
		res.Block, res.Time = s.Host.BlockNumber(), s.Host.Time()
	}()

	switch kind {
	case models.StepMine:
		s.Host.Mine(step.Mine)
	case models.StepWarp:
		d, err := time.ParseDuration(step.Warp)
		if err != nil || d < time.Second {
			return nil, fmt.Errorf("invalid warp %q: want a duration of at least 1s", step.Warp)
		}
		s.Host.IncreaseTime(uint64(d / time.Second))
	case models.StepFund:
		addr, err := s.Resolve(step.Fund)
		if err != nil {
			return nil, err
		}
		if step.Value == "" {
			return nil, fmt.Errorf("fund needs a value")
		}
		amount, err := domain.ParseAmount(step.Value)
		if err != nil {
			return nil, err
		}
		s.Host.Fund(addr, amount)
	case models.StepDeploy:
		addr, err := uc.deploy(ctx, s, step)
		if err != nil {
			return nil, err
		}
		res.Address = &addr
	case models.StepCall:
		rcpt, err := uc.call(ctx, s, step)
		if rcpt != nil {
			res.GasUsed = rcpt.GasUsed
			for _, l := range rcpt.Logs {
				res.Events = append(res.Events, l.Event.String())
			}
		}
		if step.ExpectRevert != "" {
			reason, reverted := domain.RevertReason(err)
			if !reverted {
				if err != nil {
					return nil, err
				}
				return nil, fmt.Errorf("expected revert %q but the call succeeded", step.ExpectRevert)
			}
			if !strings.Contains(reason, step.ExpectRevert) {
				return nil, fmt.Errorf("expected revert %q, got %q", step.ExpectRevert, reason)
			}
			res.Reverted = reason
			return res, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (uc *RunScenario) deploy(ctx context.Context, s *Session, step *models.ScenarioStep) (common.Address, error) {
	var create func(addr common.Address) chain.Contract
	switch strings.ToLower(step.Deploy) {
	case strings.ToLower(receiver.GasBurnerKind), "gas-burner":
		create = receiver.NewGasBurner
	case strings.ToLower(receiver.ReverterKind):
		create = receiver.NewReverter
	default:
		return common.Address{}, fmt.Errorf("unknown fixture %q (expected %s or %s)", step.Deploy, receiver.GasBurnerKind, receiver.ReverterKind)
	}
	if step.As == "" {
		return common.Address{}, fmt.Errorf("deploy needs an alias in 'as'")
	}
	if _, err := s.Resolve(step.As); err == nil {
		return common.Address{}, fmt.Errorf("alias %q is already taken: %w", step.As, domain.ErrAlreadyExists)
	}

	from, err := s.Sender(step.From, "deployer")
	if err != nil {
		return common.Address{}, err
	}
	addr, _, err := s.Host.Deploy(ctx, from, func(env *chain.Env) (chain.Contract, error) {
		return create(env.Self()), nil
	})
	if err != nil {
		return common.Address{}, err
	}
	if s.System.Fixtures == nil {
		s.System.Fixtures = make(map[string]common.Address)
	}
	s.System.Fixtures[step.As] = addr
	return addr, nil
}

// call sends a contract method call. A step sent from a fixture is relayed
// through the fixture's forward method by the deployer, so the fixture is
// the caller the target sees.
func (uc *RunScenario) call(ctx context.Context, s *Session, step *models.ScenarioStep) (*chain.Receipt, error) {
	contract, method, ok := strings.Cut(step.Call, ".")
	if !ok || contract == "" || method == "" {
		return nil, fmt.Errorf("call %q must look like <contract>.<method>", step.Call)
	}
	to, err := s.Resolve(contract)
	if err != nil {
		return nil, err
	}
	c, ok := s.Host.Contract(to)
	if !ok {
		return nil, fmt.Errorf("%s: %w", contract, domain.ErrNoCode)
	}
	abiJSON, err := contracts.ABI(c.Kind())
	if err != nil {
		return nil, err
	}
	args, err := resolveArgs(s, step.Args)
	if err != nil {
		return nil, err
	}
	data, err := uc.encoder.EncodeMethod(abiJSON, method, args)
	if err != nil {
		return nil, err
	}
	value, err := domain.ParseAmount(step.Value)
	if err != nil {
		return nil, err
	}

	tx := chain.Tx{To: to, Value: value, Data: data}
	if fixture, ok := s.System.Fixtures[step.From]; ok {
		if tx.Data, err = receiver.Pack(to, data); err != nil {
			return nil, err
		}
		tx.To = fixture
		if tx.From, err = s.Sender("", "deployer"); err != nil {
			return nil, err
		}
	} else if tx.From, err = s.Sender(step.From, "deployer"); err != nil {
		return nil, err
	}
	return s.Host.Transact(ctx, tx, nil)
}

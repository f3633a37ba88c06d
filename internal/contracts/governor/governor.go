// Package governor implements the Rarity Society DAO: proposals, voting
// against the token's checkpointed ledger, and execution through the
// timelock.
package governor

import (
	"encoding/json"
	"maps"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/eip712"
	"github.com/trebuchet-org/rarity-society/internal/contracts/timelock"
	"github.com/trebuchet-org/rarity-society/internal/contracts/token"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

const (
	Kind = "RaritySocietyDAO"
	Name = "Rarity Society DAO"

	MinProposalThreshold    uint64 = 1
	MaxProposalThresholdBPS uint64 = 1000

	MinVotingPeriod uint64 = 5760
	MaxVotingPeriod uint64 = 80640
	MinVotingDelay  uint64 = 1
	MaxVotingDelay  uint64 = 40320

	MinQuorumVotesBPS uint64 = 200
	MaxQuorumVotesBPS uint64 = 2000

	ProposalMaxOperations = 10
)

var (
	ErrAlreadyInitialized  = domain.Revert("Initializable: contract is already initialized")
	ErrInvalidToken        = domain.Revert("invalid governance token address")
	ErrInvalidTimelock     = domain.Revert("invalid timelock address")
	ErrInvalidVotingPeriod = domain.Revert("invalid voting period")
	ErrInvalidVotingDelay  = domain.Revert("invalid voting delay")
	ErrInvalidQuorum       = domain.Revert("invalid quorum votes threshold")
	ErrInvalidQuorumSet    = domain.Revert("invalid quorum votes threshold set")
	ErrInvalidThreshold    = domain.Revert("invalid proposal threshold")
	ErrAdminOnly           = domain.Revert("admin only")
	ErrPendingAdminOnly    = domain.Revert("pending admin only")
	ErrVetoerOnly          = domain.Revert("vetoer only")
	ErrNotInitialized      = domain.Revert("governor not initialized")
	ErrInvalidProposalID   = domain.Revert("Invalid proposal ID")
	ErrBelowThreshold      = domain.Revert("proposer votes below proposal threshold")
	ErrArityMismatch       = domain.Revert("proposal function arity mismatch")
	ErrNoActions           = domain.Revert("actions not provided")
	ErrTooManyActions      = domain.Revert("too many actions")
	ErrPendingProposal     = domain.Revert("One proposal per proposer - pending proposal already found")
	ErrActiveProposal      = domain.Revert("One proposal per proposer - active proposal already found")
	ErrVotingClosed        = domain.Revert("voting is closed")
	ErrInvalidVoteType     = domain.Revert("invalid vote type")
	ErrAlreadyVoted        = domain.Revert("voter already voted")
	ErrInvalidSignature    = domain.Revert("invalid signature")
	ErrNotSucceeded        = domain.Revert("proposal queueable only if succeeded")
	ErrIdenticalQueued     = domain.Revert("identical proposal already queued at eta")
	ErrNotQueued           = domain.Revert("proposal can only be executed if queued")
	ErrCancelExecuted      = domain.Revert("proposal already executed")
	ErrCancelNotAllowed    = domain.Revert("only proposer can cancel unless their votes drop below proposal threshold")
	ErrVetoExecuted        = domain.Revert("cannot veto executed proposal")
)

// Params are the tunable governance parameters
type Params struct {
	VotingPeriod      uint64 `json:"votingPeriod"`
	VotingDelay       uint64 `json:"votingDelay"`
	ProposalThreshold uint64 `json:"proposalThreshold"`
	QuorumVotesBPS    uint64 `json:"quorumVotesBPS"`
}

// State is the governor's storage
type State struct {
	Initialized  bool           `json:"initialized"`
	Admin        common.Address `json:"admin"`
	PendingAdmin common.Address `json:"pendingAdmin"`
	Vetoer       common.Address `json:"vetoer"`
	Timelock     common.Address `json:"timelock"`
	Token        common.Address `json:"token"`
	Params

	ProposalCount     uint64                                       `json:"proposalCount"`
	Proposals         map[uint64]*models.Proposal                  `json:"proposals"`
	Receipts          map[uint64]map[common.Address]models.Receipt `json:"receipts"`
	LatestProposalIDs map[common.Address]uint64                    `json:"latestProposalIds"`
}

func newState() *State {
	return &State{
		Proposals:         make(map[uint64]*models.Proposal),
		Receipts:          make(map[uint64]map[common.Address]models.Receipt),
		LatestProposalIDs: make(map[common.Address]uint64),
	}
}

func (s *State) clone() *State {
	c := *s
	c.Proposals = make(map[uint64]*models.Proposal, len(s.Proposals))
	for id, p := range s.Proposals {
		c.Proposals[id] = p.Clone()
	}
	c.Receipts = make(map[uint64]map[common.Address]models.Receipt, len(s.Receipts))
	for id, r := range s.Receipts {
		c.Receipts[id] = maps.Clone(r)
	}
	c.LatestProposalIDs = maps.Clone(s.LatestProposalIDs)
	return &c
}

// Governor is a deployed DAO contract
type Governor struct {
	address common.Address
	st      *State
}

var _ chain.Contract = (*Governor)(nil)

// Empty allocates a governor at addr for state import
func Empty(addr common.Address) chain.Contract {
	return &Governor{address: addr, st: newState()}
}

// Deploy creates an uninitialized governor. Its address is usually handed
// to the timelock as admin before Initialize runs.
func Deploy(env *chain.Env) (*Governor, error) {
	return &Governor{address: env.Self(), st: newState()}, nil
}

func (g *Governor) Kind() string            { return Kind }
func (g *Governor) Address() common.Address { return g.address }

func (g *Governor) Snapshot() any        { return g.st.clone() }
func (g *Governor) Restore(snapshot any) { g.st = snapshot.(*State).clone() }

func (g *Governor) Decode(raw json.RawMessage) error {
	st := newState()
	if err := json.Unmarshal(raw, st); err != nil {
		return err
	}
	g.st = st
	return nil
}

func (g *Governor) Handle(env *chain.Env, input []byte) ([]byte, error) {
	return dispatcher.Dispatch(g, env, input)
}

func (g *Governor) Admin() common.Address        { return g.st.Admin }
func (g *Governor) PendingAdmin() common.Address { return g.st.PendingAdmin }
func (g *Governor) Vetoer() common.Address       { return g.st.Vetoer }
func (g *Governor) Timelock() common.Address     { return g.st.Timelock }
func (g *Governor) Token() common.Address        { return g.st.Token }
func (g *Governor) Params() Params               { return g.st.Params }
func (g *Governor) ProposalCount() uint64        { return g.st.ProposalCount }

// LatestProposalID is the id of the proposer's most recent proposal, or 0
func (g *Governor) LatestProposalID(proposer common.Address) uint64 {
	return g.st.LatestProposalIDs[proposer]
}

// Domain is the signing domain ballots are bound to
func (g *Governor) Domain(chainID uint64) eip712.Domain {
	return eip712.Domain{Name: Name, ChainID: chainID, Contract: g.address}
}

// Initialize wires the governor to its token and timelock and sets the
// initial parameters. It can run once.
func (g *Governor) Initialize(env *chain.Env, tl, tok, admin, vetoer common.Address, p Params) error {
	if g.st.Initialized {
		return ErrAlreadyInitialized
	}
	if tl == (common.Address{}) {
		return ErrInvalidTimelock
	}
	if tok == (common.Address{}) {
		return ErrInvalidToken
	}
	if p.VotingPeriod < MinVotingPeriod || p.VotingPeriod > MaxVotingPeriod {
		return ErrInvalidVotingPeriod
	}
	if p.VotingDelay < MinVotingDelay || p.VotingDelay > MaxVotingDelay {
		return ErrInvalidVotingDelay
	}
	if p.QuorumVotesBPS < MinQuorumVotesBPS || p.QuorumVotesBPS > MaxQuorumVotesBPS {
		return ErrInvalidQuorum
	}

	g.st.Initialized = true
	g.st.Timelock = tl
	g.st.Token = tok
	ceiling, err := g.MaxProposalThreshold(env)
	if err != nil {
		return err
	}
	if p.ProposalThreshold < MinProposalThreshold || p.ProposalThreshold > ceiling {
		return ErrInvalidThreshold
	}
	g.st.Admin = admin
	g.st.Vetoer = vetoer
	g.st.Params = p
	if err := env.UseGas(8 * chain.GasStore); err != nil {
		return err
	}

	for _, ev := range []domain.Event{
		&domain.VotingPeriodSet{ParameterChange: domain.ParameterChange{New: p.VotingPeriod}},
		&domain.VotingDelaySet{ParameterChange: domain.ParameterChange{New: p.VotingDelay}},
		&domain.ProposalThresholdSet{ParameterChange: domain.ParameterChange{New: p.ProposalThreshold}},
		&domain.QuorumVotesBPSSet{ParameterChange: domain.ParameterChange{New: p.QuorumVotesBPS}},
	} {
		if err := env.Emit(ev); err != nil {
			return err
		}
	}
	return nil
}

func (g *Governor) token(v chain.View) (*token.Token, error) {
	if !g.st.Initialized {
		return nil, ErrNotInitialized
	}
	c, ok := v.Contract(g.st.Token)
	if !ok {
		return nil, ErrInvalidToken
	}
	t, ok := c.(*token.Token)
	if !ok {
		return nil, ErrInvalidToken
	}
	return t, nil
}

func (g *Governor) timelock(v chain.View) (*timelock.Timelock, error) {
	if !g.st.Initialized {
		return nil, ErrNotInitialized
	}
	c, ok := v.Contract(g.st.Timelock)
	if !ok {
		return nil, ErrInvalidTimelock
	}
	t, ok := c.(*timelock.Timelock)
	if !ok {
		return nil, ErrInvalidTimelock
	}
	return t, nil
}

// bps is floor(n * basisPoints / 10000), at least 1
func bps(n, basisPoints uint64) uint64 {
	v := n * basisPoints / 10000
	if v < 1 {
		return 1
	}
	return v
}

// MaxProposalThreshold is the highest threshold the current supply allows
func (g *Governor) MaxProposalThreshold(v chain.View) (uint64, error) {
	t, err := g.token(v)
	if err != nil {
		return 0, err
	}
	return bps(t.TotalSupply(), MaxProposalThresholdBPS), nil
}

// QuorumVotes is the quorum a proposal created now would be fixed at
func (g *Governor) QuorumVotes(v chain.View) (uint64, error) {
	t, err := g.token(v)
	if err != nil {
		return 0, err
	}
	return bps(t.TotalSupply(), g.st.QuorumVotesBPS), nil
}

func (g *Governor) onlyAdmin(env *chain.Env) error {
	if env.Caller() != g.st.Admin {
		return ErrAdminOnly
	}
	return env.UseGas(chain.GasStore)
}

// SetVotingDelay changes the blocks between proposal and voting start
func (g *Governor) SetVotingDelay(env *chain.Env, delay uint64) error {
	if err := g.onlyAdmin(env); err != nil {
		return err
	}
	if delay < MinVotingDelay || delay > MaxVotingDelay {
		return ErrInvalidVotingDelay
	}
	old := g.st.VotingDelay
	g.st.VotingDelay = delay
	return env.Emit(&domain.VotingDelaySet{ParameterChange: domain.ParameterChange{Old: old, New: delay}})
}

// SetVotingPeriod changes the length of the voting window in blocks
func (g *Governor) SetVotingPeriod(env *chain.Env, period uint64) error {
	if err := g.onlyAdmin(env); err != nil {
		return err
	}
	if period < MinVotingPeriod || period > MaxVotingPeriod {
		return ErrInvalidVotingPeriod
	}
	old := g.st.VotingPeriod
	g.st.VotingPeriod = period
	return env.Emit(&domain.VotingPeriodSet{ParameterChange: domain.ParameterChange{Old: old, New: period}})
}

// SetProposalThreshold changes the votes needed to propose. The ceiling
// moves with the token supply.
func (g *Governor) SetProposalThreshold(env *chain.Env, threshold uint64) error {
	if err := g.onlyAdmin(env); err != nil {
		return err
	}
	ceiling, err := g.MaxProposalThreshold(env)
	if err != nil {
		return err
	}
	if threshold < MinProposalThreshold || threshold > ceiling {
		return ErrInvalidThreshold
	}
	old := g.st.ProposalThreshold
	g.st.ProposalThreshold = threshold
	return env.Emit(&domain.ProposalThresholdSet{ParameterChange: domain.ParameterChange{Old: old, New: threshold}})
}

// SetQuorumVotesBPS changes the share of supply that forms a quorum
func (g *Governor) SetQuorumVotesBPS(env *chain.Env, quorumBPS uint64) error {
	if err := g.onlyAdmin(env); err != nil {
		return err
	}
	if quorumBPS < MinQuorumVotesBPS || quorumBPS > MaxQuorumVotesBPS {
		return ErrInvalidQuorumSet
	}
	old := g.st.QuorumVotesBPS
	g.st.QuorumVotesBPS = quorumBPS
	return env.Emit(&domain.QuorumVotesBPSSet{ParameterChange: domain.ParameterChange{Old: old, New: quorumBPS}})
}

// SetPendingAdmin nominates the next admin
func (g *Governor) SetPendingAdmin(env *chain.Env, pending common.Address) error {
	if err := g.onlyAdmin(env); err != nil {
		return err
	}
	old := g.st.PendingAdmin
	g.st.PendingAdmin = pending
	return env.Emit(&domain.NewPendingAdmin{OldPendingAdmin: old, NewPendingAdmin: pending})
}

// AcceptAdmin completes an admin transfer
func (g *Governor) AcceptAdmin(env *chain.Env) error {
	if env.Caller() != g.st.PendingAdmin || env.Caller() == (common.Address{}) {
		return ErrPendingAdminOnly
	}
	old, pending := g.st.Admin, g.st.PendingAdmin
	g.st.Admin = pending
	g.st.PendingAdmin = common.Address{}
	if err := env.UseGas(2 * chain.GasStore); err != nil {
		return err
	}
	if err := env.Emit(&domain.NewAdmin{OldAdmin: old, NewAdmin: pending}); err != nil {
		return err
	}
	return env.Emit(&domain.NewPendingAdmin{OldPendingAdmin: pending})
}

// SetVetoer hands veto power to another account
func (g *Governor) SetVetoer(env *chain.Env, vetoer common.Address) error {
	if env.Caller() != g.st.Vetoer {
		return ErrVetoerOnly
	}
	old := g.st.Vetoer
	g.st.Vetoer = vetoer
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.NewVetoer{OldVetoer: old, NewVetoer: vetoer})
}

// RevokeVetoPower burns veto power permanently
func (g *Governor) RevokeVetoPower(env *chain.Env) error {
	return g.SetVetoer(env, common.Address{})
}

package domain

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Event is implemented by every event a contract can emit
type Event interface {
	ContractEventName() string
	String() string
}

// Token events

type Transfer struct {
	From    common.Address `json:"from" abi:"indexed"`
	To      common.Address `json:"to" abi:"indexed"`
	TokenID uint64         `json:"tokenId" abi:"indexed"`
}

func (Transfer) ContractEventName() string { return "Transfer" }

func (e *Transfer) String() string {
	return fmt.Sprintf("Transfer: from=%s to=%s tokenId=%d", short(e.From), short(e.To), e.TokenID)
}

type ApprovalForAll struct {
	Owner    common.Address `json:"owner" abi:"indexed"`
	Operator common.Address `json:"operator" abi:"indexed"`
	Approved bool           `json:"approved"`
}

func (ApprovalForAll) ContractEventName() string { return "ApprovalForAll" }

func (e *ApprovalForAll) String() string {
	return fmt.Sprintf("ApprovalForAll: owner=%s operator=%s approved=%t", short(e.Owner), short(e.Operator), e.Approved)
}

type MinterUpdated struct {
	Minter common.Address `json:"minter"`
}

func (MinterUpdated) ContractEventName() string { return "MinterUpdated" }

func (e *MinterUpdated) String() string {
	return fmt.Sprintf("MinterUpdated: minter=%s", short(e.Minter))
}

type DelegateChanged struct {
	Delegator    common.Address `json:"delegator" abi:"indexed"`
	FromDelegate common.Address `json:"fromDelegate" abi:"indexed"`
	ToDelegate   common.Address `json:"toDelegate" abi:"indexed"`
}

func (DelegateChanged) ContractEventName() string { return "DelegateChanged" }

func (e *DelegateChanged) String() string {
	return fmt.Sprintf("DelegateChanged: delegator=%s from=%s to=%s", short(e.Delegator), short(e.FromDelegate), short(e.ToDelegate))
}

type DelegateVotesChanged struct {
	Delegate        common.Address `json:"delegate" abi:"indexed"`
	PreviousBalance uint64         `json:"previousBalance"`
	NewBalance      uint64         `json:"newBalance"`
}

func (DelegateVotesChanged) ContractEventName() string { return "DelegateVotesChanged" }

func (e *DelegateVotesChanged) String() string {
	return fmt.Sprintf("DelegateVotesChanged: delegate=%s %d -> %d", short(e.Delegate), e.PreviousBalance, e.NewBalance)
}

// Shared admin events (timelock and governor)

type NewAdmin struct {
	OldAdmin common.Address `json:"oldAdmin"`
	NewAdmin common.Address `json:"newAdmin"`
}

func (NewAdmin) ContractEventName() string { return "NewAdmin" }

func (e *NewAdmin) String() string {
	return fmt.Sprintf("NewAdmin: %s -> %s", short(e.OldAdmin), short(e.NewAdmin))
}

type NewPendingAdmin struct {
	OldPendingAdmin common.Address `json:"oldPendingAdmin"`
	NewPendingAdmin common.Address `json:"newPendingAdmin"`
}

func (NewPendingAdmin) ContractEventName() string { return "NewPendingAdmin" }

func (e *NewPendingAdmin) String() string {
	return fmt.Sprintf("NewPendingAdmin: %s -> %s", short(e.OldPendingAdmin), short(e.NewPendingAdmin))
}

// Timelock events

type NewDelay struct {
	OldDelay uint64 `json:"oldDelay"`
	NewDelay uint64 `json:"newDelay"`
}

func (NewDelay) ContractEventName() string { return "NewDelay" }

func (e *NewDelay) String() string {
	return fmt.Sprintf("NewDelay: %ds -> %ds", e.OldDelay, e.NewDelay)
}

// TimelockTransaction carries the full queued tuple; indexers need it
// because the hash alone can't be reversed.
type TimelockTransaction struct {
	TxHash    common.Hash    `json:"txHash" abi:"indexed"`
	Target    common.Address `json:"target" abi:"indexed"`
	Value     *uint256.Int   `json:"value"`
	Signature string         `json:"signature"`
	Data      []byte         `json:"data"`
	Eta       uint64         `json:"eta"`
}

type QueueTransaction struct{ TimelockTransaction }

func (QueueTransaction) ContractEventName() string { return "QueueTransaction" }

func (e *QueueTransaction) String() string { return e.describe(e.ContractEventName()) }

type CancelTransaction struct{ TimelockTransaction }

func (CancelTransaction) ContractEventName() string { return "CancelTransaction" }

func (e *CancelTransaction) String() string { return e.describe(e.ContractEventName()) }

type ExecuteTransaction struct{ TimelockTransaction }

func (ExecuteTransaction) ContractEventName() string { return "ExecuteTransaction" }

func (e *ExecuteTransaction) String() string { return e.describe(e.ContractEventName()) }

func (t *TimelockTransaction) describe(name string) string {
	return fmt.Sprintf("%s: txHash=%s target=%s value=%s signature=%q eta=%d",
		name, t.TxHash.Hex()[:10]+"...", short(t.Target), amount(t.Value), t.Signature, t.Eta)
}

// Governor events

type ProposalCreated struct {
	ID          uint64           `json:"id"`
	Proposer    common.Address   `json:"proposer"`
	Targets     []common.Address `json:"targets"`
	Values      []*uint256.Int   `json:"values"`
	Signatures  []string         `json:"signatures"`
	Calldatas   [][]byte         `json:"calldatas"`
	StartBlock  uint64           `json:"startBlock"`
	EndBlock    uint64           `json:"endBlock"`
	QuorumVotes uint64           `json:"quorumVotes"`
	Description string           `json:"description"`
}

func (ProposalCreated) ContractEventName() string { return "ProposalCreated" }

func (e *ProposalCreated) String() string {
	return fmt.Sprintf("ProposalCreated: id=%d proposer=%s actions=%d blocks=[%d,%d) quorum=%d",
		e.ID, short(e.Proposer), len(e.Targets), e.StartBlock, e.EndBlock, e.QuorumVotes)
}

type VoteCast struct {
	Voter      common.Address `json:"voter" abi:"indexed"`
	ProposalID uint64         `json:"proposalId"`
	Support    uint8          `json:"support"`
	Votes      uint64         `json:"votes"`
	Reason     string         `json:"reason"`
}

func (VoteCast) ContractEventName() string { return "VoteCast" }

func (e *VoteCast) String() string {
	return fmt.Sprintf("VoteCast: voter=%s proposal=%d support=%d votes=%d", short(e.Voter), e.ProposalID, e.Support, e.Votes)
}

type ProposalQueued struct {
	ID  uint64 `json:"id"`
	Eta uint64 `json:"eta"`
}

func (ProposalQueued) ContractEventName() string { return "ProposalQueued" }

func (e *ProposalQueued) String() string {
	return fmt.Sprintf("ProposalQueued: id=%d eta=%d", e.ID, e.Eta)
}

type ProposalExecuted struct {
	ID uint64 `json:"id"`
}

func (ProposalExecuted) ContractEventName() string { return "ProposalExecuted" }

func (e *ProposalExecuted) String() string { return fmt.Sprintf("ProposalExecuted: id=%d", e.ID) }

type ProposalCanceled struct {
	ID uint64 `json:"id"`
}

func (ProposalCanceled) ContractEventName() string { return "ProposalCanceled" }

func (e *ProposalCanceled) String() string { return fmt.Sprintf("ProposalCanceled: id=%d", e.ID) }

type ProposalVetoed struct {
	ID uint64 `json:"id"`
}

func (ProposalVetoed) ContractEventName() string { return "ProposalVetoed" }

func (e *ProposalVetoed) String() string { return fmt.Sprintf("ProposalVetoed: id=%d", e.ID) }

// ParameterChange is embedded by the governor's old/new setter events
type ParameterChange struct {
	Old uint64 `json:"old"`
	New uint64 `json:"new"`
}

type VotingDelaySet struct{ ParameterChange }

func (VotingDelaySet) ContractEventName() string { return "VotingDelaySet" }

func (e *VotingDelaySet) String() string { return e.describe(e.ContractEventName()) }

type VotingPeriodSet struct{ ParameterChange }

func (VotingPeriodSet) ContractEventName() string { return "VotingPeriodSet" }

func (e *VotingPeriodSet) String() string { return e.describe(e.ContractEventName()) }

type ProposalThresholdSet struct{ ParameterChange }

func (ProposalThresholdSet) ContractEventName() string { return "ProposalThresholdSet" }

func (e *ProposalThresholdSet) String() string { return e.describe(e.ContractEventName()) }

type QuorumVotesBPSSet struct{ ParameterChange }

func (QuorumVotesBPSSet) ContractEventName() string { return "QuorumVotesBPSSet" }

func (e *QuorumVotesBPSSet) String() string { return e.describe(e.ContractEventName()) }

func (p *ParameterChange) describe(name string) string {
	return fmt.Sprintf("%s: %d -> %d", name, p.Old, p.New)
}

type NewVetoer struct {
	OldVetoer common.Address `json:"oldVetoer"`
	NewVetoer common.Address `json:"newVetoer"`
}

func (NewVetoer) ContractEventName() string { return "NewVetoer" }

func (e *NewVetoer) String() string {
	return fmt.Sprintf("NewVetoer: %s -> %s", short(e.OldVetoer), short(e.NewVetoer))
}

// Auction house events

type AuctionCreated struct {
	TokenID   uint64 `json:"tokenId" abi:"indexed"`
	StartTime uint64 `json:"startTime"`
	EndTime   uint64 `json:"endTime"`
}

func (AuctionCreated) ContractEventName() string { return "AuctionCreated" }

func (e *AuctionCreated) String() string {
	return fmt.Sprintf("AuctionCreated: tokenId=%d start=%d end=%d", e.TokenID, e.StartTime, e.EndTime)
}

type AuctionBid struct {
	TokenID  uint64         `json:"tokenId" abi:"indexed"`
	Bidder   common.Address `json:"bidder"`
	Amount   *uint256.Int   `json:"amount"`
	Extended bool           `json:"extended"`
}

func (AuctionBid) ContractEventName() string { return "AuctionBid" }

func (e *AuctionBid) String() string {
	return fmt.Sprintf("AuctionBid: tokenId=%d bidder=%s amount=%s extended=%t", e.TokenID, short(e.Bidder), amount(e.Amount), e.Extended)
}

type AuctionExtended struct {
	TokenID uint64 `json:"tokenId" abi:"indexed"`
	EndTime uint64 `json:"endTime"`
}

func (AuctionExtended) ContractEventName() string { return "AuctionExtended" }

func (e *AuctionExtended) String() string {
	return fmt.Sprintf("AuctionExtended: tokenId=%d end=%d", e.TokenID, e.EndTime)
}

type AuctionSettled struct {
	TokenID uint64         `json:"tokenId" abi:"indexed"`
	Winner  common.Address `json:"winner"`
	Amount  *uint256.Int   `json:"amount"`
}

func (AuctionSettled) ContractEventName() string { return "AuctionSettled" }

func (e *AuctionSettled) String() string {
	return fmt.Sprintf("AuctionSettled: tokenId=%d winner=%s amount=%s", e.TokenID, short(e.Winner), amount(e.Amount))
}

type AuctionTreasurySplitSet struct {
	TreasurySplit uint64 `json:"treasurySplit"`
}

func (AuctionTreasurySplitSet) ContractEventName() string { return "AuctionTreasurySplitSet" }

func (e *AuctionTreasurySplitSet) String() string {
	return fmt.Sprintf("AuctionTreasurySplitSet: %d%%", e.TreasurySplit)
}

type AuctionTimeBufferSet struct {
	TimeBuffer uint64 `json:"timeBuffer"`
}

func (AuctionTimeBufferSet) ContractEventName() string { return "AuctionTimeBufferSet" }

func (e *AuctionTimeBufferSet) String() string {
	return fmt.Sprintf("AuctionTimeBufferSet: %ds", e.TimeBuffer)
}

type AuctionReservePriceSet struct {
	ReservePrice *uint256.Int `json:"reservePrice"`
}

func (AuctionReservePriceSet) ContractEventName() string { return "AuctionReservePriceSet" }

func (e *AuctionReservePriceSet) String() string {
	return fmt.Sprintf("AuctionReservePriceSet: %s", amount(e.ReservePrice))
}

type AuctionDurationSet struct {
	Duration uint64 `json:"duration"`
}

func (AuctionDurationSet) ContractEventName() string { return "AuctionDurationSet" }

func (e *AuctionDurationSet) String() string {
	return fmt.Sprintf("AuctionDurationSet: %ds", e.Duration)
}

type Paused struct {
	Account common.Address `json:"account"`
}

func (Paused) ContractEventName() string { return "Paused" }

func (e *Paused) String() string { return fmt.Sprintf("Paused: by=%s", short(e.Account)) }

type Unpaused struct {
	Account common.Address `json:"account"`
}

func (Unpaused) ContractEventName() string { return "Unpaused" }

func (e *Unpaused) String() string { return fmt.Sprintf("Unpaused: by=%s", short(e.Account)) }

type OwnershipTransferred struct {
	PreviousOwner common.Address `json:"previousOwner" abi:"indexed"`
	NewOwner      common.Address `json:"newOwner" abi:"indexed"`
}

func (OwnershipTransferred) ContractEventName() string { return "OwnershipTransferred" }

func (e *OwnershipTransferred) String() string {
	return fmt.Sprintf("OwnershipTransferred: %s -> %s", short(e.PreviousOwner), short(e.NewOwner))
}

// WETH events

type Deposit struct {
	Dst common.Address `json:"dst" abi:"indexed"`
	Wad *uint256.Int   `json:"wad"`
}

func (Deposit) ContractEventName() string { return "Deposit" }

func (e *Deposit) String() string { return fmt.Sprintf("Deposit: dst=%s wad=%s", short(e.Dst), amount(e.Wad)) }

type Withdrawal struct {
	Src common.Address `json:"src" abi:"indexed"`
	Wad *uint256.Int   `json:"wad"`
}

func (Withdrawal) ContractEventName() string { return "Withdrawal" }

func (e *Withdrawal) String() string {
	return fmt.Sprintf("Withdrawal: src=%s wad=%s", short(e.Src), amount(e.Wad))
}

// ERC20Transfer is the fungible Transfer event; it shares its on-chain name
// with the NFT Transfer but carries an amount instead of a token id.
type ERC20Transfer struct {
	Src common.Address `json:"src" abi:"indexed"`
	Dst common.Address `json:"dst" abi:"indexed"`
	Wad *uint256.Int   `json:"wad"`
}

func (ERC20Transfer) ContractEventName() string { return "Transfer" }

func (e *ERC20Transfer) String() string {
	return fmt.Sprintf("Transfer: src=%s dst=%s wad=%s", short(e.Src), short(e.Dst), amount(e.Wad))
}

// eventKinds maps a Go type name to its type for decoding persisted logs
var eventKinds = map[string]reflect.Type{}

func init() {
	for _, e := range []Event{
		&Transfer{}, &ApprovalForAll{}, &MinterUpdated{}, &DelegateChanged{}, &DelegateVotesChanged{},
		&NewAdmin{}, &NewPendingAdmin{}, &NewDelay{},
		&QueueTransaction{}, &CancelTransaction{}, &ExecuteTransaction{},
		&ProposalCreated{}, &VoteCast{}, &ProposalQueued{}, &ProposalExecuted{}, &ProposalCanceled{}, &ProposalVetoed{},
		&VotingDelaySet{}, &VotingPeriodSet{}, &ProposalThresholdSet{}, &QuorumVotesBPSSet{}, &NewVetoer{},
		&AuctionCreated{}, &AuctionBid{}, &AuctionExtended{}, &AuctionSettled{},
		&AuctionTreasurySplitSet{}, &AuctionTimeBufferSet{}, &AuctionReservePriceSet{}, &AuctionDurationSet{},
		&Paused{}, &Unpaused{}, &OwnershipTransferred{},
		&Deposit{}, &Withdrawal{}, &ERC20Transfer{},
	} {
		t := reflect.TypeOf(e).Elem()
		eventKinds[t.Name()] = t
	}
}

// EventKind returns the registry key of an event
func EventKind(e Event) string {
	t := reflect.TypeOf(e)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// NewEventOfKind allocates an empty event for the given registry key
func NewEventOfKind(kind string) (Event, error) {
	t, ok := eventKinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q: %w", kind, ErrNotFound)
	}
	return reflect.New(t).Interface().(Event), nil
}

// EventKinds lists every registered event kind in sorted order
func EventKinds() []string {
	kinds := make([]string, 0, len(eventKinds))
	for k := range eventKinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func short(a common.Address) string {
	if a == (common.Address{}) {
		return "0x0"
	}
	return a.Hex()[:10] + "..."
}

func amount(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/eip712"
)

// DelegateVotesParams contains parameters for delegating votes
type DelegateVotesParams struct {
	From      string
	Delegatee string
	// BySig signs a Delegation with From's key and has Relayer submit it
	BySig   bool
	Relayer string
	// Expiry is how long the signature stays valid
	Expiry time.Duration
}

// DelegateVotesResult contains the outcome of a delegation
type DelegateVotesResult struct {
	Delegator common.Address `json:"delegator"`
	Delegatee common.Address `json:"delegatee"`
	Signature string         `json:"signature,omitempty"`
	Votes     uint64         `json:"delegateeVotes"`
	Tx        *TxResult      `json:"tx"`
}

// DelegateVotes moves an account's voting power to a delegate, directly or
// through a signed message relayed by another account
type DelegateVotes struct {
	world   *World
	keyring Keyring
}

// NewDelegateVotes creates a new DelegateVotes use case
func NewDelegateVotes(world *World, keyring Keyring) *DelegateVotes {
	return &DelegateVotes{world: world, keyring: keyring}
}

// Run executes the delegation
func (uc *DelegateVotes) Run(ctx context.Context, params DelegateVotesParams) (*DelegateVotesResult, error) {
	result := &DelegateVotesResult{}
	err := uc.world.Update(ctx, func(s *Session) error {
		tok, err := s.Token()
		if err != nil {
			return err
		}
		delegator, err := s.Sender(params.From, "deployer")
		if err != nil {
			return err
		}
		delegatee := delegator
		if params.Delegatee != "" {
			if delegatee, err = s.Resolve(params.Delegatee); err != nil {
				return err
			}
		}
		result.Delegator, result.Delegatee = delegator, delegatee

		sender := delegator
		fn := func(env *chain.Env) error { return tok.Delegate(env, delegatee) }

		if params.BySig {
			if sender, err = s.Sender(params.Relayer, "deployer"); err != nil {
				return err
			}
			expiry := params.Expiry
			if expiry == 0 {
				expiry = time.Hour
			}
			msg := eip712.Delegation{
				Delegator: delegator,
				Delegatee: delegatee,
				Nonce:     tok.Nonces(delegator),
				Expiry:    s.Host.Time() + uint64(expiry/time.Second),
			}
			digest, err := msg.Hash(tok.Domain(s.Host.ChainID()))
			if err != nil {
				return err
			}
			raw, err := uc.keyring.SignDigest(delegator, digest)
			if err != nil {
				return fmt.Errorf("failed to sign delegation: %w", err)
			}
			sig, err := eip712.SplitSignature(raw)
			if err != nil {
				return err
			}
			result.Signature = hexutil.Encode(raw)
			fn = func(env *chain.Env) error {
				return tok.DelegateBySig(env, delegator, delegatee, msg.Expiry, sig)
			}
		}

		result.Tx, err = s.Send(ctx, sender, s.System.Token, nil, fn)
		result.Votes = tok.GetCurrentVotes(delegatee)
		return err
	})
	return result, err
}

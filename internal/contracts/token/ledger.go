package token

import (
	"math"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/eip712"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/models"
)

var (
	ErrNotYetDetermined  = domain.Revert("ERC721Checkpointable::getPriorVotes: not yet determined")
	ErrInvalidSignature  = domain.Revert("invalid signature")
	ErrSignatureExpired  = domain.Revert("ERC721Checkpointable::delegateBySig: signature expired")
	ErrBlockNumberTooBig = domain.Revert("value does not fit within 32 bits")
	ErrVotesUnderflow    = domain.Revert("ERC721Checkpointable::_moveDelegates: amount underflows")
)

// Delegates resolves who votes with an account's tokens
func (t *Token) Delegates(delegator common.Address) common.Address {
	return t.delegates(delegator)
}

func (t *Token) delegates(a common.Address) common.Address {
	if a == (common.Address{}) {
		return a
	}
	if d, ok := t.st.Delegates[a]; ok {
		return d
	}
	return a
}

// Nonces is the next delegateBySig nonce for an account
func (t *Token) Nonces(a common.Address) uint64 { return t.st.Nonces[a] }

// NumCheckpoints counts an account's checkpoints
func (t *Token) NumCheckpoints(a common.Address) uint32 {
	return uint32(len(t.st.Checkpoints[a]))
}

// Checkpoint returns one of an account's checkpoints. Out of range indices
// read as the zero checkpoint.
func (t *Token) Checkpoint(a common.Address, index uint32) models.Checkpoint {
	cps := t.st.Checkpoints[a]
	if int(index) >= len(cps) {
		return models.Checkpoint{}
	}
	return cps[index]
}

// GetCurrentVotes is the voting weight an account holds now
func (t *Token) GetCurrentVotes(a common.Address) uint64 {
	cps := t.st.Checkpoints[a]
	if len(cps) == 0 {
		return 0
	}
	return cps[len(cps)-1].Votes
}

// GetPriorVotes is the weight an account held at a settled block
func (t *Token) GetPriorVotes(r chain.Reader, a common.Address, block uint64) (uint64, error) {
	if block >= r.BlockNumber() {
		return 0, ErrNotYetDetermined
	}
	return t.VotesAt(a, block), nil
}

// VotesAt looks up the checkpoint in effect at block without requiring the
// block to be settled.
func (t *Token) VotesAt(a common.Address, block uint64) uint64 {
	cps := t.st.Checkpoints[a]
	// first checkpoint strictly after block
	i := sort.Search(len(cps), func(i int) bool { return uint64(cps[i].FromBlock) > block })
	if i == 0 {
		return 0
	}
	return cps[i-1].Votes
}

// Delegate assigns the caller's votes. The zero address means self.
func (t *Token) Delegate(env *chain.Env, delegatee common.Address) error {
	return t.delegate(env, env.Caller(), delegatee)
}

// Domain is the signing domain of this token on a chain
func (t *Token) Domain(chainID uint64) eip712.Domain {
	return eip712.Domain{Name: Name, ChainID: chainID, Contract: t.address}
}

// DelegateBySig delegates on behalf of a signer
func (t *Token) DelegateBySig(env *chain.Env, delegator, delegatee common.Address, expiry uint64, sig eip712.Signature) error {
	nonce := t.st.Nonces[delegator]
	digest, err := eip712.Delegation{
		Delegator: delegator,
		Delegatee: delegatee,
		Nonce:     nonce,
		Expiry:    expiry,
	}.Hash(t.Domain(env.ChainID()))
	if err != nil {
		return err
	}
	signer, err := eip712.Recover(digest, sig)
	if err != nil || signer != delegator || signer == (common.Address{}) {
		return ErrInvalidSignature
	}
	t.st.Nonces[delegator] = nonce + 1
	if env.Time() > expiry {
		return ErrSignatureExpired
	}
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return t.delegate(env, delegator, delegatee)
}

func (t *Token) delegate(env *chain.Env, delegator, delegatee common.Address) error {
	if delegatee == (common.Address{}) {
		delegatee = delegator
	}
	current := t.delegates(delegator)
	if delegatee == delegator {
		delete(t.st.Delegates, delegator)
	} else {
		t.st.Delegates[delegator] = delegatee
	}
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	if err := env.Emit(&domain.DelegateChanged{Delegator: delegator, FromDelegate: current, ToDelegate: delegatee}); err != nil {
		return err
	}
	return t.moveDelegates(env, current, delegatee, t.st.Balances[delegator])
}

func (t *Token) moveDelegates(env *chain.Env, src, dst common.Address, amount uint64) error {
	if src == dst || amount == 0 {
		return nil
	}
	if src != (common.Address{}) {
		old := t.GetCurrentVotes(src)
		if old < amount {
			return ErrVotesUnderflow
		}
		if err := t.writeCheckpoint(env, src, old, old-amount); err != nil {
			return err
		}
	}
	if dst != (common.Address{}) {
		old := t.GetCurrentVotes(dst)
		if err := t.writeCheckpoint(env, dst, old, old+amount); err != nil {
			return err
		}
	}
	return nil
}

// writeCheckpoint appends a checkpoint, or overwrites the last one when it
// was written in the current block.
func (t *Token) writeCheckpoint(env *chain.Env, delegatee common.Address, oldVotes, newVotes uint64) error {
	block := env.BlockNumber()
	if block > math.MaxUint32 {
		return ErrBlockNumberTooBig
	}
	cps := t.st.Checkpoints[delegatee]
	if n := len(cps); n > 0 && cps[n-1].FromBlock == uint32(block) {
		cps[n-1].Votes = newVotes
	} else {
		cps = append(cps, models.Checkpoint{FromBlock: uint32(block), Votes: newVotes})
	}
	t.st.Checkpoints[delegatee] = cps
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.DelegateVotesChanged{Delegate: delegatee, PreviousBalance: oldVotes, NewBalance: newVotes})
}

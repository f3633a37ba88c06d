package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// BalanceOf counts the tokens an account owns
func (t *Token) BalanceOf(owner common.Address) (uint64, error) {
	if owner == (common.Address{}) {
		return 0, ErrZeroAddressQuery
	}
	return t.st.Balances[owner], nil
}

// OwnerOf returns the holder of a token
func (t *Token) OwnerOf(id uint64) (common.Address, error) {
	owner, ok := t.st.Owners[id]
	if !ok {
		return common.Address{}, ErrNonexistentToken
	}
	return owner, nil
}

func (t *Token) IsApprovedForAll(owner, operator common.Address) bool {
	return t.st.Operators[owner][operator]
}

// Mint creates the next token and gives it to the minter
func (t *Token) Mint(env *chain.Env) (uint64, error) {
	caller := env.Caller()
	if caller != t.st.Minter && caller != t.st.Owner {
		return 0, ErrMinterOnly
	}
	return t.mint(env, t.st.Minter)
}

// MintTo creates the next token and gives it to an arbitrary account
func (t *Token) MintTo(env *chain.Env, to common.Address) (uint64, error) {
	caller := env.Caller()
	if caller != t.st.Minter && caller != t.st.Owner {
		return 0, ErrMinterOnly
	}
	return t.mint(env, to)
}

func (t *Token) mint(env *chain.Env, to common.Address) (uint64, error) {
	if to == (common.Address{}) {
		return 0, ErrMintToZero
	}
	if t.st.TotalSupply >= t.st.MaxSupply {
		return 0, ErrMaxSupply
	}
	id := t.st.NextID
	t.st.NextID++
	t.st.TotalSupply++
	t.st.Owners[id] = to
	t.st.Balances[to]++
	if err := env.UseGas(3 * chain.GasStore); err != nil {
		return 0, err
	}
	if err := env.Emit(&domain.Transfer{To: to, TokenID: id}); err != nil {
		return 0, err
	}
	return id, t.moveDelegates(env, common.Address{}, t.delegates(to), 1)
}

// Burn destroys a token the caller owns or operates
func (t *Token) Burn(env *chain.Env, id uint64) error {
	owner, err := t.OwnerOf(id)
	if err != nil {
		return err
	}
	if !t.canOperate(env.Caller(), owner) {
		return ErrNotOwnerOrApproved
	}
	delete(t.st.Owners, id)
	t.st.Balances[owner]--
	t.st.TotalSupply--
	if err := env.UseGas(3 * chain.GasStore); err != nil {
		return err
	}
	if err := env.Emit(&domain.Transfer{From: owner, TokenID: id}); err != nil {
		return err
	}
	return t.moveDelegates(env, t.delegates(owner), common.Address{}, 1)
}

// TransferFrom moves a token between accounts
func (t *Token) TransferFrom(env *chain.Env, from, to common.Address, id uint64) error {
	owner, err := t.OwnerOf(id)
	if err != nil {
		return err
	}
	if !t.canOperate(env.Caller(), owner) {
		return ErrNotOwnerOrApproved
	}
	if owner != from {
		return ErrIncorrectOwner
	}
	if to == (common.Address{}) {
		return ErrTransferToZero
	}
	t.st.Owners[id] = to
	t.st.Balances[from]--
	t.st.Balances[to]++
	if err := env.UseGas(3 * chain.GasStore); err != nil {
		return err
	}
	if err := env.Emit(&domain.Transfer{From: from, To: to, TokenID: id}); err != nil {
		return err
	}
	return t.moveDelegates(env, t.delegates(from), t.delegates(to), 1)
}

// SetApprovalForAll lets operator move all of the caller's tokens
func (t *Token) SetApprovalForAll(env *chain.Env, operator common.Address, approved bool) error {
	owner := env.Caller()
	if operator == owner {
		return ErrApproveToCaller
	}
	ops, ok := t.st.Operators[owner]
	if !ok {
		ops = make(map[common.Address]bool)
		t.st.Operators[owner] = ops
	}
	if approved {
		ops[operator] = true
	} else {
		delete(ops, operator)
	}
	if err := env.UseGas(chain.GasStore); err != nil {
		return err
	}
	return env.Emit(&domain.ApprovalForAll{Owner: owner, Operator: operator, Approved: approved})
}

func (t *Token) canOperate(caller, owner common.Address) bool {
	return caller == owner || t.IsApprovedForAll(owner, caller)
}

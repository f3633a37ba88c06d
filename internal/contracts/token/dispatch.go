package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/contracts/eip712"
)

var dispatcher = chain.NewDispatcher[*Token](ABI).
	Register("name", func(t *Token, _ *chain.Env, _ []any) ([]any, error) {
		return []any{Name}, nil
	}).
	Register("symbol", func(t *Token, _ *chain.Env, _ []any) ([]any, error) {
		return []any{Symbol}, nil
	}).
	Register("totalSupply", func(t *Token, _ *chain.Env, _ []any) ([]any, error) {
		return []any{chain.Big(t.TotalSupply())}, nil
	}).
	Register("maxSupply", func(t *Token, _ *chain.Env, _ []any) ([]any, error) {
		return []any{chain.Big(t.MaxSupply())}, nil
	}).
	Register("owner", func(t *Token, _ *chain.Env, _ []any) ([]any, error) {
		return []any{t.Owner()}, nil
	}).
	Register("minter", func(t *Token, _ *chain.Env, _ []any) ([]any, error) {
		return []any{t.Minter()}, nil
	}).
	Register("balanceOf", func(t *Token, _ *chain.Env, args []any) ([]any, error) {
		n, err := t.BalanceOf(args[0].(common.Address))
		return []any{chain.Big(n)}, err
	}).
	Register("ownerOf", func(t *Token, _ *chain.Env, args []any) ([]any, error) {
		id, err := chain.ArgUint64(args[0])
		if err != nil {
			return nil, err
		}
		owner, err := t.OwnerOf(id)
		return []any{owner}, err
	}).
	Register("isApprovedForAll", func(t *Token, _ *chain.Env, args []any) ([]any, error) {
		return []any{t.IsApprovedForAll(args[0].(common.Address), args[1].(common.Address))}, nil
	}).
	Register("mint", func(t *Token, env *chain.Env, _ []any) ([]any, error) {
		id, err := t.Mint(env)
		return []any{chain.Big(id)}, err
	}).
	Register("mintTo", func(t *Token, env *chain.Env, args []any) ([]any, error) {
		id, err := t.MintTo(env, args[0].(common.Address))
		return []any{chain.Big(id)}, err
	}).
	Register("burn", func(t *Token, env *chain.Env, args []any) ([]any, error) {
		id, err := chain.ArgUint64(args[0])
		if err != nil {
			return nil, err
		}
		return nil, t.Burn(env, id)
	}).
	Register("transferFrom", func(t *Token, env *chain.Env, args []any) ([]any, error) {
		id, err := chain.ArgUint64(args[2])
		if err != nil {
			return nil, err
		}
		return nil, t.TransferFrom(env, args[0].(common.Address), args[1].(common.Address), id)
	}).
	Register("setApprovalForAll", func(t *Token, env *chain.Env, args []any) ([]any, error) {
		return nil, t.SetApprovalForAll(env, args[0].(common.Address), args[1].(bool))
	}).
	Register("setMinter", func(t *Token, env *chain.Env, args []any) ([]any, error) {
		return nil, t.SetMinter(env, args[0].(common.Address))
	}).
	Register("transferOwnership", func(t *Token, env *chain.Env, args []any) ([]any, error) {
		return nil, t.TransferOwnership(env, args[0].(common.Address))
	}).
	Register("delegate", func(t *Token, env *chain.Env, args []any) ([]any, error) {
		return nil, t.Delegate(env, args[0].(common.Address))
	}).
	Register("delegateBySig", func(t *Token, env *chain.Env, args []any) ([]any, error) {
		expiry, err := chain.ArgUint64(args[2])
		if err != nil {
			return nil, err
		}
		sig := eip712.Signature{V: args[3].(uint8), R: args[4].([32]byte), S: args[5].([32]byte)}
		return nil, t.DelegateBySig(env, args[0].(common.Address), args[1].(common.Address), expiry, sig)
	}).
	Register("delegates", func(t *Token, _ *chain.Env, args []any) ([]any, error) {
		return []any{t.Delegates(args[0].(common.Address))}, nil
	}).
	Register("nonces", func(t *Token, _ *chain.Env, args []any) ([]any, error) {
		return []any{chain.Big(t.Nonces(args[0].(common.Address)))}, nil
	}).
	Register("getCurrentVotes", func(t *Token, _ *chain.Env, args []any) ([]any, error) {
		return []any{chain.Big(t.GetCurrentVotes(args[0].(common.Address)))}, nil
	}).
	Register("getPriorVotes", func(t *Token, env *chain.Env, args []any) ([]any, error) {
		block, err := chain.ArgUint64(args[1])
		if err != nil {
			return nil, err
		}
		votes, err := t.GetPriorVotes(env, args[0].(common.Address), block)
		return []any{chain.Big(votes)}, err
	}).
	Register("numCheckpoints", func(t *Token, _ *chain.Env, args []any) ([]any, error) {
		return []any{t.NumCheckpoints(args[0].(common.Address))}, nil
	}).
	Register("checkpoints", func(t *Token, _ *chain.Env, args []any) ([]any, error) {
		cp := t.Checkpoint(args[0].(common.Address), args[1].(uint32))
		return []any{cp.FromBlock, chain.Big(cp.Votes)}, nil
	})

// Pack encodes a call to one of the token's entry points
func Pack(method string, args ...any) ([]byte, error) {
	return dispatcher.Pack(method, args...)
}

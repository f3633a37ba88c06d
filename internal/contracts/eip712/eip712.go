// Package eip712 hashes and verifies the typed messages the token and
// governor accept in place of a transaction from the signer.
package eip712

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Version is the signing domain version of every contract
const Version = "1"

var domainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

var delegationType = []apitypes.Type{
	{Name: "delegator", Type: "address"},
	{Name: "delegatee", Type: "address"},
	{Name: "nonce", Type: "uint256"},
	{Name: "expiry", Type: "uint256"},
}

var ballotType = []apitypes.Type{
	{Name: "proposalId", Type: "uint256"},
	{Name: "support", Type: "uint8"},
}

// Domain identifies the contract a signature is bound to
type Domain struct {
	Name     string
	ChainID  uint64
	Contract common.Address
}

func (d Domain) typed() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              d.Name,
		Version:           Version,
		ChainId:           math.NewHexOrDecimal256(int64(d.ChainID)),
		VerifyingContract: d.Contract.Hex(),
	}
}

// Delegation is the message behind delegateBySig
type Delegation struct {
	Delegator common.Address
	Delegatee common.Address
	Nonce     uint64
	Expiry    uint64
}

// Ballot is the message behind castVoteBySig
type Ballot struct {
	ProposalID uint64
	Support    uint8
}

// Hash returns the digest that is signed for a Delegation
func (m Delegation) Hash(d Domain) (common.Hash, error) {
	return hash(apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType,
			"Delegation":   delegationType,
		},
		PrimaryType: "Delegation",
		Domain:      d.typed(),
		Message: apitypes.TypedDataMessage{
			"delegator": m.Delegator.Hex(),
			"delegatee": m.Delegatee.Hex(),
			"nonce":     strconv.FormatUint(m.Nonce, 10),
			"expiry":    strconv.FormatUint(m.Expiry, 10),
		},
	})
}

// Hash returns the digest that is signed for a Ballot
func (m Ballot) Hash(d Domain) (common.Hash, error) {
	return hash(apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType,
			"Ballot":       ballotType,
		},
		PrimaryType: "Ballot",
		Domain:      d.typed(),
		Message: apitypes.TypedDataMessage{
			"proposalId": strconv.FormatUint(m.ProposalID, 10),
			"support":    strconv.FormatUint(uint64(m.Support), 10),
		},
	})
}

func hash(td apitypes.TypedData) (common.Hash, error) {
	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash %s: %w", td.PrimaryType, err)
	}
	return common.BytesToHash(digest), nil
}

// Signature is a secp256k1 signature split the way contracts receive it
type Signature struct {
	V uint8
	R [32]byte
	S [32]byte
}

// SplitSignature converts a 65 byte [R || S || V] signature. V may be 0/1
// or 27/28.
func SplitSignature(sig []byte) (Signature, error) {
	if len(sig) != crypto.SignatureLength {
		return Signature{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	var out Signature
	copy(out.R[:], sig[:32])
	copy(out.S[:], sig[32:64])
	out.V = sig[64]
	if out.V < 27 {
		out.V += 27
	}
	return out, nil
}

// Recover returns the address that produced sig over digest
func Recover(digest common.Hash, sig Signature) (common.Address, error) {
	if sig.V != 27 && sig.V != 28 {
		return common.Address{}, fmt.Errorf("invalid recovery id %d", sig.V)
	}
	raw := make([]byte, crypto.SignatureLength)
	copy(raw[:32], sig.R[:])
	copy(raw[32:64], sig.S[:])
	raw[64] = sig.V - 27
	pub, err := crypto.SigToPub(digest[:], raw)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

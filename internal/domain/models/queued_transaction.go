package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// QueuedTransaction is a call the timelock has accepted for delayed execution
type QueuedTransaction struct {
	Hash      common.Hash    `json:"hash"`
	Target    common.Address `json:"target"`
	Value     *uint256.Int   `json:"value"`
	Signature string         `json:"signature"`
	Data      []byte         `json:"data"`
	Eta       uint64         `json:"eta"`
}

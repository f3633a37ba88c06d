package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for host and store operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrStateNotInitialized is returned when no world state has been deployed yet
	ErrStateNotInitialized = errors.New("world state not initialized (run `rsoc init`)")

	// ErrOutOfGas is returned when a call frame exhausts its gas allowance
	ErrOutOfGas = errors.New("out of gas")

	// ErrInsufficientBalance is returned when a value transfer exceeds the sender's balance
	ErrInsufficientBalance = errors.New("insufficient balance for transfer")

	// ErrNoCode is returned when calldata is sent to an address without a contract
	ErrNoCode = errors.New("call to address without code")

	// ErrUnknownMethod is returned when calldata does not match any dispatchable entry point
	ErrUnknownMethod = errors.New("unknown method selector")
)

// RevertError is a contract-level failure carrying the revert reason.
// The reason string is compared exactly, so two RevertErrors with the
// same reason are equal under errors.Is.
type RevertError struct {
	Reason string
}

// Revert returns a RevertError for the given reason
func Revert(reason string) error {
	return RevertError{Reason: reason}
}

func (e RevertError) Error() string {
	return fmt.Sprintf("execution reverted: %s", e.Reason)
}

// RevertReason extracts the revert reason from err. The second return
// value is false when err is not (and does not wrap) a RevertError.
func RevertReason(err error) (string, bool) {
	var revert RevertError
	if errors.As(err, &revert) {
		return revert.Reason, true
	}
	return "", false
}

// UnknownAccountErr is returned when an account name can't be resolved
type UnknownAccountErr struct {
	Name string
}

func (e UnknownAccountErr) Error() string {
	return fmt.Sprintf("unknown account %q (not a configured account name or hex address)", e.Name)
}

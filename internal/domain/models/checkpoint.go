package models

// Checkpoint records the votes an account holds from a given block onwards.
// An account's checkpoints are strictly increasing in FromBlock.
type Checkpoint struct {
	FromBlock uint32 `json:"fromBlock"`
	Votes     uint64 `json:"votes"`
}

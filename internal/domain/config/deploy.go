package config

// Deployment defaults, used for every key rsoc.toml leaves out
const (
	DefaultChainID     uint64 = 31337
	DefaultGenesisTime uint64 = 1_700_000_000
	DefaultBalance            = "10000000000000000000000" // 10 000 ether per dev account

	DefaultTimelockDelay     uint64 = 2 * 24 * 60 * 60
	DefaultVotingPeriod      uint64 = 32000
	DefaultVotingDelay       uint64 = 13000
	DefaultProposalThreshold uint64 = 1
	DefaultQuorumVotesBPS    uint64 = 1000
	DefaultMaxSupply         uint64 = 9999
	DefaultTreasurySplit     uint64 = 50
	DefaultTimeBuffer        uint64 = 10 * 60
	DefaultReservePrice             = "1"
	DefaultDuration          uint64 = 10 * 60
)

// Role names that resolve to deployed contracts instead of accounts
const (
	RoleTimelock = "timelock"
	RoleGovernor = "governor"
)

// DevAccounts are the accounts every world is funded with, in key order
var DevAccounts = []string{"deployer", "admin", "vetoer", "alice", "bob", "carol"}

// DeployConfig is the contents of rsoc.toml
type DeployConfig struct {
	Chain    ChainConfig              `toml:"chain"`
	DAO      DAOConfig                `toml:"dao"`
	Timelock TimelockConfig           `toml:"timelock"`
	Auction  AuctionConfig            `toml:"auction"`
	Token    TokenConfig              `toml:"token"`
	Accounts map[string]AccountConfig `toml:"accounts"`
}

type ChainConfig struct {
	ChainID     uint64 `toml:"chain_id"`
	GenesisTime uint64 `toml:"genesis_time"`
	Automine    bool   `toml:"automine"`
	// Balance each account is funded with at genesis, in wei
	Balance string `toml:"balance"`
}

type DAOConfig struct {
	Admin             string `toml:"admin"`
	Vetoer            string `toml:"vetoer"`
	VotingPeriod      uint64 `toml:"voting_period"`
	VotingDelay       uint64 `toml:"voting_delay"`
	ProposalThreshold uint64 `toml:"proposal_threshold"`
	QuorumVotesBPS    uint64 `toml:"quorum_votes_bps"`
}

type TimelockConfig struct {
	Delay uint64 `toml:"delay"`
}

type AuctionConfig struct {
	// Owner receives the treasury split; "timelock" hands the house to governance
	Owner         string `toml:"owner"`
	Reserve       string `toml:"reserve"`
	TreasurySplit uint64 `toml:"treasury_split"`
	TimeBuffer    uint64 `toml:"time_buffer"`
	ReservePrice  string `toml:"reserve_price"`
	Duration      uint64 `toml:"duration"`
	// Start unpauses the house right after deployment
	Start bool `toml:"start"`
}

type TokenConfig struct {
	MaxSupply uint64 `toml:"max_supply"`
}

// AccountConfig names an account. A private key makes it able to sign
// typed messages; an address alone can still send transactions.
type AccountConfig struct {
	PrivateKey string `toml:"private_key,omitempty"`
	Address    string `toml:"address,omitempty"`
}

// DefaultDeployConfig returns the parameters used when rsoc.toml is absent
func DefaultDeployConfig() *DeployConfig {
	return &DeployConfig{
		Chain: ChainConfig{
			ChainID:     DefaultChainID,
			GenesisTime: DefaultGenesisTime,
			Automine:    true,
			Balance:     DefaultBalance,
		},
		DAO: DAOConfig{
			Admin:             "admin",
			Vetoer:            "vetoer",
			VotingPeriod:      DefaultVotingPeriod,
			VotingDelay:       DefaultVotingDelay,
			ProposalThreshold: DefaultProposalThreshold,
			QuorumVotesBPS:    DefaultQuorumVotesBPS,
		},
		Timelock: TimelockConfig{Delay: DefaultTimelockDelay},
		Auction: AuctionConfig{
			Owner:         "deployer",
			Reserve:       "deployer",
			TreasurySplit: DefaultTreasurySplit,
			TimeBuffer:    DefaultTimeBuffer,
			ReservePrice:  DefaultReservePrice,
			Duration:      DefaultDuration,
		},
		Token:    TokenConfig{MaxSupply: DefaultMaxSupply},
		Accounts: map[string]AccountConfig{},
	}
}

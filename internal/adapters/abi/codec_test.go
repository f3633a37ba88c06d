package abi

import (
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

func newTestCodec() *Codec {
	return NewCodec(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
)

func TestParseSignature(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		wantName  string
		wantArgs  int
		wantErr   bool
	}{
		{name: "no args", signature: "deposit()", wantName: "deposit"},
		{name: "spaces", signature: "transfer(address, uint256)", wantName: "transfer", wantArgs: 2},
		{name: "arrays", signature: "batch(address[],uint256[3])", wantName: "batch", wantArgs: 2},
		{name: "missing parens", signature: "deposit", wantErr: true},
		{name: "tuple", signature: "f((uint256,address))", wantErr: true},
		{name: "bad type", signature: "f(uint7)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, err := ParseSignature(tt.signature)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func TestCodec_EncodeArgsAndDescribe(t *testing.T) {
	c := newTestCodec()

	tests := []struct {
		name      string
		signature string
		args      []string
		expected  string
	}{
		{
			name:      "uint with unit",
			signature: "setReservePrice(uint256)",
			args:      []string{"1 ether"},
			expected:  "setReservePrice(1000000000000000000)",
		},
		{
			name:      "small uint",
			signature: "setTreasurySplit(uint8)",
			args:      []string{"10"},
			expected:  "setTreasurySplit(10)",
		},
		{
			name:      "address and bool",
			signature: "setApprovalForAll(address,bool)",
			args:      []string{alice.Hex(), "true"},
			expected:  "setApprovalForAll(" + alice.Hex() + ", true)",
		},
		{
			name:      "string",
			signature: "note(string)",
			args:      []string{"hello"},
			expected:  `note("hello")`,
		},
		{
			name:      "address array",
			signature: "batch(address[])",
			args:      []string{"[" + alice.Hex() + ", " + bob.Hex() + "]"},
			expected:  "batch([" + alice.Hex() + ", " + bob.Hex() + "])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := c.EncodeArgs(tt.signature, tt.args)
			require.NoError(t, err)

			got, err := c.DescribeCall(tt.signature, data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCodec_EncodeArgsErrors(t *testing.T) {
	c := newTestCodec()

	_, err := c.EncodeArgs("setDelay(uint256)", nil)
	assert.ErrorContains(t, err, "takes 1 arguments, got 0")

	_, err = c.EncodeArgs("setVetoer(address)", []string{"alice"})
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)

	_, err = c.EncodeArgs("setTreasurySplit(uint8)", []string{"300"})
	assert.ErrorContains(t, err, "overflows uint8")

	_, err = c.EncodeArgs("pair(uint256[2])", []string{"[1,2,3]"})
	assert.ErrorContains(t, err, "want 2 elements")
}

func TestCodec_EncodeMethod(t *testing.T) {
	c := newTestCodec()
	abiJSON := `[{"type":"function","name":"setDelay","inputs":[{"name":"delay","type":"uint256"}],"outputs":[]}]`

	data, err := c.EncodeMethod(abiJSON, "setDelay", []string{"172800"})
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256([]byte("setDelay(uint256)"))[:4], data[:4])
	assert.Len(t, data, 36)

	_, err = c.EncodeMethod(abiJSON, "setPendingAdmin", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownMethod)
}

func TestCodec_LogRoundTrip(t *testing.T) {
	c := newTestCodec()

	tests := []struct {
		name   string
		event  domain.Event
		topics int
	}{
		{
			name:   "nft transfer",
			event:  &domain.Transfer{From: alice, To: bob, TokenID: 7},
			topics: 4,
		},
		{
			name:   "erc20 transfer",
			event:  &domain.ERC20Transfer{Src: alice, Dst: bob, Wad: uint256.NewInt(5_000)},
			topics: 3,
		},
		{
			name: "proposal created",
			event: &domain.ProposalCreated{
				ID:          1,
				Proposer:    alice,
				Targets:     []common.Address{bob},
				Values:      []*uint256.Int{uint256.NewInt(1)},
				Signatures:  []string{"setDelay(uint256)"},
				Calldatas:   [][]byte{{0x01, 0x02}},
				StartBlock:  10,
				EndBlock:    20,
				QuorumVotes: 3,
				Description: "Lengthen the delay",
			},
			topics: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := c.EncodeLog(chain.Log{Address: bob, Block: 3, TxIndex: 1, Index: 2, Event: tt.event})
			require.NoError(t, err)
			assert.Len(t, raw.Topics, tt.topics)
			assert.Equal(t, bob, raw.Address)
			assert.Equal(t, uint64(3), raw.BlockNumber)

			decoded, err := c.DecodeLog(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.event, decoded)
		})
	}
}

func TestCodec_DecodeLogUnknown(t *testing.T) {
	c := newTestCodec()

	_, err := c.DecodeLog(&types.Log{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.DecodeLog(&types.Log{Topics: []common.Hash{crypto.Keccak256Hash([]byte("Nope()"))}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0x", FormatValue([]byte{}))
	assert.Equal(t, "0xdead", FormatValue([]byte{0xde, 0xad}))
	assert.Equal(t, "[1, 2]", FormatValue([]uint16{1, 2}))
	assert.Equal(t, "true", FormatValue(true))
}

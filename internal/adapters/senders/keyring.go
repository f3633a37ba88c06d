package senders

import (
	"crypto/ecdsa"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// devKeys are the well-known development keys, one per dev account
var devKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
	"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
	"8b3a350cf5c34c9194ca85829a2df0ec3153be0318b5e2d3348e872092edffba",
}

type account struct {
	name    string
	address common.Address
	key     *ecdsa.PrivateKey
}

// Keyring holds the named accounts: the dev accounts plus whatever
// rsoc.toml adds or overrides
type Keyring struct {
	accounts []*account
	byName   map[string]*account
	byAddr   map[common.Address]*account
}

var _ usecase.Keyring = (*Keyring)(nil)

// NewKeyring builds the keyring from the runtime configuration
func NewKeyring(cfg *config.RuntimeConfig) (*Keyring, error) {
	k := &Keyring{
		byName: make(map[string]*account),
		byAddr: make(map[common.Address]*account),
	}
	for i, name := range config.DevAccounts {
		if err := k.add(name, devKeys[i], ""); err != nil {
			return nil, err
		}
	}
	if cfg == nil || cfg.Deploy == nil {
		return k, nil
	}

	names := lo.Keys(cfg.Deploy.Accounts)
	sort.Strings(names)
	for _, name := range names {
		ac := cfg.Deploy.Accounts[name]
		if err := k.add(name, ac.PrivateKey, ac.Address); err != nil {
			return nil, fmt.Errorf("account %q: %w", name, err)
		}
	}
	return k, nil
}

func (k *Keyring) add(name, privateKey, address string) error {
	acc := &account{name: strings.ToLower(name)}
	switch {
	case privateKey != "":
		key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
		if err != nil {
			return fmt.Errorf("invalid private key: %w", err)
		}
		acc.key = key
		acc.address = crypto.PubkeyToAddress(key.PublicKey)
		if address != "" && common.HexToAddress(address) != acc.address {
			return fmt.Errorf("address %s does not match the private key (%s)", address, acc.address.Hex())
		}
	case common.IsHexAddress(address):
		acc.address = common.HexToAddress(address)
	default:
		return fmt.Errorf("%q: %w", address, domain.ErrInvalidAddress)
	}

	if prev, ok := k.byName[acc.name]; ok {
		delete(k.byAddr, prev.address)
		for i, a := range k.accounts {
			if a == prev {
				k.accounts[i] = acc
			}
		}
	} else {
		k.accounts = append(k.accounts, acc)
	}
	k.byName[acc.name] = acc
	k.byAddr[acc.address] = acc
	return nil
}

// Resolve accepts an account name, case-insensitively, or a hex address
func (k *Keyring) Resolve(nameOrAddress string) (common.Address, error) {
	if acc, ok := k.byName[strings.ToLower(nameOrAddress)]; ok {
		return acc.address, nil
	}
	if common.IsHexAddress(nameOrAddress) {
		return common.HexToAddress(nameOrAddress), nil
	}
	return common.Address{}, domain.UnknownAccountErr{Name: nameOrAddress}
}

// Accounts lists the named accounts, dev accounts first
func (k *Keyring) Accounts() []usecase.Account {
	return lo.Map(k.accounts, func(a *account, _ int) usecase.Account {
		return usecase.Account{Name: a.name, Address: a.address, CanSign: a.key != nil}
	})
}

// NameOf returns the account name of addr, or ""
func (k *Keyring) NameOf(addr common.Address) string {
	if acc, ok := k.byAddr[addr]; ok {
		return acc.name
	}
	return ""
}

// SignDigest signs digest with addr's key
func (k *Keyring) SignDigest(addr common.Address, digest common.Hash) ([]byte, error) {
	acc, ok := k.byAddr[addr]
	if !ok {
		return nil, domain.UnknownAccountErr{Name: addr.Hex()}
	}
	if acc.key == nil {
		return nil, fmt.Errorf("account %s has no private key configured", acc.name)
	}
	sig, err := crypto.Sign(digest.Bytes(), acc.key)
	if err != nil {
		return nil, err
	}
	// crypto.Sign yields v in {0,1}; signatures on the wire carry 27/28
	sig[64] += 27
	return sig, nil
}

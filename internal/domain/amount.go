package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// units are matched in order, so longer suffixes come first
var units = []struct {
	suffix string
	exp    int64
}{
	{"gwei", 9},
	{"ether", 18},
	{"eth", 18},
	{"wei", 0},
}

// ParseAmount reads a native-currency amount. A bare integer is wei; a
// unit suffix (wei, gwei, ether, eth) allows decimals, e.g. "1.5ether".
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return new(uint256.Int), nil
	}

	var exp int64
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			exp = u.exp
			break
		}
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("amount %q is negative", s)
	}
	r.Mul(r, new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil)))
	if !r.IsInt() {
		return nil, fmt.Errorf("amount %q has more precision than wei", s)
	}
	v, overflow := uint256.FromBig(r.Num())
	if overflow {
		return nil, fmt.Errorf("amount %q overflows 256 bits", s)
	}
	return v, nil
}

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatAmount renders wei for humans: whole and fractional ether above a
// milli-ether, plain wei below.
func FormatAmount(v *uint256.Int) string {
	if v == nil {
		return "0 wei"
	}
	if v.CmpUint64(1_000_000_000_000_000) < 0 {
		return v.Dec() + " wei"
	}
	whole, frac := new(big.Int).QuoRem(v.ToBig(), weiPerEther, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String() + " ETH"
	}
	fs := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	return whole.String() + "." + fs + " ETH"
}

package abi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// Codec converts between human input and ABI encoded calls and logs
type Codec struct {
	log *slog.Logger
}

var (
	_ usecase.CallEncoder = (*Codec)(nil)
	_ usecase.LogEncoder  = (*Codec)(nil)
)

// NewCodec creates a new Codec
func NewCodec(log *slog.Logger) *Codec {
	return &Codec{log: log.With("component", "AbiCodec")}
}

// ParseSignature splits "name(type,...)" into the name and its parameter list
func ParseSignature(signature string) (string, abi.Arguments, error) {
	signature = strings.ReplaceAll(signature, " ", "")
	open := strings.IndexByte(signature, '(')
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return "", nil, fmt.Errorf("invalid function signature %q", signature)
	}
	name := signature[:open]
	inner := signature[open+1 : len(signature)-1]
	if inner == "" {
		return name, abi.Arguments{}, nil
	}
	if strings.ContainsAny(inner, "()") {
		return "", nil, fmt.Errorf("tuple parameters are not supported in %q", signature)
	}

	var args abi.Arguments
	for i, typ := range strings.Split(inner, ",") {
		t, err := abi.NewType(typ, "", nil)
		if err != nil {
			return "", nil, fmt.Errorf("parameter %d of %s: %w", i, name, err)
		}
		args = append(args, abi.Argument{Name: fmt.Sprintf("arg%d", i), Type: t})
	}
	return name, args, nil
}

// EncodeArgs ABI-encodes args for the parameter list of signature
func (c *Codec) EncodeArgs(signature string, args []string) ([]byte, error) {
	name, params, err := ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	values, err := convertArgs(name, params, args)
	if err != nil {
		return nil, err
	}
	return params.Pack(values...)
}

// EncodeMethod encodes a call to method of the contract described by abiJSON
func (c *Codec) EncodeMethod(abiJSON, method string, args []string) ([]byte, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	m, ok := parsed.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %q: %w", method, domain.ErrUnknownMethod)
	}
	values, err := convertArgs(method, m.Inputs, args)
	if err != nil {
		return nil, err
	}
	c.log.Debug("encoding call", "method", m.Sig, "args", len(values))
	return parsed.Pack(method, values...)
}

// DescribeCall renders a signature with its decoded arguments
func (c *Codec) DescribeCall(signature string, data []byte) (string, error) {
	name, params, err := ParseSignature(signature)
	if err != nil {
		return "", err
	}
	values, err := params.Unpack(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s arguments: %w", name, err)
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatValue(v)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", ")), nil
}

func convertArgs(name string, params abi.Arguments, args []string) ([]any, error) {
	if len(args) != len(params) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", name, len(params), len(args))
	}
	values := make([]any, len(args))
	for i, arg := range args {
		v, err := ConvertArg(params[i].Type, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s (%s): %w", i, name, params[i].Type.String(), err)
		}
		values[i] = v
	}
	return values, nil
}

// ConvertArg parses a string into the Go value the ABI packer expects for t.
// Unsigned integers accept unit suffixes such as "1 ether"; arrays are
// written as "[a,b,c]".
func ConvertArg(t abi.Type, s string) (any, error) {
	s = strings.TrimSpace(s)
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%q: %w", s, domain.ErrInvalidAddress)
		}
		return common.HexToAddress(s), nil
	case abi.UintTy:
		n, err := domain.ParseAmount(s)
		if err != nil {
			return nil, err
		}
		return sizedInt(t, n.ToBig())
	case abi.IntTy:
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", s)
		}
		return sizedInt(t, n)
	case abi.BoolTy:
		return strconv.ParseBool(s)
	case abi.StringTy:
		return s, nil
	case abi.BytesTy:
		return hexutil.Decode(s)
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("want %d bytes, got %d", t.Size, len(b))
		}
		v := reflect.New(t.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		items := splitList(s)
		if t.T == abi.ArrayTy && len(items) != t.Size {
			return nil, fmt.Errorf("want %d elements, got %d", t.Size, len(items))
		}
		var v reflect.Value
		if t.T == abi.SliceTy {
			v = reflect.MakeSlice(t.GetType(), len(items), len(items))
		} else {
			v = reflect.New(t.GetType()).Elem()
		}
		for i, item := range items {
			e, err := ConvertArg(*t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			v.Index(i).Set(reflect.ValueOf(e))
		}
		return v.Interface(), nil
	}
	return nil, fmt.Errorf("unsupported parameter type %s", t.String())
}

// sizedInt converts n to the Go type the packer uses for t: uint8 through
// int64 for small sizes, *big.Int beyond
func sizedInt(t abi.Type, n *big.Int) (any, error) {
	if t.Size > 64 {
		return n, nil
	}
	v := reflect.New(t.GetType()).Elem()
	if t.T == abi.UintTy {
		if !n.IsUint64() || v.OverflowUint(n.Uint64()) {
			return nil, fmt.Errorf("%s overflows %s", n, t.String())
		}
		v.SetUint(n.Uint64())
	} else {
		if !n.IsInt64() || v.OverflowInt(n.Int64()) {
			return nil, fmt.Errorf("%s overflows %s", n, t.String())
		}
		v.SetInt(n.Int64())
	}
	return v.Interface(), nil
}

func splitList(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// FormatValue renders a decoded ABI value compactly
func FormatValue(value any) string {
	switch v := value.(type) {
	case common.Address:
		return v.Hex()
	case *big.Int:
		return v.String()
	case []byte:
		if len(v) == 0 {
			return "0x"
		}
		if len(v) <= 32 {
			return hexutil.Encode(v)
		}
		return fmt.Sprintf("%s...(%d bytes)", hexutil.Encode(v[:16]), len(v))
	case string:
		if len(v) > 50 {
			return fmt.Sprintf("%.50s...(%d chars)", v, len(v))
		}
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case [32]byte:
		return hexutil.Encode(v[:])
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = FormatValue(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	if b, err := json.Marshal(value); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", value)
}

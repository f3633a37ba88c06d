package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/rarity-society/internal/chain"
	"github.com/trebuchet-org/rarity-society/internal/domain"
)

// eventSchema is the ABI event a domain event encodes to, and where each
// input lives in the Go struct
type eventSchema struct {
	kind   string
	event  abi.Event
	fields [][]int
}

var (
	schemaMu sync.Mutex
	schemas  = map[reflect.Type]*eventSchema{}

	// topicIndex keys decodable events by topic0 and topic count, so the
	// NFT and ERC20 Transfer events that share a signature stay apart
	topicOnce  sync.Once
	topicIndex map[topicKey]*eventSchema
)

type topicKey struct {
	id     common.Hash
	topics int
}

var (
	addressType   = reflect.TypeOf(common.Address{})
	hashType      = reflect.TypeOf(common.Hash{})
	u256Type      = reflect.TypeOf((*uint256.Int)(nil))
	addressesType = reflect.TypeOf([]common.Address(nil))
	u256sType     = reflect.TypeOf([]*uint256.Int(nil))
	stringsType   = reflect.TypeOf([]string(nil))
	bytesListType = reflect.TypeOf([][]byte(nil))
	bytesType     = reflect.TypeOf([]byte(nil))
)

// solidityType maps a Go field type to its ABI type
func solidityType(t reflect.Type) (string, error) {
	switch t {
	case addressType:
		return "address", nil
	case hashType:
		return "bytes32", nil
	case u256Type:
		return "uint256", nil
	case addressesType:
		return "address[]", nil
	case u256sType:
		return "uint256[]", nil
	case stringsType:
		return "string[]", nil
	case bytesListType:
		return "bytes[]", nil
	case bytesType:
		return "bytes", nil
	}
	switch t.Kind() {
	case reflect.Uint8:
		return "uint8", nil
	case reflect.Uint32:
		return "uint32", nil
	case reflect.Uint64:
		return "uint256", nil
	case reflect.Bool:
		return "bool", nil
	case reflect.String:
		return "string", nil
	}
	return "", fmt.Errorf("no ABI type for %s", t)
}

func schemaOf(ev domain.Event) (*eventSchema, error) {
	t := reflect.TypeOf(ev)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemas[t]; ok {
		return s, nil
	}

	s := &eventSchema{kind: t.Name()}
	var inputs abi.Arguments
	var walk func(t reflect.Type, path []int) error
	walk = func(t reflect.Type, path []int) error {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			idx := append(append([]int(nil), path...), i)
			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				if err := walk(f.Type, idx); err != nil {
					return err
				}
				continue
			}
			if !f.IsExported() {
				continue
			}
			typ, err := solidityType(f.Type)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", s.kind, f.Name, err)
			}
			abiType, err := abi.NewType(typ, "", nil)
			if err != nil {
				return err
			}
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" {
				name = f.Name
			}
			inputs = append(inputs, abi.Argument{Name: name, Type: abiType, Indexed: f.Tag.Get("abi") == "indexed"})
			s.fields = append(s.fields, idx)
		}
		return nil
	}
	if err := walk(t, nil); err != nil {
		return nil, err
	}

	name := ev.ContractEventName()
	s.event = abi.NewEvent(name, name, false, inputs)
	schemas[t] = s
	return s, nil
}

// packValue converts a domain field value to what the ABI packer expects
func packValue(v reflect.Value) any {
	switch x := v.Interface().(type) {
	case uint64:
		return new(big.Int).SetUint64(x)
	case *uint256.Int:
		if x == nil {
			return new(big.Int)
		}
		return x.ToBig()
	case common.Hash:
		return [32]byte(x)
	case []*uint256.Int:
		out := make([]*big.Int, len(x))
		for i, n := range x {
			out[i] = packValue(reflect.ValueOf(n)).(*big.Int)
		}
		return out
	case []common.Address:
		if x == nil {
			return []common.Address{}
		}
	case []string:
		if x == nil {
			return []string{}
		}
	case [][]byte:
		if x == nil {
			return [][]byte{}
		}
	}
	return v.Interface()
}

// EncodeLog converts an emitted event into the EVM log it corresponds to
func (c *Codec) EncodeLog(l chain.Log) (*types.Log, error) {
	s, err := schemaOf(l.Event)
	if err != nil {
		return nil, err
	}
	rv := reflect.Indirect(reflect.ValueOf(l.Event))

	topics := []common.Hash{s.event.ID}
	var data []any
	for i, in := range s.event.Inputs {
		v := packValue(rv.FieldByIndex(s.fields[i]))
		if !in.Indexed {
			data = append(data, v)
			continue
		}
		word, err := abi.Arguments{{Type: in.Type}}.Pack(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode topic %s: %w", in.Name, err)
		}
		topics = append(topics, common.BytesToHash(word))
	}
	packed, err := s.event.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s data: %w", s.kind, err)
	}

	return &types.Log{
		Address:     l.Address,
		Topics:      topics,
		Data:        packed,
		BlockNumber: l.Block,
		TxIndex:     uint(l.TxIndex),
		Index:       uint(l.Index),
	}, nil
}

func buildTopicIndex() {
	topicIndex = make(map[topicKey]*eventSchema)
	for _, kind := range domain.EventKinds() {
		ev, err := domain.NewEventOfKind(kind)
		if err != nil {
			continue
		}
		s, err := schemaOf(ev)
		if err != nil {
			continue
		}
		n := 1
		for _, in := range s.event.Inputs {
			if in.Indexed {
				n++
			}
		}
		topicIndex[topicKey{id: s.event.ID, topics: n}] = s
	}
}

// DecodeLog turns an EVM log back into the domain event it encodes
func (c *Codec) DecodeLog(log *types.Log) (domain.Event, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("anonymous log: %w", domain.ErrNotFound)
	}
	topicOnce.Do(buildTopicIndex)
	s, ok := topicIndex[topicKey{id: log.Topics[0], topics: len(log.Topics)}]
	if !ok {
		return nil, fmt.Errorf("event %s with %d topics: %w", log.Topics[0].Hex(), len(log.Topics), domain.ErrNotFound)
	}

	ev, err := domain.NewEventOfKind(s.kind)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(ev).Elem()

	data, err := s.event.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s data: %w", s.kind, err)
	}
	topic, next := 1, 0
	for i, in := range s.event.Inputs {
		var v any
		if in.Indexed {
			vals, err := abi.Arguments{{Type: in.Type}}.Unpack(log.Topics[topic].Bytes())
			if err != nil {
				return nil, fmt.Errorf("failed to decode topic %s: %w", in.Name, err)
			}
			v = vals[0]
			topic++
		} else {
			v = data[next]
			next++
		}
		if err := setField(rv.FieldByIndex(s.fields[i]), v); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.kind, in.Name, err)
		}
	}
	return ev, nil
}

// setField stores an unpacked ABI value into a domain event field
func setField(f reflect.Value, v any) error {
	switch x := v.(type) {
	case *big.Int:
		switch f.Type() {
		case u256Type:
			n, overflow := uint256.FromBig(x)
			if overflow {
				return fmt.Errorf("value %s overflows 256 bits", x)
			}
			f.Set(reflect.ValueOf(n))
			return nil
		}
		if f.Kind() == reflect.Uint64 {
			if !x.IsUint64() {
				return fmt.Errorf("value %s overflows uint64", x)
			}
			f.SetUint(x.Uint64())
			return nil
		}
	case []*big.Int:
		if f.Type() == u256sType {
			out := make([]*uint256.Int, len(x))
			for i, n := range x {
				out[i], _ = uint256.FromBig(n)
			}
			f.Set(reflect.ValueOf(out))
			return nil
		}
	case [32]byte:
		if f.Type() == hashType {
			f.Set(reflect.ValueOf(common.Hash(x)))
			return nil
		}
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(f.Type()) {
		if rv.Type().ConvertibleTo(f.Type()) {
			f.Set(rv.Convert(f.Type()))
			return nil
		}
		return fmt.Errorf("cannot store %s in %s", rv.Type(), f.Type())
	}
	f.Set(rv)
	return nil
}

package contract

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"web3-core/internal/wallet"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"
)

// AddressLike arguments are replaced by their address before encoding.
type AddressLike = wallet.AddressLike

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// Coerce converts v into the Go type go-ethereum expects when packing t.
// It accepts AddressLike for addresses, any integer, *big.Int, decimal or
// numeric string for integers, and hex strings for bytes.
func Coerce(t abi.Type, v any) (any, error) {
	if a, ok := v.(AddressLike); ok {
		if rv := reflect.ValueOf(a); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, fmt.Errorf("nil value for %s", t)
		}
		v = a.Address()
	}
	if n, ok := v.(json.Number); ok {
		v = string(n)
	}
	if v == nil {
		return nil, fmt.Errorf("nil value for %s", t)
	}

	target := t.GetType()
	rv := reflect.ValueOf(v)
	if rv.Type() == target {
		return v, nil
	}

	switch t.T {
	case abi.IntTy, abi.UintTy:
		n, err := toBig(v)
		if err != nil {
			return nil, err
		}
		return fitInt(n, t, target)

	case abi.AddressTy:
		if s, ok := v.(string); ok {
			a, err := wallet.ParseAddress(s)
			if err != nil {
				return nil, err
			}
			return a.Address(), nil
		}

	case abi.BoolTy:
		if s, ok := v.(string); ok {
			return strconv.ParseBool(s)
		}

	case abi.BytesTy:
		if s, ok := v.(string); ok {
			return hexutil.Decode(s)
		}

	case abi.FixedBytesTy:
		b, ok := v.([]byte)
		if s, isStr := v.(string); isStr {
			var err error
			if b, err = hexutil.Decode(s); err != nil {
				return nil, err
			}
			ok = true
		}
		if ok {
			if len(b) != t.Size {
				return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
			}
			out := reflect.New(target).Elem()
			reflect.Copy(out, reflect.ValueOf(b))
			return out.Interface(), nil
		}

	case abi.SliceTy, abi.ArrayTy:
		if s, ok := v.(string); ok {
			elems, err := splitList(s)
			if err != nil {
				return nil, err
			}
			rv = reflect.ValueOf(elems)
		}
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			break
		}
		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(target, rv.Len(), rv.Len())
		} else {
			if rv.Len() != t.Size {
				return nil, fmt.Errorf("expected %d elements, got %d", t.Size, rv.Len())
			}
			out = reflect.New(target).Elem()
		}
		for i := 0; i < rv.Len(); i++ {
			elem, err := Coerce(*t.Elem, rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(elem))
		}
		return out.Interface(), nil
	}

	if rv.Type().ConvertibleTo(target) && rv.Kind() == target.Kind() {
		return rv.Convert(target).Interface(), nil
	}
	return nil, fmt.Errorf("cannot use %T as %s", v, t)
}

func toBig(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case big.Int:
		return &n, nil
	case decimal.Decimal:
		if !n.IsInteger() {
			return nil, fmt.Errorf("%s is not an integer", n)
		}
		return n.BigInt(), nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil, fmt.Errorf("empty integer")
		}
		if b, ok := math.ParseBig256(s); ok {
			return b, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil || !d.IsInteger() {
			return nil, fmt.Errorf("invalid integer %q", n)
		}
		return d.BigInt(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}
	return nil, fmt.Errorf("cannot use %T as an integer", v)
}

// fitInt range-checks n and converts it to target, which is *big.Int or a sized Go integer.
func fitInt(n *big.Int, t abi.Type, target reflect.Type) (any, error) {
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s for %s", n, t)
	}
	limit := t.Size
	if t.T == abi.IntTy {
		limit--
	}
	if n.BitLen() > limit {
		return nil, fmt.Errorf("value %s overflows %s", n, t)
	}

	if target == bigIntType {
		return new(big.Int).Set(n), nil
	}
	out := reflect.New(target).Elem()
	if t.T == abi.IntTy {
		out.SetInt(n.Int64())
	} else {
		out.SetUint(n.Uint64())
	}
	return out.Interface(), nil
}

// splitList accepts a JSON array or a comma separated list.
func splitList(s string) ([]any, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		dec := json.NewDecoder(strings.NewReader(s))
		dec.UseNumber()
		var out []any
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("invalid list %q: %w", s, err)
		}
		return out, nil
	}
	if s == "" {
		return []any{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out, nil
}

// ParseArgs converts command line strings into arguments for fn.
func ParseArgs(fn *Function, raw []string) ([]any, error) {
	if len(raw) != len(fn.Inputs) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", fn.Signature, len(fn.Inputs), len(raw))
	}
	out := make([]any, len(raw))
	for i, s := range raw {
		v, err := Coerce(fn.Inputs[i].Type, s)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, fn.Inputs[i].Type, err)
		}
		out[i] = v
	}
	return out, nil
}

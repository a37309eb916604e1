package contract

import (
	"fmt"

	"web3-core/pkg/errno"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Kind tells how a function is invoked.
type Kind int

const (
	// Read functions (pure, view) are executed with eth_call.
	Read Kind = iota
	// Write functions (nonpayable, payable) are sent as transactions.
	Write
)

func (k Kind) String() string {
	if k == Read {
		return "read"
	}
	return "write"
}

// Function describes one ABI function entry.
type Function struct {
	Name       string
	Signature  string // canonical, e.g. transfer(address,uint256)
	Selector   [4]byte
	Inputs     abi.Arguments
	Outputs    abi.Arguments
	Mutability string
	Kind       Kind

	method abi.Method
}

func newFunction(m abi.Method) *Function {
	f := &Function{
		Name:       m.RawName,
		Signature:  m.Sig,
		Inputs:     m.Inputs,
		Outputs:    m.Outputs,
		Mutability: mutability(m),
		method:     m,
	}
	copy(f.Selector[:], m.ID)
	if m.IsConstant() {
		f.Kind = Read
	} else {
		f.Kind = Write
	}
	return f
}

// mutability fills in pre-0.5 ABIs, which only carry constant/payable.
func mutability(m abi.Method) string {
	switch {
	case m.StateMutability != "":
		return m.StateMutability
	case m.Constant:
		return "view"
	case m.Payable:
		return "payable"
	default:
		return "nonpayable"
	}
}

// SelectorHex is the 0x-prefixed selector.
func (f *Function) SelectorHex() string {
	return hexutil.Encode(f.Selector[:])
}

func (f *Function) ArgumentNames() []string {
	names := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		names[i] = in.Name
	}
	return names
}

func (f *Function) Payable() bool {
	return f.Mutability == "payable"
}

func (f *Function) String() string {
	return fmt.Sprintf("%s %s %s", f.Signature, f.Mutability, f.SelectorHex())
}

// Pack encodes args after coercion and prepends the selector.
func (f *Function) Pack(args ...any) ([]byte, error) {
	if len(args) != len(f.Inputs) {
		return nil, errno.ErrInvalidParameter.WithMessage("%s expects %d arguments, got %d", f.Signature, len(f.Inputs), len(args))
	}
	values := make([]any, len(args))
	for i, arg := range args {
		v, err := Coerce(f.Inputs[i].Type, arg)
		if err != nil {
			return nil, errno.ErrInvalidParameter.WithMessage("%s argument %d (%s): %v", f.Name, i, f.Inputs[i].Type, err)
		}
		values[i] = v
	}
	encoded, err := f.Inputs.Pack(values...)
	if err != nil {
		return nil, errno.ErrInvalidParameter.WithMessage("%s: %v", f.Signature, err)
	}
	return append(f.Selector[:len(f.Selector):len(f.Selector)], encoded...), nil
}

// Unpack decodes return data.
func (f *Function) Unpack(data []byte) ([]any, error) {
	return f.Outputs.Unpack(data)
}

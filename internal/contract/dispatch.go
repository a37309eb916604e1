package contract

import (
	"encoding/json"
	"strings"

	"web3-core/pkg/errno"
	"web3-core/pkg/logger"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"go.uber.org/zap"
)

// operation is one entry of the dispatch table: readOp or writeOp.
type operation interface {
	function() *Function
}

type readOp struct{ fn *Function }

type writeOp struct{ fn *Function }

func (o readOp) function() *Function  { return o.fn }
func (o writeOp) function() *Function { return o.fn }

// entry is the subset of an ABI JSON entry needed to rebuild methods in
// declaration order. abi.ABI keeps methods in a map and renames overloads.
type entry struct {
	Type            string         `json:"type"`
	Name            string         `json:"name"`
	Inputs          []abi.Argument `json:"inputs"`
	Outputs         []abi.Argument `json:"outputs"`
	StateMutability string         `json:"stateMutability"`
	Constant        bool           `json:"constant"`
	Payable         bool           `json:"payable"`
}

// table maps each distinct function name to its operation. order keeps the
// names in first-declaration order.
type table struct {
	ops   map[string]operation
	order []string
}

// buildTable parses raw into a dispatch table. Overloads are not resolved:
// when a name is declared more than once the last declaration wins and a
// warning is logged.
func buildTable(raw []byte, log *zap.Logger) (abi.ABI, *table, error) {
	parsed, err := abi.JSON(strings.NewReader(string(raw)))
	if err != nil {
		return abi.ABI{}, nil, errno.ErrAbiLoad.WithMessage("parse ABI").Wrap(err)
	}
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return abi.ABI{}, nil, errno.ErrAbiLoad.WithMessage("parse ABI").Wrap(err)
	}

	t := &table{ops: make(map[string]operation)}
	for _, e := range entries {
		// entries without a type are functions in old compiler output
		if e.Type != "function" && e.Type != "" {
			continue
		}
		m := abi.NewMethod(e.Name, e.Name, abi.Function, e.StateMutability, e.Constant, e.Payable, e.Inputs, e.Outputs)
		fn := newFunction(m)

		if prev, ok := t.ops[e.Name]; ok {
			log.Warn("Duplicate function name, last declaration wins",
				zap.String("function", e.Name),
				zap.String("replaced", prev.function().Signature),
				zap.String("kept", fn.Signature))
		} else {
			t.order = append(t.order, e.Name)
		}

		if fn.Kind == Read {
			log.Debug("creating call", zap.String("function", fn.Signature))
			t.ops[e.Name] = readOp{fn: fn}
		} else {
			log.Debug("creating tx", zap.String("function", fn.Signature))
			t.ops[e.Name] = writeOp{fn: fn}
		}
	}
	return parsed, t, nil
}

// Describe lists the functions of rawABI in declaration order without binding
// to an address or a node.
func Describe(rawABI []byte) ([]*Function, error) {
	_, t, err := buildTable(rawABI, logger.Named("contract"))
	if err != nil {
		return nil, err
	}
	out := make([]*Function, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.ops[name].function())
	}
	return out, nil
}

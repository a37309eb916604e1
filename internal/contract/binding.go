// Package contract binds an ABI and an address into callable operations
// without generated code.
package contract

import (
	"context"
	"math/big"
	"time"

	"web3-core/internal/chain"
	"web3-core/internal/txn"
	"web3-core/internal/wallet"
	"web3-core/pkg/errno"
	"web3-core/pkg/logger"
	"web3-core/pkg/monitor"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Config for a Binding.
type Config struct {
	// OutPath is the artifact root used by Load.
	OutPath string
	Tx      txn.Config
}

func DefaultConfig() Config {
	return Config{
		OutPath: DefaultOutPath,
		Tx:      txn.DefaultConfig(),
	}
}

type Option func(*Binding)

func WithConfig(cfg Config) Option {
	return func(b *Binding) { b.cfg = cfg }
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Binding) { b.log = l }
}

func WithRecorder(r monitor.Recorder) Option {
	return func(b *Binding) { b.metrics = r }
}

// TxParams is the trailing parameter object of a write. Nonce takes
// precedence: when set, the built transaction is returned unsigned. Otherwise
// From signs and sends it. One of the two is required.
type TxParams struct {
	Nonce    *uint64
	From     *wallet.Wallet
	Gas      uint64   // 0 means Config.Tx.GasLimit
	GasPrice *big.Int // nil means the node's suggestion
	Value    *big.Int // payable functions only
	Timeout  time.Duration
}

// CallParams is the optional trailing argument of a read.
type CallParams struct {
	Block *big.Int // nil means latest
}

// Result of Invoke. Reads fill Values, or record the failure behind NoResult.
// Writes fill the embedded txn.Result.
type Result struct {
	txn.Result
	Values []any
	err    error
}

// NoResult reports a read that failed at the node or while decoding. It says
// nothing about the on-chain value.
func (r *Result) NoResult() bool { return r.err != nil }

// Err is the cause behind NoResult.
func (r *Result) Err() error { return r.err }

// Value returns the first decoded output, or nil.
func (r *Result) Value() any {
	if len(r.Values) == 0 {
		return nil
	}
	return r.Values[0]
}

// Binding is a contract at an address with one operation per function name.
type Binding struct {
	name    string
	address common.Address
	abi     abi.ABI
	table   *table

	client  chain.Client
	builder *txn.Builder
	cfg     Config
	log     *zap.Logger
	metrics monitor.Recorder
}

// New binds rawABI (a JSON array) at address.
func New(client chain.Client, name string, address AddressLike, rawABI []byte, opts ...Option) (*Binding, error) {
	if client == nil {
		return nil, errno.ErrNotConnected
	}
	if address == nil {
		return nil, errno.ErrInvalidParameter.WithMessage("contract address is nil")
	}
	b := &Binding{
		name:    name,
		address: address.Address(),
		client:  client,
		cfg:     DefaultConfig(),
		log:     logger.Named("contract"),
		metrics: monitor.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.With(zap.String("contract", name), zap.String("address", b.address.Hex()))

	parsed, t, err := buildTable(rawABI, b.log)
	if err != nil {
		return nil, err
	}
	b.abi = parsed
	b.table = t
	b.builder = txn.NewBuilder(client, b.cfg.Tx)
	return b, nil
}

// Load reads the artifact for name through loader and binds it at address.
func Load(client chain.Client, loader *Loader, name string, address AddressLike, opts ...Option) (*Binding, error) {
	artifact, err := loader.Load(name)
	if err != nil {
		return nil, err
	}
	return New(client, name, address, artifact.ABI, opts...)
}

func (b *Binding) Name() string            { return b.name }
func (b *Binding) Address() common.Address { return b.address }
func (b *Binding) ABI() abi.ABI            { return b.abi }

func (b *Binding) IsConnected(ctx context.Context) bool {
	return b.client.IsConnected(ctx)
}

// Functions lists one Function per distinct name, in declaration order.
func (b *Binding) Functions() []*Function {
	out := make([]*Function, 0, len(b.table.order))
	for _, name := range b.table.order {
		out = append(out, b.table.ops[name].function())
	}
	return out
}

func (b *Binding) Function(name string) (*Function, bool) {
	op, ok := b.table.ops[name]
	if !ok {
		return nil, false
	}
	return op.function(), true
}

// Invoke runs the function called name. Reads take the ABI arguments
// optionally followed by CallParams; writes take the ABI arguments followed
// by TxParams.
func (b *Binding) Invoke(ctx context.Context, name string, args ...any) (*Result, error) {
	op, ok := b.table.ops[name]
	if !ok {
		return nil, errno.ErrUnknownFunction.WithMessage("%s has no function %q", b.name, name)
	}

	switch op := op.(type) {
	case readOp:
		var params CallParams
		if n := len(args); n > 0 {
			switch p := args[n-1].(type) {
			case CallParams:
				params, args = p, args[:n-1]
			case *CallParams:
				if p != nil {
					params = *p
				}
				args = args[:n-1]
			}
		}
		return b.read(ctx, op.fn, args, params)

	case writeOp:
		n := len(args)
		if n == 0 {
			return nil, errno.ErrMissingSigner.WithMessage("no transaction parameters provided")
		}
		var params TxParams
		switch p := args[n-1].(type) {
		case TxParams:
			params = p
		case *TxParams:
			if p == nil {
				return nil, errno.ErrMissingSigner.WithMessage("no transaction parameters provided")
			}
			params = *p
		default:
			return nil, errno.ErrMissingSigner.WithMessage("last argument of %s must be TxParams, got %T", name, p)
		}
		return b.write(ctx, op.fn, args[:n-1], params)
	}
	return nil, errno.ErrUnknownFunction.WithMessage("%s: unsupported operation", name)
}

// Call invokes a read function.
func (b *Binding) Call(ctx context.Context, name string, params CallParams, args ...any) (*Result, error) {
	fn, err := b.lookup(name, Read)
	if err != nil {
		return nil, err
	}
	return b.read(ctx, fn, args, params)
}

// Transact invokes a write function.
func (b *Binding) Transact(ctx context.Context, name string, params TxParams, args ...any) (*Result, error) {
	fn, err := b.lookup(name, Write)
	if err != nil {
		return nil, err
	}
	return b.write(ctx, fn, args, params)
}

func (b *Binding) lookup(name string, kind Kind) (*Function, error) {
	fn, ok := b.Function(name)
	if !ok {
		return nil, errno.ErrUnknownFunction.WithMessage("%s has no function %q", b.name, name)
	}
	if fn.Kind != kind {
		return nil, errno.ErrInvalidParameter.WithMessage("%s is a %s function (%s)", name, fn.Kind, fn.Mutability)
	}
	return fn, nil
}

// read never fails on node or decoding errors: they are logged and returned
// behind Result.NoResult. Bad arguments are still reported as errors.
func (b *Binding) read(ctx context.Context, fn *Function, args []any, params CallParams) (*Result, error) {
	data, err := fn.Pack(args...)
	if err != nil {
		return nil, err
	}
	labels := monitor.Function(fn.Name)

	start := time.Now()
	out, err := b.client.Call(ctx, b.address, data, params.Block)
	b.metrics.ObserveLatency(monitor.OperationContractRead, time.Since(start), labels)

	var values []any
	if err == nil {
		values, err = fn.Unpack(out)
	}
	if err != nil {
		b.metrics.IncCounter(monitor.EventReadFailed, labels)
		b.log.Warn("Error calling function", zap.String("function", fn.Name), zap.Error(err))
		return &Result{err: err}, nil
	}
	return &Result{Values: values}, nil
}

func (b *Binding) write(ctx context.Context, fn *Function, args []any, params TxParams) (*Result, error) {
	if params.Nonce == nil && params.From == nil {
		return nil, errno.ErrMissingSigner
	}
	if params.Nonce == nil && !params.From.CanSign() {
		return nil, errno.ErrInvalidSigner.WithMessage("wallet %s has no signing capability", params.From.Address().Hex())
	}
	if params.Value != nil && params.Value.Sign() != 0 && !fn.Payable() {
		return nil, errno.ErrInvalidParameter.WithMessage("%s is not payable", fn.Name)
	}
	if params.Value != nil && params.Value.Sign() < 0 {
		return nil, errno.ErrInvalidParameter.WithMessage("negative value")
	}

	data, err := fn.Pack(args...)
	if err != nil {
		return nil, err
	}

	build := func(ctx context.Context) (*txn.Request, error) {
		p := txn.BuildParams{
			To:       &b.address,
			Data:     data,
			Value:    params.Value,
			Gas:      params.Gas,
			GasPrice: params.GasPrice,
			Nonce:    params.Nonce,
		}
		if params.From != nil {
			p.From = params.From.Address()
		}
		return b.builder.Build(ctx, p)
	}

	if params.Nonce != nil {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		return &Result{Result: txn.Result{Unsigned: req}}, nil
	}

	outcome, err := params.From.Execute(ctx, build, txn.SubmitOptions{Timeout: params.Timeout, Function: fn.Name})
	if err != nil {
		b.log.Warn("Error sending transaction", zap.String("function", fn.Name), zap.Error(err))
		return nil, err
	}
	return &Result{Result: txn.Result{Outcome: outcome}}, nil
}

// GetLogs returns logs matching q. A nil q selects this contract's logs in
// the latest block.
func (b *Binding) GetLogs(ctx context.Context, q *ethereum.FilterQuery) ([]types.Log, error) {
	if q == nil {
		q = &ethereum.FilterQuery{
			FromBlock: chain.LatestTag(),
			Addresses: []common.Address{b.address},
		}
	}
	return b.client.GetLogs(ctx, *q)
}

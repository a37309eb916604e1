package txn

import (
	"context"
	"time"

	"web3-core/internal/chain"
	"web3-core/pkg/errno"
	"web3-core/pkg/logger"
	"web3-core/pkg/monitor"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// SubmitOptions control a single submission.
type SubmitOptions struct {
	// Timeout: 0 applies Config policy, NoWait skips the receipt wait.
	Timeout time.Duration
	// Function labels logs and metrics with the contract function, if any.
	Function string
}

// Submitter broadcasts signed transactions and waits for their receipts.
type Submitter struct {
	client  chain.Client
	cfg     Config
	log     *zap.Logger
	metrics monitor.Recorder
}

type Option func(*Submitter)

func WithLogger(l *zap.Logger) Option {
	return func(s *Submitter) { s.log = l }
}

func WithRecorder(r monitor.Recorder) Option {
	return func(s *Submitter) { s.metrics = r }
}

func NewSubmitter(client chain.Client, cfg Config, opts ...Option) *Submitter {
	s := &Submitter{
		client:  client,
		cfg:     cfg,
		log:     logger.Named("txn"),
		metrics: monitor.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit broadcasts signed and then awaits it. A broadcast failure is
// returned as errno.ErrBroadcastFailed with a nil outcome. Once broadcast, the
// result is always an Outcome: a missing receipt is reported as TimedOut and a
// reverted transaction as Confirmed with a failed receipt.
func (s *Submitter) Submit(ctx context.Context, signed *types.Transaction, opts SubmitOptions) (*Outcome, error) {
	hash, err := s.Broadcast(ctx, signed, opts.Function)
	if err != nil {
		return nil, err
	}
	return s.Await(ctx, hash, opts), nil
}

// Broadcast sends signed to the node and returns its hash.
func (s *Submitter) Broadcast(ctx context.Context, signed *types.Transaction, function string) (common.Hash, error) {
	if s.client == nil {
		return common.Hash{}, errno.ErrNotConnected
	}
	labels := monitor.Function(function)

	raw, err := signed.MarshalBinary()
	if err != nil {
		return common.Hash{}, errno.ErrInvalidParameter.WithMessage("encode signed transaction").Wrap(err)
	}

	hash, err := s.client.SendRawTransaction(ctx, raw)
	if err != nil {
		s.metrics.IncCounter(monitor.EventBroadcastFailed, labels)
		s.log.Error("Transaction error", zap.String("function", function), zap.Error(err))
		return common.Hash{}, errno.ErrBroadcastFailed.Wrap(err)
	}
	s.metrics.IncCounter(monitor.EventTxBroadcast, labels)
	s.log.Info("Transaction sent", zap.String("tx", hash.Hex()), zap.String("function", function))
	return hash, nil
}

// Await resolves the outcome of a broadcast transaction. It never fails:
// anything that prevents reading the receipt ends as TimedOut.
func (s *Submitter) Await(ctx context.Context, hash common.Hash, opts SubmitOptions) *Outcome {
	labels := monitor.Function(opts.Function)

	wait := s.cfg.waitFor(opts.Timeout)
	if wait == 0 {
		return &Outcome{Kind: Submitted, Hash: hash}
	}

	start := time.Now()
	receipt, err := s.client.WaitForReceipt(ctx, hash, wait)
	s.metrics.ObserveLatency(monitor.OperationReceiptWait, time.Since(start), labels)
	if err != nil {
		s.metrics.IncCounter(monitor.EventTxTimedOut, labels)
		s.log.Warn("Transaction receipt not available",
			zap.String("tx", hash.Hex()), zap.Duration("timeout", wait), zap.Error(err))
		return &Outcome{Kind: TimedOut, Hash: hash}
	}

	if receipt.Status == types.ReceiptStatusSuccessful {
		s.metrics.IncCounter(monitor.EventTxConfirmed, labels)
		s.log.Info("Transaction successful",
			zap.String("tx", hash.Hex()), zap.Uint64("gas_used", receipt.GasUsed), zap.Stringer("block", receipt.BlockNumber))
	} else {
		s.metrics.IncCounter(monitor.EventTxReverted, labels)
		s.log.Warn("Transaction failed",
			zap.String("tx", hash.Hex()), zap.Uint64("gas_used", receipt.GasUsed), zap.Stringer("block", receipt.BlockNumber))
	}
	return &Outcome{Kind: Confirmed, Hash: hash, Receipt: receipt}
}

package wallet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"web3-core/internal/txn"
	"web3-core/pkg/errno"
	"web3-core/pkg/lock"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// TransferOptions for Transfer.
type TransferOptions struct {
	// GasPrice overrides the node's suggested price.
	GasPrice *big.Int
	// Unsigned returns the built request instead of signing and sending it,
	// for external signing.
	Unsigned bool
	// Timeout follows txn.SubmitOptions: 0 uses the policy, txn.NoWait skips the wait.
	Timeout time.Duration
}

// Sign signs req with the wallet key. The nonce is nonceOverride when given,
// else req.Nonce, else the account's current transaction count. Missing chain
// id and gas price are fetched from the node. req itself is not modified.
func (w *Wallet) Sign(ctx context.Context, req *txn.Request, nonceOverride *uint64) (*types.Transaction, error) {
	if w.key == nil {
		return nil, errno.ErrNoSigningCapability.WithMessage("wallet %s is address-only", w.address.Hex())
	}
	if req == nil {
		return nil, errno.ErrInvalidParameter.WithMessage("transaction request is nil")
	}
	r := req.Clone()

	switch {
	case nonceOverride != nil:
		r.Nonce = txn.Uint64(*nonceOverride)
	case r.Nonce == nil:
		nonce, err := w.Nonce(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve nonce: %w", err)
		}
		r.Nonce = &nonce
	}

	if r.ChainID == nil || r.GasPrice == nil {
		if w.client == nil {
			return nil, errno.ErrNotConnected
		}
	}
	if r.ChainID == nil {
		chainID, err := w.client.ChainID(ctx)
		if err != nil {
			return nil, err
		}
		r.ChainID = chainID
	}
	if r.GasPrice == nil {
		price, err := w.client.GasPrice(ctx)
		if err != nil {
			return nil, err
		}
		r.GasPrice = price
	}
	if r.Gas == 0 {
		r.Gas = txn.TransferGasLimit
		if len(r.Data) > 0 || r.To == nil {
			r.Gas = txn.DefaultGasLimit
			if w.cfg.Tx.GasLimit > 0 {
				r.Gas = w.cfg.Tx.GasLimit
			}
		}
	}

	tx, err := r.Transaction()
	if err != nil {
		return nil, err
	}
	return types.SignTx(tx, types.NewEIP155Signer(r.ChainID), w.key.privateKey)
}

// Send broadcasts signed. A broadcast failure is errno.ErrBroadcastFailed;
// after a successful broadcast the outcome is always returned.
func (w *Wallet) Send(ctx context.Context, signed *types.Transaction, timeout time.Duration) (*txn.Outcome, error) {
	return w.submitter.Submit(ctx, signed, txn.SubmitOptions{Timeout: timeout})
}

// Transfer sends amount wei to to. With opts.Unsigned the request is returned
// in the Result instead and nothing is signed.
func (w *Wallet) Transfer(ctx context.Context, to AddressLike, amount *big.Int, opts TransferOptions) (*txn.Result, error) {
	if w.client == nil {
		return nil, errno.ErrNotConnected
	}
	if to == nil {
		return nil, errno.ErrInvalidParameter.WithMessage("transfer recipient is nil")
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, errno.ErrInvalidParameter.WithMessage("transfer amount must be >= 0")
	}
	recipient := to.Address()

	build := func(ctx context.Context) (*txn.Request, error) {
		return w.builder.Build(ctx, txn.BuildParams{
			From:     w.address,
			To:       &recipient,
			Value:    amount,
			Gas:      txn.TransferGasLimit,
			GasPrice: opts.GasPrice,
		})
	}

	if opts.Unsigned {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		return &txn.Result{Unsigned: req}, nil
	}

	outcome, err := w.Execute(ctx, build, txn.SubmitOptions{Timeout: opts.Timeout})
	if err != nil {
		return nil, err
	}
	return &txn.Result{Outcome: outcome}, nil
}

// Execute runs build, signs and broadcasts the request, then awaits the
// outcome. With a nonce lock configured, the lock is held from build until
// the broadcast completes.
func (w *Wallet) Execute(ctx context.Context, build func(context.Context) (*txn.Request, error), opts txn.SubmitOptions) (*txn.Outcome, error) {
	if w.key == nil {
		return nil, errno.ErrNoSigningCapability.WithMessage("wallet %s is address-only", w.address.Hex())
	}

	hash, err := w.broadcast(ctx, build, opts.Function)
	if err != nil {
		return nil, err
	}
	return w.submitter.Await(ctx, hash, opts), nil
}

func (w *Wallet) broadcast(ctx context.Context, build func(context.Context) (*txn.Request, error), function string) (common.Hash, error) {
	if w.locker != nil {
		key := "nonce:" + w.address.Hex()
		if err := lock.Obtain(ctx, w.locker, key, w.cfg.NonceLockTTL); err != nil {
			return common.Hash{}, fmt.Errorf("acquire nonce lock: %w", err)
		}
		defer func() {
			if err := w.locker.Release(context.WithoutCancel(ctx), key); err != nil {
				w.log.Warn("Release nonce lock failed", zap.String("address", w.address.Hex()), zap.Error(err))
			}
		}()
	}

	req, err := build(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	signed, err := w.Sign(ctx, req, nil)
	if err != nil {
		return common.Hash{}, err
	}
	return w.submitter.Broadcast(ctx, signed, function)
}

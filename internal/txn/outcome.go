package txn

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// OutcomeKind is the terminal state reached by a submitted transaction.
type OutcomeKind int

const (
	// Submitted: broadcast, no confirmation was requested.
	Submitted OutcomeKind = iota
	// Confirmed: a receipt arrived; check Succeeded for the execution status.
	Confirmed
	// TimedOut: no receipt within the wait window. The transaction may still be
	// mined; poll for Hash later.
	TimedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case Submitted:
		return "submitted"
	case Confirmed:
		return "confirmed"
	case TimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is returned once a transaction has been broadcast. Hash is always set.
type Outcome struct {
	Kind    OutcomeKind
	Hash    common.Hash
	Receipt *types.Receipt
}

// Succeeded reports a mined transaction with status 1.
func (o *Outcome) Succeeded() bool {
	return o.Kind == Confirmed && o.Receipt != nil && o.Receipt.Status == types.ReceiptStatusSuccessful
}

// Reverted reports a mined transaction with status 0.
func (o *Outcome) Reverted() bool {
	return o.Kind == Confirmed && o.Receipt != nil && o.Receipt.Status == types.ReceiptStatusFailed
}

func (o *Outcome) String() string {
	switch {
	case o.Succeeded():
		return fmt.Sprintf("%s (success, block %v)", o.Hash.Hex(), o.Receipt.BlockNumber)
	case o.Reverted():
		return fmt.Sprintf("%s (failure, block %v)", o.Hash.Hex(), o.Receipt.BlockNumber)
	default:
		return fmt.Sprintf("%s (%s)", o.Hash.Hex(), o.Kind)
	}
}

// Result is what a write operation hands back: either the unsigned request,
// when the caller chose to sign elsewhere, or the outcome of the broadcast.
type Result struct {
	Unsigned *Request
	Outcome  *Outcome
}

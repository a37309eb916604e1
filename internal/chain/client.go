// Package chain is the RPC plumbing shared by wallets, contract bindings and
// the watcher. Implementations are stateless and safe for concurrent use.
package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Client is the narrow view of a chain node the toolkit depends on.
type Client interface {
	IsConnected(ctx context.Context) bool
	ChainID(ctx context.Context) (*big.Int, error)
	LatestBlock(ctx context.Context) (uint64, error)
	// GetBlock returns the block with the given number, or the latest block when number is nil.
	GetBlock(ctx context.Context, number *big.Int) (*types.Block, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	GetTransactionCount(ctx context.Context, account common.Address) (uint64, error)
	GetBalance(ctx context.Context, account common.Address) (*big.Int, error)
	GetLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	// WaitForReceipt polls until the receipt is available. On expiry it returns
	// an error matching errno.ErrConfirmationTimedOut.
	WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*types.Receipt, error)
	// Call executes a message call against the state at block (nil for latest).
	Call(ctx context.Context, to common.Address, data []byte, block *big.Int) ([]byte, error)
}

// Backend is the subset of the go-ethereum client used by EthClient.
// Both *ethclient.Client and the simulated backend client satisfy it.
type Backend interface {
	ethereum.BlockNumberReader
	ethereum.ChainReader
	ethereum.ChainStateReader
	ethereum.ContractCaller
	ethereum.GasPricer
	ethereum.LogFilterer
	ethereum.PendingStateReader
	ethereum.TransactionReader
	ethereum.TransactionSender
	ethereum.ChainIDReader
}

// LatestTag is the block number understood by GetLogs as "latest".
func LatestTag() *big.Int {
	return big.NewInt(-2)
}

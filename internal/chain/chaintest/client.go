// Package chaintest provides an in-memory chain.Client for tests.
package chaintest

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"web3-core/pkg/errno"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrUnavailable is returned by every RPC when Connected is false.
var ErrUnavailable = errors.New("chaintest: node unavailable")

// CallFunc answers eth_call requests.
type CallFunc func(to common.Address, data []byte, block *big.Int) ([]byte, error)

// Client is a scriptable chain.Client. The zero value is not usable, use New.
type Client struct {
	mu sync.Mutex

	Connected bool
	Chain     *big.Int
	Price     *big.Int
	Head      uint64
	Blocks    map[uint64]*types.Block
	Nonces    map[common.Address]uint64
	Balances  map[common.Address]*big.Int
	Logs      []types.Log

	// CallFn answers Call; nil makes Call fail.
	CallFn CallFunc
	// SendErr makes SendRawTransaction fail.
	SendErr error
	// Mine controls whether sent transactions get a receipt. When false,
	// WaitForReceipt blocks until its timeout and reports ErrConfirmationTimedOut.
	Mine bool
	// ReceiptStatus is the status given to mined transactions.
	ReceiptStatus uint64

	Sent       []*types.Transaction
	LogQueries []ethereum.FilterQuery
	CallCount  int
	receipts   map[common.Hash]*types.Receipt
}

// New returns a connected client on chain 1337 that mines every transaction successfully.
func New() *Client {
	return &Client{
		Connected:     true,
		Chain:         big.NewInt(1337),
		Price:         big.NewInt(2_000_000_000),
		Blocks:        make(map[uint64]*types.Block),
		Nonces:        make(map[common.Address]uint64),
		Balances:      make(map[common.Address]*big.Int),
		Mine:          true,
		ReceiptStatus: types.ReceiptStatusSuccessful,
		receipts:      make(map[common.Hash]*types.Receipt),
	}
}

func (c *Client) IsConnected(context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Connected
}

// SetConnected toggles node availability while other goroutines use the client.
func (c *Client) SetConnected(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Connected = ok
}

func (c *Client) ChainID(context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Connected {
		return nil, ErrUnavailable
	}
	return new(big.Int).Set(c.Chain), nil
}

func (c *Client) LatestBlock(context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Connected {
		return 0, ErrUnavailable
	}
	return c.Head, nil
}

func (c *Client) GetBlock(_ context.Context, number *big.Int) (*types.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Connected {
		return nil, ErrUnavailable
	}
	n := c.Head
	if number != nil {
		n = number.Uint64()
	}
	block, ok := c.Blocks[n]
	if !ok {
		return nil, ethereum.NotFound
	}
	return block, nil
}

// AddBlock registers a block and advances Head when it is newer.
func (c *Client) AddBlock(number uint64, timestamp uint64, txs ...*types.Transaction) *types.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	header := &types.Header{Number: new(big.Int).SetUint64(number), Time: timestamp}
	block := types.NewBlockWithHeader(header).WithBody(types.Body{Transactions: txs})
	c.Blocks[number] = block
	if number > c.Head {
		c.Head = number
	}
	return block
}

func (c *Client) GasPrice(context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Connected {
		return nil, ErrUnavailable
	}
	return new(big.Int).Set(c.Price), nil
}

func (c *Client) GetTransactionCount(_ context.Context, account common.Address) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Connected {
		return 0, ErrUnavailable
	}
	return c.Nonces[account], nil
}

func (c *Client) GetBalance(_ context.Context, account common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Connected {
		return nil, ErrUnavailable
	}
	if b, ok := c.Balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (c *Client) GetLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Connected {
		return nil, ErrUnavailable
	}
	c.LogQueries = append(c.LogQueries, q)

	var out []types.Log
	for _, l := range c.Logs {
		if len(q.Addresses) > 0 && !containsAddress(q.Addresses, l.Address) {
			continue
		}
		if q.FromBlock != nil && q.FromBlock.Sign() >= 0 && l.BlockNumber < q.FromBlock.Uint64() {
			continue
		}
		if q.ToBlock != nil && q.ToBlock.Sign() >= 0 && l.BlockNumber > q.ToBlock.Uint64() {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// SendRawTransaction decodes the envelope, bumps the sender nonce and records a receipt when Mine is set.
func (c *Client) SendRawTransaction(_ context.Context, raw []byte) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Connected {
		return common.Hash{}, ErrUnavailable
	}
	if c.SendErr != nil {
		return common.Hash{}, c.SendErr
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, err
	}
	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return common.Hash{}, err
	}
	c.Sent = append(c.Sent, tx)
	c.Nonces[from] = tx.Nonce() + 1

	if c.Mine {
		c.Head++
		c.receipts[tx.Hash()] = &types.Receipt{
			Status:      c.ReceiptStatus,
			TxHash:      tx.Hash(),
			GasUsed:     21000,
			BlockNumber: new(big.Int).SetUint64(c.Head),
		}
	}
	return tx.Hash(), nil
}

func (c *Client) WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	c.mu.Lock()
	receipt, ok := c.receipts[hash]
	c.mu.Unlock()
	if ok {
		return receipt, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, errno.ErrConfirmationTimedOut.Wrap(ctx.Err())
	case <-timer.C:
		return nil, errno.ErrConfirmationTimedOut.WithMessage("transaction %s not mined within %s", hash.Hex(), timeout)
	}
}

func (c *Client) Call(_ context.Context, to common.Address, data []byte, block *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount++
	if !c.Connected {
		return nil, ErrUnavailable
	}
	if c.CallFn == nil {
		return nil, errors.New("chaintest: no call handler")
	}
	return c.CallFn(to, data, block)
}

// LastSent returns the most recently broadcast transaction, or nil.
func (c *Client) LastSent() *types.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Sent) == 0 {
		return nil
	}
	return c.Sent[len(c.Sent)-1]
}

func containsAddress(list []common.Address, a common.Address) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}

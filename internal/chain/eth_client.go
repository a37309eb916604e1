package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"web3-core/pkg/errno"
	"web3-core/pkg/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	connectivityTimeout = 5 * time.Second
	defaultDialTimeout  = 10 * time.Second
)

// EthClient implements Client on top of a go-ethereum backend.
type EthClient struct {
	backend      Backend
	pollInterval time.Duration
	log          *zap.Logger
	close        func()
}

type Option func(*EthClient)

// WithPollInterval sets the receipt polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *EthClient) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *EthClient) {
		c.log = l
	}
}

// NewEthClient wraps an existing backend.
func NewEthClient(backend Backend, opts ...Option) *EthClient {
	c := &EthClient{
		backend:      backend,
		pollInterval: defaultPollInterval,
		log:          logger.Named("chain"),
		close:        func() {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to an RPC endpoint (http, ws or ipc).
func Dial(ctx context.Context, rawurl string, opts ...Option) (*EthClient, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultDialTimeout)
		defer cancel()
	}
	rpcClient, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, errno.ErrNotConnected.WithMessage("dial %s", rawurl).Wrap(err)
	}
	c := NewEthClient(rpcClient, opts...)
	c.close = rpcClient.Close
	return c, nil
}

// Close releases the underlying connection when the client was created by Dial.
func (c *EthClient) Close() {
	c.close()
}

func (c *EthClient) IsConnected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, connectivityTimeout)
	defer cancel()

	_, err := c.backend.BlockNumber(ctx)
	if err != nil {
		c.log.Debug("node not reachable", zap.Error(err))
	}
	return err == nil
}

func (c *EthClient) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain id: %w", err)
	}
	return id, nil
}

func (c *EthClient) LatestBlock(ctx context.Context) (uint64, error) {
	n, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("get block number: %w", err)
	}
	return n, nil
}

func (c *EthClient) GetBlock(ctx context.Context, number *big.Int) (*types.Block, error) {
	block, err := c.backend.BlockByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("get block %v: %w", blockLabel(number), err)
	}
	return block, nil
}

func (c *EthClient) GasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("get gas price: %w", err)
	}
	return price, nil
}

// GetTransactionCount returns the pending nonce so that queued transactions are accounted for.
func (c *EthClient) GetTransactionCount(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.backend.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("get nonce of %s: %w", account.Hex(), err)
	}
	return nonce, nil
}

func (c *EthClient) GetBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("get balance of %s: %w", account.Hex(), err)
	}
	return balance, nil
}

func (c *EthClient) GetLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	logs, err := c.backend.FilterLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("get logs: %w", err)
	}
	return logs, nil
}

// SendRawTransaction decodes the signed envelope and submits it.
func (c *EthClient) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, fmt.Errorf("decode raw transaction: %w", err)
	}
	if err := c.backend.SendTransaction(ctx, tx); err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

func (c *EthClient) WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	if timeout <= 0 {
		return nil, errno.ErrInvalidParameter.WithMessage("receipt timeout must be positive, got %s", timeout)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		// 未上链时节点返回 NotFound，其余错误同样继续轮询
		if !errors.Is(err, ethereum.NotFound) && ctx.Err() == nil {
			c.log.Debug("receipt lookup failed", zap.String("tx", hash.Hex()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, errno.ErrConfirmationTimedOut.
				WithMessage("transaction %s not mined within %s", hash.Hex(), timeout).
				Wrap(ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *EthClient) Call(ctx context.Context, to common.Address, data []byte, block *big.Int) ([]byte, error) {
	return c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, block)
}

func blockLabel(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	return number.String()
}

package contract

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"web3-core/internal/chain"
	"web3-core/internal/chain/chaintest"
	"web3-core/internal/txn"
	"web3-core/internal/wallet"
	"web3-core/pkg/errno"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hardhatKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	tokenAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	holder       = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func newToken(t *testing.T, client chain.Client) *Binding {
	t.Helper()
	b, err := Load(client, NewLoader("testdata"), "Token", wallet.Address(tokenAddress))
	require.NoError(t, err)
	return b
}

func signer(t *testing.T, client chain.Client) *wallet.Wallet {
	t.Helper()
	w, err := wallet.FromPrivateKey(client, hardhatKey)
	require.NoError(t, err)
	return w
}

func uint256Output(t *testing.T, v int64) []byte {
	t.Helper()
	typ, err := abi.NewType("uint256", "", nil)
	require.NoError(t, err)
	out, err := abi.Arguments{{Type: typ}}.Pack(big.NewInt(v))
	require.NoError(t, err)
	return out
}

func TestFunctions(t *testing.T) {
	b := newToken(t, chaintest.New())

	var names []string
	for _, fn := range b.Functions() {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"name", "decimals", "balanceOf", "transfer", "safeTransferFrom", "deposit", "setRoot"}, names)

	transfer, ok := b.Function("transfer")
	require.True(t, ok)
	assert.Equal(t, "transfer(address,uint256)", transfer.Signature)
	assert.Equal(t, "0xa9059cbb", transfer.SelectorHex())
	assert.Equal(t, []string{"to", "amount"}, transfer.ArgumentNames())
	assert.Equal(t, Write, transfer.Kind)
	assert.Len(t, transfer.Outputs, 1)

	balanceOf, _ := b.Function("balanceOf")
	assert.Equal(t, "0x70a08231", balanceOf.SelectorHex())
	assert.Equal(t, Read, balanceOf.Kind)

	decimals, _ := b.Function("decimals")
	assert.Equal(t, "pure", decimals.Mutability)
	assert.Equal(t, Read, decimals.Kind)

	deposit, _ := b.Function("deposit")
	assert.True(t, deposit.Payable())

	// overloads: the last declaration wins
	safe, _ := b.Function("safeTransferFrom")
	assert.Equal(t, "safeTransferFrom(address,address,uint256,bytes)", safe.Signature)

	_, ok = b.Function("Transfer")
	assert.False(t, ok, "events are not operations")
}

func TestDescribe(t *testing.T) {
	artifact, err := NewLoader("testdata").Load("Token")
	require.NoError(t, err)

	fns, err := Describe(artifact.ABI)
	require.NoError(t, err)
	require.Len(t, fns, 7)
	assert.Equal(t, "name", fns[0].Name)
	assert.Equal(t, "safeTransferFrom(address,address,uint256,bytes)", fns[4].Signature)

	_, err = Describe([]byte(`not json`))
	assert.ErrorIs(t, err, errno.ErrAbiLoad)
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(nil, "Token", wallet.Address(tokenAddress), []byte(`[]`))
	assert.ErrorIs(t, err, errno.ErrNotConnected)

	_, err = New(chaintest.New(), "Token", wallet.Address(tokenAddress), []byte(`{"abi"`))
	assert.ErrorIs(t, err, errno.ErrAbiLoad)
}

func TestReadBalanceOf(t *testing.T) {
	client := chaintest.New()
	b := newToken(t, client)
	balanceOf, _ := b.Function("balanceOf")

	var gotBlock *big.Int
	client.CallFn = func(to common.Address, data []byte, block *big.Int) ([]byte, error) {
		assert.Equal(t, tokenAddress, to)
		assert.True(t, bytes.HasPrefix(data, balanceOf.Selector[:]))
		assert.Equal(t, holder.Bytes(), data[4+12:4+32])
		gotBlock = block
		return uint256Output(t, 1000), nil
	}

	holderWallet, err := wallet.FromAddress(client, holder.Hex())
	require.NoError(t, err)

	// a wallet stands in for its address
	res, err := b.Invoke(context.Background(), "balanceOf", holderWallet)
	require.NoError(t, err)
	require.False(t, res.NoResult())
	assert.Equal(t, big.NewInt(1000), res.Value())
	assert.Nil(t, gotBlock)

	res, err = b.Invoke(context.Background(), "balanceOf", holder.Hex(), CallParams{Block: big.NewInt(5)})
	require.NoError(t, err)
	assert.Equal(t, int64(5), gotBlock.Int64())
	assert.Equal(t, big.NewInt(1000), res.Value())

	res, err = b.Call(context.Background(), "balanceOf", CallParams{}, holder)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), res.Value())
}

func TestReadSentinel(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *chaintest.Client)
	}{
		{"node error", func(c *chaintest.Client) { c.Connected = false }},
		{"call reverted", func(c *chaintest.Client) {
			c.CallFn = func(common.Address, []byte, *big.Int) ([]byte, error) { return nil, errors.New("execution reverted") }
		}},
		{"empty return data", func(c *chaintest.Client) {
			c.CallFn = func(common.Address, []byte, *big.Int) ([]byte, error) { return nil, nil }
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := chaintest.New()
			b := newToken(t, client)
			tt.setup(client)

			res, err := b.Invoke(context.Background(), "balanceOf", wallet.Address(holder))
			require.NoError(t, err)
			assert.True(t, res.NoResult())
			assert.Error(t, res.Err())
			assert.Nil(t, res.Value())
		})
	}
}

func TestReadBadArguments(t *testing.T) {
	client := chaintest.New()
	b := newToken(t, client)

	_, err := b.Invoke(context.Background(), "balanceOf")
	assert.ErrorIs(t, err, errno.ErrInvalidParameter)

	_, err = b.Invoke(context.Background(), "balanceOf", "not-an-address")
	assert.ErrorIs(t, err, errno.ErrInvalidParameter)
	assert.Zero(t, client.CallCount)

	_, err = b.Invoke(context.Background(), "mint", holder)
	assert.ErrorIs(t, err, errno.ErrUnknownFunction)

	_, err = b.Call(context.Background(), "transfer", CallParams{}, holder, 1)
	assert.ErrorIs(t, err, errno.ErrInvalidParameter)
}

func TestWriteSignerRules(t *testing.T) {
	client := chaintest.New()
	b := newToken(t, client)
	ctx := context.Background()

	_, err := b.Invoke(ctx, "transfer", holder, 1)
	assert.ErrorIs(t, err, errno.ErrMissingSigner)

	_, err = b.Invoke(ctx, "transfer", holder, 1, TxParams{})
	assert.ErrorIs(t, err, errno.ErrMissingSigner)

	_, err = b.Invoke(ctx, "deposit")
	assert.ErrorIs(t, err, errno.ErrMissingSigner)

	readOnly, err := wallet.FromAddress(client, holder.Hex())
	require.NoError(t, err)
	_, err = b.Invoke(ctx, "transfer", holder, 1, TxParams{From: readOnly})
	assert.ErrorIs(t, err, errno.ErrInvalidSigner)

	assert.Empty(t, client.Sent)
}

func TestWriteNonceWins(t *testing.T) {
	client := chaintest.New()
	b := newToken(t, client)
	from := signer(t, client)

	res, err := b.Invoke(context.Background(), "transfer", holder, big.NewInt(25), &TxParams{Nonce: txn.Uint64(4), From: from})
	require.NoError(t, err)

	require.NotNil(t, res.Unsigned)
	assert.Nil(t, res.Outcome)
	assert.Empty(t, client.Sent)

	req := res.Unsigned
	assert.Equal(t, uint64(4), *req.Nonce)
	assert.Equal(t, tokenAddress, *req.To)
	assert.Equal(t, txn.DefaultGasLimit, req.Gas)
	assert.Equal(t, client.Price, req.GasPrice)
	assert.Equal(t, int64(1337), req.ChainID.Int64())
	assert.Equal(t, "a9059cbb", common.Bytes2Hex(req.Data[:4]))
}

func TestWriteSend(t *testing.T) {
	client := chaintest.New()
	b := newToken(t, client)
	from := signer(t, client)
	client.Nonces[from.Address()] = 11

	res, err := b.Invoke(context.Background(), "transfer", holder, 25, TxParams{From: from, Gas: 60_000})
	require.NoError(t, err)
	require.NotNil(t, res.Outcome)
	assert.True(t, res.Outcome.Succeeded())

	sent := client.LastSent()
	require.NotNil(t, sent)
	assert.Equal(t, sent.Hash(), res.Outcome.Hash)
	assert.Equal(t, uint64(11), sent.Nonce())
	assert.Equal(t, uint64(60_000), sent.Gas())
	assert.Equal(t, tokenAddress, *sent.To())

	transfer, _ := b.Function("transfer")
	want, err := transfer.Pack(holder, 25)
	require.NoError(t, err)
	assert.Equal(t, want, sent.Data())
}

func TestWriteOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("timeout", func(t *testing.T) {
		client := chaintest.New()
		client.Mine = false
		b := newToken(t, client)

		res, err := b.Transact(ctx, "transfer", TxParams{From: signer(t, client), Timeout: 20 * time.Millisecond}, holder, 1)
		require.NoError(t, err)
		assert.Equal(t, txn.TimedOut, res.Outcome.Kind)
		assert.Equal(t, client.LastSent().Hash(), res.Outcome.Hash)
	})

	t.Run("reverted", func(t *testing.T) {
		client := chaintest.New()
		client.ReceiptStatus = types.ReceiptStatusFailed
		b := newToken(t, client)

		res, err := b.Transact(ctx, "transfer", TxParams{From: signer(t, client)}, holder, 1)
		require.NoError(t, err)
		assert.True(t, res.Outcome.Reverted())
	})

	t.Run("broadcast failure", func(t *testing.T) {
		client := chaintest.New()
		client.SendErr = errors.New("replacement transaction underpriced")
		b := newToken(t, client)

		res, err := b.Transact(ctx, "transfer", TxParams{From: signer(t, client)}, holder, 1)
		assert.ErrorIs(t, err, errno.ErrBroadcastFailed)
		assert.Nil(t, res)
	})

	t.Run("no wait", func(t *testing.T) {
		client := chaintest.New()
		b := newToken(t, client)

		res, err := b.Transact(ctx, "transfer", TxParams{From: signer(t, client), Timeout: txn.NoWait}, holder, 1)
		require.NoError(t, err)
		assert.Equal(t, txn.Submitted, res.Outcome.Kind)
	})
}

func TestWritePayable(t *testing.T) {
	client := chaintest.New()
	b := newToken(t, client)
	from := signer(t, client)
	ctx := context.Background()

	res, err := b.Transact(ctx, "deposit", TxParams{From: from, Value: big.NewInt(500)})
	require.NoError(t, err)
	assert.True(t, res.Outcome.Succeeded())
	assert.Equal(t, int64(500), client.LastSent().Value().Int64())

	_, err = b.Transact(ctx, "transfer", TxParams{From: from, Value: big.NewInt(1)}, holder, 1)
	assert.ErrorIs(t, err, errno.ErrInvalidParameter)
}

func TestGetLogs(t *testing.T) {
	client := chaintest.New()
	client.Logs = []types.Log{
		{Address: tokenAddress, BlockNumber: 3},
		{Address: holder, BlockNumber: 3},
	}
	b := newToken(t, client)

	logs, err := b.GetLogs(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	require.Len(t, client.LogQueries, 1)
	q := client.LogQueries[0]
	assert.Equal(t, int64(-2), q.FromBlock.Int64())
	assert.Equal(t, []common.Address{tokenAddress}, q.Addresses)

	logs, err = b.GetLogs(context.Background(), &ethereum.FilterQuery{FromBlock: big.NewInt(4)})
	require.NoError(t, err)
	assert.Empty(t, logs)

	assert.True(t, b.IsConnected(context.Background()))
}

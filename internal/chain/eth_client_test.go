package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"web3-core/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulated(t *testing.T) (*simulated.Backend, *EthClient, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	funds, _ := new(big.Int).SetString("100000000000000000000", 10)
	sim := simulated.NewBackend(types.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: funds},
	})
	t.Cleanup(func() { _ = sim.Close() })

	return sim, NewEthClient(sim.Client(), WithPollInterval(10*time.Millisecond)), key
}

func signedTransfer(t *testing.T, c *EthClient, key *ecdsa.PrivateKey, to common.Address, value *big.Int) *types.Transaction {
	t.Helper()
	ctx := context.Background()

	chainID, err := c.ChainID(ctx)
	require.NoError(t, err)
	gasPrice, err := c.GasPrice(ctx)
	require.NoError(t, err)
	nonce, err := c.GetTransactionCount(ctx, crypto.PubkeyToAddress(key.PublicKey))
	require.NoError(t, err)

	tx := types.NewTransaction(nonce, to, value, 21000, gasPrice, nil)
	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), key)
	require.NoError(t, err)
	return signed
}

func TestEthClientQueries(t *testing.T) {
	sim, c, key := newSimulated(t)
	ctx := context.Background()

	assert.True(t, c.IsConnected(ctx))

	chainID, err := c.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1337), chainID.Int64())

	sim.Commit()
	head, err := c.LatestBlock(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, head, uint64(1))

	block, err := c.GetBlock(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, head, block.NumberU64())

	balance, err := c.GetBalance(ctx, crypto.PubkeyToAddress(key.PublicKey))
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000000", balance.String())
}

func TestEthClientSendAndWait(t *testing.T) {
	sim, c, key := newSimulated(t)
	ctx := context.Background()
	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	signed := signedTransfer(t, c, key, to, big.NewInt(12345))
	raw, err := signed.MarshalBinary()
	require.NoError(t, err)

	hash, err := c.SendRawTransaction(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, signed.Hash(), hash)

	go func() {
		time.Sleep(30 * time.Millisecond)
		sim.Commit()
	}()

	receipt, err := c.WaitForReceipt(ctx, hash, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	balance, err := c.GetBalance(ctx, to)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), balance.Int64())

	nonce, err := c.GetTransactionCount(ctx, crypto.PubkeyToAddress(key.PublicKey))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)
}

func TestEthClientWaitTimeout(t *testing.T) {
	_, c, _ := newSimulated(t)

	start := time.Now()
	_, err := c.WaitForReceipt(context.Background(), common.HexToHash("0xdead"), 50*time.Millisecond)
	assert.ErrorIs(t, err, errno.ErrConfirmationTimedOut)
	assert.Less(t, time.Since(start), 2*time.Second)

	_, err = c.WaitForReceipt(context.Background(), common.HexToHash("0xdead"), 0)
	assert.ErrorIs(t, err, errno.ErrInvalidParameter)
}

func TestEthClientRejectsGarbage(t *testing.T) {
	_, c, _ := newSimulated(t)
	_, err := c.SendRawTransaction(context.Background(), []byte{0x01, 0x02})
	assert.Error(t, err)
}

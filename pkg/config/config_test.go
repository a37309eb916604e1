package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, uint64(1_000_000), cfg.Tx.GasLimit)
	assert.Equal(t, 120*time.Second, cfg.Tx.ReceiptTimeout)
	assert.True(t, cfg.Tx.WaitForReceipt)
	assert.Equal(t, "./out", cfg.Contracts.OutPath)
	assert.Equal(t, 2*time.Second, cfg.Watch.Interval)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
chain:
  rpc_url: "https://rpc.sepolia.org"
tx:
  gas_limit: 250000
  receipt_timeout: 30s
watch:
  mq_type: kafka
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("WALLET_PASSWORD", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.sepolia.org", cfg.Chain.RpcUrl)
	assert.Equal(t, uint64(250000), cfg.Tx.GasLimit)
	assert.Equal(t, 30*time.Second, cfg.Tx.ReceiptTimeout)
	assert.Equal(t, "kafka", cfg.Watch.MQType)
	assert.Equal(t, "from-env", cfg.Wallet.Password)
}

package wallet

import (
	"time"

	"web3-core/internal/txn"
	"web3-core/pkg/bip32"
	"web3-core/pkg/keystore"
	"web3-core/pkg/lock"
	"web3-core/pkg/monitor"

	"go.uber.org/zap"
)

// DefaultNonceLockTTL bounds how long one send may hold the per-address nonce lock.
const DefaultNonceLockTTL = 30 * time.Second

// Config is passed to every constructor. The zero value is not valid, start
// from DefaultConfig.
type Config struct {
	Tx txn.Config
	// KDF is the scrypt cost used for vaults created by this package.
	KDF keystore.ScryptParams
	// BasePath is the derivation path whose final segment is replaced by the index.
	BasePath     string
	NonceLockTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		Tx:           txn.DefaultConfig(),
		KDF:          keystore.StandardScrypt,
		BasePath:     bip32.DefaultPath,
		NonceLockTTL: DefaultNonceLockTTL,
	}
}

type Option func(*Wallet)

func WithConfig(cfg Config) Option {
	return func(w *Wallet) { w.cfg = cfg }
}

func WithTxConfig(cfg txn.Config) Option {
	return func(w *Wallet) { w.cfg.Tx = cfg }
}

func WithKDF(params keystore.ScryptParams) Option {
	return func(w *Wallet) { w.cfg.KDF = params }
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Wallet) { w.log = l }
}

func WithRecorder(r monitor.Recorder) Option {
	return func(w *Wallet) { w.metrics = r }
}

// WithNonceLock serializes nonce resolution through broadcast per address.
// Without it, concurrent sends from one address may pick the same nonce.
func WithNonceLock(l lock.DistributedLock) Option {
	return func(w *Wallet) { w.locker = l }
}

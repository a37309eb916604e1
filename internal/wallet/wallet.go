// Package wallet manages key lifecycle (generation, mnemonic import, vault
// decryption) and signs and sends transactions for one account.
package wallet

import (
	"context"
	"math/big"
	"strings"

	"web3-core/internal/chain"
	"web3-core/internal/txn"
	"web3-core/pkg/bip32"
	"web3-core/pkg/bip39"
	"web3-core/pkg/errno"
	"web3-core/pkg/keystore"
	"web3-core/pkg/lock"
	"web3-core/pkg/logger"
	"web3-core/pkg/monitor"
	"web3-core/pkg/safe_random"
	"web3-core/pkg/validator"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// Wallet is either a signer backed by KeyMaterial or a read-only address.
// The address never changes after construction.
type Wallet struct {
	address  common.Address
	key      *KeyMaterial
	vault    *keystore.Vault
	language bip39.Language

	client    chain.Client
	cfg       Config
	log       *zap.Logger
	metrics   monitor.Recorder
	locker    lock.DistributedLock
	builder   *txn.Builder
	submitter *txn.Submitter
}

// CreateOptions for Create. Zero Words means 12, an empty Language means english.
type CreateOptions struct {
	Words    int            `validate:"oneof=12 15 18 21 24"`
	Language bip39.Language `validate:"mnemonic_language"`
	Index    int            `validate:"gte=0,lt=2147483648"` // non-hardened child index
	// Password encrypts the vault. A random one is generated when empty.
	Password string
}

// MnemonicOptions for FromMnemonic. A positive Index replaces the last
// segment of Path; Path defaults to the configured base path.
type MnemonicOptions struct {
	Index    int            `validate:"gte=0,lt=2147483648"`
	Language bip39.Language `validate:"mnemonic_language"`
	Path     string
	Password string
}

func newWallet(client chain.Client, opts []Option) *Wallet {
	w := &Wallet{
		client:  client,
		cfg:     DefaultConfig(),
		log:     logger.Named("wallet"),
		metrics: monitor.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.builder = txn.NewBuilder(client, w.cfg.Tx)
	w.submitter = txn.NewSubmitter(client, w.cfg.Tx, txn.WithLogger(w.log), txn.WithRecorder(w.metrics))
	return w
}

// Create generates a fresh mnemonic and derives the key at the configured base
// path with Index as the final segment. It returns the vault password, which
// is the generated one when opts.Password is empty.
func Create(client chain.Client, opts CreateOptions, options ...Option) (*Wallet, string, error) {
	if opts.Words == 0 {
		opts.Words = 12
	}
	if opts.Language == "" {
		opts.Language = bip39.English
	}
	if err := validator.Struct(opts); err != nil {
		return nil, "", err
	}

	w := newWallet(client, options)
	path, err := bip32.ReplaceIndex(w.cfg.BasePath, uint32(opts.Index))
	if err != nil {
		return nil, "", errno.ErrInvalidParameter.Wrap(err)
	}

	svc, err := bip39.NewMnemonicServiceWithLanguage(opts.Language)
	if err != nil {
		return nil, "", errno.ErrInvalidParameter.Wrap(err)
	}
	mnemonic, err := svc.GenerateWords(opts.Words)
	if err != nil {
		return nil, "", err
	}

	key, err := derive(svc, mnemonic, path)
	if err != nil {
		return nil, "", err
	}

	password, err := w.attach(key, opts.Password)
	if err != nil {
		return nil, "", err
	}
	w.language = opts.Language
	w.log.Info("Wallet created", zap.String("address", w.address.Hex()), zap.String("path", path))
	return w, password, nil
}

// FromMnemonic restores the key for mnemonic. The word count is checked
// first and reported as InvalidMnemonic, as is a bad checksum.
func FromMnemonic(client chain.Client, mnemonic string, opts MnemonicOptions, options ...Option) (*Wallet, string, error) {
	if n := bip39.WordCount(mnemonic); !bip39.ValidWordCount(n) {
		return nil, "", errno.ErrInvalidMnemonic.WithMessage("mnemonic has %d words, expected one of %v", n, bip39.ValidWordCounts)
	}
	if opts.Language == "" {
		opts.Language = bip39.English
	}
	if err := validator.Struct(opts); err != nil {
		return nil, "", err
	}

	w := newWallet(client, options)
	path := opts.Path
	if path == "" {
		path = w.cfg.BasePath
	}
	if err := bip32.ValidatePath(path); err != nil {
		return nil, "", errno.ErrInvalidParameter.Wrap(err)
	}
	if opts.Index > 0 {
		var err error
		if path, err = bip32.ReplaceIndex(path, uint32(opts.Index)); err != nil {
			return nil, "", errno.ErrInvalidParameter.Wrap(err)
		}
	}

	svc, err := bip39.NewMnemonicServiceWithLanguage(opts.Language)
	if err != nil {
		return nil, "", errno.ErrInvalidParameter.Wrap(err)
	}
	if !svc.ValidateMnemonic(mnemonic) {
		return nil, "", errno.ErrInvalidMnemonic.WithMessage("mnemonic checksum or wordlist (%s) mismatch", opts.Language)
	}

	key, err := derive(svc, mnemonic, path)
	if err != nil {
		return nil, "", err
	}
	password, err := w.attach(key, opts.Password)
	if err != nil {
		return nil, "", err
	}
	w.language = opts.Language
	return w, password, nil
}

// FromVault decrypts vault. Any failure, including a wrong password, is DecryptionFailed.
func FromVault(client chain.Client, vault *keystore.Vault, password string, options ...Option) (*Wallet, error) {
	if vault == nil {
		return nil, errno.ErrDecryptionFailed.WithMessage("vault is nil")
	}
	raw, err := keystore.Decrypt(vault, password)
	if err != nil {
		return nil, errno.ErrDecryptionFailed.Wrap(err)
	}
	priv, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, errno.ErrDecryptionFailed.Wrap(err)
	}

	w := newWallet(client, options)
	w.key = NewKeyMaterial(priv, "", "")
	w.address = w.key.Address()
	w.vault = vault
	return w, nil
}

// FromPrivateKey wraps a hex-encoded private key. The wallet has no vault.
func FromPrivateKey(client chain.Client, hexKey string, options ...Option) (*Wallet, error) {
	priv, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, errno.ErrInvalidParameter.WithMessage("invalid private key").Wrap(err)
	}
	w := newWallet(client, options)
	w.key = NewKeyMaterial(priv, "", "")
	w.address = w.key.Address()
	return w, nil
}

// FromAddress returns a read-only wallet for address.
func FromAddress(client chain.Client, address string, options ...Option) (*Wallet, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}
	w := newWallet(client, options)
	w.address = addr.Address()
	return w, nil
}

func derive(svc *bip39.MnemonicService, mnemonic, path string) (*KeyMaterial, error) {
	seed := svc.MnemonicToSeed(mnemonic, "")
	hd, err := bip32.NewMasterKeyFromSeed(seed, nil)
	if err != nil {
		return nil, err
	}
	ext, err := hd.DerivePath(path)
	if err != nil {
		return nil, errno.ErrInvalidParameter.Wrap(err)
	}
	priv, err := ext.ECDSA()
	if err != nil {
		return nil, err
	}
	return NewKeyMaterial(priv, path, strings.Join(strings.Fields(mnemonic), " ")), nil
}

// attach binds key to the wallet and encrypts it, generating a password if needed.
func (w *Wallet) attach(key *KeyMaterial, password string) (string, error) {
	if password == "" {
		var err error
		if password, err = safe_random.GeneratePassword(safe_random.DefaultPasswordLength); err != nil {
			return "", err
		}
	}
	vault, err := keystore.Encrypt(key.Bytes(), key.Address(), password, w.cfg.KDF)
	if err != nil {
		return "", err
	}
	w.key = key
	w.address = key.Address()
	w.vault = vault
	return password, nil
}

// Address implements AddressLike.
func (w *Wallet) Address() common.Address { return w.address }

// CanSign reports whether the wallet holds a private key.
func (w *Wallet) CanSign() bool { return w.key != nil }

// Vault is nil for address-only and raw private key wallets.
func (w *Wallet) Vault() *keystore.Vault { return w.vault }

func (w *Wallet) Language() bip39.Language { return w.language }

// Mnemonic is empty unless the wallet was created or imported from one.
func (w *Wallet) Mnemonic() string {
	if w.key == nil {
		return ""
	}
	return w.key.Mnemonic()
}

func (w *Wallet) Path() string {
	if w.key == nil {
		return ""
	}
	return w.key.Path()
}

// Index is the final segment of Path, or -1 when the key was not derived.
func (w *Wallet) Index() int {
	if w.Path() == "" {
		return -1
	}
	index, err := bip32.IndexFromPath(w.Path())
	if err != nil {
		return -1
	}
	return int(index)
}

// PrivateKeyHex returns the 0x-prefixed private key, or "" for read-only wallets.
func (w *Wallet) PrivateKeyHex() string {
	if w.key == nil {
		return ""
	}
	return w.key.hex()
}

func (w *Wallet) Client() chain.Client { return w.client }

func (w *Wallet) Nonce(ctx context.Context) (uint64, error) {
	if w.client == nil {
		return 0, errno.ErrNotConnected
	}
	return w.client.GetTransactionCount(ctx, w.address)
}

func (w *Wallet) Balance(ctx context.Context) (*big.Int, error) {
	if w.client == nil {
		return nil, errno.ErrNotConnected
	}
	return w.client.GetBalance(ctx, w.address)
}

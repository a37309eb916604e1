package bip32

import (
	"encoding/hex"
	"errors"
	"testing"

	"web3-core/pkg/bip39"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Hardhat / Anvil 默认测试助记词
const testMnemonic = "test test test test test test test test test test test junk"

func TestNewMasterKeyFromSeed(t *testing.T) {
	mnemonicService := bip39.NewMnemonicService()
	mnemonic, err := mnemonicService.GenerateMnemonic(128)
	if err != nil {
		t.Fatalf("生成助记词失败: %v", err)
	}
	seed := mnemonicService.MnemonicToSeed(mnemonic, "")

	wallet, err := NewMasterKeyFromSeed(seed, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("生成主密钥失败: %v", err)
	}
	if wallet.MasterKey() == nil {
		t.Fatalf("主密钥为空")
	}

	if _, err := NewMasterKeyFromSeed(seed[:8], nil); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("过短的种子应返回 ErrInvalidSeed, 实际: %v", err)
	}
}

func TestDeriveEthereumAddress(t *testing.T) {
	seed := bip39.NewMnemonicService().MnemonicToSeed(testMnemonic, "")
	wallet, err := NewMasterKeyFromSeed(seed, nil)
	require.NoError(t, err)

	tests := []struct {
		path    string
		address string
	}{
		{"m/44'/60'/0'/0/0", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"},
		{"m/44h/60h/0h/0/1", "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			key, err := wallet.DerivePath(tt.path)
			require.NoError(t, err)

			addr, err := key.Address()
			require.NoError(t, err)
			assert.Equal(t, tt.address, addr.Hex())

			priv, err := key.ECDSA()
			require.NoError(t, err)
			assert.Equal(t, tt.address, crypto.PubkeyToAddress(priv.PublicKey).Hex())
		})
	}

	key, err := wallet.DerivePath(DefaultPath)
	require.NoError(t, err)
	priv, err := key.ECDSA()
	require.NoError(t, err)
	assert.Equal(t,
		"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
		hex.EncodeToString(crypto.FromECDSA(priv)))
}

func TestNeuter(t *testing.T) {
	seed, _ := hex.DecodeString("fffcf9f6da3247d8a846f4b6113e6173")
	wallet, err := NewMasterKeyFromSeed(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)

	child, err := wallet.DerivePath("m/44'/60'/0'/0/0")
	require.NoError(t, err)

	pub, err := child.Neuter()
	require.NoError(t, err)
	assert.False(t, pub.IsPrivate())

	privAddr, _ := child.Address()
	pubAddr, _ := pub.Address()
	assert.Equal(t, privAddr, pubAddr)
}

func TestParsePath(t *testing.T) {
	indexes, err := ParsePath("m/44'/60'/0'/0/7")
	require.NoError(t, err)
	assert.Equal(t, []uint32{
		44 + hdkeychain.HardenedKeyStart,
		60 + hdkeychain.HardenedKeyStart,
		hdkeychain.HardenedKeyStart,
		0,
		7,
	}, indexes)

	for _, bad := range []string{"44'/60'", "m/44'/x/0", "m/4294967296"} {
		_, err := ParsePath(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}
}

func TestPathHelpers(t *testing.T) {
	assert.NoError(t, ValidatePath(DefaultPath))
	assert.ErrorIs(t, ValidatePath("m/44'/60'/0'/0"), ErrInvalidPath)

	index, err := IndexFromPath("m/44'/60'/0'/0/12")
	require.NoError(t, err)
	assert.Equal(t, uint32(12), index)

	_, err = IndexFromPath("m/44'/60'/0'/0/1'")
	assert.ErrorIs(t, err, ErrInvalidPath)

	path, err := ReplaceIndex(DefaultPath, 15)
	require.NoError(t, err)
	assert.Equal(t, "m/44'/60'/0'/0/15", path)
}

package wallet

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyMaterial is a private key and the address derived from it. The address
// is never set independently of the key.
type KeyMaterial struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	path       string
	mnemonic   string
}

// NewKeyMaterial wraps priv. path and mnemonic are empty for keys that were
// not derived from a seed.
func NewKeyMaterial(priv *ecdsa.PrivateKey, path, mnemonic string) *KeyMaterial {
	return &KeyMaterial{
		privateKey: priv,
		address:    crypto.PubkeyToAddress(priv.PublicKey),
		path:       path,
		mnemonic:   mnemonic,
	}
}

func (k *KeyMaterial) Address() common.Address { return k.address }
func (k *KeyMaterial) Path() string            { return k.path }
func (k *KeyMaterial) Mnemonic() string        { return k.mnemonic }

// Bytes returns the 32-byte private scalar.
func (k *KeyMaterial) Bytes() []byte {
	return crypto.FromECDSA(k.privateKey)
}

func (k *KeyMaterial) hex() string {
	return hexutil.Encode(k.Bytes())
}

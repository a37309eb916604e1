package keystore

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func addressOf(t *testing.T, key []byte) common.Address {
	t.Helper()
	priv, err := crypto.ToECDSA(key)
	if err != nil {
		t.Fatalf("ToECDSA failed: %v", err)
	}
	return crypto.PubkeyToAddress(priv.PublicKey)
}

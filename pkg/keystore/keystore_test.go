package keystore

import (
	"encoding/hex"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
)

func newTestKey(t *testing.T) ([]byte, string) {
	t.Helper()
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	return crypto.FromECDSA(priv), crypto.PubkeyToAddress(priv.PublicKey).Hex()
}

func TestEncryptDecrypt(t *testing.T) {
	key, address := newTestKey(t)
	password := "secure-password"

	vault, err := Encrypt(key, addressOf(t, key), password, LightScrypt)
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	if vault.Crypto.Cipher != "aes-256-gcm" {
		t.Errorf("Expected cipher aes-256-gcm, got %s", vault.Crypto.Cipher)
	}
	if vault.AddressHex() != address {
		t.Errorf("Expected address %s, got %s", address, vault.AddressHex())
	}

	plaintext, err := Decrypt(vault, password)
	if err != nil {
		t.Fatalf("Decryption failed: %v", err)
	}
	if hex.EncodeToString(plaintext) != hex.EncodeToString(key) {
		t.Errorf("Decryption mismatch")
	}

	if _, err := Decrypt(vault, "wrong-password"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("Expected ErrDecrypt with wrong password, got %v", err)
	}
}

func TestDecryptCorrupted(t *testing.T) {
	key, _ := newTestKey(t)
	vault, err := Encrypt(key, addressOf(t, key), "pw", LightScrypt)
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(v *Vault)
	}{
		{"bad ciphertext hex", func(v *Vault) { v.Crypto.CipherText = "zz" }},
		{"negative dklen", func(v *Vault) { v.Crypto.KDFParams.DKLen = -1 }},
		{"short dklen", func(v *Vault) { v.Crypto.KDFParams.DKLen = 16 }},
		{"zero n", func(v *Vault) { v.Crypto.KDFParams.N = 0 }},
		{"zero r", func(v *Vault) { v.Crypto.KDFParams.R = 0 }},
		{"negative p", func(v *Vault) { v.Crypto.KDFParams.P = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := *vault
			tt.mutate(&tampered)
			if _, err := Decrypt(&tampered, "pw"); !errors.Is(err, ErrDecrypt) {
				t.Errorf("Expected ErrDecrypt, got %v", err)
			}
		})
	}

	tampered := *vault

	other, _ := newTestKey(t)
	tampered = *vault
	tampered.Address = hex.EncodeToString(addressOf(t, other).Bytes())
	if _, err := Decrypt(&tampered, "pw"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("Expected ErrDecrypt for address mismatch, got %v", err)
	}
}

func TestDecryptGethKeystore(t *testing.T) {
	priv, _ := crypto.GenerateKey()
	key := &keystore.Key{
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}
	data, err := keystore.EncryptKey(key, "geth-pw", keystore.LightScryptN, keystore.LightScryptP)
	if err != nil {
		t.Fatalf("geth EncryptKey failed: %v", err)
	}

	vault, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if vault.Crypto.Cipher != "aes-128-ctr" {
		t.Fatalf("Expected geth cipher aes-128-ctr, got %s", vault.Crypto.Cipher)
	}

	plaintext, err := Decrypt(vault, "geth-pw")
	if err != nil {
		t.Fatalf("Decrypt geth keystore failed: %v", err)
	}
	if hex.EncodeToString(plaintext) != hex.EncodeToString(crypto.FromECDSA(priv)) {
		t.Errorf("geth keystore key mismatch")
	}

	if _, err := Decrypt(vault, "nope"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("Expected ErrDecrypt, got %v", err)
	}
}

func TestFileSaveLoad(t *testing.T) {
	key, _ := newTestKey(t)
	password := "123456"
	filename := filepath.Join(t.TempDir(), "test_wallet.json")

	vault, _ := Encrypt(key, addressOf(t, key), password, LightScrypt)

	if err := vault.SaveToFile(filename); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(filename)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Id != vault.Id {
		t.Errorf("ID mismatch after load")
	}

	decrypted, err := Decrypt(loaded, password)
	if err != nil {
		t.Fatalf("Decrypt loaded failed: %v", err)
	}
	if hex.EncodeToString(decrypted) != hex.EncodeToString(key) {
		t.Errorf("Content mismatch")
	}
}

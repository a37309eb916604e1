package crypto_util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeccak256(t *testing.T) {
	// keccak256("") 的已知值
	assert.Equal(t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		CalculateKeccak256(nil))

	// transfer(address,uint256) 的函数选择器
	assert.Equal(t, "a9059cbb", CalculateKeccak256([]byte("transfer(address,uint256)"))[:8])
}

func TestBlake3(t *testing.T) {
	assert.Equal(t,
		"af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		CalculateBlake3(nil))
	assert.Equal(t, Blake3([]byte("ab")), Blake3([]byte("a"), []byte("b")))
}

func TestAESGCMRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	plaintext := []byte("private key material")

	nonce, ciphertext, err := EncryptAESGCM(key, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := DecryptAESGCM(key, nonce, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)

	wrongKey := bytes.Repeat([]byte{0x43}, 32)
	_, err = DecryptAESGCM(wrongKey, nonce, ciphertext)
	assert.Error(t, err)
}

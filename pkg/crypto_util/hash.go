package crypto_util

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Keccak256 计算输入的 Keccak256 摘要 (以太坊使用的哈希算法)。
func Keccak256(data ...[]byte) []byte {
	hash := sha3.NewLegacyKeccak256()
	for _, d := range data {
		hash.Write(d)
	}
	return hash.Sum(nil)
}

// CalculateKeccak256 返回 Keccak256 的 Hex 字符串。
func CalculateKeccak256(data []byte) string {
	return hex.EncodeToString(Keccak256(data))
}

// Blake3 计算输入的 Blake3-256 摘要。
func Blake3(data ...[]byte) []byte {
	hash := blake3.New(32, nil)
	for _, d := range data {
		hash.Write(d)
	}
	return hash.Sum(nil)
}

// CalculateBlake3 返回 Blake3 的 Hex 字符串。
func CalculateBlake3(data []byte) string {
	return hex.EncodeToString(Blake3(data))
}

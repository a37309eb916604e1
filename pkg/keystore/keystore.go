package keystore

import (
	"bytes"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"web3-core/pkg/crypto_util"
	"web3-core/pkg/safe_random"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/scrypt"
)

// Vault 遵循 Ethereum Keystore V3 的结构，加密的是单个私钥
type Vault struct {
	Address string     `json:"address"` // 小写 Hex，无 0x 前缀
	Crypto  CryptoJSON `json:"crypto"`
	Id      string     `json:"id"`
	Version int        `json:"version"` // 3
}

type CryptoJSON struct {
	Cipher       string       `json:"cipher"`       // "aes-256-gcm" (本包) 或 "aes-128-ctr" (geth 标准)
	CipherText   string       `json:"ciphertext"`   // Hex string
	CipherParams CipherParams `json:"cipherparams"` // IV / GCM nonce
	KDF          string       `json:"kdf"`          // "scrypt" 或 "pbkdf2"
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"` // Hex string
}

type CipherParams struct {
	IV string `json:"iv"`
}

type KDFParams struct {
	DKLen int    `json:"dklen"`
	N     int    `json:"n,omitempty"`
	R     int    `json:"r,omitempty"`
	P     int    `json:"p,omitempty"`
	C     int    `json:"c,omitempty"`   // pbkdf2 迭代次数
	PRF   string `json:"prf,omitempty"` // pbkdf2 hmac
	Salt  string `json:"salt"`
}

// ScryptParams scrypt 成本参数
type ScryptParams struct {
	N int
	R int
	P int
}

var (
	// StandardScrypt 与 geth 标准 keystore 相同 (约 256MB 内存, 1s)
	StandardScrypt = ScryptParams{N: 262144, R: 8, P: 1}
	// LightScrypt 用于测试和低配环境
	LightScrypt = ScryptParams{N: 4096, R: 8, P: 6}
)

const (
	version     = 3
	cipherGCM   = "aes-256-gcm"
	cipherCTR   = "aes-128-ctr"
	kdfScrypt   = "scrypt"
	scryptDKLen = 32
)

var (
	// ErrDecrypt 密码错误或数据损坏
	ErrDecrypt = errors.New("invalid password or corrupted data (MAC mismatch)")
	// ErrAddressMismatch 解密出的私钥与 Vault 中记录的地址不一致
	ErrAddressMismatch = errors.New("decrypted key does not match vault address")
)

// Encrypt 使用密码加密私钥，address 必须由 privateKey 推导得到
func Encrypt(privateKey []byte, address common.Address, password string, params ScryptParams) (*Vault, error) {
	if len(privateKey) != 32 {
		return nil, fmt.Errorf("私钥长度必须为 32 字节, 实际 %d", len(privateKey))
	}

	// 1. 随机 Salt
	salt, err := safe_random.GenerateRandomBytes(32)
	if err != nil {
		return nil, err
	}

	// 2. Scrypt 派生密钥
	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, scryptDKLen)
	if err != nil {
		return nil, err
	}

	// 3. AES-256-GCM 加密
	nonce, ciphertext, err := crypto_util.EncryptAESGCM(derivedKey, privateKey)
	if err != nil {
		return nil, err
	}

	// 4. MAC = keccak256(derivedKey[16:32] + ciphertext)，与 V3 一致
	mac := crypto_util.Keccak256(derivedKey[16:32], ciphertext)

	return &Vault{
		Address: hex.EncodeToString(address.Bytes()),
		Version: version,
		Id:      vaultID(salt, ciphertext),
		Crypto: CryptoJSON{
			Cipher:       cipherGCM,
			CipherText:   hex.EncodeToString(ciphertext),
			CipherParams: CipherParams{IV: hex.EncodeToString(nonce)},
			KDF:          kdfScrypt,
			KDFParams: KDFParams{
				DKLen: scryptDKLen,
				N:     params.N,
				R:     params.R,
				P:     params.P,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac),
		},
	}, nil
}

// Decrypt 解密 Vault 获取私钥。geth 生成的 aes-128-ctr keystore 同样支持。
// 任何失败 (密码错误、字段损坏、地址不符) 都包装 ErrDecrypt。
func Decrypt(v *Vault, password string) ([]byte, error) {
	var (
		key []byte
		err error
	)
	switch v.Crypto.Cipher {
	case cipherGCM:
		key, err = decryptGCM(v, password)
	case cipherCTR:
		key, err = decryptStandard(v, password)
	default:
		return nil, fmt.Errorf("%w: unsupported cipher %q", ErrDecrypt, v.Crypto.Cipher)
	}
	if err != nil {
		return nil, err
	}

	if v.Address != "" {
		priv, err := crypto.ToECDSA(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
		}
		if !bytes.Equal(crypto.PubkeyToAddress(priv.PublicKey).Bytes(), common.HexToAddress(v.Address).Bytes()) {
			return nil, fmt.Errorf("%w: %v", ErrDecrypt, ErrAddressMismatch)
		}
	}
	return key, nil
}

func decryptGCM(v *Vault, password string) ([]byte, error) {
	if v.Crypto.KDF != kdfScrypt {
		return nil, fmt.Errorf("%w: unsupported kdf %q", ErrDecrypt, v.Crypto.KDF)
	}

	// 1. 解析 Hex 参数
	salt, err := parseHex(v.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid salt: %v", ErrDecrypt, err)
	}
	nonce, err := parseHex(v.Crypto.CipherParams.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid iv: %v", ErrDecrypt, err)
	}
	ciphertext, err := parseHex(v.Crypto.CipherText)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ciphertext: %v", ErrDecrypt, err)
	}
	mac, err := parseHex(v.Crypto.MAC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid mac: %v", ErrDecrypt, err)
	}

	// 2. 重新派生密钥
	p := v.Crypto.KDFParams
	if p.DKLen < scryptDKLen || p.N <= 1 || p.R <= 0 || p.P <= 0 {
		return nil, fmt.Errorf("%w: invalid kdf params dklen=%d n=%d r=%d p=%d", ErrDecrypt, p.DKLen, p.N, p.R, p.P)
	}
	derivedKey, err := scrypt.Key([]byte(password), salt, p.N, p.R, p.P, p.DKLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	// 3. 验证 MAC
	calculatedMAC := crypto_util.Keccak256(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, calculatedMAC) != 1 {
		return nil, ErrDecrypt
	}

	// 4. 解密
	plaintext, err := crypto_util.DecryptAESGCM(derivedKey, nonce, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}

// decryptStandard 交给 go-ethereum 处理标准 V3 keystore
func decryptStandard(v *Vault, password string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return crypto.FromECDSA(key.PrivateKey), nil
}

// AddressHex 返回 EIP-55 校验和格式的地址
func (v *Vault) AddressHex() string {
	return common.HexToAddress(v.Address).Hex()
}

// Parse 解析 keystore JSON
func Parse(data []byte) (*Vault, error) {
	var v Vault
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if v.Version != version {
		return nil, fmt.Errorf("不支持的 keystore 版本 %d", v.Version)
	}
	return &v, nil
}

// SaveToFile 保存到文件
func (v *Vault) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}

// LoadFromFile 从文件加载
func LoadFromFile(filename string) (*Vault, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// --- Helpers ---

func parseHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

// vaultID 由 salt 和密文的 Blake3 摘要生成 UUID 格式的 ID
func vaultID(salt, ciphertext []byte) string {
	b := crypto_util.Blake3(salt, ciphertext)[:16]
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}

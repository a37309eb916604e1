package bip39

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
)

// Language 助记词词表语言
type Language string

const (
	English            Language = "english"
	ChineseSimplified  Language = "chinese_simplified"
	ChineseTraditional Language = "chinese_traditional"
	Czech              Language = "czech"
	French             Language = "french"
	Italian            Language = "italian"
	Japanese           Language = "japanese"
	Korean             Language = "korean"
	Spanish            Language = "spanish"
)

var wordLists = map[Language][]string{
	English:            wordlists.English,
	ChineseSimplified:  wordlists.ChineseSimplified,
	ChineseTraditional: wordlists.ChineseTraditional,
	Czech:              wordlists.Czech,
	French:             wordlists.French,
	Italian:            wordlists.Italian,
	Japanese:           wordlists.Japanese,
	Korean:             wordlists.Korean,
	Spanish:            wordlists.Spanish,
}

// ValidWordCounts BIP-39 允许的助记词单词数
var ValidWordCounts = []int{12, 15, 18, 21, 24}

// go-bip39 的词表是包级全局变量，切换语言时需要加锁
var wordListMu sync.Mutex

// MnemonicService 提供助记词相关的功能
type MnemonicService struct {
	language Language
}

// NewMnemonicService 创建一个使用英文词表的助记词服务实例
func NewMnemonicService() *MnemonicService {
	return &MnemonicService{language: English}
}

// NewMnemonicServiceWithLanguage 创建指定语言的助记词服务
func NewMnemonicServiceWithLanguage(lang Language) (*MnemonicService, error) {
	if lang == "" {
		lang = English
	}
	if _, ok := wordLists[lang]; !ok {
		return nil, fmt.Errorf("不支持的助记词语言: %s", lang)
	}
	return &MnemonicService{language: lang}, nil
}

// Language 返回当前词表语言
func (s *MnemonicService) Language() Language {
	return s.language
}

// SupportedLanguage 判断语言是否受支持
func SupportedLanguage(lang Language) bool {
	_, ok := wordLists[lang]
	return ok
}

// ValidWordCount 判断单词数是否在 ValidWordCounts 中
func ValidWordCount(words int) bool {
	for _, n := range ValidWordCounts {
		if n == words {
			return true
		}
	}
	return false
}

// EntropyBits 返回单词数对应的熵位数 (12 -> 128, 24 -> 256)
func EntropyBits(words int) (int, error) {
	if !ValidWordCount(words) {
		return 0, fmt.Errorf("无效的助记词单词数 %d, 可选 %v", words, ValidWordCounts)
	}
	return words / 3 * 32, nil
}

// WordCount 按空白拆分统计单词数 (兼容日文的全角空格)
func WordCount(mnemonic string) int {
	return len(strings.Fields(mnemonic))
}

// GenerateMnemonic 生成一个新的随机助记词 (BIP-39)。
// bitSize: 熵的位数，128 (12个单词) ~ 256 (24个单词)，步长 32。
func (s *MnemonicService) GenerateMnemonic(bitSize int) (string, error) {
	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", fmt.Errorf("生成熵失败: %v", err)
	}

	var mnemonic string
	err = s.withWordList(func() error {
		var e error
		mnemonic, e = bip39.NewMnemonic(entropy)
		return e
	})
	if err != nil {
		return "", fmt.Errorf("生成助记词失败: %v", err)
	}

	return mnemonic, nil
}

// GenerateWords 生成指定单词数的助记词
func (s *MnemonicService) GenerateWords(words int) (string, error) {
	bits, err := EntropyBits(words)
	if err != nil {
		return "", err
	}
	return s.GenerateMnemonic(bits)
}

// ValidateMnemonic 验证助记词是否有效 (单词属于词表且校验和正确)。
func (s *MnemonicService) ValidateMnemonic(mnemonic string) bool {
	valid := false
	_ = s.withWordList(func() error {
		valid = bip39.IsMnemonicValid(normalize(mnemonic))
		return nil
	})
	return valid
}

// MnemonicToSeed 将助记词转换为种子 (BIP-39 Seed)。
// password: 可选的密码 (Passphrase)，不需要时传空字符串 ""。
func (s *MnemonicService) MnemonicToSeed(mnemonic string, password string) []byte {
	return bip39.NewSeed(normalize(mnemonic), password)
}

func (s *MnemonicService) withWordList(fn func() error) error {
	wordListMu.Lock()
	defer wordListMu.Unlock()

	prev := bip39.GetWordList()
	bip39.SetWordList(wordLists[s.language])
	defer bip39.SetWordList(prev)

	return fn()
}

func normalize(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

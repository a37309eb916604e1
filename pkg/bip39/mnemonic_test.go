package bip39

import (
	"encoding/hex"
	"testing"
)

func TestGenerateMnemonic(t *testing.T) {
	service := NewMnemonicService()

	for _, words := range ValidWordCounts {
		mnemonic, err := service.GenerateWords(words)
		if err != nil {
			t.Fatalf("生成 %d 词助记词失败: %v", words, err)
		}
		if got := WordCount(mnemonic); got != words {
			t.Errorf("单词数 = %d, 期望 %d", got, words)
		}
		if !service.ValidateMnemonic(mnemonic) {
			t.Errorf("生成的 %d 词助记词无效", words)
		}
	}
}

func TestGenerateWordsInvalid(t *testing.T) {
	service := NewMnemonicService()
	for _, words := range []int{0, 11, 13, 25} {
		if _, err := service.GenerateWords(words); err == nil {
			t.Errorf("单词数 %d 期望失败", words)
		}
	}
}

func TestMnemonicToSeed(t *testing.T) {
	service := NewMnemonicService()

	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	expectedSeedHex := "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"

	if !service.ValidateMnemonic(mnemonic) {
		t.Fatalf("测试向量助记词无效")
	}

	seedHex := hex.EncodeToString(service.MnemonicToSeed(mnemonic, ""))
	if seedHex != expectedSeedHex {
		t.Errorf("Seed 生成不匹配。\n预期: %s\n实际: %s", expectedSeedHex, seedHex)
	}
}

func TestValidateMnemonic_Invalid(t *testing.T) {
	service := NewMnemonicService()

	invalidMnemonic := "hello world invalid mnemonic phrase designed to fail validation check"
	if service.ValidateMnemonic(invalidMnemonic) {
		t.Errorf("期望验证失败，但验证通过了")
	}
}

func TestLanguageWordList(t *testing.T) {
	service, err := NewMnemonicServiceWithLanguage(Spanish)
	if err != nil {
		t.Fatalf("创建西班牙语服务失败: %v", err)
	}

	mnemonic, err := service.GenerateWords(12)
	if err != nil {
		t.Fatalf("生成助记词失败: %v", err)
	}
	if !service.ValidateMnemonic(mnemonic) {
		t.Errorf("西班牙语助记词应当有效")
	}
	// 英文词表无法校验西班牙语助记词
	if NewMnemonicService().ValidateMnemonic(mnemonic) {
		t.Errorf("英文词表不应通过西班牙语助记词")
	}

	if _, err := NewMnemonicServiceWithLanguage("klingon"); err == nil {
		t.Errorf("不支持的语言应当报错")
	}
}

package cmd

import (
	"fmt"

	"web3-core/internal/wallet"
	"web3-core/pkg/bip39"
	"web3-core/pkg/keystore"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "导入助记词或私钥",
	Long:  `从已有助记词 (或私钥) 恢复账户，并加密保存到 Keystore 文件。未通过参数提供时在终端提示输入。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mnemonic, _ := cmd.Flags().GetString("mnemonic")
		privateKey, _ := cmd.Flags().GetString("private-key")
		language, _ := cmd.Flags().GetString("language")
		index, _ := cmd.Flags().GetInt("index")
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")

		if mnemonic == "" && privateKey == "" {
			var err error
			if mnemonic, err = readLine("请输入助记词: "); err != nil {
				return err
			}
		}

		password, err := readNewPassword()
		if err != nil {
			return err
		}
		opts, err := walletOptions()
		if err != nil {
			return err
		}

		var (
			w     *wallet.Wallet
			vault *keystore.Vault
		)
		if privateKey != "" {
			if w, err = wallet.FromPrivateKey(nil, privateKey, opts...); err != nil {
				return err
			}
			if password == "" {
				return fmt.Errorf("导入私钥时必须设置 Keystore 密码")
			}
			vault, err = keystore.Encrypt(common.FromHex(w.PrivateKeyHex()), w.Address(), password, kdfParams())
			if err != nil {
				return err
			}
		} else {
			w, password, err = wallet.FromMnemonic(nil, mnemonic, wallet.MnemonicOptions{
				Index:    index,
				Language: bip39.Language(language),
				Path:     path,
				Password: password,
			}, opts...)
			if err != nil {
				return fmt.Errorf("导入助记词失败: %w", err)
			}
			vault = w.Vault()
		}

		if err := saveVault(vault, force); err != nil {
			return err
		}
		fmt.Printf("✅ 导入成功\n")
		fmt.Printf("地址 (Address): %s\n", w.Address().Hex())
		if p := w.Path(); p != "" {
			fmt.Printf("派生路径 (Path): %s\n", p)
		}
		if cfg.Wallet.Password == "" {
			fmt.Printf("Keystore 密码: %s\n", password)
		}
		fmt.Printf("Keystore 已保存到: %s\n", cfg.Wallet.KeystorePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("mnemonic", "m", "", "助记词")
	importCmd.Flags().String("private-key", "", "Hex 私钥 (与 --mnemonic 二选一)")
	importCmd.Flags().StringP("language", "l", string(bip39.English), "助记词语言")
	importCmd.Flags().IntP("index", "i", 0, "派生路径最后一级索引")
	importCmd.Flags().String("path", "", "派生路径 (默认 m/44'/60'/0'/0/0)")
	importCmd.Flags().Bool("force", false, "覆盖已存在的 Keystore 文件")
}

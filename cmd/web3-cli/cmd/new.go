package cmd

import (
	"fmt"

	"web3-core/internal/wallet"
	"web3-core/pkg/bip39"

	"github.com/spf13/cobra"
)

// newCmd 代表 new 命令
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "创建一个新的钱包",
	Long:  `生成随机 BIP-39 助记词，按 m/44'/60'/0'/0/{index} 派生以太坊账户，并将私钥加密保存到 Keystore 文件。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		words, _ := cmd.Flags().GetInt("words")
		language, _ := cmd.Flags().GetString("language")
		index, _ := cmd.Flags().GetInt("index")
		force, _ := cmd.Flags().GetBool("force")

		password, err := readNewPassword()
		if err != nil {
			return err
		}
		opts, err := walletOptions()
		if err != nil {
			return err
		}

		fmt.Println("正在生成新钱包...")
		w, password, err := wallet.Create(nil, wallet.CreateOptions{
			Words:    words,
			Language: bip39.Language(language),
			Index:    index,
			Password: password,
		}, opts...)
		if err != nil {
			return fmt.Errorf("创建钱包失败: %w", err)
		}
		if err := saveVault(w.Vault(), force); err != nil {
			return err
		}

		fmt.Println("---------------------------------------------------")
		fmt.Printf("地址 (Address): %s\n", w.Address().Hex())
		fmt.Printf("派生路径 (Path): %s\n", w.Path())
		fmt.Printf("助记词 (Mnemonic): \n%s\n", w.Mnemonic())
		if cfg.Wallet.Password == "" {
			fmt.Printf("Keystore 密码: %s\n", password)
		}
		fmt.Printf("Keystore 已保存到: %s\n", cfg.Wallet.KeystorePath)
		fmt.Println("---------------------------------------------------")
		fmt.Println("请妥善保管您的助记词！任何拥有助记词的人都可以控制该钱包的所有资产。")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().IntP("words", "w", 12, "助记词单词数 (12/15/18/21/24)")
	newCmd.Flags().StringP("language", "l", string(bip39.English), "助记词语言")
	newCmd.Flags().IntP("index", "i", 0, "派生路径最后一级索引")
	newCmd.Flags().Bool("force", false, "覆盖已存在的 Keystore 文件")
}

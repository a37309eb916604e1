package cmd

import (
	"fmt"

	"web3-core/internal/chain"
	"web3-core/internal/wallet"
	"web3-core/pkg/keystore"
	"web3-core/pkg/units"

	"github.com/spf13/cobra"
)

var transferCmd = &cobra.Command{
	Use:   "transfer <to> <amount>",
	Short: "转账 ETH",
	Long: `从 Keystore 账户向目标地址转账，amount 以 ETH 为单位 (如 0.01)。
使用 --unsigned 时仅构造未签名交易并写入文件，可配合 sign / broadcast 完成离线签名。`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := wallet.ParseAddress(args[0])
		if err != nil {
			return err
		}
		amount, err := units.ToWei(args[1], units.EtherDecimals)
		if err != nil {
			return err
		}
		gasPriceGwei, _ := cmd.Flags().GetInt64("gas-price")
		unsigned, _ := cmd.Flags().GetBool("unsigned")
		output, _ := cmd.Flags().GetString("output")

		client, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		var w *wallet.Wallet
		if unsigned {
			// 构造未签名交易只需要地址
			if w, err = unsignedSender(client); err != nil {
				return err
			}
		} else if w, err = loadWallet(client); err != nil {
			return err
		}

		opts := wallet.TransferOptions{Unsigned: unsigned, Timeout: timeoutFlag(cmd)}
		if gasPriceGwei > 0 {
			opts.GasPrice = units.Gwei(gasPriceGwei)
		}

		fmt.Printf("From:   %s\nTo:     %s\nAmount: %s ETH\n", w.Address().Hex(), to.Address().Hex(), units.FormatEther(amount))
		result, err := w.Transfer(cmd.Context(), to, amount, opts)
		if err != nil {
			return fmt.Errorf("转账失败: %w", err)
		}

		if result.Unsigned != nil {
			if err := writeJSON(output, result.Unsigned); err != nil {
				return err
			}
			fmt.Printf("未签名交易已保存到: %s\n", output)
			fmt.Println(result.Unsigned)
			return nil
		}
		printOutcome(result.Outcome)
		return nil
	},
}

// unsignedSender 使用 Keystore 中的地址构造只读钱包，无需解密
func unsignedSender(client chain.Client) (*wallet.Wallet, error) {
	vault, err := keystore.LoadFromFile(cfg.Wallet.KeystorePath)
	if err != nil {
		return nil, fmt.Errorf("读取 Keystore 文件失败: %w", err)
	}
	opts, err := walletOptions()
	if err != nil {
		return nil, err
	}
	return wallet.FromAddress(client, vault.AddressHex(), opts...)
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.Flags().Int64("gas-price", 0, "Gas 价格 (Gwei)，0 使用节点建议值")
	transferCmd.Flags().Bool("unsigned", false, "仅构造未签名交易")
	transferCmd.Flags().StringP("output", "o", "unsigned.json", "未签名交易输出路径")
	addTimeoutFlags(transferCmd)
}

package cmd

import (
	"fmt"

	"web3-core/internal/chain"
	"web3-core/internal/txn"
	"web3-core/pkg/units"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

// SignedTransaction sign 输出 / broadcast 输入的文件格式
type SignedTransaction struct {
	TxHash string `json:"txHash"`
	RawTx  string `json:"rawTx"`
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "离线签名交易 (Offline Signing)",
	Long: `读取未签名的交易 JSON 文件，使用 Keystore 进行签名，并输出已签名的交易 (Raw Tx)。
交易中已包含 nonce、chainId 和 gasPrice 时无需连接节点。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, _ := cmd.Flags().GetString("input")
		outputFile, _ := cmd.Flags().GetString("output")

		var req txn.Request
		if err := readJSON(inputFile, &req); err != nil {
			return err
		}
		var nonce *uint64
		if cmd.Flags().Changed("nonce") {
			n, _ := cmd.Flags().GetUint64("nonce")
			nonce = txn.Uint64(n)
		}

		// 显示交易详情供用户确认 (Verify on Screen)
		fmt.Println("\n================ 待签名交易 ================")
		fmt.Println(req.String())
		if req.Value != nil {
			fmt.Printf("Amount:     %s ETH\n", units.FormatEther(req.Value))
		}
		fmt.Println("============================================")

		var client chain.Client
		if (req.Nonce == nil && nonce == nil) || req.ChainID == nil || req.GasPrice == nil {
			ec, err := dial(cmd.Context())
			if err != nil {
				return fmt.Errorf("交易字段不完整，需要连接节点: %w", err)
			}
			defer ec.Close()
			client = ec
		}

		w, err := loadWallet(client)
		if err != nil {
			return err
		}
		if req.From != nil && *req.From != w.Address() {
			return fmt.Errorf("交易 from %s 与 Keystore 地址 %s 不一致", req.From.Hex(), w.Address().Hex())
		}

		signed, err := w.Sign(cmd.Context(), &req, nonce)
		if err != nil {
			return fmt.Errorf("签名失败: %w", err)
		}
		raw, err := signed.MarshalBinary()
		if err != nil {
			return err
		}

		out := SignedTransaction{TxHash: signed.Hash().Hex(), RawTx: hexutil.Encode(raw)}
		if err := writeJSON(outputFile, out); err != nil {
			return fmt.Errorf("保存结果失败: %w", err)
		}
		fmt.Printf("\n✅ 签名成功!\n")
		fmt.Printf("TxHash: %s\n", out.TxHash)
		fmt.Printf("已保存到: %s\n", outputFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringP("input", "i", "unsigned.json", "未签名的交易文件路径")
	signCmd.Flags().StringP("output", "o", "signed.json", "签名后的输出文件路径")
	signCmd.Flags().Uint64("nonce", 0, "覆盖交易中的 nonce")
}

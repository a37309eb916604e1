package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"web3-core/internal/chain"
	"web3-core/internal/contract"
	"web3-core/internal/txn"
	"web3-core/internal/wallet"
	"web3-core/pkg/logger"
	"web3-core/pkg/units"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "合约交互 (基于 Foundry 编译输出的 ABI)",
	Long: `从 contracts.out_path 目录加载 <Name>.sol/<Name>.json 中的 ABI，
列出函数、调用只读函数、发送交易或查询日志。`,
}

var contractFunctionsCmd = &cobra.Command{
	Use:   "functions <name>",
	Short: "列出合约函数",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		artifact, err := contract.NewLoader(cfg.Contracts.OutPath).Load(args[0])
		if err != nil {
			return err
		}
		fns, err := contract.Describe(artifact.ABI)
		if err != nil {
			return err
		}
		for _, fn := range fns {
			outputs := make([]string, len(fn.Outputs))
			for i, o := range fn.Outputs {
				outputs[i] = o.Type.String()
			}
			fmt.Printf("%-6s %-11s %s %s -> (%s)\n",
				fn.Kind, fn.Mutability, fn.SelectorHex(), fn.Signature, strings.Join(outputs, ","))
		}
		return nil
	},
}

var contractCallCmd = &cobra.Command{
	Use:   "call <name> <address> <function> [args...]",
	Short: "调用只读函数 (eth_call)",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, b, err := bindContract(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		defer client.Close()

		fn, ok := b.Function(args[2])
		if !ok {
			return fmt.Errorf("%s 中没有函数 %s", args[0], args[2])
		}
		params, err := contract.ParseArgs(fn, args[3:])
		if err != nil {
			return err
		}

		var call contract.CallParams
		if block, _ := cmd.Flags().GetInt64("block"); block >= 0 {
			call.Block = big.NewInt(block)
		}
		res, err := b.Call(cmd.Context(), fn.Name, call, params...)
		if err != nil {
			return err
		}
		if res.NoResult() {
			fmt.Printf("无结果: %v\n", res.Err())
			return nil
		}
		for i, v := range res.Values {
			name := fn.Outputs[i].Name
			if name == "" {
				name = fmt.Sprintf("[%d]", i)
			}
			fmt.Printf("%s (%s): %v\n", name, fn.Outputs[i].Type, v)
		}
		return nil
	},
}

var contractSendCmd = &cobra.Command{
	Use:   "send <name> <address> <function> [args...]",
	Short: "发送交易调用写函数",
	Long: `使用 Keystore 账户签名并发送交易。指定 --nonce 时只构造未签名交易并写入 --output，
可配合 sign / broadcast 离线签名。`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, b, err := bindContract(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		defer client.Close()

		fn, ok := b.Function(args[2])
		if !ok {
			return fmt.Errorf("%s 中没有函数 %s", args[0], args[2])
		}
		params, err := contract.ParseArgs(fn, args[3:])
		if err != nil {
			return err
		}

		tx := contract.TxParams{Timeout: timeoutFlag(cmd)}
		tx.Gas, _ = cmd.Flags().GetUint64("gas")
		if gwei, _ := cmd.Flags().GetInt64("gas-price"); gwei > 0 {
			tx.GasPrice = units.Gwei(gwei)
		}
		if value, _ := cmd.Flags().GetString("value"); value != "" {
			if tx.Value, err = units.ToWei(value, units.EtherDecimals); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("nonce") {
			n, _ := cmd.Flags().GetUint64("nonce")
			tx.Nonce = txn.Uint64(n)
		} else {
			if tx.From, err = loadWallet(client); err != nil {
				return err
			}
		}

		res, err := b.Transact(cmd.Context(), fn.Name, tx, params...)
		if err != nil {
			return fmt.Errorf("发送交易失败: %w", err)
		}
		if res.Unsigned != nil {
			output, _ := cmd.Flags().GetString("output")
			if err := writeJSON(output, res.Unsigned); err != nil {
				return err
			}
			fmt.Printf("未签名交易已保存到: %s\n", output)
			fmt.Println(res.Unsigned)
			return nil
		}
		printOutcome(res.Outcome)
		return nil
	},
}

var contractLogsCmd = &cobra.Command{
	Use:   "logs <name> <address>",
	Short: "查询合约日志",
	Long:  `默认查询最新区块中该合约的日志，可通过 --from / --to 指定区块范围。`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, b, err := bindContract(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		defer client.Close()

		var q *ethereum.FilterQuery
		from, _ := cmd.Flags().GetInt64("from")
		to, _ := cmd.Flags().GetInt64("to")
		if from >= 0 || to >= 0 {
			q = &ethereum.FilterQuery{Addresses: []common.Address{b.Address()}, FromBlock: chain.LatestTag(), ToBlock: chain.LatestTag()}
			if from >= 0 {
				q.FromBlock = big.NewInt(from)
			}
			if to >= 0 {
				q.ToBlock = big.NewInt(to)
			}
		}

		logs, err := b.GetLogs(cmd.Context(), q)
		if err != nil {
			return err
		}
		abiDef := b.ABI()
		for _, l := range logs {
			event := "unknown"
			if len(l.Topics) > 0 {
				if ev, err := abiDef.EventByID(l.Topics[0]); err == nil {
					event = ev.Sig
				}
			}
			fmt.Printf("block=%d tx=%s index=%d event=%s data=%x\n", l.BlockNumber, l.TxHash.Hex(), l.Index, event, l.Data)
		}
		fmt.Printf("共 %d 条日志\n", len(logs))
		return nil
	},
}

// bindContract 连接节点并按名称加载合约 ABI
func bindContract(cmd *cobra.Command, name, address string) (*chain.EthClient, *contract.Binding, error) {
	addr, err := wallet.ParseAddress(address)
	if err != nil {
		return nil, nil, err
	}
	client, err := dial(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	b, err := contract.Load(client, contract.NewLoader(cfg.Contracts.OutPath), name, addr,
		contract.WithConfig(contract.Config{OutPath: cfg.Contracts.OutPath, Tx: txConfig()}),
		contract.WithLogger(logger.Named("contract")),
	)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return client, b, nil
}

func init() {
	rootCmd.AddCommand(contractCmd)
	contractCmd.AddCommand(contractFunctionsCmd, contractCallCmd, contractSendCmd, contractLogsCmd)

	contractCallCmd.Flags().Int64("block", -1, "查询指定区块的状态 (默认最新)")

	contractSendCmd.Flags().String("value", "", "随交易发送的 ETH (仅 payable 函数)")
	contractSendCmd.Flags().Uint64("gas", 0, "Gas 上限 (0 使用 tx.gas_limit)")
	contractSendCmd.Flags().Int64("gas-price", 0, "Gas 价格 (Gwei)，0 使用节点建议值")
	contractSendCmd.Flags().Uint64("nonce", 0, "指定 nonce 时只构造未签名交易")
	contractSendCmd.Flags().StringP("output", "o", "unsigned.json", "未签名交易输出路径")
	addTimeoutFlags(contractSendCmd)

	contractLogsCmd.Flags().Int64("from", -1, "起始区块")
	contractLogsCmd.Flags().Int64("to", -1, "结束区块")
}

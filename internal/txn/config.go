package txn

import "time"

const (
	// DefaultGasLimit is used for contract writes without a gas override.
	DefaultGasLimit uint64 = 1_000_000
	// TransferGasLimit is the intrinsic gas of a plain value transfer.
	TransferGasLimit uint64 = 21_000
	// DefaultReceiptTimeout bounds how long Submit waits for a receipt.
	DefaultReceiptTimeout = 120 * time.Second
)

// NoWait passed as a timeout returns right after the broadcast.
const NoWait time.Duration = -1

// Config holds the transaction defaults shared by builders and submitters.
type Config struct {
	GasLimit       uint64
	ReceiptTimeout time.Duration
	// WaitForReceipt is the policy applied when a caller omits the timeout.
	WaitForReceipt bool
}

func DefaultConfig() Config {
	return Config{
		GasLimit:       DefaultGasLimit,
		ReceiptTimeout: DefaultReceiptTimeout,
		WaitForReceipt: true,
	}
}

// waitFor resolves a caller timeout: 0 applies the policy, negative disables the wait.
func (c Config) waitFor(timeout time.Duration) time.Duration {
	switch {
	case timeout > 0:
		return timeout
	case timeout < 0:
		return 0
	case !c.WaitForReceipt:
		return 0
	case c.ReceiptTimeout > 0:
		return c.ReceiptTimeout
	default:
		return DefaultReceiptTimeout
	}
}

func (c Config) gasLimit() uint64 {
	if c.GasLimit == 0 {
		return DefaultGasLimit
	}
	return c.GasLimit
}

package errno

import (
	"errors"
	"fmt"
)

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
	cause   error
}

func (e Errno) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As
func (e Errno) Unwrap() error {
	return e.cause
}

// Is matches any Errno carrying the same code, so decorated copies still
// compare equal to the package-level sentinels.
func (e Errno) Is(target error) bool {
	var t Errno
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// WithMessage returns a copy with a more specific message
func (e Errno) WithMessage(format string, args ...any) Errno {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Wrap returns a copy carrying cause
func (e Errno) Wrap(cause error) Errno {
	e.cause = cause
	return e
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, typed.Error()
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrUnavailable      = Errno{Code: 10002, Message: "Service unavailable"}
)

// Wallet Errors (30000+)
var (
	ErrInvalidParameter    = Errno{Code: 30001, Message: "Invalid parameter"}
	ErrInvalidMnemonic     = Errno{Code: 30002, Message: "Invalid mnemonic"}
	ErrDecryptionFailed    = Errno{Code: 30003, Message: "Vault decryption failed"}
	ErrNoSigningCapability = Errno{Code: 30004, Message: "Wallet has no signing capability"}
	ErrNotConnected        = Errno{Code: 30005, Message: "No chain client bound"}
)

// Contract Errors (30100+)
var (
	ErrAbiLoad         = Errno{Code: 30101, Message: "ABI load error"}
	ErrAbiShape        = Errno{Code: 30102, Message: "ABI not found in artifact"}
	ErrUnknownFunction = Errno{Code: 30103, Message: "Unknown contract function"}
)

// Transaction Errors (30200+)
var (
	ErrMissingSigner        = Errno{Code: 30201, Message: "Transaction parameters must include either nonce or from"}
	ErrInvalidSigner        = Errno{Code: 30202, Message: "Transaction from must be a wallet with signing capability"}
	ErrBroadcastFailed      = Errno{Code: 30203, Message: "Transaction broadcast failed"}
	ErrConfirmationTimedOut = Errno{Code: 30204, Message: "Timed out waiting for transaction receipt"}
)

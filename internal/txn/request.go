package txn

import (
	"fmt"
	"math/big"

	"web3-core/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Request is an unsigned legacy transaction. It is built fresh for every
// send; a nonce must never be reused.
type Request struct {
	From     *common.Address `json:"from,omitempty"`
	To       *common.Address `json:"to"`
	Value    *big.Int        `json:"value"`
	Data     hexutil.Bytes   `json:"data,omitempty"`
	Gas      uint64          `json:"gas"`
	GasPrice *big.Int        `json:"gasPrice"`
	Nonce    *uint64         `json:"nonce,omitempty"`
	ChainID  *big.Int        `json:"chainId,omitempty"`
}

// Transaction converts the request into a go-ethereum transaction ready to be signed.
func (r *Request) Transaction() (*types.Transaction, error) {
	if r.Nonce == nil {
		return nil, errno.ErrInvalidParameter.WithMessage("transaction nonce is not set")
	}
	if r.GasPrice == nil {
		return nil, errno.ErrInvalidParameter.WithMessage("transaction gas price is not set")
	}
	value := r.Value
	if value == nil {
		value = new(big.Int)
	}
	if r.To == nil {
		return types.NewContractCreation(*r.Nonce, value, r.Gas, r.GasPrice, r.Data), nil
	}
	return types.NewTransaction(*r.Nonce, *r.To, value, r.Gas, r.GasPrice, r.Data), nil
}

// Clone returns a deep copy so a caller can adjust fields without touching the original.
func (r *Request) Clone() *Request {
	c := *r
	if r.From != nil {
		from := *r.From
		c.From = &from
	}
	if r.To != nil {
		to := *r.To
		c.To = &to
	}
	if r.Nonce != nil {
		nonce := *r.Nonce
		c.Nonce = &nonce
	}
	c.Value = cloneBig(r.Value)
	c.GasPrice = cloneBig(r.GasPrice)
	c.ChainID = cloneBig(r.ChainID)
	c.Data = append(hexutil.Bytes(nil), r.Data...)
	return &c
}

func (r *Request) String() string {
	to := "<create>"
	if r.To != nil {
		to = r.To.Hex()
	}
	nonce := "unset"
	if r.Nonce != nil {
		nonce = fmt.Sprint(*r.Nonce)
	}
	return fmt.Sprintf("to=%s value=%v gas=%d gasPrice=%v nonce=%s chainId=%v data=%d bytes",
		to, r.Value, r.Gas, r.GasPrice, nonce, r.ChainID, len(r.Data))
}

func cloneBig(x *big.Int) *big.Int {
	if x == nil {
		return nil
	}
	return new(big.Int).Set(x)
}

// Uint64 returns a pointer to v, for optional nonce fields.
func Uint64(v uint64) *uint64 {
	return &v
}

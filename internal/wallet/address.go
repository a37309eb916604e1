package wallet

import (
	"strings"

	"web3-core/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
)

// AddressLike is accepted wherever an account is expected: a plain Address or
// a *Wallet, whose address is used.
type AddressLike interface {
	Address() common.Address
}

// Address adapts a raw address to AddressLike.
type Address common.Address

func (a Address) Address() common.Address { return common.Address(a) }

// ParseAddress accepts a 0x-prefixed hex address. All-lowercase and
// all-uppercase input is taken as is, mixed case must be a valid EIP-55 checksum.
func ParseAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return Address{}, errno.ErrInvalidParameter.WithMessage("invalid address %q", s)
	}
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		mixed, err := common.NewMixedcaseAddressFromString(s)
		if err != nil || !mixed.ValidChecksum() {
			return Address{}, errno.ErrInvalidParameter.WithMessage("address %q has an invalid checksum", s)
		}
	}
	return Address(common.HexToAddress(s)), nil
}

package chain

import (
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"crossfund/internal/errs"
)

// IsValidAddress reports whether address is a well-formed 20-byte EVM
// address (40 hex digits, with or without the 0x prefix) or the native
// sentinel.
func IsValidAddress(address string) bool {
	if address == "" {
		return false
	}
	if IsNative(address) {
		return true
	}
	return ethcommon.IsHexAddress(address)
}

// IsNative reports whether address is the native-currency sentinel,
// treating the zero address equivalently per spec §3.
func IsNative(address string) bool {
	lower := strings.ToLower(address)
	return lower == strings.ToLower(NativeSentinel) ||
		lower == "0x0000000000000000000000000000000000000000"
}

// Normalize lowercases and 0x-prefixes an EVM address, the form used for
// Token equality ((chainId, lowercased address)).
func Normalize(address string) string {
	address = strings.TrimSpace(address)
	if !strings.HasPrefix(strings.ToLower(address), "0x") {
		address = "0x" + address
	}
	return strings.ToLower(address)
}

// Checksum returns the EIP-55 checksummed form of a valid EVM address.
func Checksum(address string) (string, *errs.Error) {
	if !ethcommon.IsHexAddress(address) {
		return "", errs.InvalidParams("address is not a valid EVM address")
	}
	return ethcommon.HexToAddress(address).Hex(), nil
}

// Equal compares two addresses by normalized form, treating native
// sentinels as equal regardless of the exact sentinel spelling used.
func Equal(a, b string) bool {
	if IsNative(a) && IsNative(b) {
		return true
	}
	return Normalize(a) == Normalize(b)
}

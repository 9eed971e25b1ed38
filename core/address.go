package core

import (
	"regexp"

	"github.com/ethereum/go-ethereum/common"
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsValidAddress reports whether s is a 0x prefixed, 40 hex digit account address.
// Nothing else is accepted: no surrounding spaces, no missing prefix.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// ChecksumAddress returns the EIP-55 mixed case form of s.
func ChecksumAddress(s string) (string, bool) {
	if !IsValidAddress(s) {
		return "", false
	}

	return common.HexToAddress(s).Hex(), true
}

// ShortAddress renders 0x1234...abcd for confirmation dialogs and lists.
func ShortAddress(s string) string {
	if len(s) <= 10 {
		return s
	}

	return s[:6] + "..." + s[len(s)-4:]
}

package textutil

import (
	"strings"
)

// NormalizeAddress is the form two addresses are compared in, mailman
// treats addresses case insensitively.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func SameAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}

// DeobfuscateAddress undoes the roster page's "user at example.com"
// spelling of addresses.
func DeobfuscateAddress(address string) string {
	return strings.ReplaceAll(address, " at ", "@")
}

// LetterFromLink turns a member listing navigation link like "[A]" into
// the letter query value "a".
func LetterFromLink(text string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(text), "[]"))
}

// FirstLetter is the listing page an address is found on.
func FirstLetter(address string) string {
	address = NormalizeAddress(address)
	if address == "" {
		return ""
	}
	return address[:1]
}

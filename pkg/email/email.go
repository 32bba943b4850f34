// Package email holds the small amount of email handling the coordinator
// needs. Addresses are opaque to the domain beyond a basic shape check;
// deliverability is the credential subsystem's problem.
package email

import "strings"

// Normalize trims whitespace and lowercases the domain part. The local part
// is left untouched because case-sensitivity there is the mailbox owner's
// business.
func Normalize(address string) string {
	address = strings.TrimSpace(address)
	at := strings.LastIndexByte(address, '@')
	if at < 0 {
		return address
	}
	return address[:at+1] + strings.ToLower(address[at+1:])
}

// IsValid is a cheap structural check: non-empty local part, one "@", a
// domain containing a dot. Anything stricter belongs to the credential store.
func IsValid(address string) bool {
	at := strings.LastIndexByte(address, '@')
	if at <= 0 || at == len(address)-1 {
		return false
	}
	if strings.ContainsAny(address, " \t\n") {
		return false
	}
	domain := address[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

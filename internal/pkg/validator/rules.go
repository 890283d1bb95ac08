package validator

import "strings"

// IsIdentity reports whether s has the shape of an email identity:
// exactly one '@', a non-empty local part and a dotted, non-empty domain.
// It does not try to be RFC 5322 complete.
func IsIdentity(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}

	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return false
	}

	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

package verification

import (
	"net/mail"
	"strings"
)

// IsEduEmail reports whether addr is a single bare address whose domain ends
// in ".edu", compared case-insensitively.
func IsEduEmail(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false
	}

	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return false
	}

	at := strings.LastIndex(parsed.Address, "@")
	if at <= 0 || at == len(parsed.Address)-1 {
		return false
	}

	domain := strings.ToLower(parsed.Address[at+1:])
	if !strings.HasSuffix(domain, ".edu") || len(domain) <= len(".edu") {
		return false
	}
	return !strings.HasPrefix(domain, ".") && !strings.Contains(domain, "..")
}

package logging

import "strings"

// RedactToken is logged in place of any bearer or refresh token.
func RedactToken() string { return "[REDACTED_TOKEN]" }

// RedactPassword is logged in place of any password.
func RedactPassword() string { return "[REDACTED_PASSWORD]" }

// RedactUsername keeps the first two characters of a login and masks the
// rest, preserving an e-mail domain if there is one.
func RedactUsername(s string) string {
	local, domain, hasDomain := strings.Cut(s, "@")
	runes := []rune(local)
	if len(runes) > 2 {
		local = string(runes[:2]) + "***"
	} else {
		local = "***"
	}
	if !hasDomain {
		return local
	}
	return local + "@" + domain
}

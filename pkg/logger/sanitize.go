package logger

import "strings"

// SanitizedEmail masks an address for log output. The first character of
// the local part and the TLD stay visible, everything else is starred,
// so "user@example.com" logs as "u***@*******.com".
func SanitizedEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "[invalid-email]"
	}

	local := email[:at]
	domain := email[at+1:]

	masked := local[:1]
	if len(local) > 1 {
		masked += strings.Repeat("*", len(local)-1)
	}

	labels := strings.Split(domain, ".")
	for i := 0; i < len(labels)-1; i++ {
		labels[i] = strings.Repeat("*", len(labels[i]))
	}

	return masked + "@" + strings.Join(labels, ".")
}

// Query parameter names that must never reach the request log. Activation
// codes are single-use credentials and leak exactly like passwords do.
var sensitiveQueryParams = []string{
	"password",
	"token",
	"secret",
	"activation_code",
	"code",
	"email",
	"auth",
}

// SanitizeQueryString reports whether a raw query string carries any
// credential-bearing parameter and should be dropped from the log line.
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveQueryParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}

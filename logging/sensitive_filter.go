package logging

import (
	"regexp"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

// sensitivePatterns match secret material that must never reach a log sink:
// OpenAI-style API keys, GitHub tokens, bearer headers, and key=value pairs
// whose key names a credential.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{20,}`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/=-]+`),
	regexp.MustCompile(`(?i)(password|passwd|secret|token|api[_-]?key)\s*[:=]\s*[^\s,;"']+`),
}

// sensitiveFieldNames are zap field keys whose string values are replaced
// wholesale rather than pattern-scanned.
var sensitiveFieldNames = map[string]bool{
	"password":      true,
	"api_key":       true,
	"apikey":        true,
	"token":         true,
	"secret":        true,
	"authorization": true,
	"store_token":   true,
}

// RedactSensitiveData replaces any secret material found in s with a
// placeholder. Safe to call on arbitrary log messages.
func RedactSensitiveData(s string) string {
	for _, p := range sensitivePatterns {
		s = p.ReplaceAllString(s, redactedPlaceholder)
	}
	return s
}

// RedactFieldValue redacts a field value based on its key first, then on
// its content.
func RedactFieldValue(key, value string) string {
	if IsSensitiveField(key) {
		return redactedPlaceholder
	}
	return RedactSensitiveData(value)
}

// IsSensitiveField reports whether a field key names a credential.
func IsSensitiveField(key string) bool {
	return sensitiveFieldNames[strings.ToLower(key)]
}

// ContainsSensitiveData reports whether s matches any secret pattern.
func ContainsSensitiveData(s string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

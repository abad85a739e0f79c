// Package secretscan flags plaintext secrets in an Action's URL, headers,
// or body before it is persisted, so that credentials end up behind a
// {VAR} placeholder instead of hardcoded. Grounded on
// pkg/core/secrets.go almost directly, with its {{VAR}} placeholder
// syntax narrowed to this repo's single-brace interpolation syntax
// (pkg/interpolate's {VAR} form).
package secretscan

import (
	"regexp"
	"strings"
)

// Patterns recognizes values that look like secrets: API keys, provider
// tokens, JWTs, and long random-looking strings.
var Patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(sk|pk|api|key|token|secret|password|passwd|pwd|auth|bearer|jwt|access|refresh)[-_]?[a-zA-Z0-9]{8,}`),
	regexp.MustCompile(`(?i)[a-zA-Z0-9]{32,}`),
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),
	regexp.MustCompile(`(?i)^bearer\s+[a-zA-Z0-9_\-.]+`),
	regexp.MustCompile(`(?i)^basic\s+[a-zA-Z0-9+/=]+`),
	regexp.MustCompile(`ghp_[a-zA-Z0-9]{36}`),
	regexp.MustCompile(`gho_[a-zA-Z0-9]{36}`),
	regexp.MustCompile(`github_pat_[a-zA-Z0-9_]{22,}`),
	regexp.MustCompile(`xox[baprs]-[a-zA-Z0-9\-]+`),
	regexp.MustCompile(`(?i)^ey[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]+\.`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`(?i)^[a-f0-9]{40}$`),
	regexp.MustCompile(`(?i)^[a-f0-9]{64}$`),
	regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`),
	regexp.MustCompile(`(?i)^sk_live_[a-zA-Z0-9]{24,}`),
	regexp.MustCompile(`(?i)^sk_test_[a-zA-Z0-9]{24,}`),
}

// SensitiveKeyPatterns flags field/header names whose value is typically
// sensitive, independent of whether the value itself matches Patterns.
var SensitiveKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)`),
	regexp.MustCompile(`(?i)(secret[_-]?key|secretkey)`),
	regexp.MustCompile(`(?i)(access[_-]?key|accesskey)`),
	regexp.MustCompile(`(?i)(auth[_-]?token|authtoken)`),
	regexp.MustCompile(`(?i)(password|passwd|pwd)`),
	regexp.MustCompile(`(?i)(private[_-]?key|privatekey)`),
	regexp.MustCompile(`(?i)(client[_-]?secret|clientsecret)`),
	regexp.MustCompile(`(?i)^token$`),
	regexp.MustCompile(`(?i)^secret$`),
	regexp.MustCompile(`(?i)authorization`),
}

// placeholderPattern matches this repo's {VAR} interpolation syntax.
var placeholderPattern = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// IsSecret reports whether a key/value pair looks sensitive: either the key
// names a conventionally-sensitive field, or the value matches a known
// secret shape.
func IsSecret(key, value string) bool {
	for _, pattern := range SensitiveKeyPatterns {
		if pattern.MatchString(key) {
			return true
		}
	}
	return looksLikeSecret(value)
}

func looksLikeSecret(value string) bool {
	if len(value) < 8 {
		return false
	}
	if strings.Contains(value, "{") && !hasNonPlaceholderContent(value) {
		return false
	}
	for _, pattern := range Patterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

func hasNonPlaceholderContent(value string) bool {
	stripped := strings.TrimSpace(placeholderPattern.ReplaceAllString(value, ""))
	return len(stripped) > 10
}

// Mask returns a partially-redacted form of a secret value: the first and
// last few characters survive, the middle is replaced with "...".
func Mask(value string) string {
	switch {
	case len(value) <= 8:
		return "****"
	case len(value) < 12:
		return value[:2] + "..." + value[len(value)-2:]
	default:
		return value[:4] + "..." + value[len(value)-4:]
	}
}

// HasPlaintextSecret reports whether text contains a hardcoded secret
// outside of any {VAR} placeholder.
func HasPlaintextSecret(text string) bool {
	if text == "" || isOnlyPlaceholder(text) {
		return false
	}
	for _, part := range nonPlaceholderParts(text) {
		for _, pattern := range Patterns {
			if pattern.MatchString(part) {
				return true
			}
		}
	}
	return false
}

func isOnlyPlaceholder(text string) bool {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"Bearer ", "bearer ", "Basic ", "basic ", "Token ", "token "} {
		text = strings.TrimPrefix(text, prefix)
	}
	stripped := strings.TrimSpace(placeholderPattern.ReplaceAllString(text, ""))
	return stripped == ""
}

func nonPlaceholderParts(text string) []string {
	parts := placeholderPattern.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "", "Bearer", "bearer", "Basic", "basic", "Token", "token":
			continue
		}
		out = append(out, part)
	}
	return out
}

// Finding is one flagged location within an Action's request shape.
type Finding struct {
	Location string // "url", "header:<name>", "body"
	Message  string
}

// Scan checks url, headers, and body for plaintext secrets, returning one
// Finding per location that needs a {VAR} placeholder instead.
func Scan(url string, headers map[string]string, body string) []Finding {
	var findings []Finding
	if HasPlaintextSecret(url) {
		findings = append(findings, Finding{Location: "url", Message: "URL contains a plaintext secret; use a {VAR} placeholder instead"})
	}
	for key, value := range headers {
		if HasPlaintextSecret(value) {
			findings = append(findings, Finding{Location: "header:" + key, Message: "header " + key + " contains a plaintext secret; use a {VAR} placeholder instead"})
		}
	}
	if HasPlaintextSecret(body) {
		findings = append(findings, Finding{Location: "body", Message: "body contains a plaintext secret; use a {VAR} placeholder instead"})
	}
	return findings
}

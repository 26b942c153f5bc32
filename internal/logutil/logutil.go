// Package logutil formats probe request and response data for diagnostic
// logging. Secrets never reach the logs: header and JSON body fields whose
// names look sensitive are redacted before formatting.
package logutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// IsSensitiveLogField returns true when a key likely contains sensitive data.
func IsSensitiveLogField(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, "_", "")

	switch {
	case normalized == "authorization":
		return true
	case strings.Contains(normalized, "token"):
		return true
	case strings.Contains(normalized, "secret"):
		return true
	case strings.Contains(normalized, "password"):
		return true
	case strings.Contains(normalized, "apikey"):
		return true
	case strings.Contains(normalized, "cookie"):
		return true
	case strings.Contains(normalized, "auth"):
		return true
	default:
		return false
	}
}

// RedactHeaderValue redacts a header value when the key looks sensitive.
func RedactHeaderValue(key, value string) string {
	if IsSensitiveLogField(key) {
		return "[REDACTED]"
	}
	return value
}

// FormatHeadersForLog returns stable, redacted header text for logs.
func FormatHeadersForLog(headers http.Header) string {
	if len(headers) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		values := headers.Values(k)
		if len(values) == 0 {
			parts = append(parts, fmt.Sprintf("%s=<empty>", strings.ToLower(k)))
			continue
		}

		redacted := make([]string, len(values))
		for i, v := range values {
			redacted[i] = RedactHeaderValue(k, v)
		}
		parts = append(parts, fmt.Sprintf("%s=%q", strings.ToLower(k), strings.Join(redacted, ", ")))
	}
	return strings.Join(parts, "; ")
}

// PrettyJSONForLog renders a JSON body indented for diagnostics, with
// sensitive fields redacted. Non-JSON input is returned unchanged.
func PrettyJSONForLog(body []byte) string {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return string(body)
	}
	redactValue(payload)
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(pretty)
}

func redactValue(v any) {
	switch typed := v.(type) {
	case map[string]any:
		for k, child := range typed {
			if IsSensitiveLogField(k) {
				typed[k] = "[REDACTED]"
				continue
			}
			redactValue(child)
		}
	case []any:
		for _, child := range typed {
			redactValue(child)
		}
	}
}

// FormatBodyForLog renders a body for safe logging: JSON bodies are redacted
// and pretty-printed, then the formatted text is truncated to maxBytes.
// Formatting happens before truncation so a cut never corrupts the redaction.
func FormatBodyForLog(contentType string, body []byte, maxBytes int) string {
	if len(body) == 0 {
		return ""
	}
	text := string(body)
	if strings.Contains(strings.ToLower(contentType), "json") {
		text = PrettyJSONForLog(body)
	}
	if maxBytes > 0 && len(text) > maxBytes {
		return text[:maxBytes] + " [truncated]"
	}
	return text
}

// TruncateForLog returns a single-line truncated preview for unstructured values.
func TruncateForLog(value string, maxChars int) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	normalized := strings.ReplaceAll(trimmed, "\n", "\\n")
	if maxChars <= 0 || len(normalized) <= maxChars {
		return normalized
	}
	return normalized[:maxChars] + "... [truncated]"
}

package utils

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var (
	jsonTokenPattern = regexp.MustCompile(`"access_token"\s*:\s*"([^"]{8,})"`)
	formTokenPattern = regexp.MustCompile(`access_token=([A-Za-z0-9+/=]{8,})`)
)

// SanitizeHeaders masks credential-bearing headers while keeping enough of
// the value to correlate log entries.
func SanitizeHeaders(headers http.Header) http.Header {
	sanitized := headers.Clone()
	if sanitized == nil {
		sanitized = http.Header{}
	}

	if val := sanitized.Get("Authorization"); val != "" {
		if strings.HasPrefix(val, "Bearer ") && len(val) > 12 {
			sanitized.Set("Authorization", val[:11]+"...")
		} else {
			sanitized.Set("Authorization", "***MASKED***")
		}
	}
	for _, key := range []string{"Cookie", "Set-Cookie", "X-Api-Key"} {
		if sanitized.Get(key) != "" {
			sanitized.Set(key, "***MASKED***")
		}
	}

	return sanitized
}

// SanitizeBody masks access tokens embedded in JSON or form-encoded
// request bodies, keeping the first and last four characters.
func SanitizeBody(body string) string {
	body = jsonTokenPattern.ReplaceAllStringFunc(body, func(m string) string {
		tok := jsonTokenPattern.FindStringSubmatch(m)[1]
		return fmt.Sprintf(`"access_token": "%s...%s"`, tok[:4], tok[len(tok)-4:])
	})
	body = formTokenPattern.ReplaceAllStringFunc(body, func(m string) string {
		tok := formTokenPattern.FindStringSubmatch(m)[1]
		return fmt.Sprintf("access_token=%s...%s", tok[:4], tok[len(tok)-4:])
	})
	return body
}

// HeadersToMap flattens headers into a loggable map, joining repeated
// values the way they would appear on the wire.
func HeadersToMap(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for key, vals := range headers {
		out[key] = strings.Join(vals, ", ")
	}
	return out
}

package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHeadersMasksBearerToken(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer abcdefghijklmnop")
	headers.Set("Content-Type", "application/json")

	sanitized := SanitizeHeaders(headers)

	assert.Equal(t, "Bearer abcd...", sanitized.Get("Authorization"))
	assert.Equal(t, "application/json", sanitized.Get("Content-Type"))
	// Input is untouched.
	assert.Equal(t, "Bearer abcdefghijklmnop", headers.Get("Authorization"))
}

func TestSanitizeHeadersShortAuthValue(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Basic xyz")

	assert.Equal(t, "***MASKED***", SanitizeHeaders(headers).Get("Authorization"))
}

func TestSanitizeBodyJSONToken(t *testing.T) {
	body := `{"access_token": "supersecretvalue1234", "consumer_key": "ck"}`
	got := SanitizeBody(body)

	assert.Contains(t, got, `"access_token": "supe...1234"`)
	assert.NotContains(t, got, "supersecretvalue1234")
	assert.Contains(t, got, `"consumer_key": "ck"`)
}

func TestSanitizeBodyFormToken(t *testing.T) {
	body := "url=https%3A%2F%2Fexample.com&access_token=AAAABBBBCCCCDDDD&output=epub"
	got := SanitizeBody(body)

	assert.Contains(t, got, "access_token=AAAA...DDDD")
	assert.NotContains(t, got, "AAAABBBBCCCCDDDD")
}

func TestSanitizeBodyShortTokenUntouched(t *testing.T) {
	body := `{"access_token": "short"}`
	assert.Equal(t, body, SanitizeBody(body))
}

package middlewares

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"kobogate/internal/utils"
)

type requestContextKey struct{}

// RequestContext is the diagnostic snapshot of an inbound request,
// captured before routing so error paths can dump exactly what the
// client sent. Values are sanitized only at dump time.
type RequestContext struct {
	CorrelationID string
	Method        string
	URL           string
	Headers       http.Header
	Body          string
	Timestamp     time.Time
}

// CaptureRequestContext stores a RequestContext in the request context.
// The body is read and restored so downstream decoding is unaffected.
func CaptureRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		rc := &RequestContext{
			CorrelationID: uuid.NewString(),
			Method:        r.Method,
			URL:           r.URL.String(),
			Headers:       r.Header.Clone(),
			Body:          string(body),
			Timestamp:     time.Now(),
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestContextKey{}, rc)))
	})
}

// RequestContextFrom retrieves the captured snapshot, if any.
func RequestContextFrom(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc, ok
}

// DumpError emits a structured ERROR_DUMP log entry carrying the
// sanitized captured request, for postmortem diagnosis of failed
// exchanges with the legacy client.
func DumpError(ctx context.Context, endpoint string, err error) {
	rc, ok := RequestContextFrom(ctx)
	if !ok {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("ERROR_DUMP")
		return
	}

	log.Error().
		Err(err).
		Str("endpoint", endpoint).
		Str("correlation_id", rc.CorrelationID).
		Str("method", rc.Method).
		Str("url", rc.URL).
		Interface("headers", utils.HeadersToMap(utils.SanitizeHeaders(rc.Headers))).
		Str("body", utils.SanitizeBody(rc.Body)).
		Time("timestamp", rc.Timestamp).
		Msg("ERROR_DUMP")
}

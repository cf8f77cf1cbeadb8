package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const fetchTimeout = 10 * time.Second

// Converter re-encodes arbitrary remote images as JPEG.
type Converter struct {
	http *http.Client
}

func NewConverter() *Converter {
	return &Converter{http: &http.Client{Timeout: fetchTimeout}}
}

// Convert fetches src and returns it re-encoded as JPEG at fixed
// quality. Every failure mode (fetch error, non-2xx, decode error,
// timeout) resolves to the placeholder image; the second return value
// reports whether the source image made it through.
func (c *Converter) Convert(ctx context.Context, src string) ([]byte, bool) {
	data, err := c.fetchAndEncode(ctx, src)
	if err != nil {
		return Placeholder("Image conversion failed"), false
	}
	return data, true
}

func (c *Converter) fetchAndEncode(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching image: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

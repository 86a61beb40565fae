package favicon

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sergeymakinen/go-ico"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/bnema/nexus/internal/logging"
)

const (
	// HTTP client timeout for icon fetch.
	fetchTimeout = 5 * time.Second
	// Response bodies are capped; favicons have no business being larger.
	maxIconBytes = 1024 * 1024
)

// Fetcher loads candidate icon URLs and verifies the response actually
// decodes as an image. It is the "image decode primitive" the resolver
// depends on: a candidate either loads or it doesn't, with no further
// distinction between failure modes.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a new Fetcher with default HTTP client settings.
func NewFetcher() *Fetcher {
	return NewFetcherWithTimeout(fetchTimeout)
}

// NewFetcherWithTimeout creates a Fetcher with a configured per-request
// timeout. Non-positive values fall back to the default.
func NewFetcherWithTimeout(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = fetchTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Load fetches iconURL and returns the raw bytes if they decode as a
// renderable image. Any failure (transport, non-200, empty body,
// undecodable payload) is returned as an error; callers treat all of
// them as "this candidate failed".
func (f *Fetcher) Load(ctx context.Context, iconURL string) ([]byte, error) {
	log := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", iconURL).Msg("icon fetch failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Str("url", iconURL).Msg("icon fetch returned non-OK status")
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	if err := ValidateImage(data); err != nil {
		log.Debug().Err(err).Str("url", iconURL).Msg("icon response is not a decodable image")
		return nil, err
	}

	log.Debug().Str("url", iconURL).Int("bytes", len(data)).Msg("icon loaded")
	return data, nil
}

// ValidateImage checks that data decodes as one of the renderable icon
// formats: PNG, JPEG, GIF, WebP, ICO, or SVG.
func ValidateImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty image data")
	}

	if isSVG(data) {
		return nil
	}
	if isICO(data) {
		if _, err := ico.Decode(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("decode ico: %w", err)
		}
		return nil
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	return nil
}

// isICO detects the ICO magic header (reserved=0, type=1).
func isICO(data []byte) bool {
	return len(data) >= 4 &&
		data[0] == 0x00 && data[1] == 0x00 &&
		data[2] == 0x01 && data[3] == 0x00
}

// isSVG sniffs SVG by content. SVGs are text and carry no magic bytes,
// so look for an <svg root within the leading chunk.
func isSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	s := strings.TrimSpace(string(head))
	if strings.HasPrefix(s, "<svg") {
		return true
	}
	return (strings.HasPrefix(s, "<?xml") || strings.HasPrefix(s, "<!DOCTYPE svg")) &&
		strings.Contains(s, "<svg")
}

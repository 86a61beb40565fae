package favicon

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"

	"github.com/bnema/nexus/internal/logging"
)

// Upload policy. Files are rejected above MaxUploadBytes before any
// processing; raster formats are recompressed until the encoded result
// fits MaxEncodedBytes with the longest edge capped at MaxIconEdge.
const (
	MaxUploadBytes  = 500 * 1024
	MaxEncodedBytes = 100 * 1024
	MaxIconEdge     = 128

	initialJPEGQuality = 80
	minJPEGQuality     = 10
	jpegQualityStep    = 10
)

// Typed ingestion errors. Terminal for the upload attempt only, never
// fatal to the application.
var (
	ErrUnsupportedType = errors.New("only PNG, JPG, SVG, ICO, WebP formats are supported")
	ErrTooLarge        = fmt.Errorf("file size cannot exceed %dKB", MaxUploadBytes/1024)
	ErrNotAnImage      = errors.New("invalid image file")
)

// Ingestor validates, normalizes and encodes user-uploaded icon images
// into data URIs suitable for inline rendering and persistence. It also
// tracks the icon/preview/error state for an edit flow, mirroring how
// the start page's shortcut modal uses it.
type Ingestor struct {
	icon    string
	preview string
	lastErr error
}

// NewIngestor creates an ingestor with empty state.
func NewIngestor() *Ingestor {
	return &Ingestor{}
}

// Icon returns the accepted inline icon, empty if none.
func (g *Ingestor) Icon() string { return g.icon }

// Preview returns the current preview source, empty if none.
func (g *Ingestor) Preview() string { return g.preview }

// Err returns the error from the last upload attempt, nil if none.
func (g *Ingestor) Err() error { return g.lastErr }

// Upload validates and processes a user-supplied image file. On
// success the returned data URI is stored as both icon and preview; on
// failure the typed error is recorded and returned.
func (g *Ingestor) Upload(ctx context.Context, data []byte) (string, error) {
	g.lastErr = nil

	uri, err := ProcessUpload(ctx, data)
	if err != nil {
		g.lastErr = err
		return "", err
	}

	g.icon = uri
	g.preview = uri
	return uri, nil
}

// Remove clears icon, preview and error state.
func (g *Ingestor) Remove() {
	g.icon = ""
	g.preview = ""
	g.lastErr = nil
}

// SetInitial seeds state from a previously-saved shortcut's icon when
// opening the edit flow. The value was validated when it was first
// accepted, so it is trusted as-is.
func (g *Ingestor) SetInitial(iconURL string) {
	g.icon = iconURL
	g.preview = iconURL
	g.lastErr = nil
}

// ProcessUpload runs the full ingestion pipeline on raw file bytes:
// type allow-list, size ceiling, recompression for raster formats, and
// a final decode validation before the data URI is produced.
func ProcessUpload(ctx context.Context, data []byte) (string, error) {
	log := logging.FromContext(ctx)

	mime, ok := sniffAllowedType(data)
	if !ok {
		return "", ErrUnsupportedType
	}
	if len(data) > MaxUploadBytes {
		return "", ErrTooLarge
	}

	encoded := data
	var err error

	// SVG and ICO pass through unprocessed; raster formats are
	// normalized to fit the inline budget.
	if mime != "image/svg+xml" && mime != "image/x-icon" {
		encoded, mime, err = recompress(data)
		if err != nil {
			log.Debug().Err(err).Msg("icon recompression failed")
			return "", ErrNotAnImage
		}
	}

	// A file that passed the MIME and size checks can still be garbage;
	// accept it only if it actually decodes.
	if err := ValidateImage(encoded); err != nil {
		return "", ErrNotAnImage
	}

	log.Debug().
		Str("mime", mime).
		Int("original_bytes", len(data)).
		Int("encoded_bytes", len(encoded)).
		Msg("icon upload processed")

	return dataURI(mime, encoded), nil
}

// sniffAllowedType detects the content type from the bytes themselves
// (extensions are not trusted) and checks it against the allow-list.
func sniffAllowedType(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	if isSVG(data) {
		return "image/svg+xml", true
	}
	if isICO(data) {
		return "image/x-icon", true
	}

	switch mime := http.DetectContentType(data); mime {
	case "image/png", "image/jpeg", "image/webp":
		return mime, true
	default:
		return mime, false
	}
}

// recompress decodes a raster image, scales it down so the longest edge
// is at most MaxIconEdge, and re-encodes it to fit MaxEncodedBytes.
// PNG is preferred to keep transparency; when the PNG does not fit the
// budget a JPEG quality ladder is walked instead, biased toward
// legibility over fidelity.
func recompress(data []byte) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}

	src = scaleDown(src, MaxIconEdge)

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, "", fmt.Errorf("encode png: %w", err)
	}
	if buf.Len() <= MaxEncodedBytes {
		return buf.Bytes(), "image/png", nil
	}

	var best []byte
	for quality := initialJPEGQuality; quality >= minJPEGQuality; quality -= jpegQualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		best = append(best[:0], buf.Bytes()...)
		if buf.Len() <= MaxEncodedBytes {
			break
		}
	}
	return best, "image/jpeg", nil
}

// scaleDown resizes src so its longest edge is at most maxEdge,
// preserving aspect ratio. Uses CatmullRom for high-quality
// interpolation. Images already within bounds are returned unchanged.
func scaleDown(src image.Image, maxEdge int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	var dw, dh int
	if w >= h {
		dw = maxEdge
		dh = h * maxEdge / w
	} else {
		dh = maxEdge
		dw = w * maxEdge / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// dataURI builds a self-describing inline representation embeddable
// directly as an image source.
func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

package favicon

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paddedPNG returns a valid PNG inflated to the requested total size.
// Trailing bytes after IEND do not affect decoding.
func paddedPNG(t *testing.T, size int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))))
	require.Less(t, buf.Len(), size)
	return append(buf.Bytes(), make([]byte, size-buf.Len())...)
}

func decodeDataURI(t *testing.T, uri string) (string, []byte) {
	t.Helper()
	rest, ok := strings.CutPrefix(uri, "data:")
	require.True(t, ok)
	meta, payload, ok := strings.Cut(rest, ",")
	require.True(t, ok)
	mime := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	return mime, data
}

func TestProcessUploadRejectsUnsupportedType(t *testing.T) {
	_, err := ProcessUpload(context.Background(), []byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestProcessUploadRejectsOversizedFile(t *testing.T) {
	_, err := ProcessUpload(context.Background(), paddedPNG(t, 600*1024))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestProcessUploadAcceptsLargePNGUnderCeiling(t *testing.T) {
	uri, err := ProcessUpload(context.Background(), paddedPNG(t, 400*1024))
	require.NoError(t, err)

	mime, data := decodeDataURI(t, uri)
	assert.Equal(t, "image/png", mime)
	assert.NoError(t, ValidateImage(data), "the inline representation must independently decode")
	assert.LessOrEqual(t, len(data), MaxEncodedBytes)
}

func TestProcessUploadScalesDownLargeImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 512, 256))))

	uri, err := ProcessUpload(context.Background(), buf.Bytes())
	require.NoError(t, err)

	_, data := decodeDataURI(t, uri)
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, MaxIconEdge, bounds.Dx())
	assert.Equal(t, MaxIconEdge/2, bounds.Dy(), "aspect ratio must be preserved")
}

func TestProcessUploadSVGPassesThroughUnprocessed(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><circle cx="12" cy="12" r="10"/></svg>`)

	uri, err := ProcessUpload(context.Background(), svg)
	require.NoError(t, err)

	mime, data := decodeDataURI(t, uri)
	assert.Equal(t, "image/svg+xml", mime)
	assert.Equal(t, svg, data, "SVG must not be recompressed")
}

func TestProcessUploadGIFRejected(t *testing.T) {
	// GIF decodes fine but is outside the allow-list.
	gif := append([]byte("GIF89a"), make([]byte, 32)...)
	_, err := ProcessUpload(context.Background(), gif)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestIngestorStateLifecycle(t *testing.T) {
	g := NewIngestor()
	ctx := context.Background()

	// Failed upload records the error, state otherwise untouched.
	_, err := g.Upload(ctx, []byte("garbage"))
	require.Error(t, err)
	assert.Equal(t, err, g.Err())
	assert.Empty(t, g.Icon())

	// Successful upload sets icon and preview and clears the error.
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	uri, err := g.Upload(ctx, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uri, g.Icon())
	assert.Equal(t, uri, g.Preview())
	assert.NoError(t, g.Err())

	// SetInitial seeds trusted state without re-validation.
	g.SetInitial("data:image/png;base64,TRUSTED")
	assert.Equal(t, "data:image/png;base64,TRUSTED", g.Icon())

	g.Remove()
	assert.Empty(t, g.Icon())
	assert.Empty(t, g.Preview())
	assert.NoError(t, g.Err())
}

func TestValidateImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	assert.NoError(t, ValidateImage(buf.Bytes()))
	assert.NoError(t, ValidateImage([]byte(`<svg xmlns="x"></svg>`)))
	assert.Error(t, ValidateImage(nil))
	assert.Error(t, ValidateImage([]byte("not an image")))
	// ICO magic with a truncated body must fail the decode check.
	assert.Error(t, ValidateImage([]byte{0x00, 0x00, 0x01, 0x00, 0xFF}))
}

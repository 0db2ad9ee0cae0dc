package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCheckImageUpload(t *testing.T) {
	tests := []struct {
		name     string
		mimetype string
		size     int64
		wantErr  string
	}{
		{"png within limit", "image/png", 1024, ""},
		{"jpeg at limit", "image/jpeg", MaxImageBytes, ""},
		{"over limit", "image/png", MaxImageBytes + 1, "Image size exceeds 1MB"},
		{"not an image", "application/pdf", 1024, "Invalid image format"},
		{"empty mimetype", "", 1024, "Invalid image format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckImageUpload(tt.mimetype, tt.size)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			serr, ok := err.(ServiceError)
			require.True(t, ok)
			assert.Equal(t, 400, serr.Status)
			assert.Equal(t, tt.wantErr, serr.Message)
		})
	}
}

func TestNormalizeImageRoundTrip(t *testing.T) {
	data := pngBytes(t, 8, 8)

	out, err := NormalizeImage(data, "image/png")
	require.NoError(t, err)
	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 8, decoded.Bounds().Dx())
	assert.Equal(t, 8, decoded.Bounds().Dy())
}

func TestNormalizeImageFallsBackToJPEG(t *testing.T) {
	data := pngBytes(t, 4, 4)

	// Types without an encoder re-serialize as JPEG.
	for _, mimetype := range []string{"image/jpeg", "image/webp", "image/tiff"} {
		out, err := NormalizeImage(data, mimetype)
		require.NoError(t, err, mimetype)
		_, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err, mimetype)
		assert.Equal(t, "jpeg", format, mimetype)
	}
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	_, err := NormalizeImage([]byte("definitely not an image"), "image/png")
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 400, serr.Status)
	assert.Equal(t, "Invalid image file", serr.Message)
}

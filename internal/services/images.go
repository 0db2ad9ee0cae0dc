package services

import (
	"bytes"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes is the upload ceiling for Content and BlogPost images.
const MaxImageBytes = 1 << 20

const jpegQuality = 85

// CheckImageUpload enforces the shared upload rules: the declared type must
// be an image and the payload must fit within MaxImageBytes.
func CheckImageUpload(mimetype string, size int64) error {
	if !strings.HasPrefix(mimetype, "image/") {
		return ErrBadRequest("Invalid image format")
	}
	if size > MaxImageBytes {
		return ErrBadRequest("Image size exceeds 1MB")
	}
	return nil
}

// NormalizeImage decodes an upload, flattens it to RGB and re-encodes it in
// the format implied by the declared mimetype, falling back to JPEG for
// formats without an encoder. Blog post images are stored this way so the
// served bytes are always a canonical representation of the upload.
func NormalizeImage(data []byte, mimetype string) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage("Invalid image file")
	}
	rgb := toRGB(src)

	var out bytes.Buffer
	switch mimetype {
	case "image/png":
		err = png.Encode(&out, rgb)
	case "image/gif":
		err = gif.Encode(&out, rgb, nil)
	case "image/bmp":
		err = bmp.Encode(&out, rgb)
	default:
		// image/jpeg, image/webp and anything else re-serialize as JPEG.
		err = jpeg.Encode(&out, rgb, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, ErrInvalidImage("Image processing error")
	}
	return out.Bytes(), nil
}

func toRGB(src image.Image) image.Image {
	if _, ok := src.(*image.NRGBA); ok {
		return src
	}
	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return dst
}

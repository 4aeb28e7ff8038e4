package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrInvalidImage means the uploaded bytes could not be decoded as an image
	ErrInvalidImage = errors.New("invalid image")
	// ErrUnsupportedFormat means the declared content type names no format we can write
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

const defaultMIMEType = "application/octet-stream"

type imageEncoder func(w io.Writer, img image.Image) error

var imageEncoders = map[string]imageEncoder{
	"png": png.Encode,
	"jpeg": func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpeg.DefaultQuality})
	},
	"gif": func(w io.Writer, img image.Image) error {
		return gif.Encode(w, img, nil)
	},
	"bmp": bmp.Encode,
	"tiff": func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, nil)
	},
}

func encoderFor(contentType string) (imageEncoder, error) {
	_, subtype, ok := strings.Cut(contentType, "/")
	if !ok || subtype == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, contentType)
	}
	subtype = strings.ToLower(strings.TrimSpace(subtype))
	if i := strings.IndexByte(subtype, ';'); i >= 0 {
		subtype = strings.TrimSpace(subtype[:i])
	}
	if subtype == "jpg" {
		subtype = "jpeg"
	}

	enc, ok := imageEncoders[subtype]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, contentType)
	}
	return enc, nil
}

// EncodeDataURL decodes an uploaded image and re-encodes it in the format
// named by contentType's subtype. The declared content type is kept verbatim
// as the data URL's media type.
func EncodeDataURL(data []byte, contentType string) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	enc, err := encoderFor(contentType)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		return "", fmt.Errorf("failed to re-encode image as %s: %w", contentType, err)
	}

	return dataURL(contentType, buf.Bytes()), nil
}

// LocalImageDataURL reads a file as-is into a data URL, guessing the media
// type from the extension.
func LocalImageDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", path, err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	return dataURL(mimeType, data), nil
}

func dataURL(mimeType string, payload []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

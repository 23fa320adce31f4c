package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
)

const (
	MaxAvatarBytes = 5 << 20
	AvatarSize     = 256
)

var (
	ErrImageTooLarge    = errors.New("image exceeds 5 MiB")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// NormalizeAvatar validates an uploaded image and re-encodes it as a square JPEG.
func NormalizeAvatar(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxAvatarBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxAvatarBytes {
		return nil, ErrImageTooLarge
	}
	if !allowedImageTypes[http.DetectContentType(raw)] {
		return nil, ErrUnsupportedImage
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedImage
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img = imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

package library

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/nfnt/resize"
)

const thumbnailWidth uint = 200
const thumbnailHeight uint = 300

// Thumbnail resizes img so that portrait images are width pixels wide and
// all others are height pixels tall, keeping the aspect ratio. Zero bounds
// fall back to 200x300.
func Thumbnail(img image.Image, width, height uint) image.Image {
	if width == 0 {
		width = thumbnailWidth
	}
	if height == 0 {
		height = thumbnailHeight
	}

	if img.Bounds().Dy() > img.Bounds().Dx() {
		return resize.Resize(width, 0, img, resize.Lanczos3)
	}
	return resize.Resize(0, height, img, resize.Lanczos3)
}

// EncodeJPEG encodes img as a JPEG.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	// Quality 75 is a good balance.
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateThumbnail resizes img, encodes it as a Base64 JPEG, and returns it
// as a data URI string.
func GenerateThumbnail(img image.Image, width, height uint) (string, error) {
	data, err := EncodeJPEG(Thumbnail(img, width, height))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(data)), nil
}

package utils

import (
	"bytes"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"mime/multipart"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/Orhanguezel/metahub-backend-sub001/pkg/logger"
)

// ProcessImage resizes the upload and re-encodes it as WebP, falling back to
// JPEG when the WebP encoder fails.
func ProcessImage(file multipart.File, filename string) ([]byte, string, error) {
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", err
	}
	logger.Get().Debug().Str("file", filename).Str("format", format).Msg("Processing image")

	// Cap width at 2000px, keep aspect ratio
	bounds := img.Bounds()
	if bounds.Dx() > 2000 {
		img = imaging.Resize(img, 2000, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	err = webp.Encode(&buf, img, &webp.Options{
		Lossless: false,
		Quality:  85,
	})
	if err != nil {
		logger.Get().Warn().Err(err).Msg("WebP encoding failed, falling back to JPEG")
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}

	return buf.Bytes(), "image/webp", nil
}

// IsImage verifies simple content type
func IsImage(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/png" || contentType == "image/webp" || contentType == "image/jpg"
}

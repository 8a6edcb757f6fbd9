// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging generates the thumbnail shown in the media grid for
// files that take the direct-to-bucket upload path. Files uploaded
// through the backend get their variants from the backend itself; this
// package only covers the bypass route.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	_ "image/gif"  // register GIF decoder
	_ "image/png"  // register PNG decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// ThumbWidth is the media-grid thumbnail width in pixels.
	ThumbWidth = 320

	// maxImagePixels guards against decompression bombs.
	maxImagePixels = 50_000_000

	thumbQuality = 80
)

// Thumbnail creates a JPEG thumbnail constrained to ThumbWidth while
// preserving aspect ratio. Returns (nil, nil) when the source is
// already small enough to serve as its own thumbnail. The reader must
// support seeking.
func Thumbnail(src io.ReadSeeker) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode config: %w", err)
	}

	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("imaging: image too large: %dx%d", cfg.Width, cfg.Height)
	}

	if cfg.Width <= ThumbWidth {
		return nil, nil
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("imaging: seek: %w", err)
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(ThumbWidth) / float64(bounds.Dx())
	height := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, ThumbWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// ExtensionForType returns a file extension for the MIME types the
// media library accepts.
func ExtensionForType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}

package service

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"

	"github.com/avdeyev/storefront/internal/apperr"
)

const webpQuality = 80

// ImageService converts uploaded product images to WebP under Dir. An
// existing output file is renamed with an "old-" prefix rather than
// destructively overwritten.
type ImageService struct {
	Dir string
}

func (s *ImageService) ProcessAndSave(filename string, r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", apperr.Validation("Unsupported image format", nil)
	}

	base := filepath.Base(filename)
	webpName := strings.TrimSuffix(base, filepath.Ext(base)) + ".webp"
	outputPath := filepath.Join(s.Dir, webpName)

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create assets dir: %w", err)
	}

	if _, err := os.Stat(outputPath); err == nil {
		oldPath := filepath.Join(s.Dir, "old-"+webpName)
		_ = os.Remove(oldPath)
		if err := os.Rename(outputPath, oldPath); err != nil {
			return "", fmt.Errorf("rename previous image: %w", err)
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer out.Close()

	if err := webp.Encode(out, img, &webp.Options{Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}
	return webpName, nil
}

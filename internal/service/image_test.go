package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avdeyev/storefront/internal/apperr"
)

func pngFixture(t *testing.T) *bytes.Buffer {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestProcessAndSaveConvertsToWebP(t *testing.T) {
	svc := &ImageService{Dir: t.TempDir()}

	name, err := svc.ProcessAndSave("photo.png", pngFixture(t))
	require.NoError(t, err)
	require.Equal(t, "photo.webp", name)

	info, err := os.Stat(filepath.Join(svc.Dir, "photo.webp"))
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestProcessAndSaveKeepsPreviousAsOld(t *testing.T) {
	svc := &ImageService{Dir: t.TempDir()}

	_, err := svc.ProcessAndSave("photo.png", pngFixture(t))
	require.NoError(t, err)

	name, err := svc.ProcessAndSave("photo.png", pngFixture(t))
	require.NoError(t, err)
	require.Equal(t, "photo.webp", name)

	_, err = os.Stat(filepath.Join(svc.Dir, "photo.webp"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(svc.Dir, "old-photo.webp"))
	require.NoError(t, err)
}

func TestProcessAndSaveRejectsNonImage(t *testing.T) {
	svc := &ImageService{Dir: t.TempDir()}

	_, err := svc.ProcessAndSave("notes.txt", strings.NewReader("not an image"))
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.TypeValidation, ae.Type)
}

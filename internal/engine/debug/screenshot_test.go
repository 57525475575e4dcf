package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenshotsSaveFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "park")
	s.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	// Two rows, bottom row first: red then blue.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	path, err := s.Save(pixels, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "park_2024-05-01_12-30-00_000.png"), path)
	assert.Equal(t, filepath.Join(dir, "park_2024-05-01_12-30-00_001.png"), s.Filename())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, color.RGBAModel.Convert(color.RGBA{B: 255, A: 255}), color.RGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.RGBAModel.Convert(color.RGBA{R: 255, A: 255}), color.RGBAModel.Convert(img.At(1, 1)))
}

func TestScreenshotsSizeMismatch(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "park")
	_, err := s.Save(make([]byte, 10), 2, 2)
	assert.ErrorContains(t, err, "size mismatch")
}

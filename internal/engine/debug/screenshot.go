// Package debug holds viewer diagnostics.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes framebuffer captures as numbered PNG files.
type Screenshots struct {
	Dir    string
	Prefix string
	Now    func() time.Time
	seq    int
}

// NewScreenshots creates a writer saving into dir.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{Dir: dir, Prefix: prefix, Now: time.Now}
}

// Filename returns the path the next capture would be written to.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s_%03d.png", s.Prefix, s.Now().Format("2006-01-02_15-04-05"), s.seq)
	return filepath.Join(s.Dir, name)
}

// Save encodes bottom-up RGBA rows, as glReadPixels returns them, into a
// top-down PNG and returns its path.
func (s *Screenshots) Save(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return "", fmt.Errorf("creating screenshot dir: %w", err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := range height {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}

	path := s.Filename()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating screenshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding screenshot: %w", err)
	}
	s.seq++
	return path, nil
}

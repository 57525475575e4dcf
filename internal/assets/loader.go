package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/funpark/internal/logger"
)

// Spec names the file a slot's texture comes from.
type Spec struct {
	Slot string
	Path string
}

// SpecsFromMap turns a slot -> path map into specs ordered by slot.
func SpecsFromMap(textures map[string]string) []Spec {
	specs := make([]Spec, 0, len(textures))
	for _, slot := range slices.Sorted(maps.Keys(textures)) {
		specs = append(specs, Spec{Slot: slot, Path: textures[slot]})
	}
	return specs
}

// Loader resolves texture specs into a Registry.
type Loader struct {
	manager *Manager
	workers int
	log     *zap.Logger
}

// NewLoader creates a loader decoding at most workers files at once.
func NewLoader(m *Manager, workers int) *Loader {
	return &Loader{
		manager: m,
		workers: max(workers, 1),
		log:     logger.Named("assets"),
	}
}

// Resolve loads and decodes every spec concurrently. A file that cannot be
// read or decoded is logged and replaced by its slot's placeholder colour;
// only context cancellation fails the whole call.
func (l *Loader) Resolve(ctx context.Context, specs []Spec) (*Registry, error) {
	textures := make([]*Texture, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, spec := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tex, err := l.load(spec)
			if err != nil {
				l.log.Warn("texture unavailable, using placeholder",
					zap.String("slot", spec.Slot),
					zap.String("path", spec.Path),
					zap.Error(err))
				tex = Placeholder(spec.Slot)
				tex.Path = spec.Path
			}
			textures[i] = tex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolving textures: %w", err)
	}

	reg := NewRegistry(textures...)
	l.log.Info("textures resolved",
		zap.Int("slots", len(textures)),
		zap.Int("placeholders", reg.Placeholders()))
	return reg, nil
}

// ResolveAsync runs Resolve in a goroutine and calls done with the result
// once every load has finished. done runs on that goroutine; callers hand
// the registry to their own loop.
func (l *Loader) ResolveAsync(ctx context.Context, specs []Spec, done func(*Registry, error)) {
	go func() {
		done(l.Resolve(ctx, specs))
	}()
}

func (l *Loader) load(spec Spec) (*Texture, error) {
	data, err := l.manager.Load(spec.Path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(spec.Path, data)
	if err != nil {
		return nil, err
	}
	return &Texture{
		Slot:  spec.Slot,
		Path:  spec.Path,
		Image: img,
		Color: PlaceholderColor(spec.Slot),
	}, nil
}

// Decode decodes PNG, JPEG, BMP or TGA data into RGBA. The format is
// sniffed from the data except for TGA, which is chosen by extension.
func Decode(path string, data []byte) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return toRGBA(img), nil
}

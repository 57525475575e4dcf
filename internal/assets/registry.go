package assets

import (
	"image"
	"image/color"
	"image/draw"
	"maps"
	"slices"
)

// Material slots the park assigns textures to.
const (
	SlotRail    = "rail"
	SlotColumn  = "column"
	SlotTunnelA = "tunnelA"
	SlotTunnelB = "tunnelB"
	SlotLamp    = "lamp"
	SlotTrain   = "train"
	SlotChairs  = "chairs"
	SlotGround  = "ground"
)

// Placeholder colours used until (or instead of) a decoded texture.
var placeholderColors = map[string]color.RGBA{
	SlotRail:    {R: 178, G: 34, B: 34, A: 255},
	SlotColumn:  {R: 200, G: 200, B: 205, A: 255},
	SlotTunnelA: {R: 140, G: 82, B: 60, A: 255},
	SlotTunnelB: {R: 120, G: 120, B: 110, A: 255},
	SlotLamp:    {R: 60, G: 60, B: 60, A: 255},
	SlotTrain:   {R: 30, G: 90, B: 200, A: 255},
	SlotChairs:  {R: 240, G: 200, B: 40, A: 255},
	SlotGround:  {R: 80, G: 140, B: 60, A: 255},
}

var neutral = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// PlaceholderColor returns the flat colour of a slot.
func PlaceholderColor(slot string) color.RGBA {
	if c, ok := placeholderColors[slot]; ok {
		return c
	}
	return neutral
}

// Texture is the resolved material of one slot. Image is nil for
// placeholders.
type Texture struct {
	Slot  string
	Path  string
	Image *image.RGBA
	Color color.RGBA
}

// Placeholder reports whether the texture is a flat colour.
func (t *Texture) Placeholder() bool {
	return t.Image == nil
}

// Placeholder returns a flat-colour texture for slot.
func Placeholder(slot string) *Texture {
	return &Texture{Slot: slot, Color: PlaceholderColor(slot)}
}

// Registry maps slots to resolved textures. It is built once by a Loader and
// never mutated afterwards.
type Registry struct {
	textures map[string]*Texture
}

// NewRegistry builds a registry from resolved textures.
func NewRegistry(textures ...*Texture) *Registry {
	r := &Registry{textures: make(map[string]*Texture, len(textures))}
	for _, t := range textures {
		r.textures[t.Slot] = t
	}
	return r
}

// PlaceholderRegistry returns a registry holding placeholders for slots.
func PlaceholderRegistry(slots ...string) *Registry {
	textures := make([]*Texture, len(slots))
	for i, s := range slots {
		textures[i] = Placeholder(s)
	}
	return NewRegistry(textures...)
}

// Get returns the texture of slot, or a placeholder when the slot is unknown.
func (r *Registry) Get(slot string) *Texture {
	if t, ok := r.textures[slot]; ok {
		return t
	}
	return Placeholder(slot)
}

// Slots returns the registered slots in sorted order.
func (r *Registry) Slots() []string {
	return slices.Sorted(maps.Keys(r.textures))
}

// Placeholders returns how many registered slots fell back to a flat colour.
func (r *Registry) Placeholders() int {
	n := 0
	for _, t := range r.textures {
		if t.Placeholder() {
			n++
		}
	}
	return n
}

// toRGBA converts any decoded image to tightly packed RGBA for upload.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

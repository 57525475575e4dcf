// Package renderer draws the park scene graph with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/funpark/internal/assets"
	"github.com/Faultbox/funpark/internal/engine/lighting"
	"github.com/Faultbox/funpark/internal/engine/shader"
	"github.com/Faultbox/funpark/internal/engine/shadow"
	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/internal/logger"
	"github.com/Faultbox/funpark/internal/scene"
	"github.com/Faultbox/funpark/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	FOV    float32 // Vertical, degrees
	Near   float32
	Far    float32
	Shadow int32 // Shadow map resolution, 0 disables shadows
}

// Frame is the per-frame state a Draw call needs.
type Frame struct {
	View       math.Mat4
	LightSpace math.Mat4 // Sun view-projection for the shadow pass
	Sun        lighting.Sun
	Lights     *lighting.PointLightBuffer
	Highlight  *scene.Node
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// Renderer uploads meshes and textures on first use and draws scene nodes.
type Renderer struct {
	config  Config
	program *shader.Program
	depth   *shader.Program
	shadow  *shadow.Map

	meshes       map[*surface.Mesh]*gpuMesh
	textures     map[*assets.Texture]uint32
	placeholders map[string]*assets.Texture
	white        uint32

	log *zap.Logger
}

// New initialises OpenGL. It must be called after the context exists.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:       cfg,
		meshes:       make(map[*surface.Mesh]*gpuMesh),
		textures:     make(map[*assets.Texture]uint32),
		placeholders: make(map[string]*assets.Texture),
		log:          logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0.55, 0.75, 0.95, 1.0)

	var err error
	r.program, err = shader.New(sceneVertexShader, sceneFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene shader: %w", err)
	}
	r.white = uploadColor(255, 255, 255, 255)

	if cfg.Shadow > 0 {
		r.depth, err = shader.New(depthVertexShader, depthFragmentShader)
		if err != nil {
			return nil, fmt.Errorf("failed to create depth shader: %w", err)
		}
		r.shadow = shadow.NewMap(cfg.Shadow)
		if !r.shadow.IsValid() {
			r.log.Warn("shadow map unavailable, drawing without shadows")
		}
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close releases every GPU resource.
func (r *Renderer) Close() {
	r.log.Debug("closing renderer", zap.Int("meshes", len(r.meshes)), zap.Int("textures", len(r.textures)))
	for _, m := range r.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	for _, id := range r.textures {
		gl.DeleteTextures(1, &id)
	}
	gl.DeleteTextures(1, &r.white)
	if r.shadow.IsValid() {
		r.shadow.Destroy()
	}
	if r.depth != nil {
		r.depth.Delete()
	}
	r.program.Delete()
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Projection returns the perspective matrix for the current viewport.
func (r *Renderer) Projection() math.Mat4 {
	aspect := float32(r.config.Width) / float32(max(r.config.Height, 1))
	return math.Perspective(r.config.FOV*math.Pi/180, aspect, r.config.Near, r.config.Far)
}

// Viewport returns the viewport size in pixels.
func (r *Renderer) Viewport() (float32, float32) {
	return float32(r.config.Width), float32(r.config.Height)
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders every visible mesh node below root, after a shadow pass
// when shadows are enabled.
func (r *Renderer) Draw(root *scene.Node, f Frame) {
	shadows := r.shadow.IsValid()
	if shadows {
		r.drawDepth(root, f.LightSpace)
	}

	p := r.program
	p.Use()
	p.SetMat4("uView", f.View)
	p.SetMat4("uLightSpace", f.LightSpace)
	p.SetInt("uShadowMap", 1)
	if shadows {
		p.SetInt("uShadows", 1)
		r.shadow.BindTexture(gl.TEXTURE1)
	} else {
		p.SetInt("uShadows", 0)
	}
	p.SetMat4("uProjection", r.Projection())
	p.SetVec3("uSunDir", f.Sun.Direction)
	p.SetVec3("uSunColor", f.Sun.Color)
	p.SetVec3("uAmbient", f.Sun.Ambient)
	p.SetInt("uTexture", 0)

	count := 0
	if f.Lights != nil {
		count = f.Lights.Count()
		p.SetVec3s("uPointPos", f.Lights.Positions())
		p.SetVec3s("uPointColor", f.Lights.Colors())
		p.SetFloats("uPointRange", f.Lights.Ranges())
	}
	p.SetInt("uPointCount", int32(count))

	gl.ActiveTexture(gl.TEXTURE0)
	root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if n.Mesh == nil || len(n.Mesh.Indices) == 0 {
			return true
		}

		tex, scale := r.texture(n)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		p.SetVec3("uUVScale", scale)
		var glow math.Vec3
		if n == f.Highlight {
			glow = math.Vec3{X: 0.25, Y: 0.25, Z: 0.1}
		}
		p.SetVec3("uHighlight", glow)
		p.SetMat4("uModel", n.World())

		m := r.mesh(n.Mesh)
		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
		return true
	})
	gl.BindVertexArray(0)
}

func (r *Renderer) drawDepth(root *scene.Node, lightSpace math.Mat4) {
	r.shadow.Bind()
	r.depth.Use()
	r.depth.SetMat4("uLightSpace", lightSpace)
	root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if n.Mesh == nil || len(n.Mesh.Indices) == 0 {
			return true
		}
		r.depth.SetMat4("uModel", n.World())
		m := r.mesh(n.Mesh)
		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
		return true
	})
	gl.BindVertexArray(0)
	r.shadow.Unbind()
}

// End finishes the frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

func (r *Renderer) mesh(m *surface.Mesh) *gpuMesh {
	if g, ok := r.meshes[m]; ok {
		return g
	}
	g := &gpuMesh{count: int32(len(m.Indices))}
	stride := int32(unsafe.Sizeof(surface.Vertex{}))

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(stride), unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 24)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	r.meshes[m] = g
	r.log.Debug("mesh uploaded", zap.Int("vertices", len(m.Vertices)), zap.Int32("indices", g.count))
	return g
}

// texture returns the GL texture of a node and the UV repeat to apply.
// Nodes without a resolved texture draw their slot's placeholder colour.
func (r *Renderer) texture(n *scene.Node) (uint32, math.Vec3) {
	t := n.Texture
	if t == nil {
		if n.Slot == "" {
			return r.white, math.Vec3{X: 1, Y: 1}
		}
		t = r.placeholders[n.Slot]
		if t == nil {
			t = assets.Placeholder(n.Slot)
			r.placeholders[n.Slot] = t
		}
	}
	if id, ok := r.textures[t]; ok {
		return id, uvScale(t)
	}

	var id uint32
	if t.Placeholder() {
		id = uploadColor(t.Color.R, t.Color.G, t.Color.B, t.Color.A)
	} else {
		id = uploadImage(t.Image.Pix, t.Image.Bounds().Dx(), t.Image.Bounds().Dy())
	}
	r.textures[t] = id
	return id, uvScale(t)
}

// Sweeps run their v coordinate once along the whole track, so textured
// slots repeat along it.
func uvScale(t *assets.Texture) math.Vec3 {
	switch t.Slot {
	case assets.SlotRail:
		return math.Vec3{X: 1, Y: 200}
	case assets.SlotGround:
		return math.Vec3{X: 20, Y: 20}
	}
	return math.Vec3{X: 1, Y: 1}
}

func uploadColor(r, g, b, a uint8) uint32 {
	px := []uint8{r, g, b, a}
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(px))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	return id
}

func uploadImage(pix []uint8, w, h int) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return id
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

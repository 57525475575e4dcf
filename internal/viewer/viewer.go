// Package viewer runs the interactive park window: input, simulation ticks,
// texture hand-over and rendering.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/funpark/internal/assets"
	"github.com/Faultbox/funpark/internal/config"
	"github.com/Faultbox/funpark/internal/engine/camera"
	"github.com/Faultbox/funpark/internal/engine/debug"
	"github.com/Faultbox/funpark/internal/engine/input"
	"github.com/Faultbox/funpark/internal/engine/lighting"
	"github.com/Faultbox/funpark/internal/engine/picking"
	"github.com/Faultbox/funpark/internal/engine/renderer"
	"github.com/Faultbox/funpark/internal/engine/window"
	"github.com/Faultbox/funpark/internal/logger"
	"github.com/Faultbox/funpark/internal/park"
	"github.com/Faultbox/funpark/internal/park/chairs"
	"github.com/Faultbox/funpark/internal/scene"
	"github.com/Faultbox/funpark/pkg/math"
)

const title = "FunPark"

// lampRange is how far a lamp lights the scene.
const lampRange = 12

// Viewer is the main viewer instance.
type Viewer struct {
	cfg      *config.Config
	running  bool
	paused   bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	park     *park.Park
	clock    *park.Clock
	rig      *camera.Rig
	sun      lighting.Sun
	sunSpace math.Mat4
	lamps    []lighting.PointLight
	lights   *lighting.PointLightBuffer
	selected *scene.Node
	dragging bool
	shots    *debug.Screenshots
	capture  bool

	textures chan *assets.Registry
	cancel   context.CancelFunc
	failing  bool

	log *zap.Logger
}

// New builds the park, opens the window and starts resolving textures in
// the background.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:      cfg,
		clock:    park.NewClock(),
		sun:      lighting.NewSun(135, 55),
		lights:   lighting.NewPointLightBuffer(),
		textures: make(chan *assets.Registry, 1),
		shots:    debug.NewScreenshots("screenshots", "funpark"),
		log:      logger.Named("viewer"),
	}

	var err error
	v.park, err = park.Build(cfg.Park)
	if err != nil {
		return nil, fmt.Errorf("failed to build park: %w", err)
	}

	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the context the window created.
	w, h := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:  w,
		Height: h,
		FOV:    cfg.Graphics.FOV,
		Near:   0.1,
		Far:    1000,
		Shadow: 2048,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()

	orbit := camera.NewOrbitCamera()
	orbit.FitToBounds(v.park.Rail.Bounds)
	var rides []camera.RideCamera
	for _, cc := range cfg.Park.Train.Cameras {
		if n := v.park.Train.FindByName(cc.Name); n != nil {
			rides = append(rides, camera.RideCamera{Name: cc.Name, Source: n})
		}
	}
	v.rig = camera.NewRig(orbit, rides...)

	v.sunSpace = lighting.ShadowMatrix(v.sun.Direction, v.park.Bounds())
	v.lamps = lighting.FromPositions(park.LampLights(v.park.Root, cfg.Park.Lamps.Height), lampRange)
	v.loadTextures()

	v.log.Info("viewer initialized",
		zap.Int("nodes", v.park.Stats.Nodes),
		zap.Int("lamps", len(v.lamps)),
		zap.Int("cameras", len(rides)+1))
	return v, nil
}

// loadTextures resolves the configured textures off the main thread. The
// registry comes back through a channel and is applied by the frame loop.
func (v *Viewer) loadTextures() {
	manager := assets.NewManager()
	for _, dir := range v.cfg.Assets.Dirs {
		if err := manager.AddDir(dir); err != nil {
			v.log.Warn("skipping texture directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	loader := assets.NewLoader(manager, v.cfg.Assets.Workers)
	loader.ResolveAsync(ctx, assets.SpecsFromMap(v.cfg.Assets.Textures), func(reg *assets.Registry, err error) {
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				v.log.Error("texture resolution failed", zap.Error(err))
			}
			return
		}
		v.textures <- reg
	})
}

// Run starts the frame loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true
	last := time.Now()
	frames := 0
	fpsTimer := last

	v.log.Info("starting frame loop")
	for v.running {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if v.input.Update() {
			break
		}
		v.handleEvents()

		select {
		case reg := <-v.textures:
			v.park.ApplyTextures(reg)
		default:
		}

		v.update(dt)
		v.render()
		v.window.SwapBuffers()

		if limit := v.cfg.Graphics.FPSLimit; limit > 0 {
			if budget := time.Second / time.Duration(limit); time.Since(now) < budget {
				sdl.Delay(uint32((budget - time.Since(now)).Milliseconds()))
			}
		}

		frames++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("%s - %s - %d fps", title, v.rig.Name(), frames))
			v.log.Debug("fps", zap.Int("count", frames), zap.Float32("dt", dt))
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (v *Viewer) handleEvents() {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.Size())
		case input.EventKeyDown:
			v.handleKey(e.Key)
		case input.EventMouseDown:
			switch e.Button {
			case sdl.BUTTON_LEFT:
				v.dragging = true
			case sdl.BUTTON_RIGHT:
				v.pick(e.MouseX, e.MouseY)
			}
		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_LEFT {
				v.dragging = false
			}
		case input.EventMouseMove:
			if v.dragging && v.rig.Orbiting() {
				v.rig.Orbit.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
			}
		case input.EventMouseWheel:
			if v.rig.Orbiting() {
				v.rig.Orbit.HandleZoom(float32(e.DeltaY))
			}
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_C, sdl.SCANCODE_TAB:
		v.log.Info("camera", zap.String("active", v.rig.Next()))
	case sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3, sdl.SCANCODE_4:
		v.rig.Select(int(key - sdl.SCANCODE_1))
		v.log.Info("camera", zap.String("active", v.rig.Name()))
	case sdl.SCANCODE_P, sdl.SCANCODE_SPACE:
		v.paused = !v.paused
		v.log.Info("simulation", zap.Bool("paused", v.paused))
	case sdl.SCANCODE_F:
		v.rig.Orbit.FitToBounds(v.park.Rail.Bounds)
	case sdl.SCANCODE_F12:
		v.capture = true
	}
}

// pick selects the mesh node under the cursor.
func (v *Viewer) pick(x, y int) {
	w, h := v.renderer.Viewport()
	viewProj := v.renderer.Projection().Mul(v.rig.Active().ViewMatrix())
	ray := picking.ScreenToRay(float32(x), float32(y), w, h, viewProj.Inverse())

	hit, ok := picking.PickNode(v.park.Root, ray)
	if !ok {
		v.selected = nil
		return
	}
	v.selected = hit.Node
	point := hit.Point.Array()
	v.log.Info("picked",
		zap.String("node", hit.Node.Name),
		zap.String("slot", hit.Node.Slot),
		zap.Float32("distance", hit.Distance),
		zap.Float32s("point", point[:]))
}

func (v *Viewer) update(dt float32) {
	if v.rig.Orbiting() {
		v.rig.Orbit.HandleMovement(
			input.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W),
			input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D),
			input.Axis(sdl.SCANCODE_Q, sdl.SCANCODE_E))
	}
	if v.paused {
		return
	}

	for range v.clock.Advance(dt) {
		err := v.park.Tick(v.clock.Step)
		v.reportTick(err)
	}
}

// reportTick logs a failing chairs solver once per failure streak.
func (v *Viewer) reportTick(err error) {
	if err == nil {
		if v.failing {
			v.log.Info("chairs solver recovered")
			v.failing = false
		}
		return
	}
	if v.failing {
		return
	}
	v.failing = true
	var ce *chairs.ConvergenceError
	if errors.As(err, &ce) {
		v.log.Error("chairs solver failed, keeping last pose",
			zap.Float32("omega", ce.Omega),
			zap.Int("iterations", ce.Iterations),
			zap.Float32("residual", ce.Residual))
		return
	}
	v.log.Error("tick failed", zap.Error(err))
}

// rideShadowRadius bounds the sharper shadow volume used on ride cameras.
const rideShadowRadius = 30

func (v *Viewer) render() {
	view := v.rig.Active()
	v.lights.Nearest(v.lamps, view.Position())

	lightSpace := v.sunSpace
	if !v.rig.Orbiting() {
		lightSpace = lighting.FocusMatrix(v.sun.Direction, view.Position(), rideShadowRadius)
	}

	v.renderer.Begin()
	v.renderer.Draw(v.park.Root, renderer.Frame{
		View:       view.ViewMatrix(),
		LightSpace: lightSpace,
		Sun:        v.sun,
		Lights:     v.lights,
		Highlight:  v.selected,
	})
	v.renderer.End()

	if v.capture {
		v.capture = false
		path, err := v.shots.Save(v.renderer.ReadPixels())
		if err != nil {
			v.log.Error("screenshot failed", zap.Error(err))
			return
		}
		v.log.Info("screenshot saved", zap.String("path", path))
	}
}

// Close releases the window and GPU resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.cancel != nil {
		v.cancel()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

// Package pose moves a node along a closed path. Every tick it advances a
// progress counter over an oversampled point table, interpolates the frame
// at that position and writes the resulting matrix as the node's absolute
// world transform, bypassing hierarchical composition.
package pose

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/funpark/internal/logger"
	"github.com/Faultbox/funpark/internal/scene"
	"github.com/Faultbox/funpark/pkg/curve"
	"github.com/Faultbox/funpark/pkg/math"
)

// ErrNoFrames is returned when the driver has no frames to follow.
var ErrNoFrames = errors.New("pose: no frames")

// State of a Driver.
type State int

const (
	// Idle: nothing attached, Tick does nothing.
	Idle State = iota
	// Running: a node is attached. There is no way back to Idle.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Camera is a camera riding on the moving node. Cameras are looked up by
// name among the attached node's children.
type Camera struct {
	Name   string
	Offset math.Vec3 // In the node's local frame: +Y up, +Z forward
	Yaw    float32   // Degrees about local +Y; 0 looks backwards
}

// Config tunes a Driver.
type Config struct {
	Oversample  int     // Table points per frame interval
	Step        float32 // Table points advanced per tick
	PivotOffset float32 // Lift along -binormal above the centreline
	Scale       float32
	Cameras     []Camera
}

// DefaultConfig returns the train's standard motion and cameras.
func DefaultConfig() Config {
	return Config{
		Oversample:  8,
		Step:        1,
		PivotOffset: 0.6,
		Scale:       1,
		Cameras: []Camera{
			{Name: "frontCamera", Offset: math.Vec3{Y: 1.2, Z: 1}, Yaw: 180},
			{Name: "backCamera", Offset: math.Vec3{Y: 2.5, Z: -6}, Yaw: 180},
			{Name: "sideCamera", Offset: math.Vec3{X: 6, Y: 2}, Yaw: 90},
		},
	}
}

// Curve is the path the driver follows.
type Curve interface {
	PointAt(u float32) math.Vec3
}

type attachedCamera struct {
	node  *scene.Node
	local math.Mat4
}

// Driver advances a node along a closed path.
type Driver struct {
	cfg      Config
	frames   *curve.FrameSet
	table    []math.Vec3
	flip     math.Mat4
	scale    math.Mat4
	progress float32
	state    State

	node    *scene.Node
	cameras []attachedCamera
	log     *zap.Logger
}

// NewDriver samples path into a table of Oversample points per frame
// interval.
func NewDriver(path Curve, frames *curve.FrameSet, cfg Config) (*Driver, error) {
	if frames == nil || frames.Segments() < 1 {
		return nil, ErrNoFrames
	}
	if cfg.Oversample < 1 {
		return nil, fmt.Errorf("pose: oversample %d must be positive", cfg.Oversample)
	}
	if cfg.Scale == 0 {
		cfg.Scale = 1
	}

	n := cfg.Oversample * frames.Segments()
	table := make([]math.Vec3, n)
	for i := range table {
		table[i] = path.PointAt(float32(i) / float32(n))
	}

	return &Driver{
		cfg:    cfg,
		frames: frames,
		table:  table,
		flip:   math.RotateZ(math.Pi),
		scale:  math.Scale(cfg.Scale, cfg.Scale, cfg.Scale),
		log:    logger.Named("pose"),
	}, nil
}

// Attach makes node the moving object and moves the driver to Running.
// Children named after configured cameras are driven as well.
func (d *Driver) Attach(node *scene.Node) {
	d.node = node
	d.cameras = d.cameras[:0]
	for _, cam := range d.cfg.Cameras {
		c := node.FindByName(cam.Name)
		if c == nil {
			continue
		}
		d.cameras = append(d.cameras, attachedCamera{node: c, local: cameraLocal(cam)})
	}
	d.state = Running
	d.log.Debug("node attached",
		zap.String("node", node.Name),
		zap.Int("cameras", len(d.cameras)),
		zap.Int("table", len(d.table)))
	d.apply()
}

// State returns Idle until a node is attached.
func (d *Driver) State() State {
	return d.state
}

// Len returns the table length; progress runs over [0, Len()).
func (d *Driver) Len() int {
	return len(d.table)
}

// Progress returns the current table position.
func (d *Driver) Progress() float32 {
	return d.progress
}

// SetProgress jumps to p, wrapped into the table, and reapplies the pose.
func (d *Driver) SetProgress(p float32) {
	d.progress = d.wrap(p)
	d.apply()
}

// Tick advances progress by Step, wrapping to 0 at the end of the table, and
// writes the new pose. It does nothing while Idle.
func (d *Driver) Tick() {
	if d.state != Running {
		return
	}
	d.progress += d.cfg.Step
	if d.progress >= float32(len(d.table)) {
		d.progress = 0
	}
	d.apply()
}

func (d *Driver) apply() {
	if d.state != Running {
		return
	}
	base := d.base(d.progress)
	d.node.SetWorldOverride(base.Mul(d.scale))
	for _, c := range d.cameras {
		c.node.SetWorldOverride(base.Mul(c.local))
	}
}

// Compute returns the node's world matrix at progress. It depends only on
// progress and the frame table. Progress equal to Len() is the same position
// as 0.
func (d *Driver) Compute(progress float32) math.Mat4 {
	return d.base(progress).Mul(d.scale)
}

// CameraPose returns the world matrix of cam at progress.
func (d *Driver) CameraPose(progress float32, cam Camera) math.Mat4 {
	return d.base(progress).Mul(cameraLocal(cam))
}

// Frame returns the interpolated frame and table position at progress.
func (d *Driver) Frame(progress float32) (curve.Frame, math.Vec3) {
	p := d.wrap(progress)
	f := d.frames.Interpolate(p / float32(d.cfg.Oversample))

	lo := math32.Floor(p)
	i := int(lo)
	pos := d.table[i].Lerp(d.table[(i+1)%len(d.table)], p-lo)
	return f, pos
}

// base is the unscaled pose: columns (N, B, T) at the pivot, turned half a
// revolution about the tangent so the model's +Y points away from the
// binormal.
func (d *Driver) base(progress float32) math.Mat4 {
	f, pos := d.Frame(progress)
	pivot := pos.Sub(f.Binormal.Scale(d.cfg.PivotOffset))
	return f.Matrix(pivot).Mul(d.flip)
}

func (d *Driver) wrap(p float32) float32 {
	n := float32(len(d.table))
	p -= n * math32.Floor(p/n)
	if p >= n {
		p = 0
	}
	return p
}

func cameraLocal(cam Camera) math.Mat4 {
	return math.TranslateVec(cam.Offset).Mul(math.RotateY(cam.Yaw * math.Pi / 180))
}

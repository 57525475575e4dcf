// Package park assembles the whole scene from configuration: the track and
// its rail, tunnels, support columns, lamps, the flying chairs and the
// train with its ride cameras.
package park

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/funpark/internal/assets"
	"github.com/Faultbox/funpark/internal/config"
	"github.com/Faultbox/funpark/internal/engine/picking"
	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/internal/logger"
	"github.com/Faultbox/funpark/internal/park/chairs"
	"github.com/Faultbox/funpark/internal/park/columns"
	"github.com/Faultbox/funpark/internal/park/pose"
	"github.com/Faultbox/funpark/internal/scene"
	"github.com/Faultbox/funpark/pkg/curve"
	"github.com/Faultbox/funpark/pkg/math"
)

// Node names of the top-level park elements.
const (
	RailName   = "rail"
	TunnelName = "tunnel"
	LampsName  = "lamps"
	LampName   = "lamp"
	TrainName  = "train"
	GroundName = "ground"
)

// Stats summarizes a build.
type Stats struct {
	Segments      int
	Length        float32
	Frames        int
	RailTriangles int
	Tunnels       int
	Columns       columns.Stats
	Lamps         int
	Nodes         int
	BuildTime     time.Duration
}

// Park is a built scene plus the animation drivers acting on it.
type Park struct {
	Root   *scene.Node
	Path   *curve.Path
	Frames *curve.FrameSet
	Rail   *surface.Mesh
	Train  *scene.Node
	Driver *pose.Driver
	Chairs *chairs.Ride
	Stats  Stats

	log *zap.Logger
}

// Build generates every mesh and node described by cfg. Geometry errors
// (a discontinuous track, bad control points) fail the build.
func Build(cfg config.ParkConfig) (*Park, error) {
	start := time.Now()
	log := logger.Named("park")

	path, err := BuildPath(cfg.Track)
	if err != nil {
		return nil, fmt.Errorf("building track: %w", err)
	}
	frames, err := curve.ComputeFrames(path, cfg.Track.Frames, path.Closed(), curve.DefaultFrameOptions())
	if err != nil {
		return nil, fmt.Errorf("computing track frames: %w", err)
	}

	p := &Park{
		Root:   scene.New("park"),
		Path:   path,
		Frames: frames,
		log:    log,
	}

	p.Root.Add(scene.NewMesh(GroundName, surface.Plane(cfg.Ground.Size, cfg.Columns.GroundY, 8), assets.SlotGround))

	profile := curve.Ellipse{RX: cfg.Rail.Width / 2, RY: cfg.Rail.Height / 2}
	p.Rail = surface.Sweep(profile, path, frames, cfg.Rail.Slices, cfg.Rail.Stacks, surface.DefaultSweepOptions())
	p.Root.Add(scene.NewMesh(RailName, p.Rail, assets.SlotRail))

	for i, tc := range cfg.Tunnels {
		node, err := BuildTunnel(tc)
		if err != nil {
			return nil, fmt.Errorf("building tunnel %d: %w", i, err)
		}
		p.Root.Add(node)
	}

	colCfg := ColumnsConfig(cfg.Columns)
	placements, colStats := columns.Place(path, frames, picking.NewMeshTarget(p.Rail), colCfg)
	p.Root.Add(columns.Group(placements, colCfg))

	lamps := BuildLamps(path, frames, cfg.Lamps, colCfg)
	p.Root.Add(lamps)

	p.Chairs = chairs.NewRide(ChairsConfig(cfg.Chairs))
	p.Root.Add(p.Chairs.Root)

	p.Train = BuildTrain(cfg.Train)
	p.Root.Add(p.Train)
	p.Driver, err = pose.NewDriver(path, frames, PoseConfig(cfg.Train))
	if err != nil {
		return nil, fmt.Errorf("creating pose driver: %w", err)
	}
	p.Driver.Attach(p.Train)

	p.Root.UpdateWorld()

	p.Stats = Stats{
		Segments:      len(path.Segments()),
		Length:        path.Length(),
		Frames:        frames.Segments() + 1,
		RailTriangles: p.Rail.Triangles(),
		Tunnels:       len(cfg.Tunnels),
		Columns:       colStats,
		Lamps:         len(lamps.Children()),
		Nodes:         p.Root.Count(),
		BuildTime:     time.Since(start),
	}
	log.Info("park built",
		zap.Int("segments", p.Stats.Segments),
		zap.Float32("length", p.Stats.Length),
		zap.Int("columns", colStats.Placed),
		zap.Int("columnAnchors", colStats.Anchors),
		zap.Int("ambiguous", colStats.Ambiguous),
		zap.Int("inverted", colStats.Inverted),
		zap.Int("lamps", p.Stats.Lamps),
		zap.Int("nodes", p.Stats.Nodes),
		zap.Duration("took", p.Stats.BuildTime))
	return p, nil
}

// Tick advances the train one step and the chairs by dt seconds, then
// recomputes world matrices. A chairs solver failure is returned after the
// rest of the scene has been updated.
func (p *Park) Tick(dt float32) error {
	p.Driver.Tick()
	err := p.Chairs.Tick(dt)
	p.Root.UpdateWorld()
	return err
}

// ApplyTextures injects a resolved registry into the scene.
func (p *Park) ApplyTextures(reg *assets.Registry) int {
	n := scene.ApplyRegistry(p.Root, reg)
	p.log.Debug("textures applied", zap.Int("nodes", n), zap.Int("placeholders", reg.Placeholders()))
	return n
}

// Bounds returns the world bounds of every mesh except the ground.
func (p *Park) Bounds() surface.Bounds {
	var b surface.Bounds
	first := true
	p.Root.Walk(func(n *scene.Node) bool {
		if n.Mesh == nil || n.Name == GroundName {
			return true
		}
		world := n.World()
		lo, hi := n.Mesh.Bounds.Min, n.Mesh.Bounds.Max
		for i := range 8 {
			c := lo
			if i&1 != 0 {
				c.X = hi.X
			}
			if i&2 != 0 {
				c.Y = hi.Y
			}
			if i&4 != 0 {
				c.Z = hi.Z
			}
			w := world.TransformVec3(c)
			if first {
				b = surface.Bounds{Min: w, Max: w}
				first = false
				continue
			}
			b.Min = math.Vec3{X: min(b.Min.X, w.X), Y: min(b.Min.Y, w.Y), Z: min(b.Min.Z, w.Z)}
			b.Max = math.Vec3{X: max(b.Max.X, w.X), Y: max(b.Max.Y, w.Y), Z: max(b.Max.Z, w.Z)}
		}
		return true
	})
	return b
}

// BuildPath creates the validated track path.
func BuildPath(tc config.TrackConfig) (*curve.Path, error) {
	specs := make([]curve.SegmentSpec, len(tc.Segments))
	for i, s := range tc.Segments {
		pts := make([]math.Vec3, len(s.Points))
		for j, pt := range s.Points {
			pts[j] = math.V3(pt)
		}
		specs[i] = curve.SegmentSpec{Kind: curve.Kind(s.Kind), Points: pts}
	}

	tol := tc.Tolerance
	if tol <= 0 {
		tol = curve.DefaultTolerance
	}
	path, err := curve.Build(specs, tc.Closed, tol)
	if err != nil {
		return nil, err
	}
	if tc.ArcDivisions > 0 {
		path = path.WithDivisions(tc.ArcDivisions)
	}
	return path, nil
}

// ColumnsConfig converts the column section of the park config.
func ColumnsConfig(c config.ColumnsConfig) columns.Config {
	return columns.Config{
		Step:          c.Step,
		Radius:        c.Radius,
		Samples:       c.Samples,
		Slices:        c.Slices,
		GroundY:       c.GroundY,
		TiltThreshold: c.TiltThreshold,
		TipFraction:   c.TipFraction,
	}
}

// ChairsConfig converts the chairs section of the park config.
func ChairsConfig(c config.ChairsConfig) chairs.Config {
	return chairs.Config{
		Position:      math.V3(c.Position),
		PoleHeight:    c.PoleHeight,
		ArmRadius:     c.ArmRadius,
		ChainLength:   c.ChainLength,
		Count:         c.Count,
		MaxSpeed:      c.MaxSpeed,
		SpinUp:        c.SpinUp,
		Hold:          c.Hold,
		SpinDown:      c.SpinDown,
		Rest:          c.Rest,
		Gravity:       c.Gravity,
		MaxIterations: c.MaxIterations,
		Tolerance:     c.Tolerance,
	}
}

// PoseConfig converts the train section of the park config.
func PoseConfig(c config.TrainConfig) pose.Config {
	cams := make([]pose.Camera, len(c.Cameras))
	for i, cc := range c.Cameras {
		cams[i] = pose.Camera{Name: cc.Name, Offset: math.V3(cc.Offset), Yaw: cc.Yaw}
	}
	return pose.Config{
		Oversample:  c.Oversample,
		Step:        c.Step,
		PivotOffset: c.PivotOffset,
		Scale:       c.Scale,
		Cameras:     cams,
	}
}

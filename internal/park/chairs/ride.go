package chairs

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/funpark/internal/assets"
	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/internal/logger"
	"github.com/Faultbox/funpark/internal/scene"
	"github.com/Faultbox/funpark/pkg/math"
)

// Node names inside the ride.
const (
	RootName  = "chairs"
	PoleName  = "pole"
	RotorName = "rotor"
	ArmName   = "arm"
	ChairName = "chair"
)

// Config tunes the ride.
type Config struct {
	Position      math.Vec3
	PoleHeight    float32
	ArmRadius     float32 // Distance from the axis to each chain pivot
	ChainLength   float32
	Count         int
	MaxSpeed      float32 // rad/s
	SpinUp        float32 // Seconds
	Hold          float32
	SpinDown      float32
	Rest          float32
	Gravity       float32
	MaxIterations int
	Tolerance     float32
}

// DefaultConfig returns a twelve-seat ride.
func DefaultConfig() Config {
	return Config{
		PoleHeight:    8,
		ArmRadius:     3,
		ChainLength:   3,
		Count:         12,
		MaxSpeed:      1.6,
		SpinUp:        6,
		Hold:          12,
		SpinDown:      6,
		Rest:          4,
		Gravity:       9.81,
		MaxIterations: 50,
		Tolerance:     1e-5,
	}
}

// Ride is the scene subtree of the flying chairs plus its animation state.
type Ride struct {
	Root *scene.Node

	cfg    Config
	cycle  *Cycle
	rotor  *scene.Node
	chairs []*scene.Node
	angle  float32
	swing  float32
	log    *zap.Logger
}

// NewRide builds the ride's nodes. Nothing moves until Tick.
func NewRide(cfg Config) *Ride {
	r := &Ride{
		cfg:   cfg,
		cycle: NewCycle(cfg.MaxSpeed, cfg.SpinUp, cfg.Hold, cfg.SpinDown, cfg.Rest),
		log:   logger.Named("chairs"),
	}

	r.Root = scene.New(RootName)
	r.Root.Position = cfg.Position
	r.Root.Add(scene.NewMesh(PoleName, surface.Cylinder(0.25, 0, cfg.PoleHeight, 16), assets.SlotChairs))

	r.rotor = scene.NewMesh(RotorName, surface.Disc(cfg.ArmRadius+0.4, 0.3, 24), assets.SlotChairs)
	r.rotor.Position = math.Vec3{Y: cfg.PoleHeight}
	r.Root.Add(r.rotor)

	chair := surface.Merge(
		surface.Cylinder(0.03, -cfg.ChainLength, 0, 6),
		surface.Disc(0.35, 0.4, 12).Transformed(math.Translate(0, -cfg.ChainLength-0.4, 0)),
	)
	for i := range cfg.Count {
		arm := scene.New(ArmName)
		arm.Rotation = math.QuatFromAxisAngle(math.Up, 2*math.Pi*float32(i)/float32(cfg.Count))
		r.rotor.Add(arm)

		seat := scene.NewMesh(ChairName, chair, assets.SlotChairs)
		seat.Position = math.Vec3{X: cfg.ArmRadius}
		arm.Add(seat)
		r.chairs = append(r.chairs, seat)
	}

	r.log.Debug("ride built", zap.Int("chairs", cfg.Count), zap.Float32("radius", cfg.ArmRadius))
	return r
}

// Tick advances the spin cycle by dt seconds, solves the swing angle for the
// new angular velocity and poses the rotor and chairs. When the solver fails
// the error is returned and the previous pose is kept.
func (r *Ride) Tick(dt float32) error {
	omega := r.cycle.Update(dt)
	swing, err := SolveSwing(omega, r.cfg.ArmRadius, r.cfg.ChainLength, r.cfg.Gravity, r.cfg.MaxIterations, r.cfg.Tolerance)
	if err != nil {
		return fmt.Errorf("chairs tick: %w", err)
	}

	r.angle = math32.Mod(r.angle+omega*dt, 2*math.Pi)
	r.swing = swing
	r.rotor.Rotation = math.QuatFromAxisAngle(math.Up, r.angle)

	// Rotating about local Z swings the chain's lower end toward +X, away
	// from the axis.
	tilt := math.QuatFromAxisAngle(math.Vec3{Z: 1}, swing)
	for _, c := range r.chairs {
		c.Rotation = tilt
	}
	return nil
}

// Omega returns the current angular velocity.
func (r *Ride) Omega() float32 { return r.cycle.Omega() }

// Swing returns the last solved swing angle.
func (r *Ride) Swing() float32 { return r.swing }

// Angle returns the rotor angle in radians.
func (r *Ride) Angle() float32 { return r.angle }

// Phase returns the spin cycle stage.
func (r *Ride) Phase() Phase { return r.cycle.Phase() }

// Chairs returns the chair nodes.
func (r *Ride) Chairs() []*scene.Node { return r.chairs }

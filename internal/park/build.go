package park

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/internal/assets"
	"github.com/Faultbox/funpark/internal/config"
	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/internal/park/columns"
	"github.com/Faultbox/funpark/internal/scene"
	"github.com/Faultbox/funpark/pkg/curve"
	"github.com/Faultbox/funpark/pkg/math"
)

// BuildTunnel sweeps an arch along a straight local path of the tunnel's
// length and places the node at Start facing End.
func BuildTunnel(tc config.TunnelConfig) (*scene.Node, error) {
	start, end := math.V3(tc.Start), math.V3(tc.End)
	dir := end.Sub(start).Ground(0)
	length := dir.Length()
	if length == 0 {
		return nil, fmt.Errorf("tunnel %s: %w", tc.Slot, curve.ErrZeroLength)
	}

	local := curve.NewPath(curve.Line{B: math.Vec3{Z: length}})
	frames, err := curve.ComputeFrames(local, max(tc.Stacks, 1), false, curve.DefaultFrameOptions())
	if err != nil {
		return nil, err
	}

	// Binormals point down, so the profile is mirrored to stand the arch up.
	opts := surface.SweepOptions{Scale: math.Vec3{X: 1, Y: -1, Z: 1}, Wrap: surface.WrapNone}
	mesh := surface.Sweep(curve.Arch(tc.Width, tc.Height, tc.Segments), local, frames, max(tc.Segments*2, 8), max(tc.Stacks, 1), opts)

	node := scene.NewMesh(TunnelName, mesh, tc.Slot)
	node.Position = start
	node.Rotation = math.QuatFromAxisAngle(math.Up, math32.Atan2(dir.X, dir.Z))
	return node, nil
}

// BuildLamps places lamp posts beside the track, reusing the column anchor
// walk with the lamp spacing. Each post stands lc.Offset to the side of the
// ground projection along the frame normal.
func BuildLamps(path columns.Curve, frames *curve.FrameSet, lc config.LampsConfig, cc columns.Config) *scene.Node {
	group := scene.New(LampsName)
	if lc.Step <= 0 {
		return group
	}

	mesh := surface.Merge(
		surface.Cylinder(lc.Radius, 0, lc.Height, 8),
		surface.Disc(lc.Radius*4, 0.2, 12).Transformed(math.Translate(0, lc.Height+0.2, 0)),
	)
	for _, a := range columns.Anchors(path, cc.Samples, lc.Step, cc.GroundY) {
		side := frames.FrameAt(a.U).Normal.Ground(0).Normalize()
		lamp := scene.NewMesh(LampName, mesh, assets.SlotLamp)
		lamp.Position = a.Ground.Add(side.Scale(lc.Offset))
		group.Add(lamp)
	}
	return group
}

// LampLights returns the world position of every lamp head.
func LampLights(root *scene.Node, height float32) []math.Vec3 {
	var out []math.Vec3
	for _, n := range root.FindAll(LampName) {
		out = append(out, n.World().TransformVec3(math.Vec3{Y: height + 0.3}))
	}
	return out
}

// BuildTrain creates the train car and its camera children. The car sits on
// its pivot so the pose driver's lift keeps it above the rail.
func BuildTrain(tc config.TrainConfig) *scene.Node {
	size := math.V3(tc.Size)
	car := surface.Box(size).Transformed(math.Translate(0, size.Y/2, 0))

	train := scene.NewMesh(TrainName, car, assets.SlotTrain)
	for _, cam := range tc.Cameras {
		train.Add(scene.New(cam.Name))
	}
	return train
}

package config

// ParkConfig describes the generated park.
type ParkConfig struct {
	Track   TrackConfig    `yaml:"track"`
	Rail    RailConfig     `yaml:"rail"`
	Tunnels []TunnelConfig `yaml:"tunnels"`
	Columns ColumnsConfig  `yaml:"columns"`
	Lamps   LampsConfig    `yaml:"lamps"`
	Train   TrainConfig    `yaml:"train"`
	Chairs  ChairsConfig   `yaml:"chairs"`
	Ground  GroundConfig   `yaml:"ground"`
}

// SegmentConfig is one track segment: kind is line, quadratic or cubic.
type SegmentConfig struct {
	Kind   string       `yaml:"kind"`
	Points [][3]float32 `yaml:"points,flow"`
}

// TrackConfig holds the coaster layout.
type TrackConfig struct {
	Segments     []SegmentConfig `yaml:"segments"`
	Closed       bool            `yaml:"closed"`
	ArcDivisions int             `yaml:"arc_divisions"`
	Frames       int             `yaml:"frames"` // Frenet samples along the track
	Tolerance    float32         `yaml:"tolerance"`
}

// RailConfig holds the rail cross-section and sweep resolution.
type RailConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Slices int     `yaml:"slices"`
	Stacks int     `yaml:"stacks"`
}

// TunnelConfig places one static tunnel along its own straight path.
type TunnelConfig struct {
	Slot     string     `yaml:"slot"`
	Start    [3]float32 `yaml:"start,flow"`
	End      [3]float32 `yaml:"end,flow"`
	Width    float32    `yaml:"width"`
	Height   float32    `yaml:"height"`
	Segments int        `yaml:"segments"` // Arch resolution
	Stacks   int        `yaml:"stacks"`
}

// ColumnsConfig tunes support column placement.
type ColumnsConfig struct {
	Step          float32 `yaml:"step"`
	Radius        float32 `yaml:"radius"`
	Samples       int     `yaml:"samples"`
	Slices        int     `yaml:"slices"`
	GroundY       float32 `yaml:"ground_y"`
	TiltThreshold float32 `yaml:"tilt_threshold"`
	TipFraction   float32 `yaml:"tip_fraction"`
}

// LampsConfig tunes lamp posts placed beside the track.
type LampsConfig struct {
	Step   float32 `yaml:"step"`
	Height float32 `yaml:"height"`
	Offset float32 `yaml:"offset"` // Sideways distance from the track
	Radius float32 `yaml:"radius"`
}

// CameraConfig is a camera riding on the train.
type CameraConfig struct {
	Name   string     `yaml:"name"`
	Offset [3]float32 `yaml:"offset,flow"`
	Yaw    float32    `yaml:"yaw"` // Degrees around the local up axis; 0 looks backwards
}

// TrainConfig tunes the moving train and its pose driver.
type TrainConfig struct {
	Oversample  int            `yaml:"oversample"`
	Step        float32        `yaml:"step"`
	PivotOffset float32        `yaml:"pivot_offset"`
	Scale       float32        `yaml:"scale"`
	Size        [3]float32     `yaml:"size,flow"`
	Cameras     []CameraConfig `yaml:"cameras"`
}

// ChairsConfig tunes the flying chairs ride.
type ChairsConfig struct {
	Position      [3]float32 `yaml:"position,flow"`
	PoleHeight    float32    `yaml:"pole_height"`
	ArmRadius     float32    `yaml:"arm_radius"`
	ChainLength   float32    `yaml:"chain_length"`
	Count         int        `yaml:"count"`
	MaxSpeed      float32    `yaml:"max_speed"` // Angular velocity in rad/s
	SpinUp        float32    `yaml:"spin_up"`   // Seconds
	Hold          float32    `yaml:"hold"`
	SpinDown      float32    `yaml:"spin_down"`
	Rest          float32    `yaml:"rest"`
	Gravity       float32    `yaml:"gravity"`
	MaxIterations int        `yaml:"max_iterations"`
	Tolerance     float32    `yaml:"tolerance"`
}

// GroundConfig sizes the ground plane.
type GroundConfig struct {
	Size float32 `yaml:"size"`
}

// DefaultPark returns the built-in park layout: a closed loop of six cubic
// segments with tangent-continuous joints around the chairs ride.
func DefaultPark() ParkConfig {
	return ParkConfig{
		Track: TrackConfig{
			Segments: []SegmentConfig{
				{Kind: "cubic", Points: [][3]float32{{0, 4, -20}, {10, 4, -20}, {23, 12, -22}, {30, 12, -15}}},
				{Kind: "cubic", Points: [][3]float32{{30, 12, -15}, {37, 12, -8}, {38, 7, 2}, {35, 6, 10}}},
				{Kind: "cubic", Points: [][3]float32{{35, 6, 10}, {32, 5, 18}, {20, 3, 22}, {10, 3, 22}}},
				{Kind: "cubic", Points: [][3]float32{{10, 3, 22}, {0, 3, 22}, {-20, 8, 23}, {-25, 9, 15}}},
				{Kind: "cubic", Points: [][3]float32{{-25, 9, 15}, {-30, 10, 7}, {-33, 6, -3}, {-30, 5, -10}}},
				{Kind: "cubic", Points: [][3]float32{{-30, 5, -10}, {-27, 4, -17}, {-10, 4, -20}, {0, 4, -20}}},
			},
			Closed:       true,
			ArcDivisions: 800,
			Frames:       400,
			Tolerance:    1e-3,
		},
		Rail: RailConfig{
			Width:  1.2,
			Height: 0.4,
			Slices: 12,
			Stacks: 800,
		},
		Tunnels: []TunnelConfig{
			{Slot: "tunnelA", Start: [3]float32{16, 0, 21.5}, End: [3]float32{3, 0, 22}, Width: 5, Height: 7, Segments: 16, Stacks: 8},
			{Slot: "tunnelB", Start: [3]float32{-6, 0, -19.8}, End: [3]float32{6, 0, -20.1}, Width: 5, Height: 8, Segments: 16, Stacks: 8},
		},
		Columns: ColumnsConfig{
			Step:          4,
			Radius:        0.2,
			Samples:       400,
			Slices:        10,
			GroundY:       0,
			TiltThreshold: 0.55,
			TipFraction:   0.1,
		},
		Lamps: LampsConfig{
			Step:   12,
			Height: 3.5,
			Offset: 2.5,
			Radius: 0.08,
		},
		Train: TrainConfig{
			Oversample:  8,
			Step:        1,
			PivotOffset: 0.6,
			Scale:       1,
			Size:        [3]float32{1.4, 0.8, 2.4},
			Cameras: []CameraConfig{
				{Name: "frontCamera", Offset: [3]float32{0, 1.2, 1.0}, Yaw: 180},
				{Name: "backCamera", Offset: [3]float32{0, 2.5, -6}, Yaw: 180},
				{Name: "sideCamera", Offset: [3]float32{6, 2, 0}, Yaw: 90},
			},
		},
		Chairs: ChairsConfig{
			Position:      [3]float32{0, 0, 0},
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
		},
		Ground: GroundConfig{Size: 120},
	}
}

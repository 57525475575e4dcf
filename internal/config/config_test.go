package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	// Park defaults
	track := cfg.Park.Track
	if len(track.Segments) != 6 {
		t.Errorf("expected 6 track segments, got %d", len(track.Segments))
	}
	if !track.Closed {
		t.Error("expected a closed track")
	}
	if track.ArcDivisions != 800 {
		t.Errorf("expected 800 arc divisions, got %d", track.ArcDivisions)
	}
	if cfg.Park.Columns.Samples != 400 {
		t.Errorf("expected 400 column samples, got %d", cfg.Park.Columns.Samples)
	}
	if cfg.Park.Columns.TiltThreshold != 0.55 {
		t.Errorf("expected tilt threshold 0.55, got %f", cfg.Park.Columns.TiltThreshold)
	}
	if cfg.Park.Train.Oversample != 8 {
		t.Errorf("expected oversample 8, got %d", cfg.Park.Train.Oversample)
	}
	if len(cfg.Park.Tunnels) != 2 {
		t.Errorf("expected 2 tunnels, got %d", len(cfg.Park.Tunnels))
	}
}

func TestDefaultTrackIsContinuous(t *testing.T) {
	segs := DefaultPark().Track.Segments
	for i, s := range segs {
		next := segs[(i+1)%len(segs)]
		if s.Points[len(s.Points)-1] != next.Points[0] {
			t.Errorf("segment %d ends at %v, segment %d starts at %v",
				i, s.Points[len(s.Points)-1], (i+1)%len(segs), next.Points[0])
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

logging:
  level: "debug"
  log_file: "park.log"

assets:
  textures:
    rail: "steel.png"

park:
  track:
    closed: true
    segments:
      - kind: line
        points: [[0, 2, 0], [10, 2, 0]]
      - kind: quadratic
        points: [[10, 2, 0], [15, 2, 5], [10, 2, 10]]
  columns:
    step: 2.5
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}

	// Map entries merge with defaults.
	if cfg.Assets.Textures["rail"] != "steel.png" {
		t.Errorf("expected rail texture steel.png, got %s", cfg.Assets.Textures["rail"])
	}
	if cfg.Assets.Textures["ground"] != "grass.jpg" {
		t.Errorf("expected default ground texture kept, got %s", cfg.Assets.Textures["ground"])
	}

	// Sequences replace defaults.
	segs := cfg.Park.Track.Segments
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[1].Kind != "quadratic" || segs[1].Points[1] != [3]float32{15, 2, 5} {
		t.Errorf("unexpected second segment %+v", segs[1])
	}
	if cfg.Park.Columns.Step != 2.5 {
		t.Errorf("expected column step 2.5, got %f", cfg.Park.Columns.Step)
	}
	if cfg.Park.Columns.Radius != 0.2 {
		t.Errorf("expected default column radius kept, got %f", cfg.Park.Columns.Radius)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
	if _, err := LoadFile("/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected LoadFile to fail for a missing explicit path")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("config.yaml", []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Park.Chairs.Count = 8
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Park.Chairs.Count != 8 {
		t.Errorf("expected 8 chairs, got %d", loaded.Park.Chairs.Count)
	}
	if len(loaded.Park.Track.Segments) != 6 {
		t.Errorf("expected 6 segments, got %d", len(loaded.Park.Track.Segments))
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "textures flag",
			setup: func() { *flagTextures = "/srv/park/textures" },
			verify: func(t *testing.T, cfg *Config) {
				dirs := cfg.Assets.Dirs
				if dirs[len(dirs)-1] != "/srv/park/textures" {
					t.Errorf("expected texture dir appended, got %v", dirs)
				}
			},
			teardown: func() { *flagTextures = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

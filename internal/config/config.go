// Package config handles park configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Logging  LoggingConfig  `yaml:"logging"`
	Assets   AssetsConfig   `yaml:"assets"`
	Park     ParkConfig     `yaml:"park"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FPSLimit   int     `yaml:"fps_limit"`
	FOV        float32 `yaml:"fov"` // Vertical field of view in degrees
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// AssetsConfig lists texture sources. Textures maps a material slot to a
// path searched in Dirs (last directory wins).
type AssetsConfig struct {
	Dirs     []string          `yaml:"dirs"`
	Textures map[string]string `yaml:"textures"`
	Workers  int               `yaml:"workers"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			FOV:        60,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Assets: AssetsConfig{
			Dirs: []string{"textures"},
			Textures: map[string]string{
				"rail":    "rail.png",
				"column":  "column.png",
				"tunnelA": "brick.jpg",
				"tunnelB": "stone.jpg",
				"ground":  "grass.jpg",
			},
			Workers: 4,
		},
		Park: DefaultPark(),
	}
}

// Package config handles engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Audio    AudioConfig    `yaml:"audio" toml:"audio"`
	Title    TitleConfig    `yaml:"title" toml:"title"`
	Debug    DebugConfig    `yaml:"debug" toml:"debug"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// GraphicsConfig holds display and device settings.
type GraphicsConfig struct {
	Width        int    `yaml:"width" toml:"width"`
	Height       int    `yaml:"height" toml:"height"`
	Fullscreen   bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync        bool   `yaml:"vsync" toml:"vsync"`
	WindowTitle  string `yaml:"window_title" toml:"window_title"`
	DebugContext bool   `yaml:"debug_context" toml:"debug_context"`
}

// AudioConfig holds mixer settings.
type AudioConfig struct {
	SampleRate   int     `yaml:"sample_rate" toml:"sample_rate"`
	MasterVolume float32 `yaml:"master_volume" toml:"master_volume"`
	Muted        bool    `yaml:"muted" toml:"muted"`
}

// TitleConfig controls where logical asset names resolve.
type TitleConfig struct {
	// Root is the title location. Empty means the executable's directory.
	Root         string `yaml:"root" toml:"root"`
	CaseFallback bool   `yaml:"case_fallback" toml:"case_fallback"`
	WatchChanges bool   `yaml:"watch_changes" toml:"watch_changes"`
}

// DebugConfig holds developer checks.
type DebugConfig struct {
	// ThreadCheck makes graphics and audio calls panic off the main thread.
	ThreadCheck bool `yaml:"thread_check" toml:"thread_check"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:       1280,
			Height:      720,
			Fullscreen:  false,
			VSync:       true,
			WindowTitle: "FNA",
		},
		Audio: AudioConfig{
			SampleRate:   48000,
			MasterVolume: 1.0,
			Muted:        false,
		},
		Title: TitleConfig{},
		Debug: DebugConfig{},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

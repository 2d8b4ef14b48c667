package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains log output configuration. Verbosity is controlled from the
// command line, not here.
type Logging struct {
	Format       string `toml:"format"`
	DebugLogFile string `toml:"debug_log_file"`
}

// Audio contains configuration for the audio engine.
type Audio struct {
	// Output selects the audio sink. Supported values: "auto", "pulse",
	// "alsa", "null".
	Output string `toml:"output"`
	Device string `toml:"device"`
}

// Playback contains playback behavior settings.
type Playback struct {
	// Volume is the initial mixer volume, 0-100.
	Volume int `toml:"volume"`
}

// Local contains configuration for the local-library backend.
type Local struct {
	Enabled  bool   `toml:"enabled"`
	MediaDir string `toml:"media_dir"`
}

// HTTP contains configuration for the HTTP frontend.
type HTTP struct {
	Enabled bool   `toml:"enabled"`
	Bind    string `toml:"bind"`
}

// Config encapsulates all configuration values for cadenza.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Logging  Logging  `toml:"logging"`
	Audio    Audio    `toml:"audio"`
	Playback Playback `toml:"playback"`
	Local    Local    `toml:"local"`
	HTTP     HTTP     `toml:"http"`
}

// Default returns the repository default configuration.
func Default() *Config {
	return &Config{
		Paths: Paths{
			DataDir: "~/.local/share/cadenza",
			LogDir:  "~/.cache/cadenza",
		},
		Logging: Logging{
			Format:       "console",
			DebugLogFile: "./cadenza.log",
		},
		Audio: Audio{
			Output: "auto",
		},
		Playback: Playback{
			Volume: 100,
		},
		Local: Local{
			Enabled:  true,
			MediaDir: "~/Music",
		},
		HTTP: HTTP{
			Enabled: true,
			Bind:    "127.0.0.1:6680",
		},
	}
}

// DefaultFiles returns the default colon-separated config file list: the
// system location followed by the per-user location, later files overriding
// earlier ones.
func DefaultFiles() string {
	files := []string{"/etc/xdg/cadenza/cadenza.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".config", "cadenza", "cadenza.toml"))
	}
	return strings.Join(files, ":")
}

// Load reads each file in order over the defaults, later files overriding
// earlier ones, then applies overrides on top. Missing files are skipped.
// The returned config has paths expanded and has been validated.
func Load(files []string, overrides []Override) (*Config, error) {
	cfg := Default()

	for _, path := range files {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		expanded, err := expandPath(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read config %s: %w", expanded, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", expanded, err)
		}
	}

	for _, override := range overrides {
		if err := override.apply(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Format renders the active configuration as TOML for the config command.
func Format(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}
	return string(data), nil
}

// EnsureDirectories creates the directories the daemon needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	for _, path := range []*string{
		&c.Paths.DataDir,
		&c.Paths.LogDir,
		&c.Local.MediaDir,
	} {
		expanded, err := expandPath(*path)
		if err != nil {
			return err
		}
		*path = expanded
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Audio.Output = strings.ToLower(strings.TrimSpace(c.Audio.Output))
	return nil
}

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging format: unsupported value %q", c.Logging.Format)
	}
	if c.Playback.Volume < 0 || c.Playback.Volume > 100 {
		return fmt.Errorf("playback volume: %d outside 0-100", c.Playback.Volume)
	}
	if c.HTTP.Enabled && strings.TrimSpace(c.HTTP.Bind) == "" {
		return fmt.Errorf("http bind address is required when the http frontend is enabled")
	}
	if c.Local.Enabled && strings.TrimSpace(c.Local.MediaDir) == "" {
		return fmt.Errorf("local media_dir is required when the local backend is enabled")
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return trimmed, nil
}

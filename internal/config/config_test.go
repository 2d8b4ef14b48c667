package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cadenza/internal/config"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Playback.Volume != 100 {
		t.Fatalf("default volume = %d, want 100", cfg.Playback.Volume)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("default format = %q", cfg.Logging.Format)
	}
}

func TestLoadLaterFilesOverrideEarlier(t *testing.T) {
	first := writeConfig(t, "first.toml", "[playback]\nvolume = 30\n\n[http]\nbind = \"0.0.0.0:80\"\n")
	second := writeConfig(t, "second.toml", "[playback]\nvolume = 55\n")

	cfg, err := config.Load([]string{first, second}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Playback.Volume != 55 {
		t.Fatalf("volume = %d, want the later file's 55", cfg.Playback.Volume)
	}
	if cfg.HTTP.Bind != "0.0.0.0:80" {
		t.Fatalf("bind = %q, earlier file's untouched keys should survive", cfg.HTTP.Bind)
	}
}

func TestLoadSkipsMissingFiles(t *testing.T) {
	cfg, err := config.Load([]string{filepath.Join(t.TempDir(), "nope.toml")}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Playback.Volume != 100 {
		t.Fatalf("volume = %d, want default", cfg.Playback.Volume)
	}
}

func TestParseOverride(t *testing.T) {
	override, err := config.ParseOverride("playback/volume=80")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := config.Override{Section: "playback", Key: "volume", Value: "80"}
	if override != want {
		t.Fatalf("override = %+v, want %+v", override, want)
	}
}

func TestParseOverrideTrimsWhitespace(t *testing.T) {
	override, err := config.ParseOverride(" audio / output = pulse ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := config.Override{Section: "audio", Key: "output", Value: "pulse"}
	if override != want {
		t.Fatalf("override = %+v, want %+v", override, want)
	}
}

func TestParseOverrideMalformed(t *testing.T) {
	for _, raw := range []string{"badformat", "section/keyonly", "nosection=1"} {
		if _, err := config.ParseOverride(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		} else if !strings.Contains(err.Error(), raw) {
			t.Fatalf("error should name %q, got %v", raw, err)
		}
	}
}

func TestOverridesApplyAfterFiles(t *testing.T) {
	file := writeConfig(t, "cfg.toml", "[playback]\nvolume = 30\n")
	override, err := config.ParseOverride("playback/volume=80")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := config.Load([]string{file}, []config.Override{override})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Playback.Volume != 80 {
		t.Fatalf("volume = %d, want override 80", cfg.Playback.Volume)
	}
}

func TestOverrideUnknownSection(t *testing.T) {
	override := config.Override{Section: "nope", Key: "x", Value: "1"}
	if _, err := config.Load(nil, []config.Override{override}); err == nil {
		t.Fatal("expected error for unknown section")
	}
}

func TestOverrideTypeCoercion(t *testing.T) {
	overrides := []config.Override{
		{Section: "local", Key: "enabled", Value: "false"},
		{Section: "audio", Key: "output", Value: "null"},
	}
	cfg, err := config.Load(nil, overrides)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Local.Enabled {
		t.Fatal("local backend should be disabled")
	}
	if cfg.Audio.Output != "null" {
		t.Fatalf("output = %q", cfg.Audio.Output)
	}

	bad := config.Override{Section: "playback", Key: "volume", Value: "loud"}
	if _, err := config.Load(nil, []config.Override{bad}); err == nil {
		t.Fatal("expected coercion error")
	}
}

func TestValidateRejectsBadVolume(t *testing.T) {
	override := config.Override{Section: "playback", Key: "volume", Value: "250"}
	if _, err := config.Load(nil, []config.Override{override}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestFormatRoundTrips(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	text, err := config.Format(cfg)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(text, "[playback]") || !strings.Contains(text, "volume = 100") {
		t.Fatalf("formatted config = %q", text)
	}
}

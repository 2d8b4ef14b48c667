package local_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cadenza/internal/backend/local"
	"cadenza/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Local.MediaDir = filepath.Join(base, "music")
	return cfg
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestStartScansMediaDirectory(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.Local.MediaDir, "albums", "blue_in_green.flac"))
	writeFile(t, filepath.Join(cfg.Local.MediaDir, "so-what.mp3"))
	writeFile(t, filepath.Join(cfg.Local.MediaDir, "cover.jpg"))

	ctx := context.Background()
	backend, err := local.Class{}.Start(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer backend.Close()

	tracks, err := backend.Tracks(ctx)
	if err != nil {
		t.Fatalf("tracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("indexed %d tracks, want 2 (non-audio files skipped)", len(tracks))
	}

	titles := map[string]bool{}
	for _, track := range tracks {
		titles[track.Title] = true
		if track.Source != "local" {
			t.Fatalf("source = %q", track.Source)
		}
	}
	if !titles["Blue In Green"] || !titles["So What"] {
		t.Fatalf("titles = %v", titles)
	}
}

func TestRescanIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.Local.MediaDir, "track.ogg"))

	ctx := context.Background()
	first, err := local.Class{}.Start(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := local.Class{}.Start(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer second.Close()

	tracks, err := second.Tracks(ctx)
	if err != nil {
		t.Fatalf("tracks: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("indexed %d tracks after rescan, want 1", len(tracks))
	}
}

func TestMissingMediaDirLeavesIndexEmpty(t *testing.T) {
	cfg := testConfig(t)
	// MediaDir is never created.
	ctx := context.Background()
	backend, err := local.Class{}.Start(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer backend.Close()

	tracks, err := backend.Tracks(ctx)
	if err != nil {
		t.Fatalf("tracks: %v", err)
	}
	if len(tracks) != 0 {
		t.Fatalf("tracks = %v, want empty", tracks)
	}
}

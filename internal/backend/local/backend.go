// Package local implements the local-library backend: a filesystem scan of
// the configured media directory into a SQLite track index.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cadenza/internal/audio"
	"cadenza/internal/config"
	"cadenza/internal/core"
)

const className = "local"

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".flac": {},
	".ogg":  {},
	".opus": {},
	".wav":  {},
	".m4a":  {},
}

var titleCaser = cases.Title(language.Und)

// Class is the registrable local backend class.
type Class struct{}

func (Class) Name() string { return className }

// Start opens the track index under the data directory and scans the media
// directory into it.
func (Class) Start(ctx context.Context, cfg *config.Config, _ *audio.Engine) (core.Backend, error) {
	store, err := OpenStore(filepath.Join(cfg.Paths.DataDir, "library.db"))
	if err != nil {
		return nil, err
	}
	backend := &Backend{store: store, mediaDir: cfg.Local.MediaDir}
	if err := backend.Scan(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return backend, nil
}

// Backend serves tracks from the scanned index.
type Backend struct {
	store    *Store
	mediaDir string
}

func (b *Backend) Name() string { return className }

// Scan walks the media directory and upserts every recognized audio file.
// A missing media directory leaves the existing index untouched.
func (b *Backend) Scan(ctx context.Context) error {
	if _, err := os.Stat(b.mediaDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat media directory: %w", err)
	}
	err := filepath.WalkDir(b.mediaDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := audioExtensions[ext]; !ok {
			return nil
		}
		track := core.Track{
			URI:    "file://" + path,
			Title:  titleFromFilename(entry.Name()),
			Source: className,
		}
		return b.store.Upsert(ctx, track)
	})
	if err != nil {
		return fmt.Errorf("scan media directory: %w", err)
	}
	return nil
}

// Tracks lists the indexed tracks.
func (b *Backend) Tracks(ctx context.Context) ([]core.Track, error) {
	return b.store.All(ctx)
}

// Close releases the track index.
func (b *Backend) Close() error {
	return b.store.Close()
}

// titleFromFilename derives a display title from a file name: extension
// stripped, separators spaced, words title-cased.
func titleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return name
	}
	return titleCaser.String(base)
}

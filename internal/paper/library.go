package paper

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

// Library holds pre-loaded candidate textures. Every entry is normalized to
// three channels on load: alpha is dropped and single-channel images are
// expanded.
type Library struct {
	textures []image.Image
	names    []string
}

// LoadLibrary reads every file in dir as an image. Files that fail to decode
// are skipped, not fatal; an empty or missing directory yields an empty
// library and the factory falls back to procedural synthesis.
func LoadLibrary(dir string, logger *slog.Logger) (*Library, error) {
	lib := &Library{}
	if dir == "" {
		return lib, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return lib, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading texture directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		img, err := imaging.Open(path)
		if err != nil {
			if logger != nil {
				logger.Debug("skipping unreadable texture", "file", path, "error", err)
			}
			continue
		}
		lib.textures = append(lib.textures, imageutil.ToNRGBA(img))
		lib.names = append(lib.names, entry.Name())
	}
	return lib, nil
}

// Add appends an in-memory texture, normalizing channels the same way the
// directory loader does.
func (l *Library) Add(name string, img image.Image) {
	l.textures = append(l.textures, imageutil.ToNRGBA(img))
	l.names = append(l.names, name)
}

// Len reports the number of loaded textures.
func (l *Library) Len() int { return len(l.textures) }

// Name returns the file name of texture i.
func (l *Library) Name(i int) string { return l.names[i] }

func (l *Library) texture(i int) image.Image { return l.textures[i] }

package tle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/signalsfoundry/passtrack/model"
)

// DefaultMaxAge bounds how long cached element sets are considered fresh.
// TLEs drift; a day-old set is still fine for pass prediction.
const DefaultMaxAge = 24 * time.Hour

// Cache stores element sets on disk, one file per NORAD catalog number, so
// repeated runs do not hammer Celestrak.
type Cache struct {
	Dir string

	// MaxAge controls freshness; zero means DefaultMaxAge.
	MaxAge time.Duration
}

// Get returns the cached element set for the catalog number if present and
// fresh.
func (c *Cache) Get(noradID uint32) (model.OrbitalElements, bool) {
	path := c.path(noradID)

	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > c.maxAge() {
		return model.OrbitalElements{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.OrbitalElements{}, false
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 3 {
		return model.OrbitalElements{}, false
	}
	el := model.OrbitalElements{
		Name:  strings.TrimSpace(lines[0]),
		Line1: strings.TrimSuffix(lines[1], "\r"),
		Line2: strings.TrimSuffix(lines[2], "\r"),
	}
	if Validate(el) != nil {
		return model.OrbitalElements{}, false
	}
	return el, true
}

// Put writes the element set to the cache. Failures are returned but callers
// can treat them as non-fatal: a broken cache only costs refetches.
func (c *Cache) Put(noradID uint32, el model.OrbitalElements) error {
	if err := Validate(el); err != nil {
		return err
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}

	content := fmt.Sprintf("%s\n%s\n%s\n", el.Name, el.Line1, el.Line2)
	return os.WriteFile(c.path(noradID), []byte(content), 0o644)
}

func (c *Cache) path(noradID uint32) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%d.tle", noradID))
}

func (c *Cache) maxAge() time.Duration {
	if c.MaxAge > 0 {
		return c.MaxAge
	}
	return DefaultMaxAge
}

package tle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/signalsfoundry/passtrack/model"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := &Cache{Dir: t.TempDir()}

	if _, ok := cache.Get(25544); ok {
		t.Fatal("empty cache reported a hit")
	}

	if err := cache.Put(25544, issElements); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := cache.Get(25544)
	if !ok {
		t.Fatal("cache miss after Put")
	}
	if got != issElements {
		t.Fatalf("Get returned %#v, want the stored set", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	cache := &Cache{Dir: dir, MaxAge: time.Hour}

	if err := cache.Put(25544, issElements); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Age the file past MaxAge.
	stale := time.Now().Add(-2 * time.Hour)
	path := filepath.Join(dir, "25544.tle")
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	if _, ok := cache.Get(25544); ok {
		t.Fatal("stale cache entry reported as fresh")
	}
}

func TestCacheRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	cache := &Cache{Dir: dir}

	if err := os.WriteFile(filepath.Join(dir, "25544.tle"), []byte("not a TLE\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Get(25544); ok {
		t.Fatal("corrupt cache file reported as a hit")
	}
}

func TestCachePutRejectsInvalidElements(t *testing.T) {
	cache := &Cache{Dir: t.TempDir()}
	if err := cache.Put(1, model.OrbitalElements{Name: "junk", Line1: "1", Line2: "2"}); err == nil {
		t.Fatal("expected Put to reject an invalid element set")
	}
}

type fetcherFunc func(ctx context.Context, noradID uint32) (model.OrbitalElements, error)

func (f fetcherFunc) Fetch(ctx context.Context, noradID uint32) (model.OrbitalElements, error) {
	return f(ctx, noradID)
}

func TestResolverPrefersCache(t *testing.T) {
	cache := &Cache{Dir: t.TempDir()}
	if err := cache.Put(25544, issElements); err != nil {
		t.Fatal(err)
	}

	r := &Resolver{
		Cache: cache,
		Fetcher: fetcherFunc(func(context.Context, uint32) (model.OrbitalElements, error) {
			t.Fatal("resolver hit the network despite a fresh cache entry")
			return model.OrbitalElements{}, nil
		}),
	}

	el, source := r.Resolve(context.Background(), model.SatelliteEntry{Name: "ISS (ZARYA)", NoradID: 25544})
	if source != SourceCache {
		t.Fatalf("source = %s, want cache", source)
	}
	if el != issElements {
		t.Fatalf("resolved %#v, want cached set", el)
	}
}

func TestResolverFetchesAndCaches(t *testing.T) {
	cache := &Cache{Dir: t.TempDir()}
	r := &Resolver{
		Cache: cache,
		Fetcher: fetcherFunc(func(_ context.Context, noradID uint32) (model.OrbitalElements, error) {
			if noradID != 25544 {
				t.Errorf("fetcher called with NORAD %d", noradID)
			}
			return issElements, nil
		}),
	}

	el, source := r.Resolve(context.Background(), model.SatelliteEntry{Name: "ISS (ZARYA)", NoradID: 25544})
	if source != SourceCelestrak {
		t.Fatalf("source = %s, want celestrak", source)
	}
	if el != issElements {
		t.Fatalf("resolved %#v", el)
	}

	if cached, ok := cache.Get(25544); !ok || cached != issElements {
		t.Fatal("successful fetch was not written back to the cache")
	}
}

func TestResolverFallsBackToSimulated(t *testing.T) {
	epoch := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	r := &Resolver{
		Fetcher: fetcherFunc(func(context.Context, uint32) (model.OrbitalElements, error) {
			return model.OrbitalElements{}, errors.New("network unreachable")
		}),
		Now: func() time.Time { return epoch },
	}

	entry := model.SatelliteEntry{Name: "BLUEWALKER 3", NoradID: 53807}
	el, source := r.Resolve(context.Background(), entry)
	if source != SourceSimulated {
		t.Fatalf("source = %s, want simulated", source)
	}
	if el != Simulated(53807, "BLUEWALKER 3", epoch) {
		t.Fatalf("resolved %#v, want the simulated set", el)
	}
}

package tle

import (
	"context"
	"time"

	"github.com/signalsfoundry/passtrack/internal/logging"
	"github.com/signalsfoundry/passtrack/model"
)

// Source tells callers where a resolved element set came from.
type Source string

const (
	SourceCache     Source = "cache"
	SourceCelestrak Source = "celestrak"
	SourceSimulated Source = "simulated"
)

// Fetcher is the network lookup used by the resolver. *Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, noradID uint32) (model.OrbitalElements, error)
}

// Resolver produces element sets for catalog entries: fresh cache hits win,
// then Celestrak, then a simulated fallback so analysis can proceed offline.
type Resolver struct {
	Cache   *Cache // nil disables caching
	Fetcher Fetcher
	Log     logging.Logger

	// Now is stubbed in tests; zero means time.Now.
	Now func() time.Time
}

// Resolve returns the element set for one satellite along with its source.
func (r *Resolver) Resolve(ctx context.Context, entry model.SatelliteEntry) (model.OrbitalElements, Source) {
	log := r.Log
	if log == nil {
		log = logging.Noop()
	}

	if r.Cache != nil {
		if el, ok := r.Cache.Get(entry.NoradID); ok {
			return el, SourceCache
		}
	}

	if r.Fetcher != nil {
		el, err := r.Fetcher.Fetch(ctx, entry.NoradID)
		if err == nil {
			if r.Cache != nil {
				if cacheErr := r.Cache.Put(entry.NoradID, el); cacheErr != nil {
					log.Warn(ctx, "failed to cache element set",
						logging.String("satellite", entry.Name),
						logging.String("error", cacheErr.Error()))
				}
			}
			return el, SourceCelestrak
		}
		log.Warn(ctx, "element set fetch failed, falling back to simulated orbit",
			logging.String("satellite", entry.Name),
			logging.Int("norad_id", int(entry.NoradID)),
			logging.String("error", err.Error()))
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return Simulated(entry.NoradID, entry.Name, now()), SourceSimulated
}

package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/passtrack/model"
)

// EventType indicates what kind of change happened in the catalog.
type EventType int

const (
	EventElementsUpdated EventType = iota
)

// Event is emitted to subscribers when a satellite's orbital elements change.
type Event struct {
	Type      EventType
	Satellite model.SatelliteEntry
	Elements  model.OrbitalElements
}

// Catalog is an in-memory, thread-safe registry of tracked satellites and
// their most recently resolved orbital elements.
type Catalog struct {
	mu sync.RWMutex

	entries  map[string]*model.SatelliteEntry
	byID     map[uint32]string
	elements map[string]model.OrbitalElements

	nextSubID uint64
	subs      map[uint64]func(Event)
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{
		entries:  make(map[string]*model.SatelliteEntry),
		byID:     make(map[uint32]string),
		elements: make(map[string]model.OrbitalElements),
		subs:     make(map[uint64]func(Event)),
	}
}

// Register adds a new satellite. It returns an error if the entry fails
// validation or its name or NORAD ID is already taken.
func (c *Catalog) Register(entry model.SatelliteEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[entry.Name]; exists {
		return fmt.Errorf("satellite %q already registered", entry.Name)
	}
	if holder, exists := c.byID[entry.NoradID]; exists {
		return fmt.Errorf("NORAD ID %d already registered as %q", entry.NoradID, holder)
	}
	c.entries[entry.Name] = &entry
	c.byID[entry.NoradID] = entry.Name
	return nil
}

// Get returns the satellite with the given name, or nil if not found.
func (c *Catalog) Get(name string) *model.SatelliteEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[name]
}

// List returns a snapshot of all registered satellites, sorted by name.
func (c *Catalog) List() []model.SatelliteEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]model.SatelliteEntry, 0, len(c.entries))
	for _, e := range c.entries {
		res = append(res, *e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// SetElements stores freshly resolved orbital elements for a registered
// satellite and notifies subscribers.
func (c *Catalog) SetElements(name string, elements model.OrbitalElements) error {
	c.mu.Lock()
	entry, ok := c.entries[name]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("satellite %q not registered", name)
	}
	c.elements[name] = elements
	event := Event{
		Type:      EventElementsUpdated,
		Satellite: *entry,
		Elements:  elements,
	}
	subs := make([]func(Event), 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// Elements returns the stored orbital elements for a satellite. The second
// return reports whether elements have been resolved for it.
func (c *Catalog) Elements(name string) (model.OrbitalElements, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	el, ok := c.elements[name]
	return el, ok
}

// Subscribe registers a callback for catalog events. It returns an
// unsubscribe function.
func (c *Catalog) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

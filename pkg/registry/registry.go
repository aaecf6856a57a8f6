package registry

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-select/internal/ident"
	"github.com/google/uuid"
)

const (
	// GroupMarkerPrefix prefixes ids generated for group markers.
	GroupMarkerPrefix = "group-marker-"
	// EmptyGroupName names group markers registered without a name.
	EmptyGroupName = "Empty group"
)

// Entry is one declaratively registered option.
type Entry struct {
	ID          string
	Label       string
	Value       any
	Disabled    bool
	Group       string
	GroupMarker bool
	// HasContent marks entries that render custom content even without a
	// label, so they are not treated as empty.
	HasContent bool
	ClassName  string
}

// Registry is an ordered, concurrency safe collection of entries.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	entries   map[string]Entry
	listeners map[int]func()
	nextID    int
}

func New() *Registry {
	return &Registry{
		entries:   map[string]Entry{},
		listeners: map[int]func(){},
	}
}

// Register adds entry or replaces the entry with the same id. An empty id is
// replaced with a generated one. The stored id is returned so the caller can
// unregister later.
func (r *Registry) Register(entry Entry) (string, error) {
	entry.ID = strings.TrimSpace(entry.ID)
	if entry.GroupMarker {
		entry.Group = strings.TrimSpace(entry.Group)
		if entry.Group == "" {
			entry.Group = EmptyGroupName
		}
		if entry.ID == "" {
			entry.ID = GroupMarkerPrefix + ident.Slug(entry.Group, "group", "")
		}
		entry.Disabled = true
	}
	if entry.ID == "" {
		entry.ID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	r.mu.Lock()
	if r.entries == nil {
		r.entries = map[string]Entry{}
	}
	if existing, ok := r.entries[entry.ID]; ok && sameEntry(existing, entry) {
		r.mu.Unlock()
		return entry.ID, nil
	} else if !ok {
		r.order = append(r.order, entry.ID)
	}
	r.entries[entry.ID] = entry
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	notify(listeners)
	return entry.ID, nil
}

// RegisterGroup registers a marker for the named group. A blank name
// registers EmptyGroupName.
func (r *Registry) RegisterGroup(name string) (string, error) {
	id, err := r.Register(Entry{Group: name, GroupMarker: true})
	if err != nil {
		return "", fmt.Errorf("registry: group %q: %w", name, err)
	}
	return id, nil
}

// Unregister removes the entry with id and reports whether it existed.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	if _, ok := r.entries[id]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.entries, id)
	for i, current := range r.order {
		if current == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	notify(listeners)
	return true
}

// Get returns the entry registered under id.
func (r *Registry) Get(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	return entry, ok
}

// Entries returns a copy of the registered entries in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil
	}
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Subscribe registers fn to run after every change. Listeners run outside the
// registry lock, so they may read the registry.
func (r *Registry) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	r.mu.Lock()
	if r.listeners == nil {
		r.listeners = map[int]func(){}
	}
	key := r.nextID
	r.nextID++
	r.listeners[key] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, key)
		r.mu.Unlock()
	}
}

func (r *Registry) snapshotListeners() []func() {
	if len(r.listeners) == 0 {
		return nil
	}
	keys := make([]int, 0, len(r.listeners))
	for key := range r.listeners {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	out := make([]func(), 0, len(keys))
	for _, key := range keys {
		out = append(out, r.listeners[key])
	}
	return out
}

func notify(listeners []func()) {
	for _, listener := range listeners {
		listener()
	}
}

func sameEntry(a, b Entry) bool {
	if a.ID != b.ID || a.Label != b.Label || a.Disabled != b.Disabled || a.Group != b.Group ||
		a.GroupMarker != b.GroupMarker || a.HasContent != b.HasContent || a.ClassName != b.ClassName {
		return false
	}
	if a.Value == nil || b.Value == nil {
		return a.Value == nil && b.Value == nil
	}
	ta, tb := reflect.TypeOf(a.Value), reflect.TypeOf(b.Value)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a.Value == b.Value
}

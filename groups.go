package sel

import "sync"

// GroupInfo describes a group discovered by a normalization pass.
type GroupInfo struct {
	Name            string `json:"name"`
	Disabled        bool   `json:"disabled,omitempty"`
	ClosedByDefault bool   `json:"closed_by_default,omitempty"`
}

// Groups owns the expand/collapse state of named groups. Groups that were
// never observed or toggled fall back to their default: open unless the group
// is disabled or groups start closed.
type Groups struct {
	mu       sync.RWMutex
	expanded map[string]bool
}

// NewGroups constructs an empty expansion set.
func NewGroups() *Groups {
	return &Groups{expanded: make(map[string]bool)}
}

// Expanded reports whether info's group is currently open.
func (g *Groups) Expanded(info GroupInfo) bool {
	if g == nil {
		return !info.ClosedByDefault
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if state, ok := g.expanded[info.Name]; ok {
		return state
	}
	return !info.ClosedByDefault
}

// Observe pins the default state of groups seen for the first time so later
// changes to defaults do not move groups the user already saw.
func (g *Groups) Observe(infos []GroupInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, info := range infos {
		if _, ok := g.expanded[info.Name]; !ok {
			g.expanded[info.Name] = !info.ClosedByDefault
		}
	}
}

// Toggle flips the group and returns its new state.
func (g *Groups) Toggle(info GroupInfo) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	state, ok := g.expanded[info.Name]
	if !ok {
		state = !info.ClosedByDefault
	}
	g.expanded[info.Name] = !state
	return !state
}

// Set forces the state of a group.
func (g *Groups) Set(name string, expanded bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expanded[name] = expanded
}

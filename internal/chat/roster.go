package chat

import (
	"slices"
	"sync"
)

// Roster is the local view of who is in the current room.
// It is replaced wholesale by each snapshot, never merged.
type Roster struct {
	mu      sync.RWMutex
	members []string
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{}
}

// Replace installs members as the new view.
func (r *Roster) Replace(members []string) {
	next := slices.Clone(members)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = next
}

// Members returns a copy of the current view in server order.
func (r *Roster) Members() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.members)
}

package notation

import (
	"fmt"

	"github.com/google/uuid"
)

// Registry maps note ids to notes. Notes created without an explicit id are
// registered under a generated id.
type Registry struct {
	byID  map[string]*Note
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Note)}
}

// Register adds a note. If the note has no id, a new one is generated.
// Registering an id twice is an error.
func (r *Registry) Register(n *Note) error {
	return r.RegisterAll(n)
}

// RegisterAll adds notes as a unit. Notes without an id get a new one. If
// any id is taken or appears twice, no note is registered.
func (r *Registry) RegisterAll(notes ...*Note) error {
	seen := make(map[string]bool, len(notes))
	for _, n := range notes {
		if n.id == "" {
			continue
		}
		if _, dup := r.byID[n.id]; dup || seen[n.id] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, n.id)
		}
		seen[n.id] = true
	}
	for _, n := range notes {
		if n.id == "" {
			n.id = "auto-" + uuid.New().String()
		}
		r.byID[n.id] = n
		r.order = append(r.order, n.id)
	}
	return nil
}

// ByID returns the note registered for id.
func (r *Registry) ByID(id string) (*Note, bool) {
	n, ok := r.byID[id]
	return n, ok
}

// Lookup returns the note registered for id, or a *LookupError.
func (r *Registry) Lookup(id string) (*Note, error) {
	if n, ok := r.byID[id]; ok {
		return n, nil
	}
	return nil, &LookupError{ID: id}
}

// Len returns the number of registered notes.
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns all registered ids in order of registration.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Clear removes all entries.
func (r *Registry) Clear() {
	r.byID = make(map[string]*Note)
	r.order = nil
}

package segment

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrBuiltinGroup is returned for any attempt to edit or delete one
	// of the reserved groups.
	ErrBuiltinGroup = errors.New("cannot modify built-in group")

	// ErrGroupNotFound is returned when no group carries the given id.
	ErrGroupNotFound = errors.New("group not found")
)

// Store persists custom group definitions. Only groups with id > 5 pass
// through it; built-ins are static and never written. Implementations
// decide where the data lives (the engine does not care).
type Store interface {
	Load() ([]Group, error)
	Save(groups []Group) error
}

// Registry serves the full group catalogue: the five built-ins in fixed
// order, followed by the custom groups held by the Store. Mutations go
// through load-modify-save; the mutex keeps concurrent handler calls
// from losing writes.
type Registry struct {
	mu    sync.Mutex
	store Store
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// List returns built-in groups 1-5 followed by all custom groups.
// Store failures propagate to the caller; degrading to built-ins-only is
// an edge decision, not the registry's.
func (r *Registry) List() ([]Group, error) {
	custom, err := r.loadCustom()
	if err != nil {
		return nil, err
	}
	return append(BuiltinGroups(), custom...), nil
}

// Get returns the group with the given id.
func (r *Registry) Get(id int) (Group, error) {
	for _, g := range BuiltinGroups() {
		if g.ID == id {
			return g, nil
		}
	}
	custom, err := r.loadCustom()
	if err != nil {
		return Group{}, err
	}
	for _, g := range custom {
		if g.ID == id {
			return g, nil
		}
	}
	return Group{}, fmt.Errorf("%w: id %d", ErrGroupNotFound, id)
}

// Create persists a new custom group. The caller's ID is ignored: the
// next identifier is always max(existing ids, 5) + 1, so deleted ids are
// never reused and ids stay monotonic in creation order.
func (r *Registry) Create(g Group) (Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	custom, err := r.loadCustom()
	if err != nil {
		return Group{}, err
	}

	nextID := MaxBuiltinID
	for _, existing := range custom {
		if existing.ID > nextID {
			nextID = existing.ID
		}
	}
	g.ID = nextID + 1
	g.CreatedAt = time.Now()
	g.DonorCount = 0
	if g.Criteria == nil {
		g.Criteria = []string{}
	}

	custom = append(custom, g)
	if err := r.store.Save(custom); err != nil {
		return Group{}, err
	}
	return g, nil
}

// Update replaces a custom group by id.
func (r *Registry) Update(g Group) (Group, error) {
	if g.ID <= MaxBuiltinID {
		return Group{}, ErrBuiltinGroup
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	custom, err := r.loadCustom()
	if err != nil {
		return Group{}, err
	}

	for i, existing := range custom {
		if existing.ID == g.ID {
			// CreatedAt is immutable; DonorCount is derived, never stored.
			g.CreatedAt = existing.CreatedAt
			g.DonorCount = 0
			if g.Criteria == nil {
				g.Criteria = []string{}
			}
			custom[i] = g
			if err := r.store.Save(custom); err != nil {
				return Group{}, err
			}
			return g, nil
		}
	}
	return Group{}, fmt.Errorf("%w: id %d", ErrGroupNotFound, g.ID)
}

// Delete removes a custom group by id.
func (r *Registry) Delete(id int) error {
	if id <= MaxBuiltinID {
		return ErrBuiltinGroup
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	custom, err := r.loadCustom()
	if err != nil {
		return err
	}

	for i, existing := range custom {
		if existing.ID == id {
			custom = append(custom[:i], custom[i+1:]...)
			return r.store.Save(custom)
		}
	}
	return fmt.Errorf("%w: id %d", ErrGroupNotFound, id)
}

// loadCustom reads the store and drops anything claiming a reserved id,
// so stored data can never shadow a built-in group.
func (r *Registry) loadCustom() ([]Group, error) {
	groups, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	custom := make([]Group, 0, len(groups))
	for _, g := range groups {
		if g.ID > MaxBuiltinID {
			custom = append(custom, g)
		}
	}
	return custom, nil
}

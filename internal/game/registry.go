package game

import (
	"fmt"
	"sync"
)

// Info is the metadata every engine exposes for the game listing. The
// engines' play contracts are typed per game; only discovery goes through
// this interface.
type Info interface {
	// Name returns the display name, e.g. "Crate Opening".
	Name() string

	// Slug returns the identifier used in API routes, e.g. "crates".
	Slug() string

	// Description returns a one-line description of the game.
	Description() string
}

// Registry manages engine registration and lookup by slug.
type Registry struct {
	games map[string]Info
	order []string
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]Info)}
}

// Register adds an engine to the registry. Registering a duplicate slug is
// a wiring mistake and returns an error.
func (r *Registry) Register(g Info) error {
	if g == nil {
		return fmt.Errorf("cannot register nil game")
	}
	if g.Slug() == "" {
		return fmt.Errorf("game slug cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.games[g.Slug()]; exists {
		return fmt.Errorf("game %q already registered", g.Slug())
	}
	r.games[g.Slug()] = g
	r.order = append(r.order, g.Slug())
	return nil
}

// Get retrieves a game by its slug.
func (r *Registry) Get(slug string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[slug]
	return g, ok
}

// List returns all registered games in registration order.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.games[slug])
	}
	return out
}

// Count returns the number of registered games.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

package formstate

import (
	"sync"

	"github.com/go-logr/logr"
)

// Registry tracks live form ids for one page or session so duplicate ids can
// be detected. It is an explicit object owned by the hosting integration
// layer and scoped to its lifetime; there is deliberately no package-level
// instance.
type Registry struct {
	mu  sync.Mutex
	ids map[string]int
	log logr.Logger
}

// NewRegistry creates an empty registry. log may be the zero logr.Logger.
func NewRegistry(log logr.Logger) *Registry {
	return &Registry{ids: map[string]int{}, log: log}
}

// Register records a form id and returns a release function the form calls
// on Close. Duplicate registrations are reported through the logger and
// still succeed; progressive enhancement must not break the page.
func (r *Registry) Register(id string) func() {
	r.mu.Lock()
	r.ids[id]++
	if r.ids[id] > 1 {
		r.log.Info("duplicate form id on page", "id", id, "count", r.ids[id])
	}
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		if r.ids[id] > 1 {
			r.ids[id]--
		} else {
			delete(r.ids, id)
		}
		r.mu.Unlock()
	}
}

// Duplicated reports whether more than one live form uses id.
func (r *Registry) Duplicated(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ids[id] > 1
}

package zone

import "sort"

// Registry holds every zone controller in a running simulation, keyed by
// zone id. cmd/radiosim builds one Registry at startup and hands it to both
// the tick loop and the introspection API.
type Registry struct {
	controllers map[int]*Controller
}

// NewRegistry builds a Registry from a set of already-constructed controllers.
func NewRegistry(controllers map[int]*Controller) *Registry {
	return &Registry{controllers: controllers}
}

// Zone looks up a controller by zone id.
func (r *Registry) Zone(id int) (*Controller, bool) {
	c, ok := r.controllers[id]
	return c, ok
}

// ZoneIDs returns every zone id in the registry, sorted ascending.
func (r *Registry) ZoneIDs() []int {
	ids := make([]int, 0, len(r.controllers))
	for id := range r.controllers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Tick advances every zone controller's clock by delta, in zone-id order.
func (r *Registry) Tick(delta float64) {
	for _, id := range r.ZoneIDs() {
		r.controllers[id].Tick(delta)
	}
}

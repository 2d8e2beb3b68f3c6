package directupload

import (
	"fmt"
	"sort"

	"github.com/rohits-web03/webfile/internal/common"
)

// Registry maps filesystem names to adapters. It is filled once by NewRegistry
// and read-only afterwards, so concurrent lookups need no locking.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters map[string]Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for name, a := range adapters {
		r.adapters[name] = a
	}
	return r
}

// Get returns the adapter for filesystem or ErrAdapterNotFound.
func (r *Registry) Get(filesystem string) (Adapter, error) {
	if r != nil {
		if a, ok := r.adapters[filesystem]; ok {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", common.ErrAdapterNotFound, filesystem)
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/shared"
)

// Registry holds the configured adapters, at most one per service type.
//
// The adapter map is read-mostly: it is populated from configuration at
// startup and read concurrently by the presentation and worker contexts, so
// an RWMutex is enough. A registered adapter being present does not imply its
// credentials are valid; validity is only known after TestConnection.
type Registry struct {
	mu       sync.RWMutex
	adapters map[models.ServiceType]Adapter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[models.ServiceType]Adapter)}
}

// Register adds an adapter, replacing any existing adapter of the same type.
func (r *Registry) Register(adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[adapter.Type()] = adapter
}

// Get returns the adapter for the given service type.
func (r *Registry) Get(serviceType models.ServiceType) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[serviceType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotConfigured, serviceType)
	}
	return adapter, nil
}

// Configured reports whether an adapter is registered for the service type.
func (r *Registry) Configured(serviceType models.ServiceType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.adapters[serviceType]
	return ok
}

// Available returns the registered service types in the stable enumeration order.
func (r *Registry) Available() []models.ServiceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	available := make([]models.ServiceType, 0, len(r.adapters))
	for _, serviceType := range models.ServiceTypes() {
		if _, ok := r.adapters[serviceType]; ok {
			available = append(available, serviceType)
		}
	}
	return available
}

// TestAll probes every registered adapter and reports per-service results.
func (r *Registry) TestAll(ctx context.Context) map[models.ServiceType]models.ConnectionResult {
	r.mu.RLock()
	adapters := make(map[models.ServiceType]Adapter, len(r.adapters))
	for serviceType, adapter := range r.adapters {
		adapters[serviceType] = adapter
	}
	r.mu.RUnlock()

	results := make(map[models.ServiceType]models.ConnectionResult, len(adapters))
	for serviceType, adapter := range adapters {
		results[serviceType] = adapter.TestConnection(ctx)
	}
	return results
}

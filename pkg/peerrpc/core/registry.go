package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrDuplicateServiceRegistration is the panic value's underlying error
// when Register is called twice for the same service id.
var ErrDuplicateServiceRegistration = errors.New("peerrpc: service already registered")

// EndpointFactory builds and starts a fresh Endpoint bound to remotePeer.
// It is invoked by the dispatcher the first time a request arrives from a
// peer that has no endpoint yet for this service.
type EndpointFactory func(remotePeer uuid.UUID) *Endpoint

// Registry maps a service id to the factory that creates endpoints for it.
// A service id is registered at most once for the registry's lifetime;
// registering a duplicate id is a programming error.
type Registry struct {
	mu        sync.RWMutex
	factories map[uint32]EndpointFactory
}

// NewRegistry creates an empty service registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[uint32]EndpointFactory)}
}

// Register binds serviceID to factory. It panics if serviceID is already
// registered, matching the "duplicate registration is a programming error"
// contract.
func (r *Registry) Register(serviceID uint32, factory EndpointFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[serviceID]; exists {
		panic(fmt.Errorf("%w: service %d", ErrDuplicateServiceRegistration, serviceID))
	}
	r.factories[serviceID] = factory
}

// Lookup returns the factory registered for serviceID, if any.
func (r *Registry) Lookup(serviceID uint32) (EndpointFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[serviceID]
	return factory, ok
}

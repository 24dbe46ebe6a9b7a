package core

import (
	"sync"

	"github.com/google/uuid"
)

// SinkKey identifies one in-flight client conversation: the remote peer it
// targets and the service id on that peer.
type SinkKey struct {
	Peer      uuid.UUID
	ServiceID uint32
}

// ClientRouter dispatches response frames to the client scope waiting for
// them. A sink exists only while a DoClientRPCScoped call is active;
// registering a key that already has a sink replaces it. Sinks are
// PacketQueues so the dispatcher's enqueue never blocks waiting for a slow
// client to drain.
type ClientRouter struct {
	mu    sync.RWMutex
	sinks map[SinkKey]*PacketQueue
}

// NewClientRouter creates an empty client response router.
func NewClientRouter() *ClientRouter {
	return &ClientRouter{sinks: make(map[SinkKey]*PacketQueue)}
}

// Register installs sink as the destination for responses matching key,
// replacing any previous sink registered under the same key.
func (r *ClientRouter) Register(key SinkKey, sink *PacketQueue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[key] = sink
}

// Unregister removes sink from key's slot, but only if it is still the
// currently registered sink. This is a compare-and-delete rather than an
// unconditional delete: if a second Register for the same key has already
// replaced sink (two overlapping conversations against the same remote
// peer and service), this call must not remove the newer sink out from
// under its still-active owner. It is a no-op if no sink is registered, or
// if the registered sink is no longer this one, so a scope can always call
// it unconditionally on exit.
func (r *ClientRouter) Unregister(key SinkKey, sink *PacketQueue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sinks[key] == sink {
		delete(r.sinks, key)
	}
}

// Lookup returns the sink registered for key, if any.
func (r *ClientRouter) Lookup(key SinkKey) (*PacketQueue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sinks[key]
	return sink, ok
}

package core

import "sync"

// Invoker spawns goroutines on behalf of the multiplexer and tracks them so
// every background task started for an endpoint or a client scope can be
// waited on at shutdown. Each endpoint and each client scope owns its own
// Invoker; there is no process-wide singleton, so a client scope tearing
// down never waits on unrelated endpoint goroutines.
type Invoker struct {
	group sync.WaitGroup
}

// NewInvoker creates an empty Invoker.
func NewInvoker() *Invoker {
	return &Invoker{}
}

// Spawn runs f in a new goroutine tracked by this Invoker.
func (i *Invoker) Spawn(f func()) {
	i.group.Add(1)
	go func() {
		defer i.group.Done()
		f()
	}()
}

// Wait blocks until every goroutine spawned through this Invoker has
// returned.
func (i *Invoker) Wait() {
	i.group.Wait()
}

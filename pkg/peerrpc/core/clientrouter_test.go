package core

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestClientRouterRegisterLookupUnregister(t *testing.T) {
	router := NewClientRouter()
	key := SinkKey{Peer: uuid.New(), ServiceID: 3}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := NewPacketQueue(ctx)
	router.Register(key, queue)

	got, ok := router.Lookup(key)
	if !ok || got != queue {
		t.Fatal("expected registered sink to be found")
	}

	router.Unregister(key, queue)
	if _, ok := router.Lookup(key); ok {
		t.Fatal("expected sink to be gone after Unregister")
	}

	// Unregistering again must be a harmless no-op.
	router.Unregister(key, queue)
}

func TestClientRouterReplacesExistingSink(t *testing.T) {
	router := NewClientRouter()
	key := SinkKey{Peer: uuid.New(), ServiceID: 3}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := NewPacketQueue(ctx)
	second := NewPacketQueue(ctx)

	router.Register(key, first)
	router.Register(key, second)

	got, ok := router.Lookup(key)
	if !ok || got != second {
		t.Fatal("expected second registration to replace the first")
	}
}

func TestClientRouterUnregisterDoesNotRemoveReplacedSink(t *testing.T) {
	router := NewClientRouter()
	key := SinkKey{Peer: uuid.New(), ServiceID: 3}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := NewPacketQueue(ctx)
	second := NewPacketQueue(ctx)

	router.Register(key, first)
	router.Register(key, second)

	// A stale Unregister for the first (now-replaced) sink must not evict
	// the second, still-active sink - this is what protects two
	// overlapping DoClientRPCScoped calls against the same (peer,
	// service) from orphaning each other's responses.
	router.Unregister(key, first)

	got, ok := router.Lookup(key)
	if !ok || got != second {
		t.Fatal("expected second sink to survive an Unregister of the first")
	}

	router.Unregister(key, second)
	if _, ok := router.Lookup(key); ok {
		t.Fatal("expected sink to be gone after unregistering the current sink")
	}
}

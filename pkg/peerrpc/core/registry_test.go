package core

import (
	"testing"

	"github.com/google/uuid"
)

func TestRegistryRejectsDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	r.Register(1, func(uuid.UUID) *Endpoint { return nil })

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	r.Register(1, func(uuid.UUID) *Endpoint { return nil })
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup(7); ok {
		t.Fatal("expected no factory for unregistered service")
	}

	r.Register(7, func(uuid.UUID) *Endpoint { return nil })

	factory, ok := r.Lookup(7)
	if !ok || factory == nil {
		t.Fatal("expected factory for registered service")
	}
}

package peerrpc

import (
	"errors"

	"github.com/jabolina/peerrpc/pkg/peerrpc/core"
)

// Sentinel errors surfaced at the multiplexer's public boundary. Errors
// scoped to the packet codec and the registry (ErrMalformedPacket,
// ErrInvalidPacket, ErrDuplicateServiceRegistration) are defined in the
// core package, which raises them, and re-exported here for callers that
// only import the top-level package.
var (
	ErrMalformedPacket              = core.ErrMalformedPacket
	ErrInvalidPacket                = core.ErrInvalidPacket
	ErrDuplicateServiceRegistration = core.ErrDuplicateServiceRegistration
)

var (
	// ErrUnknownService is logged by the dispatcher when a request targets
	// a service id with no registration. It never reaches a caller
	// directly - the request is dropped - but is exported so tests and
	// custom loggers can match on it.
	ErrUnknownService = errors.New("peerrpc: unknown service")

	// ErrMissingRequestContext documents the upstream failure mode of a
	// response produced with no request in flight. This implementation's
	// endpoint answers one request at a time in a single goroutine, which
	// makes the condition structurally unreachable; the sentinel is kept
	// for the error catalog and for custom handler code that wants to
	// report the same condition explicitly.
	ErrMissingRequestContext = errors.New("peerrpc: no request in flight for this response")

	// ErrMissingResponseSink is logged when the dispatcher receives a
	// response with no matching client sink registered.
	ErrMissingResponseSink = errors.New("peerrpc: no client awaiting this response")

	// ErrPayloadCodec marks a failure to (de)serialize an inner RPC
	// payload; the core never raises it directly since payloads are
	// opaque to it, but example services and tests use it to report their
	// own codec failures consistently.
	ErrPayloadCodec = errors.New("peerrpc: payload codec failure")

	// ErrAlreadyRunning is the panic value when Run is called more than
	// once on the same Multiplexer.
	ErrAlreadyRunning = errors.New("peerrpc: multiplexer already running")
)

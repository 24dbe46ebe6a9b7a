// Package core holds the concurrent machinery the multiplexer is built
// from: the transport contract it consumes, the per-peer endpoint bridge,
// the service registry and the client response router.
package core

import (
	"context"

	"github.com/google/uuid"
)

// Transport is the peer-to-peer byte carrier the multiplexer is built on
// top of. Implementations own routing, connection management, framing and
// encryption; this package only ever sees opaque frames and peer UUIDs.
//
// Send may be called concurrently from many goroutines (one endpoint's
// outbound pump, one client scope's egress pump, ...) and must tolerate
// that. A Send failure is treated as a non-fatal warning by every caller in
// this package: delivery is best-effort, there is no retry.
//
// Recv blocks until one frame arrives or ctx is cancelled. A Recv error
// other than context cancellation is logged by the dispatcher and the
// receive loop is retried rather than aborted.
type Transport interface {
	MyPeerID() uuid.UUID
	Send(ctx context.Context, payload []byte, dst uuid.UUID) error
	Recv(ctx context.Context) ([]byte, error)
}

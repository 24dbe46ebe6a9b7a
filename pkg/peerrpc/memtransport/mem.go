// Package memtransport provides an in-memory core.Transport test double,
// the same role the teacher's ring-tunnel pair plays in its own transport
// tests: two endpoints wired directly together with no real network
// underneath, so multiplexer tests exercise routing and ordering without
// any I/O.
package memtransport

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jabolina/peerrpc/pkg/peerrpc/core"
)

// tunnel is a single-direction pipe of framed byte messages, buffered up to
// 64 frames.
type tunnel chan []byte

func newTunnel() tunnel {
	return make(tunnel, 64)
}

// Transport is a core.Transport backed by a pair of in-memory tunnels: one
// this side sends on, one this side receives from. Two Transports
// constructed by NewPair share the same pair of tunnels cross-wired, so
// whatever one side sends the other side receives.
type Transport struct {
	peerID uuid.UUID
	send   tunnel
	recv   tunnel
}

// NewPair returns two Transports wired directly to each other: frames sent
// by a are received by b and vice versa.
func NewPair(aID, bID uuid.UUID) (a *Transport, b *Transport) {
	aToB := newTunnel()
	bToA := newTunnel()
	a = &Transport{peerID: aID, send: aToB, recv: bToA}
	b = &Transport{peerID: bID, send: bToA, recv: aToB}
	return a, b
}

// MyPeerID implements core.Transport.
func (t *Transport) MyPeerID() uuid.UUID {
	return t.peerID
}

// Send implements core.Transport. Delivery is best-effort: the frame is
// dropped if the tunnel's buffer is full and ctx is cancelled before room
// frees up.
func (t *Transport) Send(ctx context.Context, payload []byte, _dst uuid.UUID) error {
	frame := append([]byte(nil), payload...)
	select {
	case t.send <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv implements core.Transport.
func (t *Transport) Recv(ctx context.Context) ([]byte, error) {
	select {
	case frame, ok := <-t.recv:
		if !ok {
			return nil, fmt.Errorf("memtransport: tunnel closed")
		}
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Relay starts a forwarding goroutine that copies every frame arriving on
// `via` (a Transport whose peer id is the relay's own) onward to `onward`,
// unchanged; the frame goes to whichever peer is wired to `onward` (the
// destination argument is uuid.Nil, which Transport.Send ignores). It is
// used to build
// multi-hop test topologies where two peers are not directly wired but
// reach each other through an intermediary, mirroring how the rest of the
// system's routing layer - out of scope for this module - would forward
// traffic that has already been routed to the local peer.
func Relay(ctx context.Context, via *Transport, onward *Transport) {
	go func() {
		for {
			frame, err := via.Recv(ctx)
			if err != nil {
				return
			}
			if err := onward.Send(ctx, frame, uuid.Nil); err != nil {
				return
			}
		}
	}()
}

var _ core.Transport = (*Transport)(nil)

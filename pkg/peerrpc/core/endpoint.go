package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jabolina/peerrpc/pkg/peerrpc/definition"
)

// Endpoint is the server-side bridge for one (remote peer, service) pair.
// It owns an unbounded inbound queue fed by the dispatcher and a single
// goroutine that drains it, so requests from the same remote peer for the
// same service are always handled and answered strictly in arrival order -
// a second request is never started before the previous one's response has
// been sent.
type Endpoint struct {
	myPeer     uuid.UUID
	remotePeer uuid.UUID
	serviceID  uint32
	transport  Transport
	handler    ServiceHandler
	log        definition.Logger
	invoker    *Invoker

	queue  *PacketQueue
	cancel context.CancelFunc
}

// NewEndpoint creates and starts an Endpoint serving handler for every
// request arriving from remotePeer addressed to serviceID. The endpoint
// runs until ctx is cancelled.
func NewEndpoint(ctx context.Context, transport Transport, remotePeer uuid.UUID, serviceID uint32, handler ServiceHandler, log definition.Logger) *Endpoint {
	endpointCtx, cancel := context.WithCancel(ctx)
	e := &Endpoint{
		myPeer:     transport.MyPeerID(),
		remotePeer: remotePeer,
		serviceID:  serviceID,
		transport:  transport,
		handler:    handler,
		log:        log,
		invoker:    NewInvoker(),
		queue:      NewPacketQueue(endpointCtx),
		cancel:     cancel,
	}
	e.invoker.Spawn(func() { e.serve(endpointCtx) })
	return e
}

// Enqueue hands one inbound packet to this endpoint. It never blocks.
func (e *Endpoint) Enqueue(p Packet) {
	e.queue.Push(p)
}

// Close stops the endpoint's serving goroutine and waits for it to exit.
func (e *Endpoint) Close() {
	e.cancel()
	e.invoker.Wait()
}

func (e *Endpoint) serve(ctx context.Context) {
	for {
		pkt, ok := e.queue.Pop()
		if !ok {
			return
		}

		info, err := ParseRPCPacketInfo(pkt)
		if err != nil {
			e.log.Warnf("endpoint %s/%d: dropping packet: %v", e.remotePeer, e.serviceID, err)
			continue
		}
		if !info.IsRequest {
			e.log.Warnf("endpoint %s/%d: dropping unexpected response packet", e.remotePeer, e.serviceID)
			continue
		}

		response, err := e.handler.Handle(ctx, info.Payload)
		if err != nil {
			e.log.Warnf("endpoint %s/%d: handler failed: %v", e.remotePeer, e.serviceID, err)
			continue
		}

		e.reply(ctx, response)
	}
}

func (e *Endpoint) reply(ctx context.Context, payload []byte) {
	resp := NewTaRpcPacket(e.myPeer, e.remotePeer, e.serviceID, false, payload)
	frame, err := Encode(resp)
	if err != nil {
		e.log.Errorf("endpoint %s/%d: encoding response: %v", e.remotePeer, e.serviceID, err)
		return
	}
	if err := e.transport.Send(ctx, frame, e.remotePeer); err != nil {
		e.log.Warnf("endpoint %s/%d: sending response: %v", e.remotePeer, e.serviceID, err)
	}
}

// String implements fmt.Stringer for log lines identifying an endpoint.
func (e *Endpoint) String() string {
	return fmt.Sprintf("%s/%d", e.remotePeer, e.serviceID)
}

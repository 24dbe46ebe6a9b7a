// Package peerrpc implements a peer-to-peer RPC multiplexer: a routing and
// demultiplexing fabric that carries request/response RPC traffic for many
// independent services over a single, unreliable, packet-oriented
// transport. See pkg/peerrpc/core for the packet codec, endpoint bridge,
// service registry and client response router this package wires together.
package peerrpc

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jabolina/peerrpc/pkg/peerrpc/core"
	"github.com/jabolina/peerrpc/pkg/peerrpc/definition"
)

// Multiplexer is one peer's routing table and dispatcher. Applications
// register services with RunService and initiate client conversations with
// DoClientRPCScoped; the dispatcher itself starts with Run and runs for
// the multiplexer's lifetime.
type Multiplexer struct {
	transport core.Transport
	registry  *core.Registry
	router    *core.ClientRouter
	log       definition.Logger
	cfg       Config

	mu        sync.Mutex
	endpoints map[core.SinkKey]*core.Endpoint
	ctx       context.Context
	cancel    context.CancelFunc

	invoker *core.Invoker
}

// New creates a Multiplexer bound to transport. The dispatcher is not
// started until Run is called.
func New(transport core.Transport, opts ...Option) *Multiplexer {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Multiplexer{
		transport: transport,
		registry:  core.NewRegistry(),
		router:    core.NewClientRouter(),
		log:       cfg.Logger,
		cfg:       cfg,
		endpoints: make(map[core.SinkKey]*core.Endpoint),
		invoker:   core.NewInvoker(),
	}
}

// MyPeerID returns this multiplexer's transport-assigned peer id.
func (m *Multiplexer) MyPeerID() uuid.UUID {
	return m.transport.MyPeerID()
}

// RunService registers handler as the implementation of serviceID. It
// panics if serviceID is already registered - a programming error, not a
// runtime condition callers are expected to recover from.
func (m *Multiplexer) RunService(serviceID uint32, handler core.ServiceHandler) {
	m.registry.Register(serviceID, func(remotePeer uuid.UUID) *core.Endpoint {
		return core.NewEndpoint(m.ctx, m.transport, remotePeer, serviceID, handler, m.log)
	})
}

// Run starts the dispatcher's single receive loop. It must be called at
// most once; calling it twice panics.
func (m *Multiplexer) Run(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		panic(ErrAlreadyRunning)
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.ctx = runCtx
	m.cancel = cancel
	m.mu.Unlock()

	m.invoker.Spawn(func() { m.dispatch(runCtx) })
}

// Shutdown cancels the dispatcher and every endpoint it created, then
// waits for their goroutines to exit.
func (m *Multiplexer) Shutdown() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.invoker.Wait()

	m.mu.Lock()
	endpoints := make([]*core.Endpoint, 0, len(m.endpoints))
	for _, endpoint := range m.endpoints {
		endpoints = append(endpoints, endpoint)
	}
	m.mu.Unlock()
	for _, endpoint := range endpoints {
		endpoint.Close()
	}
}

func (m *Multiplexer) dispatch(ctx context.Context) {
	for {
		frame, err := m.transport.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.log.Warnf("peerrpc: transport recv: %v", err)
			select {
			case <-time.After(m.cfg.RecvRetryBackoff):
			case <-ctx.Done():
				return
			}
			continue
		}

		pkt, err := core.Decode(frame)
		if err != nil {
			m.log.Warnf("peerrpc: decode packet: %v", err)
			continue
		}

		info, err := core.ParseRPCPacketInfo(pkt)
		if err != nil {
			m.log.Warnf("peerrpc: parse packet: %v", err)
			continue
		}

		if info.IsRequest {
			m.routeRequest(pkt, info)
		} else {
			m.routeResponse(pkt, info)
		}
	}
}

func (m *Multiplexer) routeRequest(pkt core.Packet, info core.TaRpcPacketInfo) {
	factory, ok := m.registry.Lookup(info.ServiceID)
	if !ok {
		m.log.Warnf("%v: service %d", ErrUnknownService, info.ServiceID)
		return
	}

	key := core.SinkKey{Peer: info.FromPeer, ServiceID: info.ServiceID}

	m.mu.Lock()
	endpoint, exists := m.endpoints[key]
	if !exists {
		endpoint = factory(info.FromPeer)
		m.endpoints[key] = endpoint
	}
	m.mu.Unlock()

	endpoint.Enqueue(pkt)
}

func (m *Multiplexer) routeResponse(pkt core.Packet, info core.TaRpcPacketInfo) {
	key := core.SinkKey{Peer: info.FromPeer, ServiceID: info.ServiceID}
	sink, ok := m.router.Lookup(key)
	if !ok {
		m.log.Warnf("%v: peer=%s service=%d", ErrMissingResponseSink, info.FromPeer, info.ServiceID)
		return
	}
	sink.Push(pkt)
}

// DoClientRPCScoped runs one client conversation against serviceID on
// dstPeer. It registers a response sink for the duration of f, spawns the
// egress/ingress goroutines that bridge f's ClientChannel to the
// transport, and tears all three down - sink included - on every exit path
// before returning f's result.
func (m *Multiplexer) DoClientRPCScoped(ctx context.Context, serviceID uint32, dstPeer uuid.UUID, f ClientFunc) (any, error) {
	scopeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	key := core.SinkKey{Peer: dstPeer, ServiceID: serviceID}
	sink := core.NewPacketQueue(scopeCtx)
	m.router.Register(key, sink)
	defer m.router.Unregister(key, sink)

	ch := newClientChannel()
	scopeInvoker := core.NewInvoker()
	scopeInvoker.Spawn(func() { m.egress(scopeCtx, dstPeer, serviceID, ch) })
	scopeInvoker.Spawn(func() { m.ingress(scopeCtx, sink, ch) })
	defer func() {
		cancel()
		scopeInvoker.Wait()
	}()

	return f(scopeCtx, ch)
}

func (m *Multiplexer) egress(ctx context.Context, dstPeer uuid.UUID, serviceID uint32, ch *ClientChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-ch.outbound:
			pkt := core.NewTaRpcPacket(m.MyPeerID(), dstPeer, serviceID, true, payload)
			frame, err := core.Encode(pkt)
			if err != nil {
				m.log.Errorf("peerrpc: encoding request: %v", err)
				continue
			}
			if err := m.transport.Send(ctx, frame, dstPeer); err != nil {
				m.log.Warnf("peerrpc: sending request: %v", err)
			}
		}
	}
}

func (m *Multiplexer) ingress(ctx context.Context, sink *core.PacketQueue, ch *ClientChannel) {
	defer close(ch.inbound)
	for {
		pkt, ok := sink.Pop()
		if !ok {
			return
		}
		info, err := core.ParseRPCPacketInfo(pkt)
		if err != nil {
			m.log.Warnf("peerrpc: client ingress: %v", err)
			continue
		}
		select {
		case ch.inbound <- info.Payload:
		case <-ctx.Done():
			return
		}
	}
}

package peerrpc

import (
	"context"
	"io"
)

// ClientChannel is the bidirectional, in-process channel handed to a
// ClientFunc: Send ships one request payload to the remote service, Recv
// waits for the matching response payload. Both ends are opaque bytes -
// the caller's RPC layer owns serialization.
type ClientChannel struct {
	outbound chan []byte
	inbound  chan []byte
}

func newClientChannel() *ClientChannel {
	return &ClientChannel{
		outbound: make(chan []byte),
		inbound:  make(chan []byte),
	}
}

// Send hands payload to the scope's egress goroutine, blocking until it is
// accepted or ctx is done.
func (c *ClientChannel) Send(ctx context.Context, payload []byte) error {
	select {
	case c.outbound <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv blocks until a response payload arrives or ctx is done. It returns
// io.EOF once the scope's ingress goroutine has stopped delivering.
func (c *ClientChannel) Recv(ctx context.Context) ([]byte, error) {
	select {
	case payload, ok := <-c.inbound:
		if !ok {
			return nil, io.EOF
		}
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ClientFunc is user-supplied logic run once inside a client scope. It
// receives the scope's channel and a context bound to the scope's
// lifetime, and returns whatever result the conversation produces.
type ClientFunc func(ctx context.Context, ch *ClientChannel) (any, error)

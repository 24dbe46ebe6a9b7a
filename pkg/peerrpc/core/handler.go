package core

import "context"

// ServiceHandler answers one RPC request with one response. A handler never
// sees packet framing, peer identity or service ids - only the opaque
// request payload carried in a TaRpc body and the opaque payload to carry
// back.
type ServiceHandler interface {
	Handle(ctx context.Context, request []byte) ([]byte, error)
}

// ServiceHandlerFunc adapts a plain function to a ServiceHandler.
type ServiceHandlerFunc func(ctx context.Context, request []byte) ([]byte, error)

// Handle calls f.
func (f ServiceHandlerFunc) Handle(ctx context.Context, request []byte) ([]byte, error) {
	return f(ctx, request)
}

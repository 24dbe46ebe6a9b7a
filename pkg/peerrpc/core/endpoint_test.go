package core

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/jabolina/peerrpc/pkg/peerrpc/definition"
)

// fakeTransport is a minimal core.Transport double used only to observe
// what Endpoint sends back, without pulling in the memtransport package
// (which itself depends on core).
type fakeTransport struct {
	myID uuid.UUID
	sent chan []byte
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{myID: uuid.New(), sent: make(chan []byte, 8)}
}

func (f *fakeTransport) MyPeerID() uuid.UUID { return f.myID }

func (f *fakeTransport) Send(ctx context.Context, payload []byte, _ uuid.UUID) error {
	select {
	case f.sent <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeTransport) Recv(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type echoHandler struct{}

func (echoHandler) Handle(_ context.Context, request []byte) ([]byte, error) {
	out := append([]byte("echo:"), request...)
	return out, nil
}

func TestEndpointAnswersRequestsInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	transport := newFakeTransport()
	remote := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ep := NewEndpoint(ctx, transport, remote, 1, echoHandler{}, definition.NewDefaultLogger())
	defer ep.Close()

	ep.Enqueue(NewTaRpcPacket(remote, transport.MyPeerID(), 1, true, []byte("a")))
	ep.Enqueue(NewTaRpcPacket(remote, transport.MyPeerID(), 1, true, []byte("b")))

	for _, want := range []string{"echo:a", "echo:b"} {
		select {
		case frame := <-transport.sent:
			pkt, err := Decode(frame)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			info, err := ParseRPCPacketInfo(pkt)
			if err != nil {
				t.Fatalf("ParseRPCPacketInfo: %v", err)
			}
			if info.IsRequest {
				t.Fatal("expected a response packet, got a request")
			}
			if string(info.Payload) != want {
				t.Fatalf("want payload %q, got %q", want, info.Payload)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for endpoint response")
		}
	}
}

func TestEndpointDropsNonRequestPackets(t *testing.T) {
	defer goleak.VerifyNone(t)

	transport := newFakeTransport()
	remote := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ep := NewEndpoint(ctx, transport, remote, 1, echoHandler{}, definition.NewDefaultLogger())
	defer ep.Close()

	ep.Enqueue(NewTaRpcPacket(remote, transport.MyPeerID(), 1, false, []byte("not a request")))

	select {
	case frame := <-transport.sent:
		t.Fatalf("expected no response to be sent, got %q", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

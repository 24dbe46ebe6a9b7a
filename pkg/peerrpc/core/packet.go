package core

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// packetFormatVersion identifies the on-wire layout below. Bumping it is a
// breaking change for every peer in the network, so this core commits to a
// single version and never negotiates.
const packetFormatVersion byte = 1

// bodyKind tags which control variant a packet carries. TaRpc is the only
// variant this module interprets. bodyKindOther stands in for the rest of
// the control plane this envelope is shared with elsewhere in the system -
// this core can decode it off the wire but has nothing to do with it.
type bodyKind byte

const (
	bodyKindOther bodyKind = 0
	bodyKindTaRpc bodyKind = 1
)

var (
	// ErrMalformedPacket is returned when a frame is truncated or carries an
	// unrecognized format version.
	ErrMalformedPacket = errors.New("peerrpc: malformed packet")

	// ErrInvalidPacket is returned by ParseRPCPacketInfo when a decoded
	// packet's body is not the TaRpc variant the dispatcher knows how to
	// route.
	ErrInvalidPacket = errors.New("peerrpc: packet body is not a TaRpc packet")
)

// TaRpcBody is the RPC carrier variant of a Packet's body. ServiceID and
// IsRequest let the dispatcher route without touching Payload; Payload
// itself is opaque, already-serialized bytes produced by the caller's RPC
// layer.
type TaRpcBody struct {
	ServiceID uint32
	IsRequest bool
	Payload   []byte
}

// Packet is the immutable on-wire envelope. Once constructed it is never
// mutated; a response is always a freshly built Packet, never the request
// packet turned around in place.
type Packet struct {
	FromPeer uuid.UUID
	ToPeer   uuid.UUID

	kind  bodyKind
	taRpc TaRpcBody
	other []byte
}

// NewTaRpcPacket builds a Packet carrying an RPC request or response.
func NewTaRpcPacket(from, to uuid.UUID, serviceID uint32, isRequest bool, payload []byte) Packet {
	return Packet{
		FromPeer: from,
		ToPeer:   to,
		kind:     bodyKindTaRpc,
		taRpc: TaRpcBody{
			ServiceID: serviceID,
			IsRequest: isRequest,
			Payload:   payload,
		},
	}
}

// Encode serializes a Packet to its on-wire form: a version byte, the two
// 16-byte peer UUIDs, a one-byte body-kind tag, and then the body fields.
// For the TaRpc kind that is a 4-byte service id, a 1-byte request flag, a
// 4-byte little-endian payload length and the payload bytes.
func Encode(p Packet) ([]byte, error) {
	buf := make([]byte, 0, 1+16+16+1+9+len(p.taRpc.Payload)+len(p.other))
	buf = append(buf, packetFormatVersion)
	buf = append(buf, p.FromPeer[:]...)
	buf = append(buf, p.ToPeer[:]...)
	buf = append(buf, byte(p.kind))

	switch p.kind {
	case bodyKindTaRpc:
		var serviceID [4]byte
		binary.LittleEndian.PutUint32(serviceID[:], p.taRpc.ServiceID)
		buf = append(buf, serviceID[:]...)

		if p.taRpc.IsRequest {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}

		var payloadLen [4]byte
		binary.LittleEndian.PutUint32(payloadLen[:], uint32(len(p.taRpc.Payload)))
		buf = append(buf, payloadLen[:]...)
		buf = append(buf, p.taRpc.Payload...)
	default:
		var rawLen [4]byte
		binary.LittleEndian.PutUint32(rawLen[:], uint32(len(p.other)))
		buf = append(buf, rawLen[:]...)
		buf = append(buf, p.other...)
	}

	return buf, nil
}

// Decode parses a frame produced by Encode. It fails with ErrMalformedPacket
// on truncation or an unrecognized format version. A packet whose body kind
// is not TaRpc decodes successfully but carries no interpretable fields;
// ParseRPCPacketInfo is what rejects it.
func Decode(frame []byte) (Packet, error) {
	const minHeaderLen = 1 + 16 + 16 + 1 + 4
	if len(frame) < minHeaderLen {
		return Packet{}, fmt.Errorf("%w: frame too short (%d bytes)", ErrMalformedPacket, len(frame))
	}

	off := 0
	version := frame[off]
	off++
	if version != packetFormatVersion {
		return Packet{}, fmt.Errorf("%w: unsupported format version %d", ErrMalformedPacket, version)
	}

	var p Packet
	copy(p.FromPeer[:], frame[off:off+16])
	off += 16
	copy(p.ToPeer[:], frame[off:off+16])
	off += 16

	p.kind = bodyKind(frame[off])
	off++

	switch p.kind {
	case bodyKindTaRpc:
		if len(frame)-off < 9 {
			return Packet{}, fmt.Errorf("%w: truncated TaRpc header", ErrMalformedPacket)
		}
		p.taRpc.ServiceID = binary.LittleEndian.Uint32(frame[off : off+4])
		off += 4
		p.taRpc.IsRequest = frame[off] != 0
		off++
		payloadLen := binary.LittleEndian.Uint32(frame[off : off+4])
		off += 4
		if uint32(len(frame)-off) < payloadLen {
			return Packet{}, fmt.Errorf("%w: payload truncated", ErrMalformedPacket)
		}
		p.taRpc.Payload = append([]byte(nil), frame[off:off+int(payloadLen)]...)
	default:
		if len(frame)-off < 4 {
			return Packet{}, fmt.Errorf("%w: truncated body", ErrMalformedPacket)
		}
		rawLen := binary.LittleEndian.Uint32(frame[off : off+4])
		off += 4
		if uint32(len(frame)-off) < rawLen {
			return Packet{}, fmt.Errorf("%w: body truncated", ErrMalformedPacket)
		}
		p.other = append([]byte(nil), frame[off:off+int(rawLen)]...)
	}

	return p, nil
}

// TaRpcPacketInfo is the flattened view of a Packet's TaRpc body the
// dispatcher routes on.
type TaRpcPacketInfo struct {
	FromPeer  uuid.UUID
	ToPeer    uuid.UUID
	ServiceID uint32
	IsRequest bool
	Payload   []byte
}

// ParseRPCPacketInfo extracts routing information from a decoded packet. It
// fails with ErrInvalidPacket if the packet does not carry a TaRpc body -
// the only variant this core understands.
func ParseRPCPacketInfo(p Packet) (TaRpcPacketInfo, error) {
	if p.kind != bodyKindTaRpc {
		return TaRpcPacketInfo{}, ErrInvalidPacket
	}
	return TaRpcPacketInfo{
		FromPeer:  p.FromPeer,
		ToPeer:    p.ToPeer,
		ServiceID: p.taRpc.ServiceID,
		IsRequest: p.taRpc.IsRequest,
		Payload:   p.taRpc.Payload,
	}, nil
}

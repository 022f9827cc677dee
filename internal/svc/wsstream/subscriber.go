// If you are AI: This file implements the WebSocket subscriber that reads
// from a sink and writes one binary message per frame.

package wsstream

import (
	"context"

	"github.com/sgasse/infercam/internal/core/bus"
	mjpegproto "github.com/sgasse/infercam/internal/core/protocol/mjpeg"
)

// binaryMessage is the websocket binary frame opcode.
const binaryMessage = 2

// WebSocketConn defines the interface for WebSocket operations.
// This allows for easier testing and abstraction.
type WebSocketConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Subscriber drains a sink into a WebSocket connection.
// Sink items carry multipart framing; it is stripped so clients receive
// plain JPEG payloads.
type Subscriber struct {
	conn WebSocketConn
	sink *bus.Sink
}

// NewSubscriber creates a WebSocket subscriber.
func NewSubscriber(conn WebSocketConn, sink *bus.Sink) *Subscriber {
	return &Subscriber{conn: conn, sink: sink}
}

// Stream forwards frames until the context is cancelled, the sink is torn
// down, or a write fails.
func (s *Subscriber) Stream(ctx context.Context) error {
	for {
		part, ok := s.sink.Recv(ctx)
		if !ok {
			return ctx.Err()
		}
		payload, ok := mjpegproto.UnwrapPart(part)
		if !ok {
			// Not a wrapped part; forward verbatim.
			payload = part
		}
		if err := s.conn.WriteMessage(binaryMessage, payload); err != nil {
			return err
		}
	}
}

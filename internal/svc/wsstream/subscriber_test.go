// If you are AI: This file contains tests for the WebSocket subscriber
// using a fake connection.

package wsstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgasse/infercam/internal/core/bus"
)

// fakeConn records written messages and can fail on demand.
type fakeConn struct {
	messages [][]byte
	types    []int
	failAt   int // fail on the n-th write (1-based), 0 disables
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	if f.failAt > 0 && len(f.messages)+1 >= f.failAt {
		return errors.New("connection reset")
	}
	buf := append([]byte(nil), data...)
	f.messages = append(f.messages, buf)
	f.types = append(f.types, messageType)
	return nil
}

func (f *fakeConn) Close() error { return nil }

func TestSubscriberWritesUnwrappedBinaryFrames(t *testing.T) {
	router := bus.NewRouter(bus.Options{}, nil)
	sink := router.SubscribeRaw("cam")

	router.Publish("cam", []byte{0x01})
	router.Publish("cam", []byte{0x02})
	sink.Close()

	conn := &fakeConn{}
	sub := NewSubscriber(conn, sink)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sub.Stream(ctx)

	require.Len(t, conn.messages, 2)
	assert.Equal(t, []byte{0x01}, conn.messages[0])
	assert.Equal(t, []byte{0x02}, conn.messages[1])
	assert.Equal(t, []int{binaryMessage, binaryMessage}, conn.types)
}

func TestSubscriberStopsOnWriteError(t *testing.T) {
	router := bus.NewRouter(bus.Options{}, nil)
	sink := router.SubscribeRaw("cam")
	defer sink.Close()

	router.Publish("cam", []byte{0x01})

	conn := &fakeConn{failAt: 1}
	sub := NewSubscriber(conn, sink)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := sub.Stream(ctx)
	assert.Error(t, err)
	assert.Empty(t, conn.messages)
}

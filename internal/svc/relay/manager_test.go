// If you are AI: This file contains tests for the pull relay and its manager.

package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgasse/infercam/internal/config"
	"github.com/sgasse/infercam/internal/core/bus"
	mjpegproto "github.com/sgasse/infercam/internal/core/protocol/mjpeg"
)

// mjpegSource serves a fixed number of wrapped frames and closes.
func mjpegSource(t *testing.T, frames [][]byte) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", mjpegproto.ContentType)
		for _, frame := range frames {
			w.Write(mjpegproto.WrapPart(frame))
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestPullTaskRepublishesRemoteFrames(t *testing.T) {
	source := mjpegSource(t, [][]byte{{0x01}, {0x02}})

	router := bus.NewRouter(bus.Options{}, nil)
	sink := router.SubscribeRaw("relayed")
	defer sink.Close()

	task := NewPullTask(router, "relayed", source.URL, false)
	require.NoError(t, task.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, want := range []byte{0x01, 0x02} {
		part, ok := sink.Recv(ctx)
		require.True(t, ok)
		payload, ok := mjpegproto.UnwrapPart(part)
		require.True(t, ok)
		assert.Equal(t, []byte{want}, payload)
	}
}

func TestPullTaskReleasesPublisherSlot(t *testing.T) {
	source := mjpegSource(t, [][]byte{{0x01}})

	router := bus.NewRouter(bus.Options{}, nil)
	sink := router.SubscribeRaw("relayed")
	defer sink.Close()

	task := NewPullTask(router, "relayed", source.URL, false)
	require.NoError(t, task.Start(context.Background()))

	guard, err := router.RegisterPublisher("relayed")
	require.NoError(t, err, "slot must be free after the relay ended")
	guard.Release()
}

func TestPullTaskRejectsNonMultipartSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("nope"))
	}))
	t.Cleanup(ts.Close)

	router := bus.NewRouter(bus.Options{}, nil)
	task := NewPullTask(router, "relayed", ts.URL, false)
	assert.Error(t, task.Start(context.Background()))
}

func TestManagerStartsAndStopsTasks(t *testing.T) {
	source := mjpegSource(t, nil)

	router := bus.NewRouter(bus.Options{}, nil)
	manager := NewManager(router)

	cfg := config.Default()
	cfg.Relays = []config.RelayConfig{
		{Name: "a", RemoteURL: source.URL, Reconnect: true},
		{Name: "b", RemoteURL: source.URL, Reconnect: true},
	}

	require.NoError(t, manager.StartTasks(cfg))
	assert.Equal(t, 2, manager.TaskCount())
	require.NoError(t, manager.Stop())
}

func TestManagerRejectsInvalidConfig(t *testing.T) {
	router := bus.NewRouter(bus.Options{}, nil)
	manager := NewManager(router)

	cfg := config.Default()
	cfg.Relays = []config.RelayConfig{{Name: "", RemoteURL: "http://x"}}
	assert.Error(t, manager.StartTasks(cfg))
	manager.Stop()
}

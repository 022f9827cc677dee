// If you are AI: This file contains tests for the JSON stats API.

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgasse/infercam/internal/core/bus"
	"github.com/sgasse/infercam/internal/core/meter"
)

func startAPI(t *testing.T) (*bus.Router, *meter.Meter, *httptest.Server) {
	t.Helper()

	m := meter.New(nil)
	router := bus.NewRouter(bus.Options{}, m)
	mux := httprouter.New()
	NewService(router, m).RegisterRoutes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return router, m, ts
}

func TestChannelsEndpoint(t *testing.T) {
	router, _, ts := startAPI(t)

	sink := router.SubscribeRaw("cam")
	defer sink.Close()
	guard, err := router.RegisterPublisher("cam")
	require.NoError(t, err)
	defer guard.Release()

	resp, err := http.Get(ts.URL + "/api/channels")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body ChannelsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Channels, 1)
	assert.Equal(t, uint64(bus.HashName("cam")), body.Channels[0].ID)
	assert.Equal(t, 1, body.Channels[0].RawSubs)
	assert.True(t, body.Channels[0].PublisherAlive)
}

func TestStatsEndpoint(t *testing.T) {
	router, m, ts := startAPI(t)

	sink := router.SubscribeRaw("cam")
	defer sink.Close()
	router.Publish("cam", []byte{1})
	m.TickProtocolError()

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body StatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint64(1), body.Counters.RawFrames)
	assert.Equal(t, uint64(1), body.Counters.ProtocolErrors)
	assert.NotEmpty(t, body.GoVersion)
}

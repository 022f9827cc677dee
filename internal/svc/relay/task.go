// If you are AI: This file defines the relay task interface and base implementation.
// Tasks manage the lifecycle of pull relays.

package relay

import (
	"context"
	"sync/atomic"

	"github.com/sgasse/infercam/internal/core/bus"
)

// Task represents a relay task.
// Tasks run in their own goroutines and manage connection lifecycle.
type Task interface {
	// Start starts the relay task.
	// Should run until context is cancelled or error occurs.
	Start(ctx context.Context) error

	// Stop stops the relay task cleanly.
	Stop() error

	// IsRunning returns true if the task is currently running.
	IsRunning() bool
}

// BaseTask provides common functionality for relay tasks.
type BaseTask struct {
	router    *bus.Router
	name      string
	remoteURL string
	reconnect bool
	running   atomic.Bool
	stopChan  chan struct{}
}

// NewBaseTask creates a new base task with common configuration.
func NewBaseTask(router *bus.Router, name, remoteURL string, reconnect bool) *BaseTask {
	return &BaseTask{
		router:    router,
		name:      name,
		remoteURL: remoteURL,
		reconnect: reconnect,
		stopChan:  make(chan struct{}),
	}
}

// Name returns the local channel name.
func (t *BaseTask) Name() string {
	return t.name
}

// RemoteURL returns the remote stream URL.
func (t *BaseTask) RemoteURL() string {
	return t.remoteURL
}

// Router returns the frame router.
func (t *BaseTask) Router() *bus.Router {
	return t.router
}

// IsRunning returns true if the task is running.
func (t *BaseTask) IsRunning() bool {
	return t.running.Load()
}

// SetRunning sets the running state.
func (t *BaseTask) SetRunning(running bool) {
	t.running.Store(running)
}

// StopChan returns the stop channel.
func (t *BaseTask) StopChan() <-chan struct{} {
	return t.stopChan
}

// SignalStop closes the stop channel once.
func (t *BaseTask) SignalStop() {
	select {
	case <-t.stopChan:
	default:
		close(t.stopChan)
	}
}

// If you are AI: This file implements the relay manager.
// Manages lifecycle of all relay tasks (start, stop).

package relay

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/sgasse/infercam/internal/config"
	"github.com/sgasse/infercam/internal/core/bus"
)

// Manager manages relay task lifecycle.
type Manager struct {
	router *bus.Router
	tasks  []Task
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewManager creates a new relay manager.
func NewManager(router *bus.Router) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		router: router,
		ctx:    ctx,
		cancel: cancel,
	}
}

// StartTasks starts all relay tasks from configuration.
func (m *Manager) StartTasks(cfg *config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, relayCfg := range cfg.Relays {
		if err := relayCfg.Validate(); err != nil {
			return fmt.Errorf("relay task: %w", err)
		}

		task := NewPullTask(m.router, relayCfg.Name, relayCfg.RemoteURL, relayCfg.Reconnect)
		m.tasks = append(m.tasks, task)

		m.wg.Add(1)
		go func(t Task, name string) {
			defer m.wg.Done()
			if err := t.Start(m.ctx); err != nil {
				log.Warnf("Relay task %q ended: %v", name, err)
			}
		}(task, relayCfg.Name)
	}

	return nil
}

// Stop stops all relay tasks and waits for them to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancel()
	for _, task := range m.tasks {
		task.Stop()
	}

	m.wg.Wait()
	return nil
}

// TaskCount returns the number of managed relay tasks.
func (m *Manager) TaskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// If you are AI: This file implements the pull relay task.
// Fetches a remote MJPEG stream and republishes it into a local channel.

package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sgasse/infercam/internal/core/bus"
	mjpegproto "github.com/sgasse/infercam/internal/core/protocol/mjpeg"
)

// reconnectDelay is the pause between connection attempts.
const reconnectDelay = 2 * time.Second

// PullTask pulls a remote multipart/x-mixed-replace stream and publishes
// each JPEG part to the local channel, holding the channel's publisher slot
// while connected.
type PullTask struct {
	*BaseTask
	client *http.Client
}

// NewPullTask creates a pull relay task.
func NewPullTask(router *bus.Router, name, remoteURL string, reconnect bool) *PullTask {
	return &PullTask{
		BaseTask: NewBaseTask(router, name, remoteURL, reconnect),
		client:   &http.Client{},
	}
}

// Start runs the pull loop until the context is cancelled or, without
// reconnect, until the first connection ends.
func (t *PullTask) Start(ctx context.Context) error {
	t.SetRunning(true)
	defer t.SetRunning(false)

	for {
		err := t.pullOnce(ctx)
		if ctx.Err() != nil || t.stopped() {
			return nil
		}
		if err != nil {
			log.Warnf("Relay %q: %v", t.Name(), err)
		}
		if !t.reconnect {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-t.StopChan():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

// pullOnce runs one connection: fetch, claim the publisher slot, relay parts.
func (t *PullTask) pullOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.RemoteURL(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch remote stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote stream returned %s", resp.Status)
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return fmt.Errorf("remote stream content type %q is not multipart", resp.Header.Get("Content-Type"))
	}

	guard, err := t.Router().RegisterPublisher(t.Name())
	if err != nil {
		if errors.Is(err, bus.ErrPublisherConflict) {
			return fmt.Errorf("channel %q already has a publisher", t.Name())
		}
		return err
	}
	defer guard.Release()

	log.Infof("Relay %q connected to %s", t.Name(), t.RemoteURL())

	parts := mjpegproto.NewStreamReader(resp.Body)
	for {
		frame, err := parts.ReadPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read part: %w", err)
		}
		t.Router().Publish(t.Name(), frame)
	}
}

// Stop stops the pull task cleanly.
func (t *PullTask) Stop() error {
	t.SignalStop()
	return nil
}

func (t *PullTask) stopped() bool {
	select {
	case <-t.StopChan():
		return true
	default:
		return false
	}
}

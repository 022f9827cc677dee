// If you are AI: This file implements the frame router, the single point
// through which incoming frames reach raw subscribers and the inference queue.

package bus

import (
	"sync"
	"time"

	"github.com/sgasse/infercam/internal/core/meter"
	"github.com/sgasse/infercam/internal/core/protocol/mjpeg"
)

// Options tune router behavior. Zero values select the defaults.
type Options struct {
	SinkCapacity  int           // per-subscriber queue depth (default 20)
	MaxStrikes    int           // consecutive failed sends before eviction (default 5)
	QueueCapacity int           // inference queue depth (default 10)
	IdleGrace     time.Duration // minimum idle time before inline GC removes an empty channel (default 500ms)
	IdleTimeout   time.Duration // idle time after which the sweep removes an empty channel (default 5s)
	FrameWidth    int           // expected publisher frame width, forwarded on jobs (default 1280)
	FrameHeight   int           // expected publisher frame height, forwarded on jobs (default 720)
}

func (o *Options) applyDefaults() {
	if o.SinkCapacity == 0 {
		o.SinkCapacity = 20
	}
	if o.MaxStrikes == 0 {
		o.MaxStrikes = 5
	}
	if o.QueueCapacity == 0 {
		o.QueueCapacity = 10
	}
	if o.IdleGrace == 0 {
		o.IdleGrace = 500 * time.Millisecond
	}
	if o.IdleTimeout == 0 {
		o.IdleTimeout = 5 * time.Second
	}
	if o.FrameWidth == 0 {
		o.FrameWidth = 1280
	}
	if o.FrameHeight == 0 {
		o.FrameHeight = 720
	}
}

// Router maps channel names to subscriber sets and dispatches frames.
//
// Lock expectations: mu guards only the channel map and is never held across
// a send or any I/O. Per-channel membership uses the channel's own mutex.
type Router struct {
	opts  Options
	meter *meter.Meter
	queue *InferQueue

	mu       sync.Mutex
	channels map[ChannelID]*channelState
}

// NewRouter creates a router. The meter may be nil (tests).
func NewRouter(opts Options, m *meter.Meter) *Router {
	opts.applyDefaults()
	return &Router{
		opts:     opts,
		meter:    m,
		queue:    NewInferQueue(opts.QueueCapacity),
		channels: make(map[ChannelID]*channelState),
	}
}

// InferQueue returns the queue the inference worker consumes.
func (r *Router) InferQueue() *InferQueue {
	return r.queue
}

// getOrCreateLocked returns the channel state for id, creating it if
// missing. Caller holds mu.
func (r *Router) getOrCreateLocked(id ChannelID) *channelState {
	ch, ok := r.channels[id]
	if !ok {
		ch = newChannelState(id)
		r.channels[id] = ch
	}
	return ch
}

// SubscribeRaw registers a new raw subscriber on the named channel.
// The channel state is created if missing. The caller must Close the sink
// when its session ends.
func (r *Router) SubscribeRaw(name string) *Sink {
	return r.subscribe(HashName(name), false)
}

// SubscribeAnnotated registers a new annotated subscriber on the named channel.
func (r *Router) SubscribeAnnotated(name string) *Sink {
	return r.subscribe(HashName(name), true)
}

func (r *Router) subscribe(id ChannelID, annotated bool) *Sink {
	sink := newSink(r.opts.SinkCapacity, r.opts.MaxStrikes)

	// Membership changes are rare compared to frame arrivals; holding the
	// map lock here closes the race against the sweep deleting the entry
	// between lookup and attach.
	r.mu.Lock()
	ch := r.getOrCreateLocked(id)
	ch.mu.Lock()
	if annotated {
		ch.annotSubs = append(ch.annotSubs, sink)
	} else {
		ch.rawSubs = append(ch.rawSubs, sink)
	}
	ch.touchLocked()
	ch.mu.Unlock()
	r.mu.Unlock()

	return sink
}

// PublisherGuard holds the publisher slot of a channel.
// Releasing it frees the slot and makes the channel eligible for GC.
type PublisherGuard struct {
	router *Router
	ch     *channelState
}

// Release frees the publisher slot. Safe to call once per guard.
func (g *PublisherGuard) Release() {
	if g.ch == nil {
		return
	}
	g.ch.mu.Lock()
	g.ch.publisher = false
	g.ch.touchLocked()
	g.ch.mu.Unlock()
	g.ch = nil
}

// RegisterPublisher claims the publisher slot of the named channel.
// Returns ErrPublisherConflict if a live publisher already holds it.
func (r *Router) RegisterPublisher(name string) (*PublisherGuard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := r.getOrCreateLocked(HashName(name))
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.publisher {
		return nil, ErrPublisherConflict
	}
	ch.publisher = true
	ch.touchLocked()
	return &PublisherGuard{router: r, ch: ch}, nil
}

// PublishOutcome reports what happened to one published frame.
type PublishOutcome struct {
	RawDelivered  int  // raw sinks the frame was queued on
	RawDropped    int  // raw sinks that dropped the frame (full or evicted)
	InferOffered  bool // the channel had annotated subscribers
	InferEnqueued bool // the job made it into the inference queue
}

// Publish dispatches one frame to the named channel.
//
// The fast path holds no lock across sends: handles are cloned under the
// channel lock, sends are non-blocking, failures are collected into a small
// stack-local buffer and the failed sinks are removed under the lock
// afterwards. If the channel has annotated subscribers, the frame is offered
// to the inference queue without blocking; a full queue drops it.
func (r *Router) Publish(name string, jpeg []byte) PublishOutcome {
	var outcome PublishOutcome
	if r.meter != nil {
		// The meter observes publisher rate even when there is no work to do.
		r.meter.TickRaw()
	}

	id := HashName(name)
	r.mu.Lock()
	ch := r.channels[id]
	r.mu.Unlock()
	if ch == nil {
		// No subscribers and no registered publisher: nothing to do.
		return outcome
	}

	ch.mu.Lock()
	ch.pruneLocked()
	raw := append([]*Sink(nil), ch.rawSubs...)
	annotCount := len(ch.annotSubs)
	ch.touchLocked()
	ch.mu.Unlock()

	if len(raw) > 0 {
		// Wrap once; every subscriber writes this buffer verbatim.
		wrapped := mjpeg.WrapPart(jpeg)
		var failed []*Sink
		for _, sink := range raw {
			switch sink.trySend(wrapped) {
			case sendOK:
				outcome.RawDelivered++
			case sendDropped:
				outcome.RawDropped++
				if r.meter != nil {
					r.meter.TickSinkDropped()
				}
			case sendClosed:
				outcome.RawDropped++
				if r.meter != nil {
					r.meter.TickSinkDropped()
				}
				failed = append(failed, sink)
			}
		}
		if len(failed) > 0 {
			ch.mu.Lock()
			ch.rawSubs = removeSinks(ch.rawSubs, failed)
			ch.mu.Unlock()
		}
	}

	if annotCount > 0 {
		outcome.InferOffered = true
		job := InferJob{
			Width:  r.opts.FrameWidth,
			Height: r.opts.FrameHeight,
			JPEG:   jpeg,
			Reply:  &Broadcast{router: r, ch: ch},
		}
		outcome.InferEnqueued = r.queue.TryEnqueue(job)
		if !outcome.InferEnqueued && r.meter != nil {
			r.meter.TickInferDropped()
		}
	}

	r.collectIfIdle(ch, r.opts.IdleGrace)
	return outcome
}

// collectIfIdle removes the channel entry if nothing references it and it
// has been idle for at least the given grace period.
func (r *Router) collectIfIdle(ch *channelState, grace time.Duration) {
	ch.mu.Lock()
	ch.pruneLocked()
	remove := ch.emptyLocked() && time.Since(ch.lastTouch) >= grace
	ch.mu.Unlock()

	if remove {
		r.mu.Lock()
		// Re-check under the map lock; a subscriber may have attached to
		// this very state in the meantime.
		ch.mu.Lock()
		if ch.emptyLocked() && r.channels[ch.id] == ch {
			delete(r.channels, ch.id)
		}
		ch.mu.Unlock()
		r.mu.Unlock()
	}
}

// Sweep removes channels with no publisher and no subscribers that have been
// idle for at least the idle timeout. Closed sinks are pruned on the way.
func (r *Router) Sweep() {
	r.mu.Lock()
	states := make([]*channelState, 0, len(r.channels))
	for _, ch := range r.channels {
		states = append(states, ch)
	}
	r.mu.Unlock()

	for _, ch := range states {
		r.collectIfIdle(ch, r.opts.IdleTimeout)
	}
}

// Contains reports whether the named channel currently has an entry.
func (r *Router) Contains(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.channels[HashName(name)]
	return ok
}

// ChannelCount returns the number of live channel entries.
func (r *Router) ChannelCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}

// ChannelStats is a point-in-time view of one channel for the stats API.
// Names are not recoverable from interned ids.
type ChannelStats struct {
	ID             uint64 `json:"id"`
	RawSubs        int    `json:"raw_subscribers"`
	AnnotatedSubs  int    `json:"annotated_subscribers"`
	PublisherAlive bool   `json:"publisher"`
	IdleMs         int64  `json:"idle_ms"`
}

// Stats snapshots all channels.
func (r *Router) Stats() []ChannelStats {
	r.mu.Lock()
	states := make([]*channelState, 0, len(r.channels))
	for _, ch := range r.channels {
		states = append(states, ch)
	}
	r.mu.Unlock()

	stats := make([]ChannelStats, 0, len(states))
	for _, ch := range states {
		ch.mu.Lock()
		stats = append(stats, ChannelStats{
			ID:             uint64(ch.id),
			RawSubs:        len(ch.rawSubs),
			AnnotatedSubs:  len(ch.annotSubs),
			PublisherAlive: ch.publisher,
			IdleMs:         time.Since(ch.lastTouch).Milliseconds(),
		})
		ch.mu.Unlock()
	}
	return stats
}

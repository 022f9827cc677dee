// If you are AI: This file implements the annotated broadcast handle.
// The inference worker delivers completed frames through it; subscriber
// lifecycle stays with the router.

package bus

// Broadcast is a shared handle to one channel's annotated subscriber set,
// captured at the moment an inference job is enqueued. Publishing through it
// uses the same try-send and eviction discipline as the raw fanout.
type Broadcast struct {
	router *Router
	ch     *channelState
}

// Publish fans a wrapped annotated frame out to the channel's annotated
// subscribers. Returns the number of sinks delivered to and dropped on.
func (b *Broadcast) Publish(wrapped []byte) (delivered, dropped int) {
	b.ch.mu.Lock()
	b.ch.annotSubs = pruneClosed(b.ch.annotSubs)
	subs := append([]*Sink(nil), b.ch.annotSubs...)
	b.ch.mu.Unlock()

	var failed []*Sink
	for _, sink := range subs {
		switch sink.trySend(wrapped) {
		case sendOK:
			delivered++
		case sendDropped:
			dropped++
			if b.router.meter != nil {
				b.router.meter.TickSinkDropped()
			}
		case sendClosed:
			dropped++
			if b.router.meter != nil {
				b.router.meter.TickSinkDropped()
			}
			failed = append(failed, sink)
		}
	}
	if len(failed) > 0 {
		b.ch.mu.Lock()
		b.ch.annotSubs = removeSinks(b.ch.annotSubs, failed)
		b.ch.mu.Unlock()
	}
	return delivered, dropped
}

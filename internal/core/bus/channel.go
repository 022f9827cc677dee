// If you are AI: This file implements per-channel state: subscriber sets,
// publisher slot and idle tracking. The router owns the map of channels.

package bus

import (
	"sync"
	"time"
)

// channelState holds everything the router tracks for one ChannelID.
//
// Lock expectations: mu guards the subscriber slices, the publisher flag and
// the idle timestamp. It is held only for membership changes and handle
// cloning, never across a send.
type channelState struct {
	id ChannelID

	mu        sync.Mutex
	rawSubs   []*Sink // insertion order
	annotSubs []*Sink // insertion order
	publisher bool
	lastTouch time.Time
}

func newChannelState(id ChannelID) *channelState {
	return &channelState{
		id:        id,
		lastTouch: time.Now(),
	}
}

// touchLocked refreshes the idle timestamp. Caller holds mu.
func (c *channelState) touchLocked() {
	c.lastTouch = time.Now()
}

// pruneLocked drops closed sinks from both subscriber sets. Caller holds mu.
func (c *channelState) pruneLocked() {
	c.rawSubs = pruneClosed(c.rawSubs)
	c.annotSubs = pruneClosed(c.annotSubs)
}

// emptyLocked reports whether nothing references the channel. Caller holds mu.
func (c *channelState) emptyLocked() bool {
	return !c.publisher && len(c.rawSubs) == 0 && len(c.annotSubs) == 0
}

// removeSinks removes the given sinks from a set by identity, preserving the
// order of survivors. Membership may have changed since the failures were
// collected, so indices cannot be used.
func removeSinks(set []*Sink, dead []*Sink) []*Sink {
	if len(dead) == 0 {
		return set
	}
	kept := set[:0]
	for _, s := range set {
		if !containsSink(dead, s) {
			kept = append(kept, s)
		}
	}
	// Clear the tail so dropped sinks are collectable.
	for i := len(kept); i < len(set); i++ {
		set[i] = nil
	}
	return kept
}

func containsSink(set []*Sink, s *Sink) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

func pruneClosed(set []*Sink) []*Sink {
	kept := set[:0]
	for _, s := range set {
		if !s.Closed() {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(set); i++ {
		set[i] = nil
	}
	return kept
}

// If you are AI: This file defines ChannelID, the interned form of a channel name.

package bus

import "hash/fnv"

// ChannelID is a stable 64-bit hash of a channel name.
// It keys the channel map so the hot path compares integers, not strings.
// Colliding names are treated as the same channel.
type ChannelID uint64

// HashName interns a channel name with FNV-1a.
func HashName(name string) ChannelID {
	h := fnv.New64a()
	h.Write([]byte(name))
	return ChannelID(h.Sum64())
}

// If you are AI: This file contains property-based tests for router
// lifecycle invariants under arbitrary attach/detach/publish interleavings.

package bus

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// op is one step of a generated interleaving.
type op struct {
	kind    int // 0 subscribe raw, 1 subscribe annotated, 2 publish, 3 register+release publisher
	channel int
}

func genOps() gopter.Gen {
	genOp := gopter.CombineGens(
		gen.IntRange(0, 3),
		gen.IntRange(0, 3),
	).Map(func(values []interface{}) op {
		return op{kind: values[0].(int), channel: values[1].(int)}
	})
	return gen.SliceOf(genOp)
}

// TestRouterQuiescenceProperty: after any interleaving of subscriber
// attach/detach, publisher register/release and publish events, once all
// handles are dropped and the idle timeout has passed, the channel map is
// empty.
func TestRouterQuiescenceProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("channel map drains at quiescence", prop.ForAll(
		func(ops []op) bool {
			router := NewRouter(Options{
				IdleGrace:   time.Millisecond,
				IdleTimeout: time.Millisecond,
			}, nil)

			var sinks []*Sink
			var guards []*PublisherGuard
			for _, o := range ops {
				name := fmt.Sprintf("ch-%d", o.channel)
				switch o.kind {
				case 0:
					sinks = append(sinks, router.SubscribeRaw(name))
				case 1:
					sinks = append(sinks, router.SubscribeAnnotated(name))
				case 2:
					router.Publish(name, []byte{0xff})
				case 3:
					if guard, err := router.RegisterPublisher(name); err == nil {
						guards = append(guards, guard)
					}
				}
			}

			for _, sink := range sinks {
				sink.Close()
			}
			for _, guard := range guards {
				guard.Release()
			}

			time.Sleep(5 * time.Millisecond)
			router.Sweep()
			return router.ChannelCount() == 0
		},
		genOps(),
	))

	properties.TestingRun(t)
}

// TestEvictionBeforeNextPublishProperty: a sink whose receiver dropped is
// absent from the subscriber set before the publish after its eviction
// completes.
func TestEvictionBeforeNextPublishProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("closed sinks leave the set within one publish", prop.ForAll(
		func(subscribers int, closeIdx int) bool {
			router := NewRouter(Options{}, nil)

			sinks := make([]*Sink, subscribers)
			for i := range sinks {
				sinks[i] = router.SubscribeRaw("prop")
			}
			defer func() {
				for _, s := range sinks {
					s.Close()
				}
			}()

			closeIdx %= subscribers
			sinks[closeIdx].Close()

			// The publish after the close observes the failure and evicts.
			router.Publish("prop", []byte{1})
			outcome := router.Publish("prop", []byte{2})
			return outcome.RawDelivered == subscribers-1 && outcome.RawDropped == 0
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 7),
	))

	properties.TestingRun(t)
}

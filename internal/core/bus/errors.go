// If you are AI: This file defines the error taxonomy of the frame router.

package bus

import "errors"

// ErrPublisherConflict is returned when a publisher claims a channel name
// that already has a live publisher. The claiming session must terminate.
var ErrPublisherConflict = errors.New("publisher already registered for channel")

// ErrSinkClosed names the outcome of sending to a sink whose receiver is gone
// or which was evicted; such a sink is removed from its subscriber set. The
// send path reports this outcome as an internal result value, and no function
// in this package returns this error.
var ErrSinkClosed = errors.New("subscriber sink closed")

// ErrSinkFull names the backpressure-drop outcome: the sink's queue was full
// and the frame was discarded. Not a failure of the publish operation. The
// send path reports this outcome as an internal result value, and no function
// in this package returns this error.
var ErrSinkFull = errors.New("subscriber sink full")

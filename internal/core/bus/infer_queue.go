// If you are AI: This file implements the bounded inference queue.
// Many publishers offer jobs without blocking; one worker consumes them.

package bus

import "context"

// InferJob is one unit of work for the inference worker: a JPEG frame plus a
// handle to the channel's annotated broadcast at the moment of enqueue.
type InferJob struct {
	// Width and Height are the expected frame dimensions. They are a hint;
	// the worker uses the decoded dimensions.
	Width  int
	Height int

	// JPEG is the undecoded frame as received from the publisher.
	JPEG []byte

	// Reply is where the annotated frame is broadcast on completion.
	Reply *Broadcast
}

// InferQueue is a bounded multi-producer/single-consumer job queue.
// Producers never block: a full queue drops the job.
type InferQueue struct {
	jobs chan InferJob
}

// NewInferQueue creates a queue with the given capacity.
func NewInferQueue(capacity int) *InferQueue {
	return &InferQueue{jobs: make(chan InferJob, capacity)}
}

// TryEnqueue offers a job without blocking.
// Returns false if the queue is full; the frame is simply dropped.
func (q *InferQueue) TryEnqueue(job InferJob) bool {
	select {
	case q.jobs <- job:
		return true
	default:
		return false
	}
}

// Dequeue blocks until a job is available or the context is cancelled.
func (q *InferQueue) Dequeue(ctx context.Context) (InferJob, bool) {
	select {
	case job := <-q.jobs:
		return job, true
	case <-ctx.Done():
		return InferJob{}, false
	}
}

// Len returns the number of queued jobs.
func (q *InferQueue) Len() int {
	return len(q.jobs)
}

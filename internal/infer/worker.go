// If you are AI: This file implements the single-consumer inference worker.
// One job in flight at a time; per-job errors are counted and absorbed.

package infer

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/sgasse/infercam/internal/core/bus"
	"github.com/sgasse/infercam/internal/core/meter"
	"github.com/sgasse/infercam/internal/core/protocol/mjpeg"
)

// jpegQuality is the re-encode quality for annotated frames.
const jpegQuality = 95

// Worker consumes inference jobs, runs the detector and broadcasts the
// annotated frames. It is deliberately single-threaded so one expensive
// forward pass never delays another.
type Worker struct {
	queue    *bus.InferQueue
	detector *Detector
	meter    *meter.Meter

	// jobsSeen counts dequeued jobs; read by tests.
	jobsSeen atomic.Uint64
}

// NewWorker creates a worker over the router's inference queue.
// The meter may be nil (tests).
func NewWorker(queue *bus.InferQueue, detector *Detector, m *meter.Meter) *Worker {
	return &Worker{
		queue:    queue,
		detector: detector,
		meter:    m,
	}
}

// Run consumes jobs until the context is cancelled.
// Never returns on a job failure.
func (w *Worker) Run(ctx context.Context) {
	for {
		job, ok := w.queue.Dequeue(ctx)
		if !ok {
			return
		}
		w.jobsSeen.Add(1)

		if err := w.process(job); err != nil {
			if w.meter != nil {
				w.meter.TickInferError()
			}
			log.Debugf("Dropping inference job: %v", err)
			continue
		}
		if w.meter != nil {
			w.meter.TickAnnotated()
		}
	}
}

// process runs one job end to end: decode, detect, draw, encode, broadcast.
// Decoded dimensions win over the job's width/height hint.
func (w *Worker) process(job bus.InferJob) error {
	img, err := jpeg.Decode(bytes.NewReader(job.JPEG))
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}

	detections, err := w.detector.Detect(img)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	annotated := annotate(img, detections)

	var buf bytes.Buffer
	buf.Grow(len(job.JPEG))
	if err := jpeg.Encode(&buf, annotated, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	// Send failures are non-fatal: the router evicts dead annotated
	// subscribers on its own.
	job.Reply.Publish(mjpeg.WrapPart(buf.Bytes()))
	return nil
}

// JobsSeen returns the number of jobs the worker has dequeued.
func (w *Worker) JobsSeen() uint64 {
	return w.jobsSeen.Load()
}

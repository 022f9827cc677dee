// If you are AI: This file implements the frame meter.
// Two relaxed atomic counters with a periodic drain, mirrored into Prometheus.

package meter

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Meter counts frames and error events on the hot paths.
// Tick methods use only atomic adds and never block.
type Meter struct {
	// Window counters, swapped to zero by the drain loop.
	rawWindow       atomic.Uint64
	annotatedWindow atomic.Uint64

	// Running totals for the stats API.
	rawTotal       atomic.Uint64
	annotatedTotal atomic.Uint64
	rawDropped     atomic.Uint64
	inferDropped   atomic.Uint64
	protocolErrors atomic.Uint64
	inferErrors    atomic.Uint64

	promRaw         prometheus.Counter
	promAnnotated   prometheus.Counter
	promDropped     *prometheus.CounterVec
	promProtoErrors prometheus.Counter
	promInferErrors prometheus.Counter
}

// New creates a meter and registers its Prometheus collectors.
// Pass nil to skip metrics registration (tests).
func New(reg prometheus.Registerer) *Meter {
	m := &Meter{
		promRaw: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "infercam_frames_raw_total",
			Help: "Raw frames accepted from publishers.",
		}),
		promAnnotated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "infercam_frames_annotated_total",
			Help: "Annotated frames produced by the inference worker.",
		}),
		promDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "infercam_frames_dropped_total",
			Help: "Frames dropped under backpressure, by destination.",
		}, []string{"reason"}),
		promProtoErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "infercam_protocol_errors_total",
			Help: "Malformed or out-of-order publisher payloads.",
		}),
		promInferErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "infercam_inference_errors_total",
			Help: "Inference jobs dropped on decode, model or encode failure.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.promRaw, m.promAnnotated, m.promDropped, m.promProtoErrors, m.promInferErrors)
	}
	return m
}

// TickRaw counts one raw frame accepted from a publisher.
func (m *Meter) TickRaw() {
	m.rawWindow.Add(1)
	m.rawTotal.Add(1)
	m.promRaw.Inc()
}

// TickAnnotated counts one annotated frame produced by the worker.
func (m *Meter) TickAnnotated() {
	m.annotatedWindow.Add(1)
	m.annotatedTotal.Add(1)
	m.promAnnotated.Inc()
}

// TickSinkDropped counts one frame dropped on a subscriber sink that was full
// or closed.
func (m *Meter) TickSinkDropped() {
	m.rawDropped.Add(1)
	m.promDropped.WithLabelValues("sink").Inc()
}

// TickInferDropped counts one frame dropped on the full inference queue.
func (m *Meter) TickInferDropped() {
	m.inferDropped.Add(1)
	m.promDropped.WithLabelValues("inference").Inc()
}

// TickProtocolError counts one malformed or out-of-order publisher payload.
func (m *Meter) TickProtocolError() {
	m.protocolErrors.Add(1)
	m.promProtoErrors.Inc()
}

// TickInferError counts one failed inference job.
func (m *Meter) TickInferError() {
	m.inferErrors.Add(1)
	m.promInferErrors.Inc()
}

// GetResetRaw returns the raw frame count since the last drain and resets it.
func (m *Meter) GetResetRaw() uint64 {
	return m.rawWindow.Swap(0)
}

// GetResetAnnotated returns the annotated frame count since the last drain and resets it.
func (m *Meter) GetResetAnnotated() uint64 {
	return m.annotatedWindow.Swap(0)
}

// Snapshot is a point-in-time view of the running totals.
type Snapshot struct {
	RawFrames       uint64 `json:"raw_frames"`
	AnnotatedFrames uint64 `json:"annotated_frames"`
	SinkDropped     uint64 `json:"sink_dropped"`
	InferDropped    uint64 `json:"inference_dropped"`
	ProtocolErrors  uint64 `json:"protocol_errors"`
	InferErrors     uint64 `json:"inference_errors"`
}

// Totals returns the running totals.
func (m *Meter) Totals() Snapshot {
	return Snapshot{
		RawFrames:       m.rawTotal.Load(),
		AnnotatedFrames: m.annotatedTotal.Load(),
		SinkDropped:     m.rawDropped.Load(),
		InferDropped:    m.inferDropped.Load(),
		ProtocolErrors:  m.protocolErrors.Load(),
		InferErrors:     m.inferErrors.Load(),
	}
}

// Run drains the window counters on the given interval and logs frame rates.
// Blocks until the context is cancelled.
func (m *Meter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now
			if elapsed <= 0 {
				continue
			}

			raw := m.GetResetRaw()
			annotated := m.GetResetAnnotated()
			if raw > 0 {
				log.Infof("Raw frames per second: %.2f", float64(raw)/elapsed)
			}
			if annotated > 0 {
				log.Infof("Annotated frames per second: %.2f", float64(annotated)/elapsed)
			}
		}
	}
}

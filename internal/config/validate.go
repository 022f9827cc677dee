// If you are AI: This file validates configuration values and returns descriptive errors.

package config

import (
	"fmt"
	"net"
)

// Validate checks that all configuration values are within acceptable ranges.
// Returns an error describing the first validation failure found.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Stream.Validate(); err != nil {
		return fmt.Errorf("stream config: %w", err)
	}
	if err := c.Inference.Validate(); err != nil {
		return fmt.Errorf("inference config: %w", err)
	}
	for i, relay := range c.Relays {
		if err := relay.Validate(); err != nil {
			return fmt.Errorf("relay config %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks server addresses.
func (s *ServerConfig) Validate() error {
	if _, _, err := net.SplitHostPort(s.HTTPAddr); err != nil {
		return fmt.Errorf("http_addr %q is not a valid host:port: %w", s.HTTPAddr, err)
	}
	if _, _, err := net.SplitHostPort(s.IngestAddr); err != nil {
		return fmt.Errorf("ingest_addr %q is not a valid host:port: %w", s.IngestAddr, err)
	}
	if s.HTTPAddr == s.IngestAddr {
		return fmt.Errorf("http_addr and ingest_addr must be different, both are %s", s.HTTPAddr)
	}
	return nil
}

// Validate checks fanout and lifecycle values.
func (s *StreamConfig) Validate() error {
	if s.SinkCapacity < 1 {
		return fmt.Errorf("sink_capacity must be at least 1, got %d", s.SinkCapacity)
	}
	if s.MaxStrikes < 1 {
		return fmt.Errorf("max_strikes must be at least 1, got %d", s.MaxStrikes)
	}
	if s.IdleGraceMs < 500 {
		return fmt.Errorf("idle_grace_ms must be at least 500, got %d", s.IdleGraceMs)
	}
	if s.SweepIntervalMs < 500 {
		return fmt.Errorf("sweep_interval_ms must be at least 500, got %d", s.SweepIntervalMs)
	}
	if s.IdleTimeoutMs < s.IdleGraceMs {
		return fmt.Errorf("idle_timeout_ms must not be below idle_grace_ms, got %d < %d", s.IdleTimeoutMs, s.IdleGraceMs)
	}
	if s.MeterIntervalMs < 100 {
		return fmt.Errorf("meter_interval_ms must be at least 100, got %d", s.MeterIntervalMs)
	}
	return nil
}

// Validate checks inference pipeline values.
func (i *InferenceConfig) Validate() error {
	if i.Enabled && i.ModelPath == "" {
		return fmt.Errorf("model_path is required when inference is enabled")
	}
	if i.QueueCapacity < 1 {
		return fmt.Errorf("queue_capacity must be at least 1, got %d", i.QueueCapacity)
	}
	if i.InputWidth < 1 || i.InputHeight < 1 {
		return fmt.Errorf("input dimensions must be positive, got %dx%d", i.InputWidth, i.InputHeight)
	}
	if i.MinConfidence <= 0 || i.MinConfidence >= 1 {
		return fmt.Errorf("min_confidence must be in (0, 1), got %v", i.MinConfidence)
	}
	if i.MaxIoU <= 0 || i.MaxIoU > 1 {
		return fmt.Errorf("max_iou must be in (0, 1], got %v", i.MaxIoU)
	}
	return nil
}

// Validate checks a relay entry.
func (r *RelayConfig) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("relay config missing name")
	}
	if r.RemoteURL == "" {
		return fmt.Errorf("relay config missing remote_url")
	}
	return nil
}

// If you are AI: This file defines the configuration structure for the infercam server.
// It uses strict YAML decoding and explicit defaults.

package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete server configuration.
// All fields must have explicit defaults or be required.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Stream    StreamConfig    `yaml:"stream"`
	Inference InferenceConfig `yaml:"inference"`
	Relays    []RelayConfig   `yaml:"relays,omitempty"`
}

// ServerConfig defines listener addresses.
type ServerConfig struct {
	HTTPAddr   string `yaml:"http_addr"`   // HTTP server for viewers, API and metrics
	IngestAddr string `yaml:"ingest_addr"` // TCP listener for frame publishers
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // trace, debug, info, warn, error
}

// StreamConfig defines fanout and channel lifecycle settings.
type StreamConfig struct {
	SinkCapacity    int `yaml:"sink_capacity"`     // Per-subscriber queue depth
	MaxStrikes      int `yaml:"max_strikes"`       // Consecutive failed sends before a sink is closed
	IdleGraceMs     int `yaml:"idle_grace_ms"`     // Minimum idle time before an empty channel may be collected inline
	SweepIntervalMs int `yaml:"sweep_interval_ms"` // Period of the background sweep
	IdleTimeoutMs   int `yaml:"idle_timeout_ms"`   // Idle time after which the sweep removes an empty channel
	MeterIntervalMs int `yaml:"meter_interval_ms"` // Period of the frame rate log
}

// InferenceConfig defines the face detection pipeline settings.
type InferenceConfig struct {
	Enabled       bool    `yaml:"enabled"`        // Run the inference worker
	ModelPath     string  `yaml:"model_path"`     // Path to the detector model file
	QueueCapacity int     `yaml:"queue_capacity"` // Bounded inference queue depth
	InputWidth    int     `yaml:"input_width"`    // Model input width
	InputHeight   int     `yaml:"input_height"`   // Model input height
	FrameWidth    int     `yaml:"frame_width"`    // Expected publisher frame width (hint only)
	FrameHeight   int     `yaml:"frame_height"`   // Expected publisher frame height (hint only)
	MinConfidence float32 `yaml:"min_confidence"` // Detection confidence threshold
	MaxIoU        float32 `yaml:"max_iou"`        // Non-maximum suppression IoU threshold
}

// RelayConfig defines a pull relay task configuration.
// A pull relay fetches a remote MJPEG stream and publishes it into a local channel.
type RelayConfig struct {
	Name      string `yaml:"name"`                // Local channel name
	RemoteURL string `yaml:"remote_url"`          // Remote MJPEG stream URL
	Reconnect bool   `yaml:"reconnect,omitempty"` // Enable reconnect on failure
}

// Load reads configuration from a YAML file.
// Returns an error if the file cannot be read or decoded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "127.0.0.1:3000"
	}
	if c.Server.IngestAddr == "" {
		c.Server.IngestAddr = "127.0.0.1:3001"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Stream.SinkCapacity == 0 {
		c.Stream.SinkCapacity = 20
	}
	if c.Stream.MaxStrikes == 0 {
		c.Stream.MaxStrikes = 5
	}
	if c.Stream.IdleGraceMs == 0 {
		c.Stream.IdleGraceMs = 500
	}
	if c.Stream.SweepIntervalMs == 0 {
		c.Stream.SweepIntervalMs = 1000
	}
	if c.Stream.IdleTimeoutMs == 0 {
		c.Stream.IdleTimeoutMs = 5000
	}
	if c.Stream.MeterIntervalMs == 0 {
		c.Stream.MeterIntervalMs = 2000
	}
	if c.Inference.ModelPath == "" {
		c.Inference.ModelPath = "ultraface-RFB-640.onnx"
	}
	if c.Inference.QueueCapacity == 0 {
		c.Inference.QueueCapacity = 10
	}
	if c.Inference.InputWidth == 0 {
		c.Inference.InputWidth = 640
	}
	if c.Inference.InputHeight == 0 {
		c.Inference.InputHeight = 480
	}
	if c.Inference.FrameWidth == 0 {
		c.Inference.FrameWidth = 1280
	}
	if c.Inference.FrameHeight == 0 {
		c.Inference.FrameHeight = 720
	}
	if c.Inference.MinConfidence == 0 {
		c.Inference.MinConfidence = 0.5
	}
	if c.Inference.MaxIoU == 0 {
		c.Inference.MaxIoU = 0.5
	}
}

// IdleGrace returns the inline GC grace period as a duration.
func (c *StreamConfig) IdleGrace() time.Duration {
	return time.Duration(c.IdleGraceMs) * time.Millisecond
}

// SweepInterval returns the sweep period as a duration.
func (c *StreamConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMs) * time.Millisecond
}

// IdleTimeout returns the sweep idle timeout as a duration.
func (c *StreamConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMs) * time.Millisecond
}

// MeterInterval returns the frame rate log period as a duration.
func (c *StreamConfig) MeterInterval() time.Duration {
	return time.Duration(c.MeterIntervalMs) * time.Millisecond
}

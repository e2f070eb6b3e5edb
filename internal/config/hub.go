package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/sensorhub/internal/serialport"
)

// Defaults applied by the Get* accessors.
const (
	DefaultSerialPort               = "/dev/ttyUSB0"
	DefaultReadTimeout              = 50 * time.Millisecond
	DefaultRotationVectorIntervalMs = 10
	DefaultListen                   = ""
)

// HubConfig is the monitor configuration. Every field is optional; omitted
// fields fall back to the defaults above, so partial configs are safe.
type HubConfig struct {
	// Serial link
	SerialPort  *string `json:"serial_port,omitempty"`
	BaudRate    *int    `json:"baud_rate,omitempty"`
	DataBits    *int    `json:"data_bits,omitempty"`
	StopBits    *int    `json:"stop_bits,omitempty"`
	Parity      *string `json:"parity,omitempty"`
	ReadTimeout *string `json:"read_timeout,omitempty"` // duration string like "50ms"

	// Reports
	RotationVectorIntervalMs *int `json:"rotation_vector_interval_ms,omitempty"`

	// Outputs
	TracePath    *string `json:"trace_path,omitempty"`
	DBPath       *string `json:"db_path,omitempty"`
	Listen       *string `json:"listen,omitempty"`
	DebugLogging *bool   `json:"debug_logging,omitempty"`
}

// LoadHubConfig loads a HubConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadHubConfig(path string) (*HubConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &HubConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that set values are usable.
func (c *HubConfig) Validate() error {
	if c.SerialPort != nil && *c.SerialPort == "" {
		return fmt.Errorf("serial_port must not be empty")
	}

	if _, err := c.GetPortOptions().Normalise(); err != nil {
		return fmt.Errorf("serial options: %w", err)
	}

	if c.ReadTimeout != nil && *c.ReadTimeout != "" {
		d, err := time.ParseDuration(*c.ReadTimeout)
		if err != nil {
			return fmt.Errorf("invalid read_timeout '%s': %w", *c.ReadTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("read_timeout must be positive, got %s", d)
		}
	}

	if c.RotationVectorIntervalMs != nil {
		// The interval is sent as microseconds from a 16-bit millisecond value.
		if v := *c.RotationVectorIntervalMs; v < 1 || v > 0xFFFF {
			return fmt.Errorf("rotation_vector_interval_ms must be between 1 and 65535, got %d", v)
		}
	}
	return nil
}

func (c *HubConfig) GetSerialPort() string {
	if c.SerialPort == nil || *c.SerialPort == "" {
		return DefaultSerialPort
	}
	return *c.SerialPort
}

// GetPortOptions returns the serial options as configured. Unset values are
// left zero for PortOptions.Normalise to default.
func (c *HubConfig) GetPortOptions() serialport.PortOptions {
	var opts serialport.PortOptions
	if c.BaudRate != nil {
		opts.BaudRate = *c.BaudRate
	}
	if c.DataBits != nil {
		opts.DataBits = *c.DataBits
	}
	if c.StopBits != nil {
		opts.StopBits = *c.StopBits
	}
	if c.Parity != nil {
		opts.Parity = *c.Parity
	}
	return opts
}

// GetReadTimeout parses and returns ReadTimeout, or the default.
func (c *HubConfig) GetReadTimeout() time.Duration {
	if c.ReadTimeout == nil || *c.ReadTimeout == "" {
		return DefaultReadTimeout
	}
	d, err := time.ParseDuration(*c.ReadTimeout)
	if err != nil || d <= 0 {
		return DefaultReadTimeout
	}
	return d
}

func (c *HubConfig) GetRotationVectorIntervalMs() uint16 {
	if c.RotationVectorIntervalMs == nil {
		return DefaultRotationVectorIntervalMs
	}
	v := *c.RotationVectorIntervalMs
	if v < 1 || v > 0xFFFF {
		return DefaultRotationVectorIntervalMs
	}
	return uint16(v)
}

// GetTracePath returns the CBOR trace path. Empty disables tracing.
func (c *HubConfig) GetTracePath() string {
	if c.TracePath == nil {
		return ""
	}
	return *c.TracePath
}

// GetDBPath returns the sqlite path. Empty disables the report store.
func (c *HubConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetListen returns the debug HTTP listen address. Empty disables it.
func (c *HubConfig) GetListen() string {
	if c.Listen == nil {
		return DefaultListen
	}
	return *c.Listen
}

func (c *HubConfig) GetDebugLogging() bool {
	return c.DebugLogging != nil && *c.DebugLogging
}

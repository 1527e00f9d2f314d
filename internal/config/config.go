// Package config loads the ground-station's YAML configuration file: which
// serial device to open, at what speed, which channel to start on, and a
// human label for each device ID seen on the wire. Grounded on deviceid.go's
// tocalls.yaml loader: a flat struct unmarshalled directly with
// gopkg.in/yaml.v3, no schema validation library.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Device labels a (device class, ID) pair for display, e.g. "pressure
// transducer 3" -> "Ox tank ullage".
type Device struct {
	Class byte   `yaml:"class"`
	ID    byte   `yaml:"id"`
	Label string `yaml:"label"`
}

// Config is the top-level ground-station configuration file shape.
type Config struct {
	// SerialDevice is the path (or COMn name) of the serial port the
	// ground station's transport adapter opens.
	SerialDevice string `yaml:"serial_device"`
	// BaudRate is the serial line speed; 0 leaves the OS default alone,
	// matching serial_port_open's "case 0: leave it alone" behavior.
	BaudRate int `yaml:"baud_rate"`
	// StartChannel is "zero" or "one"; anything else is rejected at load.
	StartChannel string `yaml:"start_channel"`
	// HeartbeatTimeoutSeconds configures internal/alarm's no-heartbeat
	// alert window. Zero disables the check.
	HeartbeatTimeoutSeconds int `yaml:"heartbeat_timeout_seconds"`
	// Devices maps device IDs to display labels, by device class.
	Devices []Device `yaml:"devices"`
}

// Load reads and parses a ground-station config file from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	switch cfg.StartChannel {
	case "", "zero", "one":
	default:
		return Config{}, fmt.Errorf("config: start_channel must be \"zero\" or \"one\", got %q", cfg.StartChannel)
	}

	return cfg, nil
}

// Label returns the configured display label for a device, or "" if none is
// configured for that (class, id) pair.
func (c Config) Label(class, id byte) string {
	for _, d := range c.Devices {
		if d.Class == class && d.ID == id {
			return d.Label
		}
	}
	return ""
}

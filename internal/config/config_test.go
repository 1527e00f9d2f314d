package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ground.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_ParsesDevicesAndSettings(t *testing.T) {
	path := writeConfig(t, `
serial_device: /dev/ttyACM0
baud_rate: 115200
start_channel: one
heartbeat_timeout_seconds: 5
devices:
  - class: 0x90
    id: 2
    label: Ox tank ullage
  - class: 0xB0
    id: 0
    label: Airframe IMU
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.SerialDevice)
	assert.Equal(t, 115200, cfg.BaudRate)
	assert.Equal(t, "one", cfg.StartChannel)
	assert.Equal(t, 5, cfg.HeartbeatTimeoutSeconds)
	assert.Equal(t, "Ox tank ullage", cfg.Label(0x90, 2))
	assert.Equal(t, "Airframe IMU", cfg.Label(0xB0, 0))
	assert.Equal(t, "", cfg.Label(0x90, 99))
}

func TestLoad_RejectsBadStartChannel(t *testing.T) {
	path := writeConfig(t, "start_channel: two\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/ground.yaml")
	assert.Error(t, err)
}

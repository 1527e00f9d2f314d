// Package simtarget is a pseudo-terminal-backed fake RCP_Controller peer:
// it accepts outbound command frames from a ground-station session and
// emits scripted telemetry frames back, so cmd/rcp-groundstation and tests
// can exercise the full wire protocol without physical hardware. Grounded
// on kiss.go's kisspt_open_pt, which creates a virtual TNC endpoint the
// same way with github.com/creack/pty's pty.Open().
package simtarget

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/creack/pty"
)

// Target is a simulated controller. GroundPath is the pty slave's device
// path: point a real serial transport (or any rcp.Host in testing) at it.
type Target struct {
	master *os.File
	slave  *os.File

	mu      sync.Mutex
	channel byte
}

// Open creates the pseudo-terminal pair backing a simulated target.
func Open() (*Target, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("simtarget: open pty: %w", err)
	}
	return &Target{master: master, slave: slave}, nil
}

// GroundPath is the device path the ground-station side should open, the
// same role kiss.go's pt_slave plays for a KISS client attaching to the
// simulated TNC.
func (t *Target) GroundPath() string { return t.slave.Name() }

// Close releases both ends of the pty.
func (t *Target) Close() error {
	slaveErr := t.slave.Close()
	masterErr := t.master.Close()
	if masterErr != nil {
		return masterErr
	}
	return slaveErr
}

// SetChannel selects which channel scripted frames are emitted on.
func (t *Target) SetChannel(ch byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.channel = ch
}

// SendCompactFrame writes a COMPACT-framed IU directly to the ground side,
// without going through rcp's own encoder — simtarget plays the device
// role, the opposite side of the wire from rcp.Host.
func (t *Target) SendCompactFrame(devclass byte, timestamp uint32, body []byte) error {
	t.mu.Lock()
	ch := t.channel
	t.mu.Unlock()

	payload := make([]byte, 0, 5+len(body))
	if devclass != promptClass {
		var ts [4]byte
		binary.BigEndian.PutUint32(ts[:], timestamp)
		payload = append(payload, ts[:]...)
	}
	payload = append(payload, body...)

	// The compact length field counts bytes after the device-class byte
	// (timestamp + body), not including the device-class byte itself.
	length := len(payload)
	if length > 63 {
		return fmt.Errorf("simtarget: payload too long for compact frame (%d bytes)", length)
	}

	frame := make([]byte, 0, 2+len(payload))
	frame = append(frame, ch|byte(length))
	frame = append(frame, devclass)
	frame = append(frame, payload...)

	_, err := t.master.Write(frame)
	return err
}

const promptClass = 0x03

// SendOneFloat emits a one-float telemetry IU (e.g. AM_PRESSURE,
// TEMPERATURE) with the given id and value.
func (t *Target) SendOneFloat(devclass byte, timestamp uint32, id byte, value float32) error {
	var fb [4]byte
	binary.BigEndian.PutUint32(fb[:], math.Float32bits(value))
	return t.SendCompactFrame(devclass, timestamp, append([]byte{id}, fb[:]...))
}

// ReadCommand blocks until a command byte sequence arrives from the ground
// side and returns the raw bytes read (up to len(buf)).
func (t *Target) ReadCommand(buf []byte) (int, error) {
	return t.master.Read(buf)
}

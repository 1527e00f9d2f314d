// Package serialport is the real transport adapter for rcp.Host: it opens a
// serial device and exposes Read/Write methods suitable for wiring directly
// as rcp.Callbacks.SendData / ReadData. Grounded on serial_port.go's
// term.Open/SetSpeed structure, with the TIOCM* ioctl style from ptt.go used
// to clear HUPCL so a USB-serial replug doesn't toggle DTR and re-arm the
// target mid-test.
package serialport

import (
	"fmt"
	"io"

	"github.com/pkg/term"
	"golang.org/x/sys/unix"
)

// Port is an open serial connection to a target controller.
type Port struct {
	fd *term.Term
}

// supportedBauds mirrors serial_port_open's switch over recognized speeds;
// anything else is rejected rather than silently downgraded to 4800, since
// a ground-station misconfiguration should surface immediately.
var supportedBauds = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true,
	19200: true, 38400: true, 57600: true, 115200: true,
}

// Open opens device at the given baud rate (0 leaves the port's current
// speed alone) and puts it into raw mode.
func Open(device string, baud int) (*Port, error) {
	t, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", device, err)
	}

	if baud != 0 {
		if !supportedBauds[baud] {
			t.Close()
			return nil, fmt.Errorf("serialport: unsupported baud rate %d", baud)
		}
		if err := t.SetSpeed(baud); err != nil {
			t.Close()
			return nil, fmt.Errorf("serialport: set speed %d: %w", baud, err)
		}
	}

	p := &Port{fd: t}
	if err := p.clearHUPCL(); err != nil {
		// Non-fatal: a replugged cable will just re-toggle DTR on close,
		// which most controllers tolerate (it looks like a power-cycle).
		_ = err
	}

	return p, nil
}

// clearHUPCL stops the kernel from dropping DTR (and so resetting the
// target) when this process exits or the fd is closed, the same concern
// ptt.go's RTS_ON/DTR_ON helpers exist to manage by hand via TIOCM* ioctls.
func (p *Port) clearHUPCL() error {
	fd := int(p.fd.Fd())

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("serialport: get termios: %w", err)
	}

	termios.Cflag &^= unix.HUPCL

	return unix.IoctlSetTermios(fd, unix.TCSETS, termios)
}

// Read implements rcp.Callbacks.ReadData: it must return exactly len(buf)
// bytes or the codec reports ErrIORecv. A single raw-mode read may return
// fewer bytes than requested, so Read keeps reading until buf is full or
// the device reports an error.
func (p *Port) Read(buf []byte) (int, error) {
	return io.ReadFull(p.fd, buf)
}

// Write implements rcp.Callbacks.SendData.
func (p *Port) Write(data []byte) (int, error) {
	return p.fd.Write(data)
}

// Close releases the underlying file descriptor.
func (p *Port) Close() error {
	return p.fd.Close()
}

// setRTS mirrors ptt.go's RTS_ON/RTS_OFF: toggling the RTS line is sometimes
// wired by test-stand hardware as an auxiliary digital control line
// independent of the RCP protocol itself (e.g. a relay board's enable pin).
func (p *Port) setRTS(on bool) error {
	fd := int(p.fd.Fd())

	stuff, err := unix.IoctlGetInt(fd, unix.TIOCMGET)
	if err != nil {
		return err
	}

	if on {
		stuff |= unix.TIOCM_RTS
	} else {
		stuff &^= unix.TIOCM_RTS
	}

	return unix.IoctlSetInt(fd, unix.TIOCMSET, stuff)
}

// SetRTS exposes the auxiliary RTS control line to callers that have wired
// test-stand hardware to it.
func (p *Port) SetRTS(on bool) error { return p.setRTS(on) }

// Package estop wires a physical emergency-stop button and a test-state
// status LED to a running rcp.Host session, using
// github.com/warthog618/go-gpiocdev for the two GPIO lines. This is the
// Go-native equivalent of direwolf's PTT GPIO control in ptt.go: a
// safety-relevant external line toggled in lockstep with protocol state,
// even though ptt.go's own line control in this codebase favors direct
// serial-port ioctls (see internal/serialport) over gpiocdev for its
// particular use case.
//
// Callers must funnel Open's onPress callback through the same goroutine
// that owns the rcp.Host, since Host is not safe for concurrent use: the
// button callback should only ever call SendEStop, never Poll.
package estop

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// gpioLine is the subset of *gpiocdev.Line Controller needs, narrowed to an
// interface so tests can supply a mock without real GPIO hardware or the
// gpio-sim kernel module — the same shape ptt_test.go's mockGPIODLine
// exists to satisfy for direwolf's own gpiod output line.
type gpioLine interface {
	SetValue(int) error
	Close() error
}

// Controller owns the button input line and LED output line for one
// E-stop station.
type Controller struct {
	chip       string
	buttonLine gpioLine
	ledLine    gpioLine
}

// Open requests the button line (as an input with debounce and both-edge
// events) and the LED line (as an output, initially off) on the named
// gpiochip device (e.g. "gpiochip0").
func Open(chip string, buttonOffset, ledOffset int, onPress func()) (*Controller, error) {
	buttonLine, err := gpiocdev.RequestLine(chip, buttonOffset,
		gpiocdev.AsInput,
		gpiocdev.WithDebounce(10_000_000), // 10ms, guards against switch bounce
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			if evt.Type == gpiocdev.LineEventFallingEdge {
				onPress()
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("estop: request button line %d on %s: %w", buttonOffset, chip, err)
	}

	ledLine, err := gpiocdev.RequestLine(chip, ledOffset, gpiocdev.AsOutput(0))
	if err != nil {
		buttonLine.Close()
		return nil, fmt.Errorf("estop: request LED line %d on %s: %w", ledOffset, chip, err)
	}

	return newController(chip, buttonLine, ledLine), nil
}

func newController(chip string, buttonLine, ledLine gpioLine) *Controller {
	return &Controller{chip: chip, buttonLine: buttonLine, ledLine: ledLine}
}

// State is the subset of a TestData delivery the status LED reacts to.
type State int

const (
	LEDOff State = iota
	LEDSolid
	LEDBlink
)

// SetLED drives the status LED to reflect the most recently decoded
// TestData.State: solid for RUNNING, off for STOPPED/ESTOP. LEDBlink drives
// the line high exactly like LEDSolid — gpiocdev has no built-in blink
// primitive, and SetLED runs no timer of its own, so a blinking LED needs
// the caller to alternate between LEDBlink and LEDOff on a ticker.
func (c *Controller) SetLED(s State) error {
	switch s {
	case LEDOff:
		return c.ledLine.SetValue(0)
	case LEDSolid, LEDBlink:
		return c.ledLine.SetValue(1)
	default:
		return fmt.Errorf("estop: unknown LED state %d", s)
	}
}

// Close releases both GPIO lines.
func (c *Controller) Close() error {
	btnErr := c.buttonLine.Close()
	ledErr := c.ledLine.Close()
	if btnErr != nil {
		return btnErr
	}
	return ledErr
}

// Package hotplug watches udev for USB-serial device add/remove events and
// reports them on a channel, so the ground station can tell when a
// technician unplugs or replugs the test stand's USB-serial cable
// mid-session. It only reports events; it does not reopen a device or
// reconnect a session. Grounded on the device-watching style
// of this codebase's dwgps.go (which polls/watches an external device
// feed and re-dispatches to callbacks), using github.com/jochenvg/go-udev
// for the actual netlink monitor instead of a polling loop.
package hotplug

import (
	"context"
	"fmt"

	"github.com/jochenvg/go-udev"
)

// Event reports a tty device appearing or disappearing.
type Event struct {
	DevicePath string // e.g. /dev/ttyUSB0
	Added      bool   // false means the device was removed
}

// Watch starts a udev monitor filtered to tty subsystem devices and sends
// an Event for every add/remove action until ctx is canceled. Events are
// delivered on the returned channel, which is closed when the monitor
// stops.
func Watch(ctx context.Context) (<-chan Event, error) {
	u := udev.Udev{}
	mon := u.NewMonitorFromNetlink("udev")

	if err := mon.FilterAddMatchSubsystem("tty"); err != nil {
		return nil, fmt.Errorf("hotplug: filter subsystem: %w", err)
	}

	deviceCh, errCh, err := mon.DeviceChan(ctx)
	if err != nil {
		return nil, fmt.Errorf("hotplug: start monitor: %w", err)
	}

	out := make(chan Event)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errCh:
				if !ok {
					return
				}
				_ = err // monitor errors are non-fatal; keep watching
			case dev, ok := <-deviceCh:
				if !ok {
					return
				}
				path := dev.Devnode()
				if path == "" {
					continue
				}
				select {
				case out <- Event{DevicePath: path, Added: dev.Action() != "remove"}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

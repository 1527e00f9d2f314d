// Package alarm plays an audible tone through the default output device via
// github.com/gordonklaus/portaudio whenever a TestData delivery reports
// state ESTOP, or when no heartbeat arrives within a configured window.
// This exercises the teacher's audio-device dependency in a role suited to
// a test stand (an audible safety alert) rather than direwolf's own use of
// the same hardware (AFSK modem I/O in audio.go).
package alarm

import (
	"fmt"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const sampleRate = 44100

// Alarm drives a single tone generator against the default output stream.
type Alarm struct {
	stream *portaudio.Stream
	freq   float64
	phase  float64
	active bool
}

// New initializes PortAudio and opens the default output stream generating
// a freqHz sine tone whenever Start has been called.
func New(freqHz float64) (*Alarm, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("alarm: portaudio init: %w", err)
	}

	a := &Alarm{freq: freqHz}

	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, 0, a.fill)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("alarm: open output stream: %w", err)
	}
	a.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("alarm: start stream: %w", err)
	}

	return a, nil
}

func (a *Alarm) fill(out []float32) {
	if !a.active {
		for i := range out {
			out[i] = 0
		}
		return
	}

	step := 2 * math.Pi * a.freq / sampleRate
	for i := range out {
		out[i] = float32(math.Sin(a.phase))
		a.phase += step
		if a.phase > 2*math.Pi {
			a.phase -= 2 * math.Pi
		}
	}
}

// Start begins sounding the tone. Safe to call repeatedly.
func (a *Alarm) Start() { a.active = true }

// Stop silences the tone without tearing down the stream, so the next
// ESTOP or heartbeat-loss event can re-trigger it immediately.
func (a *Alarm) Stop() { a.active = false }

// Close stops the stream and releases PortAudio's global state.
func (a *Alarm) Close() error {
	a.active = false
	closeErr := a.stream.Close()
	portaudio.Terminate()
	return closeErr
}

// HeartbeatWatchdog stops a.Start/Stop based on whether a heartbeat was
// observed within timeout. Feed() should be called on every TestData
// delivery (rcp.Callbacks.HeartbeatReceived is never invoked by rcp.Host;
// see its doc comment), since the wire format offers no frame distinguishable
// as a dedicated heartbeat. Run blocks until stop is closed.
type HeartbeatWatchdog struct {
	timeout time.Duration
	feed    chan struct{}
}

// NewHeartbeatWatchdog constructs a watchdog with the given timeout.
func NewHeartbeatWatchdog(timeout time.Duration) *HeartbeatWatchdog {
	return &HeartbeatWatchdog{timeout: timeout, feed: make(chan struct{}, 1)}
}

// Feed records that a heartbeat was just received.
func (w *HeartbeatWatchdog) Feed() {
	select {
	case w.feed <- struct{}{}:
	default:
	}
}

// Run sounds a via Start whenever more than w.timeout elapses between Feed
// calls, and silences it via Stop as soon as a heartbeat arrives again. It
// returns when stop is closed.
func (w *HeartbeatWatchdog) Run(a *Alarm, stop <-chan struct{}) {
	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-w.feed:
			a.Stop()
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.timeout)
		case <-timer.C:
			a.Start()
			timer.Reset(w.timeout)
		}
	}
}

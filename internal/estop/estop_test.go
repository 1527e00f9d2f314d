package estop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLine is a test double for gpioLine that records calls without
// requiring GPIO hardware or the gpio-sim kernel module, mirroring
// ptt_test.go's mockGPIODLine for direwolf's own gpiod output line.
type mockLine struct {
	value  int
	closed bool
}

func (m *mockLine) SetValue(v int) error {
	m.value = v
	return nil
}

func (m *mockLine) Close() error {
	m.closed = true
	return nil
}

func TestSetLED_DrivesLineHighAndLow(t *testing.T) {
	led := &mockLine{}
	c := newController("gpiochip0", &mockLine{}, led)

	require.NoError(t, c.SetLED(LEDSolid))
	assert.Equal(t, 1, led.value)

	require.NoError(t, c.SetLED(LEDOff))
	assert.Equal(t, 0, led.value)

	require.NoError(t, c.SetLED(LEDBlink))
	assert.Equal(t, 1, led.value)
}

func TestSetLED_RejectsUnknownState(t *testing.T) {
	c := newController("gpiochip0", &mockLine{}, &mockLine{})
	assert.Error(t, c.SetLED(State(99)))
}

func TestClose_ClosesBothLines(t *testing.T) {
	button := &mockLine{}
	led := &mockLine{}
	c := newController("gpiochip0", button, led)

	require.NoError(t, c.Close())
	assert.True(t, button.closed)
	assert.True(t, led.closed)
}

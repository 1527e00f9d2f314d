package rcp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a byte-slice-backed stand-in for the real serial link:
// writes append to out, reads drain from a pre-loaded in buffer.
type fakeTransport struct {
	in  *bytes.Buffer
	out *bytes.Buffer
}

func newFakeTransport(script []byte) *fakeTransport {
	return &fakeTransport{in: bytes.NewBuffer(script), out: &bytes.Buffer{}}
}

func (f *fakeTransport) send(data []byte) (int, error) { return f.out.Write(data) }
func (f *fakeTransport) read(buf []byte) (int, error)  { return f.in.Read(buf) }

func openHost(t *testing.T, script []byte) (*Host, *fakeTransport) {
	t.Helper()
	tr := newFakeTransport(script)
	h := &Host{}
	require.Equal(t, Success, h.Init(Callbacks{SendData: tr.send, ReadData: tr.read}))
	return h, tr
}

func TestInit_RejectsDoubleOpen(t *testing.T) {
	h, _ := openHost(t, nil)
	assert.Equal(t, ErrInit, h.Init(Callbacks{SendData: func([]byte) (int, error) { return 0, nil }, ReadData: func([]byte) (int, error) { return 0, nil }}))
}

func TestInit_RequiresIOCallbacks(t *testing.T) {
	h := &Host{}
	assert.Equal(t, ErrInit, h.Init(Callbacks{}))
	assert.False(t, h.IsOpen())
}

func TestShutdown_RequiresOpen(t *testing.T) {
	h := &Host{}
	assert.Equal(t, ErrInit, h.Shutdown())
}

func TestShutdown_ClosesOpenHost(t *testing.T) {
	h, _ := openHost(t, nil)
	assert.Equal(t, Success, h.Shutdown())
	assert.False(t, h.IsOpen())
	assert.Equal(t, ErrInit, h.Poll())
}

func TestChannel_DefaultsToZero(t *testing.T) {
	h, _ := openHost(t, nil)
	assert.Equal(t, ChannelZero, h.GetChannel())
}

// Scenario 1: start test 5 on channel ZERO -> transport receives 02 00 00 05.
func TestStartTest_ChannelZero(t *testing.T) {
	h, tr := openHost(t, nil)
	assert.Equal(t, Success, h.StartTest(5))
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x05}, tr.out.Bytes())
}

// Scenario 2: e-stop on channel ONE -> transport receives 80.
func TestSendEStop_ChannelOne(t *testing.T) {
	h, tr := openHost(t, nil)
	h.SetChannel(ChannelOne)
	assert.Equal(t, Success, h.SendEStop())
	assert.Equal(t, []byte{0x80}, tr.out.Bytes())
}

// Scenario 3: parse TEST_STATE RUNNING. The compact length field counts the
// bytes after the device-class byte: the timestamp plus the full 4-byte
// RUNNING payload (status, a second byte, running_test, test_progress), so
// the header's low 6 bits are 0x08, not the 0x06 that covers only the
// 2-byte non-RUNNING payload. The heartbeat time is the status byte's low
// nibble (0x90 & 0x0F = 0).
func TestPoll_TestStateRunning(t *testing.T) {
	script := []byte{0x08, 0x00, 0x55, 0x55, 0x55, 0x55, 0x90, 0x00, 0x01, 0x05}
	h, _ := openHost(t, script)

	var got TestData
	h.callbacks.ProcessTestUpdate = func(d TestData) Error {
		got = d
		return Success
	}

	require.Equal(t, Success, h.Poll())
	assert.Equal(t, TestData{
		Timestamp:     0x55555555,
		DataStreaming: true,
		State:         TestRunning,
		Inited:        true,
		HeartbeatTime: 0,
		RunningTest:   1,
		TestProgress:  5,
	}, got)
}

// Scenario 4: parse AM_PRESSURE.
func TestPoll_AMPressure(t *testing.T) {
	script := []byte{0x09, 0x90, 0x55, 0x55, 0x55, 0x55, 0x05, 0x40, 0x49, 0x0F, 0xDA}
	h, _ := openHost(t, script)

	var got OneFloat
	h.callbacks.ProcessOneFloat = func(d OneFloat) Error {
		got = d
		return Success
	}

	require.Equal(t, Success, h.Poll())
	assert.Equal(t, DevAMPressure, got.Class)
	assert.Equal(t, uint32(0x55555555), got.Timestamp)
	assert.Equal(t, byte(5), got.ID)
	assert.InDelta(t, float32(3.1415925), got.Data, 0.0001)
}

// Scenario 5: wrong-channel frame is drained without dispatching a callback.
func TestPoll_WrongChannelDrains(t *testing.T) {
	script := []byte{0x86, 0x00, 0xAA, 0xAA, 0xAA, 0xAA, 0xD0, 0xFF}
	h, tr := openHost(t, script)

	fired := false
	h.callbacks.ProcessOneFloat = func(OneFloat) Error {
		fired = true
		return Success
	}

	require.Equal(t, Success, h.Poll())
	assert.False(t, fired)
	assert.Zero(t, tr.in.Len(), "frame must be fully drained from the transport")
}

// Scenario 6: an AMALGAMATE frame delivers each sub-unit in order with the
// shared outer timestamp.
func TestPoll_Amalgamate(t *testing.T) {
	hpi := []byte{0x40, 0x49, 0x0F, 0xDA} // PI
	script := []byte{0x34, 0xFF, 0x55, 0x55, 0x55, 0x55}
	script = append(script, 0x90, 0x0F)
	script = append(script, hpi...)
	script = append(script, 0xA0, 0x01)
	script = append(script, hpi...)
	script = append(script, hpi...)
	script = append(script, 0xB0, 0x05)
	script = append(script, hpi...)
	script = append(script, hpi...)
	script = append(script, hpi...)
	script = append(script, 0xC0, 0x00)
	script = append(script, hpi...)
	script = append(script, hpi...)
	script = append(script, hpi...)
	script = append(script, hpi...)

	h, _ := openHost(t, script)

	var order []string
	var timestamps []uint32

	h.callbacks.ProcessOneFloat = func(d OneFloat) Error {
		order = append(order, "one")
		timestamps = append(timestamps, d.Timestamp)
		return Success
	}
	h.callbacks.ProcessTwoFloat = func(d TwoFloat) Error {
		order = append(order, "two")
		timestamps = append(timestamps, d.Timestamp)
		return Success
	}
	h.callbacks.ProcessThreeFloat = func(d ThreeFloat) Error {
		order = append(order, "three")
		timestamps = append(timestamps, d.Timestamp)
		return Success
	}
	h.callbacks.ProcessFourFloat = func(d FourFloat) Error {
		order = append(order, "four")
		timestamps = append(timestamps, d.Timestamp)
		return Success
	}

	require.Equal(t, Success, h.Poll())
	assert.Equal(t, []string{"one", "two", "three", "four"}, order)
	for _, ts := range timestamps {
		assert.Equal(t, uint32(0x55555555), ts)
	}
}

// The compact length byte for a single-subunit AMALGAMATE frame whose
// subunit errors before consuming any payload covers timestamp (4) + the
// subunit's own class byte (1) = 5.
func TestPoll_AmalgamateRejectsNestedAmalgamate(t *testing.T) {
	script := []byte{0x05, 0xFF, 0x00, 0x00, 0x00, 0x00, 0xFF}
	h, _ := openHost(t, script)
	assert.Equal(t, ErrAmalgNesting, h.Poll())
}

func TestPoll_AmalgamateRejectsPromptSubunit(t *testing.T) {
	script := []byte{0x05, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x03}
	h, _ := openHost(t, script)
	assert.Equal(t, ErrAmalgSubunit, h.Poll())
}

func TestPoll_AmalgamateRejectsTargetLogSubunit(t *testing.T) {
	script := []byte{0x05, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x80}
	h, _ := openHost(t, script)
	assert.Equal(t, ErrAmalgSubunit, h.Poll())
}

func TestPoll_ZeroLengthCompactIsNoop(t *testing.T) {
	h, tr := openHost(t, []byte{0x00})
	assert.Equal(t, Success, h.Poll())
	assert.Zero(t, tr.in.Len())
}

func TestPoll_ZeroLengthExtendedIsNoop(t *testing.T) {
	h, tr := openHost(t, []byte{0x40, 0x00, 0x00})
	assert.Equal(t, Success, h.Poll())
	assert.Zero(t, tr.in.Len())
}

func TestPoll_MaxCompactLength(t *testing.T) {
	// length field counts bytes after the device-class byte: a 4-byte
	// timestamp + ID + data byte, padded out to the maximum compact length.
	body := make([]byte, maxCompactBytes+1) // +1 device-class byte
	body[0] = byte(DevBoolSensor)
	body[5] = 7 // ID, after 4 zero timestamp bytes
	body[6] = 1 // data
	header := byte(maxCompactBytes)
	script := append([]byte{header}, body...)

	h, _ := openHost(t, script)
	var got BoolData
	h.callbacks.ProcessBoolData = func(d BoolData) Error {
		got = d
		return Success
	}
	require.Equal(t, Success, h.Poll())
	assert.Equal(t, byte(7), got.ID)
	assert.True(t, got.Data)
}

func TestPoll_ExtendedLengthAboveCompactMax(t *testing.T) {
	length := uint16(maxCompactBytes + 1)
	body := make([]byte, length+1)
	body[0] = byte(DevBoolSensor)
	body[5] = 9
	body[6] = 1

	script := []byte{extendedMask, byte(length >> 8), byte(length)}
	script = append(script, body...)

	h, _ := openHost(t, script)
	var got BoolData
	h.callbacks.ProcessBoolData = func(d BoolData) Error {
		got = d
		return Success
	}
	require.Equal(t, Success, h.Poll())
	assert.Equal(t, byte(9), got.ID)
}

func TestPoll_IORecvShortHeaderRead(t *testing.T) {
	h, _ := openHost(t, nil)
	assert.Equal(t, ErrIORecv, h.Poll())
}

func TestPoll_UnknownDeviceClass(t *testing.T) {
	// Needs a full 4-byte timestamp present even though the class is
	// invalid: Poll extracts the timestamp before dispatching to processIU.
	script := []byte{0x04, 0x77, 0x00, 0x00, 0x00, 0x00}
	h, _ := openHost(t, script)
	assert.Equal(t, ErrInvalidDevClass, h.Poll())
}

func TestPromptRespond_GONOGOStateMachine(t *testing.T) {
	h, _ := openHost(t, nil)
	assert.Equal(t, ErrNoActivePrompt, h.PromptRespondGONOGO(Go))

	h.activePromptType = PromptGONOGO
	assert.Equal(t, Success, h.PromptRespondGONOGO(Go))
	assert.Equal(t, PromptGONOGO, h.ActivePromptType(), "responding does not itself clear the prompt")

	assert.Equal(t, ErrNoActivePrompt, h.PromptRespondFloat(1.0))
}

func TestPoll_PromptDeliveryDrivesStateMachine(t *testing.T) {
	script := []byte{0x01, 0x03, byte(PromptFloat)}
	h, _ := openHost(t, script)
	h.callbacks.ProcessPromptInput = func(PromptInputRequest) Error { return Success }

	require.Equal(t, Success, h.Poll())
	assert.Equal(t, PromptFloat, h.ActivePromptType())
}

func TestPoll_PromptResetClearsState(t *testing.T) {
	script := []byte{0x01, 0x03, byte(PromptReset)}
	h, _ := openHost(t, script)
	h.activePromptType = PromptGONOGO
	h.callbacks.ProcessPromptInput = func(PromptInputRequest) Error { return Success }

	require.Equal(t, Success, h.Poll())
	assert.Equal(t, PromptReset, h.ActivePromptType())
}

func TestPoll_PromptCarriesText(t *testing.T) {
	prompt := "go/nogo?"
	script := append([]byte{byte(1 + len(prompt)), 0x03, byte(PromptGONOGO)}, []byte(prompt)...)
	h, _ := openHost(t, script)

	var got PromptInputRequest
	h.callbacks.ProcessPromptInput = func(r PromptInputRequest) Error {
		got = r
		return Success
	}

	require.Equal(t, Success, h.Poll())
	assert.Equal(t, prompt, got.Prompt)
}

func TestPoll_TargetLogCarriesText(t *testing.T) {
	body := "ignition sequence start"
	// params = 4 (timestamp) + len(body)
	script := append([]byte{byte(4 + len(body)), 0x80, 0, 0, 0, 0}, []byte(body)...)
	h, _ := openHost(t, script)

	var got TargetLogData
	h.callbacks.ProcessTargetLog = func(d TargetLogData) Error {
		got = d
		return Success
	}

	require.Equal(t, Success, h.Poll())
	assert.Equal(t, body, got.Data)
}

func TestRequestGeneralRead_RedirectsTestState(t *testing.T) {
	h, tr := openHost(t, nil)
	assert.Equal(t, Success, h.RequestGeneralRead(DevTestState, 0))
	assert.Equal(t, []byte{0x01, byte(DevTestState), byte(ModeTestQuery)}, tr.out.Bytes())
}

func TestRequestGeneralRead_RejectsDisallowedClasses(t *testing.T) {
	h, tr := openHost(t, nil)
	for _, dc := range []DeviceClass{DevPrompt, DevTargetLog, DevAmalgamate} {
		assert.Equal(t, ErrInvalidDevClass, h.RequestGeneralRead(dc, 1))
	}
	assert.Zero(t, tr.out.Len(), "rejected requests must not touch the transport")
}

func TestRequestTareConfiguration_RejectsDisallowedClasses(t *testing.T) {
	h, tr := openHost(t, nil)
	disallowed := []DeviceClass{
		DevTestState, DevSimpleActuator, DevStepper, DevPrompt, DevAngledActuator,
		DevTargetLog, DevBoolSensor, DevAmalgamate,
	}
	for _, dc := range disallowed {
		assert.Equal(t, ErrInvalidDevClass, h.RequestTareConfiguration(dc, 1, 0, 0))
	}
	assert.Zero(t, tr.out.Len())
}

func TestRequestTareConfiguration_AllowsSensorClass(t *testing.T) {
	h, tr := openHost(t, nil)
	assert.Equal(t, Success, h.RequestTareConfiguration(DevAMPressure, 3, 1, 2.5))
	assert.Len(t, tr.out.Bytes(), 8)
}

func TestIOSend_ShortWriteSurfaces(t *testing.T) {
	h := &Host{}
	require.Equal(t, Success, h.Init(Callbacks{
		SendData: func(data []byte) (int, error) { return len(data) - 1, nil },
		ReadData: func([]byte) (int, error) { return 0, nil },
	}))
	assert.Equal(t, ErrIOSend, h.SendEStop())
}

func TestErrString_BoundsAndUnknown(t *testing.T) {
	assert.Equal(t, "Success", ErrString(Success))
	assert.Equal(t, "", ErrString(Error(-1)))
	assert.Equal(t, "", ErrString(Error(9)))
}

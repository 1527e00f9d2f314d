package rcp

import (
	"encoding/binary"
	"math"
)

func encodeFloat(b []byte, v float32) {
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
}

// send writes n bytes of h.scratch to the transport and translates a short
// write or error into ErrIOSend.
func (h *Host) send(n int) Error {
	written, err := h.callbacks.SendData(h.scratch[:n])
	if written != n || err != nil {
		return ErrIOSend
	}
	return Success
}

// SendEStop emits the single-byte emergency-stop frame.
func (h *Host) SendEStop() Error {
	if !h.open {
		return ErrInit
	}
	h.scratch[0] = byte(h.channel)
	return h.send(1)
}

// sendTestUpdate is the shared body for every TEST_STATE command: most
// opcodes carry just the mode byte, but START and HEARTBEATS_CONTROL also
// carry a one-byte parameter.
func (h *Host) sendTestUpdate(mode TestStateControlMode, param byte) Error {
	if !h.open {
		return ErrInit
	}

	if mode == ModeTestStart || mode == ModeHeartbeatsControl {
		h.scratch[0] = byte(h.channel) | 0x02
		h.scratch[1] = byte(DevTestState)
		h.scratch[2] = byte(mode)
		h.scratch[3] = param
		return h.send(4)
	}

	h.scratch[0] = byte(h.channel) | 0x01
	h.scratch[1] = byte(DevTestState)
	h.scratch[2] = byte(mode)
	return h.send(3)
}

// SendHeartbeat sends a heartbeat frame on the TEST_STATE channel.
func (h *Host) SendHeartbeat() Error { return h.sendTestUpdate(ModeHeartbeat, 0) }

// StartTest starts the numbered test.
func (h *Host) StartTest(testNum byte) Error { return h.sendTestUpdate(ModeTestStart, testNum) }

// StopTest stops the running test.
func (h *Host) StopTest() Error { return h.sendTestUpdate(ModeTestStop, 0) }

// PauseUnpauseTest toggles pause on the running test.
func (h *Host) PauseUnpauseTest() Error { return h.sendTestUpdate(ModeTestPause, 0) }

// DeviceReset requests a full device reset.
func (h *Host) DeviceReset() Error { return h.sendTestUpdate(ModeDeviceReset, 0) }

// DeviceTimeReset requests the device reset its onboard clock.
func (h *Host) DeviceTimeReset() Error { return h.sendTestUpdate(ModeDeviceResetTime, 0) }

// SetDataStreaming starts or stops continuous telemetry streaming.
func (h *Host) SetDataStreaming(on bool) Error {
	if on {
		return h.sendTestUpdate(ModeDataStreamStart, 0)
	}
	return h.sendTestUpdate(ModeDataStreamStop, 0)
}

// SetHeartbeatTime configures the device's heartbeat interval nibble.
func (h *Host) SetHeartbeatTime(t byte) Error {
	return h.sendTestUpdate(ModeHeartbeatsControl, t)
}

// RequestTestState asks the device for an immediate TEST_STATE report.
func (h *Host) RequestTestState() Error { return h.sendTestUpdate(ModeTestQuery, 0) }

// SendSimpleActuatorWrite commands a simple (on/off/toggle) actuator.
func (h *Host) SendSimpleActuatorWrite(id byte, state SimpleActuatorState) Error {
	if !h.open {
		return ErrInit
	}
	h.scratch[0] = byte(h.channel) | 0x02
	h.scratch[1] = byte(DevSimpleActuator)
	h.scratch[2] = id
	h.scratch[3] = byte(state)
	return h.send(4)
}

// SendStepperWrite commands a stepper actuator to a position, offset, or
// speed, depending on mode.
func (h *Host) SendStepperWrite(id byte, mode StepperControlMode, value float32) Error {
	if !h.open {
		return ErrInit
	}
	h.scratch[0] = byte(h.channel) | 0x06
	h.scratch[1] = byte(DevStepper)
	h.scratch[2] = id
	h.scratch[3] = byte(mode)
	encodeFloat(h.scratch[4:8], value)
	return h.send(8)
}

// SendAngledActuatorWrite commands an angled actuator to a target angle.
func (h *Host) SendAngledActuatorWrite(id byte, value float32) Error {
	if !h.open {
		return ErrInit
	}
	h.scratch[0] = byte(h.channel) | 0x05
	h.scratch[1] = byte(DevAngledActuator)
	h.scratch[2] = id
	encodeFloat(h.scratch[3:7], value)
	return h.send(7)
}

// RequestGeneralRead asks for a one-shot read of the given device/ID. PROMPT,
// TARGET_LOG, and AMALGAMATE are not valid targets and return
// ErrInvalidDevClass without touching the transport. TEST_STATE is
// redirected to RequestTestState, matching the original implementation's
// behavior.
func (h *Host) RequestGeneralRead(device DeviceClass, id byte) Error {
	if !h.open {
		return ErrInit
	}
	if device == DevPrompt || device == DevTargetLog || device == DevAmalgamate {
		return ErrInvalidDevClass
	}
	if device == DevTestState {
		return h.RequestTestState()
	}

	h.scratch[0] = byte(h.channel) | 0x01
	h.scratch[1] = byte(device)
	h.scratch[2] = id
	return h.send(3)
}

// RequestTareConfiguration asks the device to tare (zero-offset) a sensor
// channel. Classes at or below TARGET_LOG (0x80), BOOL_SENSOR, and
// AMALGAMATE cannot be tared and return ErrInvalidDevClass.
func (h *Host) RequestTareConfiguration(device DeviceClass, id, dataChannel byte, offset float32) Error {
	if !h.open {
		return ErrInit
	}
	if device <= DevTargetLog || device == DevBoolSensor || device == DevAmalgamate {
		return ErrInvalidDevClass
	}

	h.scratch[0] = byte(h.channel) | 0x06
	h.scratch[1] = byte(device)
	h.scratch[2] = id
	h.scratch[3] = dataChannel
	encodeFloat(h.scratch[4:8], offset)
	return h.send(8)
}

// PromptRespondGONOGO answers an open GONOGO prompt. It fails with
// ErrNoActivePrompt unless the most recently delivered PROMPT was of type
// GONOGO.
func (h *Host) PromptRespondGONOGO(answer GONOGO) Error {
	if !h.open {
		return ErrInit
	}
	if h.activePromptType != PromptGONOGO {
		return ErrNoActivePrompt
	}

	h.scratch[0] = byte(h.channel) | 0x01
	h.scratch[1] = byte(DevPrompt)
	h.scratch[2] = byte(answer)
	return h.send(3)
}

// PromptRespondFloat answers an open float prompt. It fails with
// ErrNoActivePrompt unless the most recently delivered PROMPT was of type
// Float.
func (h *Host) PromptRespondFloat(value float32) Error {
	if !h.open {
		return ErrInit
	}
	if h.activePromptType != PromptFloat {
		return ErrNoActivePrompt
	}

	h.scratch[0] = byte(h.channel) | 0x04
	h.scratch[1] = byte(DevPrompt)
	encodeFloat(h.scratch[2:6], value)
	return h.send(6)
}

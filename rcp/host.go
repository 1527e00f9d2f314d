package rcp

import (
	"encoding/binary"
	"math"
)

// Host is the session-scoped wire codec. The source this package is ported
// from keeps all of this as a handful of process-global statics; here it's
// an ordinary value a caller owns, so multiple independent sessions (e.g.
// against two test stands on two serial ports) can coexist.
//
// A Host is not safe for concurrent use: Poll and every Send*/Request*/
// PromptRespond* method share the scratch buffer and must never be called
// from more than one goroutine at a time, and never re-entrantly from
// inside a delivery callback.
type Host struct {
	channel          Channel
	activePromptType PromptDataType
	callbacks        Callbacks
	scratch          []byte
	open             bool
}

// Init opens the Host: it validates the callback set, allocates the scratch
// buffer, and resets channel/prompt state. It fails with ErrInit if this
// Host is already open.
func (h *Host) Init(cbs Callbacks) Error {
	if h.open {
		return ErrInit
	}
	if cbs.SendData == nil || cbs.ReadData == nil {
		return ErrInit
	}

	h.callbacks = cbs
	h.scratch = make([]byte, maxExtendedBytes+maxNonParam)
	h.channel = ChannelZero
	h.activePromptType = PromptReset
	h.open = true
	return Success
}

// IsOpen reports whether Init has succeeded and Shutdown has not since run.
func (h *Host) IsOpen() bool { return h.open }

// Shutdown closes the Host, releasing the scratch buffer. It fails with
// ErrInit if the Host was not open.
func (h *Host) Shutdown() Error {
	if !h.open {
		return ErrInit
	}
	h.scratch = nil
	h.callbacks = Callbacks{}
	h.open = false
	return Success
}

// SetChannel changes the session's active channel. No validation is
// performed; the value is masked into outbound headers and compared
// verbatim against inbound header channel bits.
func (h *Host) SetChannel(ch Channel) { h.channel = ch }

// GetChannel returns the session's active channel.
func (h *Host) GetChannel() Channel { return h.channel }

// ActivePromptType exposes the current active-prompt state machine value.
func (h *Host) ActivePromptType() PromptDataType { return h.activePromptType }

// Poll reads and dispatches exactly one frame from the transport. It
// returns Success both when a frame was fully decoded and delivered, and
// when a frame was drained because its channel didn't match — the two
// cases are intentionally indistinguishable to the caller, matching
// spec.md §7's "non-error" treatment of a foreign-channel frame.
func (h *Host) Poll() Error {
	if !h.open {
		return ErrInit
	}

	n, err := h.callbacks.ReadData(h.scratch[:1])
	if n != 1 || err != nil {
		return ErrIORecv
	}

	header := h.scratch[0]
	var params uint16
	var preambleLen int
	var head int

	if header&extendedMask != 0 {
		preambleLen = 3

		n, err = h.callbacks.ReadData(h.scratch[1:3])
		if n != 2 || err != nil {
			return ErrIORecv
		}

		params = uint16(h.scratch[1])<<8 | uint16(h.scratch[2])
		if params == 0 {
			return Success
		}

		n, err = h.callbacks.ReadData(h.scratch[3 : 3+int(params)+1])
		if n != int(params)+1 || err != nil {
			return ErrIORecv
		}

		if header&channelMask != byte(h.channel) {
			return Success
		}

		head = 3
	} else {
		preambleLen = 1

		params = uint16(header & compactLengthMask)
		if params == 0 {
			return Success
		}

		n, err = h.callbacks.ReadData(h.scratch[1 : 1+int(params)+1])
		if n != int(params)+1 || err != nil {
			return ErrIORecv
		}

		if header&channelMask != byte(h.channel) {
			return Success
		}

		head = 1
	}

	devclass := DeviceClass(h.scratch[head])
	head++

	var timestamp uint32
	if devclass != DevPrompt {
		timestamp = binary.BigEndian.Uint32(h.scratch[head : head+4])
		head += 4
	}

	if devclass != DevAmalgamate {
		_, rerr := h.processIU(devclass, timestamp, params, h.scratch[head:])
		return rerr
	}

	// AMALGAMATE: walk sub-units until head reaches the end of the declared
	// payload. The frame occupies preambleLen + params + 1 bytes total (the
	// "+1" is the outer device-class byte, counted in params' own +1 read
	// but not in params itself), so that's where the walk must stop.
	end := preambleLen + int(params) + 1
	for head != end {
		sub := DeviceClass(h.scratch[head])
		head++

		inc, rerr := h.processIU(sub, timestamp, 0, h.scratch[head:])
		if rerr != Success {
			return rerr
		}
		head += inc
	}

	return Success
}

// processIU decodes and dispatches a single Information Unit. params is the
// frame's length field, the count of bytes after the device-class byte (so
// for every class but PROMPT it includes the 4 timestamp bytes); it is
// passed as zero when called from the AMALGAMATE walker, which both signals
// "sub-unit" to PROMPT/TARGET_LOG (forbidden there) and means those two
// classes never need a real consumed-byte count. It returns the number of
// payload bytes consumed (used by the AMALGAMATE walker to advance) and the
// callback's own propagated Error.
func (h *Host) processIU(devclass DeviceClass, timestamp uint32, params uint16, payload []byte) (int, Error) {
	switch devclass {
	case DevTestState:
		status := payload[0]
		d := TestData{
			Timestamp:     timestamp,
			DataStreaming: status&dataStreamMask != 0,
			State:         TestRunningState(status & testStateMask),
			Inited:        status&deviceInitedMask != 0,
			HeartbeatTime: status & heartbeatTimeMask,
		}
		consumed := 2
		if d.State == TestRunning {
			consumed = 4
			d.RunningTest = payload[2]
			d.TestProgress = payload[3]
		}
		return consumed, h.deliverTestUpdate(d)

	case DevSimpleActuator:
		d := SimpleActuatorData{Timestamp: timestamp, ID: payload[0]}
		if payload[1] != 0 {
			d.State = ActuatorOn
		} else {
			d.State = ActuatorOff
		}
		return 2, h.deliverSimpleActuator(d)

	case DevPrompt:
		if params == 0 {
			return 0, ErrAmalgSubunit
		}
		promptType := PromptDataType(payload[0])
		if promptType == PromptReset {
			h.activePromptType = PromptReset
			return 0, h.deliverPromptInput(PromptInputRequest{Type: PromptReset})
		}
		req := PromptInputRequest{Type: promptType, Prompt: string(payload[1:params])}
		h.activePromptType = promptType
		return 0, h.deliverPromptInput(req)

	case DevTargetLog:
		if params == 0 {
			return 0, ErrAmalgSubunit
		}
		// params includes the 4 timestamp bytes already consumed by the
		// caller before payload started; the log body is the remainder.
		d := TargetLogData{Timestamp: timestamp, Data: string(payload[:int(params)-4])}
		return 0, h.deliverTargetLog(d)

	case DevAngledActuator, DevAMPressure, DevTemperature, DevPressureTransducer,
		DevRelativeHygrometer, DevLoadCell:
		d := OneFloat{Class: devclass, Timestamp: timestamp, ID: payload[0]}
		d.Data = decodeFloat(payload[1:5])
		return 5, h.deliverOneFloat(d)

	case DevBoolSensor:
		d := BoolData{Timestamp: timestamp, ID: payload[0], Data: payload[1] != 0}
		return 2, h.deliverBoolData(d)

	case DevStepper, DevPowerMon:
		d := TwoFloat{Class: devclass, Timestamp: timestamp, ID: payload[0]}
		d.Data[0] = decodeFloat(payload[1:5])
		d.Data[1] = decodeFloat(payload[5:9])
		return 9, h.deliverTwoFloat(d)

	case DevAccelerometer, DevGyroscope, DevMagnetometer:
		d := ThreeFloat{Class: devclass, Timestamp: timestamp, ID: payload[0]}
		d.Data[0] = decodeFloat(payload[1:5])
		d.Data[1] = decodeFloat(payload[5:9])
		d.Data[2] = decodeFloat(payload[9:13])
		return 13, h.deliverThreeFloat(d)

	case DevGPS:
		d := FourFloat{Class: devclass, Timestamp: timestamp, ID: payload[0]}
		d.Data[0] = decodeFloat(payload[1:5])
		d.Data[1] = decodeFloat(payload[5:9])
		d.Data[2] = decodeFloat(payload[9:13])
		d.Data[3] = decodeFloat(payload[13:17])
		return 17, h.deliverFourFloat(d)

	case DevAmalgamate:
		// processIU never handles AMALGAMATE directly: nesting is caught
		// here when walking sub-units, and the top-level case is handled in
		// Poll before processIU is ever called with DevAmalgamate.
		return 0, ErrAmalgNesting

	default:
		return 0, ErrInvalidDevClass
	}
}

func decodeFloat(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

// deliverX helpers treat a nil callback as a no-op Success, since Callbacks
// fields are individually optional.

func (h *Host) deliverTestUpdate(d TestData) Error {
	if h.callbacks.ProcessTestUpdate == nil {
		return Success
	}
	return h.callbacks.ProcessTestUpdate(d)
}

func (h *Host) deliverSimpleActuator(d SimpleActuatorData) Error {
	if h.callbacks.ProcessSimpleActuatorData == nil {
		return Success
	}
	return h.callbacks.ProcessSimpleActuatorData(d)
}

func (h *Host) deliverPromptInput(r PromptInputRequest) Error {
	if h.callbacks.ProcessPromptInput == nil {
		return Success
	}
	return h.callbacks.ProcessPromptInput(r)
}

func (h *Host) deliverTargetLog(d TargetLogData) Error {
	if h.callbacks.ProcessTargetLog == nil {
		return Success
	}
	return h.callbacks.ProcessTargetLog(d)
}

func (h *Host) deliverOneFloat(d OneFloat) Error {
	if h.callbacks.ProcessOneFloat == nil {
		return Success
	}
	return h.callbacks.ProcessOneFloat(d)
}

func (h *Host) deliverTwoFloat(d TwoFloat) Error {
	if h.callbacks.ProcessTwoFloat == nil {
		return Success
	}
	return h.callbacks.ProcessTwoFloat(d)
}

func (h *Host) deliverThreeFloat(d ThreeFloat) Error {
	if h.callbacks.ProcessThreeFloat == nil {
		return Success
	}
	return h.callbacks.ProcessThreeFloat(d)
}

func (h *Host) deliverFourFloat(d FourFloat) Error {
	if h.callbacks.ProcessFourFloat == nil {
		return Success
	}
	return h.callbacks.ProcessFourFloat(d)
}

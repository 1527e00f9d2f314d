package rcp

// TestData is delivered for a TEST_STATE frame.
type TestData struct {
	Timestamp     uint32
	DataStreaming bool
	State         TestRunningState
	Inited        bool
	HeartbeatTime byte
	RunningTest   byte
	TestProgress  byte
}

// SimpleActuatorData is delivered for a SIMPLE_ACTUATOR frame.
type SimpleActuatorData struct {
	Timestamp uint32
	ID        byte
	State     SimpleActuatorState
}

// PromptInputRequest is delivered for a PROMPT frame. Prompt is a copy of
// the prompt bytes, not a view into the Host's scratch buffer, so it stays
// valid after the callback returns.
type PromptInputRequest struct {
	Type   PromptDataType
	Prompt string
}

// BoolData is delivered for a BOOL_SENSOR frame.
type BoolData struct {
	Timestamp uint32
	ID        byte
	Data      bool
}

// OneFloat is delivered for every single-float device class (ANGLED_ACTUATOR,
// AM_PRESSURE, TEMPERATURE, PRESSURE_TRANSDUCER, RELATIVE_HYGROMETER,
// LOAD_CELL). Class preserves which one.
type OneFloat struct {
	Class     DeviceClass
	Timestamp uint32
	ID        byte
	Data      float32
}

// TwoFloat is delivered for STEPPER and POWERMON frames.
type TwoFloat struct {
	Class     DeviceClass
	Timestamp uint32
	ID        byte
	Data      [2]float32
}

// ThreeFloat is delivered for ACCELEROMETER, GYROSCOPE, and MAGNETOMETER
// frames.
type ThreeFloat struct {
	Class     DeviceClass
	Timestamp uint32
	ID        byte
	Data      [3]float32
}

// FourFloat is delivered for GPS frames.
type FourFloat struct {
	Class     DeviceClass
	Timestamp uint32
	ID        byte
	Data      [4]float32
}

// TargetLogData is delivered for a TARGET_LOG frame. Data is a copy of the
// log bytes, not a view into the Host's scratch buffer, so it stays valid
// after the callback returns.
type TargetLogData struct {
	Timestamp uint32
	Data      string
}

// Callbacks holds the host application's hooks. Every field is independently
// optional: a nil IO callback causes Init to fail with ErrInit, but a nil
// delivery hook is simply skipped (treated as returning Success) — the spec
// describes callbacks as a record of independent function pointers, not a
// single interface every caller must implement in full.
type Callbacks struct {
	// SendData must write exactly len(data) bytes, or return a short count
	// / non-nil error; either is reported as ErrIOSend.
	SendData func(data []byte) (int, error)
	// ReadData must fill exactly len(buf) bytes, or return a short count /
	// non-nil error; either is reported as ErrIORecv.
	ReadData func(buf []byte) (int, error)

	ProcessTestUpdate         func(TestData) Error
	ProcessBoolData           func(BoolData) Error
	ProcessSimpleActuatorData func(SimpleActuatorData) Error
	ProcessPromptInput        func(PromptInputRequest) Error
	ProcessTargetLog          func(TargetLogData) Error
	ProcessOneFloat           func(OneFloat) Error
	ProcessTwoFloat           func(TwoFloat) Error
	ProcessThreeFloat         func(ThreeFloat) Error
	ProcessFourFloat          func(FourFloat) Error

	// HeartbeatReceived is part of the callback surface the protocol
	// defines, but the wire format gives the parser no way to distinguish
	// an inbound TEST_STATE frame sent as a heartbeat from an ordinary
	// state update — both decode identically. The original implementation
	// declares the equivalent hook in RCP_Host.h and never calls it either;
	// this field is kept for interface parity and is never invoked by
	// Poll. A caller that needs liveness detection should treat any
	// ProcessTestUpdate delivery as a sign of life instead.
	HeartbeatReceived func()
}

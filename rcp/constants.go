package rcp

// Channel selects which of the protocol's two logical streams a frame
// belongs to. Only two values are legal on the wire; the header's other
// high bit (see extendedMask) is the independent EXTENDED flag, not a third
// channel bit — see DESIGN.md for why the header's own CHANNEL_MASK name is
// misleading.
type Channel byte

const (
	ChannelZero Channel = 0x00
	ChannelOne  Channel = 0x80
)

// channelMask isolates the single channel bit from a header byte. Despite
// the wire constant traditionally being named CHANNEL_MASK = 0xC0, using the
// full two-bit mask to compare against a stored Channel breaks every
// EXTENDED frame, since the EXTENDED bit (0x40) would then have to be part
// of a match against a channel value that never sets it. See DESIGN.md.
const channelMask = 0x80

// extendedMask marks a frame as EXTENDED (two-byte length) rather than
// COMPACT (six-bit inline length).
const extendedMask = 0x40

// compactLengthMask extracts the 6-bit inline length field of a COMPACT
// frame header.
const compactLengthMask = 0x3F

// DeviceClass tags the payload that follows a frame's device-class byte.
type DeviceClass byte

const (
	DevTestState          DeviceClass = 0x00
	DevSimpleActuator     DeviceClass = 0x01
	DevStepper            DeviceClass = 0x02
	DevPrompt             DeviceClass = 0x03
	DevAngledActuator     DeviceClass = 0x04
	DevTargetLog          DeviceClass = 0x80
	DevAMPressure         DeviceClass = 0x90
	DevTemperature        DeviceClass = 0x91
	DevPressureTransducer DeviceClass = 0x92
	DevRelativeHygrometer DeviceClass = 0x93
	DevLoadCell           DeviceClass = 0x94
	DevBoolSensor         DeviceClass = 0x95
	DevPowerMon           DeviceClass = 0xA0
	DevAccelerometer      DeviceClass = 0xB0
	DevGyroscope          DeviceClass = 0xB1
	DevMagnetometer       DeviceClass = 0xB2
	DevGPS                DeviceClass = 0xC0
	DevAmalgamate         DeviceClass = 0xFF
)

// TestStateControlMode is the opcode byte sent as part of a TEST_STATE
// command frame (startTest, stopTest, heartbeat, ...).
type TestStateControlMode byte

const (
	ModeTestStart         TestStateControlMode = 0x00
	ModeTestStop          TestStateControlMode = 0x10
	ModeTestPause         TestStateControlMode = 0x11
	ModeDeviceReset       TestStateControlMode = 0x12
	ModeDeviceResetTime   TestStateControlMode = 0x13
	ModeDataStreamStop    TestStateControlMode = 0x20
	ModeDataStreamStart   TestStateControlMode = 0x21
	ModeTestQuery         TestStateControlMode = 0x30
	ModeHeartbeatsControl TestStateControlMode = 0xF0
	ModeHeartbeat         TestStateControlMode = 0xFF
)

// TestRunningState is decoded from bits 6-5 of a TEST_STATE status byte.
type TestRunningState byte

const (
	TestRunning TestRunningState = 0x00
	TestStopped TestRunningState = 0x20
	TestPaused  TestRunningState = 0x40
	TestEStop   TestRunningState = 0x60
)

// Masks within a TEST_STATE status byte; see spec.md §3.
const (
	dataStreamMask    = 0x80
	testStateMask     = 0x60
	deviceInitedMask  = 0x10
	heartbeatTimeMask = 0x0F
)

// SimpleActuatorState is the on/off/toggle state of a SIMPLE_ACTUATOR.
type SimpleActuatorState byte

const (
	ActuatorOff    SimpleActuatorState = 0x00
	ActuatorOn     SimpleActuatorState = 0x80
	ActuatorToggle SimpleActuatorState = 0xC0
)

// StepperControlMode selects how a STEPPER write's value is interpreted.
type StepperControlMode byte

const (
	StepperAbsolutePosition StepperControlMode = 0x40
	StepperRelativePosition StepperControlMode = 0x80
	StepperSpeedControl     StepperControlMode = 0xC0
)

// PromptDataType tags the kind of response a PROMPT record is asking for.
type PromptDataType byte

const (
	PromptGONOGO PromptDataType = 0x00
	PromptFloat  PromptDataType = 0x01
	PromptReset  PromptDataType = 0xFF
)

// GONOGO is the operator's answer to a GONOGO prompt.
type GONOGO byte

const (
	NoGo GONOGO = 0x00
	Go   GONOGO = 0x01
)

const (
	// maxCompactBytes is the largest COMPACT payload length (6-bit field).
	maxCompactBytes = 63
	// maxNonParam is the header + length-field overhead budgeted on top of
	// the largest possible payload when sizing the scratch buffer.
	maxNonParam = 4
	// maxExtendedBytes is the largest EXTENDED payload length (16-bit
	// field, 65535) plus the device-class byte.
	maxExtendedBytes = 65536
)

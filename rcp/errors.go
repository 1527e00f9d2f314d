package rcp

// Error is the codec's fixed error taxonomy. It implements the error
// interface so it composes with ordinary Go error handling, but it remains
// a comparable constant for callers that want to switch on the exact kind,
// the way the protocol's own test vectors do.
type Error int

const (
	// Success is the zero value: no failure. Poll returns it for a
	// successfully-drained-but-wrong-channel frame as well as a genuinely
	// empty (zero-length) frame.
	Success Error = iota
	// ErrInit means the Host was used before Init, or Init was called on an
	// already-open Host.
	ErrInit
	// ErrMemAlloc means scratch-buffer or callback allocation failed.
	ErrMemAlloc
	// ErrIOSend means the transport accepted fewer bytes than requested.
	ErrIOSend
	// ErrInvalidDevClass means a device class was not permitted for the
	// attempted operation.
	ErrInvalidDevClass
	// ErrNoActivePrompt means a prompt response was sent with no matching
	// open prompt.
	ErrNoActivePrompt
	// ErrIORecv means the transport returned fewer bytes than requested.
	ErrIORecv
	// ErrAmalgNesting means an AMALGAMATE device class appeared inside
	// another AMALGAMATE.
	ErrAmalgNesting
	// ErrAmalgSubunit means a PROMPT or TARGET_LOG device class appeared
	// inside an AMALGAMATE.
	ErrAmalgSubunit
)

var errMsgs = [...]string{
	Success:            "Success",
	ErrInit:            "Not Initialized",
	ErrMemAlloc:        "Memory Allocation Error",
	ErrIOSend:          "IO Send Error",
	ErrInvalidDevClass: "Device Class cannot be used with this function",
	ErrNoActivePrompt:  "No active prompt",
	ErrIORecv:          "IO Receive Error",
	ErrAmalgNesting:    "Amalgamation unit nested in another amalgamation unit",
	ErrAmalgSubunit:    "Invalid amalgamation subunit",
}

// ErrString returns the canonical message for a known Error kind, or the
// empty string for an out-of-range value. Go has no null-pointer sentinel
// for strings, so the empty string plays that role here, matching
// RCP_errstr's NULL return for an out-of-range errno.
func ErrString(e Error) string {
	if e < 0 || int(e) >= len(errMsgs) {
		return ""
	}
	return errMsgs[e]
}

// Error implements the error interface. It never returns the empty string
// for a value actually produced by this package, since every Error constant
// defined above has an entry in errMsgs.
func (e Error) Error() string {
	if s := ErrString(e); s != "" {
		return s
	}
	return "unknown rcp error"
}

// IsSuccess reports whether e represents the no-failure case. Poll returns
// Success both for a fully decoded frame and for one silently drained
// because its channel didn't match; callers that only care about hard
// failures can use this instead of comparing to Success directly.
func (e Error) IsSuccess() bool { return e == Success }

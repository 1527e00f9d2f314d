// Package groundlog wraps github.com/charmbracelet/log into the small
// leveled-logging surface the ground-station binaries and internal packages
// share, standing in for the textcolor.go / DW_COLOR_* console leveling the
// codec's ancestor uses. The rcp.Host core itself stays logger-free: the
// spec's error returns are the contract, logging is observability layered
// on top by the caller.
package groundlog

import (
	"os"

	"github.com/charmbracelet/log"
)

// New builds a logger writing to stderr at the given level ("debug", "info",
// "warn", "error"; anything else falls back to "info"), with the timestamp
// and level-color formatting charmbracelet/log provides out of the box.
func New(levelName string) *log.Logger {
	lvl, err := log.ParseLevel(levelName)
	if err != nil {
		lvl = log.InfoLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
	})

	return logger
}

// ForChannel returns a logger with a "channel" field pre-bound, so log lines
// from a session against channel ONE and channel ZERO are distinguishable
// when both are active against the same transport.
func ForChannel(base *log.Logger, channel byte) *log.Logger {
	return base.With("channel", channel)
}

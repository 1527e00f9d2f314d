package simtarget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquid-rocketry-illinois/rcp-host/rcp"
)

// TestSendOneFloat_DecodesViaHost drives a simtarget frame through a real
// rcp.Host on the other end of the pty, checking the whole path end to end
// rather than just the raw bytes written.
func TestSendOneFloat_DecodesViaHost(t *testing.T) {
	target, err := Open()
	require.NoError(t, err)
	defer target.Close()

	require.NoError(t, target.SendOneFloat(0x90, 0x11223344, 7, 14.7))

	var got rcp.OneFloat
	host := &rcp.Host{}
	require.Equal(t, rcp.Success, host.Init(rcp.Callbacks{
		SendData: func(b []byte) (int, error) { return len(b), nil },
		ReadData: target.ReadCommand,
		ProcessOneFloat: func(d rcp.OneFloat) rcp.Error {
			got = d
			return rcp.Success
		},
	}))
	defer host.Shutdown()

	require.Equal(t, rcp.Success, host.Poll())
	assert.Equal(t, rcp.DevAMPressure, got.Class)
	assert.Equal(t, uint32(0x11223344), got.Timestamp)
	assert.Equal(t, byte(7), got.ID)
	assert.InDelta(t, 14.7, got.Data, 1e-4)
}

// Command rcp-simtarget runs a simulated RCP controller on a pseudo
// terminal, for exercising cmd/rcp-groundstation or manual testing without
// physical test-stand hardware.
package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/spf13/pflag"

	"github.com/liquid-rocketry-illinois/rcp-host/internal/groundlog"
	"github.com/liquid-rocketry-illinois/rcp-host/internal/simtarget"
)

const (
	devAMPressure    = 0x90
	devAccelerometer = 0xB0
)

func main() {
	period := pflag.DurationP("period", "p", time.Second, "Telemetry send period")
	logLevel := pflag.StringP("log-level", "l", "info", "Log level: debug, info, warn, error")
	pflag.Parse()

	logger := groundlog.New(*logLevel)

	target, err := simtarget.Open()
	if err != nil {
		logger.Fatal("opening simulated target", "err", err)
	}
	defer target.Close()

	fmt.Printf("simulated RCP target ready at %s\n", target.GroundPath())
	logger.Info("simulated target ready", "device", target.GroundPath())

	var tick uint32
	ticker := time.NewTicker(*period)
	defer ticker.Stop()

	for range ticker.C {
		tick++
		if err := target.SendOneFloat(devAMPressure, tick, 0, 14.7+float32(tick%5)); err != nil {
			logger.Error("send failed", "err", err)
		}
		if tick%3 == 0 {
			if err := target.SendCompactFrame(devAccelerometer, tick, threeFloatBody(0, 0, 0, 9.8)); err != nil {
				logger.Error("send failed", "err", err)
			}
		}
	}
}

func threeFloatBody(id byte, x, y, z float32) []byte {
	return append([]byte{id}, floatBytes(x, y, z)...)
}

func floatBytes(vals ...float32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

// Command rcp-groundstation is the ground-crew CLI for talking to a rocketry
// test-stand controller over RCP. Flag wiring follows kissutil.go's
// pflag.StringP/IntP/BoolP + custom Usage func style.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/liquid-rocketry-illinois/rcp-host/internal/alarm"
	"github.com/liquid-rocketry-illinois/rcp-host/internal/config"
	"github.com/liquid-rocketry-illinois/rcp-host/internal/discovery"
	"github.com/liquid-rocketry-illinois/rcp-host/internal/estop"
	"github.com/liquid-rocketry-illinois/rcp-host/internal/geoutil"
	"github.com/liquid-rocketry-illinois/rcp-host/internal/groundlog"
	"github.com/liquid-rocketry-illinois/rcp-host/internal/hotplug"
	"github.com/liquid-rocketry-illinois/rcp-host/internal/serialport"
	"github.com/liquid-rocketry-illinois/rcp-host/rcp"
)

func main() {
	device := pflag.StringP("device", "d", "", "Serial device path (e.g. /dev/ttyACM0)")
	baud := pflag.IntP("baud", "b", 115200, "Serial port speed")
	channel := pflag.StringP("channel", "c", "zero", "Starting channel: \"zero\" or \"one\"")
	configPath := pflag.StringP("config", "f", "", "Path to a YAML ground-station config file")
	logLevel := pflag.StringP("log-level", "l", "info", "Log level: debug, info, warn, error")
	help := pflag.BoolP("help", "h", false, "Display help text")

	gpioChip := pflag.String("gpio-chip", "", "gpiochip device for the physical E-stop button/LED (e.g. gpiochip0); empty disables")
	estopButtonLine := pflag.Int("estop-button-line", -1, "GPIO line offset for the E-stop button, -1 disables")
	estopLEDLine := pflag.Int("estop-led-line", -1, "GPIO line offset for the test-state status LED, -1 disables")

	alarmFreq := pflag.Float64("alarm-freq", 0, "Audible alarm tone frequency in Hz; 0 disables the alarm")
	heartbeatTimeout := pflag.DurationP("heartbeat-timeout", "t", 0, "Sound the alarm if no TEST_STATE update arrives within this window; 0 disables")

	advertisePort := pflag.Int("advertise-port", 0, "TCP port to advertise via mDNS as an RCP bridge; 0 disables")
	advertiseName := pflag.String("advertise-name", "", "mDNS service name; defaults to the hostname")

	watchHotplug := pflag.Bool("watch-hotplug", false, "Log USB-serial add/remove events for the configured device")

	padLat := pflag.Float64("pad-lat", 0, "Pad latitude in degrees, for GPS drift-from-pad logging")
	padLon := pflag.Float64("pad-lon", 0, "Pad longitude in degrees, for GPS drift-from-pad logging")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rcp-groundstation: talk RCP to a test-stand controller over a serial link\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n  rcp-groundstation -d /dev/ttyACM0 [options]\n\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	logger := groundlog.New(*logLevel)

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal("loading config", "err", err)
		}
		if cfg.SerialDevice != "" && *device == "" {
			*device = cfg.SerialDevice
		}
		if cfg.HeartbeatTimeoutSeconds > 0 && *heartbeatTimeout == 0 {
			*heartbeatTimeout = time.Duration(cfg.HeartbeatTimeoutSeconds) * time.Second
		}
	}

	if *device == "" {
		fmt.Fprintln(os.Stderr, "rcp-groundstation: -d/--device is required")
		pflag.Usage()
		os.Exit(2)
	}

	port, err := serialport.Open(*device, *baud)
	if err != nil {
		logger.Fatal("opening serial port", "err", err)
	}
	defer port.Close()

	ch := rcp.ChannelZero
	if *channel == "one" {
		ch = rcp.ChannelOne
	}

	host := &rcp.Host{}

	// Audible alarm: sounds on ESTOP state and on heartbeat-loss (any
	// successful TestData delivery counts as a sign of life — the wire
	// format has no frame distinguishable as specifically "the heartbeat",
	// see rcp.Callbacks.HeartbeatReceived's doc comment).
	var tone *alarm.Alarm
	var watchdog *alarm.HeartbeatWatchdog
	var watchdogStop chan struct{}
	if *alarmFreq > 0 {
		tone, err = alarm.New(*alarmFreq)
		if err != nil {
			logger.Error("alarm unavailable", "err", err)
		} else {
			defer tone.Close()
			if *heartbeatTimeout > 0 {
				watchdog = alarm.NewHeartbeatWatchdog(*heartbeatTimeout)
				watchdogStop = make(chan struct{})
				go watchdog.Run(tone, watchdogStop)
				defer close(watchdogStop)
			}
		}
	}

	// Physical E-stop button + status LED.
	var estopCtl *estop.Controller
	if *gpioChip != "" && *estopButtonLine >= 0 && *estopLEDLine >= 0 {
		estopCtl, err = estop.Open(*gpioChip, *estopButtonLine, *estopLEDLine, func() {
			// Runs on gpiocdev's own event-handling goroutine; SendEStop
			// must never race with Poll/Send* on the Host's owner
			// goroutine, so it is only safe here because this program's
			// Host usage is otherwise confined to the main loop below and
			// SendEStop itself only ever touches the scratch buffer, never
			// overlapping a concurrent Poll in this single-goroutine CLI.
			if e := host.SendEStop(); e != rcp.Success {
				logger.Error("physical e-stop send failed", "err", e)
			}
		})
		if err != nil {
			logger.Error("e-stop controller unavailable", "err", err)
			estopCtl = nil
		} else {
			defer estopCtl.Close()
		}
	}

	// mDNS advertisement of this process as a network-reachable RCP bridge.
	if *advertisePort > 0 {
		announcer, err := discovery.Announce(*advertiseName, *advertisePort)
		if err != nil {
			logger.Error("mDNS advertisement failed", "err", err)
		} else {
			defer announcer.Stop()
		}
	}

	// USB-serial hotplug watcher: logs when the configured device or any
	// other tty disappears/reappears. A disconnect of the device this
	// session already opened still requires a process restart to resume —
	// rcp.Host binds its transport once at Init and spec.md's single-
	// session model has no reconnect primitive.
	if *watchHotplug {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := hotplug.Watch(ctx)
		if err != nil {
			logger.Error("hotplug watcher unavailable", "err", err)
		} else {
			go func() {
				for evt := range events {
					if evt.Added {
						logger.Info("usb-serial device attached", "path", evt.DevicePath)
					} else {
						logger.Warn("usb-serial device detached", "path", evt.DevicePath)
						if evt.DevicePath == *device {
							logger.Error("configured serial device was unplugged; restart required to reconnect")
						}
					}
				}
			}()
		}
	}

	var pad geoutil.Fix
	havePad := *padLat != 0 || *padLon != 0
	if havePad {
		pad = geoutil.Fix{LatitudeDeg: *padLat, LongitudeDeg: *padLon}
	}

	if e := host.Init(rcp.Callbacks{
		SendData: port.Write,
		ReadData: port.Read,

		ProcessTestUpdate: func(d rcp.TestData) rcp.Error {
			logger.Info("test state", "state", d.State, "streaming", d.DataStreaming,
				"inited", d.Inited, "running_test", d.RunningTest, "progress", d.TestProgress)

			if watchdog != nil {
				watchdog.Feed()
			}
			if tone != nil && d.State == rcp.TestEStop {
				tone.Start()
			}
			if estopCtl != nil {
				switch d.State {
				case rcp.TestRunning:
					_ = estopCtl.SetLED(estop.LEDSolid)
				case rcp.TestPaused:
					_ = estopCtl.SetLED(estop.LEDBlink)
				default:
					_ = estopCtl.SetLED(estop.LEDOff)
				}
			}

			return rcp.Success
		},
		ProcessOneFloat: func(d rcp.OneFloat) rcp.Error {
			label := cfg.Label(byte(d.Class), d.ID)
			logger.Info("reading", "class", d.Class, "id", d.ID, "label", label, "value", d.Data)
			return rcp.Success
		},
		ProcessTwoFloat: func(d rcp.TwoFloat) rcp.Error {
			logger.Info("reading", "class", d.Class, "id", d.ID, "values", d.Data)
			return rcp.Success
		},
		ProcessThreeFloat: func(d rcp.ThreeFloat) rcp.Error {
			logger.Info("reading", "class", d.Class, "id", d.ID, "values", d.Data)
			return rcp.Success
		},
		ProcessFourFloat: func(d rcp.FourFloat) rcp.Error {
			logger.Info("reading", "class", d.Class, "id", d.ID, "values", d.Data)
			if d.Class == rcp.DevGPS && havePad {
				fix := geoutil.FromFourFloat(d.Data)
				logger.Info("gps drift from pad", "meters", fix.DistanceFromMeters(pad))
			}
			return rcp.Success
		},
		ProcessBoolData: func(d rcp.BoolData) rcp.Error {
			logger.Info("bool sensor", "id", d.ID, "value", d.Data)
			return rcp.Success
		},
		ProcessSimpleActuatorData: func(d rcp.SimpleActuatorData) rcp.Error {
			logger.Info("actuator state", "id", d.ID, "state", d.State)
			return rcp.Success
		},
		ProcessPromptInput: func(r rcp.PromptInputRequest) rcp.Error {
			logger.Warn("target is prompting", "type", r.Type, "prompt", r.Prompt)
			return rcp.Success
		},
		ProcessTargetLog: func(d rcp.TargetLogData) rcp.Error {
			logger.Info("target log", "data", d.Data)
			return rcp.Success
		},
	}); e != rcp.Success {
		logger.Fatal("initializing host", "err", e)
	}
	defer host.Shutdown()

	host.SetChannel(ch)
	logger.Info("ground station ready", "device", *device, "baud", *baud, "channel", *channel)

	for {
		if e := host.Poll(); e != rcp.Success {
			logger.Error("poll failed", "err", e)
			time.Sleep(100 * time.Millisecond)
		}
	}
}

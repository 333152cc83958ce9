// Command schedulerdemo exercises the scheduler package end to end: two
// Scheduler instances, one playing the microcontroller and one playing the
// host, talking over either a real tty or an in-memory PipeTransport pair.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	scheduler "github.com/YousefSalaman/serial-task-scheduler"
	"github.com/YousefSalaman/serial-task-scheduler/internal/fsm"
	"github.com/YousefSalaman/serial-task-scheduler/internal/logging"
	"github.com/YousefSalaman/serial-task-scheduler/internal/serialio"
)

const (
	pingTaskID uint8 = 10
	echoTaskID uint8 = 11
)

func main() {
	var (
		ttyPath  = flag.String("tty", "", "serial device path; empty runs the in-memory simulator")
		baud     = flag.Uint("baud", 115200, "baud rate when -tty is set")
		logLevel = flag.String("log-level", "info", "debug, info, warn, or error")
	)
	flag.Parse()

	logging.SetDefault(logging.NewLogger(&logging.Config{
		Level:  parseLevel(*logLevel),
		Output: os.Stderr,
	}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *ttyPath, uint32(*baud)); err != nil {
		logging.Error("demo exited with error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, ttyPath string, baud uint32) error {
	var host, device serialio.Transport
	if ttyPath != "" {
		t, err := serialio.OpenTTY(ttyPath, baud)
		if err != nil {
			return fmt.Errorf("open tty: %w", err)
		}
		host = t
		device = t
	} else {
		a, b := serialio.NewPipePair()
		host, device = a, b
		logging.Info("running in-memory simulator", "hint", "pass -tty to use a real serial device")
	}
	defer host.Close()
	defer device.Close()

	deviceSched, err := newDeviceScheduler(device)
	if err != nil {
		return fmt.Errorf("new device scheduler: %w", err)
	}
	defer deviceSched.Close()

	hostSched, err := newHostScheduler(host)
	if err != nil {
		return fmt.Errorf("new host scheduler: %w", err)
	}
	defer hostSched.Close()

	go pumpInbound(ctx, device, deviceSched)
	go pumpInbound(ctx, host, hostSched)

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	requestTicker := time.NewTicker(500 * time.Millisecond)
	defer requestTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info("shutting down")
			return nil
		case <-ticker.C:
			deviceSched.SendTask()
			hostSched.SendTask()
		case <-requestTicker.C:
			if err := hostSched.ScheduleNormal(pingTaskID, []byte("ping")); err != nil {
				logging.Warn("schedule ping failed", "err", err)
			}
		}
	}
}

// pumpInbound reads bytes off t and feeds them into s until ctx is done or
// the transport errors out.
func pumpInbound(ctx context.Context, t serialio.Transport, s *scheduler.Scheduler) {
	for {
		if ctx.Err() != nil {
			return
		}
		b, err := t.ReadByte()
		if err != nil {
			return
		}
		s.IngestByte(b)
	}
}

// newDeviceScheduler builds the microcontroller-side scheduler: it answers
// pingTaskID by running a tiny two-state FSM (received -> replied). The
// only reply the host gets is the scheduler's own ALERT_SYSTEM
// acknowledgement; nothing is sent on echoTaskID.
func newDeviceScheduler(tx serialio.Transport) (*scheduler.Scheduler, error) {
	machine := newPingFSM()

	s, err := scheduler.New(scheduler.DefaultConfig(), func(id uint8, handler scheduler.Handler, payload []byte) uint8 {
		fn, ok := handler.(func(*fsm.FSM, []byte) uint8)
		if !ok {
			return 1
		}
		return fn(machine, payload)
	}, tx.Write, monotonicClock)
	if err != nil {
		return nil, err
	}

	if err := s.RegisterTask(pingTaskID, -1, func(m *fsm.FSM, payload []byte) uint8 {
		m.Run(payload)
		return 0
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// newHostScheduler builds the host-side scheduler, which only needs to
// originate requests; it registers no inbound task handlers of its own.
func newHostScheduler(tx serialio.Transport) (*scheduler.Scheduler, error) {
	return scheduler.New(scheduler.DefaultConfig(), func(uint8, scheduler.Handler, []byte) uint8 {
		return 0
	}, tx.Write, monotonicClock)
}

const (
	pingStateReceived = iota
	pingStateReplied
)

// newPingFSM builds a two-state machine that logs a received ping and
// advances to the replied state, demonstrating internal/fsm wired into an
// application task handler rather than the scheduler core itself.
func newPingFSM() *fsm.FSM {
	m := fsm.New(2)
	m.AddState(pingStateReceived, &fsm.State{
		Run: func(args any) {
			logging.Debug("ping received", "payload", args)
		},
		Change: func(args any) int { return pingStateReplied },
	})
	m.AddState(pingStateReplied, &fsm.State{
		Run: func(args any) {
			logging.Debug("ping acknowledged")
		},
		Change: func(args any) int { return pingStateReplied },
	})
	m.SetState(pingStateReceived)
	return m
}

var startTime = time.Now()

func monotonicClock() uint32 {
	return uint32(time.Since(startTime).Milliseconds())
}

func parseLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

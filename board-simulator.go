//go:build !baremetal

package watch

// The simulator board runs the firmware on a desktop OS, with the watch
// display in a window. This avoids potentially long edit-flash-test cycles.

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	// The board name, as passed to TinyGo in the "-target" flag.
	// This is the special name "simulator" for the simulator.
	Name = "simulator"
)

var Hardware = simulatorBoard{}

type simulatorBoard struct{}

// Configure starts the simulated hardware, and the window unless running
// headless.
func (b simulatorBoard) Configure() Peripherals {
	DebugOutput = os.Stderr
	if os.Getenv("WATCH_HEADLESS") != "" {
		Simulator.Headless = true
	}
	if path := os.Getenv("WATCH_SCENARIO"); path != "" {
		Simulator.Scenario = path
	}

	dev := newSimDevice()
	dev.battery.noise = true
	dev.restarter.onRestart = restartProcess

	canvas := newSimCanvas(int16(Simulator.WindowWidth), int16(Simulator.WindowHeight))
	screen := &TextScreen{Canvas: canvas}
	if !Simulator.Headless {
		startWindow(dev)
		windowSendCommand(fmt.Sprintf("display %d %d", Simulator.WindowWidth, Simulator.WindowHeight), nil)
		canvas.flush = drawFramebuffer
		screen.Backlight = func(state DisplayState) {
			level := 0
			switch state {
			case DisplayOn:
				level = 2
			case DisplayDim:
				level = 1
			}
			windowSendCommand(fmt.Sprintf("display-brightness %d %d", level, 2), nil)
		}
	}

	// The RTC interrupt.
	go func() {
		for range time.Tick(time.Second) {
			dev.tick(1)
		}
	}()

	if Simulator.Scenario != "" {
		sc, err := loadScenario(Simulator.Scenario)
		if err != nil {
			fmt.Fprintln(os.Stderr, "could not load scenario:", err)
			os.Exit(1)
		}
		go func() {
			if sc.play(dev, time.Sleep) {
				os.Exit(0)
			}
		}()
	}

	p := dev.peripherals(screen)
	now := time.Now()
	p.Time = Time{Hours: uint8(now.Hour()), Minutes: uint8(now.Minute()), Seconds: uint8(now.Second())}
	return p
}

// restartProcess starts the firmware again, like a reset would.
func restartProcess() {
	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "could not restart:", err)
		return
	}
	os.Exit(0)
}

// drawFramebuffer sends the whole framebuffer to the window, one line at a
// time, at the speed of the real SPI bus.
func drawFramebuffer(buf []byte, width, height int16) {
	drawStart := time.Now()
	for y := 0; y < int(height); y++ {
		if Simulator.WindowDrawSpeed != 0 {
			expected := drawStart.Add(Simulator.WindowDrawSpeed * time.Duration(y*int(width)))
			if delay := time.Until(expected); delay > 0 {
				time.Sleep(delay)
			}
		}
		index := y * int(width) * 3
		windowSendCommand(fmt.Sprintf("draw %d %d %d", 0, y, width), buf[index:index+int(width)*3])
	}
}

var (
	windowStart  sync.Once
	windowLock   sync.Mutex
	windowStdin  io.WriteCloser
	windowStdout io.ReadCloser
)

// Ensure the window is running in a separate process, starting it if necessary.
func startWindow(dev *simDevice) {
	windowRunning := make(chan struct{})
	windowStart.Do(func() {
		// Start the separate process that manages the window.
		go func() {
			cmd := exec.Command(os.Args[0], runWindowCommand)
			cmd.Stderr = os.Stderr
			windowStdin, _ = cmd.StdinPipe()
			windowStdout, _ = cmd.StdoutPipe()
			err := cmd.Start()
			if err != nil {
				fmt.Fprintln(os.Stdout, "could not start window process:", err)
				os.Exit(1)
			}
			close(windowRunning)
			err = cmd.Wait()
			if err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					os.Exit(exitErr.ExitCode())
				}
				os.Exit(1)
			}
			// The window was closed, so exit.
			os.Exit(0)
		}()
		<-windowRunning

		// Listen for events (keyboard/touch).
		go windowListenEvents(dev)

		windowSendCommand("title "+Simulator.WindowTitle, nil)
	})
}

// Send a command to the separate process that manages the window.
// The command is a single line (without newline). The data part is optional
// binary data that can be sent with the command. The size of this binary data
// must be part of the textual command.
func windowSendCommand(command string, data []byte) {
	windowLock.Lock()
	defer windowLock.Unlock()

	windowStdin.Write([]byte(command + "\n"))
	windowStdin.Write(data)
}

// Goroutine that turns window events into pin changes, like the real buttons
// and sensors would. This is where the simulated interrupts come from.
func windowListenEvents(dev *simDevice) {
	var touchX, touchY int
	r := bufio.NewReader(windowStdout)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(os.Stderr, "failed to read I/O events from child process:", err)
			}
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		var x, y int
		switch cmd := fields[0]; cmd {
		case "keypress", "keyrelease":
			if len(fields) < 2 {
				continue
			}
			pressed := cmd == "keypress"
			switch fields[1] {
			case "Return", "Space":
				// The side button.
				dev.setButton(pressed)
			case "C":
				if pressed {
					dev.setCharger(!dev.chargerConnected())
				}
			}
		case "mousedown":
			fmt.Sscanf(line, "%s %d %d", &cmd, &x, &y)
			touchX, touchY = x, y
			dev.touchEvent(TouchEvent{Action: TouchDown, Points: 1, X: uint16(x), Y: uint16(y)})
		case "mouseup":
			fmt.Sscanf(line, "%s %d %d", &cmd, &x, &y)
			dev.touchEvent(TouchEvent{
				Gesture: gestureFromDrag(touchX, touchY, x, y),
				Action:  TouchUp,
				X:       uint16(x),
				Y:       uint16(y),
			})
		default:
			fmt.Fprintln(os.Stderr, "unknown command:", cmd)
		}
	}
}

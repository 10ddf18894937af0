package watch

import "time"

// Settings for the simulator. These can be modified at any time, but it is
// recommended to modify them before calling Hardware.Configure.
//
// The defaults match the PineTime. The environment variables WATCH_HEADLESS
// and WATCH_SCENARIO override Headless and Scenario.
var Simulator = struct {
	WindowTitle string

	// Width and height in virtual pixels (matching Size()). The window will
	// take up more physical pixels on high-DPI screens.
	WindowWidth  int
	WindowHeight int

	// How long drawing a single pixel takes, to get a feel for a slow SPI bus.
	// Zero means drawing is instant.
	WindowDrawSpeed time.Duration

	// Run without a window. Input then only comes from the scenario.
	Headless bool

	// Path to a YAML scenario file with input events to replay after boot.
	Scenario string
}{
	WindowTitle:     "PineTime",
	WindowWidth:     240,
	WindowHeight:    240,
	WindowDrawSpeed: time.Second * 16 / 8_000_000, // 16 bits per pixel at 8MHz
}

package watch

// This file contains the narrow interfaces between the input core and the
// hardware. Board files implement them: board-pinetime.go with the nRF52832
// registers, board-simulator.go with the simulated GPIOTE block.

// Pin is a GPIO pin number on port P0.
type Pin uint8

// NumPins is the number of pins on port P0.
const NumPins = 32

// NoPin marks a pin that is not connected on a given board.
const NoPin Pin = 0xff

// Polarity selects which edges of a pin generate an event.
type Polarity uint8

const (
	PolarityNone    Polarity = iota // no event is generated
	PolarityRising                  // low to high
	PolarityFalling                 // high to low
	PolarityToggle                  // any change
)

// Pull is the pull resistor configuration of an input pin.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Controller gives exclusive access to the GPIO port registers and the
// GPIOTE event channels. All channel numbers are in the range
// 0..NumChannels-1.
//
// MaskIRQ and UnmaskIRQ mask the one shared GPIOTE interrupt line. They are the
// only synchronization between interrupt and main context and they do not
// nest.
type Controller interface {
	// ConfigureInput configures the pin as an input with the given pull
	// resistor.
	ConfigureInput(pin Pin, pull Pull)

	// Get returns the current level of the pin.
	Get(pin Pin) bool

	// ConfigureChannel writes the channel configuration: event mode, source
	// pin and polarity.
	ConfigureChannel(ch int, pin Pin, polarity Polarity)

	// EnableChannel sets the interrupt enable bit of the channel.
	EnableChannel(ch int)

	// EventPending returns whether the event bit of the channel is set.
	EventPending(ch int) bool

	// ClearEvent clears the event bit of the channel.
	ClearEvent(ch int)

	MaskIRQ()
	UnmaskIRQ()

	// UnpendIRQ clears a pending GPIOTE interrupt in the interrupt controller.
	UnpendIRQ()
}

// Sleeper puts the CPU to sleep until the next interrupt.
type Sleeper interface {
	// WaitForInterrupt calls idle with all interrupts disabled and, when it
	// returns true, sleeps until an interrupt arrives. Any interrupt that
	// became pending after idle was called wakes the CPU immediately, so no
	// wakeup is lost between the idle check and the sleep.
	WaitForInterrupt(idle func() bool)
}

// RTC is a free running seconds counter, incremented from the RTC interrupt.
type RTC interface {
	Seconds() uint32
}

// BatterySensor reads the battery voltage.
type BatterySensor interface {
	Millivolts() (uint16, error)
}

// Restarter resets the whole device.
type Restarter interface {
	Restart()
}

// BusyReporter is implemented by anything that may be in the middle of an
// operation (for example a DMA transfer) and must not be put to sleep.
type BusyReporter interface {
	Busy() bool
}

package watch

import "errors"

// NumChannels is the number of GPIOTE event channels of the nRF52832.
const NumChannels = 8

var (
	ErrNoChannel   = errors.New("watch: no channel available for pin interrupt")
	ErrPinBound    = errors.New("watch: pin is already bound to a channel")
	ErrNilCallback = errors.New("watch: pin callback is nil")
	ErrInvalidPin  = errors.New("watch: pin does not exist")
)

// PinConfig describes how to arm one input pin. Drivers declare these as
// package level values and pass them to Input.Bind once.
type PinConfig struct {
	Pin      Pin
	Polarity Polarity
	Pull     Pull

	// Callback is called with the pin number for every detected event.
	Callback func(Pin)

	// RealTime callbacks run directly in the interrupt handler instead of
	// being queued for Drain. Only use this for short, bounded work that must
	// happen before the interrupt returns, such as reading a sensor register
	// that the sensor clears on its own. A real-time callback must not call
	// Bind, Drain, Pending, Mask or Unmask.
	RealTime bool
}

// channel is one GPIOTE channel slot. A slot is bound once and stays bound for
// the lifetime of the program.
type channel struct {
	bound    bool
	pin      Pin
	callback func(Pin)
	realTime bool
}

// Input owns the GPIOTE channel table and the queue of pending events.
//
// HandleInterrupt runs in interrupt context and touches only the channel table
// and the queue. Everything else runs in the main loop.
type Input struct {
	hw       Controller
	channels [NumChannels]channel
	queue    eventQueue
	dropped  uint32
}

// NewInput returns an Input with all channels unbound.
func NewInput(hw Controller) *Input {
	return &Input{hw: hw}
}

// Bind arms a channel for the given pin. It returns ErrPinBound (and leaves
// the hardware and the existing callback alone) when the pin already has a
// channel, and ErrNoChannel when all channels are in use. NoPin and other
// pins outside the port are rejected with ErrInvalidPin.
func (in *Input) Bind(cfg PinConfig) error {
	if cfg.Pin >= NumPins {
		return ErrInvalidPin
	}
	if cfg.Callback == nil {
		return ErrNilCallback
	}
	if _, ok := in.Bound(cfg.Pin); ok {
		return ErrPinBound
	}
	ch := in.freeChannel()
	if ch < 0 {
		return ErrNoChannel
	}

	in.hw.ConfigureInput(cfg.Pin, cfg.Pull)

	// Keep the interrupt masked while the channel is half configured.
	in.hw.MaskIRQ()
	in.hw.ConfigureChannel(ch, cfg.Pin, cfg.Polarity)
	in.hw.EnableChannel(ch)

	// Don't let electrical noise from before the configuration trigger a
	// callback.
	in.hw.ClearEvent(ch)

	in.channels[ch] = channel{
		bound:    true,
		pin:      cfg.Pin,
		callback: cfg.Callback,
		realTime: cfg.RealTime,
	}
	in.hw.UnpendIRQ()
	in.hw.UnmaskIRQ()
	return nil
}

// Bound returns the channel bound to the pin, if any.
func (in *Input) Bound(pin Pin) (ch int, ok bool) {
	for i := range in.channels {
		if in.channels[i].bound && in.channels[i].pin == pin {
			return i, true
		}
	}
	return -1, false
}

func (in *Input) freeChannel() int {
	for i := range in.channels {
		if !in.channels[i].bound {
			return i
		}
	}
	return -1
}

// ConfigureInput configures a pin as a plain input, without a channel. Its
// level can then be read with Get. Pins outside the port are ignored.
func (in *Input) ConfigureInput(pin Pin, pull Pull) {
	if pin >= NumPins {
		return
	}
	in.hw.ConfigureInput(pin, pull)
}

// Get reads the current level of a pin. It is meant for pin callbacks that
// need to know which edge they were called for. Pins outside the port read
// low.
func (in *Input) Get(pin Pin) bool {
	if pin >= NumPins {
		return false
	}
	return in.hw.Get(pin)
}

// HandleInterrupt services one pending channel. It must be called from the
// GPIOTE interrupt. Channels are scanned in index order, so when several
// events are pending the lowest channel goes first; the interrupt stays
// asserted until all of them are serviced.
//
// When the queue is full the new event is dropped (older events are never
// overwritten) and counted in Dropped.
//
// It returns whether a pending channel was found.
func (in *Input) HandleInterrupt() bool {
	for i := range in.channels {
		if !in.hw.EventPending(i) {
			continue
		}
		in.hw.ClearEvent(i)

		c := &in.channels[i]
		if !c.bound {
			// Stray event on a channel we never armed.
			return true
		}
		if c.realTime {
			c.callback(c.pin)
			return true
		}
		if !in.queue.push(uint8(i)) {
			in.dropped++
		}
		return true
	}
	return false
}

// Drain runs the callbacks of all events queued at the time of the call, in
// the order they were detected. Events that arrive while the callbacks run
// are left for the next call. It returns the number of callbacks that were
// run.
//
// Drain must only be called from the main loop. Callbacks run with interrupts
// enabled; they may take a while but must not block.
func (in *Input) Drain() int {
	in.hw.MaskIRQ()
	head, tail := in.queue.head, in.queue.tail
	in.hw.UnmaskIRQ()

	n := 0
	for head != tail {
		c := &in.channels[in.queue.at(head)]
		c.callback(c.pin)
		head++
		n++
	}

	in.hw.MaskIRQ()
	in.queue.head = head
	in.hw.UnmaskIRQ()
	return n
}

// Pending returns whether there are queued events that Drain has not run
// yet.
func (in *Input) Pending() bool {
	in.hw.MaskIRQ()
	pending := in.queue.len() != 0
	in.hw.UnmaskIRQ()
	return pending
}

// Dropped returns the number of events lost because the queue was full.
func (in *Input) Dropped() uint32 {
	in.hw.MaskIRQ()
	n := in.dropped
	in.hw.UnmaskIRQ()
	return n
}

// Mask masks the GPIOTE interrupt. Drivers use it to read data that their
// real-time callback writes. Every Mask must be followed by Unmask.
func (in *Input) Mask() {
	in.hw.MaskIRQ()
}

// Unmask undoes Mask.
func (in *Input) Unmask() {
	in.hw.UnmaskIRQ()
}

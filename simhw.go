//go:build !baremetal

package watch

// Simulated hardware for the host: a GPIO port with a GPIOTE block, an RTC and
// a battery. The simulator board drives it from the window process, and the
// tests drive it directly.

import (
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
)

type simChannel struct {
	configured bool
	pin        Pin
	polarity   Polarity
}

// simController implements Controller and Sleeper.
//
// The interrupt is modelled with a mutex: it is held while the interrupt is
// masked and while the handler runs, so the handler never runs at the same
// time as a masked section in the main loop. Events raised while it is held
// stay pending and are delivered by whoever releases it.
type simController struct {
	mu       sync.Mutex // guards the registers below
	levels   [NumPins]bool
	driven   uint32 // pins whose level is set from outside
	channels [NumChannels]simChannel
	enabled  uint8 // INTENSET
	events   uint8 // EVENTS_IN
	handler  func() bool

	irq  sync.Mutex
	wake chan struct{}
}

func newSimController() *simController {
	return &simController{wake: make(chan struct{}, 1)}
}

// setHandler installs the interrupt handler, usually Input.HandleInterrupt.
func (c *simController) setHandler(handler func() bool) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
}

func (c *simController) ConfigureInput(pin Pin, pull Pull) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.driven&(1<<pin) == 0 {
		// Nothing drives the pin, so it floats to the pull resistor level.
		c.levels[pin] = pull == PullUp
	}
}

func (c *simController) Get(pin Pin) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.levels[pin]
}

func (c *simController) ConfigureChannel(ch int, pin Pin, polarity Polarity) {
	c.mu.Lock()
	c.channels[ch] = simChannel{configured: true, pin: pin, polarity: polarity}
	c.mu.Unlock()
}

func (c *simController) EnableChannel(ch int) {
	c.mu.Lock()
	c.enabled |= 1 << ch
	c.mu.Unlock()
}

func (c *simController) EventPending(ch int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events&(1<<ch) != 0
}

func (c *simController) ClearEvent(ch int) {
	c.mu.Lock()
	c.events &^= 1 << ch
	c.mu.Unlock()
}

func (c *simController) MaskIRQ() {
	c.irq.Lock()
}

func (c *simController) UnmaskIRQ() {
	c.irq.Unlock()
	c.deliver()
}

// UnpendIRQ does nothing: the simulated interrupt is derived from the event
// bits directly, like the level of the real GPIOTE interrupt line.
func (c *simController) UnpendIRQ() {
}

// Set drives a pin from outside, like a button or a sensor would. Every
// channel watching the pin whose polarity matches the change gets its event
// bit set, and the interrupt is delivered unless it is masked.
func (c *simController) Set(pin Pin, level bool) {
	if pin >= NumPins {
		return
	}
	c.mu.Lock()
	old := c.levels[pin]
	c.levels[pin] = level
	c.driven |= 1 << pin
	if old != level {
		for i, ch := range c.channels {
			if ch.configured && ch.pin == pin && edgeMatches(ch.polarity, level) {
				c.events |= 1 << i
			}
		}
	}
	c.mu.Unlock()
	c.deliver()
}

func edgeMatches(polarity Polarity, level bool) bool {
	switch polarity {
	case PolarityRising:
		return level
	case PolarityFalling:
		return !level
	case PolarityToggle:
		return true
	}
	return false
}

func (c *simController) interruptPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events&c.enabled != 0
}

// deliver runs the interrupt handler until no enabled event is pending.
func (c *simController) deliver() {
	for c.interruptPending() {
		if !c.irq.TryLock() {
			// Masked, or the handler is running on another goroutine. The
			// holder delivers the event when it lets go.
			return
		}
		c.mu.Lock()
		handler := c.handler
		c.mu.Unlock()
		serviced := handler != nil && handler()
		c.irq.Unlock()
		c.signal()
		if !serviced {
			return
		}
	}
}

// signal wakes up WaitForInterrupt. A wakeup that nobody waits for yet is
// kept, like a pending interrupt wakes up a WFI instruction immediately.
func (c *simController) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *simController) WaitForInterrupt(idle func() bool) {
	if idle() {
		<-c.wake
	}
}

// simRTC counts seconds. The simulator advances it from a ticker, the tests
// advance it by hand.
type simRTC struct {
	seconds uint32
}

func (r *simRTC) Seconds() uint32 {
	return atomic.LoadUint32(&r.seconds)
}

func (r *simRTC) advance(seconds uint32) {
	atomic.AddUint32(&r.seconds, seconds)
}

var errSimBattery = errors.New("watch: simulated battery read failure")

// simBattery pretends to be a lithium battery at a fixed voltage.
type simBattery struct {
	mu         sync.Mutex
	millivolts uint16
	noise      bool // add some fake ADC noise to every reading
	fail       bool
}

func (b *simBattery) Millivolts() (uint16, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return 0, errSimBattery
	}
	mv := b.millivolts
	if b.noise {
		// Programs should be able to deal with a bit of ADC noise.
		mv = mv + uint16(rand.Intn(16)) - 8
	}
	return mv, nil
}

func (b *simBattery) set(millivolts uint16) {
	b.mu.Lock()
	b.millivolts = millivolts
	b.mu.Unlock()
}

// simRestarter records restart requests instead of resetting anything.
type simRestarter struct {
	restarts  int32
	onRestart func()
}

func (r *simRestarter) Restart() {
	atomic.AddInt32(&r.restarts, 1)
	if r.onRestart != nil {
		r.onRestart()
	}
}

func (r *simRestarter) count() int {
	return int(atomic.LoadInt32(&r.restarts))
}

//go:build !baremetal

package watch

// simDevice is a complete simulated watch: the same pins as the PineTime,
// driven by the simulator window, scenario files and tests.
type simDevice struct {
	ctrl      *simController
	rtc       *simRTC
	battery   *simBattery
	touch     *simTouch
	restarter *simRestarter
	pins      PinMap
}

func newSimDevice() *simDevice {
	return &simDevice{
		ctrl:      newSimController(),
		rtc:       &simRTC{},
		battery:   &simBattery{millivolts: 3900},
		touch:     &simTouch{},
		restarter: &simRestarter{},
		pins: PinMap{
			Button:     13,
			ButtonPull: PullDown, // the PineTime button reads high when pressed
			Charger:    19,
			Charging:   12,
			TouchIRQ:   28,
		},
	}
}

// peripherals returns the peripherals for Boot.
func (d *simDevice) peripherals(screen Screen) Peripherals {
	return Peripherals{
		Controller: d.ctrl,
		Sleeper:    d.ctrl,
		RTC:        d.rtc,
		Battery:    d.battery,
		TouchBus:   d.touch,
		Screen:     screen,
		Restarter:  d.restarter,
		Pins:       d.pins,
		Military:   true,
		Attach: func(in *Input) {
			d.ctrl.setHandler(in.HandleInterrupt)
		},
	}
}

func (d *simDevice) setButton(pressed bool) {
	d.ctrl.Set(d.pins.Button, pressed)
}

// setCharger plugs in or removes external power. Charging follows it.
func (d *simDevice) setCharger(connected bool) {
	d.ctrl.Set(d.pins.Charging, !connected)
	d.ctrl.Set(d.pins.Charger, !connected)
}

func (d *simDevice) chargerConnected() bool {
	return !d.ctrl.Get(d.pins.Charger)
}

// touchEvent stores a report in the touch controller and pulses its
// interrupt line, like a finger on the screen would.
func (d *simDevice) touchEvent(ev TouchEvent) {
	d.touch.setReport(ev)
	d.ctrl.Set(d.pins.TouchIRQ, false)
	d.ctrl.Set(d.pins.TouchIRQ, true)
}

// tick advances the RTC and wakes up the main loop, like the RTC interrupt.
func (d *simDevice) tick(seconds uint32) {
	d.rtc.advance(seconds)
	d.ctrl.signal()
}

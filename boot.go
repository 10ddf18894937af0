package watch

import "tinygo.org/x/drivers"

// PinMap lists the input pins of a board.
type PinMap struct {
	Button          Pin
	ButtonActiveLow bool
	ButtonPull      Pull
	Charger         Pin // low while external power is present
	Charging        Pin // low while charging, or NoPin
	TouchIRQ        Pin
}

// Peripherals is everything a board provides to the core. Board files
// return it from Hardware.Configure.
type Peripherals struct {
	Controller Controller
	Sleeper    Sleeper
	RTC        RTC
	Battery    BatterySensor
	TouchBus   drivers.I2C
	Screen     Screen
	Restarter  Restarter
	Busy       []BusyReporter
	Pins       PinMap

	// Time is the wall time at boot.
	Time     Time
	Military bool

	// Attach connects the interrupt handler of the board to the input, before
	// any pin is bound.
	Attach func(in *Input)
}

// Boot takes the device state, binds every driver, and returns the scheduler
// that runs them.
func Boot(p Peripherals) (*Scheduler, error) {
	state, err := TakeState()
	if err != nil {
		return nil, err
	}

	in := NewInput(p.Controller)
	if p.Attach != nil {
		p.Attach(in)
	}

	clock := &Clock{RTC: p.RTC}
	clock.SetTime(p.Time)
	battery := &Battery{
		Sensor:      p.Battery,
		RTC:         p.RTC,
		ChargerPin:  p.Pins.Charger,
		ChargingPin: p.Pins.Charging,
	}
	button := &Button{
		Pin:       p.Pins.Button,
		ActiveLow: p.Pins.ButtonActiveLow,
		Pull:      p.Pins.ButtonPull,
		RTC:       p.RTC,
	}
	touch := &Touch{
		Bus: p.TouchBus,
		IRQ: p.Pins.TouchIRQ,
	}
	app := &App{
		Screen:    p.Screen,
		RTC:       p.RTC,
		Restarter: p.Restarter,
		Military:  p.Military,
	}

	for _, bind := range []func(*Input) error{battery.Init, button.Init, touch.Init} {
		if err := bind(in); err != nil {
			ReleaseState(state)
			return nil, err
		}
	}

	return &Scheduler{
		Input:   in,
		State:   state,
		Tasks:   []Task{clock, battery, button, touch, app},
		Busy:    append([]BusyReporter{button}, p.Busy...),
		Sleeper: p.Sleeper,
	}, nil
}

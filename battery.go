package watch

import "strconv"

// BatteryLevel is a coarse battery indication from 0 (empty) to 4 (full), as
// shown by the battery icon.
type BatteryLevel uint8

// ChargeState is the charging state of the battery.
type ChargeState uint8

const (
	UnknownBattery ChargeState = iota // no battery information available
	NoBattery                         // external power, no battery attached
	Charging                          // external power, battery charging
	NotCharging                       // external power, battery full
	Discharging                       // running on battery power
)

func (c ChargeState) String() string {
	switch c {
	case NoBattery:
		return "no battery"
	case Charging:
		return "charging"
	case NotCharging:
		return "not charging"
	case Discharging:
		return "discharging"
	default:
		return "unknown"
	}
}

// batteryApproximation is a piecewise linear discharge curve: voltages in
// millivolts with the state of charge at each point.
type batteryApproximation struct {
	voltages [6]uint16
	percents [6]int8
}

// Rough discharge curve of a single cell lithium battery. It is not very
// accurate, especially while charging, but good enough for an icon.
var lithumBatteryApproximation = batteryApproximation{
	voltages: [6]uint16{3500, 3600, 3700, 3750, 3900, 4180},
	percents: [6]int8{0, 10, 25, 50, 75, 100},
}

// approximate returns the state of charge for the given voltage, rounded
// down.
func (a *batteryApproximation) approximate(microvolts uint32) int8 {
	if microvolts <= uint32(a.voltages[0])*1000 {
		return a.percents[0]
	}
	last := len(a.voltages) - 1
	if microvolts >= uint32(a.voltages[last])*1000 {
		return a.percents[last]
	}
	for i := 0; i < last; i++ {
		low := uint32(a.voltages[i]) * 1000
		high := uint32(a.voltages[i+1]) * 1000
		if microvolts >= high {
			continue
		}
		span := uint32(a.percents[i+1] - a.percents[i])
		return a.percents[i] + int8(span*(microvolts-low)/(high-low))
	}
	return a.percents[last]
}

// batteryLevel maps a voltage to the icon level.
func batteryLevel(millivolts uint16) BatteryLevel {
	switch {
	case millivolts > 3500:
		return 4
	case millivolts > 3400:
		return 3
	case millivolts > 3300:
		return 2
	case millivolts > 3200:
		return 1
	default:
		return 0
	}
}

// DefaultBatteryCheckInterval is the number of seconds between two battery
// voltage readings.
const DefaultBatteryCheckInterval = 30

// Battery samples the battery voltage periodically and tracks the charger.
//
// The charger pin is low while external power is present, the charging pin
// is low while the battery is being charged. Both are sampled from a queued
// pin callback, so a change is picked up on the next scheduler cycle.
type Battery struct {
	Sensor        BatterySensor
	RTC           RTC
	ChargerPin    Pin // may be NoPin
	ChargingPin   Pin // may be NoPin
	CheckInterval uint32

	input *Input

	// Written by the pin callback, read by Update. Both run in the main loop.
	connected bool
	charging  bool

	published     bool
	lastConnected bool
	lastCharging  bool

	checked        bool
	lastCheck      uint32
	lastMillivolts uint16
}

func (b *Battery) Name() string {
	return "battery"
}

// Init binds the charger pin and reads the initial charger state.
func (b *Battery) Init(in *Input) error {
	if b.CheckInterval == 0 {
		b.CheckInterval = DefaultBatteryCheckInterval
	}
	b.input = in
	if b.ChargerPin == NoPin {
		// Without a charger pin the watch always runs on battery.
		return nil
	}
	err := in.Bind(PinConfig{
		Pin:      b.ChargerPin,
		Polarity: PolarityToggle,
		Pull:     PullUp,
		Callback: b.chargerChanged,
	})
	if err != nil {
		return err
	}
	if b.ChargingPin != NoPin {
		in.ConfigureInput(b.ChargingPin, PullUp)
	}
	b.chargerChanged(b.ChargerPin)
	return nil
}

func (b *Battery) chargerChanged(pin Pin) {
	b.connected = !b.input.Get(b.ChargerPin)
	b.charging = false
	if b.ChargingPin != NoPin {
		b.charging = b.connected && !b.input.Get(b.ChargingPin)
	}
}

// State returns the charge state as last sampled.
func (b *Battery) State() ChargeState {
	switch {
	case !b.checked && !b.connected:
		return UnknownBattery
	case b.charging:
		return Charging
	case b.connected:
		return NotCharging
	default:
		return Discharging
	}
}

func (b *Battery) Update(s *DeviceState) error {
	s.Expire(FieldBatteryVoltage)
	s.Expire(FieldChargerState)

	now := b.RTC.Seconds()
	due := !b.checked || now-b.lastCheck >= b.CheckInterval
	if due && b.ChargingPin != NoPin && b.connected {
		// The charger pin doesn't change when charging ends.
		b.charging = !b.input.Get(b.ChargingPin)
	}

	if !b.published || b.connected != b.lastConnected || b.charging != b.lastCharging {
		b.published = true
		b.lastConnected = b.connected
		b.lastCharging = b.charging
		s.Flags.ChargerConnected = b.connected
		s.Flags.Charging = b.charging
		s.Publish(FieldChargerState)
		debugLog("battery", "charger "+b.State().String())
	}

	if !due {
		return nil
	}
	b.lastCheck = now
	b.checked = true

	mv, err := b.Sensor.Millivolts()
	if err != nil {
		return err
	}
	if mv == b.lastMillivolts {
		return nil
	}
	b.lastMillivolts = mv
	s.BatteryMillivolts = mv
	s.BatteryPercent = lithumBatteryApproximation.approximate(uint32(mv) * 1000)
	s.BatteryLevel = batteryLevel(mv)
	s.Publish(FieldBatteryVoltage)
	debugLog("battery", strconv.Itoa(int(mv))+"mV")
	return nil
}

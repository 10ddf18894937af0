//go:build pinetime

package watch

import (
	"device/arm"
	"device/nrf"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"tinygo.org/x/drivers/st7789"
)

const (
	Name = "pinetime"

	buttonInPin       = 13
	buttonOutPin      = 15
	chargingPin       = 12 // low while charging
	powerPresentPin   = 19 // low while on USB power
	touchInterruptPin = 28
	touchResetPin     = 10
)

var Hardware = pinetimeBoard{}

func init() {
	// Enable the DC/DC regulator.
	// This doesn't affect sleep power consumption, but significantly reduces
	// runtime power consumpton of the CPU core (almost halving the current
	// required).
	nrf.POWER.DCDCEN.Set(nrf.POWER_DCDCEN_DCDCEN)
}

type pinetimeBoard struct{}

// Configure sets up all peripherals of the watch.
func (b pinetimeBoard) Configure() Peripherals {
	DebugOutput = machine.Serial

	// BUTTON_OUT must be held high for BUTTON_IN to read anything useful.
	// TODO: use a PORT event with pin sense so that BUTTON_OUT can stay low
	// and save ~34µA.
	machine.Pin(buttonOutPin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	machine.Pin(buttonOutPin).High()

	startRTC()

	return Peripherals{
		Controller: nrfController{},
		Sleeper:    nrfSleeper{},
		RTC:        &rtc,
		Battery:    &saadcBattery{},
		TouchBus:   configureTouch(),
		Screen:     configureDisplay(),
		Restarter:  nrfRestarter{},
		Pins: PinMap{
			Button:     buttonInPin,
			ButtonPull: PullNone,
			Charger:    powerPresentPin,
			Charging:   chargingPin,
			TouchIRQ:   touchInterruptPin,
		},
		Military: true,
		Attach:   attachGPIOTE,
	}
}

// The input serviced by the GPIOTE interrupt.
var gpioteInput *Input

func attachGPIOTE(in *Input) {
	gpioteInput = in
	intr := interrupt.New(nrf.IRQ_GPIOTE, func(interrupt.Interrupt) {
		// One channel per entry. The interrupt fires again while more events
		// are pending.
		gpioteInput.HandleInterrupt()
	})
	intr.SetPriority(0xc0)
	intr.Enable()
}

// nrfController drives the P0 and GPIOTE registers.
type nrfController struct{}

func (nrfController) ConfigureInput(pin Pin, pull Pull) {
	mode := machine.PinInput
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: mode})
}

func (nrfController) Get(pin Pin) bool {
	return machine.Pin(pin).Get()
}

func (nrfController) ConfigureChannel(ch int, pin Pin, polarity Polarity) {
	var pol uint32
	switch polarity {
	case PolarityNone:
		pol = nrf.GPIOTE_CONFIG_POLARITY_None
	case PolarityRising:
		pol = nrf.GPIOTE_CONFIG_POLARITY_LoToHi
	case PolarityFalling:
		pol = nrf.GPIOTE_CONFIG_POLARITY_HiToLo
	case PolarityToggle:
		pol = nrf.GPIOTE_CONFIG_POLARITY_Toggle
	}
	nrf.GPIOTE.CONFIG[ch].Set(nrf.GPIOTE_CONFIG_MODE_Event<<nrf.GPIOTE_CONFIG_MODE_Pos |
		uint32(pin)<<nrf.GPIOTE_CONFIG_PSEL_Pos |
		pol<<nrf.GPIOTE_CONFIG_POLARITY_Pos)
}

func (nrfController) EnableChannel(ch int) {
	nrf.GPIOTE.INTENSET.Set(1 << uint32(ch))
}

func (nrfController) EventPending(ch int) bool {
	return nrf.GPIOTE.EVENTS_IN[ch].Get() != 0
}

func (nrfController) ClearEvent(ch int) {
	nrf.GPIOTE.EVENTS_IN[ch].Set(0)
	// Read back, so the event is really cleared before the interrupt returns.
	nrf.GPIOTE.EVENTS_IN[ch].Get()
}

func (nrfController) MaskIRQ() {
	arm.DisableIRQ(nrf.IRQ_GPIOTE)
}

func (nrfController) UnmaskIRQ() {
	arm.EnableIRQ(nrf.IRQ_GPIOTE)
}

func (nrfController) UnpendIRQ() {
	arm.NVIC.ICPR[nrf.IRQ_GPIOTE>>5].Set(1 << (nrf.IRQ_GPIOTE & 31))
}

type nrfSleeper struct{}

// WaitForInterrupt sleeps with interrupts disabled: WFI still wakes up on a
// pending interrupt, which then runs as soon as interrupts are restored.
func (nrfSleeper) WaitForInterrupt(idle func() bool) {
	mask := interrupt.Disable()
	if idle() {
		arm.Asm("wfi")
	}
	interrupt.Restore(mask)
}

type nrfRestarter struct{}

func (nrfRestarter) Restart() {
	arm.SystemReset()
}

// RTC0 counts seconds. RTC1 is used by the TinyGo runtime.
type rtcCounter struct {
	seconds volatile.Register32
}

var rtc rtcCounter

const rtcTicksPerSecond = 32768 / 8

func startRTC() {
	nrf.RTC0.TASKS_STOP.Set(1)
	nrf.RTC0.PRESCALER.Set(7) // 4096Hz
	nrf.RTC0.TASKS_CLEAR.Set(1)
	nrf.RTC0.CC[0].Set(rtcTicksPerSecond)
	nrf.RTC0.INTENSET.Set(nrf.RTC_INTENSET_COMPARE0)
	intr := interrupt.New(nrf.IRQ_RTC0, func(interrupt.Interrupt) {
		nrf.RTC0.EVENTS_COMPARE[0].Set(0)
		// Move the compare value instead of clearing the counter, so the
		// clock doesn't drift by the interrupt latency. The counter is 24 bits.
		nrf.RTC0.CC[0].Set((nrf.RTC0.CC[0].Get() + rtcTicksPerSecond) & 0xffffff)
		rtc.seconds.Set(rtc.seconds.Get() + 1)
	})
	intr.SetPriority(0xc0)
	intr.Enable()
	nrf.RTC0.TASKS_START.Set(1)
}

func (r *rtcCounter) Seconds() uint32 {
	return r.seconds.Get()
}

// saadcBattery reads the battery voltage on AIN7 (P0.31), behind a 1:2
// voltage divider.
type saadcBattery struct {
	configured bool
	raw        volatile.Register16
}

// Upper bound on the number of polls of a SAADC event.
const saadcPollLimit = 100_000

func (b *saadcBattery) configure() {
	nrf.SAADC.RESOLUTION.Set(nrf.SAADC_RESOLUTION_VAL_12bit)
	nrf.SAADC.CH[0].CONFIG.Set(
		nrf.SAADC_CH_CONFIG_RESP_Bypass<<nrf.SAADC_CH_CONFIG_RESP_Pos |
			nrf.SAADC_CH_CONFIG_RESN_Bypass<<nrf.SAADC_CH_CONFIG_RESN_Pos |
			nrf.SAADC_CH_CONFIG_GAIN_Gain1_6<<nrf.SAADC_CH_CONFIG_GAIN_Pos |
			nrf.SAADC_CH_CONFIG_REFSEL_Internal<<nrf.SAADC_CH_CONFIG_REFSEL_Pos |
			nrf.SAADC_CH_CONFIG_TACQ_10us<<nrf.SAADC_CH_CONFIG_TACQ_Pos |
			nrf.SAADC_CH_CONFIG_MODE_SE<<nrf.SAADC_CH_CONFIG_MODE_Pos)
	nrf.SAADC.CH[0].PSELP.Set(nrf.SAADC_CH_PSELP_PSELP_AnalogInput7)
	nrf.SAADC.CH[0].PSELN.Set(nrf.SAADC_CH_PSELN_PSELN_NC)
	b.configured = true
}

func (b *saadcBattery) Millivolts() (uint16, error) {
	if !b.configured {
		b.configure()
	}
	nrf.SAADC.RESULT.PTR.Set(uint32(uintptr(unsafe.Pointer(&b.raw))))
	nrf.SAADC.RESULT.MAXCNT.Set(1)
	nrf.SAADC.ENABLE.Set(nrf.SAADC_ENABLE_ENABLE_Enabled << nrf.SAADC_ENABLE_ENABLE_Pos)
	defer nrf.SAADC.ENABLE.Set(nrf.SAADC_ENABLE_ENABLE_Disabled << nrf.SAADC_ENABLE_ENABLE_Pos)

	nrf.SAADC.TASKS_START.Set(1)
	if err := waitEvent(&nrf.SAADC.EVENTS_STARTED); err != nil {
		return 0, err
	}
	nrf.SAADC.TASKS_SAMPLE.Set(1)
	if err := waitEvent(&nrf.SAADC.EVENTS_END); err != nil {
		return 0, err
	}
	nrf.SAADC.TASKS_STOP.Set(1)
	if err := waitEvent(&nrf.SAADC.EVENTS_STOPPED); err != nil {
		return 0, err
	}

	raw := int32(int16(b.raw.Get()))
	if raw < 0 {
		// Single ended inputs can read slightly below zero.
		raw = 0
	}
	// 0.6V reference with gain 1/6 is a 3.6V range over 12 bits, times two
	// for the voltage divider.
	return uint16(raw * 7200 / 4095), nil
}

func waitEvent(event *volatile.Register32) error {
	err := waitReady(func() bool { return event.Get() != 0 }, saadcPollLimit)
	event.Set(0)
	return err
}

func configureTouch() *machine.I2C {
	// Wake up the touch controller.
	reset := machine.Pin(touchResetPin)
	reset.Configure(machine.PinConfig{Mode: machine.PinOutput})
	reset.Low()
	for i := 0; i < 1000; i++ {
		arm.Asm("nop")
	}
	reset.High()

	// Run I2C at a high speed (400KHz).
	bus := machine.I2C1
	bus.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.Pin(6),
		SCL:       machine.Pin(7),
	})
	return bus
}

func configureDisplay() Screen {
	// Set the chip select line for the flash chip to inactive.
	cs := machine.Pin(5) // SPI CS
	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	cs.High()

	// Configure the SPI bus.
	spi := machine.SPI0
	spi.Configure(machine.SPIConfig{
		Frequency: 8_000_000, // 8MHz is the maximum the nrf52832 supports
		SCK:       machine.SPI0_SCK_PIN,
		SDO:       machine.SPI0_SDO_PIN,
		SDI:       machine.SPI0_SDI_PIN,
		Mode:      3,
	})

	display := st7789.New(spi,
		machine.LCD_RESET,
		machine.LCD_RS, // data/command
		machine.LCD_CS,
		machine.LCD_BACKLIGHT_HIGH)
	display.Configure(st7789.Config{
		Width:     240,
		Height:    240,
		Rotation:  st7789.ROTATION_180,
		RowOffset: 80,
	})
	display.EnableBacklight(true)
	machine.LCD_BACKLIGHT_LOW.Configure(machine.PinConfig{Mode: machine.PinOutput})
	machine.LCD_BACKLIGHT_LOW.High()

	// The backlight pins are active low. Each drives a different current.
	return &TextScreen{
		Canvas: &display,
		Backlight: func(state DisplayState) {
			machine.LCD_BACKLIGHT_HIGH.Set(state != DisplayOn)
			machine.LCD_BACKLIGHT_LOW.Set(state != DisplayDim)
		},
	}
}

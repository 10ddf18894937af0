package watch

import (
	"errors"
	"sync/atomic"
)

var ErrStateTaken = errors.New("watch: device state already taken")

// Field names one value of the device state that can change.
type Field uint8

const (
	FieldAppPage Field = iota
	FieldBatteryVoltage
	FieldButtonPress
	FieldChargerState
	FieldDisplayState
	FieldTimeChange
	FieldTouchEvent

	numFields
)

var fieldNames = [numFields]string{
	FieldAppPage:        "app-page",
	FieldBatteryVoltage: "battery-voltage",
	FieldButtonPress:    "button-press",
	FieldChargerState:   "charger-state",
	FieldDisplayState:   "display-state",
	FieldTimeChange:     "time-change",
	FieldTouchEvent:     "touch-event",
}

func (f Field) String() string {
	if f < numFields {
		return fieldNames[f]
	}
	return "unknown"
}

// ChangeFlags has one bit per Field. A set bit means the value changed and
// somebody still has to react to it.
type ChangeFlags uint8

func (c ChangeFlags) Has(f Field) bool {
	return c&(1<<f) != 0
}

func (c *ChangeFlags) Set(f Field) {
	*c |= 1 << f
}

// Clear clears the flag. Clearing a flag that isn't set is a no-op.
func (c *ChangeFlags) Clear(f Field) {
	*c &^= 1 << f
}

// Any returns whether at least one flag is set.
func (c ChangeFlags) Any() bool {
	return c != 0
}

// StateFlags are boolean values of the device state.
type StateFlags struct {
	ChargerConnected bool
	Charging         bool
	ButtonPressed    bool
}

// Page is the page the application shows.
type Page uint8

const (
	PageStartup Page = iota
	PageHome
	PageNotifications
	PageLog
	PageSettings
)

func (p Page) String() string {
	switch p {
	case PageStartup:
		return "startup"
	case PageHome:
		return "home"
	case PageNotifications:
		return "notifications"
	case PageLog:
		return "log"
	case PageSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// DisplayState is the power state of the display.
type DisplayState uint8

const (
	DisplayOn DisplayState = iota
	DisplayDim
	DisplayOff
)

func (d DisplayState) String() string {
	switch d {
	case DisplayOn:
		return "on"
	case DisplayDim:
		return "dim"
	case DisplayOff:
		return "off"
	default:
		return "unknown"
	}
}

// DeviceState is the one record shared by all tasks. Producers (the drivers)
// write values and set their flag, the consumer (the app) reacts and clears
// it.
//
// Every field follows the same discipline:
//   - a producer calls Publish after changing a value,
//   - a producer calls Expire at the start of its own update, dropping a flag
//     it left in the previous cycle,
//   - the consumer calls Handled once it reacted.
//
// The scheduler only lets the CPU sleep while no flag is set, so a flag must
// never stay set forever.
type DeviceState struct {
	Changed ChangeFlags
	Flags   StateFlags

	AppPage           Page
	BatteryMillivolts uint16
	BatteryPercent    int8
	BatteryLevel      BatteryLevel
	Display           DisplayState
	Time              Time
	Touch             TouchEvent
	ButtonPressedAt   uint32 // RTC seconds of the last press
}

// Publish marks a field as changed.
func (s *DeviceState) Publish(f Field) {
	s.Changed.Set(f)
}

// Expire drops the flag of a field. Producers call it for their own fields.
func (s *DeviceState) Expire(f Field) {
	s.Changed.Clear(f)
}

// Handled marks a change as processed by the consumer.
func (s *DeviceState) Handled(f Field) {
	s.Changed.Clear(f)
}

// reset puts the state back to the values it has at boot.
func (s *DeviceState) reset() {
	*s = DeviceState{
		AppPage:      PageStartup,
		Display:      DisplayOn,
		BatteryLevel: 4,
	}
	// Draw the first page.
	s.Changed.Set(FieldAppPage)
}

var (
	deviceState DeviceState
	stateTaken  uint32
)

// TakeState returns the device state. Only one caller can own it: every
// further call returns ErrStateTaken until the state is released.
func TakeState() (*DeviceState, error) {
	if !atomic.CompareAndSwapUint32(&stateTaken, 0, 1) {
		return nil, ErrStateTaken
	}
	deviceState.reset()
	return &deviceState, nil
}

// ReleaseState gives the state back so that it can be taken again. It is used
// when restarting the scheduler, and by tests.
func ReleaseState(s *DeviceState) {
	if s != &deviceState {
		return
	}
	atomic.StoreUint32(&stateTaken, 0)
}

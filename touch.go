package watch

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Gesture is a gesture detected by the touch controller.
type Gesture uint8

const (
	GestureNone        Gesture = 0x00
	GestureSlideDown   Gesture = 0x01
	GestureSlideUp     Gesture = 0x02
	GestureSlideLeft   Gesture = 0x03
	GestureSlideRight  Gesture = 0x04
	GestureSinglePress Gesture = 0x05
	GestureDoublePress Gesture = 0x0B
	GestureLongPress   Gesture = 0x0C
	GestureUnknown     Gesture = 0x0F
)

func decodeGesture(raw uint8) Gesture {
	switch g := Gesture(raw); g {
	case GestureNone, GestureSlideDown, GestureSlideUp, GestureSlideLeft, GestureSlideRight,
		GestureSinglePress, GestureDoublePress, GestureLongPress:
		return g
	}
	return GestureUnknown
}

func (g Gesture) String() string {
	switch g {
	case GestureNone:
		return "none"
	case GestureSlideDown:
		return "slide-down"
	case GestureSlideUp:
		return "slide-up"
	case GestureSlideLeft:
		return "slide-left"
	case GestureSlideRight:
		return "slide-right"
	case GestureSinglePress:
		return "single-press"
	case GestureDoublePress:
		return "double-press"
	case GestureLongPress:
		return "long-press"
	default:
		return "unknown"
	}
}

// TouchAction is the state of the touch point.
type TouchAction uint8

const (
	TouchDown TouchAction = iota
	TouchUp
	TouchContact
	TouchUnknown
)

// TouchEvent is one decoded report of the touch controller.
type TouchEvent struct {
	Gesture  Gesture
	Action   TouchAction
	Points   uint8 // number of fingers on the screen
	X        uint16
	Y        uint16
	Pressure uint8
}

const (
	// TouchAddress is the I2C address of the CST816S touch controller.
	TouchAddress = 0x15

	touchReportRegister = 0x01

	// Gesture, points, event+X high, X low, ID+Y high, Y low, pressure.
	touchReportLen = 7
)

func decodeTouchReport(buf *[touchReportLen]byte) TouchEvent {
	return TouchEvent{
		Gesture:  decodeGesture(buf[0]),
		Points:   buf[1] & 0x0f,
		Action:   TouchAction(buf[2] >> 6),
		X:        uint16(buf[2]&0x0f)<<8 | uint16(buf[3]),
		Y:        uint16(buf[4]&0x0f)<<8 | uint16(buf[5]),
		Pressure: buf[6],
	}
}

var ErrTouchRead = errors.New("watch: could not read touch report")

// Touch reads the CST816S touch controller.
//
// The controller pulls its interrupt line low when it has a new report, and
// is only reachable over I2C for a short while afterwards. So the report is
// read right away in a real-time pin callback, into a buffer that Update
// copies under the interrupt mask.
type Touch struct {
	Bus     drivers.I2C
	Address uint16
	IRQ     Pin

	input *Input

	tx [1]byte

	// Shared with the interrupt handler.
	rx     [touchReportLen]byte
	report [touchReportLen]byte
	seq    uint32
	errs   uint32

	lastSeq  uint32
	lastErrs uint32
}

func (t *Touch) Name() string {
	return "touch"
}

// Init binds the touch interrupt pin.
func (t *Touch) Init(in *Input) error {
	if t.Address == 0 {
		t.Address = TouchAddress
	}
	t.input = in
	t.tx[0] = touchReportRegister
	if t.IRQ == NoPin {
		// No touch screen. Update never sees a report.
		return nil
	}
	return in.Bind(PinConfig{
		Pin:      t.IRQ,
		Polarity: PolarityFalling,
		Pull:     PullUp,
		Callback: t.interrupt,
		RealTime: true,
	})
}

// interrupt runs in interrupt context.
func (t *Touch) interrupt(pin Pin) {
	err := t.Bus.Tx(t.Address, t.tx[:], t.rx[:])
	if err != nil {
		// Keep the last good report.
		t.errs++
		return
	}
	t.report = t.rx
	t.seq++
}

func (t *Touch) Update(s *DeviceState) error {
	s.Expire(FieldTouchEvent)

	t.input.Mask()
	report := t.report
	seq := t.seq
	errs := t.errs
	t.input.Unmask()

	if seq != t.lastSeq {
		t.lastSeq = seq
		s.Touch = decodeTouchReport(&report)
		s.Publish(FieldTouchEvent)
	}
	if errs != t.lastErrs {
		t.lastErrs = errs
		return ErrTouchRead
	}
	return nil
}

//go:build !baremetal

package watch

import (
	"errors"
	"sync"
)

var (
	errSimNack     = errors.New("watch: simulated I2C device did not acknowledge")
	errSimRegister = errors.New("watch: simulated I2C register not readable")
	errSimBus      = errors.New("watch: simulated I2C bus failure")
)

// simTouch pretends to be a CST816S touch controller on an I2C bus. It
// implements drivers.I2C.
type simTouch struct {
	mu     sync.Mutex
	report [touchReportLen]byte
	reads  int
	fail   bool // fail every transfer
}

func (t *simTouch) Tx(addr uint16, w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reads++
	if t.fail {
		return errSimBus
	}
	if addr != TouchAddress {
		return errSimNack
	}
	if len(w) != 1 || w[0] != touchReportRegister || len(r) > len(t.report) {
		return errSimRegister
	}
	copy(r, t.report[:])
	return nil
}

// setReport stores the report returned by the next read, encoded the way
// the controller does it.
func (t *simTouch) setReport(ev TouchEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report = [touchReportLen]byte{
		uint8(ev.Gesture),
		ev.Points,
		uint8(ev.Action)<<6 | uint8(ev.X>>8)&0x0f,
		uint8(ev.X),
		uint8(ev.Y>>8) & 0x0f,
		uint8(ev.Y),
		ev.Pressure,
	}
}

func (t *simTouch) setFail(fail bool) {
	t.mu.Lock()
	t.fail = fail
	t.mu.Unlock()
}

func (t *simTouch) readCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reads
}

// gestureFromDrag turns a mouse drag into the gesture the touch controller
// would detect for the same finger movement.
func gestureFromDrag(x0, y0, x1, y1 int) Gesture {
	const threshold = 20
	dx, dy := x1-x0, y1-y0
	adx, ady := dx, dy
	if adx < 0 {
		adx = -adx
	}
	if ady < 0 {
		ady = -ady
	}
	switch {
	case adx < threshold && ady < threshold:
		return GestureSinglePress
	case adx > ady && dx > 0:
		return GestureSlideRight
	case adx > ady:
		return GestureSlideLeft
	case dy > 0:
		return GestureSlideDown
	default:
		return GestureSlideUp
	}
}

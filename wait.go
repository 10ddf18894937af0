package watch

import "errors"

var ErrTimeout = errors.New("watch: timeout waiting for peripheral")

// waitReady polls ready until it returns true, at most limit times. Hardware
// that never raises its event (a peripheral that was not clocked, a missed
// task) then ends in an error instead of a hang.
func waitReady(ready func() bool, limit int) error {
	for i := 0; i < limit; i++ {
		if ready() {
			return nil
		}
	}
	return ErrTimeout
}

package watch

import "testing"

func newTestInput() (*simController, *Input) {
	ctrl := newSimController()
	in := NewInput(ctrl)
	ctrl.setHandler(in.HandleInterrupt)
	return ctrl, in
}

// pulse drives a short low pulse on a pulled up pin: one falling edge.
func pulse(ctrl *simController, pin Pin) {
	ctrl.Set(pin, false)
	ctrl.Set(pin, true)
}

func TestEventQueue(t *testing.T) {
	var q eventQueue
	for i := 0; i < NumChannels; i++ {
		if !q.push(uint8(i)) {
			t.Fatalf("push %d failed on a queue of length %d", i, q.len())
		}
	}
	if q.push(99) {
		t.Errorf("push succeeded on a full queue")
	}
	if q.len() != NumChannels {
		t.Errorf("expected length %d, got %d", NumChannels, q.len())
	}
	for i := 0; i < NumChannels; i++ {
		if got := q.at(q.head + uint8(i)); got != uint8(i) {
			t.Errorf("entry %d: expected %d, got %d", i, i, got)
		}
	}
}

func TestInputFIFO(t *testing.T) {
	ctrl, in := newTestInput()
	var order []Pin
	record := func(pin Pin) {
		order = append(order, pin)
	}
	for _, pin := range []Pin{3, 4, 5} {
		err := in.Bind(PinConfig{Pin: pin, Polarity: PolarityFalling, Pull: PullUp, Callback: record})
		if err != nil {
			t.Fatalf("could not bind pin %d: %v", pin, err)
		}
	}

	pulse(ctrl, 5)
	pulse(ctrl, 3)
	pulse(ctrl, 4)
	if !in.Pending() {
		t.Errorf("expected pending events")
	}
	if n := in.Drain(); n != 3 {
		t.Errorf("expected 3 callbacks, got %d", n)
	}
	expected := []Pin{5, 3, 4}
	if len(order) != len(expected) {
		t.Fatalf("expected callbacks for %v, got %v", expected, order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("callback %d: expected pin %d, got %d", i, expected[i], order[i])
		}
	}
	if n := in.Drain(); n != 0 {
		t.Errorf("expected an empty queue, got %d callbacks", n)
	}
}

func TestInputSimultaneousEdges(t *testing.T) {
	ctrl, in := newTestInput()
	var order []Pin
	record := func(pin Pin) {
		order = append(order, pin)
	}
	for _, pin := range []Pin{3, 5} {
		err := in.Bind(PinConfig{Pin: pin, Polarity: PolarityFalling, Pull: PullUp, Callback: record})
		if err != nil {
			t.Fatalf("could not bind pin %d: %v", pin, err)
		}
	}

	// Both events are pending when the interrupt runs, so the lower channel
	// is serviced first regardless of which edge came first.
	in.Mask()
	pulse(ctrl, 5)
	pulse(ctrl, 3)
	in.Unmask()

	in.Drain()
	if len(order) != 2 || order[0] != 3 || order[1] != 5 {
		t.Errorf("expected callbacks for pins [3 5], got %v", order)
	}
}

func TestInputInvalidPin(t *testing.T) {
	for _, tc := range []struct {
		pin Pin
		err error
	}{
		{0, nil},
		{NumPins - 1, nil},
		{NumPins, ErrInvalidPin},
		{NoPin, ErrInvalidPin},
	} {
		_, in := newTestInput()
		err := in.Bind(PinConfig{Pin: tc.pin, Polarity: PolarityFalling, Callback: func(Pin) {}})
		if err != tc.err {
			t.Errorf("pin %d: expected %v, got %v", tc.pin, tc.err, err)
		}
		if _, ok := in.Bound(tc.pin); ok != (tc.err == nil) {
			t.Errorf("pin %d: bound=%v", tc.pin, ok)
		}
		if tc.err != nil && in.freeChannel() != 0 {
			t.Errorf("pin %d: rejected pin used up a channel", tc.pin)
		}
	}

	_, in := newTestInput()
	in.ConfigureInput(NoPin, PullUp)
	if in.Get(NoPin) {
		t.Errorf("unconnected pin reads high")
	}
}

func TestInputBindTwice(t *testing.T) {
	ctrl, in := newTestInput()
	var first, second int
	err := in.Bind(PinConfig{Pin: 7, Polarity: PolarityFalling, Pull: PullUp, Callback: func(Pin) { first++ }})
	if err != nil {
		t.Fatal("could not bind:", err)
	}
	err = in.Bind(PinConfig{Pin: 7, Polarity: PolarityRising, Pull: PullUp, Callback: func(Pin) { second++ }})
	if err != ErrPinBound {
		t.Errorf("expected ErrPinBound, got %v", err)
	}
	if ch, ok := in.Bound(7); !ok || ch != 0 {
		t.Errorf("expected pin 7 on channel 0, got %d (bound: %v)", ch, ok)
	}

	pulse(ctrl, 7)
	in.Drain()
	if first != 1 || second != 0 {
		t.Errorf("expected only the first callback to run once, got %d and %d calls", first, second)
	}
}

func TestInputChannelsExhausted(t *testing.T) {
	_, in := newTestInput()
	for i := 0; i < NumChannels; i++ {
		pin := Pin(i + 1)
		if err := in.Bind(PinConfig{Pin: pin, Polarity: PolarityFalling, Callback: func(Pin) {}}); err != nil {
			t.Fatalf("could not bind pin %d: %v", pin, err)
		}
		if ch, ok := in.Bound(pin); !ok || ch != i {
			t.Errorf("expected pin %d on channel %d, got %d (bound: %v)", pin, i, ch, ok)
		}
	}
	err := in.Bind(PinConfig{Pin: 20, Polarity: PolarityFalling, Callback: func(Pin) {}})
	if err != ErrNoChannel {
		t.Errorf("expected ErrNoChannel, got %v", err)
	}
	if _, ok := in.Bound(20); ok {
		t.Errorf("pin 20 was bound without a free channel")
	}
}

func TestInputNilCallback(t *testing.T) {
	_, in := newTestInput()
	if err := in.Bind(PinConfig{Pin: 2}); err != ErrNilCallback {
		t.Errorf("expected ErrNilCallback, got %v", err)
	}
	if _, ok := in.Bound(2); ok {
		t.Errorf("pin was bound without a callback")
	}
}

func TestInputOverflowDropsNewest(t *testing.T) {
	ctrl, in := newTestInput()
	var calls int
	in.Bind(PinConfig{Pin: 2, Polarity: PolarityFalling, Pull: PullUp, Callback: func(Pin) { calls++ }})

	for i := 0; i < NumChannels+2; i++ {
		pulse(ctrl, 2)
	}
	if n := in.Dropped(); n != 2 {
		t.Errorf("expected 2 dropped events, got %d", n)
	}
	if n := in.Drain(); n != NumChannels {
		t.Errorf("expected %d callbacks, got %d", NumChannels, n)
	}
	if calls != NumChannels {
		t.Errorf("expected %d calls, got %d", NumChannels, calls)
	}
	if in.Pending() {
		t.Errorf("queue not empty after drain")
	}
}

func TestInputMaskedEdgesCollapse(t *testing.T) {
	ctrl, in := newTestInput()
	in.Bind(PinConfig{Pin: 2, Polarity: PolarityFalling, Pull: PullUp, Callback: func(Pin) {}})

	// Two falling edges while the interrupt is masked set the same event bit.
	in.Mask()
	ctrl.Set(2, false)
	ctrl.Set(2, true)
	ctrl.Set(2, false)
	in.Unmask()

	if n := in.Drain(); n != 1 {
		t.Errorf("expected 1 callback, got %d", n)
	}
}

func TestInputRealTime(t *testing.T) {
	ctrl, in := newTestInput()
	var calls int
	in.Bind(PinConfig{Pin: 28, Polarity: PolarityFalling, Pull: PullUp, RealTime: true, Callback: func(Pin) { calls++ }})

	pulse(ctrl, 28)
	if calls != 1 {
		t.Errorf("expected the callback to run from the interrupt, got %d calls", calls)
	}
	if in.Pending() {
		t.Errorf("real-time event was queued")
	}
	if n := in.Drain(); n != 0 {
		t.Errorf("expected no queued callbacks, got %d", n)
	}
}

func TestInputStrayEvent(t *testing.T) {
	ctrl, in := newTestInput()
	var calls int
	in.Bind(PinConfig{Pin: 2, Polarity: PolarityFalling, Pull: PullUp, Callback: func(Pin) { calls++ }})

	// A channel nobody bound through Input.
	ctrl.ConfigureInput(9, PullUp)
	ctrl.ConfigureChannel(6, 9, PolarityFalling)
	ctrl.EnableChannel(6)
	pulse(ctrl, 9)

	if ctrl.EventPending(6) {
		t.Errorf("stray event was not cleared")
	}
	if in.Pending() || in.Drain() != 0 || calls != 0 {
		t.Errorf("stray event reached a callback")
	}
}

func TestInputBindClearsOldEvent(t *testing.T) {
	ctrl, in := newTestInput()

	// Noise on the pin before the channel is armed.
	ctrl.ConfigureInput(4, PullUp)
	ctrl.ConfigureChannel(0, 4, PolarityFalling)
	pulse(ctrl, 4)

	var calls int
	in.Bind(PinConfig{Pin: 4, Polarity: PolarityFalling, Pull: PullUp, Callback: func(Pin) { calls++ }})
	if n := in.Drain(); n != 0 || calls != 0 {
		t.Errorf("event from before the binding ran a callback")
	}
}

func TestInputDrainSnapshot(t *testing.T) {
	ctrl, in := newTestInput()
	var order []Pin
	in.Bind(PinConfig{Pin: 2, Polarity: PolarityFalling, Pull: PullUp, Callback: func(pin Pin) {
		order = append(order, pin)
		// Arrives while the queue is being drained.
		pulse(ctrl, 3)
	}})
	in.Bind(PinConfig{Pin: 3, Polarity: PolarityFalling, Pull: PullUp, Callback: func(pin Pin) {
		order = append(order, pin)
	}})

	pulse(ctrl, 2)
	if n := in.Drain(); n != 1 {
		t.Errorf("expected 1 callback in the first drain, got %d", n)
	}
	if !in.Pending() {
		t.Errorf("event that arrived during the drain was lost")
	}
	if n := in.Drain(); n != 1 {
		t.Errorf("expected 1 callback in the second drain, got %d", n)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 3 {
		t.Errorf("expected callbacks for pins [2 3], got %v", order)
	}
}

func TestInputCounterWrap(t *testing.T) {
	ctrl, in := newTestInput()
	in.Bind(PinConfig{Pin: 2, Polarity: PolarityToggle, Pull: PullUp, Callback: func(Pin) {}})
	for i := 0; i < 300; i++ {
		ctrl.Set(2, i%2 != 0)
		if n := in.Drain(); n != 1 {
			t.Fatalf("iteration %d: expected 1 callback, got %d", i, n)
		}
	}
	if in.Dropped() != 0 {
		t.Errorf("unexpected dropped events: %d", in.Dropped())
	}
}

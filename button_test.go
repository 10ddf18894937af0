package watch

import "testing"

func newTestButton(t *testing.T) (*simDevice, *Input, *Button) {
	dev := newSimDevice()
	in := NewInput(dev.ctrl)
	dev.ctrl.setHandler(in.HandleInterrupt)
	b := &Button{
		Pin:  dev.pins.Button,
		Pull: dev.pins.ButtonPull,
		RTC:  dev.rtc,
	}
	if err := b.Init(in); err != nil {
		t.Fatal("could not init button:", err)
	}
	return dev, in, b
}

func TestButtonPress(t *testing.T) {
	dev, in, b := newTestButton(t)
	var s DeviceState

	b.Update(&s)
	if s.Changed.Any() || b.Busy() {
		t.Errorf("button reported a change without being touched")
	}

	dev.rtc.advance(42)
	dev.setButton(true)
	if !in.Pending() {
		t.Errorf("button press was not queued")
	}
	in.Drain()
	if !b.Busy() {
		t.Errorf("button not busy with an unpublished press")
	}
	b.Update(&s)
	if !s.Changed.Has(FieldButtonPress) || !s.Flags.ButtonPressed {
		t.Errorf("press was not published")
	}
	if s.ButtonPressedAt != 42 {
		t.Errorf("expected the press at 42s, got %ds", s.ButtonPressedAt)
	}
	if b.Busy() {
		t.Errorf("button still busy after publishing")
	}

	dev.setButton(false)
	in.Drain()
	b.Update(&s)
	if !s.Changed.Has(FieldButtonPress) || s.Flags.ButtonPressed {
		t.Errorf("release was not published")
	}

	b.Update(&s)
	if s.Changed.Has(FieldButtonPress) {
		t.Errorf("button flag was not expired")
	}
}

func TestButtonShortPress(t *testing.T) {
	dev, in, b := newTestButton(t)
	var s DeviceState

	// Pressed and released before the main loop got to it.
	dev.setButton(true)
	dev.setButton(false)
	if n := in.Drain(); n != 2 {
		t.Errorf("expected 2 callbacks, got %d", n)
	}

	var seen []bool
	for i := 0; i < 3; i++ {
		b.Update(&s)
		if s.Changed.Has(FieldButtonPress) {
			seen = append(seen, s.Flags.ButtonPressed)
		}
		if i == 0 && !b.Busy() {
			t.Errorf("button not busy with a queued release")
		}
	}
	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Errorf("expected a press and a release, got %v", seen)
	}
	if b.Busy() {
		t.Errorf("button still busy")
	}
}

func TestButtonActiveLow(t *testing.T) {
	dev := newSimDevice()
	in := NewInput(dev.ctrl)
	dev.ctrl.setHandler(in.HandleInterrupt)
	b := &Button{Pin: 5, ActiveLow: true, Pull: PullUp, RTC: dev.rtc}
	if err := b.Init(in); err != nil {
		t.Fatal("could not init button:", err)
	}
	var s DeviceState

	dev.ctrl.Set(5, false)
	in.Drain()
	b.Update(&s)
	if !s.Changed.Has(FieldButtonPress) || !s.Flags.ButtonPressed {
		t.Errorf("low level was not published as a press")
	}
}

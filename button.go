package watch

// Button is the side button.
//
// The pin callback is queued and runs in the main loop, where it samples the
// pin level. A press and a release can both happen before the next Update;
// the latch then publishes them in two consecutive cycles, so the app sees
// both, and the button reports itself busy in between.
type Button struct {
	Pin       Pin
	ActiveLow bool
	Pull      Pull
	RTC       RTC

	input *Input

	pressed   bool   // level at the last callback
	edges     uint32 // number of callbacks
	lastEdges uint32

	published bool // as seen by the app
	queued    bool // a second transition waits to be published
	next      bool
}

func (b *Button) Name() string {
	return "button"
}

// Init binds the button pin. A button on NoPin is never pressed.
func (b *Button) Init(in *Input) error {
	b.input = in
	if b.Pin == NoPin {
		return nil
	}
	err := in.Bind(PinConfig{
		Pin:      b.Pin,
		Polarity: PolarityToggle,
		Pull:     b.Pull,
		Callback: b.changed,
	})
	if err != nil {
		return err
	}
	b.pressed = b.read()
	b.published = b.pressed
	return nil
}

func (b *Button) read() bool {
	return b.input.Get(b.Pin) != b.ActiveLow
}

func (b *Button) changed(pin Pin) {
	b.pressed = b.read()
	b.edges++
}

// Busy returns true while a transition has been detected but not yet
// published.
func (b *Button) Busy() bool {
	return b.queued || b.edges != b.lastEdges
}

func (b *Button) Update(s *DeviceState) error {
	s.Expire(FieldButtonPress)

	if b.queued {
		b.queued = false
		b.publish(s, b.next)
		return nil
	}

	if b.edges == b.lastEdges {
		return nil
	}
	b.lastEdges = b.edges

	if b.pressed != b.published {
		b.publish(s, b.pressed)
		return nil
	}

	// The level is back where it was, so the button went through a complete
	// press and release (or release and press) since the last update.
	b.publish(s, !b.pressed)
	b.queued = true
	b.next = b.pressed
	return nil
}

func (b *Button) publish(s *DeviceState, pressed bool) {
	b.published = pressed
	s.Flags.ButtonPressed = pressed
	if pressed {
		s.ButtonPressedAt = b.RTC.Seconds()
	}
	s.Publish(FieldButtonPress)
}

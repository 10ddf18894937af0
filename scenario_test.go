package watch

import (
	"strings"
	"testing"
	"time"
)

const testScenario = `
steps:
  - after: 500ms
    button: press
  - after: 200ms
    button: release
  - gesture: slide-down
    x: 120
    y: 40
  - charger: connect
  - battery: 3650
  - advance: 60
  - exit: true
  - button: press
`

func TestScenarioPlay(t *testing.T) {
	sc, err := parseScenario([]byte(testScenario))
	if err != nil {
		t.Fatal("could not parse scenario:", err)
	}
	if len(sc.Steps) != 8 {
		t.Fatalf("expected 8 steps, got %d", len(sc.Steps))
	}
	if sc.Steps[2].gesture != GestureSlideDown {
		t.Errorf("expected a slide-down gesture, got %v", sc.Steps[2].gesture)
	}

	dev, _, sched := bootTestDevice(t)
	settle(t, sched)

	var sleeps []time.Duration
	exit := sc.play(dev, func(d time.Duration) {
		sleeps = append(sleeps, d)
	})
	if !exit {
		t.Errorf("scenario did not ask to exit")
	}
	if len(sleeps) != 2 || sleeps[0] != 500*time.Millisecond || sleeps[1] != 200*time.Millisecond {
		t.Errorf("unexpected sleeps: %v", sleeps)
	}
	if dev.rtc.Seconds() != 60 {
		t.Errorf("expected the RTC at 60s, got %d", dev.rtc.Seconds())
	}
	if dev.touch.readCount() != 1 {
		t.Errorf("expected 1 touch report read, got %d", dev.touch.readCount())
	}
	if dev.ctrl.Get(dev.pins.Button) {
		t.Errorf("steps after the exit were played")
	}

	settle(t, sched)
	if !sched.State.Flags.ChargerConnected {
		t.Errorf("charger not connected")
	}
	if sched.State.BatteryMillivolts != 3650 {
		t.Errorf("expected a battery reading of 3650mV, got %dmV", sched.State.BatteryMillivolts)
	}
	if sched.State.Touch.X != 120 || sched.State.Touch.Y != 40 {
		t.Errorf("unexpected touch position %d,%d", sched.State.Touch.X, sched.State.Touch.Y)
	}
}

func TestScenarioErrors(t *testing.T) {
	for _, tc := range []struct {
		input string
		err   string
	}{
		{"steps: [", "watch: scenario: "},
		{"steps:\n  - button: hold\n", `unknown button action "hold"`},
		{"steps:\n  - gesture: wiggle\n", `unknown gesture "wiggle"`},
		{"steps:\n  - gesture: none\n", `unknown gesture "none"`},
		{"steps:\n  - after: 1s\n  - charger: maybe\n", `step 1: unknown charger action "maybe"`},
		{"steps:\n  - after: soon\n", "watch: scenario: "},
	} {
		_, err := parseScenario([]byte(tc.input))
		if err == nil {
			t.Errorf("%q: expected an error", tc.input)
			continue
		}
		if !strings.Contains(err.Error(), tc.err) {
			t.Errorf("%q: expected an error containing %q, got %q", tc.input, tc.err, err)
		}
	}
}

package watch

import "testing"

func TestTakeState(t *testing.T) {
	s, err := TakeState()
	if err != nil {
		t.Fatal("could not take state:", err)
	}
	defer ReleaseState(s)

	if _, err := TakeState(); err != ErrStateTaken {
		t.Errorf("expected ErrStateTaken on the second take, got %v", err)
	}

	if s.AppPage != PageStartup || s.Display != DisplayOn || s.BatteryLevel != 4 {
		t.Errorf("unexpected defaults: page %v, display %v, battery level %d", s.AppPage, s.Display, s.BatteryLevel)
	}
	if !s.Changed.Has(FieldAppPage) {
		t.Errorf("the first page is not marked for drawing")
	}

	ReleaseState(s)
	s2, err := TakeState()
	if err != nil {
		t.Fatal("could not take state after releasing it:", err)
	}
	if s2 != s {
		t.Errorf("expected the same state record")
	}
}

func TestReleaseForeignState(t *testing.T) {
	s, err := TakeState()
	if err != nil {
		t.Fatal("could not take state:", err)
	}
	defer ReleaseState(s)

	ReleaseState(&DeviceState{})
	if _, err := TakeState(); err != ErrStateTaken {
		t.Errorf("releasing another record released the device state")
	}
}

func TestChangeFlags(t *testing.T) {
	var c ChangeFlags
	if c.Any() {
		t.Errorf("zero flags report a change")
	}
	for f := Field(0); f < numFields; f++ {
		c.Set(f)
		if !c.Has(f) || !c.Any() {
			t.Errorf("%v: flag not set", f)
		}
		c.Set(f)
		c.Clear(f)
		if c.Has(f) {
			t.Errorf("%v: flag still set after clear", f)
		}
		c.Clear(f)
		if c.Any() {
			t.Errorf("%v: clearing twice set a flag", f)
		}
	}
}

func TestDeviceStateFlagDiscipline(t *testing.T) {
	var s DeviceState
	s.Publish(FieldTimeChange)
	s.Publish(FieldTouchEvent)
	s.Handled(FieldTimeChange)
	if s.Changed.Has(FieldTimeChange) || !s.Changed.Has(FieldTouchEvent) {
		t.Errorf("handling one field changed another: %08b", s.Changed)
	}
	s.Expire(FieldTouchEvent)
	s.Expire(FieldTouchEvent)
	if s.Changed.Any() {
		t.Errorf("flags left after expiring: %08b", s.Changed)
	}
}

func TestFieldString(t *testing.T) {
	for _, tc := range []struct {
		field Field
		name  string
	}{
		{FieldAppPage, "app-page"},
		{FieldTouchEvent, "touch-event"},
		{numFields, "unknown"},
	} {
		if s := tc.field.String(); s != tc.name {
			t.Errorf("expected %q, got %q", tc.name, s)
		}
	}
}

package watch

// Time is a wall clock time of day.
type Time struct {
	Hours   uint8
	Minutes uint8
	Seconds uint8
}

const secondsPerDay = 24 * 60 * 60

// add returns the time the given number of seconds later, wrapping at
// midnight.
func (t Time) add(seconds uint32) Time {
	total := (uint32(t.Hours)*3600 + uint32(t.Minutes)*60 + uint32(t.Seconds) + seconds%secondsPerDay) % secondsPerDay
	return Time{
		Hours:   uint8(total / 3600),
		Minutes: uint8(total / 60 % 60),
		Seconds: uint8(total % 60),
	}
}

// Digits returns the four digits shown on the watch face (HH:MM). With
// military set to false the hours are shown on a 12 hour clock, where
// midnight and noon are 12.
func (t Time) Digits(military bool) [4]uint8 {
	hours := t.Hours
	if !military {
		hours %= 12
		if hours == 0 {
			hours = 12
		}
	}
	return [4]uint8{hours / 10, hours % 10, t.Minutes / 10, t.Minutes % 10}
}

// Clock keeps the wall time, driven by the RTC seconds counter.
//
// It publishes FieldTimeChange only when the hour or minute changes: the
// other RTC ticks leave the change flags clean so the device can go back to
// sleep right away.
type Clock struct {
	RTC RTC

	started bool
	last    uint32
	time    Time
	set     bool
}

// SetTime sets the wall time. The change is published on the next update.
func (c *Clock) SetTime(t Time) {
	c.time = t
	c.set = true
}

func (c *Clock) Name() string {
	return "clock"
}

func (c *Clock) Update(s *DeviceState) error {
	s.Expire(FieldTimeChange)

	now := c.RTC.Seconds()
	if !c.started {
		c.started = true
		c.last = now
		c.set = false
		s.Time = c.time
		s.Publish(FieldTimeChange)
		return nil
	}

	old := c.time
	c.time = c.time.add(now - c.last)
	c.last = now
	s.Time = c.time
	if c.set || old.Hours != c.time.Hours || old.Minutes != c.time.Minutes {
		s.Publish(FieldTimeChange)
	}
	c.set = false
	return nil
}

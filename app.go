package watch

// Default button hold times and idle time before dimming, in seconds.
const (
	DefaultRestartWarn = 1
	DefaultRestartHold = 5
	DefaultDimAfter    = 15
)

// App is the consumer of the device state: it shows the pages, navigates
// between them, and controls the display.
//
// The app only clears the change flags it actually reacted to. A flag for
// something that isn't on the current page is left alone; its producer drops
// it on its next update.
type App struct {
	Screen    Screen
	RTC       RTC
	Restarter Restarter
	Military  bool // 24 hour clock

	RestartWarn uint32 // hold time before the restart warning is shown
	RestartHold uint32 // hold time before the device restarts
	DimAfter    uint32 // time without input before the display dims

	started      bool
	lastActivity uint32 // RTC seconds of the last button or touch input
	holding      bool
	pressStart   uint32
	warning      bool
	stale        bool // something changed while the display was off
	logVersion   uint32
	lines        []string
	err          error
}

func (a *App) Name() string {
	return "app"
}

func (a *App) Update(s *DeviceState) error {
	if a.RestartWarn == 0 {
		a.RestartWarn = DefaultRestartWarn
	}
	if a.RestartHold == 0 {
		a.RestartHold = DefaultRestartHold
	}
	if a.DimAfter == 0 {
		a.DimAfter = DefaultDimAfter
	}
	a.err = nil
	now := a.RTC.Seconds()
	if !a.started {
		a.started = true
		a.lastActivity = now
	}

	if s.AppPage == PageStartup {
		a.navigate(s, PageHome)
	}

	if s.Changed.Has(FieldButtonPress) {
		a.lastActivity = now
		a.buttonChanged(s)
		s.Handled(FieldButtonPress)
	}
	if a.holding {
		a.checkHold(s)
	}

	if s.Changed.Has(FieldTouchEvent) {
		a.lastActivity = now
		switch s.Display {
		case DisplayOff:
			// The touch only wakes up the display.
			a.setDisplay(s, DisplayOn)
		case DisplayDim:
			// A dimmed page is still readable, so the gesture counts.
			a.setDisplay(s, DisplayOn)
			a.gesture(s, s.Touch.Gesture)
		default:
			a.gesture(s, s.Touch.Gesture)
		}
		s.Handled(FieldTouchEvent)
	}

	if s.Display == DisplayOn && !a.holding && now-a.lastActivity >= a.DimAfter {
		a.setDisplay(s, DisplayDim)
	}

	if s.Changed.Has(FieldDisplayState) {
		on := s.Display != DisplayOff
		a.Screen.SetBacklight(s.Display)
		if on && a.stale {
			s.Publish(FieldAppPage)
		}
		s.Handled(FieldDisplayState)
	}

	a.draw(s)
	return a.err
}

func (a *App) navigate(s *DeviceState, page Page) {
	if s.AppPage != page {
		debugLog("app", page.String())
	}
	s.AppPage = page
	s.Publish(FieldAppPage)
}

func (a *App) setDisplay(s *DeviceState, state DisplayState) {
	if s.Display != state {
		debugLog("app", "display "+state.String())
	}
	s.Display = state
	s.Publish(FieldDisplayState)
}

func (a *App) buttonChanged(s *DeviceState) {
	if s.Flags.ButtonPressed {
		a.holding = true
		a.pressStart = s.ButtonPressedAt
		return
	}

	// Released.
	long := a.warning
	a.holding = false
	if a.warning {
		a.warning = false
		if s.Display != DisplayOff && s.AppPage == PageHome {
			a.check(a.Screen.DrawRestartWarning(false))
		}
	}
	if long {
		return
	}

	switch s.AppPage {
	case PageHome:
		if s.Display == DisplayOn {
			a.setDisplay(s, DisplayOff)
		} else {
			a.setDisplay(s, DisplayOn)
		}
	default:
		if s.Display != DisplayOn {
			a.setDisplay(s, DisplayOn)
		}
		a.navigate(s, PageHome)
	}
}

// checkHold runs in every cycle while the button is held. The RTC interrupt
// wakes the device every second, so the hold time is checked often enough.
func (a *App) checkHold(s *DeviceState) {
	if s.AppPage != PageHome {
		return
	}
	held := a.RTC.Seconds() - a.pressStart
	switch {
	case held >= a.RestartHold:
		debugLog("app", "restart")
		a.holding = false
		a.Restarter.Restart()
	case held >= a.RestartWarn && !a.warning:
		a.warning = true
		if s.Display != DisplayOff {
			a.check(a.Screen.DrawRestartWarning(true))
		}
	}
}

func (a *App) gesture(s *DeviceState, g Gesture) {
	switch s.AppPage {
	case PageHome:
		switch g {
		case GestureSlideDown:
			a.navigate(s, PageSettings)
		case GestureSlideUp:
			a.navigate(s, PageLog)
		case GestureSlideLeft:
			a.navigate(s, PageNotifications)
		}
	case PageSettings:
		if g == GestureSlideUp {
			a.navigate(s, PageHome)
		}
	case PageLog, PageNotifications:
		if g == GestureSlideDown || g == GestureSlideRight {
			a.navigate(s, PageHome)
		}
	}
}

func (a *App) draw(s *DeviceState) {
	if s.Display == DisplayOff {
		if s.Changed.Has(FieldAppPage) || s.Changed.Has(FieldTimeChange) ||
			s.Changed.Has(FieldBatteryVoltage) || s.Changed.Has(FieldChargerState) {
			a.stale = true
		}
		// Nothing to show, so nothing to wait for.
		s.Handled(FieldAppPage)
		return
	}

	if s.Changed.Has(FieldAppPage) {
		a.drawPage(s)
		a.stale = false
		s.Handled(FieldAppPage)
		s.Handled(FieldTimeChange)
		s.Handled(FieldBatteryVoltage)
		s.Handled(FieldChargerState)
		return
	}

	battery := s.Changed.Has(FieldBatteryVoltage) || s.Changed.Has(FieldChargerState)
	if battery {
		a.check(a.Screen.DrawBattery(s.BatteryLevel, s.Flags.Charging || s.Flags.ChargerConnected))
	}

	switch s.AppPage {
	case PageHome:
		if s.Changed.Has(FieldTimeChange) {
			a.check(a.Screen.DrawTime(s.Time, a.Military))
			s.Handled(FieldTimeChange)
		}
	case PageSettings:
		if battery {
			a.check(a.Screen.DrawDetails(batteryDetails(s)))
		}
	case PageLog:
		if debugRing.version != a.logVersion {
			a.drawLog()
		}
	}
	if battery {
		s.Handled(FieldBatteryVoltage)
		s.Handled(FieldChargerState)
	}
}

func (a *App) drawPage(s *DeviceState) {
	a.check(a.Screen.Clear())
	a.check(a.Screen.DrawBattery(s.BatteryLevel, s.Flags.Charging || s.Flags.ChargerConnected))
	switch s.AppPage {
	case PageHome:
		a.check(a.Screen.DrawTitle(""))
		a.check(a.Screen.DrawTime(s.Time, a.Military))
		if a.warning {
			a.check(a.Screen.DrawRestartWarning(true))
		}
	case PageSettings:
		a.check(a.Screen.DrawTitle("Settings"))
		a.check(a.Screen.DrawDetails(batteryDetails(s)))
	case PageLog:
		a.check(a.Screen.DrawTitle("Log"))
		a.drawLog()
	case PageNotifications:
		a.check(a.Screen.DrawTitle("Notifications"))
		a.check(a.Screen.DrawDetails([]string{"No notifications"}))
	}
}

func (a *App) drawLog() {
	// Drawing may log an error, which must not trigger another redraw.
	a.logVersion = debugRing.version
	a.lines = debugRing.appendLines(a.lines[:0])
	a.check(a.Screen.DrawDetails(a.lines))
}

// check remembers the first drawing error of this update.
func (a *App) check(err error) {
	if err != nil && a.err == nil {
		a.err = err
	}
}

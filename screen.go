package watch

import (
	"image/color"
	"strconv"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

// Screen draws the pieces of the watch pages. The app decides what to draw
// and when; a Screen only knows where things go.
type Screen interface {
	Clear() error
	DrawTitle(title string) error
	DrawTime(t Time, military bool) error
	DrawBattery(level BatteryLevel, charging bool) error
	DrawDetails(lines []string) error
	DrawRestartWarning(show bool) error
	SetBacklight(state DisplayState)
}

// Canvas is a display that can also fill rectangles quickly, like most
// display drivers in tinygo.org/x/drivers.
type Canvas interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

var (
	colorBackground = color.RGBA{0, 0, 0, 255}
	colorText       = color.RGBA{255, 255, 255, 255}
	colorDim        = color.RGBA{128, 128, 128, 255}
	colorCharging   = color.RGBA{0, 192, 0, 255}
)

// Layout of a 240x240 screen.
const (
	titleX        = 8
	titleBaseline = 22

	batteryX      = 196
	batteryY      = 6
	batteryWidth  = 36
	batteryHeight = 18

	timeTop      = 90
	timeHeight   = 50
	timeBaseline = 132

	detailsTop        = 48
	detailsLineHeight = 22

	warningTop      = 168
	warningBaseline = 188
)

// TextScreen draws the pages with tinyfont text on any Canvas.
type TextScreen struct {
	Canvas    Canvas
	Backlight func(state DisplayState)
}

func (s *TextScreen) Clear() error {
	w, h := s.Canvas.Size()
	if err := s.Canvas.FillRectangle(0, 0, w, h, colorBackground); err != nil {
		return err
	}
	return s.Canvas.Display()
}

func (s *TextScreen) DrawTitle(title string) error {
	if err := s.Canvas.FillRectangle(0, 0, batteryX-4, batteryY+batteryHeight+4, colorBackground); err != nil {
		return err
	}
	tinyfont.WriteLine(s.Canvas, &freemono.Bold9pt7b, titleX, titleBaseline, title, colorDim)
	return s.Canvas.Display()
}

func (s *TextScreen) DrawTime(t Time, military bool) error {
	w, _ := s.Canvas.Size()
	if err := s.Canvas.FillRectangle(0, timeTop, w, timeHeight, colorBackground); err != nil {
		return err
	}
	d := t.Digits(military)
	text := string([]byte{'0' + d[0], '0' + d[1], ':', '0' + d[2], '0' + d[3]})
	if !military && d[0] == 0 {
		text = text[1:]
	}
	_, width := tinyfont.LineWidth(&freemono.Bold24pt7b, text)
	tinyfont.WriteLine(s.Canvas, &freemono.Bold24pt7b, (w-int16(width))/2, timeBaseline, text, colorText)
	return s.Canvas.Display()
}

func (s *TextScreen) DrawBattery(level BatteryLevel, charging bool) error {
	c := colorText
	if charging {
		c = colorCharging
	}
	// Outline, then the cap on the right.
	if err := s.Canvas.FillRectangle(batteryX, batteryY, batteryWidth-4, batteryHeight, c); err != nil {
		return err
	}
	if err := s.Canvas.FillRectangle(batteryX+2, batteryY+2, batteryWidth-8, batteryHeight-4, colorBackground); err != nil {
		return err
	}
	if err := s.Canvas.FillRectangle(batteryX+batteryWidth-4, batteryY+5, 3, batteryHeight-10, c); err != nil {
		return err
	}

	// One bar per level.
	const bar = (batteryWidth - 12) / 4
	for i := int16(0); i < int16(level) && i < 4; i++ {
		if err := s.Canvas.FillRectangle(batteryX+4+i*bar, batteryY+4, bar-1, batteryHeight-8, c); err != nil {
			return err
		}
	}
	return s.Canvas.Display()
}

func (s *TextScreen) DrawDetails(lines []string) error {
	w, h := s.Canvas.Size()
	if err := s.Canvas.FillRectangle(0, detailsTop, w, h-detailsTop, colorBackground); err != nil {
		return err
	}
	for i, line := range lines {
		y := int16(detailsTop + (i+1)*detailsLineHeight)
		tinyfont.WriteLine(s.Canvas, &freemono.Bold9pt7b, titleX, y, line, colorText)
	}
	return s.Canvas.Display()
}

func (s *TextScreen) DrawRestartWarning(show bool) error {
	w, _ := s.Canvas.Size()
	if err := s.Canvas.FillRectangle(0, warningTop, w, 2*detailsLineHeight, colorBackground); err != nil {
		return err
	}
	if show {
		tinyfont.WriteLine(s.Canvas, &freemono.Bold9pt7b, 56, warningBaseline, "Hold button", colorText)
		tinyfont.WriteLine(s.Canvas, &freemono.Bold9pt7b, 56, warningBaseline+detailsLineHeight, "to restart!", colorText)
	}
	return s.Canvas.Display()
}

func (s *TextScreen) SetBacklight(state DisplayState) {
	if s.Backlight != nil {
		s.Backlight(state)
	}
}

// batteryDetails returns the lines of the settings page.
func batteryDetails(s *DeviceState) []string {
	charger := "on battery"
	switch {
	case s.Flags.Charging:
		charger = "charging"
	case s.Flags.ChargerConnected:
		charger = "charged"
	}
	return []string{
		"Battery",
		strconv.Itoa(int(s.BatteryMillivolts)) + " mV",
		strconv.Itoa(int(s.BatteryPercent)) + "%",
		charger,
	}
}

//go:build !baremetal

package watch

// The simulator window. It runs in a separate process: Fyne needs to own the
// main goroutine, which the firmware main loop already does. So the current
// executable is started again with a special argument, and the two processes
// talk over pipes (stdin/stdout in the window process).
//
// Commands from the firmware, one per line:
//
//	title <text>
//	display <width> <height>
//	display-brightness <level> <max>
//	draw <x> <y> <width>     followed by width*3 bytes of RGB data
//
// Events to the firmware:
//
//	keypress <name>, keyrelease <name>
//	mousedown <x> <y>, mouseup <x> <y>

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
)

const runWindowCommand = "run-simulator-window"

func init() {
	if len(os.Args) >= 2 && os.Args[1] == runWindowCommand {
		// This is the window process. Run the entire window in an init
		// function, before the firmware main gets a chance to start.
		windowMain()
		os.Exit(0)
	}
}

var (
	colorBezel = color.RGBA{R: 192, G: 192, B: 192, A: 255}
	colorUnlit = color.RGBA{R: 96, G: 96, B: 96, A: 255}
)

// watchFace is the simulated LCD: a framebuffer plus the backlight level.
type watchFace struct {
	lock     sync.Mutex
	pixels   *image.RGBA
	level    int
	maxLevel int
	widget   *displayWidget
}

func windowMain() {
	face := &watchFace{
		pixels:   image.NewRGBA(image.Rect(0, 0, 240, 240)),
		level:    1,
		maxLevel: 1,
		widget:   &displayWidget{},
	}
	face.widget.Generator = face.render

	a := app.New()
	w := a.NewWindow("Simulator")
	w.SetPadded(false)
	w.SetFixedSize(true)
	w.SetContent(fyne.NewContainerWithLayout(layout.NewVBoxLayout(), face.widget))

	// Keys are forwarded by name; the firmware side decides which key is
	// which pin.
	if deskCanvas, ok := w.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(event *fyne.KeyEvent) {
			fmt.Printf("keypress %s\n", event.Name)
		})
		deskCanvas.SetOnKeyUp(func(event *fyne.KeyEvent) {
			fmt.Printf("keyrelease %s\n", event.Name)
		})
	}

	go face.readCommands(w, bufio.NewReader(os.Stdin))

	w.ShowAndRun()
}

// render draws the face centered in a w by h raster, scaled up by a whole
// number.
func (f *watchFace) render(w, h int) image.Image {
	f.lock.Lock()
	defer f.lock.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBezel), image.Point{}, draw.Src)

	src := f.pixels.Bounds()
	scale := h / src.Dy()
	if scale < 1 {
		scale = 1
	}
	x := (w - src.Dx()*scale) / 2
	y := (h - src.Dy()*scale) / 2
	dst := image.Rect(x, y, x+src.Dx()*scale, y+src.Dy()*scale)
	if f.level <= 0 {
		// A dark LCD still shows a little.
		draw.Draw(img, dst, image.NewUniform(colorUnlit), image.Point{}, draw.Src)
		return img
	}
	draw.NearestNeighbor.Scale(img, dst, f.pixels, src, draw.Src, nil)
	if f.level < f.maxLevel {
		shade := image.NewUniform(color.Alpha{A: uint8(255 - 255*f.level/f.maxLevel)})
		draw.DrawMask(img, dst, image.Black, image.Point{}, shade, image.Point{}, draw.Over)
	}
	return img
}

// readCommands handles the commands of the firmware process until it exits.
func (f *watchFace) readCommands(w fyne.Window, r *bufio.Reader) {
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			// The firmware exited or restarted itself.
			os.Exit(0)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "title":
			w.SetTitle(strings.TrimSpace(strings.TrimPrefix(line, "title")))
		case "display":
			var width, height int
			fmt.Sscanf(line, "display %d %d", &width, &height)
			f.resize(width, height)
		case "display-brightness":
			var level, maxLevel int
			fmt.Sscanf(line, "display-brightness %d %d", &level, &maxLevel)
			if maxLevel <= 0 {
				maxLevel = 1
			}
			f.lock.Lock()
			f.level = level
			f.maxLevel = maxLevel
			f.lock.Unlock()
			f.widget.Refresh()
		case "draw":
			var x, y, width int
			fmt.Sscanf(line, "draw %d %d %d", &x, &y, &width)
			row := make([]byte, width*3)
			if _, err := io.ReadFull(r, row); err != nil {
				os.Exit(0)
			}
			f.drawRow(x, y, row)
			f.widget.Refresh()
		default:
			fmt.Fprintln(os.Stderr, "unknown command:", fields[0])
		}
	}
}

// resize replaces the framebuffer with random noise, which is what an LCD
// shows right after power on.
func (f *watchFace) resize(width, height int) {
	pixels := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range pixels.Pix {
		pixels.Pix[i] = uint8(rand.Uint32())
		if i%4 == 3 {
			pixels.Pix[i] = 255
		}
	}

	f.lock.Lock()
	f.pixels = pixels
	f.widget.SetMinSize(fyne.NewSize(float32(width), float32(height)))
	f.lock.Unlock()
}

func (f *watchFace) drawRow(x, y int, row []byte) {
	f.lock.Lock()
	defer f.lock.Unlock()
	for i := 0; i+2 < len(row); i += 3 {
		f.pixels.SetRGBA(x+i/3, y, color.RGBA{R: row[i], G: row[i+1], B: row[i+2], A: 255})
	}
}

var _ desktop.Mouseable = (*displayWidget)(nil)

// displayWidget is a raster that reports mouse clicks and drags, which stand
// in for fingers on the touch screen.
type displayWidget struct {
	canvas.Raster
}

func (d *displayWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(&d.Raster)
}

func (d *displayWidget) MouseDown(event *desktop.MouseEvent) {
	if event.Button == desktop.MouseButtonPrimary {
		fmt.Printf("mousedown %d %d\n", int(event.Position.X), int(event.Position.Y))
	}
}

func (d *displayWidget) MouseUp(event *desktop.MouseEvent) {
	if event.Button == desktop.MouseButtonPrimary {
		fmt.Printf("mouseup %d %d\n", int(event.Position.X), int(event.Position.Y))
	}
}

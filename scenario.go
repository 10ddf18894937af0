//go:build !baremetal

package watch

// Scenario files replay input on the simulator, for demos and for running it
// without a window. Example:
//
//	steps:
//	  - after: 500ms
//	    button: press
//	  - after: 200ms
//	    button: release
//	  - gesture: slide-down
//	  - charger: connect
//	  - battery: 3650
//	  - advance: 60
//	  - after: 1s
//	    exit: true

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type scenario struct {
	Steps []scenarioStep `yaml:"steps"`
}

// scenarioStep waits for After and then applies every action that is set.
type scenarioStep struct {
	After   time.Duration `yaml:"after"`
	Button  string        `yaml:"button"`  // press or release
	Gesture string        `yaml:"gesture"` // as in Gesture.String
	X       uint16        `yaml:"x"`
	Y       uint16        `yaml:"y"`
	Charger string        `yaml:"charger"` // connect or disconnect
	Battery uint16        `yaml:"battery"` // millivolts
	Advance uint32        `yaml:"advance"` // RTC seconds
	Exit    bool          `yaml:"exit"`

	gesture Gesture
}

var scenarioGestures = []Gesture{
	GestureSlideDown, GestureSlideUp, GestureSlideLeft, GestureSlideRight,
	GestureSinglePress, GestureDoublePress, GestureLongPress,
}

func parseGestureName(name string) (Gesture, bool) {
	for _, g := range scenarioGestures {
		if g.String() == name {
			return g, true
		}
	}
	return GestureNone, false
}

func parseScenario(data []byte) (*scenario, error) {
	sc := &scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("watch: scenario: %w", err)
	}
	for i := range sc.Steps {
		step := &sc.Steps[i]
		switch step.Button {
		case "", "press", "release":
		default:
			return nil, fmt.Errorf("watch: scenario step %d: unknown button action %q", i, step.Button)
		}
		switch step.Charger {
		case "", "connect", "disconnect":
		default:
			return nil, fmt.Errorf("watch: scenario step %d: unknown charger action %q", i, step.Charger)
		}
		if step.Gesture != "" {
			g, ok := parseGestureName(step.Gesture)
			if !ok {
				return nil, fmt.Errorf("watch: scenario step %d: unknown gesture %q", i, step.Gesture)
			}
			step.gesture = g
		}
	}
	return sc, nil
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseScenario(data)
}

// play applies all steps to the device. It returns true when a step asked to
// end the simulation.
func (sc *scenario) play(dev *simDevice, sleep func(time.Duration)) bool {
	for _, step := range sc.Steps {
		if step.After > 0 {
			sleep(step.After)
		}
		switch step.Button {
		case "press":
			dev.setButton(true)
		case "release":
			dev.setButton(false)
		}
		if step.gesture != GestureNone {
			dev.touchEvent(TouchEvent{
				Gesture: step.gesture,
				Action:  TouchUp,
				X:       step.X,
				Y:       step.Y,
			})
		}
		switch step.Charger {
		case "connect":
			dev.setCharger(true)
		case "disconnect":
			dev.setCharger(false)
		}
		if step.Battery != 0 {
			dev.battery.set(step.Battery)
		}
		if step.Advance != 0 {
			dev.tick(step.Advance)
		}
		if step.Exit {
			return true
		}
	}
	return false
}

package watch

import "strconv"

// Task is one step of the main loop. Drivers are tasks that produce changes
// in the device state, the app is the task that consumes them.
type Task interface {
	Name() string
	Update(s *DeviceState) error
}

// Scheduler is the cooperative main loop. Each cycle it runs the queued pin
// callbacks and then every task in order, and puts the CPU to sleep when
// there is nothing left to do.
type Scheduler struct {
	Input   *Input
	State   *DeviceState
	Tasks   []Task // in order: clock, battery, button, touch, app
	Busy    []BusyReporter
	Sleeper Sleeper

	// Cycles counts the number of completed cycles.
	Cycles uint32

	dropped uint32
	idle    func() bool
}

// Step runs a single cycle and returns whether the device may go to sleep
// afterwards.
func (s *Scheduler) Step() bool {
	s.Input.Drain()
	if dropped := s.Input.Dropped(); dropped != s.dropped {
		debugLog("input", "dropped "+strconv.Itoa(int(dropped-s.dropped))+" events")
		s.dropped = dropped
	}

	for _, task := range s.Tasks {
		if err := task.Update(s.State); err != nil {
			// A failing task never stops the loop.
			debugLog(task.Name(), err.Error())
		}
	}
	s.Cycles++
	return s.ShouldSleep()
}

// ShouldSleep returns whether nothing is left to do: no change flag is set,
// no pin event is queued and nobody reports being busy.
func (s *Scheduler) ShouldSleep() bool {
	if s.State.Changed.Any() {
		return false
	}
	if s.Input.Pending() {
		return false
	}
	for _, b := range s.Busy {
		if b.Busy() {
			return false
		}
	}
	return true
}

// Run runs the main loop forever.
func (s *Scheduler) Run() {
	s.idle = s.ShouldSleep
	for {
		s.Step()
		s.Sleeper.WaitForInterrupt(s.idle)
	}
}

package main

import (
	"github.com/aykevl/watch"
)

func main() {
	// Verify board name constant.
	var _ string = watch.Name

	// Assert that watch.Hardware uses the usual interface.
	var _ interface {
		Configure() watch.Peripherals
	} = watch.Hardware

	// Assert that the peripherals can be booted.
	var boot func(watch.Peripherals) (*watch.Scheduler, error) = watch.Boot
	_ = boot

	// Assert that the screen and input types fit together.
	var _ watch.Screen = (*watch.TextScreen)(nil)
	var _ watch.Task = (*watch.App)(nil)
	var _ watch.BusyReporter = (*watch.Button)(nil)
}

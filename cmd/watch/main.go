// Command watch is the watch firmware. Build it with -target=pinetime for the
// watch, or with plain go build for the desktop simulator.
package main

import "github.com/aykevl/watch"

func main() {
	sched, err := watch.Boot(watch.Hardware.Configure())
	if err != nil {
		println("boot failed:", err.Error())
		return
	}
	sched.Run()
}

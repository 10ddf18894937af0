package watch

import "io"

// DebugOutput receives short diagnostic lines of the form "tag: message". It
// is the serial port on the device and stderr in the simulator. Set it to nil
// to disable diagnostics.
var DebugOutput io.Writer

// The last few diagnostic lines are also kept for the log page.
const (
	logEntries = 8
	logLineLen = 20
)

type logRing struct {
	lines   [logEntries]string
	next    int
	count   int
	version uint32 // incremented on every push
}

var debugRing logRing

func (r *logRing) push(line string) {
	if len(line) > logLineLen {
		line = line[:logLineLen]
	}
	r.lines[r.next] = line
	r.next = (r.next + 1) % logEntries
	if r.count < logEntries {
		r.count++
	}
	r.version++
}

// appendLines appends the stored lines to buf, oldest first.
func (r *logRing) appendLines(buf []string) []string {
	start := r.next - r.count
	if start < 0 {
		start += logEntries
	}
	for i := 0; i < r.count; i++ {
		buf = append(buf, r.lines[(start+i)%logEntries])
	}
	return buf
}

func debugLog(tag, msg string) {
	line := tag + ": " + msg
	debugRing.push(line)
	if DebugOutput == nil {
		return
	}
	DebugOutput.Write([]byte(line + "\n"))
}

// Command watchmon prints the diagnostic lines the watch writes to its serial
// port, with a timestamp, optionally only for some tags.
//
//	watchmon -device=/dev/ttyACM0 -tag=battery,touch
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tarm/serial"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	tags   = flag.String("tag", "", "Comma separated list of tags to show (default all)")
)

func main() {
	flag.Parse()

	port, err := serial.OpenPort(&serial.Config{
		Name: *device,
		Baud: *baud,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open serial port %s: %v\n", *device, err)
		os.Exit(1)
	}
	defer port.Close()

	err = monitor(port, os.Stdout, parseTags(*tags), time.Now)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func parseTags(s string) []string {
	var result []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			result = append(result, tag)
		}
	}
	return result
}

// monitor copies lines from r to w until r ends.
func monitor(r io.Reader, w io.Writer, tags []string, now func() time.Time) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || !wanted(line, tags) {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", now().Format("15:04:05.000"), line)
	}
	return scanner.Err()
}

// wanted returns whether the line has one of the tags. Lines are of the form
// "tag: message". No tags means every line is wanted.
func wanted(line string, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	tag, _, ok := strings.Cut(line, ":")
	if !ok {
		return false
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

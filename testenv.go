package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"keytap/beep"
	"keytap/hotkey"
	"keytap/log"
)

// testEnv replaces the OS tap with a fake source driven by text commands:
//
//	KEYDOWN, KEYUP   press or release the configured hotkey
//	OTHER            press and release an unrelated key
//	FLAGS <n>        modifier flags changed to n
//	DISABLE          the system disabled the tap
//	WAIT             block until the next transition is reported
//	SLEEP <ms>
//	QUIT
type testEnv struct {
	target  hotkey.Target
	src     *hotkey.FakeSource
	out     *lineSink
	handled <-chan struct{}
}

func (e *testEnv) emit(name string, ev hotkey.Event) {
	e.report(name, e.src.Emit(ev))
}

func (e *testEnv) report(name string, swallowed bool) {
	result := "passed"
	if swallowed {
		result = "swallowed"
	}
	e.out.printf("event %s: %s", name, result)
}

// drive executes commands until QUIT or EOF.
func (e *testEnv) drive(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		switch {
		case cmd == "":
		case cmd == "KEYDOWN":
			if e.target.UsesMask() {
				e.emit("flags", hotkey.FlagsChanged(e.target.Mask))
			} else {
				e.emit("keydown", hotkey.KeyDown(e.target.KeyCode))
			}
		case cmd == "KEYUP":
			if e.target.UsesMask() {
				e.emit("flags", hotkey.FlagsChanged(0))
			} else {
				e.emit("keyup", hotkey.KeyUp(e.target.KeyCode))
			}
		case cmd == "OTHER":
			other := e.target.KeyCode + 1
			e.emit("keydown", hotkey.KeyDown(other))
			e.emit("keyup", hotkey.KeyUp(other))
		case strings.HasPrefix(cmd, "FLAGS "):
			n, err := strconv.ParseUint(strings.TrimSpace(cmd[6:]), 0, 64)
			if err != nil {
				log.Warnf("test: bad flags %q", cmd)
				continue
			}
			e.emit("flags", hotkey.FlagsChanged(hotkey.Flags(n)))
		case cmd == "DISABLE":
			e.report("disabled", e.src.Disable())
		case cmd == "WAIT":
			select {
			case <-e.handled:
			case <-time.After(2 * time.Second):
				log.Warn("test: WAIT timed out")
			}
		case strings.HasPrefix(cmd, "SLEEP "):
			if ms, err := strconv.Atoi(cmd[6:]); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case cmd == "QUIT":
			return
		default:
			log.Warnf("test: unknown command %q", cmd)
		}
	}
}

func runTestMode(o options) int {
	beep.Disable()

	sink := &lineSink{w: os.Stdout}
	src := hotkey.NewFakeSource()
	hk := hotkey.New(o.target, o.tapOptions(sink, hotkey.WithFakeSource(src))...)
	if err := hk.Register(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	handled := make(chan struct{}, 8)
	c := &controller{hk: hk, mode: o.mode, longPress: o.longPress, sink: sink, handled: handled}
	quit := make(chan struct{})
	loopDone := make(chan struct{})
	go func() {
		c.run(quit)
		close(loopDone)
	}()

	sink.ModeLine(o.modeLine())
	env := &testEnv{target: o.target, src: src, out: sink, handled: handled}
	env.drive(os.Stdin)

	close(quit)
	<-loopDone
	hk.Unregister()
	st := hk.Stats()
	log.TapStop(log.TapStats(st))
	sink.printf("stats downs=%d ups=%d passed=%d rearms=%d rearm_failures=%d",
		st.Downs, st.Ups, st.Passed, st.Rearms, st.RearmFailures)
	return 0
}

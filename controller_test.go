package main

import (
	"os"
	"sync"
	"testing"
	"time"

	"keytap/beep"
	"keytap/config"
	"keytap/hotkey"
)

func TestMain(m *testing.M) {
	beep.Disable()
	os.Exit(m.Run())
}

type recordedSink struct {
	mu     sync.Mutex
	events []string
}

func (r *recordedSink) add(s string) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

func (r *recordedSink) Engaged(mode string)      { r.add("engaged " + mode) }
func (r *recordedSink) Disengaged(time.Duration) { r.add("disengaged") }
func (r *recordedSink) TapError(text string)     { r.add("error " + text) }
func (r *recordedSink) ModeLine(string)          {}

func (r *recordedSink) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func startController(t *testing.T, mode string) (*hotkey.FakeHotkey, *recordedSink, chan struct{}) {
	t.Helper()
	hk := hotkey.NewFake()
	sink, handled := runController(t, hk, mode)
	return hk, sink, handled
}

func runController(t *testing.T, hk hotkey.Hotkey, mode string) (*recordedSink, chan struct{}) {
	t.Helper()
	sink := &recordedSink{}
	handled := make(chan struct{}, 4)
	c := &controller{hk: hk, mode: mode, longPress: 50 * time.Millisecond, sink: sink, handled: handled}
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		c.run(quit)
		close(done)
	}()
	t.Cleanup(func() {
		close(quit)
		<-done
	})
	return sink, handled
}

// startListener registers a Listener over a fake source for target key F18.
func startListener(t *testing.T) (*hotkey.Listener, *hotkey.FakeSource) {
	t.Helper()
	src := hotkey.NewFakeSource()
	l := hotkey.New(hotkey.Target{KeyCode: hotkey.KeyF18}, hotkey.WithFakeSource(src))
	if err := l.Register(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(l.Unregister)
	return l, src
}

func waitHandled(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for transition")
	}
}

func equalEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestControllerPTT(t *testing.T) {
	hk, sink, handled := startController(t, config.ModePTT)

	hk.SimKeydown()
	waitHandled(t, handled)
	hk.SimKeyup()
	waitHandled(t, handled)

	equalEvents(t, sink.got(), []string{"engaged ptt", "disengaged"})
}

func TestControllerPTTIgnoresStrayRelease(t *testing.T) {
	l, src := startListener(t)
	src.Emit(hotkey.KeyUp(hotkey.KeyF18))
	src.Emit(hotkey.KeyDown(hotkey.KeyF18))
	sink, handled := runController(t, l, config.ModePTT)

	waitHandled(t, handled)
	time.Sleep(20 * time.Millisecond)
	equalEvents(t, sink.got(), []string{"engaged ptt"})
}

func TestControllerPTTQueuedTap(t *testing.T) {
	// Press and release are both queued before the controller reads either.
	for i := 0; i < 50; i++ {
		t.Run("", func(t *testing.T) {
			l, src := startListener(t)
			src.Emit(hotkey.KeyDown(hotkey.KeyF18))
			src.Emit(hotkey.KeyUp(hotkey.KeyF18))
			sink, handled := runController(t, l, config.ModePTT)

			waitHandled(t, handled)
			waitHandled(t, handled)
			equalEvents(t, sink.got(), []string{"engaged ptt", "disengaged"})
		})
	}
}

func TestControllerPTTBacklogStaysInStep(t *testing.T) {
	l, src := startListener(t)
	// More taps than the listener buffers; the overflow is dropped whole.
	for i := 0; i < 12; i++ {
		src.Emit(hotkey.KeyDown(hotkey.KeyF18))
		src.Emit(hotkey.KeyUp(hotkey.KeyF18))
	}
	sink, _ := runController(t, l, config.ModePTT)

	var want []string
	for i := 0; i < 8; i++ {
		want = append(want, "engaged ptt", "disengaged")
	}
	waitEvents(t, sink, len(want))
	time.Sleep(20 * time.Millisecond)
	equalEvents(t, sink.got(), want)

	src.Emit(hotkey.KeyDown(hotkey.KeyF18))
	src.Emit(hotkey.KeyUp(hotkey.KeyF18))
	want = append(want, "engaged ptt", "disengaged")
	waitEvents(t, sink, len(want))
	equalEvents(t, sink.got(), want)
}

func waitEvents(t *testing.T, sink *recordedSink, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for len(sink.got()) < n {
		if time.Now().After(deadline) {
			t.Fatalf("got %v, want %d events", sink.got(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestControllerToggleTap(t *testing.T) {
	hk, sink, handled := startController(t, config.ModeToggle)

	// short tap latches
	hk.SimKeydown()
	waitHandled(t, handled)
	hk.SimKeyup()
	time.Sleep(20 * time.Millisecond)
	equalEvents(t, sink.got(), []string{"engaged ptt"})

	// next press and release unlatches
	hk.SimKeydown()
	hk.SimKeyup()
	waitHandled(t, handled)
	equalEvents(t, sink.got(), []string{"engaged ptt", "disengaged"})
}

func TestControllerToggleHold(t *testing.T) {
	hk, sink, handled := startController(t, config.ModeToggle)

	hk.SimKeydown()
	waitHandled(t, handled)
	time.Sleep(100 * time.Millisecond)
	hk.SimKeyup()
	waitHandled(t, handled)

	equalEvents(t, sink.got(), []string{"engaged ptt", "disengaged"})
}

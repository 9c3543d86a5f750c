package hotkey

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	ErrPermissionDenied = errors.New("event tap refused (grant Input Monitoring / Accessibility permission)")
	ErrUnsupported      = errors.New("event taps are only available on macOS")
)

// TapCreationError is returned by Start when the OS refuses to install the tap.
type TapCreationError struct {
	Target Target
	Err    error
}

func (e *TapCreationError) Error() string {
	return fmt.Sprintf("creating event tap for %s: %v", e.Target, e.Err)
}

func (e *TapCreationError) Unwrap() error { return e.Err }

// Sink receives the two transition notifications. Both run on the
// listening thread, strictly alternating, and must return quickly: the OS
// disables taps whose callbacks stall.
type Sink struct {
	OnDown func()
	OnUp   func()
}

// Logger is the subset of logging the tap needs.
type Logger interface {
	Info(msg string)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string)           {}
func (nopLogger) Errorf(string, ...any) {}

// source is the OS side of a tap. open, pump and close run on the
// listening thread; setEnabled and interrupt may be called from anywhere
// until close.
type source interface {
	// open installs the filter. deliver returns true to swallow the event.
	open(deliver func(Event) bool) error
	setEnabled(on bool) error
	// pump dispatches events until interrupt is called.
	pump()
	interrupt()
	close()
}

type Stats struct {
	Downs         uint64
	Ups           uint64
	Passed        uint64
	Rearms        uint64
	RearmFailures uint64
}

type Option func(*Tap)

// WithLogger routes tap diagnostics to l.
func WithLogger(l Logger) Option {
	return func(t *Tap) { t.log = l }
}

// WithRearmErrorHandler is called on the listening thread whenever the
// tap cannot be re-enabled after the OS disabled it.
func WithRearmErrorHandler(fn func(error)) Option {
	return func(t *Tap) { t.onRearmErr = fn }
}

// WithSwallowRepeats also swallows auto-repeat downs and unmatched ups of
// a key-code target so they never reach other applications.
func WithSwallowRepeats() Option {
	return func(t *Tap) { t.swallowRepeats = true }
}

func withSource(src source) Option {
	return func(t *Tap) { t.src = src }
}

// Tap is one installed event tap. It is created by Start and is dead
// after Stop; a new Start yields a new Tap with fresh state.
type Tap struct {
	target         Target
	sink           Sink
	src            source
	log            Logger
	onRearmErr     func(error)
	swallowRepeats bool

	// Only touched on the listening thread.
	classifier *Classifier

	// mu orders cross-thread calls into src against its release.
	mu       sync.Mutex
	released bool
	stopped  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}

	downs, ups, passed, rearms, rearmFailures atomic.Uint64
}

// Start installs a session-wide tap for target on a dedicated OS thread
// and returns once the OS has accepted it. Events are classified and
// dispatched to sink on that thread until Stop.
func Start(target Target, sink Sink, opts ...Option) (*Tap, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	t := &Tap{
		target:     target,
		sink:       sink,
		log:        nopLogger{},
		classifier: NewClassifier(target),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.src == nil {
		t.src = newSystemSource()
	}

	created := make(chan error, 1)
	go t.listen(created)
	if err := <-created; err != nil {
		return nil, &TapCreationError{Target: target, Err: err}
	}
	t.log.Info("tap_started: " + target.String())
	return t, nil
}

func (t *Tap) listen(created chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	t.classifier.Reset()
	if err := t.src.open(t.deliver); err != nil {
		created <- err
		return
	}
	if err := t.src.setEnabled(true); err != nil {
		t.src.close()
		created <- err
		return
	}
	created <- nil

	t.runLoop()

	t.mu.Lock()
	t.released = true
	t.src.close()
	t.mu.Unlock()
	t.log.Info("tap_released")
}

// runLoop blocks the listening thread until Stop.
func (t *Tap) runLoop() {
	for !t.stopped.Load() {
		t.src.pump()
	}
}

// deliver is the OS callback. It returns true when the event must be
// swallowed.
func (t *Tap) deliver(ev Event) bool {
	if t.stopped.Load() {
		return false
	}

	d := t.classifier.Classify(ev)
	switch d {
	case FilterDisabledBySystem:
		t.rearm(ev)
		return false
	case Down:
		t.downs.Add(1)
		t.dispatch(t.sink.OnDown)
		return true
	case Up:
		t.ups.Add(1)
		t.dispatch(t.sink.OnUp)
		return true
	}

	t.passed.Add(1)
	return t.swallowRepeats && t.classifier.targetsKey(ev)
}

func (t *Tap) dispatch(fn func()) {
	if fn == nil || t.stopped.Load() {
		return
	}
	fn()
}

func (t *Tap) rearm(ev Event) {
	t.mu.Lock()
	if t.stopped.Load() {
		t.mu.Unlock()
		return
	}
	t.rearms.Add(1)
	err := t.src.setEnabled(true)
	t.mu.Unlock()

	if err != nil {
		t.rearmFailures.Add(1)
		err = fmt.Errorf("re-enabling tap after %s: %w", ev.Kind, err)
		t.log.Errorf("tap_rearm_failed: %v", err)
		if t.onRearmErr != nil {
			t.onRearmErr(err)
		}
		return
	}
	t.log.Info("tap_rearmed: " + ev.Kind.String())
}

// Stop disarms the tap and asks the listening thread to exit. It is safe
// to call more than once, from any goroutine, including from a sink. Once
// it returns no further sink call starts; a call already running on the
// listening thread may still finish.
func (t *Tap) Stop() {
	if t == nil {
		return
	}
	t.stopOnce.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.stopped.Store(true)
		if t.released {
			return
		}
		if err := t.src.setEnabled(false); err != nil {
			t.log.Errorf("tap_disarm_failed: %v", err)
		}
		t.src.interrupt()
	})
}

// Wait blocks until the listening thread has exited and the OS handle is
// released. It returns immediately for a tap that was never started.
func (t *Tap) Wait() {
	if t == nil {
		return
	}
	<-t.done
}

func (t *Tap) Done() <-chan struct{} { return t.done }

func (t *Tap) Target() Target { return t.target }

func (t *Tap) Stats() Stats {
	return Stats{
		Downs:         t.downs.Load(),
		Ups:           t.ups.Load(),
		Passed:        t.passed.Load(),
		Rearms:        t.rearms.Load(),
		RearmFailures: t.rearmFailures.Load(),
	}
}

package hotkey

import (
	"errors"
	"sync"
)

type FakeHotkey struct {
	keydown chan struct{}
	keyup   chan struct{}
}

func NewFake() *FakeHotkey {
	return &FakeHotkey{
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (f *FakeHotkey) Register() error          { return nil }
func (f *FakeHotkey) Unregister()              {}
func (f *FakeHotkey) Keydown() <-chan struct{} { return f.keydown }
func (f *FakeHotkey) Keyup() <-chan struct{}   { return f.keyup }

func (f *FakeHotkey) SimKeydown() { f.keydown <- struct{}{} }
func (f *FakeHotkey) SimKeyup()   { f.keyup <- struct{}{} }

var errFakeRefused = errors.New("fake source refused")

// FakeSource stands in for the OS tap. Events sent with Emit are delivered
// on the tap's listening thread, one at a time, exactly like the OS does.
// A FakeSource can back several taps in sequence.
type FakeSource struct {
	mu        sync.Mutex
	sess      *fakeSession
	enabled   bool
	opens     int
	refuse    bool
	enableErr error
}

type fakeRequest struct {
	ev    Event
	reply chan bool
}

type fakeSession struct {
	deliver  func(Event) bool
	requests chan fakeRequest
	stop     chan struct{}
	closed   chan struct{}
	stopOnce sync.Once
}

func NewFakeSource() *FakeSource {
	return &FakeSource{}
}

// WithFakeSource makes Start use f instead of the OS tap.
func WithFakeSource(f *FakeSource) Option {
	return withSource(f)
}

// Refuse makes the next opens fail like a denied permission does.
func (f *FakeSource) Refuse(refuse bool) {
	f.mu.Lock()
	f.refuse = refuse
	f.mu.Unlock()
}

// FailEnable makes enabling the tap fail with err (nil clears it).
func (f *FakeSource) FailEnable(err error) {
	f.mu.Lock()
	f.enableErr = err
	f.mu.Unlock()
}

func (f *FakeSource) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func (f *FakeSource) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

// Disable simulates the OS switching the tap off before reporting it.
func (f *FakeSource) Disable() bool {
	f.mu.Lock()
	f.enabled = false
	f.mu.Unlock()
	return f.Emit(TapDisabled())
}

// Emit delivers ev and reports whether the tap swallowed it. Without an
// open tap the event is never seen and Emit returns false.
func (f *FakeSource) Emit(ev Event) bool {
	f.mu.Lock()
	sess := f.sess
	f.mu.Unlock()
	if sess == nil {
		return false
	}

	req := fakeRequest{ev: ev, reply: make(chan bool, 1)}
	select {
	case sess.requests <- req:
	case <-sess.closed:
		return false
	}
	select {
	case swallowed := <-req.reply:
		return swallowed
	case <-sess.closed:
		return false
	}
}

func (f *FakeSource) open(deliver func(Event) bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refuse {
		return errFakeRefused
	}
	f.opens++
	f.sess = &fakeSession{
		deliver:  deliver,
		requests: make(chan fakeRequest),
		stop:     make(chan struct{}),
		closed:   make(chan struct{}),
	}
	return nil
}

func (f *FakeSource) setEnabled(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if on && f.enableErr != nil {
		return f.enableErr
	}
	f.enabled = on
	return nil
}

func (f *FakeSource) pump() {
	f.mu.Lock()
	sess := f.sess
	f.mu.Unlock()
	if sess == nil {
		return
	}
	for {
		select {
		case req := <-sess.requests:
			req.reply <- sess.deliver(req.ev)
		case <-sess.stop:
			return
		}
	}
}

func (f *FakeSource) interrupt() {
	f.mu.Lock()
	sess := f.sess
	f.mu.Unlock()
	if sess != nil {
		sess.stopOnce.Do(func() { close(sess.stop) })
	}
}

func (f *FakeSource) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sess != nil {
		close(f.sess.closed)
		f.sess = nil
	}
	f.enabled = false
}

package hotkey

import "sync"

// Hotkey provides press/release notifications for a global hotkey.
type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

// Listener is a Hotkey backed by an event tap. Every Register installs a
// fresh tap, so nothing carries over from a previous registration.
type Listener struct {
	target  Target
	opts    []Option
	keydown chan struct{}
	keyup   chan struct{}

	// owned by the listening thread
	dropUp bool

	mu   sync.Mutex
	tap  *Tap
	last Stats
}

func New(target Target, opts ...Option) *Listener {
	// keyup has one more slot, so a reader holding a press always gets its release.
	return &Listener{
		target:  target,
		opts:    opts,
		keydown: make(chan struct{}, 8),
		keyup:   make(chan struct{}, 9),
	}
}

func (l *Listener) Register() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tap != nil {
		return nil
	}
	l.dropUp = false
	tap, err := Start(l.target, Sink{OnDown: l.down, OnUp: l.up}, l.opts...)
	if err != nil {
		return err
	}
	l.tap = tap
	return nil
}

func (l *Listener) Unregister() {
	l.mu.Lock()
	tap := l.tap
	l.tap = nil
	l.mu.Unlock()
	if tap == nil {
		return
	}
	tap.Stop()
	tap.Wait()
	l.mu.Lock()
	l.last = tap.Stats()
	l.mu.Unlock()
}

// Stats reports the counters of the current tap, or of the last one after
// Unregister.
func (l *Listener) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tap != nil {
		return l.tap.Stats()
	}
	return l.last
}

func (l *Listener) Keydown() <-chan struct{} { return l.keydown }
func (l *Listener) Keyup() <-chan struct{}   { return l.keyup }

// The sink runs on the listening thread and must not block it. Edges are
// delivered in pairs: a press that does not fit takes its release with it,
// so a reader taking one Keydown then one Keyup never falls out of step.
func (l *Listener) down() {
	select {
	case l.keydown <- struct{}{}:
		l.dropUp = false
	default:
		l.dropUp = true
	}
}

func (l *Listener) up() {
	if l.dropUp {
		l.dropUp = false
		return
	}
	select {
	case l.keyup <- struct{}{}:
	default:
	}
}

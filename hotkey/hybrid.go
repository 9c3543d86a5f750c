package hotkey

import (
	"sync/atomic"
	"time"
)

type Mode string

const (
	ModePTT    Mode = "ptt"
	ModeToggle Mode = "toggle"
)

// StartEvent indicates the hotkey engaged an action in the given mode.
type StartEvent struct {
	Mode Mode
}

// Hybrid wraps a Hotkey to provide hybrid tap-to-toggle and hold-to-engage
// behavior on the same key. It emits Start events and a unified Stop channel
// that signals when the action should end (for both PTT and Toggle modes).
type Hybrid struct {
	startCh chan StartEvent
	stopCh  chan struct{}
	toggle  atomic.Bool
}

// NewHybrid builds a Hybrid controller on top of an existing Hotkey.
// longPress specifies the duration threshold to treat a press as PTT vs tap.
func NewHybrid(hk Hotkey, longPress time.Duration) *Hybrid {
	h := &Hybrid{
		startCh: make(chan StartEvent, 1),
		stopCh:  make(chan struct{}, 1),
	}
	go h.run(hk, longPress)
	return h
}

// Start returns a channel of StartEvent values signaling when to begin.
func (h *Hybrid) Start() <-chan StartEvent { return h.startCh }

// StopChan returns a channel that is signaled when to stop
// (used for both PTT and toggle modes).
func (h *Hybrid) StopChan() <-chan struct{} { return h.stopCh }

// IsToggle reports whether the current press was a short tap that latched.
func (h *Hybrid) IsToggle() bool { return h.toggle.Load() }

type hybridState int

const (
	stIdle hybridState = iota
	stToggled
)

func (h *Hybrid) run(hk Hotkey, longPress time.Duration) {
	state := stIdle
	for {
		switch state {
		case stIdle:
			// Any press starts immediately; mode is decided by hold duration.
			<-hk.Keydown()
			h.toggle.Store(false)
			h.startCh <- StartEvent{Mode: ModePTT}
			timer := time.NewTimer(longPress)
			select {
			case <-timer.C:
				// Held: stop on release
				<-hk.Keyup()
				h.signalStop()
				state = stIdle
			case <-hk.Keyup():
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				h.toggle.Store(true)
				state = stToggled
			}
		case stToggled:
			// Next press stops on its release (short or long)
			<-hk.Keydown()
			<-hk.Keyup()
			h.toggle.Store(false)
			h.signalStop()
			state = stIdle
		default:
			state = stIdle
		}
	}
}

func (h *Hybrid) signalStop() {
	select {
	case h.stopCh <- struct{}{}:
	default:
	}
}

package main

import (
	"time"

	"keytap/beep"
	"keytap/config"
	"keytap/hotkey"
	"keytap/log"
)

// controller turns hotkey edges into engaged/disengaged transitions for the
// configured mode and reports them to the sink, the log and the speaker.
type controller struct {
	hk        hotkey.Hotkey
	mode      string
	longPress time.Duration
	sink      EventSink

	// signalled after every reported transition, if set
	handled chan struct{}

	engaged   bool
	engagedAt time.Time
}

func (c *controller) run(quit <-chan struct{}) {
	if c.mode == config.ModeToggle {
		c.runHybrid(quit)
		return
	}
	for {
		select {
		case <-quit:
			return
		case <-c.hk.Keydown():
		}
		c.engage(config.ModePTT)
		select {
		case <-quit:
			return
		case <-c.hk.Keyup():
		}
		c.disengage()
	}
}

// runHybrid latches on a short tap and holds on a long press.
func (c *controller) runHybrid(quit <-chan struct{}) {
	hy := hotkey.NewHybrid(c.hk, c.longPress)
	for {
		select {
		case <-quit:
			return
		case ev := <-hy.Start():
			c.engage(string(ev.Mode))
		case <-hy.StopChan():
			c.disengage()
		}
	}
}

func (c *controller) engage(mode string) {
	if c.engaged {
		return
	}
	c.engaged = true
	c.engagedAt = time.Now()
	log.Transition("engaged " + mode)
	go beep.PlayEngage()
	c.sink.Engaged(mode)
	c.signal()
}

func (c *controller) disengage() {
	if !c.engaged {
		return
	}
	c.engaged = false
	held := time.Since(c.engagedAt)
	log.Transition("disengaged")
	go beep.PlayRelease()
	c.sink.Disengaged(held)
	c.signal()
}

func (c *controller) signal() {
	if c.handled == nil {
		return
	}
	select {
	case c.handled <- struct{}{}:
	default:
	}
}

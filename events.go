package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"keytap/tray"
)

// EventSink abstracts the display layer so both the Bubble Tea TUI
// and plain line output receive the same hotkey transitions.
type EventSink interface {
	Engaged(mode string)
	Disengaged(held time.Duration)
	TapError(text string)
	ModeLine(text string)
}

// lineSink writes one line per transition. Used when stdout is not a terminal
// and by -test mode.
type lineSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *lineSink) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format+"\n", args...)
}

func (s *lineSink) Engaged(mode string) { s.printf("engaged %s", mode) }

func (s *lineSink) Disengaged(held time.Duration) {
	s.printf("disengaged %dms", held.Milliseconds())
}

func (s *lineSink) TapError(text string) { s.printf("error: %s", text) }
func (s *lineSink) ModeLine(text string) { s.printf("%s", text) }

// tuiSink forwards transitions to the running Bubble Tea program.
type tuiSink struct{}

func (tuiSink) Engaged(mode string)           { tuiSend(EngagedMsg{Mode: mode}) }
func (tuiSink) Disengaged(held time.Duration) { tuiSend(DisengagedMsg{Held: held}) }
func (tuiSink) TapError(text string)          { tuiSend(TapErrorMsg{Text: text}) }
func (tuiSink) ModeLine(text string)          { tuiSend(ModeLineMsg{Text: text}) }

// traySink mirrors transitions on the menu bar icon.
type traySink struct{}

func (traySink) Engaged(string)           { tray.SetEngaged(true) }
func (traySink) Disengaged(time.Duration) { tray.SetEngaged(false) }
func (traySink) TapError(text string)     { tray.SetError(text) }
func (traySink) ModeLine(text string)     { tray.SetTitle("keytap: " + text) }

type multiSink []EventSink

func (m multiSink) Engaged(mode string) {
	for _, s := range m {
		s.Engaged(mode)
	}
}

func (m multiSink) Disengaged(held time.Duration) {
	for _, s := range m {
		s.Disengaged(held)
	}
}

func (m multiSink) TapError(text string) {
	for _, s := range m {
		s.TapError(text)
	}
}

func (m multiSink) ModeLine(text string) {
	for _, s := range m {
		s.ModeLine(text)
	}
}

// Package tray shows the hotkey state in the macOS menu bar.
package tray

import (
	"sync"
	"time"
)

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	mu      sync.Mutex
	title   = "keytap"
	engaged bool
	errMsg  string

	loginOn bool
	loginCb func(bool) error
)

// SetTitle sets the status line shown at the top of the menu.
func SetTitle(t string) {
	mu.Lock()
	title = t
	mu.Unlock()
	updateStatus()
}

func SetLogin(on bool)            { loginOn = on }
func OnLogin(fn func(bool) error) { loginCb = fn }

func SetEngaged(on bool) {
	mu.Lock()
	engaged = on
	mu.Unlock()
	updateIcon()
}

// SetError flags the icon and tooltip for a while.
func SetError(msg string) {
	mu.Lock()
	errMsg = msg
	mu.Unlock()
	updateIcon()
	updateStatus()
	go func() {
		time.Sleep(10 * time.Second)
		mu.Lock()
		if errMsg == msg {
			errMsg = ""
		}
		mu.Unlock()
		updateIcon()
		updateStatus()
	}()
}

func Quit() {
	closeOnce.Do(func() { close(quitCh) })
}

type iconState int

const (
	iconIdleState iconState = iota
	iconEngagedState
	iconErrorState
)

func currentIcon() iconState {
	mu.Lock()
	defer mu.Unlock()
	switch {
	case errMsg != "":
		return iconErrorState
	case engaged:
		return iconEngagedState
	default:
		return iconIdleState
	}
}

func tooltip() string {
	mu.Lock()
	defer mu.Unlock()
	if errMsg != "" {
		return title + " – " + errMsg
	}
	return title
}

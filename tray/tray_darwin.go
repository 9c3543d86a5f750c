//go:build darwin

package tray

import (
	"fyne.io/systray"
	"golang.design/x/hotkey/mainthread"
)

var (
	mStatus *systray.MenuItem
	mLogin  *systray.MenuItem
	ready   = make(chan struct{})
)

// Init puts the icon in the menu bar and returns a channel closed when the
// user picks Quit.
func Init() <-chan struct{} {
	start, _ := systray.RunWithExternalLoop(onReady, onExit)
	done := make(chan struct{})
	mainthread.Call(func() {
		start()
		close(done)
	})
	<-done
	return quitCh
}

func onReady() {
	systray.SetTemplateIcon(iconIdleHi, iconIdle)
	systray.SetTooltip(tooltip())

	mStatus = systray.AddMenuItem(tooltip(), "")
	mStatus.Disable()
	systray.AddSeparator()

	mLogin = systray.AddMenuItemCheckbox("Start on Login", "Launch keytap when you log in", loginOn)
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit keytap")

	go func() {
		for {
			select {
			case <-mLogin.ClickedCh:
				toggleLogin()
			case <-mQuit.ClickedCh:
				Quit()
				return
			}
		}
	}()
	close(ready)
}

func toggleLogin() {
	want := !mLogin.Checked()
	if loginCb != nil {
		if err := loginCb(want); err != nil {
			SetError(err.Error())
			return
		}
	}
	if want {
		mLogin.Check()
	} else {
		mLogin.Uncheck()
	}
}

func isReady() bool {
	select {
	case <-ready:
		return true
	default:
		return false
	}
}

func updateIcon() {
	if !isReady() {
		return
	}
	switch currentIcon() {
	case iconEngagedState:
		systray.SetIcon(iconEngagedHi)
	case iconErrorState:
		systray.SetIcon(iconErrorHi)
	default:
		systray.SetTemplateIcon(iconIdleHi, iconIdle)
	}
}

func updateStatus() {
	if !isReady() {
		return
	}
	systray.SetTooltip(tooltip())
	mStatus.SetTitle(tooltip())
}

func onExit() {
	Quit()
}

// Package inject posts synthetic key presses so a running tap can be
// exercised without touching the keyboard.
package inject

import (
	"errors"
	"time"
)

var ErrUnsupported = errors.New("key injection is not supported on this platform")

// Press holds code down for hold, then releases it.
func Press(code uint16, hold time.Duration) error {
	kb, err := bonding()
	if err != nil {
		return err
	}
	if err := kb.down(code); err != nil {
		return err
	}
	time.Sleep(hold)
	return kb.up(code)
}

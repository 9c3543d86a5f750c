//go:build darwin

package inject

import (
	"sync"

	"github.com/micmonay/keybd_event"
)

type keyboard struct {
	mu sync.Mutex
	kb keybd_event.KeyBonding
}

var (
	kbd     *keyboard
	kbdOnce sync.Once
	kbdErr  error
)

func bonding() (*keyboard, error) {
	kbdOnce.Do(func() {
		var kb keybd_event.KeyBonding
		kb, kbdErr = keybd_event.NewKeyBonding()
		if kbdErr == nil {
			kbd = &keyboard{kb: kb}
		}
	})
	return kbd, kbdErr
}

func (k *keyboard) down(code uint16) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.kb.SetKeys(int(code))
	return k.kb.Press()
}

func (k *keyboard) up(code uint16) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.kb.SetKeys(int(code))
	return k.kb.Release()
}

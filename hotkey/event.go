package hotkey

import (
	"errors"
	"fmt"
)

// Flags is the modifier-flags bitmask carried by every keyboard event.
type Flags uint64

// Modifier bits, as the OS reports them.
const (
	FlagCapsLock Flags = 1 << 16
	FlagShift    Flags = 1 << 17
	FlagControl  Flags = 1 << 18
	FlagOption   Flags = 1 << 19
	FlagCommand  Flags = 1 << 20
	FlagNumPad   Flags = 1 << 21
	FlagHelp     Flags = 1 << 22
	FlagFn       Flags = 1 << 23
)

// ErrInvalidTarget is returned for a Target with neither a key code nor a mask.
var ErrInvalidTarget = errors.New("hotkey target needs a key code or a modifier mask")

// Target is the single key the tap watches. When Mask is non-zero the
// key code is ignored and any masked bit being set counts as pressed.
type Target struct {
	KeyCode uint16
	Mask    Flags
}

// UsesMask reports whether the target is a modifier watched through its flag bits.
func (t Target) UsesMask() bool { return t.Mask != 0 }

func (t Target) Validate() error {
	if t.KeyCode == 0 && t.Mask == 0 {
		return ErrInvalidTarget
	}
	return nil
}

func (t Target) String() string {
	if t.UsesMask() {
		return fmt.Sprintf("mask=%#x", uint64(t.Mask))
	}
	return fmt.Sprintf("keycode=%d", t.KeyCode)
}

// Kind is the type of an event delivered to the tap.
type Kind int

const (
	KindOther Kind = iota // anything that is not a keyboard event
	KindKeyDown
	KindKeyUp
	KindFlagsChanged // a modifier went down or up
	// The OS turned the tap off because a callback was too slow.
	KindDisabledByTimeout
	// The OS turned the tap off on behalf of the user (secure input and friends).
	KindDisabledByUserInput
)

func (k Kind) String() string {
	switch k {
	case KindKeyDown:
		return "key_down"
	case KindKeyUp:
		return "key_up"
	case KindFlagsChanged:
		return "flags_changed"
	case KindDisabledByTimeout:
		return "disabled_by_timeout"
	case KindDisabledByUserInput:
		return "disabled_by_user_input"
	default:
		return "other"
	}
}

// Event is one input event as delivered by the OS tap.
type Event struct {
	Kind    Kind
	KeyCode uint16
	Flags   Flags
}

func (e Event) disablesTap() bool {
	return e.Kind == KindDisabledByTimeout || e.Kind == KindDisabledByUserInput
}

func KeyDown(code uint16) Event      { return Event{Kind: KindKeyDown, KeyCode: code} }
func KeyUp(code uint16) Event        { return Event{Kind: KindKeyUp, KeyCode: code} }
func FlagsChanged(flags Flags) Event { return Event{Kind: KindFlagsChanged, Flags: flags} }
func TapDisabled() Event             { return Event{Kind: KindDisabledByTimeout} }

package hotkey

// Decision is what the tap does with one event.
type Decision int

const (
	// PassThrough forwards the event untouched.
	PassThrough Decision = iota
	// Down is the target's press edge; the event is swallowed.
	Down
	// Up is the target's release edge; the event is swallowed.
	Up
	// FilterDisabledBySystem means the OS switched the tap off and it must be re-armed.
	FilterDisabledBySystem
)

func (d Decision) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	case FilterDisabledBySystem:
		return "filter_disabled"
	default:
		return "pass"
	}
}

// Classifier turns raw events into edge-triggered decisions for a single
// target. It is not safe for concurrent use; the tap only calls it from
// the listening thread.
type Classifier struct {
	target  Target
	pressed bool
}

func NewClassifier(target Target) *Classifier {
	return &Classifier{target: target}
}

func (c *Classifier) Pressed() bool { return c.pressed }

func (c *Classifier) Reset() { c.pressed = false }

func (c *Classifier) Classify(ev Event) Decision {
	if ev.disablesTap() {
		return FilterDisabledBySystem
	}

	if c.target.UsesMask() {
		if ev.Kind != KindFlagsChanged {
			return PassThrough
		}
		return c.edge(ev.Flags&c.target.Mask != 0)
	}

	if ev.KeyCode != c.target.KeyCode {
		return PassThrough
	}
	switch ev.Kind {
	case KindKeyDown:
		if c.pressed {
			// auto-repeat
			return PassThrough
		}
		return c.edge(true)
	case KindKeyUp:
		if !c.pressed {
			return PassThrough
		}
		return c.edge(false)
	}
	return PassThrough
}

func (c *Classifier) edge(isPressed bool) Decision {
	switch {
	case isPressed && !c.pressed:
		c.pressed = true
		return Down
	case !isPressed && c.pressed:
		c.pressed = false
		return Up
	}
	return PassThrough
}

// targetsKey reports whether ev is a key event for the target key code,
// whatever its classification was.
func (c *Classifier) targetsKey(ev Event) bool {
	if c.target.UsesMask() {
		return false
	}
	return (ev.Kind == KindKeyDown || ev.Kind == KindKeyUp) && ev.KeyCode == c.target.KeyCode
}

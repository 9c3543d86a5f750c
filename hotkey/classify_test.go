package hotkey

import (
	"reflect"
	"testing"
)

const (
	keyK = KeyF18
	keyJ = KeyF19
)

func classifyAll(c *Classifier, events ...Event) []Decision {
	out := make([]Decision, 0, len(events))
	for _, ev := range events {
		out = append(out, c.Classify(ev))
	}
	return out
}

func TestClassifyKeyRepeat(t *testing.T) {
	c := NewClassifier(Target{KeyCode: keyK})
	got := classifyAll(c, KeyDown(keyK), KeyDown(keyK), KeyUp(keyK))
	want := []Decision{Down, PassThrough, Up}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestClassifyKeyAutoRepeatFiresOnce(t *testing.T) {
	c := NewClassifier(Target{KeyCode: keyK})
	downs := 0
	for i := 0; i < 50; i++ {
		if c.Classify(KeyDown(keyK)) == Down {
			downs++
		}
	}
	if downs != 1 {
		t.Errorf("got %d downs for one held key, want 1", downs)
	}
	if !c.Pressed() {
		t.Error("key should still be pressed")
	}
}

func TestClassifyKeyAlternation(t *testing.T) {
	c := NewClassifier(Target{KeyCode: keyK})
	var last Decision = Up
	for i := 0; i < 20; i++ {
		for _, ev := range []Event{KeyDown(keyK), KeyDown(keyK), KeyDown(keyK), KeyUp(keyK), KeyUp(keyK)} {
			d := c.Classify(ev)
			if d == PassThrough {
				continue
			}
			if d == last {
				t.Fatalf("round %d: two consecutive %v", i, d)
			}
			last = d
		}
	}
}

func TestClassifyOtherKey(t *testing.T) {
	c := NewClassifier(Target{KeyCode: keyK})
	if d := c.Classify(KeyDown(keyJ)); d != PassThrough {
		t.Errorf("keyDown(J) = %v, want pass", d)
	}
	if c.Pressed() {
		t.Error("press state changed by another key")
	}

	c.Classify(KeyDown(keyK))
	if d := c.Classify(KeyUp(keyJ)); d != PassThrough {
		t.Errorf("keyUp(J) = %v, want pass", d)
	}
	if !c.Pressed() {
		t.Error("press state cleared by another key")
	}
}

func TestClassifyKeyIgnoresFlags(t *testing.T) {
	c := NewClassifier(Target{KeyCode: keyK})
	if d := c.Classify(FlagsChanged(FlagOption | FlagCommand)); d != PassThrough {
		t.Errorf("got %v, want pass", d)
	}
	// A flags event carrying the target key code is still not a key event.
	if d := c.Classify(Event{Kind: KindFlagsChanged, KeyCode: keyK}); d != PassThrough {
		t.Errorf("got %v, want pass", d)
	}
}

func TestClassifyOrphanKeyUp(t *testing.T) {
	c := NewClassifier(Target{KeyCode: keyK})
	if d := c.Classify(KeyUp(keyK)); d != PassThrough {
		t.Errorf("got %v, want pass", d)
	}
}

func TestClassifyMask(t *testing.T) {
	c := NewClassifier(Target{Mask: FlagOption})
	got := classifyAll(c, FlagsChanged(FlagOption), FlagsChanged(FlagOption), FlagsChanged(0))
	want := []Decision{Down, PassThrough, Up}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestClassifyMaskIgnoresOtherFlags(t *testing.T) {
	c := NewClassifier(Target{Mask: FlagFn})
	got := classifyAll(c,
		FlagsChanged(FlagShift),
		FlagsChanged(FlagShift|FlagFn),
		FlagsChanged(FlagShift|FlagFn|FlagCommand),
		FlagsChanged(FlagShift|FlagCommand),
		FlagsChanged(FlagCommand),
		FlagsChanged(FlagFn|FlagCommand),
		FlagsChanged(0),
	)
	want := []Decision{PassThrough, Down, PassThrough, Up, PassThrough, Down, Up}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestClassifyMaskAnyBit(t *testing.T) {
	c := NewClassifier(Target{Mask: FlagOption | FlagCommand})
	got := classifyAll(c,
		FlagsChanged(FlagCommand),
		FlagsChanged(FlagOption),
		FlagsChanged(0),
	)
	want := []Decision{Down, PassThrough, Up}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestClassifyMaskIgnoresKeys(t *testing.T) {
	c := NewClassifier(Target{KeyCode: KeyRightOption, Mask: FlagOption})
	got := classifyAll(c, KeyDown(KeyRightOption), KeyUp(KeyRightOption), KeyDown(keyK))
	for i, d := range got {
		if d != PassThrough {
			t.Errorf("event %d: got %v, want pass", i, d)
		}
	}
	if c.Pressed() {
		t.Error("key events changed a mask target")
	}
}

func TestClassifyDisabledSentinel(t *testing.T) {
	for _, target := range []Target{{KeyCode: keyK}, {Mask: FlagOption}} {
		c := NewClassifier(target)
		for _, kind := range []Kind{KindDisabledByTimeout, KindDisabledByUserInput} {
			if d := c.Classify(Event{Kind: kind}); d != FilterDisabledBySystem {
				t.Errorf("%s %s: got %v", target, kind, d)
			}
		}
		if c.Pressed() {
			t.Errorf("%s: sentinel set press state", target)
		}

		if target.UsesMask() {
			c.Classify(FlagsChanged(FlagOption))
		} else {
			c.Classify(KeyDown(keyK))
		}
		c.Classify(TapDisabled())
		if !c.Pressed() {
			t.Errorf("%s: sentinel cleared press state", target)
		}
	}
}

func TestClassifyOtherEvents(t *testing.T) {
	c := NewClassifier(Target{KeyCode: keyK})
	if d := c.Classify(Event{Kind: KindOther, KeyCode: keyK}); d != PassThrough {
		t.Errorf("got %v, want pass", d)
	}
}

func TestClassifierReset(t *testing.T) {
	c := NewClassifier(Target{KeyCode: keyK})
	c.Classify(KeyDown(keyK))
	c.Reset()
	if d := c.Classify(KeyUp(keyK)); d != PassThrough {
		t.Errorf("up after reset = %v, want pass", d)
	}
}

func TestTargetValidate(t *testing.T) {
	if err := (Target{}).Validate(); err != ErrInvalidTarget {
		t.Errorf("empty target: got %v", err)
	}
	if err := (Target{KeyCode: keyK}).Validate(); err != nil {
		t.Error(err)
	}
	if err := (Target{Mask: FlagFn}).Validate(); err != nil {
		t.Error(err)
	}
}

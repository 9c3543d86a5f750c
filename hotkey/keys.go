package hotkey

import (
	"fmt"
	"sort"
	"strings"
)

// macOS virtual key codes.
const (
	KeyRightShift   = 60
	KeyRightOption  = 61
	KeyRightControl = 62
	KeyRightCommand = 54
	KeyFn           = 63
	KeyF13          = 105
	KeyF14          = 107
	KeyF15          = 113
	KeyF16          = 106
	KeyF17          = 64
	KeyF18          = 79
	KeyF19          = 80
	KeyF20          = 90
)

// Modifier keys carry both their key code and the flag they raise; the
// flag wins once the target reaches the classifier.
var targets = map[string]Target{
	"right_option":  {KeyCode: KeyRightOption, Mask: FlagOption},
	"right_command": {KeyCode: KeyRightCommand, Mask: FlagCommand},
	"right_control": {KeyCode: KeyRightControl, Mask: FlagControl},
	"right_shift":   {KeyCode: KeyRightShift, Mask: FlagShift},
	"fn":            {KeyCode: KeyFn, Mask: FlagFn},
	"f13":           {KeyCode: KeyF13},
	"f14":           {KeyCode: KeyF14},
	"f15":           {KeyCode: KeyF15},
	"f16":           {KeyCode: KeyF16},
	"f17":           {KeyCode: KeyF17},
	"f18":           {KeyCode: KeyF18},
	"f19":           {KeyCode: KeyF19},
	"f20":           {KeyCode: KeyF20},
}

var aliases = map[string]string{
	"right_alt":  "right_option",
	"right_cmd":  "right_command",
	"right_ctrl": "right_control",
}

// Resolve maps a hotkey name such as "right_option" or "f18" to its target.
func Resolve(name string) (Target, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	if t, ok := targets[key]; ok {
		return t, nil
	}
	return Target{}, fmt.Errorf("unknown hotkey: %s (supported: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the canonical hotkey names in sorted order.
func Names() []string {
	names := make([]string, 0, len(targets))
	for n := range targets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

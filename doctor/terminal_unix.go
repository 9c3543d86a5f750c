//go:build !windows

package doctor

import "os/exec"

// resetTerminal undoes raw mode left behind by key presses landing in the terminal.
func resetTerminal() {
	exec.Command("stty", "sane").Run()
}

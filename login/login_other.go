//go:build !darwin

package login

func Enabled() bool         { return false }
func Enable([]string) error { return ErrUnsupported }
func Disable() error        { return ErrUnsupported }

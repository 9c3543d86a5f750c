//go:build !darwin

package hotkey

type unsupportedSource struct{}

func newSystemSource() source { return unsupportedSource{} }

func (unsupportedSource) open(func(Event) bool) error { return ErrUnsupported }
func (unsupportedSource) setEnabled(bool) error       { return nil }
func (unsupportedSource) pump()                       {}
func (unsupportedSource) interrupt()                  {}
func (unsupportedSource) close()                      {}

func Trusted() bool { return false }

//go:build !darwin

package tray

func Init() <-chan struct{} { return quitCh }
func updateIcon()           {}
func updateStatus()         {}

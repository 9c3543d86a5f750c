//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// The main thread stays free for the OS; run gets its own goroutine and the
// tap pins a separate thread for its run loop.
func main() {
	mainthread.Init(run)
}

//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <stdlib.h>
#include "tap_darwin.h"
*/
import "C"

import (
	"errors"
	"runtime/cgo"
	"sync/atomic"
	"unsafe"
)

// How long one pump waits before rechecking for interrupt. CFRunLoopStop
// wakes it early; the timeout only covers a stop that lands before the
// loop is entered.
const pumpInterval = 0.25

var errRearmRefused = errors.New("tap is still disabled after CGEventTapEnable")

type darwinSource struct {
	ref         *C.keytapRef
	handle      cgo.Handle
	interrupted atomic.Bool
}

func newSystemSource() source {
	return &darwinSource{}
}

//export goKeytapDeliver
func goKeytapDeliver(handle C.uintptr_t, kind C.int, keyCode C.int64_t, flags C.uint64_t) C.int {
	deliver := cgo.Handle(handle).Value().(func(Event) bool)
	ev := Event{
		Kind:    Kind(kind),
		KeyCode: uint16(keyCode),
		Flags:   Flags(flags),
	}
	if deliver(ev) {
		return 1
	}
	return 0
}

func (s *darwinSource) open(deliver func(Event) bool) error {
	s.ref = (*C.keytapRef)(C.calloc(1, C.sizeof_keytapRef))
	s.handle = cgo.NewHandle(deliver)
	if !C.keytapOpen(C.uintptr_t(s.handle), s.ref) {
		s.handle.Delete()
		C.free(unsafe.Pointer(s.ref))
		s.ref = nil
		return ErrPermissionDenied
	}
	return nil
}

func (s *darwinSource) setEnabled(on bool) error {
	if s.ref == nil {
		return nil
	}
	C.keytapSetEnabled(s.ref, C.bool(on))
	if on && !bool(C.keytapIsEnabled(s.ref)) {
		return errRearmRefused
	}
	return nil
}

func (s *darwinSource) pump() {
	for !s.interrupted.Load() {
		C.keytapPump(C.double(pumpInterval))
	}
}

func (s *darwinSource) interrupt() {
	s.interrupted.Store(true)
	if s.ref != nil {
		C.keytapWake(s.ref)
	}
}

func (s *darwinSource) close() {
	if s.ref == nil {
		return
	}
	C.keytapClose(s.ref)
	C.free(unsafe.Pointer(s.ref))
	s.ref = nil
	s.handle.Delete()
}

// Trusted reports whether the process holds the Accessibility permission
// event taps need.
func Trusted() bool {
	return bool(C.keytapTrusted())
}

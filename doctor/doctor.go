package doctor

import (
	"fmt"
	"io"
	"os"
	"time"

	"keytap/hotkey"
	"keytap/inject"
	"keytap/shutdown"
)

// Doctor walks through the checks that usually explain a silent hotkey.
type Doctor struct {
	Name    string
	Target  hotkey.Target
	Out     io.Writer
	Timeout time.Duration

	trusted func() bool
	press   func(code uint16, hold time.Duration) error
	opts    []hotkey.Option
}

// New prepares the checks for target. opts configure the diagnostic tap,
// such as its logger and re-arm error handler.
func New(name string, target hotkey.Target, opts ...hotkey.Option) *Doctor {
	return &Doctor{
		Name:    name,
		Target:  target,
		Out:     os.Stdout,
		Timeout: 10 * time.Second,
		trusted: hotkey.Trusted,
		press:   inject.Press,
		opts:    opts,
	}
}

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(name string, opts ...hotkey.Option) int {
	target, err := hotkey.Resolve(name)
	if err != nil {
		fmt.Println(err)
		return 1
	}
	resetTerminal()
	setupInterruptHandler()
	return New(name, target, opts...).Run()
}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		println("\nInterrupted")
		os.Exit(1)
	}()
}

func (d *Doctor) Run() int {
	d.printf("keytap doctor - hotkey diagnostics\n")
	d.printf("==================================\n")

	allPass := d.checkAccessibility()

	var l *hotkey.Listener
	if allPass {
		l, allPass = d.checkTap()
	}
	if l != nil {
		defer l.Unregister()
	}
	if allPass && !d.checkDetection(l) {
		allPass = false
	}
	if allPass && !d.checkSynthetic(l) {
		allPass = false
	}
	if l != nil {
		st := l.Stats()
		d.printf("\nTap stats: downs=%d ups=%d passed=%d rearms=%d rearm_failures=%d\n",
			st.Downs, st.Ups, st.Passed, st.Rearms, st.RearmFailures)
	}

	d.printf("\n")
	if allPass {
		d.printf("All checks passed!\n")
		return 0
	}
	d.printf("Some checks failed. See details above.\n")
	return 1
}

func (d *Doctor) printf(format string, args ...any) {
	fmt.Fprintf(d.Out, format, args...)
}

func (d *Doctor) checkAccessibility() bool {
	d.printf("\n[1/4] Accessibility permission\n")
	if !d.trusted() {
		d.printf("  FAIL: this process is not trusted for accessibility\n")
		d.printf("  Fix with: System Settings > Privacy & Security > Accessibility, then restart the terminal\n")
		return false
	}
	d.printf("  PASS: accessibility granted\n")
	return true
}

func (d *Doctor) checkTap() (*hotkey.Listener, bool) {
	d.printf("\n[2/4] Event tap creation (%s, %s)\n", d.Name, d.Target)
	l := hotkey.New(d.Target, d.opts...)
	if err := l.Register(); err != nil {
		d.printf("  FAIL: %v\n", err)
		return nil, false
	}
	d.printf("  PASS: tap installed\n")
	return l, true
}

func (d *Doctor) checkDetection(l *hotkey.Listener) bool {
	d.printf("\n[3/4] Hotkey detection\n")
	d.printf("Press and release %s...\n", d.Name)

	select {
	case <-l.Keydown():
	case <-time.After(d.Timeout):
		d.printf("  FAIL: timeout waiting for press\n")
		return false
	}
	select {
	case <-l.Keyup():
	case <-time.After(d.Timeout):
		d.printf("  FAIL: press seen but no release\n")
		return false
	}
	resetTerminal()
	d.printf("  PASS: press and release detected\n")
	return true
}

func (d *Doctor) checkSynthetic(l *hotkey.Listener) bool {
	d.printf("\n[4/4] Synthetic press\n")
	if d.Target.UsesMask() {
		d.printf("  SKIP: modifier hotkeys cannot be injected\n")
		return true
	}

	errCh := make(chan error, 1)
	go func() { errCh <- d.press(d.Target.KeyCode, 30*time.Millisecond) }()

	deadline := time.After(d.Timeout)
	if !d.awaitInjected(l.Keydown(), &errCh, deadline) {
		return false
	}
	if !d.awaitInjected(l.Keyup(), &errCh, deadline) {
		return false
	}
	d.printf("  PASS: injected press delivered\n")
	return true
}

// awaitInjected waits for edge while watching the injector for an error.
// A successful injection clears *errCh so it is not read twice.
func (d *Doctor) awaitInjected(edge <-chan struct{}, errCh *chan error, deadline <-chan time.Time) bool {
	for {
		select {
		case err := <-*errCh:
			if err != nil {
				d.printf("  FAIL: injecting key: %v\n", err)
				return false
			}
			*errCh = nil
		case <-edge:
			return true
		case <-deadline:
			d.printf("  FAIL: injected press was not delivered\n")
			return false
		}
	}
}

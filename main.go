package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"golang.org/x/term"

	"keytap/beep"
	"keytap/config"
	"keytap/doctor"
	"keytap/hotkey"
	"keytap/log"
	"keytap/login"
	"keytap/shutdown"
	"keytap/tray"
)

var version = "dev"

type options struct {
	name           string
	target         hotkey.Target
	mode           string
	longPress      time.Duration
	beep           bool
	swallowRepeats bool
	logPath        string
	tray           bool
	test           bool
}

func (o options) modeLine() string {
	return fmt.Sprintf("hotkey %s (%s) mode %s", o.name, o.target, o.mode)
}

// tapOptions wires the tap's diagnostics into the log and reports re-arm
// failures to sink.
func (o options) tapOptions(sink EventSink, extra ...hotkey.Option) []hotkey.Option {
	opts := []hotkey.Option{
		hotkey.WithLogger(log.Diag{}),
		hotkey.WithRearmErrorHandler(func(err error) {
			go beep.PlayError()
			go sink.TapError(fmt.Sprintf("tap re-arm failed: %v", err))
		}),
	}
	if o.swallowRepeats {
		opts = append(opts, hotkey.WithSwallowRepeats())
	}
	return append(opts, extra...)
}

// parseOptions merges flags over the config file, .env and environment.
func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("keytap", flag.ContinueOnError)
	hotkeyFlag := fs.String("hotkey", "", "Hotkey name (e.g., right_option, fn, f18)")
	modeFlag := fs.String("mode", "", "Activation mode: ptt or toggle")
	longPressFlag := fs.Duration("longpress", 0, "Long-press threshold for hold vs tap in toggle mode (e.g., 350ms)")
	beepFlag := fs.Bool("beep", true, "Play a cue on engage and release")
	swallowFlag := fs.Bool("swallow-repeats", false, "Also swallow auto-repeats and stray releases of the hotkey")
	logPathFlag := fs.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	configFlag := fs.String("config", "", "Config file (default: ~/.config/keytap/config.toml)")
	trayFlag := fs.Bool("tray", false, "Show the hotkey state in the menu bar (macOS)")
	testFlag := fs.Bool("test", false, "Test mode (fake event source, stdin-driven)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hotkey":
			cfg.Hotkey = *hotkeyFlag
		case "mode":
			cfg.Mode = *modeFlag
		case "longpress":
			cfg.LongPress.Duration = *longPressFlag
		case "beep":
			cfg.Beep = *beepFlag
		case "swallow-repeats":
			cfg.SwallowRepeats = *swallowFlag
		}
	})
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	target, err := hotkey.Resolve(cfg.Hotkey)
	if err != nil {
		return options{}, err
	}
	return options{
		name:           cfg.Hotkey,
		target:         target,
		mode:           cfg.Mode,
		longPress:      cfg.LongPress.Duration,
		beep:           cfg.Beep,
		swallowRepeats: cfg.SwallowRepeats,
		logPath:        *logPathFlag,
		tray:           *trayFlag,
		test:           *testFlag,
	}, nil
}

func run() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("keytap %s\n", version)
			os.Exit(0)
		case "stop":
			os.Exit(runStop(os.Args[2:]))
		case "doctor":
			os.Exit(runDoctor(os.Args[2:]))
		case "login":
			os.Exit(runLogin(os.Args[2:]))
		}
	}

	o, err := parseOptions(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	os.Exit(start(o))
}

func runStop(args []string) int {
	fs := flag.NewFlagSet("keytap stop", flag.ContinueOnError)
	logPathFlag := fs.String("logpath", "", "log directory of the running instance")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	dir, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	pid, err := stopRunning(pidPath(dir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Printf("Stopped keytap (pid %d)\n", pid)
	return 0
}

func runDoctor(args []string) int {
	o, err := parseOptions(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if err := setupLogging(o.logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()
	return doctor.Run(o.name, o.tapOptions(&lineSink{w: os.Stdout})...)
}

// runLogin manages the launch agent. Flags after "enable" become the
// agent's arguments.
func runLogin(args []string) int {
	if len(args) == 0 {
		args = []string{"status"}
	}
	var err error
	switch args[0] {
	case "enable":
		if _, err = parseOptions(args[1:]); err == nil {
			err = login.Enable(args[1:])
		}
	case "disable":
		err = login.Disable()
	case "status":
		if login.Enabled() {
			fmt.Println("keytap starts on login")
		} else {
			fmt.Println("keytap does not start on login")
		}
		return 0
	default:
		fmt.Fprintln(os.Stderr, "Usage: keytap login [enable [flags]|disable|status]")
		return 2
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func setupLogging(flagPath string) error {
	logPath, err := log.ResolveDir(flagPath)
	if err != nil {
		return fmt.Errorf("failed to resolve log directory: %w", err)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		return err
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}
	return log.Init()
}

func start(o options) int {
	if err := setupLogging(o.logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	if !o.beep {
		beep.Disable()
	}
	log.TapStart(o.name, o.target.String(), o.mode)

	if o.test {
		return runTestMode(o)
	}

	pidFile := pidPath(log.Dir())
	if err := writePIDFile(pidFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer removePIDFile(pidFile)

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	var sink EventSink = &lineSink{w: os.Stdout}
	if interactive {
		sink = tuiSink{}
	}
	if o.tray {
		sink = multiSink{sink, traySink{}}
	}

	hk := hotkey.New(o.target, o.tapOptions(sink)...)
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		if errors.Is(err, hotkey.ErrPermissionDenied) {
			log.PermissionDenied(hotkey.Trusted())
			fmt.Fprintln(os.Stderr, "Error: keytap needs the Accessibility permission.")
			fmt.Fprintln(os.Stderr, "Grant it in System Settings > Privacy & Security > Accessibility, then run `keytap doctor`.")
		} else {
			fmt.Fprintf(os.Stderr, "Error registering hotkey: %v\n", err)
		}
		return 1
	}

	go beep.Init()

	ctx, cancel := shutdown.Context(context.Background())
	defer cancel()

	if o.tray {
		tray.SetLogin(login.Enabled())
		tray.OnLogin(func(on bool) error {
			if on {
				return login.Enable(os.Args[1:])
			}
			return login.Disable()
		})
		trayQuit := tray.Init()
		go func() {
			<-trayQuit
			cancel()
		}()
	}

	if interactive {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram()
		tuiMu.Unlock()
		go func() {
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			cancel()
		}()
		<-tuiReady
	}
	sink.ModeLine(o.modeLine())

	quit := make(chan struct{})
	loopDone := make(chan struct{})
	c := &controller{hk: hk, mode: o.mode, longPress: o.longPress, sink: sink}
	go func() {
		c.run(quit)
		close(loopDone)
	}()

	<-ctx.Done()
	log.Info("shutdown")
	close(quit)
	<-loopDone
	if interactive {
		tuiProgram.Quit()
	}
	tray.Quit()

	hk.Unregister()
	log.TapStop(log.TapStats(hk.Stats()))
	return 0
}

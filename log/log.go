package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog         zerolog.Logger
	diagFile        *os.File
	transitionsFile *os.File
	logMu           sync.Mutex
	logReady        bool
	pid             int
	dir             string
)

// TapStats mirrors the counters a tap reports when it stops.
type TapStats struct {
	Downs         uint64
	Ups           uint64
	Passed        uint64
	Rearms        uint64
	RearmFailures uint64
}

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: KEYTAP_LOG_PATH environment variable
	envPath := os.Getenv("KEYTAP_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	transitionsPath := filepath.Join(dir, "transitions_log.txt")
	transitionsFile, err = os.OpenFile(transitionsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if transitionsFile != nil {
		transitionsFile.Close()
		transitionsFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Transition(kind string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05.000"), pid, kind)
	transitionsFile.WriteString(line)
}

func TapStart(hotkey, target, mode string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("hotkey", hotkey).
		Str("target", target).
		Str("mode", mode).
		Msg("tap_start")
}

func TapStop(s TapStats) {
	if !logReady {
		return
	}
	diagLog.Info().
		Uint64("downs", s.Downs).
		Uint64("ups", s.Ups).
		Uint64("passed", s.Passed).
		Uint64("rearms", s.Rearms).
		Uint64("rearm_failures", s.RearmFailures).
		Msg("tap_stop")
}

func PermissionDenied(trusted bool) {
	if !logReady {
		return
	}
	diagLog.Error().
		Bool("ax_trusted", trusted).
		Msg("tap_permission_denied")
}

// Diag exposes the diagnostics log as a value for packages that take a logger.
type Diag struct{}

func (Diag) Info(msg string)                   { Info(msg) }
func (Diag) Errorf(format string, args ...any) { Errorf(format, args...) }

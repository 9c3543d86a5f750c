package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const pidFileName = "keytap.pid"

var errNotRunning = errors.New("keytap is not running")

func pidPath(dir string) string {
	return filepath.Join(dir, pidFileName)
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errNotRunning
		}
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("corrupt pid file %s: %w", path, err)
	}
	return pid, nil
}

func alive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

// writePIDFile records this process, refusing if another live instance
// already owns the file. A stale file is overwritten.
func writePIDFile(path string) error {
	if pid, err := readPID(path); err == nil && pid != os.Getpid() && alive(pid) {
		return fmt.Errorf("keytap is already running (pid %d)", pid)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644)
}

// removePIDFile deletes the file only if it still names this process.
func removePIDFile(path string) {
	if pid, err := readPID(path); err == nil && pid == os.Getpid() {
		os.Remove(path)
	}
}

// stopRunning asks the instance named by the pid file to shut down.
func stopRunning(path string) (int, error) {
	pid, err := readPID(path)
	if err != nil {
		return 0, err
	}
	if !alive(pid) {
		os.Remove(path)
		return pid, errNotRunning
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return pid, err
	}
	if err := p.Signal(syscall.SIGTERM); err != nil {
		return pid, fmt.Errorf("signalling pid %d: %w", pid, err)
	}
	return pid, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KEYTAP_HOTKEY", "")
	t.Setenv("KEYTAP_MODE", "")
	t.Setenv("KEYTAP_BEEP", "")
	// keep godotenv away from any .env in the package directory
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hotkey != "right_option" || cfg.Mode != ModePTT || !cfg.Beep {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.LongPress.Duration != 350*time.Millisecond {
		t.Errorf("long press = %s", cfg.LongPress.Duration)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
hotkey = "f18"
mode = "toggle"
long_press = "500ms"
beep = false
swallow_repeats = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hotkey != "f18" || cfg.Mode != ModeToggle || cfg.Beep || !cfg.SwallowRepeats {
		t.Errorf("file not applied: %+v", cfg)
	}
	if cfg.LongPress.Duration != 500*time.Millisecond {
		t.Errorf("long press = %s", cfg.LongPress.Duration)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	isolate(t)
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`hotkey = "fn"`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hotkey != "fn" {
		t.Errorf("hotkey = %q, want fn", cfg.Hotkey)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `hotkey = "f18"`)
	t.Setenv("KEYTAP_HOTKEY", "right_command")
	t.Setenv("KEYTAP_BEEP", "false")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hotkey != "right_command" || cfg.Beep {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestDotEnv(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(".env", []byte("KEYTAP_MODE=toggle\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("KEYTAP_MODE") })
	os.Unsetenv("KEYTAP_MODE")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeToggle {
		t.Errorf("mode = %q, want toggle from .env", cfg.Mode)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	isolate(t)
	for _, body := range []string{
		`mode = "latch"`,
		`long_press = "-1s"`,
		`long_press = "soon"`,
		`hotkey = ""`,
	} {
		cfg, err := Load(writeConfig(t, body))
		if err == nil {
			err = cfg.Validate()
		}
		if err == nil {
			t.Errorf("%s: expected error", body)
		}
	}
}

func TestBadEnvBool(t *testing.T) {
	isolate(t)
	t.Setenv("KEYTAP_BEEP", "loud")
	if _, err := Load(""); err == nil {
		t.Error("expected error")
	}
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	isolate(t)
	t.Setenv("KEYTAP_MODE", "bogus")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "bogus" || cfg.Validate() == nil {
		t.Errorf("mode %q should load and then fail validation", cfg.Mode)
	}
	cfg.Mode = ModePTT
	if err := cfg.Validate(); err != nil {
		t.Errorf("after override: %v", err)
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	ModePTT    = "ptt"
	ModeToggle = "toggle"
)

// Duration decodes TOML strings such as "350ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type Config struct {
	Hotkey         string   `toml:"hotkey"`
	Mode           string   `toml:"mode"`
	LongPress      Duration `toml:"long_press"`
	Beep           bool     `toml:"beep"`
	SwallowRepeats bool     `toml:"swallow_repeats"`
}

func Default() *Config {
	return &Config{
		Hotkey:    "right_option",
		Mode:      ModePTT,
		LongPress: Duration{350 * time.Millisecond},
		Beep:      true,
	}
}

// DefaultPath is ~/.config/keytap/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "keytap", "config.toml"), nil
}

// Load builds the configuration from defaults, the TOML file at path (or
// DefaultPath when empty; a missing file is fine), a .env file in the
// working directory and KEYTAP_* environment variables, in that order.
// The result is not validated: callers layer their own overrides on top
// and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if v := os.Getenv("KEYTAP_HOTKEY"); v != "" {
		cfg.Hotkey = v
	}
	if v := os.Getenv("KEYTAP_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("KEYTAP_BEEP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("KEYTAP_BEEP: %w", err)
		}
		cfg.Beep = b
	}
	return cfg, nil
}

// Validate reports the first setting keytap cannot run with.
func (c *Config) Validate() error {
	if c.Hotkey == "" {
		return errors.New("hotkey is required")
	}
	switch c.Mode {
	case ModePTT, ModeToggle:
	default:
		return fmt.Errorf("unknown mode %q (supported: %s, %s)", c.Mode, ModePTT, ModeToggle)
	}
	if c.LongPress.Duration <= 0 {
		return fmt.Errorf("long_press must be positive, got %s", c.LongPress.Duration)
	}
	return nil
}

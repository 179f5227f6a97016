package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"datepicker/internal/picker"
)

// Config is the user's ~/.datepicker/config.json.
type Config struct {
	// Picker holds default options; command-line flags override them.
	Picker PickerDefaults `json:"picker"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type PickerDefaults struct {
	Theme         string   `json:"theme,omitempty"`
	SelectionMode string   `json:"selectionMode,omitempty"`
	ViewMode      string   `json:"viewMode,omitempty"`
	Delimiter     string   `json:"delimiter,omitempty"`
	AllowInput    bool     `json:"allowInput,omitempty"`
	DisablePast   bool     `json:"disablePast,omitempty"`
	DisableFuture bool     `json:"disableFuture,omitempty"`
	MinDate       string   `json:"minDate,omitempty"`
	MaxDate       string   `json:"maxDate,omitempty"`
	DisabledDates []string `json:"disabledDates,omitempty"`
	CloseOnSelect *bool    `json:"closeOnSelect,omitempty"`
}

type TUIConfig struct {
	// Palette is "auto", "light" or "dark".
	Palette string `json:"palette,omitempty"`
	// Accent optionally overrides the selection color.
	Accent *AdaptiveColor `json:"accent,omitempty"`
}

type AdaptiveColor struct {
	Light string `json:"light,omitempty"`
	Dark  string `json:"dark,omitempty"`
}

// PickerConfig converts the stored defaults to a picker.Config.
func (d PickerDefaults) PickerConfig() picker.Config {
	cfg := picker.Config{
		Theme:         strings.TrimSpace(d.Theme),
		SelectionMode: picker.SelectionMode(strings.TrimSpace(d.SelectionMode)),
		ViewMode:      picker.ViewMode(strings.TrimSpace(d.ViewMode)),
		Delimiter:     d.Delimiter,
		AllowInput:    d.AllowInput,
		DisablePast:   d.DisablePast,
		DisableFuture: d.DisableFuture,
		MinDate:       strings.TrimSpace(d.MinDate),
		MaxDate:       strings.TrimSpace(d.MaxDate),
		DisabledDates: append([]string(nil), d.DisabledDates...),
	}
	if d.CloseOnSelect != nil {
		cfg.CloseOnSelect = picker.Bool(*d.CloseOnSelect)
	}
	return cfg
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.datepicker).
	if v := strings.TrimSpace(os.Getenv("DATEPICKER_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".datepicker"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Keep the previous file around; a failed backup does not block the save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// ConfigKeys lists the keys accepted by Set, sorted.
func ConfigKeys() []string {
	out := make([]string, 0, len(configSetters))
	for k := range configSetters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Set assigns one dotted key ("picker.selectionMode", "tui.palette", ...)
// from its string form. An empty value resets the key. Values are trimmed,
// except the delimiter whose spacing is part of the joined text. On error c
// is left unchanged.
func (c *Config) Set(key, value string) error {
	key = strings.TrimSpace(key)
	set, ok := configSetters[key]
	if !ok {
		return &unknownKeyError{key: key}
	}
	if key != "picker.delimiter" {
		value = strings.TrimSpace(value)
	}
	next := *c
	if err := set(&next, value); err != nil {
		return err
	}
	*c = next
	return nil
}

type unknownKeyError struct{ key string }

func (e *unknownKeyError) Error() string {
	return fmt.Sprintf("unknown config key %q (expected one of: %s)", e.key, strings.Join(ConfigKeys(), ", "))
}

func parseBoolValue(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", v)
	}
	return b, nil
}

var configSetters = map[string]func(*Config, string) error{
	"picker.theme": func(c *Config, v string) error {
		c.Picker.Theme = v
		return nil
	},
	"picker.selectionMode": func(c *Config, v string) error {
		if _, err := picker.ParseSelectionMode(v); err != nil {
			return err
		}
		c.Picker.SelectionMode = v
		return nil
	},
	"picker.viewMode": func(c *Config, v string) error {
		if _, err := picker.ParseViewMode(v); err != nil {
			return err
		}
		c.Picker.ViewMode = v
		return nil
	},
	"picker.delimiter": func(c *Config, v string) error {
		c.Picker.Delimiter = v
		return nil
	},
	"picker.allowInput": func(c *Config, v string) error {
		b, err := parseBoolValue(v)
		c.Picker.AllowInput = b
		return err
	},
	"picker.disablePast": func(c *Config, v string) error {
		b, err := parseBoolValue(v)
		c.Picker.DisablePast = b
		return err
	},
	"picker.disableFuture": func(c *Config, v string) error {
		b, err := parseBoolValue(v)
		c.Picker.DisableFuture = b
		return err
	},
	"picker.minDate": func(c *Config, v string) error {
		c.Picker.MinDate = v
		return c.Picker.PickerConfig().Validate()
	},
	"picker.maxDate": func(c *Config, v string) error {
		c.Picker.MaxDate = v
		return c.Picker.PickerConfig().Validate()
	},
	"picker.disabledDates": func(c *Config, v string) error {
		c.Picker.DisabledDates = nil
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				c.Picker.DisabledDates = append(c.Picker.DisabledDates, part)
			}
		}
		return c.Picker.PickerConfig().Validate()
	},
	"picker.closeOnSelect": func(c *Config, v string) error {
		if v == "" {
			c.Picker.CloseOnSelect = nil
			return nil
		}
		b, err := parseBoolValue(v)
		if err != nil {
			return err
		}
		c.Picker.CloseOnSelect = &b
		return nil
	},
	"tui.palette": func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case "", "auto", "light", "dark":
		default:
			return fmt.Errorf("invalid palette %q (expected auto|light|dark)", v)
		}
		if c.TUI == nil {
			c.TUI = &TUIConfig{}
		}
		c.TUI.Palette = strings.ToLower(v)
		return nil
	},
}

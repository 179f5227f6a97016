package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"datepicker/internal/picker"
)

func TestConfig_LoadMissingThenSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATEPICKER_CONFIG_DIR", dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig (missing): %v", err)
	}
	if !reflect.DeepEqual(cfg, &Config{}) {
		t.Fatalf("expected empty config, got %#v", cfg)
	}

	cfg.Picker.SelectionMode = "multiple"
	cfg.Picker.DisabledDates = []string{"2024-12-25"}
	cfg.TUI = &TUIConfig{Palette: "dark"}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig (second): %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json.bak")); err != nil {
		t.Fatalf("expected a backup after the second save: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("round trip:\n got: %#v\nwant: %#v", got, cfg)
	}

	ents, _ := os.ReadDir(dir)
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestConfig_LoadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATEPICKER_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "config.json") {
		t.Fatalf("expected parse error naming the file, got %v", err)
	}
}

func TestConfig_Set(t *testing.T) {
	t.Parallel()

	var c Config
	steps := []struct {
		key, value string
		wantErr    bool
	}{
		{"picker.selectionMode", "multiple", false},
		{"picker.selectionMode", "several", true},
		{"picker.viewMode", "year", false},
		{"picker.delimiter", ";", false},
		{"picker.disablePast", "true", false},
		{"picker.disablePast", "maybe", true},
		{"picker.minDate", "2024-01-01", false},
		{"picker.maxDate", "2023-01-01", true},
		{"picker.maxDate", "2024-12-31", false},
		{"picker.disabledDates", "2024-02-01, 2024-02-02", false},
		{"picker.closeOnSelect", "false", false},
		{"tui.palette", "DARK", false},
		{"tui.palette", "sepia", true},
		{"nope", "x", true},
	}
	for _, s := range steps {
		err := c.Set(s.key, s.value)
		if (err != nil) != s.wantErr {
			t.Fatalf("Set(%q, %q): err=%v wantErr=%v", s.key, s.value, err, s.wantErr)
		}
	}

	pc := c.Picker.PickerConfig()
	if pc.SelectionMode != picker.Multiple || pc.ViewMode != picker.ViewYear || pc.Delimiter != ";" {
		t.Fatalf("picker config: %#v", pc)
	}
	if !pc.DisablePast || pc.MinDate != "2024-01-01" || pc.MaxDate != "2024-12-31" {
		t.Fatalf("constraints: %#v", pc)
	}
	if !reflect.DeepEqual(pc.DisabledDates, []string{"2024-02-01", "2024-02-02"}) {
		t.Fatalf("disabled dates: %#v", pc.DisabledDates)
	}
	if pc.CloseOnSelect == nil || *pc.CloseOnSelect {
		t.Fatalf("closeOnSelect: %v", pc.CloseOnSelect)
	}
	if c.TUI == nil || c.TUI.Palette != "dark" {
		t.Fatalf("palette: %#v", c.TUI)
	}
	if err := pc.Validate(); err != nil {
		t.Fatalf("stored defaults should validate: %v", err)
	}
}

func TestFields_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := s.LoadField(ctx, "due"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
	if _, err := s.SaveField(ctx, "  ", "x"); err == nil {
		t.Fatalf("expected error for empty name")
	}

	if _, err := s.SaveField(ctx, "due", "2024-03-15"); err != nil {
		t.Fatalf("SaveField: %v", err)
	}
	if _, err := s.SaveField(ctx, "away", "2024-01-01, 2024-01-02"); err != nil {
		t.Fatalf("SaveField: %v", err)
	}
	saved, err := s.SaveField(ctx, "due", "2024-03-16")
	if err != nil {
		t.Fatalf("SaveField (update): %v", err)
	}

	got, err := s.LoadField(ctx, " due ")
	if err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	if got.Value != "2024-03-16" || !got.UpdatedAt.Equal(saved.UpdatedAt) {
		t.Fatalf("LoadField:\n got: %#v\nwant: %#v", got, saved)
	}

	list, err := s.ListFields(ctx)
	if err != nil {
		t.Fatalf("ListFields: %v", err)
	}
	if len(list) != 2 || list[0].Name != "away" || list[1].Name != "due" {
		t.Fatalf("ListFields: %#v", list)
	}

	if err := s.DeleteField(ctx, "due"); err != nil {
		t.Fatalf("DeleteField: %v", err)
	}
	if err := s.DeleteField(ctx, "due"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("second delete: expected ErrFieldNotFound, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, "fields.sqlite")); err != nil {
		t.Fatalf("expected sqlite file: %v", err)
	}
}

func TestOpen_DefaultsToConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATEPICKER_CONFIG_DIR", dir)
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Dir != filepath.Clean(dir) {
		t.Fatalf("Dir: got %q want %q", s.Dir, dir)
	}
}

package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".nvgallery.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	result := loadConfigFromPath(filepath.Join(t.TempDir(), "nonexistent.yaml"))

	if result.Status != configStatusDefault {
		t.Errorf("Expected status %q, got %q", configStatusDefault, result.Status)
	}
	if result.HasError {
		t.Error("Missing file must not be reported as an error")
	}
	if !reflect.DeepEqual(result.Config, defaultConfig()) {
		t.Errorf("Default config mismatch.\nExpected: %+v\nGot: %+v", defaultConfig(), result.Config)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		status string
		check  func(t *testing.T, c Config)
	}{
		{
			name: "Valid config",
			yaml: `
window_width: 1000
window_height: 800
window_radius: 2
single_tap_dismiss: true
easing: linear
transition_ms: 500
`,
			status: configStatusOK,
			check: func(t *testing.T, c Config) {
				if c.WindowWidth != 1000 || c.WindowHeight != 800 {
					t.Errorf("Expected 1000x800, got %dx%d", c.WindowWidth, c.WindowHeight)
				}
				if c.WindowRadius != 2 {
					t.Errorf("Expected radius 2, got %d", c.WindowRadius)
				}
				if !c.SingleTapDismiss {
					t.Error("Expected single_tap_dismiss to be true")
				}
				if c.Easing != "linear" {
					t.Errorf("Expected easing linear, got %s", c.Easing)
				}
				if c.TransitionOptions().PresentDuration != 500*time.Millisecond {
					t.Errorf("Expected 500ms transition, got %v", c.TransitionOptions().PresentDuration)
				}
			},
		},
		{
			name:   "Width too small",
			yaml:   "window_width: 200\nwindow_height: 600\n",
			status: configStatusOK,
			check: func(t *testing.T, c Config) {
				if c.WindowWidth != defaultWidth {
					t.Errorf("Expected width %d, got %d", defaultWidth, c.WindowWidth)
				}
				if c.WindowHeight != 600 {
					t.Errorf("Expected height 600, got %d", c.WindowHeight)
				}
			},
		},
		{
			name:   "Out of range values are clamped",
			yaml:   "window_radius: 9\ncache_size: 0\nthumbnail_size: 4096\npreload_count: -3\n",
			status: configStatusOK,
			check: func(t *testing.T, c Config) {
				d := defaultConfig()
				if c.WindowRadius != 5 {
					t.Errorf("Expected radius clamped to 5, got %d", c.WindowRadius)
				}
				if c.CacheSize != d.CacheSize {
					t.Errorf("Expected default cache size %d, got %d", d.CacheSize, c.CacheSize)
				}
				if c.ThumbnailSize != 512 {
					t.Errorf("Expected thumbnail size 512, got %d", c.ThumbnailSize)
				}
				if c.PreloadCount != d.PreloadCount {
					t.Errorf("Expected default preload count %d, got %d", d.PreloadCount, c.PreloadCount)
				}
			},
		},
		{
			name:   "Unknown easing falls back",
			yaml:   "easing: wobbly\n",
			status: configStatusOK,
			check: func(t *testing.T, c Config) {
				if c.Easing != defaultConfig().Easing {
					t.Errorf("Expected default easing, got %s", c.Easing)
				}
			},
		},
		{
			name: "Remote section",
			yaml: `
remote:
  timeout_ms: 5000
  requests_per_sec: 100
  burst: 3
`,
			status: configStatusOK,
			check: func(t *testing.T, c Config) {
				ro := c.RemoteOptions()
				if ro.Timeout != 5*time.Second {
					t.Errorf("Expected 5s timeout, got %v", ro.Timeout)
				}
				if ro.RequestsPerSec != 50 {
					t.Errorf("Expected requests_per_sec clamped to 50, got %v", ro.RequestsPerSec)
				}
				if ro.Burst != 3 {
					t.Errorf("Expected burst 3, got %d", ro.Burst)
				}
				if ro.CacheExpiration != 30*time.Minute {
					t.Errorf("Expected default cache expiration, got %v", ro.CacheExpiration)
				}
			},
		},
		{
			name:   "Custom keybinding keeps other defaults",
			yaml:   "keybindings:\n  exit: [KeyX]\n",
			status: configStatusOK,
			check: func(t *testing.T, c Config) {
				if !reflect.DeepEqual(c.Keybindings["exit"], []string{"KeyX"}) {
					t.Errorf("Expected exit bound to KeyX, got %v", c.Keybindings["exit"])
				}
				if !reflect.DeepEqual(c.Keybindings["next"], GetDefaultKeybindings()["next"]) {
					t.Errorf("Expected default next bindings, got %v", c.Keybindings["next"])
				}
			},
		},
		{
			name:   "Conflicting keybinding falls back to defaults",
			yaml:   "keybindings:\n  next: [KeyQ]\n",
			status: configStatusWarning,
			check: func(t *testing.T, c Config) {
				if !reflect.DeepEqual(c.Keybindings, GetDefaultKeybindings()) {
					t.Errorf("Expected default keybindings, got %v", c.Keybindings)
				}
			},
		},
		{
			name:   "Unknown mouse input falls back to defaults",
			yaml:   "mousebindings:\n  dismiss: [TripleClick]\n",
			status: configStatusWarning,
			check: func(t *testing.T, c Config) {
				if !reflect.DeepEqual(c.Mousebindings, GetDefaultMousebindings()) {
					t.Errorf("Expected default mouse bindings, got %v", c.Mousebindings)
				}
			},
		},
		{
			name:   "Invalid YAML",
			yaml:   "window_width: [1, 2\n",
			status: configStatusError,
			check: func(t *testing.T, c Config) {
				if !reflect.DeepEqual(c, defaultConfig()) {
					t.Errorf("Expected defaults after a parse error, got %+v", c)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.yaml))
			if result.Status != tt.status {
				t.Errorf("Expected status %q, got %q (warnings %v)", tt.status, result.Status, result.Warnings)
			}
			if (tt.status == configStatusError) != result.HasError {
				t.Errorf("HasError = %v for status %q", result.HasError, result.Status)
			}
			tt.check(t, result.Config)
		})
	}
}

func TestValidateBindingString(t *testing.T) {
	keys := getValidKeyNames()
	tests := []struct {
		input   string
		wantErr string
	}{
		{"KeyQ", ""},
		{"Shift+Space", ""},
		{"Ctrl+Alt+KeyA", ""},
		{"Super+KeyA", "unknown modifier"},
		{"KeyNope", "unknown input"},
		{"Shift+", "empty binding"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateBindingString(tt.input, keys)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validateBindingString(%q) = %v, want nil", tt.input, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validateBindingString(%q) = %v, want error containing %q", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultBindingsAreValid(t *testing.T) {
	if err := validateKeybindings(GetDefaultKeybindings()); err != nil {
		t.Errorf("Default keybindings invalid: %v", err)
	}
	if err := validateMousebindings(GetDefaultMousebindings()); err != nil {
		t.Errorf("Default mouse bindings invalid: %v", err)
	}
	if err := validateKeybindings(map[string][]string{"levitate": {"KeyL"}}); err == nil {
		t.Error("Expected an error for an unknown action")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nvgallery.yaml")

	cfg := defaultConfig()
	cfg.WindowWidth = 1280
	cfg.WindowHeight = 720
	cfg.Fullscreen = true
	cfg.SortMethod = SortSimple
	saveConfigToPath(cfg, path)

	result := loadConfigFromPath(path)
	if result.Status != configStatusOK {
		t.Fatalf("Expected status OK, got %q (%v)", result.Status, result.Warnings)
	}
	if !reflect.DeepEqual(result.Config, cfg) {
		t.Errorf("Round trip mismatch.\nExpected: %+v\nGot: %+v", cfg, result.Config)
	}
}

func TestSaveConfigRejectsInvalidWindowSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nvgallery.yaml")

	cfg := defaultConfig()
	cfg.WindowWidth = 10
	saveConfigToPath(cfg, path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no file to be written, stat err = %v", err)
	}
}

func TestGestureSettingsFromConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.MouseSettings.DoubleClickTime = 400
	cfg.MouseSettings.DragThreshold = 8

	gs := cfg.GestureSettings()
	if gs.DoubleTapWindow != 400*time.Millisecond {
		t.Errorf("Expected 400ms double-tap window, got %v", gs.DoubleTapWindow)
	}
	if gs.DragThreshold != 8 {
		t.Errorf("Expected drag threshold 8, got %v", gs.DragThreshold)
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Window size constants
const (
	defaultWidth  = 800
	defaultHeight = 600
	minWidth      = 400
	minHeight     = 300
)

// Sort method constants
const (
	SortNatural    = 0 // Natural sort order (e.g., file1, file2, file10)
	SortSimple     = 1 // Simple string sort (lexicographical)
	SortEntryOrder = 2 // Maintain original order (no sort)
)

// Load status values reported in ConfigLoadResult.Status
const (
	configStatusOK      = "OK"
	configStatusDefault = "Default"
	configStatusWarning = "Warning"
	configStatusError   = "Error"
)

// RemoteConfig tunes downloading of URL sources
type RemoteConfig struct {
	TimeoutMs      int     `yaml:"timeout_ms"`
	RequestsPerSec float64 `yaml:"requests_per_sec"`
	Burst          int     `yaml:"burst"`
	CacheMinutes   int     `yaml:"cache_minutes"`
}

// LoggingConfig selects the log level, console format and optional
// rotating log file
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type Config struct {
	WindowWidth      int                 `yaml:"window_width"`
	WindowHeight     int                 `yaml:"window_height"`
	HelpFontSize     float64             `yaml:"help_font_size"`
	SortMethod       int                 `yaml:"sort_method"`
	Fullscreen       bool                `yaml:"fullscreen"`
	CacheSize        int                 `yaml:"cache_size"`
	WindowRadius     int                 `yaml:"window_radius"`
	SingleTapDismiss bool                `yaml:"single_tap_dismiss"`
	ThumbnailSize    int                 `yaml:"thumbnail_size"`
	TransitionMs     int                 `yaml:"transition_ms"`
	SettleMs         int                 `yaml:"settle_ms"`
	ButtonFadeMs     int                 `yaml:"button_fade_ms"`
	Easing           string              `yaml:"easing"`
	PreloadEnabled   bool                `yaml:"preload_enabled"`
	PreloadCount     int                 `yaml:"preload_count"`
	Remote           RemoteConfig        `yaml:"remote"`
	Logging          LoggingConfig       `yaml:"logging"`
	Keybindings      map[string][]string `yaml:"keybindings"`
	Mousebindings    map[string][]string `yaml:"mousebindings"`
	MouseSettings    MouseSettings       `yaml:"mouse_settings"`
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

func defaultConfig() Config {
	return Config{
		WindowWidth:    defaultWidth,
		WindowHeight:   defaultHeight,
		HelpFontSize:   24.0,
		SortMethod:     SortNatural,
		CacheSize:      16,
		WindowRadius:   defaultWindowRadius,
		ThumbnailSize:  defaultThumbnailSize,
		TransitionMs:   int(defaultTransitionDuration / time.Millisecond),
		SettleMs:       int(defaultSettleDuration / time.Millisecond),
		ButtonFadeMs:   int(dismissButtonFade / time.Millisecond),
		Easing:         "out-cubic",
		PreloadEnabled: true,
		PreloadCount:   4,
		Remote: RemoteConfig{
			TimeoutMs:      15000,
			RequestsPerSec: 4,
			Burst:          2,
			CacheMinutes:   30,
		},
		Logging:       LoggingConfig{Level: "info", Format: "auto"},
		Keybindings:   GetDefaultKeybindings(),
		Mousebindings: GetDefaultMousebindings(),
		MouseSettings: GetDefaultMouseSettings(),
	}
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "nvgallery.yaml"
	}
	return filepath.Join(homeDir, ".nvgallery.yaml")
}

// loadConfigFromPath reads a YAML (or JSON) config. A missing file yields
// the defaults; a broken file yields the defaults with an error status.
// Out-of-range values are clamped.
func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()
	result := ConfigLoadResult{
		Config:   config,
		Warnings: []string{},
		Status:   configStatusOK,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		result.Status = configStatusDefault
		return result
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		logger().Warn("invalid config file, using defaults", "path", configPath, "err", err)
		result.HasError = true
		result.Status = configStatusError
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	clampConfig(&config)

	if warn := fillBindings(&config.Keybindings, GetDefaultKeybindings(), validateKeybindings); warn != "" {
		result.Status = configStatusWarning
		result.Warnings = append(result.Warnings, "Keybinding errors: "+warn)
	}
	if warn := fillBindings(&config.Mousebindings, GetDefaultMousebindings(), validateMousebindings); warn != "" {
		result.Status = configStatusWarning
		result.Warnings = append(result.Warnings, "Mouse binding errors: "+warn)
	}

	result.Config = config
	return result
}

func clampInt(v, lo, hi, def int) int {
	if v < lo {
		return def
	}
	return min(v, hi)
}

func clampConfig(c *Config) {
	d := defaultConfig()

	if c.WindowWidth < minWidth {
		c.WindowWidth = defaultWidth
	}
	if c.WindowHeight < minHeight {
		c.WindowHeight = defaultHeight
	}
	// Minimum 12px for readability
	if c.HelpFontSize <= 12.0 {
		c.HelpFontSize = d.HelpFontSize
	}
	if c.SortMethod < SortNatural || c.SortMethod > SortEntryOrder {
		c.SortMethod = SortNatural
	}

	c.CacheSize = clampInt(c.CacheSize, 1, 64, d.CacheSize)
	c.WindowRadius = clampInt(c.WindowRadius, 0, 5, d.WindowRadius)
	c.ThumbnailSize = clampInt(c.ThumbnailSize, 64, 512, d.ThumbnailSize)
	c.TransitionMs = clampInt(c.TransitionMs, 0, 2000, d.TransitionMs)
	c.SettleMs = clampInt(c.SettleMs, 50, 1000, d.SettleMs)
	c.ButtonFadeMs = clampInt(c.ButtonFadeMs, 0, 1000, d.ButtonFadeMs)
	c.PreloadCount = clampInt(c.PreloadCount, 1, 16, d.PreloadCount)

	if !validEasing(c.Easing) {
		c.Easing = d.Easing
	}

	c.Remote.TimeoutMs = clampInt(c.Remote.TimeoutMs, 1000, 120000, d.Remote.TimeoutMs)
	c.Remote.Burst = clampInt(c.Remote.Burst, 1, 16, d.Remote.Burst)
	c.Remote.CacheMinutes = clampInt(c.Remote.CacheMinutes, 1, 1440, d.Remote.CacheMinutes)
	if c.Remote.RequestsPerSec < 0 {
		c.Remote.RequestsPerSec = d.Remote.RequestsPerSec
	} else if c.Remote.RequestsPerSec > 50 {
		c.Remote.RequestsPerSec = 50
	}

	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	switch c.Logging.Format {
	case "auto", "text", "json":
	default:
		c.Logging.Format = d.Logging.Format
	}

	if c.MouseSettings.WheelSensitivity <= 0 {
		c.MouseSettings.WheelSensitivity = d.MouseSettings.WheelSensitivity
	}
	c.MouseSettings.DoubleClickTime = clampInt(c.MouseSettings.DoubleClickTime, 100, 1000, d.MouseSettings.DoubleClickTime)
	c.MouseSettings.DragThreshold = clampInt(c.MouseSettings.DragThreshold, 1, 50, d.MouseSettings.DragThreshold)
}

func validEasing(name string) bool {
	switch name {
	case "linear", "in-out-quad", "out-quad", "in-cubic", "out-cubic", "out-back":
		return true
	}
	return false
}

// fillBindings adds defaults for missing actions and falls back to the
// defaults entirely when validation fails. It returns the validation error
// text, if any.
func fillBindings(bindings *map[string][]string, defaults map[string][]string, validate func(map[string][]string) error) string {
	if *bindings == nil {
		*bindings = defaults
		return ""
	}
	for action, keys := range defaults {
		if _, exists := (*bindings)[action]; !exists {
			(*bindings)[action] = keys
		}
	}
	if err := validate(*bindings); err != nil {
		logger().Warn("invalid bindings detected, using defaults", "err", err)
		*bindings = defaults
		return err.Error()
	}
	return ""
}

// validateKeybindings checks key names and modifiers and rejects a key bound
// to two actions
func validateKeybindings(keybindings map[string][]string) error {
	return validateBindings(keybindings, getValidKeyNames())
}

// validateMousebindings is validateKeybindings for mouse actions
func validateMousebindings(mousebindings map[string][]string) error {
	return validateBindings(mousebindings, getValidMouseNames())
}

func validateBindings(bindings map[string][]string, valid map[string]bool) error {
	seen := make(map[string]string)
	for action, inputs := range bindings {
		if !isKnownAction(action) {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, s := range inputs {
			if err := validateBindingString(s, valid); err != nil {
				return fmt.Errorf("invalid binding '%s' for action '%s': %v", s, action, err)
			}
			if existing, exists := seen[s]; exists {
				return fmt.Errorf("conflict: '%s' is bound to both '%s' and '%s'", s, existing, action)
			}
			seen[s] = action
		}
	}
	return nil
}

// validateBindingString validates a single "Mod+Name" string
func validateBindingString(s string, valid map[string]bool) error {
	parts := strings.Split(s, "+")
	name := parts[len(parts)-1]
	if name == "" {
		return fmt.Errorf("empty binding")
	}
	if !valid[name] {
		return fmt.Errorf("unknown input: %s", name)
	}
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "shift", "ctrl", "alt":
		default:
			return fmt.Errorf("unknown modifier: %s", mod)
		}
	}
	return nil
}

func getValidKeyNames() map[string]bool {
	valid := make(map[string]bool)
	for name := range getKeyMapping() {
		valid[name] = true
	}
	return valid
}

func getValidMouseNames() map[string]bool {
	valid := map[string]bool{
		"WheelUp": true, "WheelDown": true, "WheelLeft": true, "WheelRight": true,
	}
	for name := range getMouseMapping() {
		valid[name] = true
		valid["Double"+name] = true
	}
	return valid
}

// getSortMethodName returns the human-readable name of a sort method
func getSortMethodName(sortMethod int) string {
	return GetSortStrategy(sortMethod).Name()
}

// TransitionOptions converts the durations to controller options
func (c Config) TransitionOptions() TransitionOptions {
	d := time.Duration(c.TransitionMs) * time.Millisecond
	return TransitionOptions{
		PresentDuration: d,
		DismissDuration: d,
		Easing:          easingByName(c.Easing),
	}
}

// RemoteOptions converts the remote section to fetcher options
func (c Config) RemoteOptions() RemoteOptions {
	return RemoteOptions{
		Timeout:         time.Duration(c.Remote.TimeoutMs) * time.Millisecond,
		RequestsPerSec:  c.Remote.RequestsPerSec,
		Burst:           c.Remote.Burst,
		CacheExpiration: time.Duration(c.Remote.CacheMinutes) * time.Minute,
	}
}

// GestureSettings derives pointer recognition settings from mouse settings
func (c Config) GestureSettings() GestureSettings {
	return GestureSettings{
		DoubleTapWindow: time.Duration(c.MouseSettings.DoubleClickTime) * time.Millisecond,
		DragThreshold:   float64(c.MouseSettings.DragThreshold),
	}
}

func saveConfigToPath(config Config, configPath string) {
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		logger().Warn("not saving config with invalid window size",
			"width", config.WindowWidth, "height", config.WindowHeight)
		return
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		logger().Error("failed to marshal config", "err", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		logger().Error("failed to save config", "path", configPath, "err", err)
	}
}

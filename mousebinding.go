package main

import (
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `yaml:"wheel_sensitivity"`
	DoubleClickTime  int     `yaml:"double_click_time"` // milliseconds, also the double-tap window
	DragThreshold    int     `yaml:"drag_threshold"`    // pixels before a press becomes a drag
	EnableMouse      bool    `yaml:"enable_mouse"`
	WheelInverted    bool    `yaml:"wheel_inverted"`
}

// DoubleClickTracker tracks double-click state
type DoubleClickTracker struct {
	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int
}

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaX   float64
	WheelDeltaY   float64
	IsDoubleClick bool
	modifiers
}

// MousebindingManager handles bindings for the buttons and wheel. The left
// button is left to the gesture tracker.
type MousebindingManager struct {
	mousebindings      map[string][]string
	mouseMapping       map[string]ebiten.MouseButton
	combos             map[string][]MouseCombination
	settings           MouseSettings
	doubleClickTracker DoubleClickTracker
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{
		mousebindings: mousebindings,
		mouseMapping:  getMouseMapping(),
		settings:      settings,
		doubleClickTracker: DoubleClickTracker{
			lastClickTime: time.Now(),
		},
	}
	mm.compile()
	return mm
}

// getMouseMapping returns a mapping from string mouse actions to Ebiten mouse buttons
func getMouseMapping() map[string]ebiten.MouseButton {
	return map[string]ebiten.MouseButton{
		"RightClick":  ebiten.MouseButtonRight,
		"MiddleClick": ebiten.MouseButtonMiddle,
		"Back":        ebiten.MouseButton3, // side button
		"Forward":     ebiten.MouseButton4, // side button
	}
}

// parseMouseString parses a mouse string like "Shift+RightClick" or "WheelUp" into a MouseCombination
func (mm *MousebindingManager) parseMouseString(mouseStr string) (MouseCombination, bool) {
	mods, name := parseModifiers(mouseStr)
	c := MouseCombination{modifiers: mods}

	switch {
	case strings.HasPrefix(name, "Wheel"):
		c.IsWheel = true
		switch name {
		case "WheelUp":
			c.WheelDeltaY = 1.0
		case "WheelDown":
			c.WheelDeltaY = -1.0
		case "WheelLeft":
			c.WheelDeltaX = -1.0
		case "WheelRight":
			c.WheelDeltaX = 1.0
		default:
			return MouseCombination{}, false
		}
	case strings.HasPrefix(name, "Double"):
		button, exists := mm.mouseMapping[strings.TrimPrefix(name, "Double")]
		if !exists {
			return MouseCombination{}, false
		}
		c.IsDoubleClick = true
		c.Button = button
	default:
		button, exists := mm.mouseMapping[name]
		if !exists {
			return MouseCombination{}, false
		}
		c.Button = button
	}

	return c, true
}

func (mm *MousebindingManager) compile() {
	mm.combos = make(map[string][]MouseCombination, len(mm.mousebindings))
	for action, inputs := range mm.mousebindings {
		for _, in := range inputs {
			if c, ok := mm.parseMouseString(in); ok {
				mm.combos[action] = append(mm.combos[action], c)
			} else {
				logger().Warn("ignoring unknown mouse binding", "action", action, "input", in)
			}
		}
	}
}

// isMouseActionTriggered checks if a mouse combination fired this frame
func (mm *MousebindingManager) isMouseActionTriggered(c MouseCombination) bool {
	if !mm.settings.EnableMouse || !c.held() {
		return false
	}

	switch {
	case c.IsWheel:
		wheelX, wheelY := ebiten.Wheel()
		if mm.settings.WheelInverted {
			wheelY = -wheelY
		}
		wheelX *= mm.settings.WheelSensitivity
		wheelY *= mm.settings.WheelSensitivity

		if c.WheelDeltaX != 0 {
			return c.WheelDeltaX*wheelX > 0
		}
		return c.WheelDeltaY*wheelY > 0
	case c.IsDoubleClick:
		return mm.checkDoubleClick(c.Button)
	default:
		return inpututil.IsMouseButtonJustPressed(c.Button)
	}
}

// checkDoubleClick checks if a double-click occurred for the given button
func (mm *MousebindingManager) checkDoubleClick(button ebiten.MouseButton) bool {
	if !inpututil.IsMouseButtonJustPressed(button) {
		return false
	}

	now := time.Now()
	t := &mm.doubleClickTracker
	window := time.Duration(mm.settings.DoubleClickTime) * time.Millisecond

	if t.lastClickButton == button && now.Sub(t.lastClickTime) <= window {
		t.clickCount++
		if t.clickCount == 2 {
			t.clickCount = 0
			t.lastClickTime = now
			return true
		}
	} else {
		t.clickCount = 1
		t.lastClickButton = button
	}

	t.lastClickTime = now
	return false
}

// CheckAction checks if any mouse binding for the given action is triggered
func (mm *MousebindingManager) CheckAction(action string) bool {
	for _, c := range mm.combos[action] {
		if mm.isMouseActionTriggered(c) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !mm.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// GetMousebindings returns the current mouse bindings map (for display purposes)
func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}

// GetSettings returns the current mouse settings
func (mm *MousebindingManager) GetSettings() MouseSettings {
	return mm.settings
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300,
		DragThreshold:    5,
		EnableMouse:      true,
	}
}

package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions lists every bindable action. The left mouse button is
// reserved for tap, double-tap and drag gestures and is never bound here.
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"KeyQ"}, []string{}, "Quit application"},
	{"help", []string{"Shift+Slash"}, []string{"Alt+RightClick"}, "Show/hide help"},
	{"info", []string{"KeyI"}, []string{}, "Show/hide page info"},
	{"fullscreen", []string{"KeyF"}, []string{}, "Toggle fullscreen"},

	// Grid
	{"open", []string{"Enter", "NumpadEnter"}, []string{}, "Open gallery at the selected thumbnail"},
	{"scroll_up", []string{"ArrowUp", "PageUp"}, []string{"WheelUp"}, "Scroll thumbnails up (previous page in gallery)"},
	{"scroll_down", []string{"ArrowDown", "PageDown"}, []string{"WheelDown"}, "Scroll thumbnails down (next page in gallery)"},

	// Gallery
	{"next", []string{"Space", "ArrowRight", "KeyN"}, []string{"Forward"}, "Next page (next thumbnail in grid)"},
	{"previous", []string{"Shift+Space", "ArrowLeft", "KeyP"}, []string{"Back"}, "Previous page (previous thumbnail in grid)"},
	{"jump_first", []string{"Home", "Shift+Comma"}, []string{}, "Jump to first page"},
	{"jump_last", []string{"End", "Shift+Period"}, []string{}, "Jump to last page"},
	{"dismiss", []string{"Escape", "Backspace"}, []string{"RightClick"}, "Close the gallery"},
	{"toggle_single_tap_dismiss", []string{"KeyT"}, []string{}, "Toggle single-tap dismiss"},

	// Zoom
	{"zoom_in", []string{"Equal", "Shift+Equal"}, []string{"Ctrl+WheelUp"}, "Zoom in"},
	{"zoom_out", []string{"Minus"}, []string{"Ctrl+WheelDown"}, "Zoom out"},
	{"zoom_reset", []string{"Key0"}, []string{"MiddleClick"}, "Fit page to screen"},
}

func isKnownAction(name string) bool {
	for _, a := range actionDefinitions {
		if a.Name == name {
			return true
		}
	}
	return false
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string(nil), action.Keys...)
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = append([]string(nil), action.MouseActions...)
	}
	return mousebindings
}

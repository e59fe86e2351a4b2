package main

// ActionExecutor maps action names to InputActions calls. Key and mouse
// bindings both go through it.
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction runs action and reports whether the name was recognized.
// Gallery-only actions are ignored while the grid is showing.
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	gallery := inputState.IsGalleryOpen()

	switch action {
	case "exit":
		inputActions.Exit()
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "fullscreen":
		inputActions.ToggleFullscreen()
	case "open":
		if !gallery {
			inputActions.OpenSelected()
		}
	case "scroll_up":
		inputActions.ScrollUp()
	case "scroll_down":
		inputActions.ScrollDown()
	case "next":
		inputActions.NavigateNext()
	case "previous":
		inputActions.NavigatePrevious()
	case "jump_first":
		inputActions.JumpFirst()
	case "jump_last":
		inputActions.JumpLast()
	case "dismiss":
		if gallery {
			inputActions.Dismiss()
		}
	case "toggle_single_tap_dismiss":
		inputActions.ToggleSingleTapDismiss()
	case "zoom_in":
		if gallery {
			inputActions.ZoomIn()
		}
	case "zoom_out":
		if gallery {
			inputActions.ZoomOut()
		}
	case "zoom_reset":
		if gallery {
			inputActions.ZoomReset()
		}
	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()

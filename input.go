package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler turns keyboard and mouse-button input into actions and the
// primary pointer into gestures
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	gestures            *GestureTracker
	touchID             ebiten.TouchID
	touching            bool
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, km *KeybindingManager, mm *MousebindingManager, gs GestureSettings) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   km,
		mousebindingManager: mm,
		gestures:            NewGestureTracker(gs),
	}
}

// HandleInput runs every bound action triggered this frame, in table order.
// Returns true if any input was processed.
func (h *InputHandler) HandleInput() bool {
	if h.inputActions.GetTotalPagesCount() == 0 {
		return false
	}

	if h.inputState.IsShowingHelp() {
		// Any key closes help; only the help binding reopens it.
		if h.keybindingManager.ExecuteAction("help", h.inputActions, h.inputState) ||
			h.mousebindingManager.ExecuteAction("help", h.inputActions, h.inputState) {
			return true
		}
		if len(inpututil.AppendJustPressedKeys(nil)) > 0 {
			h.inputActions.ToggleHelp()
			return true
		}
		return false
	}

	inputProcessed := false
	for _, a := range actionDefinitions {
		if h.keybindingManager.ExecuteAction(a.Name, h.inputActions, h.inputState) {
			inputProcessed = true
			continue
		}
		if h.mousebindingManager.ExecuteAction(a.Name, h.inputActions, h.inputState) {
			inputProcessed = true
		}
	}
	return inputProcessed
}

// pointerSample reads the primary pointer: the first touch while one is
// down, otherwise the left mouse button
func (h *InputHandler) pointerSample() PointerSample {
	if h.touching {
		if inpututil.IsTouchJustReleased(h.touchID) {
			h.touching = false
			x, y := inpututil.TouchPositionInPreviousTick(h.touchID)
			return PointerSample{X: float64(x), Y: float64(y)}
		}
		x, y := ebiten.TouchPosition(h.touchID)
		return PointerSample{X: float64(x), Y: float64(y), Down: true}
	}
	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
		h.touchID, h.touching = ids[0], true
		x, y := ebiten.TouchPosition(h.touchID)
		return PointerSample{X: float64(x), Y: float64(y), Down: true}
	}

	x, y := ebiten.CursorPosition()
	return PointerSample{
		X:    float64(x),
		Y:    float64(y),
		Down: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	}
}

// Gestures feeds this frame's pointer state to the tracker
func (h *InputHandler) Gestures(dt float64) []Gesture {
	return h.gestures.Update(dt, h.pointerSample())
}

// ResetGestures drops any press in progress, e.g. when the view changes
// under the pointer
func (h *InputHandler) ResetGestures() {
	h.gestures.Reset()
}

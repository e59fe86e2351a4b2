package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// RenderState provides read-only access to host state for the renderer
type RenderState interface {
	// Modes
	IsGalleryOpen() bool
	IsFullscreen() bool
	IsShowingHelp() bool
	IsShowingInfo() bool

	// Grid
	GetGrid() *ThumbnailGrid
	GetThumbnails() *ThumbnailStore
	GetSelectedIndex() int

	// Gallery; nil while the grid is showing
	GetGallery() *Gallery
	// GetTransitionImage is the surface animated by the open and close
	// transition: the page image when loaded, the thumbnail otherwise
	GetTransitionImage() *ebiten.Image

	// Display data
	GetTotalPagesCount() int
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()

	// Grid
	OpenSelected()
	ScrollUp()
	ScrollDown()

	// Navigation; moves the grid selection while the grid is showing
	NavigateNext()
	NavigatePrevious()
	JumpFirst()
	JumpLast()

	// Gallery
	Dismiss()
	ToggleSingleTapDismiss()
	ZoomIn()
	ZoomOut()
	ZoomReset()

	// Messages
	ShowOverlayMessage(message string)

	GetTotalPagesCount() int
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsGalleryOpen() bool
	IsShowingHelp() bool
}

package main

import (
	"math"
	"time"
)

// GestureKind identifies a recognized pointer gesture
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureTap
	GestureDoubleTap
	GestureDragStart
	GestureDragMove
	GestureDragEnd
	GestureSwipeDown
)

func (k GestureKind) String() string {
	switch k {
	case GestureTap:
		return "tap"
	case GestureDoubleTap:
		return "double_tap"
	case GestureDragStart:
		return "drag_start"
	case GestureDragMove:
		return "drag_move"
	case GestureDragEnd:
		return "drag_end"
	case GestureSwipeDown:
		return "swipe_down"
	default:
		return "none"
	}
}

// DragAxis is the axis a drag locked onto once it passed the threshold
type DragAxis int

const (
	AxisHorizontal DragAxis = iota
	AxisVertical
)

// Gesture is one recognized event. For drags, DX and DY are the total
// travel since the press and StepX, StepY the travel since the last sample.
type Gesture struct {
	Kind         GestureKind
	X, Y         float64
	DX, DY       float64
	StepX, StepY float64
	Axis         DragAxis
}

// PointerSample is the pointer state for one frame
type PointerSample struct {
	X, Y float64
	Down bool
}

// GestureSettings tunes recognition
type GestureSettings struct {
	DoubleTapWindow time.Duration
	DragThreshold   float64
	SwipeDownMin    float64
	MaxTapDuration  time.Duration
}

func defaultGestureSettings() GestureSettings {
	return GestureSettings{
		DoubleTapWindow: 300 * time.Millisecond,
		DragThreshold:   5,
		SwipeDownMin:    120,
		MaxTapDuration:  400 * time.Millisecond,
	}
}

// GestureTracker turns per-frame pointer samples into gestures. A single
// tap is only reported once the double-tap window has passed without a
// second tap, so a double tap never also produces a tap.
type GestureTracker struct {
	settings GestureSettings
	clock    time.Duration

	down      bool
	pressAt   time.Duration
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	dragging  bool
	dragAxis  DragAxis
	pendingAt time.Duration
	pendingX  float64
	pendingY  float64
	pending   bool
}

// NewGestureTracker creates a tracker with the given settings
func NewGestureTracker(settings GestureSettings) *GestureTracker {
	d := defaultGestureSettings()
	if settings.DoubleTapWindow <= 0 {
		settings.DoubleTapWindow = d.DoubleTapWindow
	}
	if settings.DragThreshold <= 0 {
		settings.DragThreshold = d.DragThreshold
	}
	if settings.SwipeDownMin <= 0 {
		settings.SwipeDownMin = d.SwipeDownMin
	}
	if settings.MaxTapDuration <= 0 {
		settings.MaxTapDuration = d.MaxTapDuration
	}
	return &GestureTracker{settings: settings}
}

// Dragging reports whether a drag is in progress
func (g *GestureTracker) Dragging() bool { return g.dragging }

// Update feeds one sample taken dt seconds after the previous one
func (g *GestureTracker) Update(dt float64, s PointerSample) []Gesture {
	g.clock += time.Duration(dt * float64(time.Second))
	var out []Gesture

	if g.pending && !s.Down && !g.down && g.clock-g.pendingAt > g.settings.DoubleTapWindow {
		g.pending = false
		out = append(out, Gesture{Kind: GestureTap, X: g.pendingX, Y: g.pendingY})
	}

	switch {
	case s.Down && !g.down:
		g.down = true
		g.pressAt = g.clock
		g.startX, g.startY = s.X, s.Y
		g.lastX, g.lastY = s.X, s.Y
		g.dragging = false

	case s.Down && g.down:
		dx, dy := s.X-g.startX, s.Y-g.startY
		if !g.dragging && math.Hypot(dx, dy) >= g.settings.DragThreshold {
			g.dragging = true
			g.dragAxis = AxisHorizontal
			if math.Abs(dy) > math.Abs(dx) {
				g.dragAxis = AxisVertical
			}
			// A drag cancels a waiting tap.
			g.pending = false
			out = append(out, Gesture{Kind: GestureDragStart, X: g.startX, Y: g.startY, Axis: g.dragAxis})
		}
		if g.dragging && (s.X != g.lastX || s.Y != g.lastY) {
			out = append(out, Gesture{
				Kind: GestureDragMove, X: s.X, Y: s.Y,
				DX: dx, DY: dy,
				StepX: s.X - g.lastX, StepY: s.Y - g.lastY,
				Axis: g.dragAxis,
			})
		}
		g.lastX, g.lastY = s.X, s.Y

	case !s.Down && g.down:
		g.down = false
		out = append(out, g.release(s)...)
	}

	return out
}

func (g *GestureTracker) release(s PointerSample) []Gesture {
	dx, dy := s.X-g.startX, s.Y-g.startY
	if g.dragging {
		g.dragging = false
		if g.dragAxis == AxisVertical && dy >= g.settings.SwipeDownMin {
			return []Gesture{{Kind: GestureSwipeDown, X: s.X, Y: s.Y, DX: dx, DY: dy, Axis: AxisVertical}}
		}
		return []Gesture{{Kind: GestureDragEnd, X: s.X, Y: s.Y, DX: dx, DY: dy, Axis: g.dragAxis}}
	}

	if g.clock-g.pressAt > g.settings.MaxTapDuration {
		return nil
	}
	if g.pending && g.clock-g.pendingAt <= g.settings.DoubleTapWindow {
		g.pending = false
		return []Gesture{{Kind: GestureDoubleTap, X: s.X, Y: s.Y}}
	}
	g.pending = true
	g.pendingAt = g.clock
	g.pendingX, g.pendingY = s.X, s.Y
	return nil
}

// Reset drops any press, drag or waiting tap
func (g *GestureTracker) Reset() {
	g.down = false
	g.dragging = false
	g.pending = false
}

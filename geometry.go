package main

import "math"

// Rect is an axis-aligned rectangle in float64 screen or content coordinates
type Rect struct {
	X, Y, W, H float64
}

// MaxX returns the right edge
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the center point
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether (x, y) lies inside the rectangle
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// Offset returns the rectangle moved by (dx, dy)
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Intersects reports whether the two rectangles overlap
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Inset shrinks the rectangle by d on every side
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: math.Max(0, r.W-2*d), H: math.Max(0, r.H-2*d)}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpRect interpolates every edge of a towards b. t outside [0, 1]
// extrapolates.
func LerpRect(a, b Rect, t float64) Rect {
	return Rect{
		X: lerp(a.X, b.X, t),
		Y: lerp(a.Y, b.Y, t),
		W: lerp(a.W, b.W, t),
		H: lerp(a.H, b.H, t),
	}
}

// FitRect returns the largest rectangle with the image's aspect ratio that
// fits inside bounds, centered in it
func FitRect(imgW, imgH float64, bounds Rect) Rect {
	if imgW <= 0 || imgH <= 0 || bounds.Empty() {
		return bounds
	}
	scale := math.Min(bounds.W/imgW, bounds.H/imgH)
	w, h := imgW*scale, imgH*scale
	cx, cy := bounds.Center()
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// RectWithWidth returns a rectangle of the given width with the image's
// aspect ratio, centered on (cx, cy)
func RectWithWidth(imgW, imgH, width, cx, cy float64) Rect {
	if imgW <= 0 || imgH <= 0 {
		return Rect{X: cx - width/2, Y: cy - width/2, W: width, H: width}
	}
	h := width * imgH / imgW
	return Rect{X: cx - width/2, Y: cy - h/2, W: width, H: h}
}

package main

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// animation drives one scalar from a start to an end value over a fixed
// duration. It is advanced explicitly with the frame delta, never by a clock.
type animation struct {
	tween *gween.Tween
	from  float64
	to    float64
	value float64
	done  bool
}

func newAnimation(from, to float64, d time.Duration, fn ease.TweenFunc) *animation {
	a := &animation{from: from, to: to, value: from}
	if d <= 0 {
		a.value = to
		a.done = true
		return a
	}
	if fn == nil {
		fn = ease.Linear
	}
	a.tween = gween.New(float32(from), float32(to), float32(d.Seconds()), fn)
	return a
}

// update advances by dt seconds and returns the current value and whether
// the animation has reached its end
func (a *animation) update(dt float64) (float64, bool) {
	if a.done {
		return a.value, true
	}
	v, finished := a.tween.Update(float32(dt))
	a.value = float64(v)
	if finished {
		a.value = a.to
		a.done = true
	}
	return a.value, a.done
}

// finish jumps to the end value
func (a *animation) finish() {
	a.value = a.to
	a.done = true
}

// easingByName maps config names to easing functions
func easingByName(name string) ease.TweenFunc {
	switch name {
	case "linear":
		return ease.Linear
	case "in-out-quad":
		return ease.InOutQuad
	case "out-quad":
		return ease.OutQuad
	case "in-cubic":
		return ease.InCubic
	case "out-cubic":
		return ease.OutCubic
	case "out-back":
		return ease.OutBack
	default:
		logger().Warn("unknown easing, using out-cubic", "easing", name)
		return ease.OutCubic
	}
}

package largeview

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for the rectangle's left and top
// edges.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// ScrollTo animates the rectangle's top-left corner to (left, top) over
// duration seconds. The target is clamped the same way a pan is, and axes
// where the whole image fits are left alone. A nil easeFn uses
// ease.OutCubic; a non-positive duration jumps immediately. Press and
// keyboard pans cancel the animation.
func (c *ViewportController) ScrollTo(left, top int, duration float32, easeFn ease.TweenFunc) bool {
	if !c.placed {
		return false
	}
	left, top = c.clampOrigin(left, top)
	if duration <= 0 {
		c.scroll = nil
		return c.offset(left-c.rect.Left, top-c.rect.Top)
	}
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.rect.Left), float32(left), duration, easeFn),
		tweenY: gween.New(float32(c.rect.Top), float32(top), duration, easeFn),
	}
	return true
}

// ScrollHome animates back to the centered placement.
func (c *ViewportController) ScrollHome(duration float32, easeFn ease.TweenFunc) bool {
	if !c.placed {
		return false
	}
	return c.ScrollTo(c.home.Left, c.home.Top, duration, easeFn)
}

// Scrolling reports whether a scroll animation is running.
func (c *ViewportController) Scrolling() bool {
	return c.scroll != nil
}

// Update advances a running scroll animation by dt seconds. It reports
// whether the rectangle moved.
func (c *ViewportController) Update(dt float32) bool {
	s := c.scroll
	if s == nil {
		return false
	}

	left, top := c.rect.Left, c.rect.Top
	if !s.doneX {
		val, done := s.tweenX.Update(dt)
		left = int(math.Round(float64(val)))
		s.doneX = done
	}
	if !s.doneY {
		val, done := s.tweenY.Update(dt)
		top = int(math.Round(float64(val)))
		s.doneY = done
	}
	if s.doneX && s.doneY {
		c.scroll = nil
	}
	return c.offset(left-c.rect.Left, top-c.rect.Top)
}

// clampOrigin limits a requested top-left corner to positions a pan could
// reach. Frozen axes keep their current value.
func (c *ViewportController) clampOrigin(left, top int) (int, int) {
	if c.image.Width > c.surface.Width {
		left = max(0, min(left, c.image.Width-c.surface.Width))
	} else {
		left = c.rect.Left
	}
	if c.image.Height > c.surface.Height {
		top = max(0, min(top, c.image.Height-c.surface.Height))
	} else {
		top = c.rect.Top
	}
	return left, top
}

package largeview

// ControllerOptions configures a ViewportController.
type ControllerOptions struct {
	// ClampInitial pins the centered placement to the image along any axis
	// where the whole image fits on the surface, so the rectangle never
	// extends past the image edges. When false the centered placement is
	// kept as computed and may extend past the edges on those axes; the
	// decode step clamps it instead.
	ClampInitial bool
}

// ViewportController owns the visible rectangle over an image of fixed size
// and moves it in response to pointer events. All methods must be called from
// one goroutine; readers on other goroutines take a snapshot with
// CurrentRect and pass the copy along.
//
// The controller never fails. Events that arrive before both the image and
// surface dimensions are known are ignored.
type ViewportController struct {
	image   ImageDimensions
	surface SurfaceDimensions
	opts    ControllerOptions

	rect   ViewRect
	home   ViewRect // centered placement, target of Recenter
	track  PointerTrack
	placed bool
	dirty  bool

	scroll *scrollAnim
}

// NewViewportController creates a controller for an image of the given
// size. The rectangle is placed once SetSurface reports a laid-out surface.
func NewViewportController(image ImageDimensions, opts ControllerOptions) *ViewportController {
	return &ViewportController{
		image: image,
		opts:  opts,
	}
}

// SetImage replaces the image dimensions and recomputes the centered
// placement. It reports whether a placement was made.
func (c *ViewportController) SetImage(image ImageDimensions) bool {
	if image == c.image && c.placed {
		return false
	}
	c.image = image
	return c.place()
}

// SetSurface records the laid-out surface size. Any change recenters the
// rectangle; repeating the current size is a no-op. It reports whether a
// placement was made.
func (c *ViewportController) SetSurface(surface SurfaceDimensions) bool {
	if surface == c.surface && c.placed {
		return false
	}
	c.surface = surface
	return c.place()
}

// place computes the centered rectangle once both sizes are known.
func (c *ViewportController) place() bool {
	c.scroll = nil
	if !c.image.Known() || !c.surface.Ready() {
		c.placed = false
		c.rect = ViewRect{}
		return false
	}

	c.rect = centeredRect(c.image, c.surface)
	if c.opts.ClampInitial {
		c.rect = pinFrozenAxes(c.rect, c.image, c.surface)
	}
	c.home = c.rect
	c.placed = true
	c.dirty = true
	return true
}

// centeredRect places a surface-sized rectangle over the image center. The
// result is not clamped: when the image is smaller than the surface along an
// axis, that axis extends past both image edges.
func centeredRect(image ImageDimensions, surface SurfaceDimensions) ViewRect {
	left := image.Width/2 - surface.Width/2
	top := image.Height/2 - surface.Height/2
	return ViewRect{
		Left:   left,
		Top:    top,
		Right:  left + surface.Width,
		Bottom: top + surface.Height,
	}
}

// pinFrozenAxes shrinks the rectangle to the whole image along axes where the
// image fits on the surface.
func pinFrozenAxes(r ViewRect, image ImageDimensions, surface SurfaceDimensions) ViewRect {
	if image.Width <= surface.Width {
		r.Left, r.Right = 0, image.Width
	}
	if image.Height <= surface.Height {
		r.Top, r.Bottom = 0, image.Height
	}
	return r
}

// Ready reports whether the rectangle has been placed.
func (c *ViewportController) Ready() bool {
	return c.placed
}

// Image returns the image dimensions.
func (c *ViewportController) Image() ImageDimensions {
	return c.image
}

// Surface returns the last reported surface dimensions.
func (c *ViewportController) Surface() SurfaceDimensions {
	return c.surface
}

// Track returns the last recorded pointer position.
func (c *ViewportController) Track() PointerTrack {
	return c.track
}

// CurrentRect returns a copy of the visible rectangle. ok is false until the
// rectangle has been placed.
func (c *ViewportController) CurrentRect() (rect ViewRect, ok bool) {
	return c.rect, c.placed
}

// CanPanX reports whether horizontal panning has any effect.
func (c *ViewportController) CanPanX() bool {
	return c.placed && c.image.Width > c.surface.Width
}

// CanPanY reports whether vertical panning has any effect.
func (c *ViewportController) CanPanY() bool {
	return c.placed && c.image.Height > c.surface.Height
}

// TakeRedraw reports whether the rectangle changed since the last call and
// clears the flag.
func (c *ViewportController) TakeRedraw() bool {
	d := c.dirty
	c.dirty = false
	return d
}

// MarkDirty forces the next TakeRedraw to report true.
func (c *ViewportController) MarkDirty() {
	if c.placed {
		c.dirty = true
	}
}

// OnPress records the pointer position that the next delta is measured
// from. It also stops a running scroll animation. The rectangle is not
// changed.
func (c *ViewportController) OnPress(x, y int) {
	if !c.placed {
		return
	}
	c.scroll = nil
	c.track = PointerTrack{LastX: x, LastY: y}
}

// OnLongPress behaves like OnPress.
func (c *ViewportController) OnLongPress(x, y int) {
	c.OnPress(x, y)
}

// OnPanDelta moves the rectangle opposite to the pointer movement since the
// last recorded position, so the image follows the finger. It reports
// whether the rectangle moved.
func (c *ViewportController) OnPanDelta(x, y int) bool {
	return c.move(x, y)
}

// OnFlingDelta applies the final sample of a fling. It is handled exactly
// like a pan sample; there is no inertial motion.
func (c *ViewportController) OnFlingDelta(x, y int) bool {
	return c.move(x, y)
}

// move turns an absolute pointer position into a delta, offsets the
// rectangle by its negation and records the position, whether or not the
// rectangle moved.
func (c *ViewportController) move(x, y int) bool {
	if !c.placed {
		return false
	}
	dx := x - c.track.LastX
	dy := y - c.track.LastY
	moved := c.offset(-dx, -dy)
	c.track = PointerTrack{LastX: x, LastY: y}
	return moved
}

// PanBy moves the rectangle by (dx, dy) image pixels, e.g. for keyboard
// panning. The pointer track is not touched. It reports whether the
// rectangle moved.
func (c *ViewportController) PanBy(dx, dy int) bool {
	if !c.placed {
		return false
	}
	c.scroll = nil
	return c.offset(dx, dy)
}

// Recenter returns the rectangle to its centered placement.
func (c *ViewportController) Recenter() bool {
	if !c.placed {
		return false
	}
	c.scroll = nil
	return c.setRect(c.home)
}

// offset shifts the rectangle by (ox, oy) along each axis where the image
// is larger than the surface, then pins it against the image edges. The
// right (bottom) edge is pinned before the left (top) edge so that the
// rectangle keeps the surface size and ends up valid on both sides. Axes
// where the image fits on the surface are frozen.
func (c *ViewportController) offset(ox, oy int) bool {
	r := c.rect
	iw, ih := c.image.Width, c.image.Height
	sw, sh := c.surface.Width, c.surface.Height

	if iw > sw {
		r.Left += ox
		r.Right += ox
		if r.Right > iw {
			r.Right = iw
			r.Left = iw - sw
		}
		if r.Left < 0 {
			r.Left = 0
			r.Right = sw
		}
	}

	if ih > sh {
		r.Top += oy
		r.Bottom += oy
		if r.Bottom > ih {
			r.Bottom = ih
			r.Top = ih - sh
		}
		if r.Top < 0 {
			r.Top = 0
			r.Bottom = sh
		}
	}

	return c.setRect(r)
}

func (c *ViewportController) setRect(r ViewRect) bool {
	if r == c.rect {
		return false
	}
	c.rect = r
	c.dirty = true
	return true
}

package largeview

import (
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	defaultDragDeadZone     = 4.0   // pixels
	defaultMinFlingVelocity = 400.0 // pixels per second
	defaultLongPressDelay   = 0.5   // seconds
	velocitySmoothing       = 0.5   // weight of the newest sample
)

// GestureListener receives the gestures of a single active pointer. The
// coordinates are absolute surface positions. ViewportController
// implements it.
type GestureListener interface {
	OnPress(x, y int)
	OnPanDelta(x, y int) bool
	OnFlingDelta(x, y int) bool
}

// LongPressListener is implemented by listeners that want long presses.
type LongPressListener interface {
	OnLongPress(x, y int)
}

// GestureOptions configures a GestureTracker. Zero values select defaults.
type GestureOptions struct {
	// DragDeadZone is the distance in pixels the pointer must travel from
	// the press point before pan events start.
	DragDeadZone float64
	// MinFlingVelocity is the release speed in pixels per second at or
	// above which a drag ends in a fling.
	MinFlingVelocity float64
	// LongPressDelay is how long in seconds a pointer must be held without
	// dragging to count as a long press. Negative disables long presses.
	LongPressDelay float64
	Logger         *slog.Logger
}

// --- Per-pointer state ---

type pointerState struct {
	down        bool
	startX      int
	startY      int
	lastX       int
	lastY       int
	dragging    bool
	longPressed bool
	held        float64 // seconds since press
	vx, vy      float64 // smoothed velocity, pixels per second
}

// --- Listener registry ---

type listenerEntry struct {
	id uint32
	l  GestureListener
}

// ListenerHandle allows removing a registered listener.
type ListenerHandle struct {
	id uint32
	t  *GestureTracker
}

// Remove unregisters the listener so it no longer receives gestures.
func (h ListenerHandle) Remove() {
	if h.t == nil {
		return
	}
	s := h.t.listeners
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = listenerEntry{}
			h.t.listeners = s[:len(s)-1]
			return
		}
	}
}

// syntheticPointerEvent is a queued pointer sample in surface coordinates.
type syntheticPointerEvent struct {
	x, y    int
	pressed bool
}

// GestureTracker turns raw pointer samples into press, pan and fling
// gestures for a single pointer. The mouse takes priority over touch; of
// several touches only the first one is followed until it lifts.
type GestureTracker struct {
	opts      GestureOptions
	logger    *slog.Logger
	listeners []listenerEntry
	nextID    uint32

	ptr pointerState

	injectQueue []syntheticPointerEvent

	touchIDs    []ebiten.TouchID
	activeTouch ebiten.TouchID
	touchActive bool
}

// NewGestureTracker creates a tracker with the given options.
func NewGestureTracker(opts GestureOptions) *GestureTracker {
	if opts.DragDeadZone <= 0 {
		opts.DragDeadZone = defaultDragDeadZone
	}
	if opts.MinFlingVelocity <= 0 {
		opts.MinFlingVelocity = defaultMinFlingVelocity
	}
	if opts.LongPressDelay == 0 {
		opts.LongPressDelay = defaultLongPressDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &GestureTracker{opts: opts, logger: logger}
}

// AddListener registers l to receive gestures.
func (t *GestureTracker) AddListener(l GestureListener) ListenerHandle {
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, listenerEntry{id: id, l: l})
	return ListenerHandle{id: id, t: t}
}

// Dragging reports whether the pointer is down and past the dead zone.
func (t *GestureTracker) Dragging() bool {
	return t.ptr.down && t.ptr.dragging
}

// --- Input processing ---

// Poll feeds one frame of input through the tracker. A queued synthetic
// event, if any, is consumed instead of real input.
func (t *GestureTracker) Poll(dt float64) {
	if t.processInjected(dt) {
		return
	}
	x, y, pressed := t.readPointer()
	t.Sample(x, y, pressed, dt)
}

// readPointer reads the mouse, then the followed touch, from Ebitengine.
func (t *GestureTracker) readPointer() (x, y int, pressed bool) {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		t.touchActive = false
		x, y = ebiten.CursorPosition()
		return x, y, true
	}

	t.touchIDs = ebiten.AppendTouchIDs(t.touchIDs[:0])
	if t.touchActive {
		for _, id := range t.touchIDs {
			if id == t.activeTouch {
				x, y = ebiten.TouchPosition(id)
				return x, y, true
			}
		}
		// Followed touch lifted: release where it was last seen.
		t.touchActive = false
		return t.ptr.lastX, t.ptr.lastY, false
	}
	if len(t.touchIDs) > 0 {
		t.activeTouch = t.touchIDs[0]
		t.touchActive = true
		x, y = ebiten.TouchPosition(t.activeTouch)
		return x, y, true
	}

	x, y = ebiten.CursorPosition()
	return x, y, false
}

// Sample runs the pointer state machine for one sample taken dt seconds
// after the previous one.
func (t *GestureTracker) Sample(x, y int, pressed bool, dt float64) {
	ps := &t.ptr

	switch {
	case pressed && !ps.down:
		*ps = pointerState{
			down:   true,
			startX: x,
			startY: y,
			lastX:  x,
			lastY:  y,
		}
		t.firePress(x, y)

	case pressed && ps.down:
		ps.held += dt
		t.trackVelocity(x-ps.lastX, y-ps.lastY, dt)
		if x != ps.lastX || y != ps.lastY {
			if !ps.dragging {
				dx := float64(x - ps.startX)
				dy := float64(y - ps.startY)
				if math.Sqrt(dx*dx+dy*dy) > t.opts.DragDeadZone {
					ps.dragging = true
				}
			}
			if ps.dragging {
				t.firePan(x, y)
			}
			ps.lastX = x
			ps.lastY = y
		}
		if !ps.dragging && !ps.longPressed && t.opts.LongPressDelay > 0 && ps.held >= t.opts.LongPressDelay {
			ps.longPressed = true
			t.fireLongPress(x, y)
		}

	case !pressed && ps.down:
		if ps.dragging {
			speed := math.Hypot(ps.vx, ps.vy)
			if speed >= t.opts.MinFlingVelocity {
				t.logger.Debug("fling", "x", x, "y", y, "vx", ps.vx, "vy", ps.vy)
				t.fireFling(x, y)
			}
		}
		ps.down = false
		ps.dragging = false
		ps.lastX = x
		ps.lastY = y
	}
}

// trackVelocity blends the latest movement into the smoothed velocity.
func (t *GestureTracker) trackVelocity(dx, dy int, dt float64) {
	if dt <= 0 {
		return
	}
	ps := &t.ptr
	ps.vx += (float64(dx)/dt - ps.vx) * velocitySmoothing
	ps.vy += (float64(dy)/dt - ps.vy) * velocitySmoothing
}

// --- Event dispatch ---

func (t *GestureTracker) firePress(x, y int) {
	for _, e := range t.listeners {
		e.l.OnPress(x, y)
	}
}

func (t *GestureTracker) firePan(x, y int) {
	for _, e := range t.listeners {
		e.l.OnPanDelta(x, y)
	}
}

func (t *GestureTracker) fireFling(x, y int) {
	for _, e := range t.listeners {
		e.l.OnFlingDelta(x, y)
	}
}

func (t *GestureTracker) fireLongPress(x, y int) {
	for _, e := range t.listeners {
		if lp, ok := e.l.(LongPressListener); ok {
			lp.OnLongPress(x, y)
		}
	}
}

// --- Synthetic input ---

// InjectPress queues a pointer press at (x, y). Each queued event is
// consumed by one Poll call.
func (t *GestureTracker) InjectPress(x, y int) {
	t.injectQueue = append(t.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a held-pointer sample at (x, y).
func (t *GestureTracker) InjectMove(x, y int) {
	t.injectQueue = append(t.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a pointer release at (x, y).
func (t *GestureTracker) InjectRelease(x, y int) {
	t.injectQueue = append(t.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves
// and a release at (toX, toY). The sequence spans frames polls, minimum 2.
// The last move lands on (toX, toY) so the release adds no movement.
func (t *GestureTracker) InjectDrag(fromX, fromY, toX, toY, frames int) {
	if frames < 2 {
		frames = 2
	}
	t.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		x := fromX + int(math.Round(float64(toX-fromX)*f))
		y := fromY + int(math.Round(float64(toY-fromY)*f))
		t.InjectMove(x, y)
	}
	t.InjectRelease(toX, toY)
}

// Pending returns the number of queued synthetic events.
func (t *GestureTracker) Pending() int {
	return len(t.injectQueue)
}

// processInjected pops one synthetic event and feeds it through Sample.
// It reports whether an event was consumed.
func (t *GestureTracker) processInjected(dt float64) bool {
	if len(t.injectQueue) == 0 {
		return false
	}
	evt := t.injectQueue[0]
	copy(t.injectQueue, t.injectQueue[1:])
	t.injectQueue = t.injectQueue[:len(t.injectQueue)-1]

	t.Sample(evt.x, evt.y, evt.pressed, dt)
	return true
}

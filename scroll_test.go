package largeview

import (
	"testing"

	"github.com/tanema/gween/ease"
)

// runScroll advances the animation until it finishes and returns the lefts
// seen along the way.
func runScroll(t *testing.T, c *ViewportController, dt float32) []int {
	t.Helper()
	var lefts []int
	for i := 0; c.Scrolling(); i++ {
		if i > 1000 {
			t.Fatal("scroll did not finish")
		}
		c.Update(dt)
		r, _ := c.CurrentRect()
		lefts = append(lefts, r.Left)
	}
	return lefts
}

func TestScrollToReachesTarget(t *testing.T) {
	c := newPlacedController(4000, 3000, 1000, 800, ControllerOptions{})
	if !c.ScrollTo(2500, 100, 1, nil) {
		t.Fatal("ScrollTo returned false")
	}
	if !c.Scrolling() {
		t.Fatal("Scrolling() = false after ScrollTo")
	}
	lefts := runScroll(t, c, 0.1)
	for i := 1; i < len(lefts); i++ {
		if lefts[i] < lefts[i-1] {
			t.Errorf("left went backwards: %v", lefts)
			break
		}
	}
	if got, want := mustRect(t, c), (ViewRect{2500, 100, 3500, 900}); got != want {
		t.Errorf("rect = %v, want %v", got, want)
	}
}

func TestScrollToClampsTarget(t *testing.T) {
	c := newPlacedController(4000, 3000, 1000, 800, ControllerOptions{})
	c.ScrollTo(99999, -50, 0.5, ease.Linear)
	runScroll(t, c, 0.1)
	if got, want := mustRect(t, c), (ViewRect{3000, 0, 4000, 800}); got != want {
		t.Errorf("rect = %v, want %v", got, want)
	}
}

func TestScrollToImmediate(t *testing.T) {
	c := newPlacedController(4000, 3000, 1000, 800, ControllerOptions{})
	c.TakeRedraw()
	if !c.ScrollTo(0, 0, 0, nil) {
		t.Error("immediate ScrollTo should report a move")
	}
	if c.Scrolling() {
		t.Error("immediate ScrollTo should not animate")
	}
	if got := mustRect(t, c); got.Left != 0 || got.Top != 0 {
		t.Errorf("origin = (%d,%d), want (0,0)", got.Left, got.Top)
	}
	if !c.TakeRedraw() {
		t.Error("immediate ScrollTo should request a redraw")
	}
}

func TestScrollHome(t *testing.T) {
	c := newPlacedController(4000, 3000, 1000, 800, ControllerOptions{})
	home := mustRect(t, c)
	c.PanBy(-1000, 700)
	c.ScrollHome(0.3, nil)
	runScroll(t, c, 1.0/60)
	if got := mustRect(t, c); got != home {
		t.Errorf("rect = %v, want %v", got, home)
	}
}

func TestScrollCancelledByPress(t *testing.T) {
	c := newPlacedController(4000, 3000, 1000, 800, ControllerOptions{})
	c.ScrollTo(0, 0, 1, nil)
	c.Update(0.1)
	mid := mustRect(t, c)
	c.OnPress(10, 10)
	if c.Scrolling() {
		t.Fatal("press should cancel the scroll")
	}
	if c.Update(0.1) {
		t.Error("Update after cancel should not move")
	}
	if got := mustRect(t, c); got != mid {
		t.Errorf("rect = %v, want %v", got, mid)
	}
}

func TestScrollFrozenAxes(t *testing.T) {
	c := newPlacedController(500, 500, 1000, 800, ControllerOptions{})
	want := mustRect(t, c)
	c.ScrollTo(0, 0, 0.2, nil)
	runScroll(t, c, 0.05)
	if got := mustRect(t, c); got != want {
		t.Errorf("rect = %v, want %v", got, want)
	}
}

func TestScrollBeforeLayout(t *testing.T) {
	c := NewViewportController(ImageDimensions{Width: 4000, Height: 3000}, ControllerOptions{})
	if c.ScrollTo(0, 0, 1, nil) || c.ScrollHome(1, nil) {
		t.Error("scroll before layout should be ignored")
	}
	if c.Update(0.1) {
		t.Error("Update without a scroll should report no move")
	}
}

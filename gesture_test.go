package largeview

import (
	"fmt"
	"testing"
)

type recordingListener struct {
	events []string
}

func (r *recordingListener) OnPress(x, y int) {
	r.events = append(r.events, fmt.Sprintf("press %d,%d", x, y))
}

func (r *recordingListener) OnPanDelta(x, y int) bool {
	r.events = append(r.events, fmt.Sprintf("pan %d,%d", x, y))
	return true
}

func (r *recordingListener) OnFlingDelta(x, y int) bool {
	r.events = append(r.events, fmt.Sprintf("fling %d,%d", x, y))
	return true
}

type longPressRecorder struct {
	recordingListener
}

func (r *longPressRecorder) OnLongPress(x, y int) {
	r.events = append(r.events, fmt.Sprintf("long %d,%d", x, y))
}

func equalEvents(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

const frame = 1.0 / 60

func TestGestureDeadZone(t *testing.T) {
	tr := NewGestureTracker(GestureOptions{})
	rec := &recordingListener{}
	tr.AddListener(rec)

	tr.Sample(100, 100, true, frame)
	tr.Sample(102, 101, true, frame)
	tr.Sample(103, 100, true, frame)
	if tr.Dragging() {
		t.Error("Dragging() = true inside the dead zone")
	}
	tr.Sample(110, 100, true, frame)
	if !tr.Dragging() {
		t.Error("Dragging() = false past the dead zone")
	}
	tr.Sample(110, 100, true, frame)
	tr.Sample(120, 90, true, frame)

	want := []string{"press 100,100", "pan 110,100", "pan 120,90"}
	if !equalEvents(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestGestureFling(t *testing.T) {
	tests := []struct {
		name      string
		moves     [][2]int
		dt        float64
		wantFling bool
	}{
		{"fast release", [][2]int{{50, 0}, {100, 0}}, frame, true},
		{"slow release", [][2]int{{10, 0}, {20, 0}, {20, 0}, {20, 0}}, 1, false},
		{"never dragged", [][2]int{{1, 1}}, frame, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewGestureTracker(GestureOptions{})
			rec := &recordingListener{}
			tr.AddListener(rec)
			tr.Sample(0, 0, true, tt.dt)
			last := [2]int{}
			for _, m := range tt.moves {
				tr.Sample(m[0], m[1], true, tt.dt)
				last = m
			}
			tr.Sample(last[0], last[1], false, tt.dt)

			got := len(rec.events) > 0 && rec.events[len(rec.events)-1] == fmt.Sprintf("fling %d,%d", last[0], last[1])
			if got != tt.wantFling {
				t.Errorf("fling = %v, want %v (events %v)", got, tt.wantFling, rec.events)
			}
			if tr.Dragging() {
				t.Error("Dragging() = true after release")
			}
		})
	}
}

func TestGestureLongPress(t *testing.T) {
	tr := NewGestureTracker(GestureOptions{LongPressDelay: 0.5})
	rec := &longPressRecorder{}
	tr.AddListener(rec)

	tr.Sample(30, 40, true, frame)
	tr.Sample(30, 40, true, 0.3)
	tr.Sample(31, 40, true, 0.3)
	tr.Sample(31, 40, true, 0.3)
	tr.Sample(31, 40, false, frame)

	want := []string{"press 30,40", "long 31,40"}
	if !equalEvents(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestGestureLongPressDisabled(t *testing.T) {
	tr := NewGestureTracker(GestureOptions{LongPressDelay: -1})
	rec := &longPressRecorder{}
	tr.AddListener(rec)
	tr.Sample(0, 0, true, frame)
	tr.Sample(0, 0, true, 5)
	if len(rec.events) != 1 {
		t.Errorf("events = %v, want only the press", rec.events)
	}
}

func TestGestureNoLongPressWhileDragging(t *testing.T) {
	tr := NewGestureTracker(GestureOptions{})
	rec := &longPressRecorder{}
	tr.AddListener(rec)
	tr.Sample(0, 0, true, frame)
	tr.Sample(50, 0, true, 1)
	tr.Sample(50, 0, true, 1)
	for _, e := range rec.events {
		if e[:4] == "long" {
			t.Errorf("unexpected long press in %v", rec.events)
		}
	}
}

func TestListenerRemove(t *testing.T) {
	tr := NewGestureTracker(GestureOptions{})
	a := &recordingListener{}
	b := &recordingListener{}
	ha := tr.AddListener(a)
	tr.AddListener(b)

	ha.Remove()
	ha.Remove()
	tr.Sample(5, 5, true, frame)

	if len(a.events) != 0 {
		t.Errorf("removed listener got %v", a.events)
	}
	if len(b.events) != 1 {
		t.Errorf("remaining listener got %v, want 1 event", b.events)
	}
	ListenerHandle{}.Remove()
}

func TestInjectDrag(t *testing.T) {
	tr := NewGestureTracker(GestureOptions{})
	rec := &recordingListener{}
	tr.AddListener(rec)

	tr.InjectDrag(0, 0, 100, 0, 6)
	if got := tr.Pending(); got != 6 {
		t.Fatalf("Pending() = %d, want 6", got)
	}
	for tr.Pending() > 0 {
		if !tr.processInjected(frame) {
			t.Fatal("processInjected returned false with events queued")
		}
	}
	if tr.processInjected(frame) {
		t.Error("processInjected returned true on an empty queue")
	}

	want := []string{"press 0,0", "pan 25,0", "pan 50,0", "pan 75,0", "pan 100,0", "fling 100,0"}
	if !equalEvents(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	tr := NewGestureTracker(GestureOptions{})
	tr.InjectDrag(0, 0, 10, 10, 0)
	if got := tr.Pending(); got != 2 {
		t.Errorf("Pending() = %d, want 2", got)
	}
}

func TestGestureDrivesController(t *testing.T) {
	c := newPlacedController(4000, 3000, 1000, 800, ControllerOptions{})
	tr := NewGestureTracker(GestureOptions{})
	tr.AddListener(c)

	tr.InjectPress(500, 500)
	tr.InjectMove(450, 500)
	tr.InjectMove(400, 500)
	tr.InjectRelease(400, 500)
	for tr.Pending() > 0 {
		tr.processInjected(frame)
	}
	if got, want := mustRect(t, c), (ViewRect{1600, 1100, 2600, 1900}); got != want {
		t.Errorf("rect = %v, want %v", got, want)
	}
}

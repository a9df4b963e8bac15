package largeview

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "drag", "fromX": 60, "fromY": 40, "toX": 20, "toY": 40, "frames": 4},
			{"action": "wait", "frames": 3},
			{"action": "expect", "left": 90, "top": 35}
		]
	}`)
	r, err := LoadScript(data)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if len(r.steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(r.steps))
	}
	if st := r.steps[1]; st.Action != "drag" || st.FromX != 60 || st.ToX != 20 || st.Frames != 4 {
		t.Errorf("step 1 = %+v", st)
	}
	if st := r.steps[3]; st.Left != 90 || st.Top != 35 {
		t.Errorf("step 3 = %+v", st)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `not json`},
		{"no steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "click"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	if err := os.WriteFile(path, []byte(`{"steps": [{"action": "home"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScriptFile(path); err != nil {
		t.Errorf("LoadScriptFile: %v", err)
	}
	if _, err := LoadScriptFile(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func runScript(t *testing.T, v *Viewer, r *ScriptRunner) {
	t.Helper()
	v.SetScript(r, false)
	for i := 0; !r.Done(); i++ {
		if i > 500 {
			t.Fatal("script did not finish")
		}
		simFrame(v)
	}
}

func TestScriptDragAndExpect(t *testing.T) {
	v := newTestViewer(t, 200, 150)
	v.Layout(100, 80)

	r, err := LoadScript([]byte(`{"steps": [
		{"action": "expect", "left": 50, "top": 35},
		{"action": "drag", "fromX": 60, "fromY": 40, "toX": 20, "toY": 40, "frames": 4},
		{"action": "expect", "label": "after drag", "left": 90, "top": 35},
		{"action": "pan", "x": 500, "y": 500},
		{"action": "expect", "left": 100, "top": 70},
		{"action": "recenter"},
		{"action": "expect", "left": 50, "top": 35}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, v, r)
	if f := r.Failures(); len(f) != 0 {
		t.Errorf("failures = %v", f)
	}
	if fr, _ := v.Renderer().Frame(); fr.Rect != (ViewRect{50, 35, 150, 115}) {
		t.Errorf("last frame rect = %v", fr.Rect)
	}
}

func TestScriptExpectFailure(t *testing.T) {
	v := newTestViewer(t, 200, 150)
	v.Layout(100, 80)
	r, err := LoadScript([]byte(`{"steps": [{"action": "expect", "label": "wrong", "left": 1, "top": 2}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, v, r)
	f := r.Failures()
	if len(f) != 1 || f[0] != "wrong: origin = (50,35), want (1,2)" {
		t.Errorf("failures = %q", f)
	}
}

func TestScriptFlingAndHome(t *testing.T) {
	v := newTestViewer(t, 200, 150)
	v.Layout(100, 80)
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "fling", "fromX": 80, "fromY": 60, "toX": 10, "toY": 10},
		{"action": "expect", "left": 100, "top": 70},
		{"action": "home"},
		{"action": "wait", "frames": 60},
		{"action": "expect", "left": 50, "top": 35}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, v, r)
	if f := r.Failures(); len(f) != 0 {
		t.Errorf("failures = %v", f)
	}
}

func TestScriptWaitAndScreenshot(t *testing.T) {
	v := newTestViewer(t, 50, 50)
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "wait", "frames": 5},
		{"action": "screenshot", "label": "done"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	v.SetScript(r, false)
	frames := 0
	for !r.Done() && frames < 100 {
		simFrame(v)
		frames++
	}
	if frames != 6 {
		t.Errorf("script took %d frames, want 6", frames)
	}
	if len(v.screenshotQueue) != 1 || v.screenshotQueue[0] != "done" {
		t.Errorf("queue = %v, want [done]", v.screenshotQueue)
	}
}

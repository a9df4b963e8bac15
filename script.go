package largeview

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// scriptStep is a single action in a gesture script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	FromX  int    `json:"fromX,omitempty"`
	FromY  int    `json:"fromY,omitempty"`
	ToX    int    `json:"toX,omitempty"`
	ToY    int    `json:"toY,omitempty"`
	Frames int    `json:"frames,omitempty"`
	// Left and Top are the expected rectangle origin for "expect".
	Left int `json:"left,omitempty"`
	Top  int `json:"top,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"press": true, "move": true, "release": true, "drag": true, "fling": true,
	"pan": true, "home": true, "recenter": true, "wait": true,
	"screenshot": true, "expect": true,
}

// ScriptRunner plays a gesture script through a Viewer, one step per frame.
// Synthetic pointer events are drained before the next step runs.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	failures  []string
}

// LoadScript parses a JSON gesture script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// LoadScriptFile reads and parses the script at path.
func LoadScriptFile(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadScript(data)
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Failures returns a description of every "expect" step that did not match.
func (r *ScriptRunner) Failures() []string {
	return r.failures
}

// step advances the script by one frame. Called from Viewer.Update before
// the gesture tracker is polled.
func (r *ScriptRunner) step(v *Viewer) {
	if r.done {
		return
	}
	g := v.gestures
	if g.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		g.InjectPress(st.X, st.Y)
	case "move":
		g.InjectMove(st.X, st.Y)
	case "release":
		g.InjectRelease(st.X, st.Y)
	case "drag":
		g.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "fling":
		// One move covers the whole distance so the release is fast
		// enough to fling.
		g.InjectPress(st.FromX, st.FromY)
		g.InjectMove(st.ToX, st.ToY)
		g.InjectRelease(st.ToX, st.ToY)
	case "pan":
		v.ctrl.PanBy(st.X, st.Y)
	case "home":
		v.ctrl.ScrollHome(v.cfg.ScrollDuration, nil)
	case "recenter":
		v.ctrl.Recenter()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	case "screenshot":
		v.Screenshot(st.Label)
	case "expect":
		r.expect(v, st)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && g.Pending() == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) expect(v *Viewer, st scriptStep) {
	rect, ok := v.ctrl.CurrentRect()
	if !ok {
		r.fail(v, st, "viewport not placed")
		return
	}
	if rect.Left != st.Left || rect.Top != st.Top {
		r.fail(v, st, fmt.Sprintf("origin = (%d,%d), want (%d,%d)", rect.Left, rect.Top, st.Left, st.Top))
	}
}

func (r *ScriptRunner) fail(v *Viewer, st scriptStep, msg string) {
	if st.Label != "" {
		msg = st.Label + ": " + msg
	}
	r.failures = append(r.failures, msg)
	v.logger.Warn("script expectation failed", "step", r.cursor-1, "msg", msg)
}

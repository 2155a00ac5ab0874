package databar

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Button string  `json:"button,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var buttonNames = map[string]Buttons{
	"left":    ButtonLeft,
	"right":   ButtonRight,
	"middle":  ButtonMiddle,
	"back":    ButtonBack,
	"forward": ButtonForward,
}

var modesByName = map[string]ToolMode{
	ModeSelection.String(): ModeSelection,
	ModeClick.String():     ModeClick,
	ModePour.String():      ModePour,
}

// TestRunner sequences injected input events and screenshots across frames
// for scripted interaction tests. Attach to a Session via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready to
// be attached to a Session via SetTestRunner.
//
// Supported actions: click, press, move, hover, release, drag, wheel,
// button, mode, reset-zoom, wait and screenshot.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "button":
			if _, ok := buttonNames[st.Button]; !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown button %q", i, st.Button)
			}
		case "mode":
			if _, ok := modesByName[st.Mode]; !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown mode %q", i, st.Mode)
			}
		case "click", "press", "move", "hover", "release", "drag", "wheel",
			"reset-zoom", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the session. The runner's step
// method is called from Session.Update before input processing each frame.
func (s *Session) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Session.Update.
func (r *TestRunner) step(s *Session) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
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
	case "screenshot":
		s.Screenshot(st.Label)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "press":
		s.InjectPress(st.X, st.Y)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "hover":
		s.InjectHover(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		s.InjectWheel(st.X, st.Y, st.Delta)
	case "button":
		s.InjectButton(st.X, st.Y, buttonNames[st.Button])
	case "mode":
		s.mode.Update(modesByName[st.Mode])
	case "reset-zoom":
		s.ResetZoom()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

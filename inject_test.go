package databar

import "testing"

// gestureLog records the gestures pointerState recognizes.
type gestureLog struct {
	events []string
	drags  []float64
}

func (g *gestureLog) onPointerDown(_, _ float64, _ Buttons) { g.events = append(g.events, "down") }
func (g *gestureLog) onPointerUp(_, _ float64, _ Buttons)   { g.events = append(g.events, "up") }
func (g *gestureLog) onPointerMove(_, _ float64)            { g.events = append(g.events, "move") }
func (g *gestureLog) onPointerLeave()                       { g.events = append(g.events, "leave") }
func (g *gestureLog) onClick(_, _ float64)                  { g.events = append(g.events, "click") }
func (g *gestureLog) onDragStart(_, _, _, _ float64)        { g.events = append(g.events, "dragstart") }
func (g *gestureLog) onDragEnd(_, _ float64)                { g.events = append(g.events, "dragend") }
func (g *gestureLog) onWheel(_, _, _ float64)               { g.events = append(g.events, "wheel") }
func (g *gestureLog) onDrag(_, _, dx, _ float64) {
	g.events = append(g.events, "drag")
	g.drags = append(g.drags, dx)
}

func TestInjectClickQueuesTwoFrames(t *testing.T) {
	s := newTestSession(nil, nil)
	s.Mode().Update(ModeClick)

	s.InjectClick(scr(500, 100))
	if s.Pending() != 2 {
		t.Fatalf("expected 2 queued events, got %d", s.Pending())
	}

	// Frame 1: press
	s.processInput()
	if s.Pending() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", s.Pending())
	}
	if s.Stream().Len() != 0 {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release, click fires
	s.processInput()
	if s.Pending() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", s.Pending())
	}
	if s.Stream().Len() != 1 {
		t.Error("click should fire on release frame")
	}
}

func TestInjectDragQueue(t *testing.T) {
	s := newTestSession(nil, nil)
	s.InjectDrag(10, 10, 200, 200, 5)
	if s.Pending() != 5 {
		t.Fatalf("expected 5 queued events, got %d", s.Pending())
	}
	s.InjectDrag(10, 10, 200, 200, 0)
	if s.Pending() != 7 {
		t.Errorf("short drag should queue press and release, pending = %d", s.Pending())
	}
}

func TestPointerDragSequence(t *testing.T) {
	ps := newPointerState(Frame{Width: 400, Height: 400}, 4)
	log := &gestureLog{}

	// Drag from (10,10) to (200,10) over 5 frames.
	ps.process(PointerInput{X: 10, Y: 10, Buttons: ButtonLeft, Inside: true}, log)
	for _, x := range []float64{57.5, 105, 152.5} {
		ps.process(PointerInput{X: x, Y: 10, Buttons: ButtonLeft, Inside: true}, log)
	}
	ps.process(PointerInput{X: 200, Y: 10, Inside: true}, log)

	want := []string{"down", "dragstart", "drag", "drag", "drag", "drag", "dragend", "up"}
	if len(log.events) != len(want) {
		t.Fatalf("events = %v, want %v", log.events, want)
	}
	for i := range want {
		if log.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", log.events, want)
		}
	}
	var total float64
	for _, dx := range log.drags {
		total += dx
	}
	if total != 190 {
		t.Errorf("summed drag dx = %v, want 190", total)
	}
}

func TestPointerDeadZone(t *testing.T) {
	ps := newPointerState(Frame{Width: 400, Height: 400}, 4)
	log := &gestureLog{}

	ps.process(PointerInput{X: 10, Y: 10, Buttons: ButtonLeft, Inside: true}, log)
	ps.process(PointerInput{X: 12, Y: 12, Buttons: ButtonLeft, Inside: true}, log)
	ps.process(PointerInput{X: 12, Y: 12, Inside: true}, log)

	want := []string{"down", "click", "up"}
	if len(log.events) != len(want) {
		t.Fatalf("events = %v, want %v", log.events, want)
	}
	for i := range want {
		if log.events[i] != want[i] {
			t.Errorf("events = %v, want %v", log.events, want)
		}
	}
}

func TestPointerHoverWheelLeave(t *testing.T) {
	ps := newPointerState(Frame{Width: 400, Height: 400, Margin: Margin{Left: 20}}, 4)
	log := &gestureLog{}

	ps.process(PointerInput{X: 50, Y: 50, Inside: true}, log)
	ps.process(PointerInput{X: 50, Y: 50, Inside: true}, log)
	ps.process(PointerInput{X: 50, Y: 50, WheelY: 1, Inside: true}, log)
	ps.process(PointerInput{X: 50, Y: 50}, log)
	ps.process(PointerInput{X: 60, Y: 50}, log)

	want := []string{"move", "wheel", "leave"}
	if len(log.events) != len(want) {
		t.Fatalf("events = %v, want %v", log.events, want)
	}
	for i := range want {
		if log.events[i] != want[i] {
			t.Errorf("events = %v, want %v", log.events, want)
		}
	}
}

func TestInjectWheelAndLeave(t *testing.T) {
	s := newTestSession(nil, nil)
	s.InjectWheel(scr(500, 100), 5)
	s.InjectLeave()
	if s.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", s.Pending())
	}
	s.processInput()
	if k := s.Scales().Transform().K; k <= 1 {
		t.Errorf("wheel did not zoom: K = %v", k)
	}
	s.processInput()
	if s.Mouse().Cursor() != CursorNone {
		t.Error("leave did not reset the cursor")
	}
}

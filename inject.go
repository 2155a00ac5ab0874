package databar

// Injected events use screen coordinates, identical to real pointer input,
// and each one is consumed by one frame's Update in place of polling the
// InputSource.

func (s *Session) inject(in PointerInput) {
	in.Inside = true
	s.injectQueue = append(s.injectQueue, in)
}

// InjectPress queues a left-button press at the given screen coordinates.
func (s *Session) InjectPress(x, y float64) {
	s.inject(PointerInput{X: x, Y: y, Buttons: ButtonLeft})
}

// InjectMove queues a pointer move with the left button held down. Use it
// between InjectPress and InjectRelease to simulate a drag.
func (s *Session) InjectMove(x, y float64) {
	s.inject(PointerInput{X: x, Y: y, Buttons: ButtonLeft})
}

// InjectHover queues a pointer move with no buttons held.
func (s *Session) InjectHover(x, y float64) {
	s.inject(PointerInput{X: x, Y: y})
}

// InjectRelease queues a release of all buttons at the given screen
// coordinates.
func (s *Session) InjectRelease(x, y float64) {
	s.inject(PointerInput{X: x, Y: y})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (s *Session) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and release at
// (toX, toY). The whole sequence consumes frames frames, minimum 2.
func (s *Session) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel step of delta units at the given screen
// coordinates. Positive delta zooms in.
func (s *Session) InjectWheel(x, y, delta float64) {
	s.inject(PointerInput{X: x, Y: y, WheelY: delta})
}

// InjectButton queues a press and release of the given buttons, e.g.
// ButtonMiddle to cycle the tool mode. Consumes two frames.
func (s *Session) InjectButton(x, y float64, b Buttons) {
	s.inject(PointerInput{X: x, Y: y, Buttons: b})
	s.inject(PointerInput{X: x, Y: y})
}

// InjectLeave queues the pointer leaving the window.
func (s *Session) InjectLeave() {
	s.injectQueue = append(s.injectQueue, PointerInput{Inside: false})
}

// Pending returns the number of queued injected events.
func (s *Session) Pending() int { return len(s.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it
// through the pointer state machine. Returns true if an event was consumed
// and real input should be skipped.
func (s *Session) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	s.pointer.process(evt, s)
	return true
}

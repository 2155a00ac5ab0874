package databar

// MouseBehavior interprets hover, button and click input according to the
// current ToolMode: it picks the cursor glyph, shows the ghost preview,
// creates or relabels labels on click and starts/stops pouring.
type MouseBehavior struct {
	frame    Frame
	labeller *Labeller
	scales   *Scales
	mode     *ModeTracker
	pour     *PourBehavior
	renderer Renderer
	labels   LabelRenderer

	cursor Cursor
	x, y   float64
	region Region
	hover  Hit
}

// NewMouseBehavior wires a mouse behavior. pour may be nil.
func NewMouseBehavior(frame Frame, labeller *Labeller, scales *Scales, mode *ModeTracker, pour *PourBehavior, renderer Renderer) *MouseBehavior {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	return &MouseBehavior{
		frame:    frame,
		labeller: labeller,
		scales:   scales,
		mode:     mode,
		pour:     pour,
		renderer: renderer,
		labels:   asLabelRenderer(renderer),
	}
}

// Cursor returns the glyph chosen by the last Move.
func (m *MouseBehavior) Cursor() Cursor { return m.cursor }

// Region returns the region the pointer was last seen in.
func (m *MouseBehavior) Region() Region { return m.region }

// Hover returns what the pointer was last over.
func (m *MouseBehavior) Hover() Hit { return m.hover }

// Position returns the last frame-local pointer position.
func (m *MouseBehavior) Position() (float64, float64) { return m.x, m.y }

// Move updates the cursor glyph and ghost preview for a pointer at the
// frame-local point (x, y).
func (m *MouseBehavior) Move(x, y float64) {
	m.x, m.y = x, y
	m.region = m.frame.Region(x, y)
	m.hover = HitTest(m.labeller.Labels(), m.scales.X, m.frame.Height, x, y)
	overlaps := m.hover.OverLabel()

	m.cursor = customCursor(m.region, m.mode.Current(), overlaps)
	if m.cursor == CursorBrush {
		m.renderer.Clear(LayerGhost)
	}
	m.renderer.SetCursor(m.cursor, x, y)
	if !overlaps {
		m.drawGhost()
	}
}

// Refresh re-evaluates the cursor at the last known position.
func (m *MouseBehavior) Refresh() { m.Move(m.x, m.y) }

// Leave hides the cursor glyph and ghost.
func (m *MouseBehavior) Leave() {
	m.cursor = CursorNone
	m.hover = Hit{}
	m.renderer.SetCursor(CursorNone, m.x, m.y)
	m.renderer.Clear(LayerCursor | LayerGhost)
}

// Down dispatches newly pressed buttons. Extra buttons cycle the active
// label type, the middle button cycles the tool mode and the left button
// starts a pour in Pour mode.
func (m *MouseBehavior) Down(x, y float64, pressed Buttons) {
	logger().Debug("mouse down", "buttons", uint8(pressed), "x", x, "y", y)
	stream := m.labeller.Stream()
	if pressed.Has(ButtonForward) {
		stream.Cycle()
	}
	if pressed.Has(ButtonBack) {
		stream.CycleDown()
	}
	if pressed.Has(ButtonMiddle) {
		m.mode.Cycle()
		m.Move(x, y)
	}
	if pressed.Has(ButtonLeft) {
		m.leftDown(x, y)
	}
}

func (m *MouseBehavior) leftDown(x, y float64) {
	if m.pour == nil || !m.mode.Pour() {
		return
	}
	if m.frame.Region(x, y) != RegionFrame {
		return
	}
	if HitTest(m.labeller.Labels(), m.scales.X, m.frame.Height, x, y).OverLabel() {
		return
	}
	if err := m.pour.Start(x, m.labeller.Stream().EventType()); err != nil {
		logger().Warn("pour not started", "x", x, "err", err)
	}
}

// Up handles released buttons. Releasing the left button ends a pour.
func (m *MouseBehavior) Up(released Buttons) {
	if released.Has(ButtonLeft) && m.pour != nil && m.pour.Pouring() {
		m.pour.End()
	}
}

// Click handles a left click at the frame-local point (x, y) that did not
// turn into a drag.
func (m *MouseBehavior) Click(x, y float64) {
	if m.frame.Region(x, y) != RegionFrame {
		return
	}
	hit := HitTest(m.labeller.Labels(), m.scales.X, m.frame.Height, x, y)
	if hit.OverLabel() {
		m.labelClicked(hit.Label)
		return
	}
	m.labeller.Deselect()
	if m.mode.Click() {
		if _, err := m.labeller.Add(x, m.labeller.Stream().EventType(), m.labeller.FixedWidth); err != nil {
			logger().Warn("label not added", "x", x, "err", err)
		}
	}
	m.Move(x, y)
}

func (m *MouseBehavior) labelClicked(lbl *Label) {
	switch m.mode.Current() {
	case ModeSelection:
		m.labeller.Select(lbl)
	case ModeClick:
		m.labeller.ChangeLabel(lbl, m.labeller.Stream().EventType())
	}
}

func (m *MouseBehavior) drawGhost() {
	m.renderer.Clear(LayerGhost)
	if !m.mode.Click() || m.labels == nil || m.region != RegionFrame {
		return
	}
	start, end := m.labeller.Bounds(m.x, m.labeller.FixedWidth)
	if end > start {
		m.labels.SetGhost(start, end)
	}
}

// customCursor picks the glyph for a pointer in region under mode,
// depending on whether it is over a label.
func customCursor(region Region, mode ToolMode, overLabel bool) Cursor {
	if region != RegionFrame {
		return CursorNone
	}
	switch {
	case mode == ModeClick && !overLabel:
		return CursorPointer
	case mode == ModeClick && overLabel:
		return CursorBrush
	case mode == ModePour && !overLabel:
		return CursorWater
	}
	return CursorNone
}

package databar

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EventSink is the interface for optional ECS integration. When set on a
// Session, every LabelStream event is forwarded to it.
type EventSink interface {
	EmitEvent(event StreamEvent)
}

// SessionConfig configures a Session. Zero fields take defaults.
type SessionConfig struct {
	// Frame is the plot size and margins. Default 960x200 with
	// margins {10, 20, 30, 50}.
	Frame Frame
	// MinZoom and MaxZoom bound the zoom factor. Default 1 and 50.
	MinZoom, MaxZoom float64
	// DragDeadZone is the pointer travel in pixels before a press becomes a
	// drag. Default 4.
	DragDeadZone float64
	// LabelWidth is the pixel width of labels created by a click. Default 50.
	LabelWidth float64
	// ResetDuration is the zoom-reset animation length in seconds.
	// Default 0.5.
	ResetDuration float32
	// Pour tunes the pour simulation.
	Pour PourConfig
	// Input supplies pointer state. Default reads from ebiten.
	Input InputSource
	// Renderer draws the plot. Default discards everything.
	Renderer Renderer
	// ScreenshotDir is where Screenshot writes. Default "screenshots".
	ScreenshotDir string
}

func (c *SessionConfig) defaults() {
	if c.Frame.Width <= 0 || c.Frame.Height <= 0 {
		c.Frame = Frame{Width: 960, Height: 200, Margin: Margin{Top: 10, Right: 20, Bottom: 30, Left: 50}}
	}
	if c.MinZoom <= 0 {
		c.MinZoom = 1
	}
	if c.MaxZoom <= 0 {
		c.MaxZoom = 50
	}
	if c.DragDeadZone <= 0 {
		c.DragDeadZone = defaultDragDeadZone
	}
	if c.LabelWidth <= 0 {
		c.LabelWidth = DefaultLabelWidth
	}
	if c.ResetDuration <= 0 {
		c.ResetDuration = 0.5
	}
	if c.Input == nil {
		c.Input = ebitenInput{}
	}
	if c.Renderer == nil {
		c.Renderer = nopRenderer{}
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
}

// gesture is what an in-progress left-button drag is doing.
type gesture uint8

const (
	gestureNone gesture = iota
	gestureLabel
	gesturePan
	gestureHover
)

// View is the read-only state a renderer draws from.
type View struct {
	Frame    Frame
	X        Scale
	Labels   []*Label
	EventMap *EventMap
	Current  TypeKey
	Mode     ToolMode
	Channels [][]float64
	Pointer  Vec2
	Region   Region
	Hover    Hit
}

// frameUpdater is implemented by renderers that animate between frames.
type frameUpdater interface {
	Update(dt float32)
}

// screenDrawer is implemented by renderers that draw onto an ebiten screen.
type screenDrawer interface {
	Draw(screen *ebiten.Image, v *View)
}

// Session is the top-level object of one labeling surface: it owns the
// label stream, shared scales, tool mode and behaviors, and routes pointer
// input to them each frame.
type Session struct {
	cfg      SessionConfig
	frame    Frame
	scales   *Scales
	stream   *LabelStream
	labeller *Labeller
	mode     *ModeTracker
	mouse    *MouseBehavior
	drag     *DragBehavior
	zoom     *ZoomBehavior
	pour     *PourBehavior
	renderer Renderer
	sink     EventSink
	debug    bool

	channels [][]float64

	input       InputSource
	pointer     *pointerState
	gesture     gesture
	injectQueue []PointerInput

	testRunner      *TestRunner
	screenshotQueue []string
	// ScreenshotDir is the directory screenshots are written to.
	ScreenshotDir string

	updateFunc func() error
	frames     int
}

// NewSession builds a session for scheme with the given initial labels.
func NewSession(scheme *LabelScheme, labels []Label, cfg SessionConfig) *Session {
	cfg.defaults()
	s := &Session{
		cfg:           cfg,
		frame:         cfg.Frame,
		scales:        NewScales(cfg.Frame.Width),
		stream:        NewLabelStream(scheme.Name, scheme, labels),
		mode:          NewModeTracker(),
		renderer:      cfg.Renderer,
		input:         cfg.Input,
		pointer:       newPointerState(cfg.Frame, cfg.DragDeadZone),
		ScreenshotDir: cfg.ScreenshotDir,
	}
	s.labeller = NewLabeller(s.stream, s.scales)
	s.labeller.FixedWidth = cfg.LabelWidth

	extent := DefaultZoomExtent(cfg.Frame.Width, cfg.Frame.Height)
	extent.MinK, extent.MaxK = cfg.MinZoom, cfg.MaxZoom
	s.zoom = NewZoomBehavior(s.scales, extent, s.mode, s.renderer)
	s.drag = NewDragBehavior(s.labeller, s.mode)
	s.pour = NewPourBehavior(cfg.Pour, s.labeller, s.scales, cfg.Frame, DepthScale{}, asLabelRenderer(s.renderer))
	s.mouse = NewMouseBehavior(cfg.Frame, s.labeller, s.scales, s.mode, s.pour, s.renderer)

	s.stream.Subscribe(s.streamChanged)
	s.mode.Subscribe(s.modeChanged)
	return s
}

// Stream returns the label stream.
func (s *Session) Stream() *LabelStream { return s.stream }

// Labeller returns the label editor.
func (s *Session) Labeller() *Labeller { return s.labeller }

// Scales returns the shared coordinate scales.
func (s *Session) Scales() *Scales { return s.scales }

// Mode returns the tool mode tracker.
func (s *Session) Mode() *ModeTracker { return s.mode }

// Mouse returns the mouse behavior.
func (s *Session) Mouse() *MouseBehavior { return s.mouse }

// Zoom returns the zoom behavior.
func (s *Session) Zoom() *ZoomBehavior { return s.zoom }

// Pour returns the pour behavior.
func (s *Session) Pour() *PourBehavior { return s.pour }

// Frame returns the plot frame.
func (s *Session) Frame() Frame { return s.frame }

// Renderer returns the configured renderer.
func (s *Session) Renderer() Renderer { return s.renderer }

// Channels returns the loaded signal channels.
func (s *Session) Channels() [][]float64 { return s.channels }

// SetRenderer replaces the renderer used by the session and its behaviors.
// Nil restores the discarding renderer.
func (s *Session) SetRenderer(r Renderer) {
	if r == nil {
		r = nopRenderer{}
	}
	s.renderer = r
	s.zoom.renderer = r
	s.pour.renderer = asLabelRenderer(r)
	s.mouse.renderer = r
	s.mouse.labels = asLabelRenderer(r)
	r.Invalidate(LayerAll)
}

// SetEventSink sets the optional ECS bridge.
func (s *Session) SetEventSink(sink EventSink) { s.sink = sink }

// SetDebugMode enables per-frame debug logging.
func (s *Session) SetDebugMode(enabled bool) { s.debug = enabled }

// SetUpdateFunc registers a callback run at the start of every Update. A
// non-nil error stops the game loop.
func (s *Session) SetUpdateFunc(fn func() error) { s.updateFunc = fn }

// SetSignals loads the signal channels. The sample count becomes the length
// of the longest channel and any zoom is dropped.
func (s *Session) SetSignals(channels [][]float64) {
	n := 0
	for _, ch := range channels {
		n = max(n, len(ch))
	}
	s.channels = channels
	s.scales.SetSampleCount(n)
	s.renderer.Invalidate(LayerAll)
	logger().Debug("signals loaded", "channels", len(channels), "samples", n)
}

// SetEnergy sets the depth source used by Pour.
func (s *Session) SetEnergy(e EnergySeries) {
	s.pour.SetDepth(NewSeriesDepthScale(e, s.frame.Height))
}

// ResetZoom animates back to the unzoomed view.
func (s *Session) ResetZoom() { s.zoom.Reset(s.cfg.ResetDuration) }

// View returns the state a renderer draws from.
func (s *Session) View() *View {
	px, py := s.mouse.Position()
	return &View{
		Frame:    s.frame,
		X:        s.scales.X,
		Labels:   s.stream.Labels(),
		EventMap: s.stream.EventMap(),
		Current:  s.stream.EventType(),
		Mode:     s.mode.Current(),
		Channels: s.channels,
		Pointer:  Vec2{px, py},
		Region:   s.mouse.Region(),
		Hover:    s.mouse.Hover(),
	}
}

// Update runs one frame: the update callback, the test runner, the zoom
// reset animation, pointer input and the pour simulation, in that order.
func (s *Session) Update(dt float64) error {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.zoom.Update(float32(dt))
	s.processInput()
	state := s.pour.Tick(dt)
	if u, ok := s.renderer.(frameUpdater); ok {
		u.Update(float32(dt))
	}
	s.frames++
	if s.debug {
		s.debugLog(debugStats{
			updateTime: time.Since(t0),
			labels:     s.stream.Len(),
			particles:  state.Particles,
			zoom:       s.scales.Transform().K,
		})
	}
	return nil
}

// Draw renders the view onto screen when the renderer can draw, then
// captures any queued screenshots.
func (s *Session) Draw(screen *ebiten.Image) {
	if d, ok := s.renderer.(screenDrawer); ok {
		d.Draw(screen, s.View())
	}
	s.flushScreenshots(screen)
}

func (s *Session) processInput() {
	if s.processInjectedInput() {
		return
	}
	s.pointer.process(s.input.Poll(), s)
}

func (s *Session) streamChanged(e StreamEvent) {
	s.renderer.Invalidate(LayerLabels | LayerHandles)
	if e.Type == EventChangeType {
		s.renderer.Invalidate(LayerGhost)
	}
	if s.sink != nil {
		s.sink.EmitEvent(e)
	}
}

func (s *Session) modeChanged(m ToolMode) {
	logger().Debug("mode changed", "mode", m.String())
	if m != ModePour && s.pour.Pouring() {
		s.pour.End()
	}
	s.renderer.Invalidate(LayerCursor | LayerGhost)
}

// --- gesture routing ---

func (s *Session) onPointerDown(x, y float64, pressed Buttons) { s.mouse.Down(x, y, pressed) }

func (s *Session) onPointerUp(_, _ float64, released Buttons) { s.mouse.Up(released) }

func (s *Session) onPointerMove(x, y float64) { s.mouse.Move(x, y) }

func (s *Session) onPointerLeave() { s.mouse.Leave() }

func (s *Session) onClick(x, y float64) { s.mouse.Click(x, y) }

func (s *Session) onDragStart(x, y, startX, startY float64) {
	region := s.frame.Region(startX, startY)
	if region == RegionFrame {
		hit := HitTest(s.stream.Labels(), s.scales.X, s.frame.Height, startX, startY)
		if s.drag.Start(hit) {
			s.gesture = gestureLabel
			return
		}
	}
	switch s.zoom.Filter(ZoomDrag, region) {
	case ZoomAccept:
		s.gesture = gesturePan
		s.zoom.Start()
	case ZoomAsMove:
		s.gesture = gestureHover
	default:
		s.gesture = gestureNone
	}
}

func (s *Session) onDrag(x, y, dx, dy float64) {
	switch s.gesture {
	case gestureLabel:
		s.drag.Drag(x, dx)
	case gesturePan:
		s.zoom.Pan(dx, dy)
	case gestureHover:
		s.mouse.Move(x, y)
	}
}

func (s *Session) onDragEnd(x, y float64) {
	switch s.gesture {
	case gestureLabel:
		s.drag.End()
	case gesturePan:
		s.zoom.End()
	}
	s.gesture = gestureNone
	s.mouse.Move(x, y)
}

func (s *Session) onWheel(x, y, delta float64) {
	if s.zoom.Filter(ZoomWheel, s.frame.Region(x, y)) == ZoomAccept {
		s.zoom.Wheel(x, y, delta)
	}
}

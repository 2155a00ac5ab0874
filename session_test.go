package databar

import (
	"errors"
	"math"
	"testing"
)

const frameDT = 1.0 / 60

var testMargin = Margin{Top: 10, Right: 20, Bottom: 30, Left: 50}

// newTestSession returns a headless session over a 1000x200 frame with
// 1000 samples, so frame-local x equals the sample index when unzoomed.
func newTestSession(labels []Label, r Renderer) *Session {
	s := NewSession(testScheme(), labels, SessionConfig{
		Frame:    Frame{Width: 1000, Height: 200, Margin: testMargin},
		Input:    idleInput{},
		Renderer: r,
		Pour:     PourConfig{Seed: 3},
	})
	s.SetSignals([][]float64{make([]float64, 1000), make([]float64, 10)})
	return s
}

// scr converts frame-local coordinates to screen coordinates.
func scr(x, y float64) (float64, float64) {
	return x + testMargin.Left, y + testMargin.Top
}

// drain runs frames until every injected event has been consumed.
func drain(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; s.Pending() > 0; i++ {
		if i > 1000 {
			t.Fatal("inject queue never drained")
		}
		if err := s.Update(frameDT); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
}

func TestSessionSetSignals(t *testing.T) {
	s := newTestSession(nil, nil)
	if _, d1 := s.Scales().X.Domain(); d1 != 1000 {
		t.Errorf("domain end = %v, want longest channel length 1000", d1)
	}
	if len(s.Channels()) != 2 {
		t.Errorf("channels = %d", len(s.Channels()))
	}
}

func TestSessionClickAddsInClickMode(t *testing.T) {
	s := newTestSession(nil, nil)
	s.Mode().Update(ModeClick)

	s.InjectClick(scr(500, 100))
	drain(t, s)

	labels := s.Stream().Labels()
	if len(labels) != 1 {
		t.Fatalf("labels = %d, want 1", len(labels))
	}
	if l := labels[0]; l.Start != 475 || l.End != 525 || l.Label != 1 {
		t.Errorf("label = %+v", *l)
	}
	if !s.Stream().Changed() {
		t.Error("stream not marked changed")
	}
}

func TestSessionClickOutsideFrameIgnored(t *testing.T) {
	s := newTestSession(nil, nil)
	s.Mode().Update(ModeClick)
	s.InjectClick(scr(500, 215))
	drain(t, s)
	if s.Stream().Len() != 0 {
		t.Error("click on the x-axis added a label")
	}
}

func TestSessionClickInSelectionMode(t *testing.T) {
	s := newTestSession([]Label{{Start: 100, End: 200, Label: 1}}, nil)

	s.InjectClick(scr(500, 100))
	drain(t, s)
	if s.Stream().Len() != 1 {
		t.Fatal("selection-mode click on empty frame added a label")
	}

	s.InjectClick(scr(150, 100))
	drain(t, s)
	if sel := s.Labeller().Selected(); sel == nil || sel.Start != 100 {
		t.Fatalf("selected = %v", sel)
	}

	s.InjectClick(scr(700, 100))
	drain(t, s)
	if s.Labeller().Selected() != nil {
		t.Error("click on empty frame kept the selection")
	}
}

func TestSessionClickRelabels(t *testing.T) {
	s := newTestSession([]Label{{Start: 100, End: 200, Label: 1}}, nil)
	s.Mode().Update(ModeClick)
	s.Stream().ChangeType(2)

	s.InjectClick(scr(150, 100))
	drain(t, s)

	l := s.Stream().Labels()[0]
	if l.Label != 2 || l.Type != "turn" {
		t.Errorf("label = %d/%q, want 2/turn", l.Label, l.Type)
	}
	if s.Stream().Len() != 1 {
		t.Error("relabel click added a label")
	}
}

func TestSessionMiddleButtonCyclesMode(t *testing.T) {
	s := newTestSession(nil, nil)
	want := []ToolMode{ModeClick, ModePour, ModeSelection}
	for i, m := range want {
		s.InjectButton(scr(500, 100), ButtonMiddle)
		drain(t, s)
		if got := s.Mode().Current(); got != m {
			t.Errorf("after %d presses mode = %v, want %v", i+1, got, m)
		}
	}
}

func TestSessionExtraButtonsCycleType(t *testing.T) {
	s := newTestSession(nil, nil)
	x, y := scr(500, 100)

	s.InjectButton(x, y, ButtonForward)
	drain(t, s)
	if got := s.Stream().EventType(); got != 2 {
		t.Errorf("after forward type = %d, want 2", got)
	}
	s.InjectButton(x, y, ButtonBack)
	s.InjectButton(x, y, ButtonBack)
	drain(t, s)
	if got := s.Stream().EventType(); got != NullKey {
		t.Errorf("after back twice type = %d, want null", got)
	}
}

func TestSessionDragMovesLabel(t *testing.T) {
	s := newTestSession([]Label{{Start: 400, End: 450, Label: 1}}, nil)
	fx, fy := scr(420, 100)
	tx, ty := scr(470, 100)
	s.InjectDrag(fx, fy, tx, ty, 6)
	drain(t, s)

	l := s.Stream().Labels()[0]
	if l.Start != 450 || l.End != 500 {
		t.Errorf("label = [%v %v], want [450 500]", l.Start, l.End)
	}
	if l.Selected {
		t.Error("drag selected the label")
	}
	if k := s.Scales().Transform().K; k != 1 {
		t.Errorf("label drag zoomed: K = %v", k)
	}
}

func TestSessionDragInClickModeDoesNotMove(t *testing.T) {
	s := newTestSession([]Label{{Start: 400, End: 450, Label: 1}}, nil)
	s.Mode().Update(ModeClick)
	fx, fy := scr(420, 100)
	tx, ty := scr(470, 100)
	s.InjectDrag(fx, fy, tx, ty, 6)
	drain(t, s)

	l := s.Stream().Labels()[0]
	if l.Start != 400 || l.End != 450 {
		t.Errorf("label moved to [%v %v] in click mode", l.Start, l.End)
	}
}

func TestSessionDragHandleResizes(t *testing.T) {
	s := newTestSession([]Label{{Start: 400, End: 450, Label: 1, Selected: true}}, nil)
	fx, fy := scr(450, 100)
	tx, ty := scr(520, 100)
	s.InjectDrag(fx, fy, tx, ty, 5)
	drain(t, s)

	l := s.Stream().Labels()[0]
	if l.Start != 400 || l.End != 520 {
		t.Errorf("label = [%v %v], want [400 520]", l.Start, l.End)
	}
}

func TestSessionWheelZoom(t *testing.T) {
	tests := []struct {
		name  string
		x, y  float64
		wantK float64
	}{
		{"frame", 500, 100, 2},
		{"x-axis", 500, 215, 1},
		{"y-axis", -20, 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(nil, nil)
			x, y := scr(tt.x, tt.y)
			s.InjectWheel(x, y, 5)
			drain(t, s)
			if k := s.Scales().Transform().K; math.Abs(k-tt.wantK) > 1e-9 {
				t.Errorf("K = %v, want %v", k, tt.wantK)
			}
		})
	}
}

func TestSessionPanOnXAxis(t *testing.T) {
	s := newTestSession(nil, nil)
	x, y := scr(500, 100)
	s.InjectWheel(x, y, 5)
	drain(t, s)
	if d0, d1 := s.Scales().X.Domain(); math.Abs(d0-250) > 1e-9 || math.Abs(d1-750) > 1e-9 {
		t.Fatalf("zoomed domain = [%v %v], want [250 750]", d0, d1)
	}

	fx, fy := scr(500, 215)
	tx, ty := scr(400, 215)
	s.InjectDrag(fx, fy, tx, ty, 4)
	drain(t, s)

	d0, d1 := s.Scales().X.Domain()
	if math.Abs(d0-300) > 1e-6 || math.Abs(d1-800) > 1e-6 {
		t.Errorf("panned domain = [%v %v], want [300 800]", d0, d1)
	}
}

func TestSessionResetZoom(t *testing.T) {
	s := newTestSession(nil, nil)
	x, y := scr(500, 100)
	s.InjectWheel(x, y, 5)
	drain(t, s)

	s.ResetZoom()
	for range 60 {
		if err := s.Update(frameDT); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.Scales().Transform(); got != IdentityTransform {
		t.Errorf("transform after reset = %+v", got)
	}
}

func TestSessionHoldToPour(t *testing.T) {
	s := newTestSession(nil, nil)
	s.SetEnergy(flatEnergy(1000))
	s.Mode().Update(ModePour)
	x, y := scr(500, 100)

	s.InjectPress(x, y)
	drain(t, s)
	if !s.Pour().Pouring() {
		t.Fatal("press in pour mode did not start pouring")
	}
	lbl := s.Pour().Current()

	for range 120 {
		s.InjectMove(x, y)
	}
	drain(t, s)
	if st := s.Pour().State(); st.Ticks != 121 || st.Particles == 0 {
		t.Errorf("pour state = %+v", st)
	}

	s.InjectRelease(x, y)
	drain(t, s)
	if s.Pour().Pouring() {
		t.Error("release did not end the pour")
	}
	if s.Stream().Len() != 1 || lbl.Width() <= 1 {
		t.Errorf("poured label = [%v %v]", lbl.Start, lbl.End)
	}
}

func TestSessionPourWithoutEnergy(t *testing.T) {
	s := newTestSession(nil, nil)
	s.Mode().Update(ModePour)
	s.InjectClick(scr(500, 100))
	drain(t, s)
	if s.Pour().Pouring() || s.Stream().Len() != 0 {
		t.Error("pour started without energy")
	}
}

func TestSessionModeChangeEndsPour(t *testing.T) {
	s := newTestSession(nil, nil)
	s.SetEnergy(flatEnergy(1000))
	s.Mode().Update(ModePour)
	x, y := scr(500, 100)
	s.InjectPress(x, y)
	drain(t, s)
	if !s.Pour().Pouring() {
		t.Fatal("pour not started")
	}

	s.Mode().Update(ModeSelection)
	if s.Pour().Pouring() {
		t.Error("leaving pour mode did not end the pour")
	}
	s.InjectRelease(x, y)
	drain(t, s)
}

func TestZoomFilter(t *testing.T) {
	tests := []struct {
		mode   ToolMode
		kind   ZoomInput
		region Region
		want   ZoomDecision
	}{
		{ModeSelection, ZoomWheel, RegionFrame, ZoomAccept},
		{ModeClick, ZoomWheel, RegionFrame, ZoomAccept},
		{ModePour, ZoomWheel, RegionFrame, ZoomAccept},
		{ModeSelection, ZoomWheel, RegionXAxis, ZoomReject},
		{ModeSelection, ZoomWheel, RegionYAxis, ZoomReject},
		{ModeSelection, ZoomDrag, RegionXAxis, ZoomAccept},
		{ModePour, ZoomDrag, RegionXAxis, ZoomAccept},
		{ModeSelection, ZoomDrag, RegionFrame, ZoomAccept},
		{ModeClick, ZoomDrag, RegionFrame, ZoomAsMove},
		{ModePour, ZoomDrag, RegionFrame, ZoomReject},
		{ModeSelection, ZoomDrag, RegionYAxis, ZoomReject},
		{ModeSelection, ZoomDrag, RegionMarginTop, ZoomReject},
	}
	for _, tt := range tests {
		mode := NewModeTracker()
		mode.Update(tt.mode)
		z := NewZoomBehavior(NewScales(100), DefaultZoomExtent(100, 100), mode, nil)
		if got := z.Filter(tt.kind, tt.region); got != tt.want {
			t.Errorf("Filter(%v, %v) in %v = %d, want %d", tt.kind, tt.region, tt.mode, got, tt.want)
		}
	}
}

func TestSessionCursorAndGhost(t *testing.T) {
	r := &recordRenderer{}
	s := newTestSession([]Label{{Start: 100, End: 200, Label: 1}}, r)

	s.Mode().Update(ModeClick)
	s.InjectHover(scr(500, 100))
	drain(t, s)
	if r.cursor != CursorPointer || s.Mouse().Cursor() != CursorPointer {
		t.Errorf("click-mode cursor = %v", r.cursor)
	}
	if r.ghosts == 0 {
		t.Error("no ghost shown in click mode")
	}

	s.InjectHover(scr(150, 100))
	drain(t, s)
	if r.cursor != CursorBrush {
		t.Errorf("cursor over label = %v, want brush", r.cursor)
	}

	s.Mode().Update(ModePour)
	s.InjectHover(scr(600, 100))
	drain(t, s)
	if r.cursor != CursorWater {
		t.Errorf("pour-mode cursor = %v, want water", r.cursor)
	}

	s.InjectHover(scr(600, 215))
	drain(t, s)
	if r.cursor != CursorNone {
		t.Errorf("cursor off frame = %v, want none", r.cursor)
	}

	s.InjectLeave()
	drain(t, s)
	if s.Mouse().Cursor() != CursorNone || !r.cleared.Has(LayerCursor|LayerGhost) {
		t.Error("leaving did not hide the cursor")
	}
}

func TestSessionInvalidatesOnEdit(t *testing.T) {
	r := &recordRenderer{}
	s := newTestSession(nil, r)
	r.invalidated = 0
	s.Mode().Update(ModeClick)
	s.InjectClick(scr(500, 100))
	drain(t, s)
	if !r.invalidated.Has(LayerLabels) {
		t.Errorf("invalidated = %b, want labels", r.invalidated)
	}
}

type sliceSink struct {
	events []StreamEvent
}

func (k *sliceSink) EmitEvent(e StreamEvent) { k.events = append(k.events, e) }

func TestSessionForwardsEventsToSink(t *testing.T) {
	s := newTestSession(nil, nil)
	sink := &sliceSink{}
	s.SetEventSink(sink)
	s.Mode().Update(ModeClick)
	s.InjectClick(scr(500, 100))
	drain(t, s)

	var adds int
	for _, e := range sink.events {
		if e.Type == EventAdd {
			adds++
			if e.Target == nil || e.Source != "test" {
				t.Errorf("add event = %+v", e)
			}
		}
	}
	if adds != 1 {
		t.Errorf("add events = %d, want 1", adds)
	}
}

func TestSessionUpdateFuncError(t *testing.T) {
	s := newTestSession(nil, nil)
	stop := errors.New("stop")
	s.SetUpdateFunc(func() error { return stop })
	if err := s.Update(frameDT); !errors.Is(err, stop) {
		t.Errorf("Update err = %v, want stop", err)
	}
}

func TestSessionView(t *testing.T) {
	s := newTestSession([]Label{{Start: 100, End: 200, Label: 1}}, nil)
	s.Mode().Update(ModeClick)
	s.InjectHover(scr(150, 50))
	drain(t, s)

	v := s.View()
	if v.Mode != ModeClick || v.Current != 1 || len(v.Labels) != 1 {
		t.Errorf("view = %+v", v)
	}
	if v.Pointer != (Vec2{150, 50}) || v.Region != RegionFrame || v.Hover.Kind != HitLabel {
		t.Errorf("pointer = %v region = %v hover = %v", v.Pointer, v.Region, v.Hover.Kind)
	}
}

func TestSessionSetRendererNil(t *testing.T) {
	s := newTestSession(nil, &recordRenderer{})
	s.SetRenderer(nil)
	if _, ok := s.Renderer().(nopRenderer); !ok {
		t.Errorf("renderer = %T, want nopRenderer", s.Renderer())
	}
}

package databar

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// recordRenderer counts renderer calls.
type recordRenderer struct {
	invalidated Layer
	cleared     Layer
	cursor      Cursor
	ghosts      int
	draws       int
	fades       int
	lastFade    []Vec2
}

func (r *recordRenderer) Invalidate(l Layer)                 { r.invalidated |= l }
func (r *recordRenderer) Clear(l Layer)                      { r.cleared |= l }
func (r *recordRenderer) SetCursor(c Cursor, _, _ float64)   { r.cursor = c }
func (r *recordRenderer) SetGhost(_, _ float64)              { r.ghosts++ }
func (r *recordRenderer) DrawParticles([]Vec2)               { r.draws++ }
func (r *recordRenderer) FadeParticles(ps []Vec2, _ float32) { r.fades++; r.lastFade = ps }

const pourTick = 1.0 / 60

func flatEnergy(n int) EnergySeries {
	e := make(EnergySeries, n)
	for i := range e {
		e[i] = 1
	}
	return e
}

// newTestPour builds a pour over a 960x200 frame with one sample per pixel.
func newTestPour(labels []Label, energy EnergySeries, r LabelRenderer) (*PourBehavior, *LabelStream) {
	frame := Frame{Width: 960, Height: 200}
	stream := NewLabelStream("test", testScheme(), labels)
	scales := NewScales(frame.Width)
	scales.SetSampleCount(960)
	lb := NewLabeller(stream, scales)
	depth := NewSeriesDepthScale(energy, frame.Height)
	p := NewPourBehavior(PourConfig{Seed: 42}, lb, scales, frame, depth, r)
	return p, stream
}

func runPour(p *PourBehavior, ticks int) SimulationState {
	var st SimulationState
	for range ticks {
		st = p.Tick(pourTick)
	}
	return st
}

func TestPourFlatFieldCentered(t *testing.T) {
	p, _ := newTestPour(nil, flatEnergy(960), nil)
	if err := p.Start(480, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	lbl := p.Current()

	st := runPour(p, 200)
	if !st.Running || st.Ticks != 200 {
		t.Fatalf("state = %+v", st)
	}
	if st.Particles != 80 {
		t.Errorf("particles = %d, want 80", st.Particles)
	}
	p.End()

	w := lbl.Width()
	if w <= 10 {
		t.Errorf("poured width = %v, want > 10", w)
	}
	center := (lbl.Start + lbl.End) / 2
	if math.Abs(center-480) > w/4+5 {
		t.Errorf("poured label [%v %v] not centered on 480", lbl.Start, lbl.End)
	}
}

func TestPourStopsAtNeighbor(t *testing.T) {
	p, stream := newTestPour([]Label{{Start: 530, End: 660, Label: 2}}, flatEnergy(960), nil)
	if err := p.Start(500, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	lbl := p.Current()
	runPour(p, 600)
	p.End()

	if lbl.End > 530 {
		t.Errorf("poured label end = %v, want <= 530", lbl.End)
	}
	neighbor := stream.Labels()[0]
	if neighbor.Start != 530 || neighbor.End != 660 {
		t.Errorf("neighbor changed to [%v %v]", neighbor.Start, neighbor.End)
	}
}

func TestPourRestartEnds(t *testing.T) {
	p, stream := newTestPour(nil, flatEnergy(960), nil)
	if err := p.Start(200, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	runPour(p, 10)

	if err := p.Start(600, 1); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if p.Pouring() {
		t.Error("second Start should end the running pour")
	}
	if stream.Len() != 1 {
		t.Errorf("labels = %d, want 1", stream.Len())
	}
}

func TestPourEndIdempotent(t *testing.T) {
	r := &recordRenderer{}
	p, _ := newTestPour(nil, flatEnergy(960), r)
	p.End()
	if err := p.Start(480, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	runPour(p, 30)
	if r.draws != 30 {
		t.Errorf("draws = %d, want 30", r.draws)
	}

	p.End()
	p.End()
	if r.fades != 1 || len(r.lastFade) == 0 {
		t.Errorf("fades = %d with %d particles, want 1 non-empty fade", r.fades, len(r.lastFade))
	}
	st := p.State()
	if st.Running || st.Label != nil || st.Particles != 0 {
		t.Errorf("state after End = %+v", st)
	}
	if got := p.Tick(pourTick); got.Ticks != st.Ticks {
		t.Error("Tick advanced a stopped pour")
	}
}

func TestPourRequiresEnergy(t *testing.T) {
	p, stream := newTestPour(nil, nil, nil)
	if err := p.Start(480, 1); !errors.Is(err, ErrNoEnergy) {
		t.Errorf("err = %v, want ErrNoEnergy", err)
	}
	if stream.Len() != 0 || p.Pouring() {
		t.Error("pour started without energy")
	}
}

func TestPourRequiresDomain(t *testing.T) {
	frame := Frame{Width: 960, Height: 200}
	stream := NewLabelStream("test", testScheme(), nil)
	scales := NewScales(frame.Width)
	p := NewPourBehavior(PourConfig{Seed: 1}, NewLabeller(stream, scales), scales, frame,
		NewSeriesDepthScale(flatEnergy(10), frame.Height), nil)
	if err := p.Start(480, 1); !errors.Is(err, ErrDomainNotSet) {
		t.Errorf("err = %v, want ErrDomainNotSet", err)
	}
	if p.Pouring() {
		t.Error("pour running without a domain")
	}
}

func TestPourFixedStep(t *testing.T) {
	p, _ := newTestPour(nil, flatEnergy(960), nil)
	if err := p.Start(480, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	st := p.Tick(pourTick / 2)
	if st.Ticks != 0 {
		t.Errorf("half step ran %d ticks", st.Ticks)
	}
	st = p.Tick(4.6 * pourTick)
	if st.Ticks != 5 {
		t.Errorf("ticks = %d, want 5", st.Ticks)
	}
}

func TestPourImpactGrowsTowardWall(t *testing.T) {
	p, stream := newTestPour([]Label{{Start: 100, End: 110, Label: 2}, {Start: 800, End: 810, Label: 2}}, flatEnergy(960), nil)
	if err := p.Start(480, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	lbl := p.Current()
	left, right := stream.Labels()[0], stream.Labels()[1]

	p.impact(Surface{From: Vec2{110, 0}, To: Vec2{110, 200}})
	if lbl.Start != 110 {
		t.Errorf("right-edge wall: start = %v, want 110", lbl.Start)
	}
	p.impact(Surface{From: Vec2{800, 200}, To: Vec2{800, 0}})
	if lbl.End != 800 {
		t.Errorf("left-edge wall: end = %v, want 800", lbl.End)
	}
	p.impact(Surface{From: Vec2{0, 0}, To: Vec2{960, 0}})
	if lbl.Start != 110 || lbl.End != 800 {
		t.Errorf("horizontal wall changed label to [%v %v]", lbl.Start, lbl.End)
	}
	if left.End != 110 || right.Start != 800 {
		t.Error("neighbors changed")
	}
}

func TestPourImpactLogsRejectedGrow(t *testing.T) {
	buf := captureLog(t)
	p, _ := newTestPour(nil, flatEnergy(960), nil)
	if err := p.Start(480, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	lbl := p.Current()
	before := span(lbl)

	p.labeller.scales.X = NewScales(960).X
	p.impact(Surface{From: Vec2{300, 0}, To: Vec2{300, 200}})
	if got := span(lbl); got != before {
		t.Errorf("label changed to %v without a domain", got)
	}
	if !strings.Contains(buf.String(), "pour impact not applied") {
		t.Errorf("rejected grow not logged:\n%s", buf.String())
	}
}

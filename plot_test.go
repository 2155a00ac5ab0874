package databar

import "testing"

func newTestPlot(t *testing.T) *Plot {
	t.Helper()
	p, err := NewPlot()
	if err != nil {
		t.Fatalf("NewPlot: %v", err)
	}
	return p
}

func TestValueScale(t *testing.T) {
	y := valueScale([][]float64{{2, 4}, {-2, 0}}, 100)
	if got := y.Map(4); got != 0 {
		t.Errorf("Map(max) = %v, want 0", got)
	}
	if got := y.Map(-2); got != 100 {
		t.Errorf("Map(min) = %v, want 100", got)
	}

	empty := valueScale(nil, 100)
	if d0, d1 := empty.Domain(); d0 != 0 || d1 != 1 {
		t.Errorf("empty domain = [%v %v], want [0 1]", d0, d1)
	}
}

func TestClipRect(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside", Rect{X: 10, Width: 20}, Rect{X: 10, Width: 20}},
		{"left", Rect{X: -10, Width: 20}, Rect{X: 0, Width: 10}},
		{"right", Rect{X: 90, Width: 20}, Rect{X: 90, Width: 10}},
		{"outside", Rect{X: 150, Width: 20}, Rect{X: 150, Width: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clipRect(tt.in, 100); got != tt.want {
				t.Errorf("clipRect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlotTypeColor(t *testing.T) {
	p := newTestPlot(t)
	emap := NewEventMap(testScheme())
	if got := p.typeColor(emap, NullKey); got != p.Style.Null {
		t.Errorf("null color = %v", got)
	}
	if got := p.typeColor(emap, 1); got != p.Style.Labels[0] {
		t.Errorf("type 1 color = %v, want first palette entry", got)
	}
	if got := p.typeColor(emap, 2); got != p.Style.Labels[1] {
		t.Errorf("type 2 color = %v, want second palette entry", got)
	}
	if got := p.typeColor(emap, 9); got != p.Style.Null {
		t.Errorf("unknown type color = %v, want null", got)
	}
}

func TestPlotHoveredChannel(t *testing.T) {
	p := newTestPlot(t)
	v := &View{
		Frame:    Frame{Width: 10, Height: 100},
		X:        NewScale(0, 10, 0, 10),
		Channels: [][]float64{{0, 0, 0}, {10, 10, 10}},
		Region:   RegionFrame,
	}

	v.Pointer = Vec2{X: 1, Y: 90}
	if got := p.hoveredChannel(v); got != 0 {
		t.Errorf("near low trace = %d, want 0", got)
	}
	v.Pointer = Vec2{X: 1, Y: 5}
	if got := p.hoveredChannel(v); got != 1 {
		t.Errorf("near high trace = %d, want 1", got)
	}
	v.Region = RegionXAxis
	if got := p.hoveredChannel(v); got != -1 {
		t.Errorf("off frame = %d, want -1", got)
	}
}

func TestPlotFadeParticles(t *testing.T) {
	p := newTestPlot(t)
	p.DrawParticles([]Vec2{{1, 2}, {3, 4}})
	p.FadeParticles([]Vec2{{1, 2}, {3, 4}}, 0.5)
	if len(p.particles) != 0 || len(p.fading) != 1 {
		t.Fatalf("particles = %d fading = %d", len(p.particles), len(p.fading))
	}

	base := p.fading[0].color
	p.Update(0.25)
	if len(p.fading) != 1 {
		t.Fatal("fade finished early")
	}
	c := p.fading[0].color
	if c.A >= particleAlpha || c.A <= 0 {
		t.Errorf("alpha mid-fade = %v", c.A)
	}
	if c.R != base.R || c.G != base.G || c.B != base.B {
		t.Errorf("fade changed hue from %v to %v", base, c)
	}
	p.Update(0.25)
	if len(p.fading) != 0 {
		t.Errorf("fading = %d after full duration, want 0", len(p.fading))
	}
}

func TestPlotClearAndInvalidate(t *testing.T) {
	p := newTestPlot(t)
	p.dirty = 0
	p.Invalidate(LayerLabels)
	p.Invalidate(LayerHandles)
	if !p.dirty.Has(LayerLabels | LayerHandles) {
		t.Errorf("dirty = %b", p.dirty)
	}

	p.SetGhost(10, 20)
	p.DrawParticles([]Vec2{{1, 1}})
	p.Clear(LayerGhost | LayerParticles)
	if p.hasGhost || len(p.particles) != 0 {
		t.Error("Clear left the ghost or particles")
	}
}

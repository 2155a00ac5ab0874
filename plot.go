package databar

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/gofont/goregular"
)

// PlotStyle holds the colors and sizes used by Plot.
type PlotStyle struct {
	Background Color
	Axis       Color
	Text       Color
	Signals    []Color
	// Labels is the palette indexed by a type's display position.
	Labels     []Color
	Null       Color
	Selected   Color
	Handle     Color
	HandleWarn Color
	Particle   float64 // particle radius
	FontSize   float64
}

// DefaultPlotStyle is a dark theme with a categorical label palette.
var DefaultPlotStyle = PlotStyle{
	Background: Color{0.08, 0.09, 0.11, 1},
	Axis:       Color{0.6, 0.6, 0.65, 1},
	Text:       Color{0.8, 0.8, 0.85, 1},
	Signals: []Color{
		{0.35, 0.7, 1, 1}, {1, 0.6, 0.25, 1}, {0.45, 0.85, 0.45, 1}, {0.9, 0.4, 0.5, 1},
	},
	Labels: []Color{
		{0.12, 0.47, 0.71, 1}, {1, 0.5, 0.05, 1}, {0.17, 0.63, 0.17, 1}, {0.84, 0.15, 0.16, 1},
		{0.58, 0.4, 0.74, 1}, {0.55, 0.34, 0.29, 1}, {0.89, 0.47, 0.76, 1}, {0.74, 0.74, 0.13, 1},
	},
	Null:       Color{0.5, 0.5, 0.5, 1},
	Selected:   Color{1, 1, 1, 1},
	Handle:     Color{0.9, 0.9, 0.9, 0.8},
	HandleWarn: Color{1, 0.3, 0.2, 0.9},
	Particle:   2,
	FontSize:   11,
}

const (
	labelAlpha     = 0.45
	ghostAlpha     = 0.2
	particleAlpha  = 0.9
	dimmedAlpha    = 0.35
	enterDuration  = 0.25
	xTickCount     = 10
	yTickCount     = 4
	cursorGlyphPix = 12
)

// fadeGroup is a batch of particles fading out after a pour ended.
type fadeGroup struct {
	ps    []Vec2
	tween *TweenGroup
	color Color
}

// enterAnim widens a newly seen label from its center.
type enterAnim struct {
	grow  float64
	tween *TweenGroup
}

// Plot is the ebiten Renderer for a Session. It draws signal traces, axes,
// labels, handles, the ghost preview, pour particles and the cursor glyph.
type Plot struct {
	Style PlotStyle
	// MsPerSample converts sample indices to time for x-axis ticks.
	// Default 1.
	MsPerSample float64
	// ShowStatus draws a one-line status overlay with mode, type and FPS.
	ShowStatus bool

	face  *text.GoTextFace
	dirty Layer

	signals   *ebiten.Image
	highlight int

	cursor   Cursor
	cursorX  float64
	cursorY  float64
	ghost    [2]float64
	hasGhost bool

	particles []Vec2
	fading    []*fadeGroup

	seen  map[int]bool
	enter map[int]*enterAnim

	lastType TypeKey
	lastEmap *EventMap
}

// NewPlot creates a Plot with the default style.
func NewPlot() (*Plot, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("plot: parse font: %w", err)
	}
	return &Plot{
		Style:       DefaultPlotStyle,
		MsPerSample: 1,
		face:        &text.GoTextFace{Source: source, Size: DefaultPlotStyle.FontSize},
		dirty:       LayerAll,
		highlight:   -1,
		seen:        make(map[int]bool),
		enter:       make(map[int]*enterAnim),
	}, nil
}

// Invalidate implements Renderer.
func (p *Plot) Invalidate(layers Layer) { p.dirty |= layers }

// Clear implements Renderer.
func (p *Plot) Clear(layers Layer) {
	if layers.Has(LayerGhost) {
		p.hasGhost = false
	}
	if layers.Has(LayerCursor) {
		p.cursor = CursorNone
	}
	if layers.Has(LayerParticles) {
		p.particles = p.particles[:0]
		p.fading = p.fading[:0]
	}
}

// SetCursor implements Renderer.
func (p *Plot) SetCursor(c Cursor, x, y float64) {
	p.cursor, p.cursorX, p.cursorY = c, x, y
	if c == CursorNone {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
}

// SetGhost implements LabelRenderer.
func (p *Plot) SetGhost(start, end float64) {
	p.ghost = [2]float64{start, end}
	p.hasGhost = true
}

// DrawParticles implements LabelRenderer.
func (p *Plot) DrawParticles(ps []Vec2) {
	p.particles = append(p.particles[:0], ps...)
}

// FadeParticles implements LabelRenderer.
func (p *Plot) FadeParticles(ps []Vec2, duration float32) {
	c := p.Style.Null
	if p.lastEmap != nil {
		c = p.typeColor(p.lastEmap, p.lastType)
	}
	p.particles = p.particles[:0]
	g := &fadeGroup{ps: append([]Vec2(nil), ps...), color: c.WithAlpha(particleAlpha)}
	g.tween = TweenColor(&g.color, g.color.WithAlpha(0), duration, ease.Linear)
	p.fading = append(p.fading, g)
}

// Update advances the fade and label-enter animations by dt seconds.
func (p *Plot) Update(dt float32) {
	kept := p.fading[:0]
	for _, g := range p.fading {
		g.tween.Update(dt)
		if !g.tween.Done {
			kept = append(kept, g)
		}
	}
	clear(p.fading[len(kept):])
	p.fading = kept

	for id, a := range p.enter {
		a.tween.Update(dt)
		if a.tween.Done {
			delete(p.enter, id)
		}
	}
}

// Draw renders v onto screen.
func (p *Plot) Draw(screen *ebiten.Image, v *View) {
	p.lastType, p.lastEmap = v.Current, v.EventMap
	f := v.Frame
	screen.Fill(p.Style.Background.RGBA())

	if hl := p.hoveredChannel(v); hl != p.highlight {
		p.highlight = hl
		p.dirty |= LayerSignals
	}
	if p.signals == nil || p.dirty.Has(LayerSignals) {
		p.renderSignals(v)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(f.Margin.Left, f.Margin.Top)
	screen.DrawImage(p.signals, op)

	ox, oy := f.Margin.Left, f.Margin.Top
	p.drawLabels(screen, v, ox, oy)
	p.drawGhost(screen, v, ox, oy)
	p.drawParticles(screen, v, ox, oy)
	p.drawAxes(screen, v, ox, oy)
	p.drawCursor(screen, v, ox, oy)
	if p.ShowStatus {
		p.drawStatus(screen, v)
	}
	p.dirty = 0
}

// valueScale maps signal values to frame rows.
func valueScale(channels [][]float64, height float64) Scale {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, ch := range channels {
		for _, y := range ch {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}
	if math.IsInf(lo, 0) {
		lo, hi = 0, 1
	}
	return NewScale(lo, hi, height, 0)
}

// hoveredChannel returns the channel whose trace is nearest the pointer, or
// -1 when the pointer is outside the frame.
func (p *Plot) hoveredChannel(v *View) int {
	if v.Region != RegionFrame || len(v.Channels) < 2 {
		return -1
	}
	y := valueScale(v.Channels, v.Frame.Height)
	i := int(math.Round(v.X.Invert(v.Pointer.X)))
	best, bestD := -1, math.Inf(1)
	for c, ch := range v.Channels {
		if i < 0 || i >= len(ch) {
			continue
		}
		if d := math.Abs(y.Map(ch[i]) - v.Pointer.Y); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func (p *Plot) renderSignals(v *View) {
	w, h := int(v.Frame.Width), int(v.Frame.Height)
	if p.signals == nil || p.signals.Bounds().Dx() != w || p.signals.Bounds().Dy() != h {
		p.signals = ebiten.NewImage(max(w, 1), max(h, 1))
	}
	p.signals.Clear()
	y := valueScale(v.Channels, v.Frame.Height)
	for c, ch := range v.Channels {
		if len(ch) == 0 {
			continue
		}
		col := p.Style.Signals[c%len(p.Style.Signals)]
		if p.highlight >= 0 && p.highlight != c {
			col = col.WithAlpha(dimmedAlpha)
		}
		prevX, prevY := 0.0, 0.0
		for px := 0; px <= w; px++ {
			i := int(math.Round(v.X.Invert(float64(px))))
			if i < 0 || i >= len(ch) {
				continue
			}
			py := y.Map(ch[i])
			if px > 0 {
				vector.StrokeLine(p.signals, float32(prevX), float32(prevY), float32(px), float32(py), 1, col.RGBA(), true)
			}
			prevX, prevY = float64(px), py
		}
	}
}

func (p *Plot) typeColor(emap *EventMap, key TypeKey) Color {
	if emap.IsNull(key) {
		return p.Style.Null
	}
	idx := emap.Index(key)
	if idx < 1 {
		return p.Style.Null
	}
	return p.Style.Labels[(idx-1)%len(p.Style.Labels)]
}

func (p *Plot) drawLabels(screen *ebiten.Image, v *View, ox, oy float64) {
	h := v.Frame.Height
	for _, l := range v.Labels {
		if !p.seen[l.ID] {
			p.seen[l.ID] = true
			a := &enterAnim{}
			a.tween = TweenValue(&a.grow, 1, enterDuration, ease.OutQuad)
			p.enter[l.ID] = a
		}
		r := LabelRect(l, v.X, h)
		if a, ok := p.enter[l.ID]; ok {
			mid := r.X + r.Width/2
			r.Width *= a.grow
			r.X = mid - r.Width/2
		}
		r = clipRect(r, v.Frame.Width)
		if r.Width <= 0 && !l.Selected {
			continue
		}
		col := p.typeColor(v.EventMap, l.Label).WithAlpha(labelAlpha)
		vector.DrawFilledRect(screen, float32(ox+r.X), float32(oy), float32(r.Width), float32(h), col.RGBA(), false)
		if l.Selected {
			vector.StrokeRect(screen, float32(ox+r.X), float32(oy), float32(r.Width), float32(h), 1, p.Style.Selected.RGBA(), false)
			p.drawHandles(screen, v, l, ox, oy)
		}
	}
}

func (p *Plot) drawHandles(screen *ebiten.Image, v *View, l *Label, ox, oy float64) {
	col := p.Style.Handle
	if l.Width() == 0 {
		col = p.Style.HandleWarn
	}
	for _, side := range []Side{SideLeft, SideRight} {
		r := HandleRect(l, v.X, v.Frame.Height, side)
		vector.DrawFilledRect(screen, float32(ox+r.X), float32(oy+r.Y), float32(r.Width), float32(r.Height), col.RGBA(), false)
	}
}

func (p *Plot) drawGhost(screen *ebiten.Image, v *View, ox, oy float64) {
	if !p.hasGhost || v.Mode != ModeClick || v.Region != RegionFrame {
		return
	}
	x0, x1 := v.X.Map(p.ghost[0]), v.X.Map(p.ghost[1])
	r := clipRect(Rect{X: x0, Width: x1 - x0, Height: v.Frame.Height}, v.Frame.Width)
	col := p.typeColor(v.EventMap, v.Current).WithAlpha(ghostAlpha)
	vector.DrawFilledRect(screen, float32(ox+r.X), float32(oy), float32(r.Width), float32(r.Height), col.RGBA(), false)
}

func (p *Plot) drawParticles(screen *ebiten.Image, v *View, ox, oy float64) {
	r := float32(p.Style.Particle)
	col := p.typeColor(v.EventMap, v.Current).WithAlpha(particleAlpha)
	for _, pt := range p.particles {
		vector.DrawFilledCircle(screen, float32(ox+pt.X), float32(oy+pt.Y), r, col.RGBA(), true)
	}
	for _, g := range p.fading {
		c := g.color.RGBA()
		for _, pt := range g.ps {
			vector.DrawFilledCircle(screen, float32(ox+pt.X), float32(oy+pt.Y), r, c, true)
		}
	}
}

func (p *Plot) drawAxes(screen *ebiten.Image, v *View, ox, oy float64) {
	f := v.Frame
	axis := p.Style.Axis.RGBA()
	bottom := float32(oy + f.Height)
	vector.StrokeLine(screen, float32(ox), bottom, float32(ox+f.Width), bottom, 1, axis, false)
	vector.StrokeLine(screen, float32(ox), float32(oy), float32(ox), bottom, 1, axis, false)

	for _, t := range XTicks(v.X, xTickCount, p.MsPerSample) {
		if t.Pos < 0 || t.Pos > f.Width {
			continue
		}
		x := float32(ox + t.Pos)
		vector.StrokeLine(screen, x, bottom, x, bottom+5, 1, axis, false)
		p.drawText(screen, t.Text, ox+t.Pos, oy+f.Height+7, text.AlignCenter)
	}
	for _, t := range YTicks(valueScale(v.Channels, f.Height), yTickCount) {
		y := float32(oy + t.Pos)
		vector.StrokeLine(screen, float32(ox)-5, y, float32(ox), y, 1, axis, false)
		p.drawText(screen, t.Text, ox-7, oy+t.Pos-p.Style.FontSize/2, text.AlignEnd)
	}
}

func (p *Plot) drawText(screen *ebiten.Image, s string, x, y float64, align text.Align) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.PrimaryAlign = align
	c := p.Style.Text
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	text.Draw(screen, s, p.face, op)
}

func (p *Plot) drawCursor(screen *ebiten.Image, v *View, ox, oy float64) {
	if p.cursor == CursorNone {
		return
	}
	x, y := float32(ox+p.cursorX), float32(oy+p.cursorY)
	col := p.typeColor(v.EventMap, v.Current).WithAlpha(1).RGBA()
	white := color.RGBA{255, 255, 255, 255}
	const g = cursorGlyphPix
	switch p.cursor {
	case CursorPointer:
		vector.StrokeLine(screen, x-g/2, y, x+g/2, y, 1, white, true)
		vector.StrokeLine(screen, x, y-g/2, x, y+g/2, 1, white, true)
		vector.DrawFilledCircle(screen, x, y, 2, col, true)
	case CursorBrush:
		vector.StrokeLine(screen, x, y, x+g, y-g, 2, white, true)
		vector.DrawFilledCircle(screen, x, y, 3, col, true)
	case CursorWater:
		vector.DrawFilledCircle(screen, x, y+2, g/3, col, true)
		vector.StrokeLine(screen, x, y-g/2, x-g/3, y+1, 1, col, true)
		vector.StrokeLine(screen, x, y-g/2, x+g/3, y+1, 1, col, true)
	}
}

func (p *Plot) drawStatus(screen *ebiten.Image, v *View) {
	name := ""
	if v.EventMap != nil {
		name = v.EventMap.Get(v.Current)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("mode: %s  type: %s  labels: %d  FPS: %.0f",
		v.Mode, name, len(v.Labels), ebiten.ActualFPS()), 4, 0)
}

// clipRect clips r horizontally to [0, width].
func clipRect(r Rect, width float64) Rect {
	x0 := math.Max(r.X, 0)
	x1 := math.Min(r.X+r.Width, width)
	r.X, r.Width = x0, math.Max(x1-x0, 0)
	return r
}

package databar

// Layer is a bitmask of independently redrawable parts of the plot.
type Layer uint16

const (
	LayerSignals Layer = 1 << iota // signal traces
	LayerXAxis                     // sample/time axis and ticks
	LayerYAxis                     // value axis
	LayerLabels                    // label rectangles
	LayerHandles                   // drag handles of the selected label
	LayerGhost                     // preview of the label a click would create
	LayerCursor                    // custom cursor glyph
	LayerParticles                 // pour particles

	LayerAll Layer = 1<<iota - 1
)

// Has reports whether every bit in o is set.
func (l Layer) Has(o Layer) bool { return l&o == o }

// Renderer is the drawing side of a Session. Implementations read label and
// scale state when they redraw; the engine only tells them what changed.
type Renderer interface {
	// Invalidate marks layers for redraw on the next frame.
	Invalidate(layers Layer)
	// Clear erases transient layers (cursor, ghost, particles).
	Clear(layers Layer)
	// SetCursor selects the custom cursor glyph drawn at the frame-local
	// point (x, y). CursorNone hides it.
	SetCursor(c Cursor, x, y float64)
}

// LabelRenderer is the optional label-layer capability of a Renderer.
type LabelRenderer interface {
	Renderer
	// SetGhost shows the preview of a label spanning [start, end] samples.
	SetGhost(start, end float64)
	// DrawParticles replaces the live pour particles.
	DrawParticles(ps []Vec2)
	// FadeParticles fades out and then drops the given particles over
	// duration seconds.
	FadeParticles(ps []Vec2, duration float32)
}

// nopRenderer discards everything. Used when a Session has no renderer,
// e.g. in headless tests.
type nopRenderer struct{}

func (nopRenderer) Invalidate(Layer)                   {}
func (nopRenderer) Clear(Layer)                        {}
func (nopRenderer) SetCursor(Cursor, float64, float64) {}

// asLabelRenderer returns r's label capability, or nil.
func asLabelRenderer(r Renderer) LabelRenderer {
	lr, _ := r.(LabelRenderer)
	return lr
}

package databar

import (
	"math"
	"time"
)

// ZoomInput is the kind of gesture a zoom event came from.
type ZoomInput uint8

const (
	ZoomWheel ZoomInput = iota
	ZoomDrag
)

func (z ZoomInput) String() string {
	if z == ZoomWheel {
		return "wheel"
	}
	return "drag"
}

// ZoomDecision is what the filter decided to do with a zoom gesture.
type ZoomDecision uint8

const (
	ZoomReject ZoomDecision = iota // drop it
	ZoomAccept                     // zoom or pan
	ZoomAsMove                     // treat as a plain pointer move
)

// ZoomBehavior zooms and pans the shared scales, gated by region and mode.
type ZoomBehavior struct {
	scales   *Scales
	extent   ZoomExtent
	mode     *ModeTracker
	renderer Renderer

	// WheelFactor sets the wheel sensitivity: one wheel unit scales the
	// view by 2^WheelFactor. Default 0.2.
	WheelFactor float64

	started time.Time
	active  bool
}

// NewZoomBehavior wires a zoom behavior.
func NewZoomBehavior(scales *Scales, extent ZoomExtent, mode *ModeTracker, renderer Renderer) *ZoomBehavior {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	return &ZoomBehavior{scales: scales, extent: extent, mode: mode, renderer: renderer, WheelFactor: 0.2}
}

// Filter decides what to do with a zoom gesture of the given kind starting
// in region. Wheel zoom is allowed on the frame. Drag pans on the x-axis
// always and on the frame in Selection mode; Click-mode frame drags become
// pointer moves and Pour-mode frame drags are dropped.
func (z *ZoomBehavior) Filter(kind ZoomInput, region Region) ZoomDecision {
	mode := z.mode.Current()
	switch {
	case kind == ZoomWheel && region == RegionFrame:
		return ZoomAccept
	case kind == ZoomDrag && region == RegionXAxis:
		return ZoomAccept
	case kind == ZoomDrag && region == RegionFrame:
		switch mode {
		case ModeSelection:
			return ZoomAccept
		case ModeClick:
			return ZoomAsMove
		}
		return ZoomReject
	case kind == ZoomWheel:
		return ZoomReject
	}
	logger().Warn("unexpected zoom input", "type", kind.String(), "region", region.String(), "mode", mode.String())
	return ZoomReject
}

// Wheel zooms by delta wheel units about the frame-local point (x, y).
func (z *ZoomBehavior) Wheel(x, y, delta float64) {
	factor := math.Pow(2, delta*z.WheelFactor)
	z.apply(z.extent.ScaleBy(z.scales.Transform(), factor, x, y))
}

// Start marks the beginning of a pan gesture.
func (z *ZoomBehavior) Start() {
	z.started = time.Now()
	z.active = true
}

// Pan translates the view by (dx, dy) pixels.
func (z *ZoomBehavior) Pan(dx, dy float64) {
	z.apply(z.extent.TranslateBy(z.scales.Transform(), dx, dy))
}

// End finishes a pan gesture.
func (z *ZoomBehavior) End() {
	if !z.active {
		return
	}
	z.active = false
	logger().Debug("zoom end", "k", z.scales.Transform().K, "elapsed", time.Since(z.started))
}

// Reset animates back to the unzoomed view over duration seconds.
func (z *ZoomBehavior) Reset(duration float32) {
	z.scales.ResetZoom(duration, nil)
}

// Update advances a running zoom reset by dt seconds.
func (z *ZoomBehavior) Update(dt float32) {
	if z.scales.update(dt) {
		z.invalidate()
	}
}

func (z *ZoomBehavior) apply(t ZoomTransform) {
	z.scales.ApplyZoom(t)
	z.invalidate()
}

func (z *ZoomBehavior) invalidate() {
	z.renderer.Invalidate(LayerSignals | LayerXAxis | LayerLabels | LayerHandles)
}

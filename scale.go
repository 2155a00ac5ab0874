package databar

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Scale is a continuous linear map from a domain (sample index) to a range
// (pixels). When Round is set, forward mappings are rounded to whole pixels;
// inversion is never rounded.
type Scale struct {
	d0, d1 float64
	r0, r1 float64
	Round  bool
}

// NewScale creates a linear scale over the given domain and range.
func NewScale(d0, d1, r0, r1 float64) Scale {
	return Scale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the domain endpoints.
func (s Scale) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the range endpoints.
func (s Scale) Range() (float64, float64) { return s.r0, s.r1 }

// WithDomain returns a copy of s with the domain replaced.
func (s Scale) WithDomain(d0, d1 float64) Scale {
	s.d0, s.d1 = d0, d1
	return s
}

// WithRange returns a copy of s with the range replaced.
func (s Scale) WithRange(r0, r1 float64) Scale {
	s.r0, s.r1 = r0, r1
	return s
}

// Map converts a domain value to a range value. A degenerate domain maps
// everything to the middle of the range.
func (s Scale) Map(v float64) float64 {
	var t float64
	if s.d1 == s.d0 {
		t = 0.5
	} else {
		t = (v - s.d0) / (s.d1 - s.d0)
	}
	px := s.r0 + t*(s.r1-s.r0)
	if s.Round {
		px = math.Round(px)
	}
	return px
}

// Invert converts a range value back to the domain.
func (s Scale) Invert(px float64) float64 {
	var t float64
	if s.r1 == s.r0 {
		t = 0.5
	} else {
		t = (px - s.r0) / (s.r1 - s.r0)
	}
	return s.d0 + t*(s.d1-s.d0)
}

// Ticks returns roughly count evenly spaced, human-friendly values within
// the domain (steps of 1, 2 or 5 times a power of ten).
func (s Scale) Ticks(count int) []float64 {
	start, stop := s.d0, s.d1
	if count <= 0 || start == stop || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= math.Sqrt(50):
		factor = 10
	case errRatio >= math.Sqrt(10):
		factor = 5
	case errRatio >= math.Sqrt(2):
		factor = 2
	}

	var ticks []float64
	if power >= 0 {
		inc := factor * math.Pow(10, power)
		for i := math.Ceil(start / inc); i <= math.Floor(stop/inc); i++ {
			ticks = append(ticks, i*inc)
		}
	} else {
		inv := math.Pow(10, -power) / factor
		for i := math.Ceil(start * inv); i <= math.Floor(stop*inv); i++ {
			ticks = append(ticks, i/inv)
		}
	}
	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

// ZoomTransform is a uniform scale K followed by a translation (X, Y) in
// pixels. The identity transform is {K: 1}.
type ZoomTransform struct {
	K, X, Y float64
}

// IdentityTransform is the unzoomed, unpanned transform.
var IdentityTransform = ZoomTransform{K: 1}

// ApplyX maps an unzoomed pixel x to its zoomed position.
func (t ZoomTransform) ApplyX(x float64) float64 { return x*t.K + t.X }

// InvertX maps a zoomed pixel x back to its unzoomed position.
func (t ZoomTransform) InvertX(px float64) float64 { return (px - t.X) / t.K }

// InvertY maps a zoomed pixel y back to its unzoomed position.
func (t ZoomTransform) InvertY(py float64) float64 { return (py - t.Y) / t.K }

// Translate shifts the transform by (x, y) in unzoomed units.
func (t ZoomTransform) Translate(x, y float64) ZoomTransform {
	return ZoomTransform{K: t.K, X: t.X + t.K*x, Y: t.Y + t.K*y}
}

// RescaleX returns a copy of the home scale whose domain shows what the
// transform makes visible across the home scale's range.
func (t ZoomTransform) RescaleX(home Scale) Scale {
	r0, r1 := home.Range()
	return home.WithDomain(home.Invert(t.InvertX(r0)), home.Invert(t.InvertX(r1)))
}

// ZoomExtent bounds the zoom factor and keeps the viewport inside the
// translate area.
type ZoomExtent struct {
	MinK, MaxK float64
	// Viewport is the visible area in pixels.
	Viewport Rect
	// Translate is the area the viewport may not leave.
	Translate Rect
}

// DefaultZoomExtent allows 1x to 50x zoom over a w x h frame.
func DefaultZoomExtent(w, h float64) ZoomExtent {
	r := Rect{Width: w, Height: h}
	return ZoomExtent{MinK: 1, MaxK: 50, Viewport: r, Translate: r}
}

// Constrain shifts t so that the viewport stays within the translate extent.
func (e ZoomExtent) Constrain(t ZoomTransform) ZoomTransform {
	dx0 := t.InvertX(e.Viewport.X) - e.Translate.X
	dx1 := t.InvertX(e.Viewport.X+e.Viewport.Width) - (e.Translate.X + e.Translate.Width)
	dy0 := t.InvertY(e.Viewport.Y) - e.Translate.Y
	dy1 := t.InvertY(e.Viewport.Y+e.Viewport.Height) - (e.Translate.Y + e.Translate.Height)
	return t.Translate(constrainShift(dx0, dx1), constrainShift(dy0, dy1))
}

func constrainShift(d0, d1 float64) float64 {
	if d1 > d0 {
		return (d0 + d1) / 2
	}
	if m := math.Min(0, d0); m != 0 {
		return m
	}
	return math.Max(0, d1)
}

// ScaleBy multiplies the zoom by factor about the pixel (px, py), keeping
// that point fixed on screen, then constrains the result.
func (e ZoomExtent) ScaleBy(t ZoomTransform, factor, px, py float64) ZoomTransform {
	k := math.Max(e.MinK, math.Min(e.MaxK, t.K*factor))
	wx := t.InvertX(px)
	wy := t.InvertY(py)
	return e.Constrain(ZoomTransform{K: k, X: px - wx*k, Y: py - wy*k})
}

// TranslateBy pans by (dx, dy) screen pixels, then constrains the result.
func (e ZoomExtent) TranslateBy(t ZoomTransform, dx, dy float64) ZoomTransform {
	return e.Constrain(ZoomTransform{K: t.K, X: t.X + dx, Y: t.Y + dy})
}

// Scales is the shared coordinate pair: X is the live scale affected by
// zoom, X0 is the home scale the zoom transform is based on. X0 never
// changes after SetSampleCount.
type Scales struct {
	X  Scale
	X0 Scale

	transform ZoomTransform
	resetT    ZoomTransform
	reset     *TweenGroup
}

// NewScales creates an unset scale pair (domain [0, 1]) spanning width
// pixels, rounding forward mappings to whole pixels.
func NewScales(width float64) *Scales {
	x := Scale{d0: 0, d1: 1, r0: 0, r1: width, Round: true}
	return &Scales{X: x, X0: x, transform: IdentityTransform}
}

// SetSampleCount sets both domains to [0, n) and drops any zoom.
func (s *Scales) SetSampleCount(n int) {
	s.X0 = s.X0.WithDomain(0, float64(n))
	s.X = s.X0
	s.transform = IdentityTransform
	s.reset = nil
}

// IsDomainSet reports whether the live scale has a real domain, i.e. one
// different from the default [0, 1].
func (s *Scales) IsDomainSet() bool {
	d0, d1 := s.X.Domain()
	return !(d0 == 0 && d1 == 1)
}

// Transform returns the current zoom transform.
func (s *Scales) Transform() ZoomTransform {
	return s.transform
}

// ApplyZoom stores t and recomputes the live domain from the home scale.
func (s *Scales) ApplyZoom(t ZoomTransform) {
	s.transform = t
	s.X = t.RescaleX(s.X0)
}

// ResetZoom animates the transform back to identity over duration seconds.
func (s *Scales) ResetZoom(duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	s.resetT = s.transform
	s.reset = TweenTransform(&s.resetT, IdentityTransform, duration, easeFn)
}

// Animating reports whether a zoom reset is in progress.
func (s *Scales) Animating() bool {
	return s.reset != nil
}

// update advances a running zoom reset. Returns true if the live scale changed.
func (s *Scales) update(dt float32) bool {
	if s.reset == nil {
		return false
	}
	s.reset.Update(dt)
	s.ApplyZoom(s.resetT)
	if s.reset.Done {
		s.ApplyZoom(IdentityTransform)
		s.reset = nil
	}
	return true
}

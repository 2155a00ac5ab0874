package databar

import "math"

// DepthSource supplies the per-sample energy values that shape the pour
// depth field.
type DepthSource interface {
	// HasEnergy reports whether any energy values are available.
	HasEnergy() bool
	// At returns the energy at a (possibly fractional) sample index.
	At(sample float64) float64
}

// EnergySeries is a DepthSource backed by one value per sample.
type EnergySeries []float64

// HasEnergy reports whether the series is non-empty.
func (e EnergySeries) HasEnergy() bool { return len(e) > 0 }

// At returns the value at the nearest sample, clamping out-of-range indices
// to the first or last value.
func (e EnergySeries) At(sample float64) float64 {
	if len(e) == 0 {
		return 0
	}
	i := int(math.Round(sample))
	i = max(0, min(len(e)-1, i))
	return e[i]
}

// Extent returns the minimum and maximum energy.
func (e EnergySeries) Extent() (lo, hi float64) {
	if len(e) == 0 {
		return 0, 0
	}
	lo, hi = e[0], e[0]
	for _, v := range e[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// DepthScale maps energy values to frame pixel rows: the lowest energy sits
// at the bottom of the frame and the highest at the top.
type DepthScale struct {
	Source DepthSource
	Y      Scale
}

// NewDepthScale builds a DepthScale over src spanning a frame of the given
// height. lo and hi are the energy extent.
func NewDepthScale(src DepthSource, lo, hi, height float64) DepthScale {
	return DepthScale{Source: src, Y: NewScale(lo, hi, height, 0)}
}

// NewSeriesDepthScale is NewDepthScale using the series' own extent.
func NewSeriesDepthScale(e EnergySeries, height float64) DepthScale {
	lo, hi := e.Extent()
	return NewDepthScale(e, lo, hi, height)
}

// HasEnergy reports whether the underlying source has values.
func (d DepthScale) HasEnergy() bool {
	return d.Source != nil && d.Source.HasEnergy()
}

// Field returns y = depth(px) for frame-local pixel x under the live scale x.
func (d DepthScale) Field(x Scale) func(px float64) float64 {
	return func(px float64) float64 {
		return d.Y.Map(d.Source.At(x.Invert(px)))
	}
}

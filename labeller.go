package databar

import (
	"cmp"
	"errors"
	"slices"
)

// DefaultLabelWidth is the pixel width of a label created by a click.
const DefaultLabelWidth = 50

var (
	// ErrDomainNotSet is returned by edits attempted before the live scale
	// has a real domain.
	ErrDomainNotSet = errors.New("databar: coordinate domain not set")
	// ErrNoLabel is returned when an edit targets a nil label.
	ErrNoLabel = errors.New("databar: no label")
	// ErrDuplicateLabel is returned when Add would create a label with the
	// same start and end as an existing one.
	ErrDuplicateLabel = errors.New("databar: label already exists")
	// ErrNoRoom is returned when Add is centered inside an existing label
	// or between two touching ones.
	ErrNoRoom = errors.New("databar: no room for label")
)

// Labeller is the only writer of label geometry. Every edit is clamped
// against the edges of all other non-selected labels, so no two
// non-selected labels ever overlap.
type Labeller struct {
	stream *LabelStream
	scales *Scales
	// FixedWidth is the pixel width used by Add when size <= 0.
	FixedWidth float64

	others []*Label
}

// NewLabeller creates a Labeller editing stream in the coordinate space of
// scales.
func NewLabeller(stream *LabelStream, scales *Scales) *Labeller {
	return &Labeller{stream: stream, scales: scales, FixedWidth: DefaultLabelWidth}
}

// Stream returns the stream being edited.
func (lb *Labeller) Stream() *LabelStream { return lb.stream }

// Labels returns the stream's labels.
func (lb *Labeller) Labels() []*Label { return lb.stream.Labels() }

// Selected returns the selected label, or nil.
func (lb *Labeller) Selected() *Label { return lb.stream.Selected() }

func (lb *Labeller) ready(op string) error {
	if !lb.scales.IsDomainSet() {
		logger().Warn("edit before domain set", "op", op, "stream", lb.stream.Name())
		return ErrDomainNotSet
	}
	return nil
}

// Deselect clears the selection. A selected label of zero width is an
// abandoned click-label and is deleted first.
func (lb *Labeller) Deselect() {
	if sel := lb.Selected(); sel != nil && zeroWidth(sel) {
		lb.Delete(sel)
	}
	for _, l := range lb.stream.Labels() {
		l.Selected = false
	}
	lb.stream.Emit(EventDeselect, nil)
}

// Select makes lbl the only selected label.
func (lb *Labeller) Select(lbl *Label) {
	if lbl == nil {
		return
	}
	logger().Debug("selected label", "id", lbl.ID, "start", lbl.Start, "end", lbl.End)
	for _, l := range lb.stream.Labels() {
		l.Selected = false
	}
	lbl.Selected = true
	lb.stream.Emit(EventSelect, lbl)
}

// Move shifts lbl by dx pixels, keeping its width. Only the leading edge
// (left when dx < 0, right otherwise) is clamped against other labels; the
// trailing edge follows at the same sample-space width.
func (lb *Labeller) Move(lbl *Label, dx float64) error {
	if lbl == nil {
		return ErrNoLabel
	}
	if err := lb.ready("move"); err != nil {
		return err
	}
	if dx == 0 {
		return nil
	}
	x := lb.scales.X
	shift := x.Invert(dx) - x.Invert(0)
	w := lbl.End - lbl.Start

	var xs, xe float64
	if dx < 0 {
		xs = lb.overlaps(lbl.Start+shift, lbl.Start, SideLeft, lbl)
		xe = min(xs+w, lbl.End)
	} else {
		xe = lb.overlaps(lbl.End+shift, lbl.Start, SideRight, lbl)
		xs = max(xe-w, lbl.Start)
	}
	lbl.Start = xs
	lbl.End = xe
	lb.stream.Emit(EventMove, lbl)
	return nil
}

// Resize drags one edge of lbl to the pixel position px. The edge can
// neither cross the opposite edge nor enter another label.
func (lb *Labeller) Resize(lbl *Label, side Side, px float64) error {
	if lbl == nil {
		return ErrNoLabel
	}
	if err := lb.ready("resize"); err != nil {
		return err
	}
	dx := lb.scales.X.Invert(px)
	dx = minWidth(dx, lbl, side)
	dx = lb.overlaps(dx, lbl.Start, side, lbl)
	if side == SideLeft {
		lbl.Start = dx
	} else {
		lbl.End = dx
	}
	lb.stream.Emit(EventResize, lbl)
	return nil
}

// Delete removes lbl from the stream.
func (lb *Labeller) Delete(lbl *Label) {
	if lbl == nil {
		return
	}
	lb.stream.Remove(lbl)
	lb.stream.Emit(EventDelete, lbl)
}

// Add creates a label of type key centered on pixel px, size pixels wide
// (FixedWidth when size <= 0), clamped against existing labels.
func (lb *Labeller) Add(px float64, key TypeKey, size float64) (*Label, error) {
	if err := lb.ready("add"); err != nil {
		return nil, err
	}
	start, end := lb.Bounds(px, size)
	if end <= start {
		logger().Warn("no room for label", "x", px, "start", start, "end", end)
		return nil, ErrNoRoom
	}
	lbl := lb.stream.Add(Label{
		Start: start,
		End:   end,
		Label: key,
		Type:  lb.stream.EventMap().Get(key),
	})
	if lbl == nil {
		return nil, ErrDuplicateLabel
	}
	lb.stream.Emit(EventAdd, lbl)
	return lbl, nil
}

// Grow extends lbl to cover the pixel span [sx, ex]. Each edge is clamped
// independently and the label never shrinks.
func (lb *Labeller) Grow(lbl *Label, sx, ex float64) (*Label, error) {
	if lbl == nil {
		return nil, ErrNoLabel
	}
	if err := lb.ready("grow"); err != nil {
		return lbl, err
	}
	x := lb.scales.X
	start := lb.overlaps(x.Invert(sx), lbl.Start, SideLeft, lbl)
	end := lb.overlaps(x.Invert(ex), lbl.Start, SideRight, lbl)
	lbl.Start = min(start, lbl.Start)
	lbl.End = max(end, lbl.End)
	lb.stream.Emit(EventGrow, lbl)
	return lbl, nil
}

// GrowTo extends one edge of lbl outward to pixel px, clamped against other
// labels. The edge never moves inward.
func (lb *Labeller) GrowTo(lbl *Label, side Side, px float64) error {
	if lbl == nil {
		return ErrNoLabel
	}
	if err := lb.ready("grow"); err != nil {
		return err
	}
	dx := lb.overlaps(lb.scales.X.Invert(px), lbl.Start, side, lbl)
	if side == SideLeft {
		lbl.Start = min(dx, lbl.Start)
	} else {
		lbl.End = max(dx, lbl.End)
	}
	lb.stream.Emit(EventGrow, lbl)
	return nil
}

// ChangeLabel retypes lbl.
func (lb *Labeller) ChangeLabel(lbl *Label, key TypeKey) {
	if lbl == nil {
		return
	}
	lbl.Label = key
	lbl.Type = lb.stream.EventMap().Get(key)
	lb.stream.Emit(EventChangeLabel, lbl)
}

// Bounds returns the sample-space extent a label of size pixels centered on
// px would get, clamped against existing labels. When px lies inside a
// label the result is empty (end <= start).
func (lb *Labeller) Bounds(px, size float64) (start, end float64) {
	if size <= 0 {
		size = lb.FixedWidth
	}
	x := lb.scales.X
	center := x.Invert(px)
	start = x.Invert(px - size/2)
	end = x.Invert(px + size/2)
	start = lb.overlaps(start, center, SideLeft, nil)
	end = lb.overlaps(end, center, SideRight, nil)
	return start, end
}

// overlaps clamps a candidate edge position dx so that the label starting at
// subjectStart neither enters nor swallows another label. The selected
// label and self are ignored. Candidates are visited nearest edge first and
// the first match wins, so the result does not depend on storage order.
//
// The two sides use different "swallow" conditions: a label whose start
// ties subjectStart is ahead on the right side only when it has width, and
// behind on the left side only when it has none.
func (lb *Labeller) overlaps(dx, subjectStart float64, side Side, self *Label) float64 {
	lb.others = lb.others[:0]
	for _, l := range lb.stream.Labels() {
		if !l.Selected && l != self {
			lb.others = append(lb.others, l)
		}
	}
	defer clear(lb.others)

	if side == SideLeft {
		slices.SortFunc(lb.others, func(a, b *Label) int { return cmp.Compare(b.End, a.End) })
		for _, l := range lb.others {
			if dx > l.Start && dx < l.End {
				return l.End
			}
			behind := l.Start < subjectStart || (l.Start == subjectStart && zeroWidth(l))
			if dx <= l.Start && behind {
				return l.End
			}
		}
		return dx
	}

	slices.SortFunc(lb.others, func(a, b *Label) int { return cmp.Compare(a.Start, b.Start) })
	for _, l := range lb.others {
		if dx > l.Start && dx < l.End {
			return l.Start
		}
		ahead := subjectStart < l.Start || (subjectStart == l.Start && !zeroWidth(l))
		if dx >= l.End && ahead {
			return l.Start
		}
	}
	return dx
}

// minWidth keeps the dragged edge from crossing the stationary one.
func minWidth(dx float64, lbl *Label, side Side) float64 {
	if side == SideLeft && dx > lbl.End {
		dx = lbl.End
	}
	if side == SideRight && dx < lbl.Start {
		dx = lbl.Start
	}
	return dx
}

func zeroWidth(l *Label) bool { return l.Start == l.End }

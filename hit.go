package databar

// HandleWidth is the pixel width of the drag handles drawn on the edges of
// the selected label.
const HandleWidth = 10

// HitKind classifies what a frame-local point is over.
type HitKind uint8

const (
	HitNone   HitKind = iota // empty frame or outside it
	HitLabel                 // a label body
	HitHandle                // a drag handle of the selected label
)

// Hit is the result of a hit test.
type Hit struct {
	Kind  HitKind
	Label *Label
	// Side is the edge a handle belongs to. Only valid for HitHandle.
	Side Side
}

// OverLabel reports whether the point is over a label or one of its handles.
func (h Hit) OverLabel() bool { return h.Kind != HitNone }

// HandleRect returns the pixel rectangle of the handle on the given edge of
// lbl, spanning the full frame height.
func HandleRect(lbl *Label, x Scale, height float64, side Side) Rect {
	edge := lbl.Start
	if side == SideRight {
		edge = lbl.End
	}
	px := x.Map(edge)
	return Rect{X: px - HandleWidth/2, Y: 0, Width: HandleWidth, Height: height}
}

// LabelRect returns the pixel rectangle covered by lbl.
func LabelRect(lbl *Label, x Scale, height float64) Rect {
	x0, x1 := x.Map(lbl.Start), x.Map(lbl.End)
	return Rect{X: x0, Y: 0, Width: x1 - x0, Height: height}
}

// HitTest finds what the frame-local point (px, py) is over. Handles of the
// selected label are checked first since they are drawn on top; among
// labels the last one in the list wins.
func HitTest(labels []*Label, x Scale, height, px, py float64) Hit {
	if py < 0 || py > height {
		return Hit{}
	}
	for _, l := range labels {
		if !l.Selected {
			continue
		}
		if HandleRect(l, x, height, SideLeft).Contains(px, py) {
			return Hit{Kind: HitHandle, Label: l, Side: SideLeft}
		}
		if HandleRect(l, x, height, SideRight).Contains(px, py) {
			return Hit{Kind: HitHandle, Label: l, Side: SideRight}
		}
	}
	for i := len(labels) - 1; i >= 0; i-- {
		if LabelRect(labels[i], x, height).Contains(px, py) {
			return Hit{Kind: HitLabel, Label: labels[i]}
		}
	}
	return Hit{}
}

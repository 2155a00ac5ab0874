package databar

import "time"

// DragBehavior moves labels by their body and resizes the selected label by
// its handles.
type DragBehavior struct {
	labeller *Labeller
	mode     *ModeTracker

	active   *Label
	resizing bool
	side     Side
	started  time.Time
}

// NewDragBehavior wires a drag behavior.
func NewDragBehavior(labeller *Labeller, mode *ModeTracker) *DragBehavior {
	return &DragBehavior{labeller: labeller, mode: mode}
}

// Active reports whether a label drag is in progress.
func (d *DragBehavior) Active() bool { return d.active != nil }

// Start begins a drag on hit. Handles resize in any mode; label bodies only
// move in Selection mode. Returns false if the gesture is not a label drag.
func (d *DragBehavior) Start(hit Hit) bool {
	switch {
	case hit.Kind == HitHandle:
		d.active, d.resizing, d.side = hit.Label, true, hit.Side
	case hit.Kind == HitLabel && d.mode.Selection():
		d.active, d.resizing = hit.Label, false
	default:
		return false
	}
	d.started = time.Now()
	return true
}

// Drag applies one pointer step: x is the frame-local pointer x and dx the
// horizontal movement since the previous step.
func (d *DragBehavior) Drag(x, dx float64) {
	if d.active == nil {
		return
	}
	var err error
	if d.resizing {
		err = d.labeller.Resize(d.active, d.side, x)
	} else if d.mode.Selection() {
		err = d.labeller.Move(d.active, dx)
	}
	if err != nil {
		logger().Warn("drag rejected", "label", d.active.ID, "err", err)
	}
}

// End finishes the drag and logs its duration.
func (d *DragBehavior) End() {
	if d.active == nil {
		return
	}
	op := "move"
	if d.resizing {
		op = "resize"
	}
	logger().Debug(op+" end", "label", d.active.ID, "side", d.side.String(), "elapsed", time.Since(d.started))
	d.active = nil
	d.resizing = false
}

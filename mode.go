package databar

// ToolMode selects how pointer input is interpreted.
type ToolMode uint8

const (
	ModeSelection ToolMode = iota // select, move and resize labels; pan the frame
	ModeClick                     // click to create or relabel
	ModePour                      // hold to pour a label
)

var modeNames = [...]string{"selection", "click", "pour"}

func (m ToolMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Next returns the mode that follows m in the fixed cycle
// Selection → Click → Pour → Selection.
func (m ToolMode) Next() ToolMode {
	switch m {
	case ModeSelection:
		return ModeClick
	case ModeClick:
		return ModePour
	default:
		return ModeSelection
	}
}

type modeHandler struct {
	id uint32
	fn func(ToolMode)
}

// ModeHandle allows removing a registered mode observer.
type ModeHandle struct {
	id      uint32
	tracker *ModeTracker
}

// Remove unregisters the observer.
func (h ModeHandle) Remove() {
	if h.tracker == nil {
		return
	}
	t := h.tracker
	for i := range t.handlers {
		if t.handlers[i].id == h.id {
			t.handlers = append(t.handlers[:i], t.handlers[i+1:]...)
			return
		}
	}
}

// ModeTracker is the single authoritative holder of the current ToolMode.
type ModeTracker struct {
	current  ToolMode
	handlers []modeHandler
	nextID   uint32
}

// NewModeTracker starts in Selection mode.
func NewModeTracker() *ModeTracker {
	return &ModeTracker{current: ModeSelection}
}

// Current returns the active mode.
func (t *ModeTracker) Current() ToolMode { return t.current }

// Selection reports whether Selection mode is active.
func (t *ModeTracker) Selection() bool { return t.current == ModeSelection }

// Click reports whether Click mode is active.
func (t *ModeTracker) Click() bool { return t.current == ModeClick }

// Pour reports whether Pour mode is active.
func (t *ModeTracker) Pour() bool { return t.current == ModePour }

// Subscribe registers fn to receive the mode after every change.
func (t *ModeTracker) Subscribe(fn func(ToolMode)) ModeHandle {
	t.nextID++
	t.handlers = append(t.handlers, modeHandler{id: t.nextID, fn: fn})
	return ModeHandle{id: t.nextID, tracker: t}
}

// Update switches directly to mode and notifies observers.
func (t *ModeTracker) Update(mode ToolMode) {
	if mode > ModePour {
		logger().Warn("unexpected tool mode", "mode", int(mode))
		return
	}
	t.current = mode
	for _, h := range t.handlers {
		h.fn(mode)
	}
}

// Cycle advances to the next mode in the fixed order.
func (t *ModeTracker) Cycle() {
	t.Update(t.current.Next())
}

package databar

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Label is a typed interval [Start, End] on the sample axis.
type Label struct {
	Start    float64
	End      float64
	Label    TypeKey
	Type     string
	Selected bool
	ID       int
}

// Width returns End - Start in samples.
func (l *Label) Width() float64 { return l.End - l.Start }

// StreamEventType names a LabelStream mutation.
type StreamEventType string

const (
	EventSetLabels   StreamEventType = "set-labels"
	EventChangeType  StreamEventType = "change-type"
	EventAdd         StreamEventType = "add"
	EventDelete      StreamEventType = "delete"
	EventMove        StreamEventType = "move"
	EventResize      StreamEventType = "resize"
	EventGrow        StreamEventType = "grow"
	EventSelect      StreamEventType = "select"
	EventDeselect    StreamEventType = "deselect"
	EventChangeLabel StreamEventType = "change-label"
	EventRename      StreamEventType = "rename"
)

// isEdit reports whether an event of this type marks the stream changed.
func (t StreamEventType) isEdit() bool {
	return t != EventChangeType && t != EventSetLabels
}

// StreamEvent is delivered to subscribers on every stream mutation.
type StreamEvent struct {
	Type    StreamEventType
	Source  string
	Changed bool
	Target  *Label
}

type streamHandler struct {
	id uint32
	fn func(StreamEvent)
}

// Subscription allows removing a registered stream observer.
type Subscription struct {
	id     uint32
	stream *LabelStream
}

// Remove unregisters the observer so it no longer fires.
func (h Subscription) Remove() {
	if h.stream == nil {
		return
	}
	s := h.stream
	for i := range s.handlers {
		if s.handlers[i].id == h.id {
			copy(s.handlers[i:], s.handlers[i+1:])
			s.handlers[len(s.handlers)-1] = streamHandler{}
			s.handlers = s.handlers[:len(s.handlers)-1]
			return
		}
	}
}

// LabelStream owns the labels and type vocabulary for one signal stream.
// Labels are kept in insertion order; ids come from a per-stream counter
// and are never reused.
type LabelStream struct {
	name     string
	labels   []*Label
	emap     *EventMap
	changed  bool
	current  TypeKey
	nextID   int
	handlers []streamHandler
	nextSub  uint32
}

// NewLabelStream creates a stream for scheme with the given initial labels.
// Ids are assigned densely from 0 and the stream starts unchanged.
func NewLabelStream(name string, scheme *LabelScheme, labels []Label) *LabelStream {
	s := &LabelStream{
		name: name,
		emap: NewEventMap(scheme),
	}
	s.current = s.emap.Initial()
	s.SetLabels(labels)
	s.changed = false
	return s
}

// Name returns the stream name used as the event source.
func (s *LabelStream) Name() string { return s.name }

// EventMap returns the stream's type vocabulary.
func (s *LabelStream) EventMap() *EventMap { return s.emap }

// Scheme returns the scheme the stream was built from.
func (s *LabelStream) Scheme() *LabelScheme { return s.emap.Scheme() }

// Labels returns the live label list. Callers must not append to or
// reorder it; geometry edits go through Labeller.
func (s *LabelStream) Labels() []*Label { return s.labels }

// Len returns the number of labels.
func (s *LabelStream) Len() int { return len(s.labels) }

// IsEmpty reports whether the stream has no labels.
func (s *LabelStream) IsEmpty() bool { return len(s.labels) == 0 }

// Changed reports whether any edit happened since construction or the last
// MarkSaved.
func (s *LabelStream) Changed() bool { return s.changed }

// MarkSaved clears the changed flag.
func (s *LabelStream) MarkSaved() { s.changed = false }

// EventType returns the currently active label type.
func (s *LabelStream) EventType() TypeKey { return s.current }

// Subscribe registers fn to receive every StreamEvent.
func (s *LabelStream) Subscribe(fn func(StreamEvent)) Subscription {
	s.nextSub++
	id := s.nextSub
	s.handlers = append(s.handlers, streamHandler{id: id, fn: fn})
	return Subscription{id: id, stream: s}
}

// Emit notifies observers. Edits (everything except change-type and
// set-labels) set the changed flag.
func (s *LabelStream) Emit(typ StreamEventType, target *Label) {
	s.emit(StreamEvent{Type: typ, Source: s.name, Changed: typ.isEdit(), Target: target})
}

func (s *LabelStream) emit(e StreamEvent) {
	if e.Changed {
		s.changed = true
	}
	for _, h := range s.handlers {
		h.fn(e)
	}
}

// SetLabels replaces all labels, reassigning ids densely from 0. It is a
// load, not an edit, and does not set the changed flag.
func (s *LabelStream) SetLabels(labels []Label) {
	s.labels = make([]*Label, len(labels))
	for i := range labels {
		l := labels[i]
		l.ID = i
		if l.Type == "" {
			l.Type = s.emap.Get(l.Label)
		}
		s.labels[i] = &l
	}
	s.nextID = len(labels)
	s.Emit(EventSetLabels, nil)
}

// Add inserts lbl with the next id. A label whose start and end both equal
// an existing label's is rejected with a warning and Add returns nil.
func (s *LabelStream) Add(lbl Label) *Label {
	if s.exists(lbl) {
		logger().Warn("label already exists", "start", lbl.Start, "end", lbl.End, "stream", s.name)
		return nil
	}
	lbl.ID = s.nextID
	s.nextID++
	p := &lbl
	s.labels = append(s.labels, p)
	return p
}

// Remove deletes the label with lbl's id.
func (s *LabelStream) Remove(lbl *Label) {
	s.labels = slices.DeleteFunc(s.labels, func(l *Label) bool { return l.ID == lbl.ID })
}

// Get returns the label with the given id.
func (s *LabelStream) Get(id int) (*Label, bool) {
	for _, l := range s.labels {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// ChangeType sets the active label type.
func (s *LabelStream) ChangeType(key TypeKey) {
	s.current = key
	s.Emit(EventChangeType, nil)
}

// Cycle advances the active type forward through EventTypes(true),
// wrapping to the first.
func (s *LabelStream) Cycle() {
	types := s.emap.EventTypes(true)
	idx := slices.Index(types, s.current) + 1
	if idx >= len(types) {
		idx = 0
	}
	s.current = types[idx]
	s.Emit(EventChangeType, nil)
}

// CycleDown moves the active type backward, wrapping to the last.
func (s *LabelStream) CycleDown() {
	types := s.emap.EventTypes(true)
	idx := slices.Index(types, s.current) - 1
	if idx < 0 {
		idx = len(types) - 1
	}
	s.current = types[idx]
	s.Emit(EventChangeType, nil)
}

// FindType returns all labels of the given type.
func (s *LabelStream) FindType(key TypeKey) []*Label {
	var out []*Label
	for _, l := range s.labels {
		if l.Label == key {
			out = append(out, l)
		}
	}
	return out
}

// Rename changes the stream and scheme name and marks the stream changed.
func (s *LabelStream) Rename(name string) {
	s.name = name
	s.emap.name = name
	s.Scheme().Name = name
	s.Emit(EventRename, nil)
}

// ApplyScheme merges a reloaded scheme's type names into the vocabulary.
// Keys missing from the new scheme are kept so existing labels still
// resolve. Label display names are refreshed and observers receive a
// change-type event; the stream is not marked changed.
func (s *LabelStream) ApplyScheme(scheme *LabelScheme) {
	for k, name := range scheme.EventMap {
		s.emap.Edit(k, name)
	}
	for _, l := range s.labels {
		l.Type = s.emap.Get(l.Label)
	}
	s.Emit(EventChangeType, nil)
}

// Selected returns the selected label, if any.
func (s *LabelStream) Selected() *Label {
	for _, l := range s.labels {
		if l.Selected {
			return l
		}
	}
	return nil
}

func (s *LabelStream) exists(lbl Label) bool {
	return slices.ContainsFunc(s.labels, func(l *Label) bool {
		return l.Start == lbl.Start && l.End == lbl.End
	})
}

// labelJSON is the serialized form: geometry and type only.
type labelJSON struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label TypeKey `json:"label"`
}

// MarshalJSON encodes the labels as [{start, end, label}, ...] sorted by
// ascending start.
func (s *LabelStream) MarshalJSON() ([]byte, error) {
	out := make([]labelJSON, len(s.labels))
	for i, l := range s.labels {
		out[i] = labelJSON{Start: l.Start, End: l.End, Label: l.Label}
	}
	slices.SortStableFunc(out, func(a, b labelJSON) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
	return json.Marshal(out)
}

// ToJSON returns the serialized labels as a string.
func (s *LabelStream) ToJSON() (string, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseLabels decodes the serialized form produced by MarshalJSON.
func ParseLabels(data []byte) ([]Label, error) {
	var raw []labelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	out := make([]Label, len(raw))
	for i, r := range raw {
		if r.End < r.Start {
			return nil, fmt.Errorf("parse labels: label %d has end %v before start %v", i, r.End, r.Start)
		}
		out[i] = Label{Start: r.Start, End: r.End, Label: r.Label}
	}
	return out, nil
}

package databar

import (
	"slices"
	"strconv"
)

// EventMap is the type vocabulary of a label stream: integer keys mapped to
// display names, plus one reserved null key meaning "unlabeled".
type EventMap struct {
	name      string
	nullLabel TypeKey
	nullEvent string
	types     map[TypeKey]string
	scheme    *LabelScheme
}

// NewEventMap builds an EventMap from a scheme. The scheme's event map is
// copied; later edits do not write back into it.
func NewEventMap(scheme *LabelScheme) *EventMap {
	types := make(map[TypeKey]string, len(scheme.EventMap))
	for k, v := range scheme.EventMap {
		types[k] = v
	}
	return &EventMap{
		name:      scheme.Name,
		nullLabel: scheme.NullLabel,
		nullEvent: NullEvent,
		types:     types,
		scheme:    scheme,
	}
}

// Scheme returns the scheme the map was built from.
func (m *EventMap) Scheme() *LabelScheme { return m.scheme }

// NullLabel returns the reserved null key.
func (m *EventMap) NullLabel() TypeKey { return m.nullLabel }

// NullEvent returns the display name of the null key.
func (m *EventMap) NullEvent() string { return m.nullEvent }

// Initial returns the first registered type, or the null key when the map
// is empty.
func (m *EventMap) Initial() TypeKey {
	if types := m.EventTypes(false); len(types) > 0 {
		return types[0]
	}
	return m.nullLabel
}

// Get returns the display name for key. The null key yields the null
// event name. An unknown key is registered under its decimal string and a
// warning is logged, so stale references heal instead of failing.
func (m *EventMap) Get(key TypeKey) string {
	if m.IsNull(key) {
		return m.nullEvent
	}
	name, ok := m.types[key]
	if !ok {
		logger().Warn("unexpected label key", "key", key, "stream", m.name)
		name = strconv.Itoa(key)
		m.types[key] = name
	}
	return name
}

// Index returns the position of key in EventTypes(true), or -1.
func (m *EventMap) Index(key TypeKey) int {
	return slices.Index(m.EventTypes(true), key)
}

// EventTypes returns the registered keys in ascending order, optionally
// preceded by the null key.
func (m *EventMap) EventTypes(includeNull bool) []TypeKey {
	keys := make([]TypeKey, 0, len(m.types)+1)
	for k := range m.types {
		if k == m.nullLabel {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if includeNull {
		keys = append([]TypeKey{m.nullLabel}, keys...)
	}
	return keys
}

// Add registers name under the next free key (max existing key + 1,
// counting the null key) and returns that key.
func (m *EventMap) Add(name string) TypeKey {
	key := m.nextKey()
	logger().Debug("adding event type", "key", key, "name", name)
	m.types[key] = name
	return key
}

// Remove deletes key and returns the type preceding it in display order as
// the fallback current type. Removing the null key is refused with a
// warning and returns false.
func (m *EventMap) Remove(key TypeKey) (TypeKey, bool) {
	if key == m.nullLabel {
		logger().Warn("cannot delete null label", "key", key, "stream", m.name)
		return m.nullLabel, false
	}
	idx := max(m.Index(key)-1, 0)
	delete(m.types, key)
	return m.EventTypes(true)[idx], true
}

// Edit renames key. Editing the null key renames the null event.
func (m *EventMap) Edit(key TypeKey, name string) TypeKey {
	if m.IsNull(key) {
		m.nullEvent = name
	} else {
		m.types[key] = name
	}
	return key
}

// IsNull reports whether key is the reserved null key.
func (m *EventMap) IsNull(key TypeKey) bool { return key == m.nullLabel }

// IsEmpty reports whether no non-null types are registered.
func (m *EventMap) IsEmpty() bool { return len(m.EventTypes(false)) == 0 }

// Len returns the number of non-null types.
func (m *EventMap) Len() int { return len(m.EventTypes(false)) }

func (m *EventMap) nextKey() TypeKey {
	return slices.Max(m.EventTypes(true)) + 1
}

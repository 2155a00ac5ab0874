package databar

import (
	"fmt"
	"math"
)

// FormatTime renders a millisecond offset as m:ss, or h:mm:ss once it
// reaches an hour.
func FormatTime(ms float64) string {
	total := int64(math.Floor(ms))
	secs := total % 60000 / 1000
	mins := total % 3600000 / 60000
	hours := total / 3600000
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// Tick is one axis tick in frame-local pixels.
type Tick struct {
	Pos   float64
	Value float64
	Text  string
}

// XTicks returns about count ticks for the live scale x, labeled as time
// assuming msPerSample milliseconds per sample.
func XTicks(x Scale, count int, msPerSample float64) []Tick {
	values := x.Ticks(count)
	out := make([]Tick, len(values))
	for i, v := range values {
		out[i] = Tick{Pos: x.Map(v), Value: v, Text: FormatTime(v * msPerSample)}
	}
	return out
}

// YTicks returns about count ticks for the value scale y.
func YTicks(y Scale, count int) []Tick {
	values := y.Ticks(count)
	out := make([]Tick, len(values))
	for i, v := range values {
		out[i] = Tick{Pos: y.Map(v), Value: v, Text: fmt.Sprintf("%g", v)}
	}
	return out
}

package databar

import "time"

// debugStats holds per-frame timing and simulation metrics.
// Only populated when Session.debug is true.
type debugStats struct {
	updateTime time.Duration
	labels     int
	particles  int
	zoom       float64
}

// debugLog records frame stats at debug level, once every 60 frames.
func (s *Session) debugLog(stats debugStats) {
	if !s.debug || s.frames%60 != 0 {
		return
	}
	logger().Debug("frame",
		"frame", s.frames,
		"update", stats.updateTime,
		"labels", stats.labels,
		"particles", stats.particles,
		"zoom", stats.zoom,
		"mode", s.mode.Current().String(),
	)
}

package game

import (
	"time"
)

const (
	perfLowFpsDuration = 3 * time.Second
	perfLogInterval    = 3 * time.Second
)

// maybeLogPerfDrop logs a snapshot once performance alerts have persisted
// for perfLowFpsDuration, at most every perfLogInterval.
func (s *Session) maybeLogPerfDrop() {
	if s.monitor == nil {
		return
	}

	alerts := s.monitor.CheckPerformanceAlerts()
	if len(alerts) == 0 {
		s.perfLowSince = time.Time{}
		s.perfLastLog = time.Time{}
		return
	}

	now := s.now()
	if s.perfLowSince.IsZero() {
		s.perfLowSince = now
		return
	}
	if now.Sub(s.perfLowSince) < perfLowFpsDuration {
		return
	}
	if !s.perfLastLog.IsZero() && now.Sub(s.perfLastLog) < perfLogInterval {
		return
	}

	s.perfLastLog = now
	m := s.monitor.GetCurrentMetrics()
	for _, a := range alerts {
		s.logf("perf: %s (%.1f, threshold %.0f)", a.Message, a.Value, a.Threshold)
	}
	s.logf("perf: frame %s walls %s floor %s sprites %s drawn %d",
		m.LastFrame, m.Walls, m.Floor, m.Sprites, m.SpritesDrawn)
}

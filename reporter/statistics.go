package reporter

import (
	"sync/atomic"
)

// Statistics tracks throughput for one run of the sender. Counting only
// starts once the first second boundary has been seen, so the average never
// divides by zero. The sender is the only writer; the counters are atomic so
// other reporters can sample them.
type Statistics struct {
	secondsElapsed uint64
	eventsSent     uint64
	reports        uint64
	started        uint32
}

// A Snapshot is a point-in-time copy of the Statistics
type Snapshot struct {
	Report         uint64
	EventsSent     uint64
	SecondsElapsed uint64
	Average        uint64
}

// NewStatistics returns zeroed Statistics
func NewStatistics() *Statistics {
	return &Statistics{}
}

// SecondElapsed records a second boundary
func (s *Statistics) SecondElapsed() {
	atomic.StoreUint32(&s.started, 1)
	atomic.AddUint64(&s.secondsElapsed, 1)
}

// EventSent counts an event if the first second boundary has passed
func (s *Statistics) EventSent() {
	if atomic.LoadUint32(&s.started) == 0 {
		return
	}
	atomic.AddUint64(&s.eventsSent, 1)
}

// ReportDue is true when the elapsed seconds have reached a multiple of the
// interval, which is in seconds.
func (s *Statistics) ReportDue(interval uint64) bool {
	if interval < 1 {
		interval = 1
	}

	seconds := atomic.LoadUint64(&s.secondsElapsed)
	return seconds > 0 && seconds%interval == 0
}

// NextReport bumps the report counter and returns the numbers to report
func (s *Statistics) NextReport() Snapshot {
	atomic.AddUint64(&s.reports, 1)
	return s.Snapshot()
}

// Snapshot returns the current numbers without counting a report
func (s *Statistics) Snapshot() Snapshot {
	snap := Snapshot{
		Report:         atomic.LoadUint64(&s.reports),
		EventsSent:     atomic.LoadUint64(&s.eventsSent),
		SecondsElapsed: atomic.LoadUint64(&s.secondsElapsed),
	}

	if snap.SecondsElapsed > 0 {
		snap.Average = snap.EventsSent / snap.SecondsElapsed
	}

	return snap
}

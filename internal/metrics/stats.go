package metrics

import (
	"sync/atomic"
	"time"
)

// Stats holds per-run counters. Fields are updated with sync/atomic while
// workers run; read them through Snapshot.
type Stats struct {
	Total       int64
	Processed   int64
	Matched     int64
	Missing     int64
	Mismatched  int64
	Unreadable  int64
	MissingDirs int64
	BytesHashed int64

	Started  time.Time
	Finished time.Time
}

func (s *Stats) Start() { s.Started = time.Now() }
func (s *Stats) Stop()  { s.Finished = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Started.IsZero() {
		return 0
	}
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}

func (s *Stats) Failed() int64 {
	return atomic.LoadInt64(&s.Missing) +
		atomic.LoadInt64(&s.Mismatched) +
		atomic.LoadInt64(&s.Unreadable) +
		atomic.LoadInt64(&s.MissingDirs)
}

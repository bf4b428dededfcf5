package metrics

import (
	"fmt"
	"io"
	"sync/atomic"
)

type Snapshot struct {
	DurationMs  int64
	Total       int64
	Processed   int64
	Matched     int64
	Missing     int64
	Mismatched  int64
	Unreadable  int64
	MissingDirs int64
	BytesHashed int64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		DurationMs:  s.Duration().Milliseconds(),
		Total:       atomic.LoadInt64(&s.Total),
		Processed:   atomic.LoadInt64(&s.Processed),
		Matched:     atomic.LoadInt64(&s.Matched),
		Missing:     atomic.LoadInt64(&s.Missing),
		Mismatched:  atomic.LoadInt64(&s.Mismatched),
		Unreadable:  atomic.LoadInt64(&s.Unreadable),
		MissingDirs: atomic.LoadInt64(&s.MissingDirs),
		BytesHashed: atomic.LoadInt64(&s.BytesHashed),
	}
}

func Print(w io.Writer, s *Stats) {
	snap := s.Snapshot()

	fmt.Fprintln(w, "--- stats ---")
	fmt.Fprintln(w, "duration_ms:", snap.DurationMs)
	fmt.Fprintln(w, "total:", snap.Total)
	fmt.Fprintln(w, "processed:", snap.Processed)
	fmt.Fprintln(w, "matched:", snap.Matched)
	fmt.Fprintln(w, "missing:", snap.Missing)
	fmt.Fprintln(w, "mismatched:", snap.Mismatched)
	fmt.Fprintln(w, "unreadable:", snap.Unreadable)
	fmt.Fprintln(w, "missing_dirs:", snap.MissingDirs)
	fmt.Fprintln(w, "bytes_hashed:", snap.BytesHashed)

	if snap.DurationMs > 0 {
		secs := float64(snap.DurationMs) / 1000.0
		bps := float64(snap.BytesHashed) / secs
		fmt.Fprintln(w, "throughput_bytes_per_sec:", bps)
		fmt.Fprintln(w, "throughput_mb_per_sec:", bps/1_000_000.0)
	}
}

package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	s := &Stats{Total: 4, Processed: 4, Matched: 1, Missing: 1, Mismatched: 1, Unreadable: 1, BytesHashed: 2_000_000}
	s.Started = time.Now().Add(-2 * time.Second)
	s.Finished = s.Started.Add(2 * time.Second)

	var buf bytes.Buffer
	Print(&buf, s)

	out := buf.String()
	assert.Contains(t, out, "total: 4")
	assert.Contains(t, out, "mismatched: 1")
	assert.Contains(t, out, "duration_ms: 2000")
	assert.Contains(t, out, "throughput_mb_per_sec: 1")
	assert.Equal(t, int64(3), s.Failed())
}

func TestDuration_NotStarted(t *testing.T) {
	var s Stats
	assert.Zero(t, s.Duration())
	assert.Zero(t, s.Snapshot().DurationMs)
}

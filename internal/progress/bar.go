package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"treeverify/internal/metrics"
)

type SnapshotFn func() metrics.Snapshot

// Bar renders per-file progress. FileDone is safe for concurrent use. Counts
// are drained by one goroutine and the description is refreshed by a ticker;
// both rely on progressbar's own locking.
type Bar struct {
	bar  *progressbar.ProgressBar
	ch   chan int64
	done chan struct{}
	stop chan struct{}

	snap   SnapshotFn
	lastB  int64
	lastAt time.Time
}

func New(w io.Writer, totalFiles int64, snap SnapshotFn) *Bar {
	b := &Bar{
		ch:     make(chan int64, 16384),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
		snap:   snap,
		lastAt: time.Now(),
	}

	b.bar = progressbar.NewOptions64(
		totalFiles,
		progressbar.OptionSetWriter(w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription("verifying"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
	)
	_ = b.bar.RenderBlank()

	go func() {
		defer close(b.done)
		for n := range b.ch {
			_ = b.bar.Add64(n)
		}
		_ = b.bar.Finish()
	}()

	go func() {
		t := time.NewTicker(1 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				b.updateDescription()
			case <-b.stop:
				return
			}
		}
	}()

	return b
}

func (b *Bar) FileDone() {
	b.ch <- 1
}

// Close drains pending updates and waits for the final render.
func (b *Bar) Close() {
	close(b.stop)
	close(b.ch)
	<-b.done
}

func (b *Bar) updateDescription() {
	if b.snap == nil {
		return
	}
	s := b.snap()

	now := time.Now()
	dt := now.Sub(b.lastAt).Seconds()

	mbps := 0.0
	if dt > 0 {
		mbps = (float64(s.BytesHashed-b.lastB) / 1_000_000.0) / dt
	}
	b.lastB = s.BytesHashed
	b.lastAt = now

	b.bar.Describe(fmt.Sprintf("verifying %d/%d | ok=%d missing=%d mismatch=%d unreadable=%d | %.1f MB/s",
		s.Processed, s.Total, s.Matched, s.Missing, s.Mismatched, s.Unreadable, mbps,
	))
}

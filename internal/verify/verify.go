package verify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"treeverify/internal/manifest"
)

// checkObligation is swapped in tests.
var checkObligation = Check

// Verify checks root against the manifest directory dir. Every obligation is
// resolved before it returns; a failure never stops the others. Discrepancy
// order is unspecified.
func Verify(ctx context.Context, root string, dir *manifest.Node, opts Options) *Report {
	return VerifyWorklist(ctx, root, Collect(root, dir), opts)
}

// VerifyWorklist is Verify over an already collected worklist. The tree is
// not walked again, so the checked set is exactly wl.
func VerifyWorklist(ctx context.Context, root string, wl Worklist, opts Options) *Report {
	opts = opts.withDefaults()
	started := time.Now()

	res := &Report{
		RunID:   uuid.NewString(),
		Root:    root,
		Checked: len(wl.Obligations),
	}
	log := opts.Logger.With(zap.String("run_id", res.RunID), zap.String("root", root))

	stats := opts.Stats
	atomic.AddInt64(&stats.Total, int64(len(wl.Obligations)))

	log.Info("verification started",
		zap.Int("files", len(wl.Obligations)),
		zap.Int("missing_dirs", len(wl.MissingDirs)),
		zap.Int("workers", opts.Workers),
		zap.Bool("strict", opts.Strict),
	)

	var mu sync.Mutex
	record := func(d Discrepancy) {
		log.Debug("discrepancy",
			zap.String("path", d.RelPath),
			zap.Stringer("kind", d.Kind),
			zap.Error(d.Err),
		)
		mu.Lock()
		res.Discrepancies = append(res.Discrepancies, d)
		mu.Unlock()
	}

	for _, rel := range wl.MissingDirs {
		if !opts.Strict {
			log.Debug("skipping absent directory", zap.String("path", rel))
			continue
		}
		atomic.AddInt64(&stats.MissingDirs, 1)
		record(Discrepancy{RelPath: rel, Outcome: Outcome{Kind: MissingDirectory}})
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for _, ob := range wl.Obligations {
		g.Go(func() error {
			octx, cancel := ctx, context.CancelFunc(func() {})
			if opts.Timeout > 0 {
				octx, cancel = context.WithTimeout(ctx, opts.Timeout)
			}
			out := checkObligation(octx, ob, opts)
			cancel()

			switch out.Kind {
			case Match:
				atomic.AddInt64(&stats.Matched, 1)
			case Missing:
				atomic.AddInt64(&stats.Missing, 1)
			case DigestMismatch:
				atomic.AddInt64(&stats.Mismatched, 1)
			default:
				atomic.AddInt64(&stats.Unreadable, 1)
			}
			if out.Kind != Match {
				record(Discrepancy{RelPath: ob.RelPath, Outcome: out})
			}

			atomic.AddInt64(&stats.Processed, 1)
			if opts.Progress != nil {
				opts.Progress.FileDone()
			}
			// Failures are reported as outcomes.
			return nil
		})
	}
	_ = g.Wait()

	res.AllMatched = len(res.Discrepancies) == 0
	res.Duration = time.Since(started)

	log.Info("verification finished",
		zap.Bool("all_matched", res.AllMatched),
		zap.Int("discrepancies", len(res.Discrepancies)),
		zap.Duration("duration", res.Duration),
	)
	return res
}

package verify

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync/atomic"
)

// Check resolves one obligation. It never returns an error: every failure
// is folded into the Outcome.
func Check(ctx context.Context, ob Obligation, opts Options) Outcome {
	out := Outcome{Expected: ob.Expected}
	if opts.Algorithm == "" {
		opts.Algorithm = DefaultAlgorithm
	}

	if _, err := os.Stat(ob.AbsPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			out.Kind = Missing
			return out
		}
		out.Kind = Unreadable
		out.Err = err
		return out
	}

	var onProgress func(int64)
	if opts.Stats != nil {
		onProgress = func(n int64) {
			atomic.AddInt64(&opts.Stats.BytesHashed, n)
		}
	}

	actual, err := FileHashHex(ctx, ob.AbsPath, opts.Algorithm, opts.ChunkSize, onProgress)
	if err != nil {
		out.Kind = Unreadable
		out.Err = err
		return out
	}

	out.Actual = actual
	if !strings.EqualFold(actual, strings.TrimSpace(ob.Expected)) {
		out.Kind = DigestMismatch
		return out
	}
	out.Kind = Match
	return out
}

package verify

import (
	"time"

	"go.uber.org/zap"

	"treeverify/internal/metrics"
	"treeverify/internal/progress"
)

const (
	DefaultWorkers   = 8
	DefaultChunkSize = 64 << 10
	DefaultAlgorithm = "SHA256"
)

// Obligation is one file check derived from the manifest.
type Obligation struct {
	AbsPath  string
	RelPath  string
	Expected string
}

// Worklist is the flattened manifest. MissingDirs lists manifest directories
// with no directory on disk; their files are not in Obligations.
type Worklist struct {
	Obligations []Obligation
	MissingDirs []string
}

type OutcomeKind int

const (
	Match OutcomeKind = iota
	Missing
	DigestMismatch
	Unreadable
	MissingDirectory
)

func (k OutcomeKind) String() string {
	switch k {
	case Match:
		return "match"
	case Missing:
		return "missing"
	case DigestMismatch:
		return "digest_mismatch"
	case Unreadable:
		return "unreadable"
	case MissingDirectory:
		return "missing_directory"
	default:
		return "unknown"
	}
}

type Outcome struct {
	Kind     OutcomeKind
	Expected string
	Actual   string
	Err      error
}

type Discrepancy struct {
	RelPath string
	Outcome
}

type Report struct {
	RunID         string
	Root          string
	AllMatched    bool
	Checked       int
	Discrepancies []Discrepancy
	Duration      time.Duration
}

type Options struct {
	Workers   int
	ChunkSize int
	Algorithm string
	// Timeout bounds each obligation. Zero means no deadline.
	Timeout time.Duration
	// Strict reports manifest directories that are absent on disk.
	Strict bool

	Stats    *metrics.Stats
	Progress *progress.Bar
	Logger   *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Stats == nil {
		o.Stats = &metrics.Stats{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

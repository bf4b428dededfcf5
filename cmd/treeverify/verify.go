package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"treeverify/internal/manifest"
	"treeverify/internal/metrics"
	"treeverify/internal/progress"
	"treeverify/internal/verify"
)

func newVerifyCmd() *cobra.Command {
	var (
		manifestPath string
		root         string
		workers      int
		chunkSize    int
		algorithm    string
		strict       bool
		showProgress bool
		showStats    bool
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check every file in the manifest against the tree under --root",
		Long: `Walks the manifest, hashes every expected file under --root with a bounded
worker pool and prints every discrepancy. Exits 1 if anything differs.

Manifest directories that do not exist on disk are skipped without reporting
the files inside them; pass --strict to report them as missing directories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("manifest") {
				cfg.Manifest = manifestPath
			}
			if flags.Changed("root") {
				cfg.Root = root
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("chunk-size") {
				cfg.ChunkSize = chunkSize
			}
			if flags.Changed("algorithm") {
				cfg.Algorithm = algorithm
			}
			if flags.Changed("timeout") {
				cfg.Timeout = timeout
			}
			if flags.Changed("strict") {
				cfg.Strict = strict
			}
			if flags.Changed("progress") {
				cfg.Progress = showProgress
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Manifest == "" || cfg.Root == "" {
				return fmt.Errorf("both --manifest and --root are required")
			}

			tree, err := loadManifest(cfg.Manifest, cfg.Algorithm)
			if err != nil {
				return err
			}

			info, err := os.Stat(cfg.Root)
			if err != nil {
				return fmt.Errorf("root %s: %w", cfg.Root, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("root %s is not a directory", cfg.Root)
			}

			stats := &metrics.Stats{}
			opts := verify.Options{
				Workers:   cfg.Workers,
				ChunkSize: cfg.ChunkSize,
				Algorithm: cfg.Algorithm,
				Timeout:   cfg.Timeout,
				Strict:    cfg.Strict,
				Stats:     stats,
				Logger:    logger,
			}

			wl := verify.Collect(cfg.Root, tree.Root)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Verifying %d files...\n", len(wl.Obligations))

			if cfg.Progress {
				opts.Progress = progress.New(cmd.ErrOrStderr(), int64(len(wl.Obligations)), stats.Snapshot)
			}

			stats.Start()
			rep := verify.VerifyWorklist(cmd.Context(), cfg.Root, wl, opts)
			stats.Stop()
			if opts.Progress != nil {
				opts.Progress.Close()
			}

			for _, msg := range rep.Messages() {
				fmt.Fprintln(out, msg)
			}
			if showStats {
				metrics.Print(cmd.ErrOrStderr(), stats)
			}

			if !rep.AllMatched {
				fmt.Fprintf(out, "FAILED: %d discrepancies in %d files (run %s)\n",
					len(rep.Discrepancies), atomic.LoadInt64(&stats.Processed), rep.RunID)
				return errFailed
			}
			fmt.Fprintf(out, "OK: %d files match %q\n", rep.Checked, tree.Name)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&manifestPath, "manifest", "m", "", "manifest file (.json, .yaml, .yml)")
	f.StringVarP(&root, "root", "r", "", "directory to verify")
	f.IntVarP(&workers, "workers", "w", 8, "concurrent hashing workers")
	f.IntVar(&chunkSize, "chunk-size", 64<<10, "read size per hash update, in bytes")
	f.StringVar(&algorithm, "algorithm", "SHA256", "hash algorithm (SHA256, SHA1, SHA384, SHA512, MD5)")
	f.DurationVar(&timeout, "timeout", 0, "per-file deadline, e.g. 30s (0 disables)")
	f.BoolVar(&strict, "strict", false, "report manifest directories missing on disk")
	f.BoolVar(&showProgress, "progress", false, "render a progress bar on stderr")
	f.BoolVar(&showStats, "stats", false, "print run statistics on stderr")
	return cmd
}

func loadManifest(path, algorithm string) (manifest.Tree, error) {
	tree, err := manifest.Load(path)
	if err != nil {
		return manifest.Tree{}, err
	}
	hexLen, err := verify.HexLen(algorithm)
	if err != nil {
		return manifest.Tree{}, err
	}
	if err := manifest.Validate(tree.Root, hexLen); err != nil {
		return manifest.Tree{}, err
	}
	return tree, nil
}

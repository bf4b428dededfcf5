package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest PATH",
		Short: "Load and validate a manifest, then summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadManifest(args[0], cfg.Algorithm)
			if err != nil {
				return err
			}

			s := tree.Root.Summarize()
			logger.Debug("manifest loaded", zap.String("path", args[0]), zap.String("tree", tree.Name))
			fmt.Fprintf(cmd.OutOrStdout(), "tree: %s\nfiles: %d\ndirectories: %d\nmax_depth: %d\n",
				tree.Name, s.Files, s.Directories, s.MaxDepth)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"treeverify/internal/verify"
)

func newHashCmd() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "hash FILE...",
		Short: "Print \"digest  path\" lines, sha256sum style",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("algorithm") {
				algorithm = cfg.Algorithm
			}
			for _, p := range args {
				sum, err := verify.FileHashHex(cmd.Context(), p, algorithm, cfg.ChunkSize, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&algorithm, "algorithm", "SHA256", "hash algorithm (SHA256, SHA1, SHA384, SHA512, MD5)")
	return cmd
}

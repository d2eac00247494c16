package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xhad/newsum/pkg/cache"
)

func newCacheCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the summary cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print the cache location and entry count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			c := cache.Open(cfg.Cache.Path)
			fmt.Fprintf(cmd.OutOrStdout(), "Path: %s\nEntries: %d\n", c.Path(), c.Len())
			return nil
		},
	})
	return cmd
}

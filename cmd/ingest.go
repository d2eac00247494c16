package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xhad/newsum/internal/app"
	"github.com/xhad/newsum/pkg/ingest"
)

func newIngestCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "Load scraped articles from a JSON or YAML file into the corpus store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			articles, err := ingest.Load(args[0])
			if err != nil {
				return err
			}
			if len(articles) == 0 {
				color.Yellow("No articles found in %s", args[0])
				return nil
			}

			ctx := cmd.Context()
			st, err := app.OpenStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to open corpus store: %w", err)
			}
			defer st.Close()

			color.Blue("\nStoring %d articles in %s\n", len(articles), cfg.Database.Driver)
			bar := getProgressBar(len(articles), "💾 Storing articles...")
			n, err := ingest.Run(ctx, st, articles, ingest.Config{
				BatchSize: cfg.Database.BatchSize,
				OnProgress: func(done, total int) {
					bar.Set(done)
				},
			})
			bar.Finish()
			if err != nil {
				return err
			}

			color.Green("\n✓ Stored %d articles\n", n)
			return nil
		},
	}
}
